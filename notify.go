package sketch

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Notifier receives short user-visible messages, such as the empty state
// reported when there is no autosave to restore.
type Notifier interface {
	Notify(msg string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(msg string)

// Notify calls f(msg).
func (f NotifierFunc) Notify(msg string) { f(msg) }

// Message keys. The English text doubles as the catalog key.
const (
	msgNoAutosave       = "No autosave found."
	msgAutosaveRestored = "Autosave restored."
)

// SupportedLanguages lists the languages with a message catalog.
var SupportedLanguages = []language.Tag{
	language.English,
	language.BrazilianPortuguese,
}

// translations maps each message key to its text per language.
var translations = map[string]map[language.Tag]string{
	msgNoAutosave: {
		language.English:             msgNoAutosave,
		language.BrazilianPortuguese: "Nenhum salvamento automático encontrado.",
		language.Portuguese:          "Nenhum salvamento automático encontrado.",
	},
	msgAutosaveRestored: {
		language.English:             msgAutosaveRestored,
		language.BrazilianPortuguese: "Salvamento automático restaurado.",
		language.Portuguese:          "Salvamento automático restaurado.",
	},
}

var messages = mustCatalog()

// registerMessages adds every translation to b.
func registerMessages(b *catalog.Builder) error {
	for key, texts := range translations {
		for tag, text := range texts {
			if err := b.SetString(tag, key, text); err != nil {
				return fmt.Errorf("sketch: register message %q for %v: %w", key, tag, err)
			}
		}
	}
	return nil
}

func mustCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	if err := registerMessages(b); err != nil {
		panic(err)
	}
	return b
}

// newPrinter returns a printer for the closest supported language.
func newPrinter(tag language.Tag) *message.Printer {
	matcher := language.NewMatcher(SupportedLanguages)
	_, idx, _ := matcher.Match(tag)
	return message.NewPrinter(SupportedLanguages[idx], message.Catalog(messages))
}
