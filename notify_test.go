package sketch

import (
	"testing"

	"golang.org/x/text/language"
	"golang.org/x/text/message/catalog"
)

func TestPrinterLanguages(t *testing.T) {
	tests := []struct {
		tag  language.Tag
		want string
	}{
		{language.English, "No autosave found."},
		{language.AmericanEnglish, "No autosave found."},
		{language.BrazilianPortuguese, "Nenhum salvamento automático encontrado."},
		{language.Portuguese, "Nenhum salvamento automático encontrado."},
		{language.Japanese, "No autosave found."},
	}
	for _, tt := range tests {
		t.Run(tt.tag.String(), func(t *testing.T) {
			got := newPrinter(tt.tag).Sprintf(msgNoAutosave)
			if got != tt.want {
				t.Errorf("Sprintf(%q) in %v = %q, want %q", msgNoAutosave, tt.tag, got, tt.want)
			}
		})
	}
}

func TestNotifierFunc(t *testing.T) {
	var got string
	var n Notifier = NotifierFunc(func(msg string) { got = msg })
	n.Notify("hello")
	if got != "hello" {
		t.Errorf("Notify delivered %q, want %q", got, "hello")
	}
}

func TestRegisterMessages(t *testing.T) {
	if err := registerMessages(catalog.NewBuilder()); err != nil {
		t.Fatalf("registerMessages() error = %v", err)
	}
	for key, texts := range translations {
		for _, tag := range SupportedLanguages {
			if texts[tag] == "" {
				t.Errorf("message %q has no %v text", key, tag)
			}
			if got := newPrinter(tag).Sprintf(key); got != texts[tag] {
				t.Errorf("Sprintf(%q) in %v = %q, want %q", key, tag, got, texts[tag])
			}
		}
	}
}
