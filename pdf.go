package sketch

import (
	"bytes"
	"fmt"
	"image/png"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// ExportPDF writes a single-page PDF sized to the logical canvas, in
// points, with the canvas composited over white as its only content.
func (e *Editor) ExportPDF(w io.Writer) error {
	e.mu.Lock()
	img := e.surface.Flatten()
	lw, lh := e.surface.LogicalSize()
	e.mu.Unlock()

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("sketch: export pdf: %w", err)
	}

	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: lw, Ht: lh},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.SetCreator("gogpu sketch "+Version, true)
	p.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader("canvas", opts, &buf)
	p.ImageOptions("canvas", 0, 0, lw, lh, false, opts, 0, "")
	if err := p.Output(w); err != nil {
		e.log().Warn("persist: export failed", "format", "pdf", "err", err)
		return fmt.Errorf("sketch: export pdf: %w", err)
	}
	e.log().Info("persist: exported", "format", "pdf", "width", lw, "height", lh)
	return nil
}

// SavePDF exports the PDF to sink as PDFFileName.
func (e *Editor) SavePDF(sink Sink) error {
	var buf bytes.Buffer
	if err := e.ExportPDF(&buf); err != nil {
		return err
	}
	return sink.Save(PDFFileName, buf.Bytes())
}
