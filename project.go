package sketch

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"
)

// Fixed names handed to a Sink by the Save methods.
const (
	ImageFileName   = "drawing.png"
	ProjectFileName = "drawing.project"
	PDFFileName     = "drawing.pdf"
)

const pngDataURLPrefix = "data:image/png;base64,"

// Project is the JSON container written by ExportProject. Width and Height
// are the device dimensions of the embedded raster; Created is the export
// time in Unix milliseconds.
type Project struct {
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Image   string `json:"image"`
	Created int64  `json:"created"`
}

// encodeDataURL encodes img as a PNG data URL.
func encodeDataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	return pngDataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// decodeDataURL returns the payload of a base64 data URL of any media type.
func decodeDataURL(s string) ([]byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, errors.New("not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, errors.New("data URL has no payload")
	}
	if !strings.HasSuffix(meta, ";base64") {
		return nil, errors.New("data URL is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("data URL payload: %w", err)
	}
	return data, nil
}

// flattened returns the export image and the current time under the lock.
func (e *Editor) flattened() (*image.RGBA, int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.surface.Flatten(), e.now().UnixMilli()
}

// ExportImage writes the canvas as a PNG composited over opaque white.
func (e *Editor) ExportImage(w io.Writer) error {
	img, _ := e.flattened()
	if err := png.Encode(w, img); err != nil {
		e.log().Warn("persist: export failed", "format", "png", "err", err)
		return fmt.Errorf("sketch: export image: %w", err)
	}
	e.log().Info("persist: exported", "format", "png",
		"width", img.Rect.Dx(), "height", img.Rect.Dy())
	return nil
}

// SaveImage exports the canvas to sink as ImageFileName.
func (e *Editor) SaveImage(sink Sink) error {
	var buf bytes.Buffer
	if err := e.ExportImage(&buf); err != nil {
		return err
	}
	return sink.Save(ImageFileName, buf.Bytes())
}

// ExportProject writes the canvas as a JSON Project record.
func (e *Editor) ExportProject(w io.Writer) error {
	img, now := e.flattened()
	url, err := encodeDataURL(img)
	if err != nil {
		return fmt.Errorf("sketch: export project: %w", err)
	}
	p := Project{
		Width:   img.Rect.Dx(),
		Height:  img.Rect.Dy(),
		Image:   url,
		Created: now,
	}
	if err := json.NewEncoder(w).Encode(p); err != nil {
		e.log().Warn("persist: export failed", "format", "project", "err", err)
		return fmt.Errorf("sketch: export project: %w", err)
	}
	e.log().Info("persist: exported", "format", "project",
		"width", p.Width, "height", p.Height, "created", p.Created)
	return nil
}

// SaveProject exports the project record to sink as ProjectFileName.
func (e *Editor) SaveProject(sink Sink) error {
	var buf bytes.Buffer
	if err := e.ExportProject(&buf); err != nil {
		return err
	}
	return sink.Save(ProjectFileName, buf.Bytes())
}

// ImportProject loads a project record: the embedded image replaces the
// canvas, stretched to its size, and the result is committed.
//
// Malformed records, including a missing image, fail with
// ErrMalformedProject and leave the canvas and history untouched.
func (e *Editor) ImportProject(ctx context.Context, data []byte) error {
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return e.malformed("project", err)
	}
	if p.Image == "" {
		return e.malformed("project", errors.New("missing image"))
	}
	return e.loadDataURL(ctx, "project", p.Image)
}

// ImportImage decodes a raster file in any registered format (PNG, JPEG,
// GIF, BMP, TIFF, WebP) and loads it like a project image.
func (e *Editor) ImportImage(ctx context.Context, r io.Reader) error {
	gen := e.decodes.issue()
	e.log().Debug("persist: decode started", "source", "image", "generation", gen)
	img, format, err := decodeImage(ctx, r)
	if err != nil {
		return e.decodeFailed(ctx, "image", err)
	}
	return e.apply(ctx, gen, img, "image:"+format)
}

func (e *Editor) loadDataURL(ctx context.Context, source, url string) error {
	gen := e.decodes.issue()
	e.log().Debug("persist: decode started", "source", source, "generation", gen)
	raw, err := decodeDataURL(url)
	if err != nil {
		return e.malformed(source, err)
	}
	img, _, err := decodeBytes(ctx, raw)
	if err != nil {
		return e.decodeFailed(ctx, source, err)
	}
	return e.apply(ctx, gen, img, source)
}

// decodeFailed reports a cancelled context as is and anything else as a
// malformed payload.
func (e *Editor) decodeFailed(ctx context.Context, source string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return e.malformed(source, err)
}

func (e *Editor) malformed(source string, err error) error {
	e.log().Warn("persist: load failed", "source", source, "err", err)
	return fmt.Errorf("%w: %s: %w", ErrMalformedProject, source, err)
}

// apply draws a decoded image unless a newer request has already applied
// or a resize happened since gen was issued, then commits.
func (e *Editor) apply(ctx context.Context, gen uint64, img image.Image, source string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if !e.decodes.settle(gen) {
		e.log().Warn("persist: stale decode discarded", "source", source, "generation", gen)
		return ErrSuperseded
	}
	e.surface.DrawImage(img)
	e.stroke = strokeState{}
	e.log().Info("persist: loaded", "source", source, "generation", gen)
	return e.commitLocked()
}
