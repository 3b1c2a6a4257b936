package sketch

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // register GIF for project and image import
	_ "image/jpeg" // register JPEG for project and image import
	"io"
	"sync/atomic"

	_ "golang.org/x/image/bmp"  // register BMP for image import
	_ "golang.org/x/image/tiff" // register TIFF for image import
	_ "golang.org/x/image/webp" // register WebP for image import
)

// decodeSlot orders pending decodes by request. Each request takes a
// generation before it starts decoding; a decoded result may apply only if
// no newer request has applied and no resize happened since it was issued.
// A request that fails to decode never settles, so it supersedes nothing.
type decodeSlot struct {
	issued atomic.Uint64

	// settled is the newest generation that applied or the last resize.
	// Guarded by Editor.mu.
	settled uint64
}

// issue starts a new request and returns its generation.
func (d *decodeSlot) issue() uint64 {
	return d.issued.Add(1)
}

// supersede makes every request issued so far stale.
// The caller must hold Editor.mu.
func (d *decodeSlot) supersede() uint64 {
	gen := d.issued.Add(1)
	d.settled = gen
	return gen
}

// settle reports whether a result of gen may apply and, if so, records it
// as the newest applied generation. The caller must hold Editor.mu.
func (d *decodeSlot) settle(gen uint64) bool {
	if gen <= d.settled {
		return false
	}
	d.settled = gen
	return true
}

// decodeImage decodes any registered raster format.
func decodeImage(ctx context.Context, r io.Reader) (image.Image, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	return img, format, nil
}

func decodeBytes(ctx context.Context, data []byte) (image.Image, string, error) {
	return decodeImage(ctx, bytes.NewReader(data))
}
