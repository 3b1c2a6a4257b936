package sketch

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"image/gif"
	"image/jpeg"
	"sync"
	"testing"
)

func TestDecodeSlot(t *testing.T) {
	var d decodeSlot
	a := d.issue()
	b := d.issue()
	if b <= a {
		t.Fatalf("issue() = %d after %d, want increasing generations", b, a)
	}
	// Issuing alone supersedes nothing: a request that never decodes
	// must not block an older one.
	if !d.settle(a) {
		t.Errorf("settle(%d) = false with no newer result applied", a)
	}
	if !d.settle(b) {
		t.Errorf("settle(%d) = false after older %d", b, a)
	}
	if d.settle(a) {
		t.Errorf("settle(%d) = true after newer %d applied", a, b)
	}

	c := d.issue()
	r := d.supersede()
	if d.settle(c) {
		t.Errorf("settle(%d) = true after resize %d", c, r)
	}
	if !d.settle(d.issue()) {
		t.Error("request issued after resize was refused")
	}
}

func TestDecodeSlotConcurrent(t *testing.T) {
	var d decodeSlot
	const n = 64
	gens := make(chan uint64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			gens <- d.issue()
		}()
	}
	wg.Wait()
	close(gens)

	seen := make(map[uint64]bool)
	var newest uint64
	for g := range gens {
		if seen[g] {
			t.Errorf("generation %d issued twice", g)
		}
		seen[g] = true
		newest = max(newest, g)
	}
	if !d.settle(newest) {
		t.Fatalf("settle(%d) = false for the newest generation", newest)
	}
	for g := range seen {
		if g != newest && d.settle(g) {
			t.Errorf("settle(%d) = true after %d applied", g, newest)
		}
	}
}

func TestDecodeImageFormats(t *testing.T) {
	src := solidImage(8, 8, color.NRGBA{G: 255, A: 255})
	tests := []struct {
		format string
		encode func(*bytes.Buffer) error
	}{
		{"jpeg", func(b *bytes.Buffer) error { return jpeg.Encode(b, src, nil) }},
		{"gif", func(b *bytes.Buffer) error { return gif.Encode(b, src, nil) }},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := tt.encode(&buf); err != nil {
			t.Fatal(err)
		}
		img, format, err := decodeBytes(context.Background(), buf.Bytes())
		if err != nil {
			t.Errorf("decode %s: %v", tt.format, err)
			continue
		}
		if format != tt.format || img.Bounds().Dx() != 8 {
			t.Errorf("decode %s = %q %v", tt.format, format, img.Bounds())
		}
	}
}

func TestDecodeImageCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := decodeBytes(ctx, []byte("anything")); !errors.Is(err, context.Canceled) {
		t.Errorf("decodeBytes() error = %v, want context.Canceled", err)
	}
}
