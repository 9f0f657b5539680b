package receipt

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"testing"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestCheckImage(t *testing.T) {
	tests := []struct {
		name  string
		image []byte
		want  error
	}{
		{"empty", nil, ErrEmptyImage},
		{"text", []byte("LECHE HACENDADO 0,89\nPAN 1,20\n"), ErrNotAnImage},
		{"too large", make([]byte, MaxImageSize+1), ErrImageTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := CheckImage(tt.image); !errors.Is(err, tt.want) {
				t.Errorf("CheckImage() error = %v, want %v", err, tt.want)
			}
		})
	}

	mime, err := CheckImage(pngBytes(t))
	if err != nil {
		t.Fatalf("CheckImage(png) error = %v", err)
	}
	if mime != "image/png" {
		t.Errorf("mime = %q, want image/png", mime)
	}
}

func TestStubParser(t *testing.T) {
	p := NewStubParser(slog.Default())

	lines, err := p.Parse(context.Background(), pngBytes(t))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if lines == nil || len(lines) != 0 {
		t.Errorf("lines = %v, want empty non-nil slice", lines)
	}

	if _, err := p.Parse(context.Background(), []byte("not an image")); !errors.Is(err, ErrNotAnImage) {
		t.Errorf("Parse(text) error = %v, want ErrNotAnImage", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Parse(ctx, pngBytes(t)); !errors.Is(err, context.Canceled) {
		t.Errorf("Parse(cancelled) error = %v, want context.Canceled", err)
	}
}
