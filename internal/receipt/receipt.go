// Package receipt turns a photographed till receipt into ticket lines.
package receipt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/dukerupert/cesta/internal/model"
)

// MaxImageSize bounds accepted receipt uploads.
const MaxImageSize = 10 << 20

var (
	ErrEmptyImage    = errors.New("receipt image is empty")
	ErrNotAnImage    = errors.New("receipt upload is not an image")
	ErrImageTooLarge = errors.New("receipt image is too large")
)

// Parser reads the lines of a receipt image. Implementations may call out
// to an OCR or language model service.
type Parser interface {
	Parse(ctx context.Context, image []byte) ([]model.TicketLine, error)
}

// CheckImage rejects uploads that are empty, oversized or not an image, and
// returns the detected MIME type.
func CheckImage(image []byte) (string, error) {
	switch {
	case len(image) == 0:
		return "", ErrEmptyImage
	case len(image) > MaxImageSize:
		return "", ErrImageTooLarge
	}
	mt := mimetype.Detect(image)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotAnImage, mt.String())
	}
	return mt.String(), nil
}

// StubParser accepts any image and reads no lines from it, leaving the
// ticket for manual entry.
type StubParser struct {
	logger *slog.Logger
}

func NewStubParser(logger *slog.Logger) *StubParser {
	return &StubParser{logger: logger}
}

func (p *StubParser) Parse(ctx context.Context, image []byte) ([]model.TicketLine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mime, err := CheckImage(image)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("receipt parsing disabled, returning no lines", "mime", mime, "bytes", len(image))
	return []model.TicketLine{}, nil
}
