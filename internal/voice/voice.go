// Package voice resolves spoken shopping instructions into commands.
package voice

import (
	"context"
	"strings"

	"github.com/dukerupert/cesta/internal/grocery"
	"github.com/dukerupert/cesta/internal/model"
	"github.com/dukerupert/cesta/internal/shopping"
)

// Resolver turns a transcript into a command for shopping.Service.Execute.
type Resolver interface {
	Resolve(ctx context.Context, transcript string) (model.Command, error)
}

var clearWords = []string{"limpiar", "vaciar"}

// StubResolver only understands requests to clear the list.
type StubResolver struct{}

func (StubResolver) Resolve(ctx context.Context, transcript string) (model.Command, error) {
	if err := ctx.Err(); err != nil {
		return model.Command{}, err
	}
	text := grocery.Normalize(transcript)
	if text == "" {
		return model.Command{}, &shopping.Error{Kind: shopping.KindValidation, Message: "transcript is empty"}
	}
	for _, w := range clearWords {
		if strings.Contains(text, w) {
			return model.Command{Action: model.ActionClearList}, nil
		}
	}
	return model.Command{}, &shopping.Error{Kind: shopping.KindValidation, Message: "voice processing is disabled"}
}
