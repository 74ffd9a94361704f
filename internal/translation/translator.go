package translation

import (
	"context"
	"errors"
)

// ErrLengthMismatch is returned when a provider answers a batch with a
// different number of translations than it was given.
var ErrLengthMismatch = errors.New("translation count does not match input count")

// Translator turns an ordered list of texts into translations of the same
// length and order, or fails as a whole.
type Translator interface {
	Translate(ctx context.Context, texts []string, targetLang string) ([]string, error)
}

// Func adapts a plain function to the Translator interface.
type Func func(ctx context.Context, texts []string, targetLang string) ([]string, error)

func (f Func) Translate(ctx context.Context, texts []string, targetLang string) ([]string, error) {
	return f(ctx, texts, targetLang)
}
