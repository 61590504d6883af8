package generator

import (
	"context"
	"errors"
)

// Fixed generation policy. Callers only choose the prompt.
const (
	CfgScale = 7
	Steps    = 30
	Width    = 1024
	Height   = 1024
)

// ErrNoArtifacts is returned when the provider answers without any image data.
var ErrNoArtifacts = errors.New("no image artifacts in model response")

// Generator turns a prompt into raw image bytes.
type Generator interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}
