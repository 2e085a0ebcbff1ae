package render

import (
	"bytes"
	"context"
	"crypto/sha256"
	"image"
	"image/color"
	"image/png"
)

// Local is a deterministic offline renderer for development environments
// without provider credentials. It produces a small solid-color PNG whose
// color is derived from the prompt, so distinct prompts are visually
// distinguishable.
type Local struct{}

func NewLocal() *Local {
	return &Local{}
}

func (l *Local) Render(ctx context.Context, positivePrompt, negativePrompt string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sum := sha256.Sum256([]byte(positivePrompt + "\x00" + negativePrompt))
	fill := color.NRGBA{R: sum[0], G: sum[1], B: sum[2], A: 0xff}

	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = fill.R
		img.Pix[i+1] = fill.G
		img.Pix[i+2] = fill.B
		img.Pix[i+3] = fill.A
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return &Result{Data: buf.Bytes(), Format: "png"}, nil
}

var _ Renderer = (*Local)(nil)
