// Package imaging normalizes uploaded photos with libvips.
package imaging

import (
	"fmt"

	"github.com/h2non/bimg"
)

// Resizer rotates photos upright and shrinks any wider than MaxWidth.
// Data that libvips cannot decode is returned unchanged.
type Resizer struct {
	MaxWidth int
}

func NewResizer(maxWidth int) *Resizer {
	return &Resizer{MaxWidth: maxWidth}
}

func (r *Resizer) Process(data []byte) ([]byte, error) {
	if bimg.DetermineImageType(data) == bimg.UNKNOWN {
		return data, nil
	}

	img := bimg.NewImage(data)
	size, err := img.Size()
	if err != nil {
		return nil, fmt.Errorf("read image size: %w", err)
	}

	var opts bimg.Options
	if r.MaxWidth > 0 && size.Width > r.MaxWidth {
		opts.Width = r.MaxWidth
	}
	out, err := img.Process(opts)
	if err != nil {
		return nil, fmt.Errorf("process image: %w", err)
	}
	return out, nil
}
