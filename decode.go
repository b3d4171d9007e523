package gifscii

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
)

// Frame is one full-canvas frame of a decoded animation. Image is already
// composited, so every frame stands alone.
type Frame struct {
	Image    *image.RGBA
	Delay    int  // milliseconds
	Disposal byte // source disposal hint, informational after compositing
}

// Animation is a decoded source animation. Treat it as read-only once built;
// the conversion pipeline shares it across workers.
type Animation struct {
	Frames    []Frame
	LoopCount int // 0 loops forever, -1 plays once
	Width     int
	Height    int
}

// Delays returns the per-frame delays in milliseconds.
func (a *Animation) Delays() []int {
	delays := make([]int, len(a.Frames))
	for i, f := range a.Frames {
		delays[i] = f.Delay
	}
	return delays
}

// Decode sniffs r and decodes it into an Animation. Animated GIFs keep all
// their frames; any other registered image format becomes a single still.
func Decode(r io.Reader) (*Animation, error) {
	br := bufio.NewReader(r)
	magic, _ := br.Peek(6)
	if bytes.HasPrefix(magic, []byte("GIF8")) {
		return DecodeAnimation(br)
	}
	return DecodeStill(br)
}

/*
DecodeAnimation decodes a GIF stream and composites every sub-frame onto the
logical canvas, honoring the frame disposal methods, so downstream stages
always see complete frames. Delays convert from GIF hundredths of a second
to milliseconds.
*/
func DecodeAnimation(r io.Reader) (*Animation, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, fmt.Errorf("gifscii: decode gif: %w", err)
	}
	if len(g.Image) == 0 {
		return nil, ErrEmptyAnimation
	}

	w, h := g.Config.Width, g.Config.Height
	if w == 0 || h == 0 {
		b := g.Image[0].Bounds()
		w, h = b.Max.X, b.Max.Y
	}
	canvas := image.Rect(0, 0, w, h)
	screen := image.NewRGBA(canvas)

	anim := &Animation{
		Frames:    make([]Frame, 0, len(g.Image)),
		LoopCount: g.LoopCount,
		Width:     w,
		Height:    h,
	}

	for i, src := range g.Image {
		disposal := byte(0)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}

		// The previous-disposal method needs the screen as it was before
		// this frame drew.
		var saved *image.RGBA
		if disposal == gif.DisposalPrevious {
			saved = cloneRGBA(screen)
		}

		sub := src.Bounds().Intersect(canvas)
		draw.Draw(screen, sub, src, sub.Min, draw.Over)

		delay := 0
		if i < len(g.Delay) {
			delay = g.Delay[i] * 10
		}
		anim.Frames = append(anim.Frames, Frame{
			Image:    cloneRGBA(screen),
			Delay:    delay,
			Disposal: disposal,
		})

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(screen, sub, image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			screen = saved
		}
	}
	return anim, nil
}

// DecodeStill decodes a single still image as a one-frame animation that
// plays once.
func DecodeStill(r io.Reader) (*Animation, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("gifscii: decode image: %w", err)
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return &Animation{
		Frames:    []Frame{{Image: rgba}},
		LoopCount: -1,
		Width:     b.Dx(),
		Height:    b.Dy(),
	}, nil
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}
