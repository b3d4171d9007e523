package gifscii_test

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/gifscii/gifscii"
)

func solidFrame(w, h int, c color.RGBA, delay int) gifscii.Frame {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return gifscii.Frame{Image: img, Delay: delay}
}

func grayFrame(w, h int, v uint8, delay int) gifscii.Frame {
	return solidFrame(w, h, color.RGBA{R: v, G: v, B: v, A: 0xff}, delay)
}

func animOf(frames ...gifscii.Frame) *gifscii.Animation {
	b := frames[0].Image.Bounds()
	return &gifscii.Animation{Frames: frames, Width: b.Dx(), Height: b.Dy()}
}
