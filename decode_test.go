package gifscii_test

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/gifscii/gifscii"
)

func palettedRect(r image.Rectangle, pal color.Palette, idx uint8) *image.Paletted {
	img := image.NewPaletted(r, pal)
	for i := range img.Pix {
		img.Pix[i] = idx
	}
	return img
}

var _ = Describe("Decode", func() {
	var (
		red   = color.RGBA{R: 255, A: 0xff}
		green = color.RGBA{G: 255, A: 0xff}
		pal   = color.Palette{color.Transparent, red, green}
	)

	encodeGIF := func(g *gif.GIF) *bytes.Buffer {
		var buf bytes.Buffer
		Expect(gif.EncodeAll(&buf, g)).To(Succeed())
		return &buf
	}

	It("composites later frames onto the running canvas", func() {
		full := palettedRect(image.Rect(0, 0, 4, 4), pal, 1)
		patch := palettedRect(image.Rect(2, 2, 4, 4), pal, 2)
		buf := encodeGIF(&gif.GIF{
			Image:     []*image.Paletted{full, patch},
			Delay:     []int{10, 20},
			Disposal:  []byte{gif.DisposalNone, gif.DisposalNone},
			LoopCount: 2,
			Config:    image.Config{Width: 4, Height: 4},
		})

		anim, err := gifscii.DecodeAnimation(buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(anim.Frames).To(HaveLen(2))
		Expect(anim.Width).To(Equal(4))
		Expect(anim.Height).To(Equal(4))
		Expect(anim.LoopCount).To(Equal(2))
		Expect(anim.Delays()).To(Equal([]int{100, 200}))

		// Frame 2 keeps frame 1's pixels outside the patch rect.
		Expect(anim.Frames[1].Image.RGBAAt(0, 0)).To(Equal(red))
		Expect(anim.Frames[1].Image.RGBAAt(3, 3)).To(Equal(green))
		Expect(anim.Frames[0].Image.RGBAAt(3, 3)).To(Equal(red))
	})

	It("clears to transparent after a background-disposal frame", func() {
		full := palettedRect(image.Rect(0, 0, 4, 4), pal, 1)
		patch := palettedRect(image.Rect(0, 0, 2, 2), pal, 2)
		buf := encodeGIF(&gif.GIF{
			Image:     []*image.Paletted{full, patch},
			Delay:     []int{0, 0},
			Disposal:  []byte{gif.DisposalBackground, gif.DisposalNone},
			LoopCount: 0,
			Config:    image.Config{Width: 4, Height: 4},
		})

		anim, err := gifscii.DecodeAnimation(buf)
		Expect(err).NotTo(HaveOccurred())

		// The first frame showed red everywhere, then was disposed to
		// background, so only the second frame's own patch is visible.
		Expect(anim.Frames[1].Image.RGBAAt(0, 0)).To(Equal(green))
		Expect(anim.Frames[1].Image.RGBAAt(3, 3).A).To(BeZero())
	})

	It("restores the prior canvas after a previous-disposal frame", func() {
		base := palettedRect(image.Rect(0, 0, 4, 4), pal, 1)
		flash := palettedRect(image.Rect(0, 0, 4, 4), pal, 2)
		patch := palettedRect(image.Rect(0, 0, 1, 1), pal, 2)
		buf := encodeGIF(&gif.GIF{
			Image:     []*image.Paletted{base, flash, patch},
			Delay:     []int{0, 0, 0},
			Disposal:  []byte{gif.DisposalNone, gif.DisposalPrevious, gif.DisposalNone},
			LoopCount: 0,
			Config:    image.Config{Width: 4, Height: 4},
		})

		anim, err := gifscii.DecodeAnimation(buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(anim.Frames[1].Image.RGBAAt(3, 3)).To(Equal(green))
		// The flash frame was disposed back to the base canvas.
		Expect(anim.Frames[2].Image.RGBAAt(3, 3)).To(Equal(red))
		Expect(anim.Frames[2].Image.RGBAAt(0, 0)).To(Equal(green))
	})

	It("decodes a still image as a one-shot single frame", func() {
		src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
		for y := 0; y < 2; y++ {
			for x := 0; x < 3; x++ {
				src.SetNRGBA(x, y, color.NRGBA{R: uint8(40 * x), G: uint8(80 * y), B: 9, A: 0xff})
			}
		}
		var buf bytes.Buffer
		Expect(png.Encode(&buf, src)).To(Succeed())

		anim, err := gifscii.Decode(&buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(anim.Frames).To(HaveLen(1))
		Expect(anim.LoopCount).To(Equal(-1))
		Expect(anim.Width).To(Equal(3))
		Expect(anim.Height).To(Equal(2))
		Expect(anim.Frames[0].Image.RGBAAt(2, 1)).To(Equal(color.RGBA{R: 80, G: 80, B: 9, A: 0xff}))
	})

	It("sniffs animated GIFs through the generic entry point", func() {
		full := palettedRect(image.Rect(0, 0, 4, 4), pal, 1)
		patch := palettedRect(image.Rect(2, 2, 4, 4), pal, 2)
		buf := encodeGIF(&gif.GIF{
			Image:    []*image.Paletted{full, patch},
			Delay:    []int{10, 20},
			Disposal: []byte{gif.DisposalNone, gif.DisposalNone},
			Config:   image.Config{Width: 4, Height: 4},
		})

		anim, err := gifscii.Decode(buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(anim.Frames).To(HaveLen(2))
	})

	It("rejects garbage input", func() {
		_, err := gifscii.Decode(bytes.NewReader([]byte("not an image at all")))
		Expect(err).To(HaveOccurred())
	})
})
