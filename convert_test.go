package gifscii_test

import (
	"errors"
	"image/color"
	"reflect"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/gifscii/gifscii"
)

var _ = Describe("Convert", func() {
	It("maps a solid frame to one repeated character", func() {
		anim := animOf(grayFrame(8, 8, 128, 100))
		frames, err := gifscii.Convert(anim, &gifscii.Config{Width: 4, Height: 2})
		Expect(err).NotTo(HaveOccurred())
		Expect(frames).To(HaveLen(1))

		f := frames[0]
		Expect(f.Cols).To(Equal(4))
		Expect(f.Rows).To(Equal(2))
		first := f.RuneAt(0, 0)
		for y := 0; y < f.Rows; y++ {
			for x := 0; x < f.Cols; x++ {
				Expect(f.RuneAt(x, y)).To(Equal(first))
			}
		}
		// 128/256 * 10 = exactly index 5.
		Expect(f.CellAt(0, 0).Index).To(Equal(uint8(5)))
	})

	It("maps luminance monotonically onto the ramp", func() {
		cfg := &gifscii.Config{Width: 1, Height: 1}
		last := -1
		for v := 0; v < 256; v += 5 {
			anim := animOf(grayFrame(2, 2, uint8(v), 0))
			frames, err := gifscii.Convert(anim, cfg)
			Expect(err).NotTo(HaveOccurred())
			idx := int(frames[0].CellAt(0, 0).Index)
			Expect(idx).To(BeNumerically(">=", last))
			last = idx
		}
		Expect(last).To(Equal(gifscii.Simple.Len() - 1))
	})

	It("pins the extremes of the ramp", func() {
		cfg := &gifscii.Config{Width: 1, Height: 1}
		black, err := gifscii.Convert(animOf(grayFrame(2, 2, 0, 0)), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(black[0].RuneAt(0, 0)).To(Equal(' '))

		white, err := gifscii.Convert(animOf(grayFrame(2, 2, 255, 0)), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(white[0].RuneAt(0, 0)).To(Equal('@'))
	})

	It("flips the ramp when inverted", func() {
		cfg := &gifscii.Config{Width: 1, Height: 1, Invert: true}
		black, err := gifscii.Convert(animOf(grayFrame(2, 2, 0, 0)), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(black[0].RuneAt(0, 0)).To(Equal('@'))
	})

	It("treats fully transparent pixels as black", func() {
		anim := animOf(solidFrame(4, 4, color.RGBA{}, 0))
		frames, err := gifscii.Convert(anim, &gifscii.Config{Width: 2, Height: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(frames[0].RuneAt(0, 0)).To(Equal(' '))
		Expect(frames[0].CellAt(0, 0).Color).To(Equal(color.RGBA{A: 0xff}))
	})

	It("records the averaged cell color", func() {
		red := color.RGBA{R: 200, G: 10, B: 30, A: 0xff}
		anim := animOf(solidFrame(6, 6, red, 0))
		frames, err := gifscii.Convert(anim, &gifscii.Config{Width: 3, Height: 3, Colored: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(frames[0].CellAt(1, 1).Color).To(Equal(red))
	})

	It("keeps frames in input order", func() {
		levels := []uint8{0, 60, 120, 180, 240}
		frames := make([]gifscii.Frame, len(levels))
		for i, v := range levels {
			frames[i] = grayFrame(4, 4, v, 0)
		}
		out, err := gifscii.Convert(animOf(frames...), &gifscii.Config{Width: 2, Height: 1, Workers: 3})
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HaveLen(len(levels)))

		for i, v := range levels {
			want := int(v) * gifscii.Simple.Len() / 256
			Expect(int(out[i].CellAt(0, 0).Index)).To(Equal(want))
		}
	})

	It("produces identical results for any worker count", func() {
		frames := make([]gifscii.Frame, 17)
		for i := range frames {
			frames[i] = solidFrame(10, 8, color.RGBA{
				R: uint8(i * 13), G: uint8(255 - i*9), B: uint8(i * 5), A: 0xff,
			}, 0)
		}
		anim := animOf(frames...)

		var runs [][]gifscii.TextFrame
		for _, workers := range []int{1, 4, 64} {
			cfg := &gifscii.Config{Width: 5, Height: 4, Colored: true, Workers: workers}
			out, err := gifscii.Convert(anim, cfg)
			Expect(err).NotTo(HaveOccurred())
			runs = append(runs, out)
		}
		Expect(reflect.DeepEqual(runs[0], runs[1])).To(BeTrue())
		Expect(reflect.DeepEqual(runs[0], runs[2])).To(BeTrue())
	})

	It("supports nearest sampling as a deterministic alternative", func() {
		anim := animOf(grayFrame(8, 8, 77, 0))
		cfg := &gifscii.Config{Width: 4, Height: 2, Sampling: gifscii.SampleNearest}
		a, err := gifscii.Convert(anim, cfg)
		Expect(err).NotTo(HaveOccurred())
		b, err := gifscii.Convert(anim, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(reflect.DeepEqual(a, b)).To(BeTrue())
		Expect(a[0].RuneAt(0, 0)).To(Equal(a[0].RuneAt(3, 1)))
	})

	It("fails the whole batch with the failing frame's index", func() {
		frames := []gifscii.Frame{
			grayFrame(4, 4, 10, 0),
			grayFrame(4, 4, 20, 0),
			grayFrame(4, 4, 30, 0),
			{Image: nil},
			grayFrame(4, 4, 50, 0),
		}
		anim := &gifscii.Animation{Frames: frames, Width: 4, Height: 4}
		out, err := gifscii.Convert(anim, &gifscii.Config{Width: 2, Height: 2, Workers: 2})
		Expect(out).To(BeNil())

		var ferr *gifscii.FrameError
		Expect(err).To(HaveOccurred())
		Expect(errors.As(err, &ferr)).To(BeTrue())
		Expect(ferr.Index).To(Equal(3))
	})

	It("rejects an empty animation", func() {
		_, err := gifscii.Convert(&gifscii.Animation{}, &gifscii.Config{})
		Expect(err).To(MatchError(gifscii.ErrEmptyAnimation))
	})

	It("uses a custom charset end to end", func() {
		cs, err := gifscii.NewCharset("01")
		Expect(err).NotTo(HaveOccurred())
		anim := animOf(grayFrame(4, 4, 255, 0))
		frames, err := gifscii.Convert(anim, &gifscii.Config{Width: 2, Height: 1, Charset: cs})
		Expect(err).NotTo(HaveOccurred())
		Expect(frames[0].Lines()).To(Equal([]string{"11"}))
	})
})
