package main

import (
	"fmt"
	"image"
	"image/draw"
	"io"
	"log"
	"os"
	"strings"

	"github.com/codegangsta/cli"
	"github.com/disintegration/imaging"
	"github.com/gifscii/gifscii"
)

var verbose bool

func main() {
	defaults := loadDefaults()

	app := cli.NewApp()
	app.Version = gifscii.Version
	app.Name = "gifscii"
	app.Usage = "Converts gifs and stills to character art. Play them in the terminal,\n" +
		/*      */ "save them as text, or re-encode them as character gifs."
	app.UsageText = "1) gifscii [options] [file|url]\n" +
		/*      */ "   2) gifscii [options] < [file]"
	app.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "width,w",
			Usage: "Output columns. With height, sets the grid exactly.",
			Value: defaults.Width,
		},
		cli.IntFlag{
			Name:  "height",
			Usage: "Output rows. With width, sets the grid exactly.",
			Value: defaults.Height,
		},
		cli.Float64Flag{
			Name:  "scale",
			Usage: "Scale factor between 0.1 and 10. Ignored if width or height is set.",
			Value: defaults.Scale,
		},
		cli.Float64Flag{
			Name:  "char-aspect",
			Usage: "Width:height ratio of one terminal cell.",
			Value: defaults.CharAspect,
		},
		cli.BoolFlag{
			Name:  "preserve-aspect,p",
			Usage: "Keep the source aspect ratio when width and height are both set.",
		},
		cli.BoolFlag{
			Name:  "colored,c",
			Usage: "Color the characters with the source pixels.",
		},
		cli.BoolFlag{
			Name:  "invert,i",
			Usage: "Flip the character ramp, for dark-on-light terminals.",
		},
		cli.BoolFlag{
			Name:  "detailed,d",
			Usage: "Use the 69-character ramp instead of the 10-character one.",
		},
		cli.StringFlag{
			Name:  "charset",
			Usage: "Custom character ramp, darkest to lightest.",
		},
		cli.StringFlag{
			Name:  "charset-file",
			Usage: "Read the character ramp from a file.",
		},
		cli.BoolFlag{
			Name:  "fast-sample",
			Usage: "Nearest-pixel sampling instead of area averaging.",
		},
		cli.IntFlag{
			Name:  "workers",
			Usage: "Parallel frame converters, between 1 and 1000. Defaults to the CPU count.",
			Value: defaults.Workers,
		},
		cli.Float64Flag{
			Name:  "speed",
			Usage: "Playback speed factor between 0.1 and 10. Excludes --fps.",
			Value: defaults.Speed,
		},
		cli.IntFlag{
			Name:  "fps",
			Usage: "Fixed playback rate between 1 and 120. Excludes --speed.",
			Value: defaults.FPS,
		},
		cli.StringFlag{
			Name:  "save,s",
			Usage: "Write frames as text to this file instead of playing.",
		},
		cli.BoolFlag{
			Name:  "compress",
			Usage: "Compress the text output with zstd. Only with --save.",
		},
		cli.StringFlag{
			Name:  "gif,g",
			Usage: "Re-encode the character art as an animated gif at this file.",
		},
		cli.Float64Flag{
			Name:  "font-size",
			Usage: "Glyph size in pixels for gif output, between 0.1 and 100.",
			Value: defaults.FontSize,
		},
		cli.StringFlag{
			Name:  "bg",
			Usage: "Background color for gif output, as #RRGGBB.",
			Value: defaults.Background,
		},
		cli.StringFlag{
			Name:  "fg",
			Usage: "Glyph color for gif output, as #RRGGBB. Ignored with --colored.",
			Value: defaults.Foreground,
		},
		cli.BoolFlag{
			Name:  "fit,f",
			Usage: "Fit the terminal width and follow resizes. Terminal playback only.",
		},
		cli.Float64Flag{
			Name:  "gamma",
			Usage: "`GAMMA` = 1.0 gives the original image. GAMMA less than 1.0 darkens the image and GAMMA greater than 1.0 lightens it.",
			Value: 1.0,
		},
		cli.Float64Flag{
			Name:  "brightness",
			Usage: "`BRIGHTNESS` = 0 gives the original image. BRIGHTNESS = -100 gives solid black image. BRIGHTNESS = 100 gives solid white image.",
			Value: 0.0,
		},
		cli.Float64Flag{
			Name:  "contrast",
			Usage: "`CONTRAST` = 0 gives the original image. CONTRAST = -100 gives solid grey image. CONTRAST = 100 gives maximum contrast.",
			Value: 0.0,
		},
		cli.Float64Flag{
			Name:  "sharpen",
			Usage: "`SHARPEN` = 0 gives the original image. SHARPEN greater than 0 sharpens the image.",
			Value: 0.0,
		},
		cli.Float64Flag{
			Name:  "sigmoid-midpoint",
			Usage: "`MIDPOINT` of contrast that must be between 0 and 1.",
			Value: 0.5,
		},
		cli.Float64Flag{
			Name:  "sigmoid-factor",
			Usage: "`FACTOR` = 0 gives the original image. FACTOR greater than 0 increases contrast. FACTOR less than 0 decreases contrast.",
			Value: 0.0,
		},
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "Log progress to stderr.",
		},
	}
	app.Action = func(c *cli.Context) {
		verbose = c.Bool("verbose")
		if err := run(c); err != nil {
			exit(err.Error(), 1)
		}
	}
	if err := app.Run(os.Args); err != nil {
		exit(err.Error(), 1)
	}
}

func run(c *cli.Context) error {
	reader, cleanup, err := openInput(c.Args().First())
	if err != nil {
		return err
	}
	defer cleanup()

	anim, err := gifscii.Decode(reader)
	if err != nil {
		return err
	}
	logV("decoded %d frames at %dx%d", len(anim.Frames), anim.Width, anim.Height)

	preprocess(c, anim)

	cs, err := resolveCharset(c)
	if err != nil {
		return err
	}

	cfg := &gifscii.Config{
		Width:          c.Int("width"),
		Height:         c.Int("height"),
		Scale:          c.Float64("scale"),
		CharAspect:     c.Float64("char-aspect"),
		PreserveAspect: c.Bool("preserve-aspect"),
		Invert:         c.Bool("invert"),
		Colored:        c.Bool("colored"),
		Charset:        cs,
		Workers:        c.Int("workers"),
	}
	if c.Bool("fast-sample") {
		cfg.Sampling = gifscii.SampleNearest
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	timing, err := gifscii.NewTiming(c.Float64("speed"), c.Int("fps"))
	if err != nil {
		return err
	}

	mode, err := gifscii.ResolveOutput(c.String("save"), c.String("gif"), gifscii.OutputOptions{
		Fit:      c.Bool("fit"),
		Colors:   c.IsSet("bg") || c.IsSet("fg"),
		Compress: c.Bool("compress"),
	})
	if err != nil {
		return err
	}

	switch {
	case mode.Terminal():
		if c.Bool("fit") {
			cols, _, err := gifscii.TerminalSize()
			if err != nil {
				return fmt.Errorf("cannot size terminal: %v", err)
			}
			cfg.FitColumns = cols
		}
		return gifscii.NewAnimator(os.Stdout, os.Stdin).Animate(anim, cfg, timing)

	case c.String("save") != "":
		frames, err := gifscii.Convert(anim, cfg)
		if err != nil {
			return err
		}
		f, err := os.Create(mode.Path())
		if err != nil {
			return err
		}
		if c.Bool("compress") {
			err = gifscii.WriteTextCompressed(f, frames)
		} else {
			err = gifscii.WriteText(f, frames)
		}
		if err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		logV("wrote %d frames to %s", len(frames), mode.Path())
		return nil

	default:
		frames, err := gifscii.Convert(anim, cfg)
		if err != nil {
			return err
		}
		bg, err := parseHexColor(c.String("bg"))
		if err != nil {
			return err
		}
		fg, err := parseHexColor(c.String("fg"))
		if err != nil {
			return err
		}
		opts := gifscii.GIFOptions{
			FontSize:   c.Float64("font-size"),
			Background: bg,
			Foreground: fg,
		}
		delays := timing.Apply(anim.Delays())
		f, err := os.Create(mode.Path())
		if err != nil {
			return err
		}
		if err := gifscii.EncodeGIF(f, frames, delays, anim.LoopCount, cfg, opts); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		logV("wrote %d frames to %s", len(frames), mode.Path())
		return nil
	}
}

// openInput resolves the positional argument to a reader: a local file
// first, then a URL to fetch, then stdin when the argument is empty.
func openInput(input string) (io.Reader, func(), error) {
	if input == "" {
		return os.Stdin, func() {}, nil
	}
	if file, err := os.Open(input); err == nil {
		return file, func() { file.Close() }, nil
	}
	if !gifscii.IsURL(input) {
		return nil, nil, fmt.Errorf("cannot open %s", input)
	}
	logV("fetching %s", input)
	path, ctype, err := gifscii.Fetch(input)
	if err != nil {
		return nil, nil, err
	}
	if ctype != "" && !strings.HasPrefix(ctype, "image/") {
		fmt.Fprintf(os.Stderr, "warning: content type %q does not look like an image\n", ctype)
	}
	file, err := os.Open(path)
	if err != nil {
		os.Remove(path)
		return nil, nil, err
	}
	return file, func() {
		file.Close()
		os.Remove(path)
	}, nil
}

func resolveCharset(c *cli.Context) (gifscii.Charset, error) {
	switch {
	case c.IsSet("charset-file"):
		data, err := os.ReadFile(c.String("charset-file"))
		if err != nil {
			return gifscii.Charset{}, err
		}
		return gifscii.NewCharsetFromFile(string(data))
	case c.IsSet("charset"):
		return gifscii.NewCharset(c.String("charset"))
	case c.Bool("detailed"):
		return gifscii.Detailed, nil
	default:
		return gifscii.Simple, nil
	}
}

// preprocess applies the requested image adjustments to every frame before
// conversion.
func preprocess(c *cli.Context, anim *gifscii.Animation) {
	if !c.IsSet("gamma") && !c.IsSet("brightness") && !c.IsSet("sharpen") &&
		!c.IsSet("contrast") && !c.IsSet("sigmoid-midpoint") && !c.IsSet("sigmoid-factor") {
		return
	}
	logV("adjusting %d frames", len(anim.Frames))
	for i := range anim.Frames {
		var img image.Image = anim.Frames[i].Image
		if c.IsSet("gamma") {
			img = imaging.AdjustGamma(img, c.Float64("gamma"))
		}
		if c.IsSet("brightness") {
			img = imaging.AdjustBrightness(img, c.Float64("brightness"))
		}
		if c.IsSet("sharpen") {
			img = imaging.Sharpen(img, c.Float64("sharpen"))
		}
		if c.IsSet("contrast") {
			img = imaging.AdjustContrast(img, c.Float64("contrast"))
		}
		if c.IsSet("sigmoid-midpoint") || c.IsSet("sigmoid-factor") {
			img = imaging.AdjustSigmoid(img, c.Float64("sigmoid-midpoint"), c.Float64("sigmoid-factor"))
		}
		rgba := image.NewRGBA(image.Rect(0, 0, anim.Width, anim.Height))
		draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
		anim.Frames[i].Image = rgba
	}
}

func logV(format string, args ...interface{}) {
	if verbose {
		log.Printf(format, args...)
	}
}

func exit(msg string, code int) {
	fmt.Println(msg)
	os.Exit(code)
}
