// Package render composes the lock screen background from a downloaded comic.
package render

import (
	"context"
	"image"
	"image/color"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/xkcdlock/xkcdlock/internal/fault"
	"github.com/xkcdlock/xkcdlock/pkg/comic"
	"github.com/xkcdlock/xkcdlock/pkg/utils"
)

// Layout constants of the rendered background.
const (
	DefaultWidth  = 1920
	DefaultHeight = 1080

	TitleSize   = 36
	AltSize     = 20
	EdgeMargin  = 100
	AltColumns  = 70
	captionGap  = 20
	lineSpacing = 1.2

	// minImageBand is the least height kept for the comic between the captions.
	minImageBand = 100
)

// CanvasProbe reports the size the canvas should take.
type CanvasProbe interface {
	CanvasSize(ctx context.Context) (int, int, error)
}

// Options configures a Renderer.
type Options struct {
	Width     int
	Height    int
	Auto      bool        // ask Probe for the size first
	Probe     CanvasProbe // consulted only when Auto is set
	OutputDir string      // defaults to os.TempDir()
	Logger    *zerolog.Logger
}

// Artifact is a rendered background on disk.
type Artifact struct {
	Path   string
	Width  int
	Height int
}

// Renderer draws comics onto a captioned canvas.
type Renderer struct {
	width, height int
	auto          bool
	probe         CanvasProbe
	dir           string
	logger        zerolog.Logger

	titleFace font.Face
	altFace   font.Face
}

// New parses the caption font and prepares both caption faces.
func New(opts Options) (*Renderer, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fault.Wrap(fault.Parse, err, "parse caption font")
	}
	titleFace, err := opentype.NewFace(f, &opentype.FaceOptions{Size: TitleSize, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fault.Wrap(fault.Parse, err, "create title face")
	}
	altFace, err := opentype.NewFace(f, &opentype.FaceOptions{Size: AltSize, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		titleFace.Close()
		return nil, fault.Wrap(fault.Parse, err, "create alt text face")
	}

	r := &Renderer{
		width:     opts.Width,
		height:    opts.Height,
		auto:      opts.Auto,
		probe:     opts.Probe,
		dir:       opts.OutputDir,
		logger:    zerolog.Nop(),
		titleFace: titleFace,
		altFace:   altFace,
	}
	if r.width <= 0 || r.height <= 0 {
		r.width, r.height = DefaultWidth, DefaultHeight
	}
	if r.dir == "" {
		r.dir = os.TempDir()
	}
	if opts.Logger != nil {
		r.logger = *opts.Logger
	}
	return r, nil
}

// Close releases the font faces.
func (r *Renderer) Close() error {
	r.titleFace.Close()
	return r.altFace.Close()
}

// Render writes a fresh PNG with the comic centered between its title and alt text.
func (r *Renderer) Render(ctx context.Context, raw comic.RawImage) (Artifact, error) {
	src, err := decode(raw.Path)
	if err != nil {
		return Artifact{}, err
	}

	width, height := r.canvasSize(ctx)
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	titleBottom := r.drawTitle(canvas, raw.Comic.Title)
	altTop := r.drawAlt(canvas, raw.Comic.Alt, titleBottom+2*captionGap+minImageBand)

	box := image.Rect(0, titleBottom+captionGap, width, altTop-captionGap)
	if box.Empty() {
		// canvas shorter than its margins, use what is left below the title
		box = image.Rect(0, min(titleBottom, height-1), width, height)
	}
	dst := fit(src.Bounds().Size(), box)
	if dst.Size() == src.Bounds().Size() {
		draw.Draw(canvas, dst, src, src.Bounds().Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(canvas, dst, src, src.Bounds(), draw.Over, nil)
	}

	path, err := r.write(canvas, raw.Comic)
	if err != nil {
		return Artifact{}, err
	}

	r.logger.Debug().
		Str("path", path).
		Int("width", width).
		Int("height", height).
		Msg("rendered background")
	return Artifact{Path: path, Width: width, Height: height}, nil
}

func (r *Renderer) canvasSize(ctx context.Context) (int, int) {
	if !r.auto || r.probe == nil {
		return r.width, r.height
	}
	w, h, err := r.probe.CanvasSize(ctx)
	if err != nil || w <= 0 || h <= 0 {
		r.logger.Debug().Err(err).Msg("canvas probe unavailable, using configured size")
		return r.width, r.height
	}
	return w, h
}

func decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fault.Wrapf(fault.IO, err, "open %s", path)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fault.Wrapf(fault.Parse, err, "decode %s", path)
	}
	return img, nil
}

// drawTitle draws the title with its top edge at EdgeMargin and returns its bottom edge.
func (r *Renderer) drawTitle(dst draw.Image, title string) int {
	m := r.titleFace.Metrics()
	top := EdgeMargin
	if strings.TrimSpace(title) == "" {
		return top
	}
	baseline := top + m.Ascent.Ceil()
	drawCentered(dst, r.titleFace, title, baseline)
	return baseline + m.Descent.Ceil()
}

// drawAlt draws the wrapped alt text with its bottom edge at EdgeMargin from the
// canvas bottom and returns its top edge. The text never reaches above limit; lines
// that do not fit are dropped and the last kept line ends with an ellipsis.
func (r *Renderer) drawAlt(dst draw.Image, alt string, limit int) int {
	bottom := dst.Bounds().Dy() - EdgeMargin
	m := r.altFace.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	step := int(float64(m.Height.Ceil()) * lineSpacing)

	lines := fitLines(utils.WrapText(alt, AltColumns), bottom-limit, ascent+descent, step)
	if len(lines) == 0 {
		return bottom
	}

	lastBaseline := bottom - descent
	firstBaseline := lastBaseline - step*(len(lines)-1)
	for i, line := range lines {
		drawCentered(dst, r.altFace, line, firstBaseline+i*step)
	}
	return firstBaseline - ascent
}

// fitLines keeps as many lines as fit in height, given the height of one line and
// the baseline step between lines.
func fitLines(lines []string, height, lineHeight, step int) []string {
	if len(lines) == 0 || height < lineHeight {
		return nil
	}
	n := 1
	if step > 0 {
		n += (height - lineHeight) / step
	}
	if n >= len(lines) {
		return lines
	}
	kept := append([]string(nil), lines[:n]...)
	kept[n-1] += "…"
	return kept
}

func drawCentered(dst draw.Image, face font.Face, text string, baseline int) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}
	advance := d.MeasureString(text)
	x := (fixed.I(dst.Bounds().Dx()) - advance) / 2
	d.Dot = fixed.Point26_6{X: x, Y: fixed.I(baseline)}
	d.DrawString(text)
}

// fit centers size inside box, shrinking it to fit while keeping the aspect ratio.
func fit(size image.Point, box image.Rectangle) image.Rectangle {
	w, h := size.X, size.Y
	bw, bh := box.Dx(), box.Dy()
	if w > bw || h > bh {
		scale := min(float64(bw)/float64(w), float64(bh)/float64(h))
		w = max(1, int(float64(w)*scale))
		h = max(1, int(float64(h)*scale))
	}
	x := box.Min.X + (bw-w)/2
	y := box.Min.Y + (bh-h)/2
	return image.Rect(x, y, x+w, y+h)
}

func (r *Renderer) write(img image.Image, c comic.Comic) (string, error) {
	f, err := os.CreateTemp(r.dir, c.FileStem()+"-lock-*.png")
	if err != nil {
		return "", fault.Wrap(fault.IO, err, "create background file")
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fault.Wrap(fault.IO, err, "encode background")
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fault.Wrap(fault.IO, err, "write background")
	}
	return filepath.Clean(f.Name()), nil
}
