// Package qr renders the QR codes and table posters handed out as the
// ordering entry points. Everything here is a pure function from a URL and
// styling options to image bytes; no state is retained between calls.
package qr

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/nfnt/resize"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Code renders a plain QR code PNG on a white background.
func Code(url string, size int) ([]byte, error) {
	if size <= 0 {
		size = 512
	}
	return qrcode.Encode(url, qrcode.Medium, size)
}

// PosterOptions styles a table poster. Zero values fall back to the house
// look: a 600px dark slate gradient with the venue name on top.
type PosterOptions struct {
	Size    int    // poster width in pixels; height is Size+100 for the text band
	Title   string // headline under the code, e.g. the venue name
	Caption string // secondary line, e.g. "Mesa 4 · Escanea para pedir"
	Top     color.RGBA
	Bottom  color.RGBA
}

func (o *PosterOptions) setDefaults() {
	if o.Size <= 0 {
		o.Size = 600
	}
	if o.Title == "" {
		o.Title = "Project Bar"
	}
	var zero color.RGBA
	if o.Top == zero {
		o.Top = color.RGBA{R: 0x0f, G: 0x17, B: 0x2a, A: 0xff}
	}
	if o.Bottom == zero {
		o.Bottom = color.RGBA{R: 0x1e, G: 0x29, B: 0x3b, A: 0xff}
	}
}

// Poster renders a branded poster: gradient background, rounded white card
// carrying the QR code, and a text band underneath.
func Poster(url string, opts PosterOptions) (image.Image, error) {
	opts.setDefaults()

	size := opts.Size
	padding := size / 15
	width, height := size, size+100

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	drawGradient(canvas, opts.Top, opts.Bottom)

	// White card with rounded corners behind the code.
	cardSize := size - padding*2
	card := image.Rect(padding, padding, padding+cardSize, padding+cardSize)
	fillRoundedRect(canvas, card, 16, color.White)

	code, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("building qr code: %w", err)
	}
	inner := cardSize - padding
	qrImg := scaleToCard(code, inner)
	offset := padding + (cardSize-inner)/2
	draw.Draw(canvas, image.Rect(offset, offset, offset+inner, offset+inner), qrImg, image.Point{}, draw.Over)

	drawCenteredText(canvas, opts.Title, size+40, color.White)
	if opts.Caption != "" {
		drawCenteredText(canvas, opts.Caption, size+70, color.RGBA{R: 0x94, G: 0xa3, B: 0xb8, A: 0xff})
	}

	return canvas, nil
}

// PosterPNG is Poster encoded as PNG bytes, the form both the HTTP handler
// and the CLI want.
func PosterPNG(url string, opts PosterOptions) ([]byte, error) {
	img, err := Poster(url, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding poster: %w", err)
	}
	return buf.Bytes(), nil
}

// scaleToCard renders the code at its natural size (one pixel per module)
// and upscales it to fit the card. Nearest neighbor keeps the module edges
// sharp; smooth interpolation would gray them out.
func scaleToCard(code *qrcode.QRCode, target int) image.Image {
	return resize.Resize(uint(target), uint(target), code.Image(-1), resize.NearestNeighbor)
}

func drawGradient(img *image.RGBA, top, bottom color.RGBA) {
	b := img.Bounds()
	h := b.Dy()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		t := float64(y-b.Min.Y) / float64(h-1)
		c := color.RGBA{
			R: lerp(top.R, bottom.R, t),
			G: lerp(top.G, bottom.G, t),
			B: lerp(top.B, bottom.B, t),
			A: 0xff,
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

// fillRoundedRect fills r with c, rounding the corners with the given radius.
func fillRoundedRect(img *image.RGBA, r image.Rectangle, radius int, c color.Color) {
	if radius <= 0 {
		draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
		return
	}
	// Center cross.
	draw.Draw(img, image.Rect(r.Min.X+radius, r.Min.Y, r.Max.X-radius, r.Max.Y), image.NewUniform(c), image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(r.Min.X, r.Min.Y+radius, r.Max.X, r.Max.Y-radius), image.NewUniform(c), image.Point{}, draw.Src)

	// Quarter discs for the corners.
	centers := []image.Point{
		{r.Min.X + radius, r.Min.Y + radius},
		{r.Max.X - radius - 1, r.Min.Y + radius},
		{r.Min.X + radius, r.Max.Y - radius - 1},
		{r.Max.X - radius - 1, r.Max.Y - radius - 1},
	}
	for _, center := range centers {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				if dx*dx+dy*dy <= radius*radius {
					img.Set(center.X+dx, center.Y+dy, c)
				}
			}
		}
	}
}

func drawCenteredText(img *image.RGBA, text string, y int, c color.Color) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
	}
	width := d.MeasureString(text)
	x := (fixed.I(img.Bounds().Dx()) - width) / 2
	d.Dot = fixed.Point26_6{X: x, Y: fixed.I(y)}
	d.DrawString(text)
}
