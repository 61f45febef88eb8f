package qr

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCode_ProducesDecodablePNG(t *testing.T) {
	data, err := Code("https://bar.example/pedido/4", 256)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
	assert.Equal(t, 256, img.Bounds().Dy())
}

func TestCode_ZeroSizeFallsBackToDefault(t *testing.T) {
	data, err := Code("https://bar.example/carta", 0)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 512, img.Bounds().Dx())
}

func TestPoster_DimensionsIncludeTextBand(t *testing.T) {
	img, err := Poster("https://bar.example/pedido/4", PosterOptions{Size: 400})
	require.NoError(t, err)

	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 500, img.Bounds().Dy())
}

func TestPoster_DefaultsTo600px(t *testing.T) {
	img, err := Poster("https://bar.example/carta", PosterOptions{})
	require.NoError(t, err)

	assert.Equal(t, 600, img.Bounds().Dx())
	assert.Equal(t, 700, img.Bounds().Dy())
}

func TestPosterPNG_RoundTrips(t *testing.T) {
	data, err := PosterPNG("https://bar.example/pedido/7", PosterOptions{
		Size:    300,
		Caption: "Mesa 7 · Escanea para pedir",
	})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 400, img.Bounds().Dy())
}

func TestScaleToCard_UpscalesFromNaturalModuleSize(t *testing.T) {
	code, err := qrcode.New("https://bar.example/pedido/4", qrcode.Medium)
	require.NoError(t, err)

	// The natural render is one pixel per module, far below card size, so
	// the scaling step is doing real work.
	natural := code.Image(-1)
	target := 480
	require.Less(t, natural.Bounds().Dx(), target)

	scaled := scaleToCard(code, target)
	assert.Equal(t, target, scaled.Bounds().Dx())
	assert.Equal(t, target, scaled.Bounds().Dy())
}

func TestPoster_OversizedContentFails(t *testing.T) {
	// QR codes cap out near 7k characters; anything past that must error
	// instead of producing a broken poster.
	_, err := Poster(strings.Repeat("a", 8000), PosterOptions{})
	assert.Error(t, err)
}
