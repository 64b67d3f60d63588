package qr

import (
	"bytes"
	"context"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDimensionsAndColors(t *testing.T) {
	data, err := Encode("E1", 128)
	assert.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())
	assert.Equal(t, 128, img.Bounds().Dy())

	// The quiet zone corner is white.
	cr, cg, cb, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), cr)
	assert.Equal(t, uint32(0xffff), cg)
	assert.Equal(t, uint32(0xffff), cb)

	// The symbol has dark modules somewhere.
	dark := false
	for y := 0; y < 128 && !dark; y++ {
		for x := 0; x < 128; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r == 0 && g == 0 && b == 0 {
				dark = true
				break
			}
		}
	}
	assert.True(t, dark)
}

func TestPlaceholderMatchesArtifactDimensions(t *testing.T) {
	data := Placeholder(96)
	img, err := png.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
	assert.Equal(t, 96, img.Bounds().Dx())
	assert.Equal(t, 96, img.Bounds().Dy())
}

func TestGeneratorServesPlaceholderThenArtifact(t *testing.T) {
	g := NewGenerator(nil)
	ctx := context.Background()

	first := g.PNG(ctx, "s1", 1, "E1", 64)
	assert.Equal(t, Placeholder(64), first, "first request gets the placeholder")

	assert.Eventually(t, func() bool {
		return !bytes.Equal(g.PNG(ctx, "s1", 1, "E1", 64), Placeholder(64))
	}, 2*time.Second, 10*time.Millisecond, "generation completes and replaces the placeholder")

	want, err := Encode("E1", 64)
	assert.NoError(t, err)
	assert.Equal(t, want, g.PNG(ctx, "s1", 1, "E1", 64))
}

func TestGeneratorDropsStaleResults(t *testing.T) {
	// The session's epoch moved on (logout) while generation ran.
	g := NewGenerator(func(context.Context, string) (uint64, error) { return 5, nil })
	ctx := context.Background()

	g.generate(ctx, "s1", 4, "E1", 64)

	assert.Equal(t, Placeholder(64), g.PNG(ctx, "s1", 4, "E1", 64),
		"a result generated under an old epoch never lands")
}

func TestForget(t *testing.T) {
	g := NewGenerator(nil)
	ctx := context.Background()

	g.generate(ctx, "s1", 1, "E1", 64)
	assert.NotEqual(t, Placeholder(64), g.PNG(ctx, "s1", 1, "E1", 64))

	g.Forget("s1")

	// Back to the placeholder until the regeneration kicked off above lands.
	assert.Equal(t, Placeholder(64), g.PNG(ctx, "s1", 1, "E1", 64))
}
