// Package qr produces the scannable PNG artifact encoding an employee
// identifier. Generation is asynchronous: callers get a neutral
// placeholder of identical dimensions until the encoded image is ready,
// and results that land after the session has been logged out are
// discarded.
package qr

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"log"
	"sync"

	qrcode "github.com/skip2/go-qrcode"

	"attendanceportal/internal/metrics"
)

// quietModules is the margin around the symbol, in module units.
const quietModules = 2

// placeholderGray matches the portal's neutral placeholder swatch.
var placeholderGray = color.RGBA{R: 0xE5, G: 0xE7, B: 0xEB, A: 0xFF}

// EpochFunc reports a session's current epoch so finished generations can
// detect that logout happened while they ran.
type EpochFunc func(ctx context.Context, sessionID string) (uint64, error)

type entry struct {
	payload string
	size    int
	png     []byte
}

// Generator caches one rendered artifact per session and renders off the
// request goroutine.
type Generator struct {
	mu       sync.Mutex
	cache    map[string]entry
	inflight map[string]bool
	epochOf  EpochFunc
}

// NewGenerator creates a generator; epochOf may be nil, which disables the
// stale-session check.
func NewGenerator(epochOf EpochFunc) *Generator {
	return &Generator{
		cache:    make(map[string]entry),
		inflight: make(map[string]bool),
		epochOf:  epochOf,
	}
}

// PNG returns the rendered artifact for the session if generation has
// completed, otherwise kicks off generation and returns the placeholder.
// A failed generation is logged and leaves the placeholder in place; there
// is no retry within a session.
func (g *Generator) PNG(ctx context.Context, sessionID string, epoch uint64, payload string, size int) []byte {
	g.mu.Lock()
	if e, ok := g.cache[sessionID]; ok && e.payload == payload && e.size == size {
		g.mu.Unlock()
		return e.png
	}
	if !g.inflight[sessionID] {
		g.inflight[sessionID] = true
		go g.generate(context.Background(), sessionID, epoch, payload, size)
	}
	g.mu.Unlock()
	return Placeholder(size)
}

// Forget drops any cached artifact for the session. Called on logout.
func (g *Generator) Forget(sessionID string) {
	g.mu.Lock()
	delete(g.cache, sessionID)
	g.mu.Unlock()
}

func (g *Generator) generate(ctx context.Context, sessionID string, epoch uint64, payload string, size int) {
	data, err := Encode(payload, size)

	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inflight, sessionID)

	if err != nil {
		log.Printf("qr generation failed for session %s: %v", sessionID, err)
		metrics.QRGenerations.WithLabelValues("error").Inc()
		return
	}
	if g.epochOf != nil {
		current, err := g.epochOf(ctx, sessionID)
		if err != nil || current != epoch {
			metrics.QRGenerations.WithLabelValues("stale").Inc()
			return
		}
	}
	g.cache[sessionID] = entry{payload: payload, size: size, png: data}
	metrics.QRGenerations.WithLabelValues("ok").Inc()
}

// Encode renders the payload as a size x size PNG, black modules on a
// white field with a two-module quiet zone.
func Encode(payload string, size int) ([]byte, error) {
	q, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, err
	}

	grid := trim(q.Bitmap())
	dim := len(grid) + 2*quietModules
	scale := size / dim
	if scale < 1 {
		scale = 1
	}
	// Center the symbol; the remainder after integer scaling stays white.
	offset := (size - dim*scale) / 2

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, color.White)
		}
	}
	for my, row := range grid {
		for mx, dark := range row {
			if !dark {
				continue
			}
			x0 := offset + (mx+quietModules)*scale
			y0 := offset + (my+quietModules)*scale
			for y := y0; y < y0+scale; y++ {
				for x := x0; x < x0+scale; x++ {
					img.Set(x, y, color.Black)
				}
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// trim strips the encoder's own quiet zone so ours is exactly two modules.
func trim(bm [][]bool) [][]bool {
	minX, minY := len(bm), len(bm)
	maxX, maxY := -1, -1
	for y, row := range bm {
		for x, dark := range row {
			if !dark {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if maxX < 0 {
		return bm
	}
	out := make([][]bool, 0, maxY-minY+1)
	for y := minY; y <= maxY; y++ {
		out = append(out, bm[y][minX:maxX+1])
	}
	return out
}

// Placeholder is the neutral swatch shown until generation completes. It
// has the same dimensions as the real artifact.
func Placeholder(size int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, placeholderGray)
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}
