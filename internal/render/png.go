package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/hailam/rook/internal/board"
)

// Render at higher resolution and scale down for smooth edges.
const renderScale = 2

var boldFont = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(gobold.TTF)
})

// Image rasterizes a diagram of b, size pixels square. Coordinates are
// not drawn.
func Image(b *board.Board, size int, opts Options) (*image.RGBA, error) {
	if size < 8 {
		return nil, fmt.Errorf("render: image size %d is smaller than the board", size)
	}
	renderSize := size * renderScale

	opts.Coordinates = false
	opts.noLetters = true
	var buf bytes.Buffer
	if err := SVG(&buf, b, opts); err != nil {
		return nil, err
	}

	icon, err := oksvg.ReadIconStream(&buf)
	if err != nil {
		return nil, fmt.Errorf("render: parse diagram: %w", err)
	}
	icon.SetTarget(0, 0, float64(renderSize), float64(renderSize))

	rgba := image.NewRGBA(image.Rect(0, 0, renderSize, renderSize))
	scanner := rasterx.NewScannerGV(renderSize, renderSize, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(renderSize, renderSize, scanner)
	icon.Draw(raster, 1.0)

	if err := drawLetters(rgba, b, float64(renderSize)/8, opts.Flip); err != nil {
		return nil, err
	}

	out := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(out, out.Bounds(), rgba, rgba.Bounds(), draw.Src, nil)
	return out, nil
}

// PNG writes a rasterized diagram of b.
func PNG(w io.Writer, b *board.Board, size int, opts Options) error {
	img, err := Image(b, size, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

func drawLetters(dst *image.RGBA, b *board.Board, square float64, flip bool) error {
	f, err := boldFont()
	if err != nil {
		return fmt.Errorf("render: load font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    square / 2,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("render: font face: %w", err)
	}
	defer face.Close()

	capHeight := face.Metrics().CapHeight
	onWhite := image.NewUniform(color.RGBA{0x20, 0x20, 0x20, 0xff})
	onBlack := image.NewUniform(color.RGBA{0xff, 0xff, 0xff, 0xff})

	for sq := range b.Occupied().All() {
		p := b.PieceAt(sq)

		file, rank := float64(sq.File()), float64(7-sq.Rank())
		if flip {
			file, rank = 7-file, 7-rank
		}
		cx := fixed.Int26_6((file + 0.5) * square * 64)
		cy := fixed.Int26_6((rank + 0.5) * square * 64)

		d := &font.Drawer{Dst: dst, Src: onWhite, Face: face}
		if p.Color() == board.Black {
			d.Src = onBlack
		}
		letter := string(pieceLetter(p))
		d.Dot = fixed.Point26_6{X: cx - d.MeasureString(letter)/2, Y: cy + capHeight/2}
		d.DrawString(letter)
	}
	return nil
}
