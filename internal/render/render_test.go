package render

import (
	"bytes"
	"errors"
	"image/png"
	"strings"
	"testing"

	"github.com/hailam/rook/internal/board"
	"github.com/hailam/rook/internal/testutil"
)

func TestSVG(t *testing.T) {
	var buf bytes.Buffer
	testutil.AssertNoError(t, SVG(&buf, board.NewBoard(), Options{}))
	out := buf.String()

	testutil.AssertContains(t, out, "<svg")
	testutil.AssertContains(t, out, `viewBox="0 0 360 360"`)
	testutil.AssertEqual(t, strings.Count(out, "<rect"), 64)
	testutil.AssertEqual(t, strings.Count(out, "<circle"), 32)
	testutil.AssertEqual(t, strings.Count(out, ">K</text>"), 2)
	testutil.AssertEqual(t, strings.Count(out, ">P</text>"), 16)
	testutil.AssertFalse(t, strings.Contains(out, `id="coordinates"`))
	testutil.AssertFalse(t, strings.Contains(out, lightHighlight))
}

func TestSVGOptions(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{
		SquareSize:  10,
		Coordinates: true,
		Flip:        true,
		Highlight:   board.SquareBB(board.E2) | board.SquareBB(board.E3),
	}
	testutil.AssertNoError(t, SVG(&buf, board.NewBoard(), opts))
	out := buf.String()

	testutil.AssertContains(t, out, `viewBox="0 0 80 80"`)
	testutil.AssertContains(t, out, `id="coordinates"`)
	testutil.AssertEqual(t, strings.Count(out, lightHighlight), 1)
	testutil.AssertEqual(t, strings.Count(out, darkHighlight), 1)
}

func TestSquareOrigin(t *testing.T) {
	tests := []struct {
		sq   board.Square
		flip bool
		x, y int
	}{
		{board.A1, false, 0, 70},
		{board.H8, false, 70, 0},
		{board.A1, true, 70, 0},
		{board.E4, false, 40, 40},
		{board.E4, true, 30, 30},
	}
	for _, tc := range tests {
		x, y := squareOrigin(tc.sq, 10, tc.flip)
		testutil.AssertEqual(t, [2]int{x, y}, [2]int{tc.x, tc.y}, "%s flip=%v", tc.sq, tc.flip)
	}
}

type failingWriter struct{}

var errWrite = errors.New("write failed")

func (failingWriter) Write([]byte) (int, error) { return 0, errWrite }

func TestSVGWriteError(t *testing.T) {
	testutil.AssertErrorIs(t, SVG(failingWriter{}, board.NewBoard(), Options{}), errWrite)
}

func TestPNG(t *testing.T) {
	var buf bytes.Buffer
	testutil.AssertNoError(t, PNG(&buf, board.NewBoard(), 240, Options{}))

	img, err := png.Decode(&buf)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, img.Bounds().Dx(), 240)
	testutil.AssertEqual(t, img.Bounds().Dy(), 240)

	// e4 is an empty light square; a1 a dark square under a white rook's rim.
	near := func(got uint32, want uint8) bool {
		g := int(got >> 8)
		return g >= int(want)-3 && g <= int(want)+3
	}
	r, g, b, _ := img.At(4*30+15, 4*30+15).RGBA()
	testutil.AssertTrue(t, near(r, 0xf0) && near(g, 0xd9) && near(b, 0xb5), "e4 color %d %d %d", r>>8, g>>8, b>>8)

	// The corner of a1 lies outside the piece disc.
	r, g, b, _ = img.At(1, 238).RGBA()
	testutil.AssertTrue(t, near(r, 0xb5) && near(g, 0x88) && near(b, 0x63), "a1 color %d %d %d", r>>8, g>>8, b>>8)
}

func TestPNGTooSmall(t *testing.T) {
	var buf bytes.Buffer
	err := PNG(&buf, board.NewBoard(), 4, Options{})
	testutil.AssertTrue(t, err != nil, "expected an error for a 4 pixel image")
}
