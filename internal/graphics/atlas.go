package graphics

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// SplitAtlas cuts a texture sheet into columns x rows equally sized cells,
// returned row by row. Pixels left over when the sheet does not divide
// evenly are dropped.
func SplitAtlas(sheet image.Image, columns, rows int) ([]image.Image, error) {
	if columns <= 0 || rows <= 0 {
		return nil, fmt.Errorf("invalid atlas grid %dx%d", columns, rows)
	}
	b := sheet.Bounds()
	cellW, cellH := b.Dx()/columns, b.Dy()/rows
	if cellW == 0 || cellH == 0 {
		return nil, fmt.Errorf("atlas %dx%d too small for a %dx%d grid", b.Dx(), b.Dy(), columns, rows)
	}

	cells := make([]image.Image, 0, columns*rows)
	for row := 0; row < rows; row++ {
		for col := 0; col < columns; col++ {
			r := image.Rect(
				b.Min.X+col*cellW, b.Min.Y+row*cellH,
				b.Min.X+(col+1)*cellW, b.Min.Y+(row+1)*cellH,
			)
			cell := image.NewRGBA(image.Rect(0, 0, cellW, cellH))
			draw.Draw(cell, cell.Bounds(), sheet, r.Min, draw.Src)
			cells = append(cells, cell)
		}
	}
	return cells, nil
}

// Resize scales img to a size x size square with nearest-neighbor sampling,
// which keeps pixel-art floors crisp.
func Resize(img image.Image, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// Placeholder builds a solid texture with a darker one-pixel border so
// adjacent tiles stay distinguishable.
func Placeholder(size int, fill color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: fill}, image.Point{}, draw.Src)

	edge := color.RGBA{R: fill.R / 2, G: fill.G / 2, B: fill.B / 2, A: fill.A}
	for i := 0; i < size; i++ {
		img.SetRGBA(i, 0, edge)
		img.SetRGBA(i, size-1, edge)
		img.SetRGBA(0, i, edge)
		img.SetRGBA(size-1, i, edge)
	}
	return img
}
