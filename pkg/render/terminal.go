package render

import (
	"image"
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
	xdraw "golang.org/x/image/draw"
)

// CellSetter is the part of uv.Screen that Draw writes to.
type CellSetter interface {
	SetCell(x, y int, c *uv.Cell)
}

// Draw scales the framebuffer to fit area and writes it as half-block
// cells: every terminal row shows two pixel rows, the upper one as the
// foreground of "▀" and the lower one as its background.
//
// The buffer is drawn as stored, so flip it first if it was rendered y-up.
func (fb *Framebuffer) Draw(scr CellSetter, area uv.Rectangle) {
	cols := area.Max.X - area.Min.X
	rows := area.Max.Y - area.Min.Y
	if cols <= 0 || rows <= 0 || fb.Width == 0 || fb.Height == 0 {
		return
	}

	src := fb.ToImage()
	dst := image.NewRGBA(image.Rect(0, 0, cols, rows*2))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	for row := range rows {
		for col := range cols {
			top := dst.RGBAAt(col, row*2)
			bot := dst.RGBAAt(col, row*2+1)
			scr.SetCell(area.Min.X+col, area.Min.Y+row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(top),
					Bg: cellColor(bot),
				},
			})
		}
	}
}

// cellColor maps transparent pixels to the terminal default color.
func cellColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}
