// Package cards renders shareable impact-card bitmaps for logged
// activities. Rendering is pure: callers supply the data and the photo,
// the renderer returns an image.
package cards

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Card styles.
const (
	StyleGlassmorphism = "glassmorphism"
	StyleSplit         = "split"
	StyleMinimalist    = "minimalist"
)

// Canvas sizes. Story format suits vertical feeds, feed format is square.
const (
	StoryWidth  = 1080
	StoryHeight = 1920
	FeedWidth   = 1080
	FeedHeight  = 1080
)

// Data is everything a card can show. Photo may be nil; styles that need it
// fall back to a flat background.
type Data struct {
	DisplayName  string
	ActivityName string
	Caption      string
	Points       int
	CO2SavedKg   float64
	TotalCO2Kg   float64
	Streak       int
	LevelName    string
	Date         string
	Photo        image.Image
}

// Renderer draws impact cards in the supported styles.
type Renderer struct {
	regular *truetype.Font
	bold    *truetype.Font
}

// NewRenderer parses the embedded fonts once.
func NewRenderer() (*Renderer, error) {
	regular, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := freetype.ParseFont(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	return &Renderer{regular: regular, bold: bold}, nil
}

// Render draws a card in the given style. Unknown styles fall back to
// glassmorphism.
func (r *Renderer) Render(style string, data Data) (image.Image, error) {
	switch style {
	case StyleSplit:
		return r.renderSplit(data)
	case StyleMinimalist:
		return r.renderMinimalist(data)
	default:
		return r.renderGlassmorphism(data)
	}
}

var (
	forestDark  = color.RGBA{R: 16, G: 58, B: 40, A: 255}
	forestLight = color.RGBA{R: 42, G: 122, B: 86, A: 255}
	white       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	offWhite    = color.RGBA{R: 235, G: 240, B: 237, A: 255}
	glassFill   = color.RGBA{R: 255, G: 255, B: 255, A: 46}
	inkDark     = color.RGBA{R: 28, G: 38, B: 33, A: 255}
	accentGreen = color.RGBA{R: 88, G: 196, B: 140, A: 255}
)

// renderGlassmorphism draws the full-bleed photo (or gradient) with a
// translucent stats panel over the lower half.
func (r *Renderer) renderGlassmorphism(data Data) (image.Image, error) {
	canvas := image.NewRGBA(image.Rect(0, 0, StoryWidth, StoryHeight))

	if data.Photo != nil {
		coverPhoto(canvas, canvas.Bounds(), data.Photo)
		shade(canvas, canvas.Bounds(), color.RGBA{A: 70})
	} else {
		verticalGradient(canvas, canvas.Bounds(), forestDark, forestLight)
	}

	panel := image.Rect(80, 1080, StoryWidth-80, 1760)
	fillRect(canvas, panel, glassFill)
	fillRect(canvas, image.Rect(panel.Min.X, panel.Min.Y, panel.Max.X, panel.Min.Y+6), accentGreen)

	if err := r.drawLines(canvas, panel.Min.X+56, panel.Min.Y+60, []line{
		{data.ActivityName, r.bold, 64, white},
		{fmt.Sprintf("+%d points", data.Points), r.bold, 52, accentGreen},
		{fmt.Sprintf("%.1f kg CO2 saved", data.CO2SavedKg), r.regular, 44, offWhite},
		{fmt.Sprintf("%d day streak  ·  %s", data.Streak, data.LevelName), r.regular, 44, offWhite},
		{data.Caption, r.regular, 36, offWhite},
		{data.Date, r.regular, 32, offWhite},
	}); err != nil {
		return nil, err
	}

	if err := r.drawText(canvas, r.bold, 48, white, 80, 140, data.DisplayName); err != nil {
		return nil, err
	}
	return canvas, nil
}

// renderSplit draws the photo across the top 60% of a square canvas and the
// stats on a solid block below.
func (r *Renderer) renderSplit(data Data) (image.Image, error) {
	canvas := image.NewRGBA(image.Rect(0, 0, FeedWidth, FeedHeight))

	photoArea := image.Rect(0, 0, FeedWidth, FeedHeight*6/10)
	if data.Photo != nil {
		coverPhoto(canvas, photoArea, data.Photo)
	} else {
		verticalGradient(canvas, photoArea, forestLight, forestDark)
	}

	statsArea := image.Rect(0, photoArea.Max.Y, FeedWidth, FeedHeight)
	fillRect(canvas, statsArea, white)
	fillRect(canvas, image.Rect(0, statsArea.Min.Y, FeedWidth, statsArea.Min.Y+8), accentGreen)

	if err := r.drawLines(canvas, 72, statsArea.Min.Y+56, []line{
		{data.ActivityName, r.bold, 56, inkDark},
		{fmt.Sprintf("+%d points  ·  %.1f kg CO2", data.Points, data.CO2SavedKg), r.bold, 44, forestLight},
		{fmt.Sprintf("%s  ·  %d day streak", data.DisplayName, data.Streak), r.regular, 38, inkDark},
		{data.Date, r.regular, 30, inkDark},
	}); err != nil {
		return nil, err
	}
	return canvas, nil
}

// renderMinimalist draws a plain light canvas with a small photo badge in
// the top corner and large type.
func (r *Renderer) renderMinimalist(data Data) (image.Image, error) {
	canvas := image.NewRGBA(image.Rect(0, 0, StoryWidth, StoryHeight))
	fillRect(canvas, canvas.Bounds(), offWhite)

	if data.Photo != nil {
		badge := image.Rect(StoryWidth-360, 80, StoryWidth-80, 360)
		coverPhoto(canvas, badge, data.Photo)
	}

	if err := r.drawLines(canvas, 100, 640, []line{
		{data.DisplayName, r.regular, 44, inkDark},
		{data.ActivityName, r.bold, 88, forestDark},
		{fmt.Sprintf("+%d", data.Points), r.bold, 160, accentGreen},
		{fmt.Sprintf("%.1f kg CO2 saved today", data.CO2SavedKg), r.regular, 48, inkDark},
		{fmt.Sprintf("%.1f kg all time  ·  %s", data.TotalCO2Kg, data.LevelName), r.regular, 40, inkDark},
		{data.Date, r.regular, 34, inkDark},
	}); err != nil {
		return nil, err
	}

	fillRect(canvas, image.Rect(100, StoryHeight-140, 420, StoryHeight-128), forestLight)
	return canvas, nil
}

type line struct {
	text string
	font *truetype.Font
	size float64
	col  color.Color
}

// drawLines renders a vertical stack of text lines starting at (x, y),
// skipping empty ones.
func (r *Renderer) drawLines(dst *image.RGBA, x, y int, lines []line) error {
	for _, l := range lines {
		if l.text == "" {
			continue
		}
		y += int(l.size * 1.35)
		if err := r.drawText(dst, l.font, l.size, l.col, x, y, l.text); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) drawText(dst *image.RGBA, f *truetype.Font, size float64, col color.Color, x, y int, text string) error {
	c := freetype.NewContext()
	c.SetDPI(72)
	c.SetFont(f)
	c.SetFontSize(size)
	c.SetClip(dst.Bounds())
	c.SetDst(dst)
	c.SetSrc(image.NewUniform(col))
	c.SetHinting(font.HintingFull)
	_, err := c.DrawString(text, freetype.Pt(x, y))
	return err
}

// coverPhoto scales the photo to fill the target rect, cropping overflow.
func coverPhoto(dst *image.RGBA, target image.Rectangle, photo image.Image) {
	pb := photo.Bounds()
	if pb.Dx() == 0 || pb.Dy() == 0 {
		return
	}

	scaleX := float64(target.Dx()) / float64(pb.Dx())
	scaleY := float64(target.Dy()) / float64(pb.Dy())
	scale := scaleX
	if scaleY > scale {
		scale = scaleY
	}

	w := int(float64(pb.Dx()) * scale)
	h := int(float64(pb.Dy()) * scale)
	offX := target.Min.X - (w-target.Dx())/2
	offY := target.Min.Y - (h-target.Dy())/2

	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), photo, pb, xdraw.Over, nil)
	draw.Draw(dst, target, scaled, image.Pt(target.Min.X-offX, target.Min.Y-offY), draw.Src)
}

func fillRect(dst *image.RGBA, r image.Rectangle, col color.Color) {
	draw.Draw(dst, r, image.NewUniform(col), image.Point{}, draw.Over)
}

// shade darkens a region by compositing a translucent black layer.
func shade(dst *image.RGBA, r image.Rectangle, col color.RGBA) {
	fillRect(dst, r, col)
}

// verticalGradient fills r with a top-to-bottom blend from c1 to c2.
func verticalGradient(dst *image.RGBA, r image.Rectangle, c1, c2 color.RGBA) {
	h := r.Dy()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		t := float64(y-r.Min.Y) / float64(h)
		c := color.RGBA{
			R: uint8(float64(c1.R) + t*float64(int(c2.R)-int(c1.R))),
			G: uint8(float64(c1.G) + t*float64(int(c2.G)-int(c1.G))),
			B: uint8(float64(c1.B) + t*float64(int(c2.B)-int(c1.B))),
			A: 255,
		}
		draw.Draw(dst, image.Rect(r.Min.X, y, r.Max.X, y+1), image.NewUniform(c), image.Point{}, draw.Src)
	}
}
