// Package chart renders small PNG charts for statistics pages.
//
// Shapes are described as SVG and rasterised with oksvg/rasterx; text is
// drawn afterwards with a bitmap font so no font files are needed.
package chart

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strconv"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ErrNoData is returned when there is nothing positive to plot.
var ErrNoData = errors.New("chart: no data")

// Datum is one labelled value of a chart.
type Datum struct {
	Label string
	Value float64
}

var palette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
}

var (
	background = color.White
	ink        = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
)

const (
	titleBaseline = 28
	plotTop       = 50
	lineHeight    = 20
)

type Renderer struct {
	width  int
	height int
}

func NewRenderer(width, height int) *Renderer {
	if width <= 0 {
		width = 640
	}
	if height <= 0 {
		height = 400
	}
	return &Renderer{width: width, height: height}
}

func (r *Renderer) Size() (int, int) { return r.width, r.height }

// Pie draws one slice per datum, proportional to its value, with a legend
// on the right. Non-positive values are skipped.
func (r *Renderer) Pie(ctx context.Context, title string, data []Datum) ([]byte, error) {
	slices := positive(data)
	if len(slices) == 0 {
		return nil, ErrNoData
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cx, cy, radius := r.pieGeometry()
	total := 0.0
	for _, d := range slices {
		total += d.Value
	}

	var svg strings.Builder
	r.openSVG(&svg)
	if len(slices) == 1 {
		fmt.Fprintf(&svg, `<circle cx="%s" cy="%s" r="%s" fill="%s"/>`, num(cx), num(cy), num(radius), palette[0])
	} else {
		angle := -math.Pi / 2
		for i, d := range slices {
			sweep := 2 * math.Pi * d.Value / total
			x1, y1 := cx+radius*math.Cos(angle), cy+radius*math.Sin(angle)
			x2, y2 := cx+radius*math.Cos(angle+sweep), cy+radius*math.Sin(angle+sweep)
			large := 0
			if sweep > math.Pi {
				large = 1
			}
			fmt.Fprintf(&svg, `<path d="M %s %s L %s %s A %s %s 0 %d 1 %s %s Z" fill="%s"/>`,
				num(cx), num(cy), num(x1), num(y1), num(radius), num(radius), large, num(x2), num(y2),
				colorAt(i))
			angle += sweep
		}
	}

	legendX := int(cx+radius) + 40
	for i := range slices {
		y := plotTop + 20 + i*lineHeight
		fmt.Fprintf(&svg, `<rect x="%d" y="%d" width="12" height="12" fill="%s"/>`, legendX, y, colorAt(i))
	}
	svg.WriteString(`</svg>`)

	img, err := r.rasterize(svg.String())
	if err != nil {
		return nil, err
	}

	drawer := &font.Drawer{Dst: img, Src: image.NewUniform(ink), Face: basicfont.Face7x13}
	drawCentered(drawer, r.width/2, titleBaseline, title)
	for i, d := range slices {
		y := plotTop + 20 + i*lineHeight
		pct := 100 * d.Value / total
		label := fmt.Sprintf("%s %s (%.0f%%)", d.Label, num(d.Value), pct)
		drawString(drawer, legendX+18, y+11, truncate(drawer, label, r.width-legendX-24))
	}

	return encode(img)
}

func (r *Renderer) pieGeometry() (cx, cy, radius float64) {
	plotHeight := float64(r.height - plotTop - 20)
	radius = math.Min(plotHeight, float64(r.width)*0.55) / 2
	cx = 20 + radius
	cy = float64(plotTop) + plotHeight/2
	return cx, cy, radius
}

type bar struct {
	x, y, w, h float64
}

// barLayout places one bar per datum inside the plot area. Bars are scaled
// against the largest value; negative values are drawn as empty bars.
func (r *Renderer) barLayout(data []Datum) (bars []bar, baseline float64) {
	const (
		left   = 40
		right  = 20
		bottom = 40
	)
	plotWidth := float64(r.width - left - right)
	baseline = float64(r.height - bottom)
	plotHeight := baseline - float64(plotTop) - lineHeight

	maxValue := 0.0
	for _, d := range data {
		maxValue = math.Max(maxValue, d.Value)
	}
	if maxValue == 0 {
		maxValue = 1
	}

	slot := plotWidth / float64(len(data))
	width := slot * 0.6
	bars = make([]bar, len(data))
	for i, d := range data {
		h := math.Max(d.Value, 0) / maxValue * plotHeight
		bars[i] = bar{
			x: float64(left) + slot*float64(i) + (slot-width)/2,
			y: baseline - h,
			w: width,
			h: h,
		}
	}
	return bars, baseline
}

// Bar draws one vertical bar per datum with its label below and its value
// above. At least one value must be positive.
func (r *Renderer) Bar(ctx context.Context, title string, data []Datum) ([]byte, error) {
	if len(positive(data)) == 0 {
		return nil, ErrNoData
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bars, baseline := r.barLayout(data)

	var svg strings.Builder
	r.openSVG(&svg)
	for i, b := range bars {
		if b.h <= 0 {
			continue
		}
		fmt.Fprintf(&svg, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`,
			num(b.x), num(b.y), num(b.w), num(b.h), colorAt(i))
	}
	fmt.Fprintf(&svg, `<rect x="30" y="%s" width="%d" height="1" fill="#333333"/>`, num(baseline), r.width-50)
	svg.WriteString(`</svg>`)

	img, err := r.rasterize(svg.String())
	if err != nil {
		return nil, err
	}

	drawer := &font.Drawer{Dst: img, Src: image.NewUniform(ink), Face: basicfont.Face7x13}
	drawCentered(drawer, r.width/2, titleBaseline, title)
	slot := int(bars[0].w / 0.6)
	for i, b := range bars {
		center := int(b.x + b.w/2)
		drawCentered(drawer, center, int(b.y)-4, num(data[i].Value))
		drawCentered(drawer, center, int(baseline)+16, truncate(drawer, data[i].Label, slot-4))
	}

	return encode(img)
}

func (r *Renderer) openSVG(b *strings.Builder) {
	fmt.Fprintf(b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		r.width, r.height, r.width, r.height)
}

func (r *Renderer) rasterize(svg string) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(strings.NewReader(svg))
	if err != nil {
		return nil, fmt.Errorf("parse chart svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(r.width), float64(r.height))

	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(r.width, r.height, img, img.Bounds())
	raster := rasterx.NewDasher(r.width, r.height, scanner)
	icon.Draw(raster, 1.0)
	return img, nil
}

func encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode chart png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawString(drawer *font.Drawer, x, baseline int, text string) {
	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
}

func drawCentered(drawer *font.Drawer, centerX, baseline int, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	width := drawer.MeasureString(text).Round()
	drawString(drawer, centerX-width/2, baseline, text)
}

func truncate(drawer *font.Drawer, text string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if drawer.MeasureString(text).Round() <= maxWidth {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "..."
		if drawer.MeasureString(candidate).Round() <= maxWidth {
			return candidate
		}
	}
	return ""
}

func positive(data []Datum) []Datum {
	out := make([]Datum, 0, len(data))
	for _, d := range data {
		if d.Value > 0 {
			out = append(out, d)
		}
	}
	return out
}

func colorAt(i int) string {
	return palette[i%len(palette)]
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
