// Package staticmap renders capture reports as standalone PNG maps. No tile
// provider is involved: points are placed on an equirectangular projection
// of the capture area, which is accurate enough at farm scale.
package staticmap

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strconv"
	"time"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/rfarias/geocapture/internal/core/domain"
	"github.com/rfarias/geocapture/internal/pkg/metrics"
)

const (
	mapWidth  = 1024
	mapHeight = 768

	// Markers and geofence rings are drawn on a 2x canvas and downscaled
	// for soft edges; labels are drawn afterwards at final resolution so
	// the bitmap font stays crisp.
	supersample = 2

	paddingFrac = 0.12

	metersPerDegreeLat = 111320.0
)

var (
	background = color.NRGBA{R: 245, G: 245, B: 240, A: 255}
	inkColor   = color.NRGBA{R: 40, G: 40, B: 40, A: 255}
	grayColor  = color.NRGBA{R: 130, G: 130, B: 130, A: 255}
)

// Renderer implements ports.Renderer.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// projection maps coordinates to pixels on a canvas of the given size.
type projection struct {
	minLat, maxLat float64
	minLon, maxLon float64
	width, height  int
}

func newProjection(records []domain.CapturedRecord, sites []domain.ClientSite, width, height int) projection {
	p := projection{
		minLat: math.Inf(1), maxLat: math.Inf(-1),
		minLon: math.Inf(1), maxLon: math.Inf(-1),
		width: width, height: height,
	}
	grow := func(lat, lon float64) {
		p.minLat = math.Min(p.minLat, lat)
		p.maxLat = math.Max(p.maxLat, lat)
		p.minLon = math.Min(p.minLon, lon)
		p.maxLon = math.Max(p.maxLon, lon)
	}
	for _, rec := range records {
		grow(rec.Lat, rec.Lon)
	}
	for _, site := range sites {
		grow(site.Center.Lat, site.Center.Lon)
	}

	latSpan := p.maxLat - p.minLat
	lonSpan := p.maxLon - p.minLon
	// A single point or a colinear set still needs a visible extent.
	if latSpan < 0.01 {
		mid := (p.maxLat + p.minLat) / 2
		p.minLat, p.maxLat = mid-0.005, mid+0.005
		latSpan = 0.01
	}
	if lonSpan < 0.01 {
		mid := (p.maxLon + p.minLon) / 2
		p.minLon, p.maxLon = mid-0.005, mid+0.005
		lonSpan = 0.01
	}
	p.minLat -= latSpan * paddingFrac
	p.maxLat += latSpan * paddingFrac
	p.minLon -= lonSpan * paddingFrac
	p.maxLon += lonSpan * paddingFrac
	return p
}

func (p projection) pixel(lat, lon float64) (int, int) {
	x := (lon - p.minLon) / (p.maxLon - p.minLon) * float64(p.width)
	y := (p.maxLat - lat) / (p.maxLat - p.minLat) * float64(p.height)
	return int(x), int(y)
}

// metersToPixelsX converts a ground distance to horizontal pixels at the
// given latitude.
func (p projection) metersToPixelsX(meters, lat float64) int {
	degrees := meters / (metersPerDegreeLat * math.Cos(lat*math.Pi/180))
	return int(degrees / (p.maxLon - p.minLon) * float64(p.width))
}

// Render draws all records and site geofences onto one PNG.
func (r *Renderer) Render(ctx context.Context, records []domain.CapturedRecord, sites []domain.ClientSite) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("nothing to render")
	}
	start := time.Now()

	w, h := mapWidth*supersample, mapHeight*supersample
	canvas := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	proj := newProjection(records, sites, w, h)
	colors := siteColors(sites)

	for _, site := range sites {
		cx, cy := proj.pixel(site.Center.Lat, site.Center.Lon)
		radius := proj.metersToPixelsX(site.RadiusMeters, site.Center.Lat)
		c := colors[site.Name]
		drawRing(canvas, cx, cy, radius, 2*supersample, withAlpha(c, 110))
		drawDisc(canvas, cx, cy, radius, withAlpha(c, 28))
		drawCross(canvas, cx, cy, 6*supersample, withAlpha(c, 200))
	}

	for _, rec := range records {
		px, py := proj.pixel(rec.Lat, rec.Lon)
		c := grayColor
		if rec.Client != "" {
			if sc, ok := colors[rec.Client]; ok {
				c = sc
			}
		}
		drawDisc(canvas, px, py, 5*supersample, c)
		drawRing(canvas, px, py, 5*supersample, supersample, inkColor)
	}

	final := imaging.Resize(canvas, mapWidth, mapHeight, imaging.Lanczos)

	labelProj := newProjection(records, sites, mapWidth, mapHeight)
	for _, site := range sites {
		cx, cy := labelProj.pixel(site.Center.Lat, site.Center.Lon)
		drawLabel(final, cx+8, cy-8, site.Name, inkColor)
	}
	for _, rec := range records {
		px, py := labelProj.pixel(rec.Lat, rec.Lon)
		drawLabel(final, px+7, py+4, strconv.Itoa(rec.Seq), inkColor)
	}
	drawLabel(final, 10, mapHeight-10, fmt.Sprintf("%d capturas | %s", len(records), time.Now().Format("02/01/2006 15:04")), grayColor)

	var buf bytes.Buffer
	if err := png.Encode(&buf, final); err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}

	metrics.ReportsRendered.Inc()
	metrics.ReportRenderDuration.Observe(time.Since(start).Seconds())
	return buf.Bytes(), nil
}

// siteColors resolves each site's configured hex color, falling back to a
// spread of distinct hues for sites without one.
func siteColors(sites []domain.ClientSite) map[string]color.NRGBA {
	out := make(map[string]color.NRGBA, len(sites))
	for i, site := range sites {
		c, err := colorful.Hex(site.DisplayColor)
		if err != nil {
			c = colorful.Hsv(float64(i*77%360), 0.75, 0.80)
		}
		rr, gg, bb := c.RGB255()
		out[site.Name] = color.NRGBA{R: rr, G: gg, B: bb, A: 255}
	}
	return out
}

func withAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = a
	return c
}

func drawDisc(img *image.NRGBA, cx, cy, radius int, c color.NRGBA) {
	blend(img, cx, cy, radius, func(dx, dy int) bool {
		return dx*dx+dy*dy <= radius*radius
	}, c)
}

func drawRing(img *image.NRGBA, cx, cy, radius, thickness int, c color.NRGBA) {
	inner := radius - thickness
	blend(img, cx, cy, radius, func(dx, dy int) bool {
		d := dx*dx + dy*dy
		return d <= radius*radius && d >= inner*inner
	}, c)
}

func drawCross(img *image.NRGBA, cx, cy, arm int, c color.NRGBA) {
	for d := -arm; d <= arm; d++ {
		setBlend(img, cx+d, cy, c)
		setBlend(img, cx, cy+d, c)
	}
}

func blend(img *image.NRGBA, cx, cy, radius int, hit func(dx, dy int) bool, c color.NRGBA) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if hit(dx, dy) {
				setBlend(img, cx+dx, cy+dy, c)
			}
		}
	}
}

func setBlend(img *image.NRGBA, x, y int, c color.NRGBA) {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return
	}
	if c.A == 255 {
		img.SetNRGBA(x, y, c)
		return
	}
	draw.Draw(img, image.Rect(x, y, x+1, y+1), image.NewUniform(c), image.Point{}, draw.Over)
}

func drawLabel(img *image.NRGBA, x, y int, text string, c color.NRGBA) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
