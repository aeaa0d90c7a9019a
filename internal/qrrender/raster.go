package qrrender

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const shadowLayers = 4

var black = image.NewUniform(color.NRGBA{A: 255})

// Rasterize draws the surface onto a CanvasSize-wide canvas. The canvas is
// filled with the opaque background color first unless a transparent
// background was requested.
func Rasterize(s *Surface) *image.NRGBA {
	k := CanvasSize / s.Side
	height := CanvasSize
	if s.Caption > 0 {
		height += CaptionHeight
	}
	img := image.NewNRGBA(image.Rect(0, 0, CanvasSize, height))
	bg := nrgba(s.BackgroundColor)

	if !s.TransparentBackground {
		draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	}

	if s.frame.framed() {
		rasterPlate(img, s, k)
	}

	qr := s.QR.scale(k)
	if !s.TransparentBackground {
		draw.Draw(img, pixelRect(qr), image.NewUniform(bg), image.Point{}, draw.Src)
	}
	rasterModules(img, s.Matrix, qr)

	if s.Logo != nil {
		rasterLogo(img, s.Logo, s.LogoRect.scale(k))
	}

	if s.Caption > 0 {
		rasterCaption(img, s.FrameText, nrgba(s.TextColor))
	}
	return img
}

// Export rasterizes the surface and encodes it as PNG.
func Export(s *Surface) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, Rasterize(s)); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}

// DownloadName is the attachment name for an exported code.
func DownloadName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		case r == ' ':
			return '-'
		default:
			return -1
		}
	}, strings.TrimSpace(name))
	if name == "" {
		name = "code"
	}
	return "zaplink-qr-" + name + ".png"
}

func rasterPlate(img *image.NRGBA, s *Surface, k float64) {
	spec := s.frame
	plate := s.Plate.scale(k)
	radius := spec.radius * k

	if spec.shadowAlpha > 0 {
		shadow := plate
		shadow.Y += spec.shadowOffset / 2 * k
		if spec.shadowBlur > 0 {
			a := spec.shadowAlpha / shadowLayers
			for i := 0; i < shadowLayers; i++ {
				grow := spec.shadowBlur * k * float64(i) / shadowLayers
				layer := Rect{X: shadow.X - grow, Y: shadow.Y - grow, W: shadow.W + 2*grow, H: shadow.H + 2*grow}
				fillShape(img, layer, radius+grow, spec.circle, color.NRGBA{A: a})
			}
		} else {
			fillShape(img, shadow, radius, spec.circle, color.NRGBA{A: spec.shadowAlpha})
		}
	}

	if spec.gradient {
		from, to := s.gradientStops()
		fillGradient(img, plate, radius, spec.circle, from, to)
	} else {
		fillShape(img, plate, radius, spec.circle, nrgba(plateColor))
	}

	if spec.borderWidth > 0 {
		bw := math.Max(1, spec.borderWidth*k)
		outer := Rect{X: plate.X - bw/2, Y: plate.Y - bw/2, W: plate.W + bw, H: plate.H + bw}
		inner := Rect{X: plate.X + bw/2, Y: plate.Y + bw/2, W: plate.W - bw, H: plate.H - bw}
		c := image.NewUniform(nrgba(s.borderColor()))
		mask := image.NewAlpha(img.Bounds())
		forEachPixel(img.Bounds(), outer, func(x, y int, px, py float64) {
			if inShape(outer, radius+bw/2, spec.circle, px, py) && !inShape(inner, math.Max(0, radius-bw/2), spec.circle, px, py) {
				mask.SetAlpha(x, y, color.Alpha{A: 255})
			}
		})
		draw.DrawMask(img, img.Bounds(), c, image.Point{}, mask, image.Point{}, draw.Over)
	}
}

func rasterModules(img *image.NRGBA, m *Matrix, qr Rect) {
	n := m.Size()
	module := qr.W / float64(n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if !m.Dark(x, y) {
				continue
			}
			r := image.Rect(
				int(math.Round(qr.X+float64(x)*module)),
				int(math.Round(qr.Y+float64(y)*module)),
				int(math.Round(qr.X+float64(x+1)*module)),
				int(math.Round(qr.Y+float64(y+1)*module)),
			)
			draw.Draw(img, r, black, image.Point{}, draw.Src)
		}
	}
}

// rasterLogo scales the logo to fit area, keeping its aspect ratio.
func rasterLogo(img *image.NRGBA, logo *Logo, area Rect) {
	b := logo.Image.Bounds()
	if b.Empty() {
		return
	}
	w, h := area.W, area.H
	if b.Dx() > b.Dy() {
		h = area.W * float64(b.Dy()) / float64(b.Dx())
	} else if b.Dy() > b.Dx() {
		w = area.H * float64(b.Dx()) / float64(b.Dy())
	}
	dst := pixelRect(Rect{X: area.X + (area.W-w)/2, Y: area.Y + (area.H-h)/2, W: w, H: h})
	draw.CatmullRom.Scale(img, dst, logo.Image, b, draw.Over, nil)
}

func rasterCaption(img *image.NRGBA, text string, c color.NRGBA) {
	face := basicfont.Face7x13
	limit := fixed.I(CanvasSize - 16)
	for font.MeasureString(face, text) > limit && text != "" {
		r := []rune(text)
		text = string(r[:len(r)-1])
	}
	width := font.MeasureString(face, text)
	metrics := face.Metrics()
	baseline := CanvasSize + (CaptionHeight+metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: (fixed.I(CanvasSize) - width) / 2, Y: fixed.I(baseline)},
	}
	d.DrawString(text)
}

func fillShape(img *image.NRGBA, r Rect, radius float64, circle bool, c color.NRGBA) {
	mask := image.NewAlpha(img.Bounds())
	forEachPixel(img.Bounds(), r, func(x, y int, px, py float64) {
		if inShape(r, radius, circle, px, py) {
			mask.SetAlpha(x, y, color.Alpha{A: 255})
		}
	})
	draw.DrawMask(img, img.Bounds(), image.NewUniform(c), image.Point{}, mask, image.Point{}, draw.Over)
}

// fillGradient paints a diagonal gradient from the top-left to the bottom-right corner.
func fillGradient(img *image.NRGBA, r Rect, radius float64, circle bool, from, to colorful.Color) {
	forEachPixel(img.Bounds(), r, func(x, y int, px, py float64) {
		if !inShape(r, radius, circle, px, py) {
			return
		}
		t := ((px - r.X) + (py - r.Y)) / (r.W + r.H)
		img.SetNRGBA(x, y, nrgba(from.BlendRgb(to, t).Clamped()))
	})
}

// forEachPixel calls fn for every pixel of bounds whose square overlaps r,
// passing the pixel center.
func forEachPixel(bounds image.Rectangle, r Rect, fn func(x, y int, px, py float64)) {
	area := pixelRect(r).Inset(-1).Intersect(bounds)
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			fn(x, y, float64(x)+0.5, float64(y)+0.5)
		}
	}
}

func inShape(r Rect, radius float64, circle bool, px, py float64) bool {
	if px < r.X || py < r.Y || px > r.X+r.W || py > r.Y+r.H {
		return false
	}
	if circle {
		cx, cy := r.X+r.W/2, r.Y+r.H/2
		rad := math.Min(r.W, r.H) / 2
		return (px-cx)*(px-cx)+(py-cy)*(py-cy) <= rad*rad
	}
	radius = math.Min(radius, math.Min(r.W, r.H)/2)
	if radius <= 0 {
		return true
	}
	qx := math.Max(r.X+radius, math.Min(px, r.X+r.W-radius))
	qy := math.Max(r.Y+radius, math.Min(py, r.Y+r.H-radius))
	return (px-qx)*(px-qx)+(py-qy)*(py-qy) <= radius*radius
}

func pixelRect(r Rect) image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)), int(math.Round(r.Y)),
		int(math.Round(r.X+r.W)), int(math.Round(r.Y+r.H)),
	)
}

func nrgba(c colorful.Color) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}
