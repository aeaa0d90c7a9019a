package qrrender

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"zaplink/internal/sanitize"
)

const (
	// qrSize is the drawn width of the code, quiet zone included.
	qrSize = 240.0
	// logoRatio is the logo's share of qrSize.
	logoRatio = 50.0 / 240.0
	// frameMargin leaves room around a plate for its shadow and border.
	frameMargin = 12.0

	// CanvasSize is the width and height of the exported code in pixels.
	CanvasSize = 300
	// CaptionHeight is the strip added beneath the code when a caption is set.
	CaptionHeight = 40
)

// Rect is an axis-aligned rectangle in surface units.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) scale(k float64) Rect {
	return Rect{X: r.X * k, Y: r.Y * k, W: r.W * k, H: r.H * k}
}

// Surface is a laid-out code ready to be serialized or rasterized.
type Surface struct {
	Config
	Matrix *Matrix
	// Excavated is true when modules under the logo were cleared.
	Excavated bool

	// Side is the width and height of the square part of the surface.
	Side float64
	// Caption is the height of the caption strip, zero without one.
	Caption float64
	Plate    Rect
	QR       Rect
	LogoRect Rect

	frame frameSpec
}

// Render lays out content under cfg. A logo always comes with excavation at
// the highest correction level; the two cannot be enabled separately.
func Render(content string, cfg Config) (*Surface, error) {
	if _, ok := frameSpecs[cfg.FrameStyle]; !ok {
		return nil, ErrUnknownFrame
	}
	m, err := Encode(content)
	if err != nil {
		return nil, err
	}

	spec := cfg.FrameStyle.spec()
	s := &Surface{Config: cfg, Matrix: m, frame: spec}

	inset := 0.0
	if spec.framed() {
		inset = frameMargin
	}
	s.Side = qrSize + 2*(spec.padding+inset)
	s.Plate = Rect{X: inset, Y: inset, W: s.Side - 2*inset, H: s.Side - 2*inset}
	s.QR = Rect{X: inset + spec.padding, Y: inset + spec.padding, W: qrSize, H: qrSize}
	if cfg.FrameText != "" {
		s.Caption = CaptionHeight * s.Side / CanvasSize
	}

	if cfg.Logo != nil {
		side := qrSize * logoRatio
		s.LogoRect = Rect{
			X: s.QR.X + (qrSize-side)/2,
			Y: s.QR.Y + (qrSize-side)/2,
			W: side,
			H: side,
		}
		module := qrSize / float64(m.Size())
		s.Matrix = m.Excavate(Rect{
			X: (s.LogoRect.X - s.QR.X) / module,
			Y: (s.LogoRect.Y - s.QR.Y) / module,
			W: side / module,
			H: side / module,
		})
		s.Excavated = true
	}
	return s, nil
}

// Height is the full height of the surface, caption included.
func (s *Surface) Height() float64 {
	return s.Side + s.Caption
}

// SVG serializes the surface as a standalone SVG document.
func (s *Surface) SVG() string {
	var b strings.Builder
	w, h := s.Side, s.Height()
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s" shape-rendering="crispEdges">`,
		num(w), num(h), num(w), num(h))

	if s.frame.gradient || s.frame.shadowBlur > 0 {
		b.WriteString("<defs>")
		if s.frame.gradient {
			from, to := s.gradientStops()
			fmt.Fprintf(&b, `<linearGradient id="zl-plate" x1="0" y1="0" x2="1" y2="1"><stop offset="0" stop-color="%s"/><stop offset="1" stop-color="%s"/></linearGradient>`,
				from.Hex(), to.Hex())
		}
		if s.frame.shadowBlur > 0 {
			fmt.Fprintf(&b, `<filter id="zl-shadow" x="-20%%" y="-20%%" width="140%%" height="140%%"><feGaussianBlur stdDeviation="%s"/></filter>`,
				num(s.frame.shadowBlur))
		}
		b.WriteString("</defs>")
	}

	if !s.TransparentBackground {
		fmt.Fprintf(&b, `<rect width="%s" height="%s" fill="%s"/>`, num(w), num(h), s.BackgroundColor.Hex())
	}

	if s.frame.framed() {
		s.svgPlate(&b)
	}

	if !s.TransparentBackground {
		fmt.Fprintf(&b, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`,
			num(s.QR.X), num(s.QR.Y), num(s.QR.W), num(s.QR.H), s.BackgroundColor.Hex())
	}
	s.svgModules(&b)

	if s.Logo != nil {
		fmt.Fprintf(&b, `<image href="%s" x="%s" y="%s" width="%s" height="%s" preserveAspectRatio="xMidYMid meet"/>`,
			sanitize.EscapeHTML(s.Logo.DataURI()), num(s.LogoRect.X), num(s.LogoRect.Y), num(s.LogoRect.W), num(s.LogoRect.H))
	}

	if s.Caption > 0 {
		fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="middle" dominant-baseline="middle" font-family="sans-serif" font-size="%s" font-weight="600" fill="%s">%s</text>`,
			num(w/2), num(s.Side+s.Caption/2), num(s.Caption*0.45), s.TextColor.Hex(), sanitize.EscapeHTML(s.FrameText))
	}

	b.WriteString("</svg>")
	return b.String()
}

func (s *Surface) svgPlate(b *strings.Builder) {
	p := s.Plate
	shape := func(x, y float64, attrs string) {
		if s.frame.circle {
			fmt.Fprintf(b, `<circle cx="%s" cy="%s" r="%s" %s/>`, num(x+p.W/2), num(y+p.H/2), num(p.W/2), attrs)
			return
		}
		fmt.Fprintf(b, `<rect x="%s" y="%s" width="%s" height="%s" rx="%s" %s/>`,
			num(x), num(y), num(p.W), num(p.H), num(s.frame.radius), attrs)
	}

	if s.frame.shadowAlpha > 0 {
		attrs := fmt.Sprintf(`fill="#000000" fill-opacity="%s"`, num(float64(s.frame.shadowAlpha)/255))
		if s.frame.shadowBlur > 0 {
			attrs += ` filter="url(#zl-shadow)"`
		}
		shape(p.X, p.Y+s.frame.shadowOffset/2, attrs)
	}

	fill := `fill="` + plateColor.Hex() + `"`
	if s.frame.gradient {
		fill = `fill="url(#zl-plate)"`
	}
	if s.frame.borderWidth > 0 {
		fill += fmt.Sprintf(` stroke="%s" stroke-width="%s"`, s.borderColor().Hex(), num(s.frame.borderWidth))
	}
	shape(p.X, p.Y, fill)
}

func (s *Surface) svgModules(b *strings.Builder) {
	n := s.Matrix.Size()
	module := s.QR.W / float64(n)
	b.WriteString(`<path fill="#000000" d="`)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if !s.Matrix.Dark(x, y) {
				continue
			}
			fmt.Fprintf(b, "M%s %sh%sv%sh-%sz",
				num(s.QR.X+float64(x)*module), num(s.QR.Y+float64(y)*module), num(module), num(module), num(module))
		}
	}
	b.WriteString(`"/>`)
}

// plateColor fills non-gradient plates.
var plateColor = colorful.Color{R: 1, G: 1, B: 1}

// neutralBorder outlines plates whose border is not accented.
var neutralBorder = colorful.Color{R: 0.894, G: 0.894, B: 0.906}

func (s *Surface) borderColor() colorful.Color {
	if s.frame.borderAccent {
		return s.FrameColor
	}
	return neutralBorder
}

func (s *Surface) gradientStops() (colorful.Color, colorful.Color) {
	return s.FrameColor, s.FrameColor.BlendLab(plateColor, 0.45).Clamped()
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}
