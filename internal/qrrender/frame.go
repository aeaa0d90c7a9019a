package qrrender

import (
	"errors"
	"strings"
)

// FrameStyle names a decorative wrapper drawn around the code.
type FrameStyle string

const (
	FrameNone     FrameStyle = "none"
	FrameRounded  FrameStyle = "rounded"
	FrameCircle   FrameStyle = "circle"
	FrameShadow   FrameStyle = "shadow"
	FrameGradient FrameStyle = "gradient"
	FrameBorder   FrameStyle = "border"
	FrameSquare   FrameStyle = "square"
	FrameModern   FrameStyle = "modern"
)

// ErrUnknownFrame is returned by ParseFrameStyle for an unlisted style.
var ErrUnknownFrame = errors.New("unknown frame style")

// FrameStyles lists the styles in the order they are offered.
var FrameStyles = []FrameStyle{
	FrameNone, FrameRounded, FrameCircle, FrameShadow,
	FrameGradient, FrameBorder, FrameSquare, FrameModern,
}

// ParseFrameStyle accepts any listed style, case-insensitively. Empty means none.
func ParseFrameStyle(s string) (FrameStyle, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FrameNone, nil
	}
	for _, f := range FrameStyles {
		if string(f) == s {
			return f, nil
		}
	}
	return "", ErrUnknownFrame
}

// Label is the human-readable name shown in the style picker.
func (f FrameStyle) Label() string {
	if f == "" {
		return "None"
	}
	return strings.ToUpper(string(f[:1])) + string(f[1:])
}

// frameSpec is the declarative description of a frame. All lengths are in
// surface units, where the code itself is qrSize wide. A frame never moves
// modules; it only adds padding and decoration around them.
type frameSpec struct {
	padding     float64
	radius      float64
	circle      bool
	borderWidth float64
	// borderAccent draws the border in the frame color instead of a neutral line.
	borderAccent bool
	shadowBlur   float64
	shadowOffset float64
	shadowAlpha  uint8
	gradient     bool
}

var frameSpecs = map[FrameStyle]frameSpec{
	FrameNone:     {},
	FrameRounded:  {padding: 24, radius: 24, borderWidth: 1, shadowOffset: 8, shadowAlpha: 31},
	FrameCircle:   {padding: 24, circle: true, borderWidth: 1, shadowOffset: 8, shadowAlpha: 31},
	FrameShadow:   {padding: 24, radius: 16, shadowOffset: 20, shadowBlur: 8, shadowAlpha: 38},
	FrameGradient: {padding: 24, radius: 20, gradient: true, shadowOffset: 8, shadowAlpha: 31},
	FrameBorder:   {padding: 24, radius: 16, borderWidth: 3, borderAccent: true, shadowOffset: 8, shadowAlpha: 20},
	FrameSquare:   {padding: 24, borderWidth: 2, borderAccent: true},
	FrameModern:   {padding: 24, radius: 12, borderWidth: 2, borderAccent: true, shadowOffset: 12, shadowBlur: 4, shadowAlpha: 31},
}

func (f FrameStyle) spec() frameSpec {
	return frameSpecs[f]
}

// framed reports whether the style draws a plate behind the code.
func (s frameSpec) framed() bool {
	return s.padding > 0
}
