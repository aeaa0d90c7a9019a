// Package qrrender turns a short link into a framed QR code: a vector
// surface for preview and a fixed-size PNG for download.
package qrrender

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"net/http"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/lucasb-eyer/go-colorful"
	_ "golang.org/x/image/webp" // register decoder
)

const (
	// MaxLogoBytes caps an uploaded logo.
	MaxLogoBytes = 2 << 20
	// MaxFrameTextLength caps the caption in runes.
	MaxFrameTextLength = 40

	DefaultFrameColor      = "#22c55e"
	DefaultTextColor       = "#111827"
	DefaultBackgroundColor = "#ffffff"
)

var (
	ErrLogoTooLarge  = errors.New("logo must be 2 MB or smaller")
	ErrLogoFormat    = errors.New("logo must be a PNG, JPEG or WebP image")
	ErrInvalidColor  = errors.New("invalid color")
	ErrFrameTextLong = fmt.Errorf("frame text must be at most %d characters", MaxFrameTextLength)
)

var allowedLogoMIMEs = []string{"image/png", "image/jpeg", "image/webp"}

// Logo is a decoded logo image together with its original bytes, which are
// embedded as-is in the vector surface.
type Logo struct {
	Image image.Image
	MIME  string
	Data  []byte
}

// DataURI returns the original bytes as a data: URI.
func (l *Logo) DataURI() string {
	return "data:" + l.MIME + ";base64," + base64.StdEncoding.EncodeToString(l.Data)
}

// DecodeLogo validates and decodes an uploaded logo.
func DecodeLogo(data []byte) (*Logo, error) {
	if len(data) > MaxLogoBytes {
		return nil, ErrLogoTooLarge
	}
	mime := http.DetectContentType(data)
	if !slices.Contains(allowedLogoMIMEs, mime) {
		return nil, ErrLogoFormat
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLogoFormat, err)
	}
	return &Logo{Image: img, MIME: mime, Data: data}, nil
}

// DecodeLogoBase64 decodes a logo carried in a hidden form field between
// previews. An empty string means no logo.
func DecodeLogoBase64(s string) (*Logo, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if i := strings.Index(s, ";base64,"); strings.HasPrefix(s, "data:") && i >= 0 {
		s = s[i+len(";base64,"):]
	}
	if base64.StdEncoding.DecodedLen(len(s)) > MaxLogoBytes+3 {
		return nil, ErrLogoTooLarge
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLogoFormat, err)
	}
	return DecodeLogo(data)
}

// Config is the customize screen's view model.
type Config struct {
	FrameStyle            FrameStyle
	Logo                  *Logo
	FrameText             string
	FrameColor            colorful.Color
	TextColor             colorful.Color
	BackgroundColor       colorful.Color
	TransparentBackground bool
}

// DefaultConfig is the unframed black-on-white code.
func DefaultConfig() Config {
	return Config{
		FrameStyle:      FrameNone,
		FrameColor:      mustHex(DefaultFrameColor),
		TextColor:       mustHex(DefaultTextColor),
		BackgroundColor: mustHex(DefaultBackgroundColor),
	}
}

// ParseColor parses "#rgb" or "#rrggbb". Empty input yields fallback.
func ParseColor(s, fallback string) (colorful.Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		s = fallback
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%w %q", ErrInvalidColor, s)
	}
	return c, nil
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseConfig builds a Config from form fields read through get. The logo
// is decoded separately by the caller.
func ParseConfig(get func(key string) string, logo *Logo) (Config, error) {
	cfg := DefaultConfig()
	cfg.Logo = logo

	frame, err := ParseFrameStyle(get("frameStyle"))
	if err != nil {
		return cfg, err
	}
	cfg.FrameStyle = frame

	cfg.FrameText = strings.TrimSpace(get("frameText"))
	if utf8.RuneCountInString(cfg.FrameText) > MaxFrameTextLength {
		return cfg, ErrFrameTextLong
	}

	if cfg.FrameColor, err = ParseColor(get("frameColor"), DefaultFrameColor); err != nil {
		return cfg, err
	}
	if cfg.TextColor, err = ParseColor(get("textColor"), DefaultTextColor); err != nil {
		return cfg, err
	}
	if cfg.BackgroundColor, err = ParseColor(get("backgroundColor"), DefaultBackgroundColor); err != nil {
		return cfg, err
	}

	switch strings.ToLower(get("transparentBackground")) {
	case "on", "true", "1", "yes":
		cfg.TransparentBackground = true
	}
	return cfg, nil
}
