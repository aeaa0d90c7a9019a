package qrrender

import (
	"fmt"
	"math"

	qrcode "github.com/skip2/go-qrcode"
)

// Matrix is an encoded QR symbol including its quiet zone.
type Matrix struct {
	size int
	dark [][]bool
}

// Encode encodes content at the highest error correction level, which
// tolerates about 30% damage and so survives an excavated logo area.
func Encode(content string) (*Matrix, error) {
	q, err := qrcode.New(content, qrcode.Highest)
	if err != nil {
		return nil, fmt.Errorf("encoding qr code: %w", err)
	}
	bits := q.Bitmap()
	return &Matrix{size: len(bits), dark: bits}, nil
}

// Size is the width of the symbol in modules.
func (m *Matrix) Size() int {
	return m.size
}

// Dark reports whether the module at column x, row y is dark.
func (m *Matrix) Dark(x, y int) bool {
	if x < 0 || y < 0 || x >= m.size || y >= m.size {
		return false
	}
	return m.dark[y][x]
}

// DarkCount returns the number of dark modules.
func (m *Matrix) DarkCount() int {
	n := 0
	for _, row := range m.dark {
		for _, d := range row {
			if d {
				n++
			}
		}
	}
	return n
}

// Excavate returns a copy with every module touching r cleared. r is given
// in modules and may be fractional.
func (m *Matrix) Excavate(r Rect) *Matrix {
	x0 := max(0, int(math.Floor(r.X)))
	y0 := max(0, int(math.Floor(r.Y)))
	x1 := min(m.size, int(math.Ceil(r.X+r.W)))
	y1 := min(m.size, int(math.Ceil(r.Y+r.H)))

	out := &Matrix{size: m.size, dark: make([][]bool, m.size)}
	for y := range m.dark {
		out.dark[y] = append([]bool(nil), m.dark[y]...)
		if y < y0 || y >= y1 {
			continue
		}
		for x := x0; x < x1; x++ {
			out.dark[y][x] = false
		}
	}
	return out
}
