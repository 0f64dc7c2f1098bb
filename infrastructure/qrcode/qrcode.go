package qrcode

import (
	"strings"

	"github.com/skip2/go-qrcode"
)

// DefaultSize is the PNG edge length in pixels.
const DefaultSize = 256

// Generator renders QR codes pointing at short links
type Generator struct {
	baseURL string
}

// NewGenerator creates a new QR code generator
func NewGenerator(baseURL string) *Generator {
	return &Generator{
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// ShortURL returns the public link for alias.
func (g *Generator) ShortURL(alias string) string {
	return g.baseURL + "/" + alias
}

// Generate encodes the short link for alias as a PNG of size×size pixels.
func (g *Generator) Generate(alias string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	return qrcode.Encode(g.ShortURL(alias), qrcode.Medium, size)
}
