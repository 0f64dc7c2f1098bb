package shortener

import (
	"math/rand/v2"

	"github.com/prasetyowira/shortlink/constant"
)

// Generator produces random fixed-length aliases drawn from [A-Za-z0-9].
// Aliases are not guaranteed unique; the Repository decides uniqueness.
type Generator struct {
	length int
}

// NewGenerator creates a generator for aliases of the given length.
// Non-positive lengths fall back to constant.DefaultAliasLength.
func NewGenerator(length int) *Generator {
	if length <= 0 {
		length = constant.DefaultAliasLength
	}
	return &Generator{length: length}
}

// Length returns the length of generated aliases.
func (g *Generator) Length() int {
	return g.length
}

// Generate returns a new random alias.
func (g *Generator) Generate() string {
	result := make([]byte, g.length)
	for i := range result {
		result[i] = constant.AliasCharset[rand.IntN(len(constant.AliasCharset))]
	}
	return string(result)
}
