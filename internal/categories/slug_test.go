package categories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Pendakian Gunung":       "pendakian-gunung",
		"  Camping Ceria  ":      "camping-ceria",
		"Trail Run 10K":          "trail-run-10k",
		"Susur (Sungai)!":        "susur-sungai",
		"UPPER":                  "upper",
		"multi   spasi -- aneh":  "multi-spasi-aneh",
	}
	for input, want := range cases {
		assert.Equal(t, want, Slugify(input), input)
	}
}
