package misc

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	letters = "abcdefghijklmnopqrstuvwxyz"
	charset = letters + "0123456789"

	// DefaultLabelLength is the length of generated domain labels
	DefaultLabelLength = 10
)

type (
	LabelGenerator interface {
		Generate(n int) (string, error)
	}
)

type labelGenerator struct {
}

func newLabelGenerator() LabelGenerator {
	return &labelGenerator{}
}

// Generate returns a random DNS label of n characters starting with a letter
func (p labelGenerator) Generate(n int) (string, error) {
	if n < 1 {
		return "", fmt.Errorf("invalid label length: %d", n)
	}

	result := make([]byte, n)
	for i := range result {
		set := charset
		if i == 0 {
			set = letters
		}
		randomByte, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
		if err != nil {
			return "", err
		}
		result[i] = set[randomByte.Int64()]
	}

	return string(result), nil
}

var (
	DefaultLabelGenerator = newLabelGenerator()
)

// CandidateName builds a random name under zone, e.g. "k3f9az0qwe.com"
func CandidateName(g LabelGenerator, zone string) (string, error) {
	label, err := g.Generate(DefaultLabelLength)
	if err != nil {
		return "", err
	}
	zone = strings.Trim(strings.ToLower(zone), ".")
	if zone == "" {
		return "", fmt.Errorf("empty zone")
	}
	return label + "." + zone, nil
}
