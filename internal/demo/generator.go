// Package demo generates product-name collections and runs the search walkthrough
// used by the demo command.
package demo

import (
	"math/rand/v2"
	"strings"
)

const (
	// swapThreshold is the collection size from which swapped-order variants are added.
	swapThreshold = 100
	// swapVariants is how many names get a variant with the first two words swapped.
	swapVariants = 50
)

// Generator produces random four-word product names. The same seed always yields the
// same names.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator seeded with seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Name returns one random name: adjective noun category brand.
func (g *Generator) Name() string {
	return strings.Join([]string{
		pick(g.rng, adjectives),
		pick(g.rng, nouns),
		pick(g.rng, categories),
		pick(g.rng, brands),
	}, " ")
}

// Names returns count random names. When count is at least 100, it also appends one
// variant of each of the first 50 names with the first two words swapped, so word-order
// effects show up in searches.
func (g *Generator) Names(count int) []string {
	if count <= 0 {
		return []string{}
	}
	names := make([]string, 0, count+swapVariants)
	for i := 0; i < count; i++ {
		names = append(names, g.Name())
	}
	if count >= swapThreshold {
		for i := 0; i < swapVariants; i++ {
			if swapped, ok := SwapFirstWords(names[i]); ok {
				names = append(names, swapped)
			}
		}
	}
	return names
}

// Sample returns n distinct random entries of names, or all of them when n exceeds len(names).
func (g *Generator) Sample(names []string, n int) []string {
	if n > len(names) {
		n = len(names)
	}
	out := make([]string, 0, n)
	for _, i := range g.rng.Perm(len(names))[:n] {
		out = append(out, names[i])
	}
	return out
}

// SwapFirstWords swaps the first two words of a four-word name.
func SwapFirstWords(name string) (string, bool) {
	parts := strings.Fields(name)
	if len(parts) != 4 {
		return "", false
	}
	parts[0], parts[1] = parts[1], parts[0]
	return strings.Join(parts, " "), true
}

func pick(rng *rand.Rand, words []string) string {
	return words[rng.IntN(len(words))]
}
