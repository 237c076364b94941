// Package generator builds practice queues of reference characters.
package generator

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/kakite/internal/grade"
)

// Generator produces randomized practice queues.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a deterministic Generator.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Next selects count characters uniformly. The same character is not
// queued twice in a row unless it is the only choice.
func (g *Generator) Next(chars []grade.Character, count int) []grade.Character {
	weights := make([]float64, len(chars))
	for i := range weights {
		weights[i] = 1
	}
	return g.pick(chars, weights, count)
}

// NextWeighted selects count characters with a bias toward weak ones: a
// weak character is factor+1 times as likely as any other.
func (g *Generator) NextWeighted(chars []grade.Character, count int, weakSet map[string]struct{}, factor float64) []grade.Character {
	if factor < 0 {
		factor = 0
	}
	weights := make([]float64, len(chars))
	for i, ch := range chars {
		weights[i] = 1
		if _, ok := weakSet[ch.Char]; ok {
			weights[i] += factor
		}
	}
	return g.pick(chars, weights, count)
}

func (g *Generator) pick(chars []grade.Character, weights []float64, count int) []grade.Character {
	if len(chars) == 0 || count <= 0 {
		return nil
	}
	result := make([]grade.Character, 0, count)
	prev := -1
	for len(result) < count {
		idx := g.draw(weights, prev)
		result = append(result, chars[idx])
		prev = idx
	}
	return result
}

// draw returns a weighted random index, excluding skip when another index
// is available.
func (g *Generator) draw(weights []float64, skip int) int {
	total := 0.0
	for i, w := range weights {
		if i != skip || len(weights) == 1 {
			total += w
		}
	}
	r := g.rnd.Float64() * total
	acc := 0.0
	last := 0
	for i, w := range weights {
		if i == skip && len(weights) > 1 {
			continue
		}
		acc += w
		last = i
		if r < acc {
			return i
		}
	}
	return last
}
