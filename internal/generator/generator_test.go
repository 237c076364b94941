package generator

import (
	"testing"

	"github.com/verte-zerg/kakite/internal/grade"
)

func chars(names ...string) []grade.Character {
	out := make([]grade.Character, len(names))
	for i, n := range names {
		out[i] = grade.Character{Char: n}
	}
	return out
}

func TestNextAvoidsImmediateRepeats(t *testing.T) {
	g := NewSeeded(1)
	queue := g.Next(chars("一", "二", "三"), 50)
	if len(queue) != 50 {
		t.Fatalf("expected 50 characters, got %d", len(queue))
	}
	for i := 1; i < len(queue); i++ {
		if queue[i].Char == queue[i-1].Char {
			t.Fatalf("repeat at %d: %s", i, queue[i].Char)
		}
	}
}

func TestNextSingleCharacter(t *testing.T) {
	queue := NewSeeded(1).Next(chars("一"), 3)
	if len(queue) != 3 {
		t.Fatalf("expected 3 characters, got %d", len(queue))
	}
	for _, ch := range queue {
		if ch.Char != "一" {
			t.Fatalf("unexpected character %s", ch.Char)
		}
	}
}

func TestNextEmpty(t *testing.T) {
	g := NewSeeded(1)
	if got := g.Next(nil, 5); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	if got := g.Next(chars("一"), 0); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestNextWeightedFavoursWeak(t *testing.T) {
	g := NewSeeded(42)
	pool := chars("一", "二", "三", "十")
	weak := map[string]struct{}{"三": {}}
	queue := g.NextWeighted(pool, 2000, weak, 6)
	counts := map[string]int{}
	for _, ch := range queue {
		counts[ch.Char]++
	}
	for _, other := range []string{"一", "二", "十"} {
		if counts["三"] <= 2*counts[other] {
			t.Fatalf("expected 三 to dominate, counts %v", counts)
		}
	}
}
