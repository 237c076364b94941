package grade

import (
	"math/rand"
	"testing"

	"github.com/verte-zerg/kakite/internal/geom"
	"github.com/verte-zerg/kakite/internal/stroke"
)

func character(paths ...string) Character {
	ch := Character{Char: "test", ViewBox: 109}
	for i, p := range paths {
		meta := stroke.Derive(p, 109)
		ch.Strokes = append(ch.Strokes, ReferenceStroke{
			ID:            string(rune('a' + i)),
			Path:          p,
			Direction:     meta.Direction,
			Primary:       meta.Primary,
			StartQuadrant: meta.StartQuadrant,
			EndQuadrant:   meta.EndQuadrant,
		})
	}
	return ch
}

func line(x0, y0, x1, y1, scale float64) []geom.Point {
	return []geom.Point{{X: x0 * scale, Y: y0 * scale}, {X: x1 * scale, Y: y1 * scale}}
}

var threeStrokes = character(
	"M20,25 L89,25",
	"M25,30 L25,85",
	"M20,89 L89,89",
)

func drawThree(scale float64) [][]geom.Point {
	return [][]geom.Point{
		line(20, 25, 89, 25, scale),
		line(25, 30, 25, 85, scale),
		line(20, 89, 89, 89, scale),
	}
}

func TestValidateCorrectDrawing(t *testing.T) {
	res := Validate(drawThree(1), threeStrokes, 109)
	if !res.StrokeCountMatch || !res.StrokeOrderCorrect || !res.OverallMatch {
		t.Fatalf("expected a passing result, got %+v", res)
	}
	for i, ok := range res.StrokeDirectionMatches {
		if !ok {
			t.Fatalf("expected direction match for stroke %d", i)
		}
	}
	if res.OverallScore < 90 {
		t.Fatalf("expected score >= 90, got %d", res.OverallScore)
	}
}

func TestValidateScalesReferenceToCanvas(t *testing.T) {
	scale := 300.0 / 109
	res := Validate(drawThree(scale), threeStrokes, 300)
	if res.OverallScore < 90 || !res.OverallMatch {
		t.Fatalf("expected scaled drawing to pass, got %+v", res)
	}
	for i, s := range res.PerStroke {
		if s.SpatialAccuracy < 0.99 {
			t.Fatalf("stroke %d: expected near-perfect accuracy, got %v", i, s.SpatialAccuracy)
		}
	}
}

func TestValidateMissingStroke(t *testing.T) {
	drawn := drawThree(1)[:2]
	res := Validate(drawn, threeStrokes, 109)
	if res.StrokeCountMatch {
		t.Fatalf("expected count mismatch")
	}
	if res.ExpectedStrokes != 3 || res.ActualStrokes != 2 {
		t.Fatalf("unexpected counts: %d/%d", res.ActualStrokes, res.ExpectedStrokes)
	}
	if res.OverallMatch {
		t.Fatalf("expected no overall match with a missing stroke")
	}
	if len(res.StrokeDirectionMatches) != 3 || res.StrokeDirectionMatches[2] {
		t.Fatalf("expected missing position to be false: %v", res.StrokeDirectionMatches)
	}
	// 2/3 directions * 40 + 40 spatial + 10 order - 20 penalty.
	if res.OverallScore != 57 {
		t.Fatalf("expected score 57, got %d", res.OverallScore)
	}
}

func TestValidateReversedOrder(t *testing.T) {
	forward := drawThree(1)
	reversed := [][]geom.Point{forward[2], forward[1], forward[0]}
	res := Validate(reversed, threeStrokes, 109)
	if res.StrokeOrderCorrect {
		t.Fatalf("expected order to be incorrect")
	}
	want := []int{2, 1, 0}
	for i, idx := range res.Matched {
		if idx != want[i] {
			t.Fatalf("expected matches %v, got %v", want, res.Matched)
		}
	}
	for i, s := range res.PerStroke {
		if s.SpatialAccuracy < 0.99 {
			t.Fatalf("stroke %d: expected matched geometry to stay accurate, got %v", i, s.SpatialAccuracy)
		}
	}
	if res.PerStroke[0].OrderCorrect || !res.PerStroke[1].OrderCorrect || res.PerStroke[2].OrderCorrect {
		t.Fatalf("unexpected per-stroke order flags: %+v", res.PerStroke)
	}
	if res.OverallScore != 80 {
		t.Fatalf("expected score 80 without order bonus, got %d", res.OverallScore)
	}
}

func TestValidateTapIsUnmatched(t *testing.T) {
	drawn := append([][]geom.Point{{{X: 50, Y: 50}}}, drawThree(1)[1:]...)
	res := Validate(drawn, threeStrokes, 109)
	if res.Matched[0] != -1 {
		t.Fatalf("expected tap to stay unmatched, got %d", res.Matched[0])
	}
	if res.PerStroke[0].SpatialAccuracy != 0 || res.PerStroke[0].DirectionMatch {
		t.Fatalf("expected tap to score nothing, got %+v", res.PerStroke[0])
	}
}

func TestValidateEmptyReference(t *testing.T) {
	res := Validate(drawThree(1), Character{}, 109)
	if res.OverallScore != 0 || res.OverallMatch {
		t.Fatalf("expected zero score, got %+v", res)
	}
	res = Validate(nil, Character{}, 109)
	if res.OverallScore != 10 || res.OverallMatch {
		t.Fatalf("expected only the order bonus, got %+v", res)
	}
}

func TestValidateCurvedPrimary(t *testing.T) {
	ch := character("M30,20 L30,80 L80,80")
	drawn := [][]geom.Point{line(30, 20, 80, 80, 1)}
	res := Validate(drawn, ch, 109)
	if !res.StrokeDirectionMatches[0] {
		t.Fatalf("expected straight drawing near the primary direction to match")
	}
}

func TestMatchStrokesTieTakesLowestIndex(t *testing.T) {
	ch := character("M20,20 L80,20", "M20,20 L80,20")
	asg := MatchStrokes([][]geom.Point{line(20, 20, 80, 20, 1)}, ch.Strokes, 109, 109, DefaultOptions())
	if asg.Matched[0] != 0 {
		t.Fatalf("expected tie to go to reference 0, got %d", asg.Matched[0])
	}
}

func TestScoreBoundsAndInjectiveMatching(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for iter := 0; iter < 200; iter++ {
		var drawn [][]geom.Point
		for s := rnd.Intn(6); s > 0; s-- {
			var pts []geom.Point
			for p := rnd.Intn(8); p > 0; p-- {
				if rnd.Intn(4) == 0 && len(pts) > 0 {
					pts = append(pts, pts[len(pts)-1])
					continue
				}
				pts = append(pts, geom.Point{X: rnd.Float64() * 400, Y: rnd.Float64() * 400})
			}
			drawn = append(drawn, pts)
		}
		res := Validate(drawn, threeStrokes, 300)
		if res.OverallScore < 0 || res.OverallScore > 100 {
			t.Fatalf("score out of range: %d", res.OverallScore)
		}
		seen := map[int]bool{}
		for _, idx := range res.Matched {
			if idx < 0 {
				continue
			}
			if seen[idx] {
				t.Fatalf("reference %d assigned twice: %v", idx, res.Matched)
			}
			seen[idx] = true
		}
	}
}
