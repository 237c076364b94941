package refdata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/kakite/internal/stroke"
)

func TestLoadBuiltin(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Len() < 10 {
		t.Fatalf("expected builtin characters, got %d", c.Len())
	}
	ch, ok := c.Lookup("三")
	if !ok {
		t.Fatalf("expected 三 in catalog")
	}
	if len(ch.Strokes) != 3 || ch.ViewBox != 109 {
		t.Fatalf("unexpected 三: %+v", ch)
	}
	for i, s := range ch.Strokes {
		if s.Direction != stroke.Right {
			t.Fatalf("stroke %d: expected right, got %s", i, s.Direction)
		}
		if s.Primary != nil {
			t.Fatalf("stroke %d: straight stroke has primary", i)
		}
	}
	if ch.Strokes[0].StartQuadrant != stroke.TopLeft || ch.Strokes[2].EndQuadrant != stroke.BottomRight {
		t.Fatalf("unexpected quadrants: %+v", ch.Strokes)
	}
	ten, _ := c.Lookup("十")
	if ten.Strokes[1].Direction != stroke.Down {
		t.Fatalf("expected 十 second stroke down, got %s", ten.Strokes[1].Direction)
	}
	if levels := c.Levels(); len(levels) != 1 || levels[0] != "n5" {
		t.Fatalf("unexpected levels: %v", levels)
	}
}

func TestBuiltinCurvedStroke(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ch, ok := c.Lookup("口")
	if !ok {
		t.Fatalf("expected 口 in catalog")
	}
	s := ch.Strokes[1]
	if s.Direction != stroke.Curved {
		t.Fatalf("expected curved, got %s", s.Direction)
	}
	if s.Primary == nil || *s.Primary != stroke.DownRight {
		t.Fatalf("expected primary down-right, got %v", s.Primary)
	}
}

func TestLoadOverridesFromDir(t *testing.T) {
	dir := t.TempDir()
	bundle := `[
  {"character": "一", "meaning": "one", "level": "N4", "viewBox": "0 0 109 109",
   "strokes": [{"id": "a", "path": "M10,50 L90,50", "length": 80}]},
  {"character": "ㄨ", "level": "n4", "viewBox": "0 0 200 200",
   "strokes": [{"path": "M20,20 L180,180"}, {"path": "M180,20 L20,180"}]}
]`
	if err := os.WriteFile(filepath.Join(dir, "extra.json"), []byte(bundle), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	c, err := Load(dir, filepath.Join(dir, "missing"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	list := c.List()
	if list[0].Char != "一" || list[0].Level != "n4" || list[0].Strokes[0].ID != "a" {
		t.Fatalf("expected override in place, got %+v", list[0])
	}
	x, ok := c.Lookup("ㄨ")
	if !ok {
		t.Fatalf("expected added character")
	}
	if x.ViewBox != 200 {
		t.Fatalf("expected view box 200, got %v", x.ViewBox)
	}
	if x.Strokes[0].ID != "ㄨ-s1" || x.Strokes[1].Direction != stroke.DownLeft {
		t.Fatalf("unexpected strokes: %+v", x.Strokes)
	}
	if x.Strokes[0].Length < 226 || x.Strokes[0].Length > 227 {
		t.Fatalf("expected derived length, got %v", x.Strokes[0].Length)
	}
	if got := c.ByLevel("n4"); len(got) != 2 {
		t.Fatalf("expected 2 n4 characters, got %d", len(got))
	}
	if levels := c.Levels(); len(levels) != 2 || levels[0] != "n4" {
		t.Fatalf("unexpected levels: %v", levels)
	}
}

func TestDecodeRejectsEmptyStrokes(t *testing.T) {
	_, err := Decode(strings.NewReader(`[{"character": "木", "strokes": []}]`))
	if err == nil || !strings.Contains(err.Error(), "木") {
		t.Fatalf("expected error naming character, got %v", err)
	}
}

func TestDecodeRejectsStrokeCountMismatch(t *testing.T) {
	_, err := Decode(strings.NewReader(`[{"character": "二", "strokeCount": 3, "strokes": [{"path": "M1,1 L5,1"}]}]`))
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestLoadReportsBundleName(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := Load(dir)
	if err == nil || !strings.Contains(err.Error(), "broken.json") {
		t.Fatalf("expected error naming bundle, got %v", err)
	}
}

func TestParseViewBox(t *testing.T) {
	if got := ParseViewBox("0 0 109 109"); got != 109 {
		t.Fatalf("expected 109, got %v", got)
	}
	if got := ParseViewBox("0,0,300,300"); got != 300 {
		t.Fatalf("expected 300, got %v", got)
	}
	if got := ParseViewBox(""); got != 109 {
		t.Fatalf("expected default, got %v", got)
	}
	if got := ParseViewBox("0 0 -5 10"); got != 109 {
		t.Fatalf("expected default for negative width, got %v", got)
	}
}
