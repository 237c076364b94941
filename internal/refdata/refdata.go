// Package refdata loads reference character bundles into a read-only catalog.
package refdata

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/verte-zerg/kakite/internal/geom"
	"github.com/verte-zerg/kakite/internal/grade"
	"github.com/verte-zerg/kakite/internal/stroke"
	"github.com/verte-zerg/kakite/internal/svgpath"
)

//go:embed bundles/*.json
var builtin embed.FS

type bundleStroke struct {
	ID     string  `json:"id"`
	Path   string  `json:"path"`
	Length float64 `json:"length"`
}

type bundleChar struct {
	Character   string         `json:"character"`
	Meaning     string         `json:"meaning"`
	Level       string         `json:"level"`
	StrokeCount int            `json:"strokeCount"`
	ViewBox     string         `json:"viewBox"`
	Strokes     []bundleStroke `json:"strokes"`
}

// Catalog is an immutable set of reference characters. It is safe for
// concurrent readers.
type Catalog struct {
	chars []grade.Character
	index map[string]int
}

// New builds a catalog from chars. A later entry for the same character
// replaces the earlier one in place.
func New(chars []grade.Character) *Catalog {
	c := &Catalog{index: make(map[string]int, len(chars))}
	for _, ch := range chars {
		c.put(ch)
	}
	return c
}

func (c *Catalog) put(ch grade.Character) {
	if i, ok := c.index[ch.Char]; ok {
		c.chars[i] = ch
		return
	}
	c.index[ch.Char] = len(c.chars)
	c.chars = append(c.chars, ch)
}

// Load builds a catalog from the built-in bundles and every *.json file in
// dirs, using default derivation thresholds.
func Load(dirs ...string) (*Catalog, error) {
	return LoadWith(stroke.DefaultOptions(), dirs...)
}

// LoadWith is Load with explicit derivation thresholds. Missing
// directories are ignored.
func LoadWith(opts stroke.Options, dirs ...string) (*Catalog, error) {
	c := New(nil)
	names, err := fs.Glob(builtin, "bundles/*.json")
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		f, err := builtin.Open(name)
		if err != nil {
			return nil, fmt.Errorf("failed to open builtin bundle %s: %w", name, err)
		}
		chars, err := DecodeWith(f, opts)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("builtin bundle %s: %w", name, err)
		}
		for _, ch := range chars {
			c.put(ch)
		}
	}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		files, err := bundleFiles(dir)
		if err != nil {
			return nil, err
		}
		for _, path := range files {
			chars, err := LoadFile(path, opts)
			if err != nil {
				return nil, err
			}
			for _, ch := range chars {
				c.put(ch)
			}
		}
	}
	return c, nil
}

func bundleFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read bundle dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// LoadFile decodes a single bundle file.
func LoadFile(path string, opts stroke.Options) ([]grade.Character, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bundle: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	chars, err := DecodeWith(f, opts)
	if err != nil {
		return nil, fmt.Errorf("bundle %s: %w", filepath.Base(path), err)
	}
	return chars, nil
}

// Decode reads a JSON bundle and derives stroke metadata with default
// thresholds.
func Decode(r io.Reader) ([]grade.Character, error) {
	return DecodeWith(r, stroke.DefaultOptions())
}

// DecodeWith reads a JSON bundle and derives stroke metadata with opts.
// opts.ViewBox is replaced by each character's own view box.
func DecodeWith(r io.Reader, opts stroke.Options) ([]grade.Character, error) {
	var raw []bundleChar
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode bundle: %w", err)
	}
	out := make([]grade.Character, 0, len(raw))
	for i, rc := range raw {
		ch, err := convert(rc, opts)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out = append(out, ch)
	}
	return out, nil
}

func convert(rc bundleChar, opts stroke.Options) (grade.Character, error) {
	if rc.Character == "" {
		return grade.Character{}, fmt.Errorf("character is empty")
	}
	if len(rc.Strokes) == 0 {
		return grade.Character{}, fmt.Errorf("character %q has no strokes", rc.Character)
	}
	if rc.StrokeCount > 0 && rc.StrokeCount != len(rc.Strokes) {
		return grade.Character{}, fmt.Errorf("character %q declares %d strokes, has %d", rc.Character, rc.StrokeCount, len(rc.Strokes))
	}
	opts.ViewBox = ParseViewBox(rc.ViewBox)
	ch := grade.Character{
		Char:    rc.Character,
		Meaning: rc.Meaning,
		Level:   strings.ToLower(strings.TrimSpace(rc.Level)),
		ViewBox: opts.ViewBox,
		Strokes: make([]grade.ReferenceStroke, 0, len(rc.Strokes)),
	}
	for i, s := range rc.Strokes {
		if strings.TrimSpace(s.Path) == "" {
			return grade.Character{}, fmt.Errorf("character %q stroke %d has no path", rc.Character, i+1)
		}
		id := s.ID
		if id == "" {
			id = rc.Character + "-s" + strconv.Itoa(i+1)
		}
		length := s.Length
		if length <= 0 {
			length = geom.PathLength(svgpath.Parse(s.Path).Waypoints)
		}
		meta := stroke.DeriveWith(s.Path, opts)
		ch.Strokes = append(ch.Strokes, grade.ReferenceStroke{
			ID:            id,
			Path:          s.Path,
			Length:        length,
			Direction:     meta.Direction,
			Primary:       meta.Primary,
			StartQuadrant: meta.StartQuadrant,
			EndQuadrant:   meta.EndQuadrant,
		})
	}
	return ch, nil
}

// ParseViewBox returns the width field of an SVG viewBox attribute
// ("minX minY width height"), or the default 109 when it is missing or
// not positive.
func ParseViewBox(s string) float64 {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
	if len(fields) < 3 {
		return stroke.DefaultViewBox
	}
	v, err := strconv.ParseFloat(fields[2], 64)
	if err != nil || v <= 0 {
		return stroke.DefaultViewBox
	}
	return v
}

// Lookup returns the reference for char.
func (c *Catalog) Lookup(char string) (grade.Character, bool) {
	i, ok := c.index[char]
	if !ok {
		return grade.Character{}, false
	}
	return c.chars[i], true
}

// List returns all characters in catalog order. The stroke slices are
// shared with the catalog and must not be modified.
func (c *Catalog) List() []grade.Character {
	out := make([]grade.Character, len(c.chars))
	copy(out, c.chars)
	return out
}

// Levels returns the distinct non-empty levels, sorted.
func (c *Catalog) Levels() []string {
	seen := make(map[string]struct{})
	var levels []string
	for _, ch := range c.chars {
		if ch.Level == "" {
			continue
		}
		if _, ok := seen[ch.Level]; ok {
			continue
		}
		seen[ch.Level] = struct{}{}
		levels = append(levels, ch.Level)
	}
	sort.Strings(levels)
	return levels
}

// ByLevel returns the characters tagged with level, in catalog order. An
// empty level returns everything.
func (c *Catalog) ByLevel(level string) []grade.Character {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return c.List()
	}
	var out []grade.Character
	for _, ch := range c.chars {
		if ch.Level == level {
			out = append(out, ch)
		}
	}
	return out
}

// Len returns the number of characters.
func (c *Catalog) Len() int {
	return len(c.chars)
}
