// Package palette assigns display colors to proposal themes.
//
// A palette combines explicit theme-to-color mappings with a fallback
// cycle for themes it has never seen. Assignment is deterministic: the
// distinct themes are sorted and unlisted ones consume cycle colors in
// that order, so the same dataset always gets the same legend.
//
// Palettes load from YAML:
//
//	colors:
//	  Environment: "#a6e3a1"
//	  Health: "#f38ba8"
//	cycle:
//	  - "#89b4fa"
//	  - "#fab387"
package palette

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"
)

// DefaultCycle is the fallback color cycle used when a palette does not
// define its own.
var DefaultCycle = []string{
	"#89b4fa", // blue
	"#a6e3a1", // green
	"#f38ba8", // red
	"#f9e2af", // yellow
	"#cba6f7", // mauve
	"#94e2d5", // teal
	"#fab387", // peach
	"#b4befe", // lavender
}

var reHexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Palette maps themes to colors. Construct with New, Parse, Load, or
// Default; the zero value has no cycle and assigns nothing.
type Palette struct {
	colors map[string]string
	cycle  []string
}

// Default returns a palette with no explicit mappings and the default
// cycle.
func Default() *Palette {
	p, _ := New(nil, nil)
	return p
}

// New builds a palette from explicit theme colors and a fallback cycle.
// A nil or empty cycle selects DefaultCycle. Every color must be a hex
// color like #a6e3a1 or #fff.
func New(colors map[string]string, cycle []string) (*Palette, error) {
	for theme, color := range colors {
		if !reHexColor.MatchString(color) {
			return nil, fmt.Errorf("theme %q: invalid color %q", theme, color)
		}
	}
	for _, color := range cycle {
		if !reHexColor.MatchString(color) {
			return nil, fmt.Errorf("cycle: invalid color %q", color)
		}
	}
	if len(cycle) == 0 {
		cycle = DefaultCycle
	}
	p := &Palette{
		colors: make(map[string]string, len(colors)),
		cycle:  append([]string(nil), cycle...),
	}
	for theme, color := range colors {
		p.colors[theme] = color
	}
	return p, nil
}

// paletteFile is the YAML schema.
type paletteFile struct {
	Colors map[string]string `yaml:"colors"`
	Cycle  []string          `yaml:"cycle"`
}

// Parse builds a palette from YAML bytes.
func Parse(data []byte) (*Palette, error) {
	var f paletteFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse palette: %w", err)
	}
	return New(f.Colors, f.Cycle)
}

// Load builds a palette from a YAML file.
func Load(path string) (*Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read palette %s: %w", path, err)
	}
	return Parse(data)
}

// Entry is one resolved theme color.
type Entry struct {
	Theme string
	Color string
}

// Resolve assigns a color to every distinct theme. Themes are sorted
// ascending; explicitly mapped themes keep their color, and the rest
// consume the cycle in sorted order, wrapping when it runs out.
func (p *Palette) Resolve(themes []string) []Entry {
	distinct := make(map[string]bool, len(themes))
	for _, theme := range themes {
		distinct[theme] = true
	}
	sorted := make([]string, 0, len(distinct))
	for theme := range distinct {
		sorted = append(sorted, theme)
	}
	sort.Strings(sorted)

	entries := make([]Entry, 0, len(sorted))
	next := 0
	for _, theme := range sorted {
		color, ok := p.colors[theme]
		if !ok && len(p.cycle) > 0 {
			color = p.cycle[next%len(p.cycle)]
			next++
		}
		entries = append(entries, Entry{Theme: theme, Color: color})
	}
	return entries
}

// Fingerprint returns a stable hash of the palette's contents, for use
// in cache keys.
func (p *Palette) Fingerprint() string {
	canonical, _ := json.Marshal(struct {
		Colors map[string]string `json:"colors"`
		Cycle  []string          `json:"cycle"`
	}{p.colors, p.cycle})
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}
