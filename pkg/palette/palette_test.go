package palette

import (
	"strings"
	"testing"
)

func TestResolveDeterministic(t *testing.T) {
	p := Default()

	first := p.Resolve([]string{"Health", "Environment", "Other", "Health"})
	second := p.Resolve([]string{"Other", "Health", "Environment"})

	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("Resolve() lengths = %d, %d, want 3, 3", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("entry %d = %+v vs %+v, want identical regardless of input order", i, first[i], second[i])
		}
	}

	// Sorted theme order
	want := []string{"Environment", "Health", "Other"}
	for i, e := range first {
		if e.Theme != want[i] {
			t.Errorf("entry %d theme = %s, want %s", i, e.Theme, want[i])
		}
	}
}

func TestResolveExplicitColors(t *testing.T) {
	p, err := New(map[string]string{"Health": "#f38ba8"}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	entries := p.Resolve([]string{"Environment", "Health"})
	if entries[1].Theme != "Health" || entries[1].Color != "#f38ba8" {
		t.Errorf("explicit entry = %+v, want Health #f38ba8", entries[1])
	}
	// Unlisted theme takes the first cycle color
	if entries[0].Color != DefaultCycle[0] {
		t.Errorf("cycle entry color = %s, want %s", entries[0].Color, DefaultCycle[0])
	}
}

func TestResolveCycleWraps(t *testing.T) {
	p, err := New(nil, []string{"#111111", "#222222"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	entries := p.Resolve([]string{"A", "B", "C"})
	if entries[0].Color != "#111111" || entries[1].Color != "#222222" || entries[2].Color != "#111111" {
		t.Errorf("cycle assignment = %+v, want wrap after two colors", entries)
	}
}

func TestNewRejectsBadColors(t *testing.T) {
	tests := []struct {
		name   string
		colors map[string]string
		cycle  []string
		wantIn string
	}{
		{name: "not hex", colors: map[string]string{"A": "red"}, wantIn: `theme "A"`},
		{name: "missing hash", colors: map[string]string{"A": "a6e3a1"}, wantIn: `theme "A"`},
		{name: "wrong length", colors: map[string]string{"A": "#a6e3"}, wantIn: `theme "A"`},
		{name: "bad cycle entry", cycle: []string{"#a6e3a1", "blue"}, wantIn: "cycle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.colors, tt.cycle)
			if err == nil {
				t.Fatal("New() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantIn) {
				t.Errorf("New() error = %q, want mention of %s", err, tt.wantIn)
			}
		})
	}
}

func TestParse(t *testing.T) {
	data := []byte(`
colors:
  Environment: "#a6e3a1"
  Health: "#f38ba8"
cycle:
  - "#89b4fa"
  - "#fab387"
`)

	p, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	entries := p.Resolve([]string{"Environment", "Other"})
	if entries[0].Color != "#a6e3a1" {
		t.Errorf("Environment color = %s, want #a6e3a1", entries[0].Color)
	}
	if entries[1].Color != "#89b4fa" {
		t.Errorf("Other color = %s, want first cycle color #89b4fa", entries[1].Color)
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	if _, err := Parse([]byte("colors: [not a map")); err == nil {
		t.Error("Parse() error = nil, want error")
	}
}

func TestFingerprint(t *testing.T) {
	a, _ := New(map[string]string{"A": "#111111"}, nil)
	b, _ := New(map[string]string{"A": "#111111"}, nil)
	c, _ := New(map[string]string{"A": "#222222"}, nil)

	if a.Fingerprint() != b.Fingerprint() {
		t.Error("identical palettes should share a fingerprint")
	}
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("different palettes should not share a fingerprint")
	}
	if len(a.Fingerprint()) != 64 {
		t.Errorf("Fingerprint length = %d, want 64", len(a.Fingerprint()))
	}
}
