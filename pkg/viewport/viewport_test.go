package viewport

import (
	"testing"
)

func TestStateClamped(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "below minimum", in: 0.1, want: MinZoom},
		{name: "zero", in: 0, want: MinZoom},
		{name: "above maximum", in: 50, want: MaxZoom},
		{name: "in range", in: 3, want: 3},
		{name: "at minimum", in: 0.5, want: 0.5},
		{name: "at maximum", in: 10, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := State{Zoom: tt.in}.Clamped()
			if got.Zoom != tt.want {
				t.Errorf("Clamped() zoom = %v, want %v", got.Zoom, tt.want)
			}
		})
	}
}

func TestNewTransformPadsDomain(t *testing.T) {
	tr := NewTransform(2018, 2023, 700)
	if tr.Domain.Start != 2017 || tr.Domain.End != 2024 {
		t.Errorf("NewTransform() domain = [%v, %v], want [2017, 2024]", tr.Domain.Start, tr.Domain.End)
	}
}

func TestVisible(t *testing.T) {
	tr := NewTransform(2018, 2023, 700) // domain [2017, 2024], width 7

	tests := []struct {
		name  string
		state State
		want  Window
	}{
		{
			name:  "unit zoom shows full domain",
			state: State{Zoom: 1},
			want:  Window{Start: 2017, End: 2024},
		},
		{
			name:  "unit zoom ignores pan",
			state: State{Zoom: 1, Pan: 340},
			want:  Window{Start: 2017, End: 2024},
		},
		{
			name:  "zoomed out collapses to domain",
			state: State{Zoom: 0.5},
			want:  Window{Start: 2017, End: 2024},
		},
		{
			name:  "zoom halves the window",
			state: State{Zoom: 2},
			want:  Window{Start: 2018.75, End: 2022.25},
		},
		{
			name:  "pan shifts left in domain units",
			state: State{Zoom: 2, Pan: 100},
			want:  Window{Start: 2017.75, End: 2021.25},
		},
		{
			name:  "overflow left clamps by shifting",
			state: State{Zoom: 2, Pan: 1000},
			want:  Window{Start: 2017, End: 2020.5},
		},
		{
			name:  "overflow right clamps by shifting",
			state: State{Zoom: 2, Pan: -1000},
			want:  Window{Start: 2020.5, End: 2024},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tr.Visible(tt.state)
			if got != tt.want {
				t.Errorf("Visible() = [%v, %v], want [%v, %v]", got.Start, got.End, tt.want.Start, tt.want.End)
			}
			if got.Start < tr.Domain.Start || got.End > tr.Domain.End {
				t.Errorf("Visible() = [%v, %v] escapes domain [%v, %v]", got.Start, got.End, tr.Domain.Start, tr.Domain.End)
			}
		})
	}
}

func TestVisibleWidthLaw(t *testing.T) {
	tr := NewTransform(2018, 2023, 700)

	// Unclamped windows keep width domain/zoom exactly.
	for _, k := range []float64{1, 2, 4, 7} {
		got := tr.Visible(State{Zoom: k}).Width()
		want := tr.Domain.Width() / k
		if got != want {
			t.Errorf("Visible(zoom=%v).Width() = %v, want %v", k, got, want)
		}
	}
}

func TestTransformX(t *testing.T) {
	tr := NewTransform(2018, 2023, 700)
	w := Window{Start: 2017, End: 2024}

	tests := []struct {
		fy   float64
		want float64
	}{
		{fy: 2017, want: 0},
		{fy: 2020.5, want: 350},
		{fy: 2024, want: 700},
	}
	for _, tt := range tests {
		if got := tr.X(w, tt.fy); got != tt.want {
			t.Errorf("X(%v) = %v, want %v", tt.fy, got, tt.want)
		}
	}
}

func TestTicksYearly(t *testing.T) {
	got := Ticks(Window{Start: 2017, End: 2024}, 1)

	if len(got) != 8 {
		t.Fatalf("Ticks() produced %d ticks, want 8", len(got))
	}
	if got[0].Label != "2017" || got[0].Value != 2017 {
		t.Errorf("first tick = %+v, want {2017 2017}", got[0])
	}
	if got[7].Label != "2024" || got[7].Value != 2024 {
		t.Errorf("last tick = %+v, want {2024 2024}", got[7])
	}
}

func TestTicksQuarterly(t *testing.T) {
	got := Ticks(Window{Start: 2020, End: 2021}, 2)

	wantLabels := []string{"Q1/2020", "Q2/2020", "Q3/2020", "Q4/2020", "Q1/2021"}
	if len(got) != len(wantLabels) {
		t.Fatalf("Ticks() produced %d ticks, want %d", len(got), len(wantLabels))
	}
	for i, want := range wantLabels {
		if got[i].Label != want {
			t.Errorf("tick %d label = %q, want %q", i, got[i].Label, want)
		}
	}
	if got[1].Value != 2020.25 {
		t.Errorf("second tick value = %v, want 2020.25", got[1].Value)
	}
}

func TestTicksMonthly(t *testing.T) {
	got := Ticks(Window{Start: 2021, End: 2021.25}, 5)

	wantLabels := []string{"01/2021", "02/2021", "03/2021", "04/2021"}
	if len(got) != len(wantLabels) {
		t.Fatalf("Ticks() produced %d ticks, want %d", len(got), len(wantLabels))
	}
	for i, want := range wantLabels {
		if got[i].Label != want {
			t.Errorf("tick %d label = %q, want %q", i, got[i].Label, want)
		}
	}
}

func TestTicksGranularityThresholds(t *testing.T) {
	w := Window{Start: 2020, End: 2020.99}

	tests := []struct {
		name      string
		zoom      float64
		wantFirst string
	}{
		{name: "just under quarter threshold", zoom: 1.49, wantFirst: "2020"},
		{name: "at quarter threshold", zoom: 1.5, wantFirst: "Q1/2020"},
		{name: "just under month threshold", zoom: 4.49, wantFirst: "Q1/2020"},
		{name: "at month threshold", zoom: 4.5, wantFirst: "01/2020"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ticks(w, tt.zoom)
			if len(got) == 0 {
				t.Fatal("Ticks() produced no ticks")
			}
			if got[0].Label != tt.wantFirst {
				t.Errorf("first tick label = %q, want %q", got[0].Label, tt.wantFirst)
			}
		})
	}
}

func TestWindowContains(t *testing.T) {
	w := Window{Start: 2020, End: 2021}

	for _, v := range []float64{2020, 2020.5, 2021} {
		if !w.Contains(v) {
			t.Errorf("Contains(%v) = false, want true", v)
		}
	}
	for _, v := range []float64{2019.99, 2021.01} {
		if w.Contains(v) {
			t.Errorf("Contains(%v) = true, want false", v)
		}
	}
}
