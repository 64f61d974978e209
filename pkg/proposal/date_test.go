package proposal

import (
	"math"
	"testing"
	"time"
)

func TestResolveDate(t *testing.T) {
	tests := []struct {
		name     string
		cell     Cell
		wantYear int
		wantDate string // "2006-01-02", or "" when no precise date expected
		wantOK   bool
	}{
		{"native date", Date(time.Date(2020, 3, 5, 0, 0, 0, 0, time.UTC)), 2020, "2020-03-05", true},
		{"serial day count", Number(44425), 2021, "2021-08-17", true},
		{"serial with time fraction", Number(44425.5), 2021, "2021-08-17", true},
		{"early serial", Number(1), 1899, "1899-12-31", true},
		{"iso dashes", String("2021-08-27"), 2021, "2021-08-27", true},
		{"iso slashes", String("2021/8/27"), 2021, "2021-08-27", true},
		{"iso single digits", String("2021-8-3"), 2021, "2021-08-03", true},
		{"iso invalid calendar keeps year", String("2021-13-40"), 2021, "", true},
		{"iso feb 30 keeps year", String("2021-02-30"), 2021, "", true},
		{"us dashes year only", String("08-27-2021"), 2021, "", true},
		{"us slashes year only", String("8/27/2021"), 2021, "", true},
		{"rfc3339", String("2021-08-27T10:30:00Z"), 2021, "2021-08-27", true},
		{"long month name", String("January 2, 2021"), 2021, "2021-01-02", true},
		{"short month name", String("Jan 2, 2021"), 2021, "2021-01-02", true},
		{"day first", String("2 January 2021"), 2021, "2021-01-02", true},
		{"year token in text", String("FY 2019 submission"), 2019, "", true},
		{"bare year", String("1999"), 1999, "", true},
		{"out of range still resolves", String("1850-05-05"), 1850, "1850-05-05", true},
		{"serial string is not a serial", String("44425"), 0, "", false},
		{"free text", String("pending"), 0, "", false},
		{"blank string", String("  "), 0, "", false},
		{"empty cell", Empty(), 0, "", false},
		{"nan serial", Number(math.NaN()), 0, "", false},
		{"absurd serial", Number(5e9), 0, "", false},
	}

	for _, tt := range tests {
		year, date, hasDate, ok := resolveDate(tt.cell)
		if ok != tt.wantOK {
			t.Errorf("%s: resolveDate() ok = %v, want %v", tt.name, ok, tt.wantOK)
			continue
		}
		if !ok {
			continue
		}
		if year != tt.wantYear {
			t.Errorf("%s: resolveDate() year = %d, want %d", tt.name, year, tt.wantYear)
		}
		if tt.wantDate == "" {
			if hasDate {
				t.Errorf("%s: resolveDate() recovered date %v, want year only", tt.name, date)
			}
			continue
		}
		if !hasDate {
			t.Errorf("%s: resolveDate() recovered no date, want %s", tt.name, tt.wantDate)
			continue
		}
		if got := date.Format("2006-01-02"); got != tt.wantDate {
			t.Errorf("%s: resolveDate() date = %s, want %s", tt.name, got, tt.wantDate)
		}
	}
}

func TestResolveDateYearAgreesWithDate(t *testing.T) {
	cells := []Cell{
		Date(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)),
		Number(44425),
		String("2021-08-27"),
		String("2021-08-27T00:00:00Z"),
	}
	for _, c := range cells {
		year, date, hasDate, ok := resolveDate(c)
		if !ok || !hasDate {
			t.Errorf("resolveDate(%+v) should recover a precise date", c)
			continue
		}
		if date.Year() != year {
			t.Errorf("resolveDate(%+v): year %d disagrees with date %v", c, year, date)
		}
	}
}

func TestFromSerialEpoch(t *testing.T) {
	// Serial 44425 is 2021-08-17, a fixed point for the 1899-12-30 epoch.
	got := fromSerial(44425)
	want := time.Date(2021, 8, 17, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("fromSerial(44425) = %v, want %v", got, want)
	}
}
