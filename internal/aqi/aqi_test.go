package aqi

import (
	"math"
	"testing"
)

func TestFromDensity_ZeroIsZero(t *testing.T) {
	if got := FromDensity(0); got != 0 {
		t.Fatalf("FromDensity(0) = %v, want 0", got)
	}
}

func TestFromDensity_NegativeAndNaNClampToZero(t *testing.T) {
	if got := FromDensity(-3.2); got != 0 {
		t.Fatalf("FromDensity(-3.2) = %v, want 0", got)
	}
	if got := FromDensity(math.NaN()); got != 0 {
		t.Fatalf("FromDensity(NaN) = %v, want 0", got)
	}
}

func TestFromDensity_KnownBrackets(t *testing.T) {
	cases := []struct {
		pm   float64
		want float64
		tol  float64
	}{
		{12.0, 50, 0.01},    // top of first bracket
		{12.3, 51.4, 0.1},   // just inside second bracket
		{35.4, 100, 0.01},   // top of second bracket
		{55.5, 151, 0.01},   // bottom of fourth bracket
		{500.4, 500, 0.01},  // top of the table
		{600.0, 565.8, 0.5}, // extrapolated past the table
	}
	for _, c := range cases {
		got := FromDensity(c.pm)
		if math.Abs(got-c.want) > c.tol {
			t.Errorf("FromDensity(%v) = %v, want %v ± %v", c.pm, got, c.want, c.tol)
		}
	}
}

func TestFromDensity_MonotonicNonDecreasing(t *testing.T) {
	prev := FromDensity(0)
	for pm := 0.1; pm <= 700; pm += 0.1 {
		cur := FromDensity(pm)
		if cur < prev {
			t.Fatalf("FromDensity not monotonic: f(%v)=%v < f(%v)=%v", pm, cur, pm-0.1, prev)
		}
		if math.IsInf(cur, 0) || math.IsNaN(cur) {
			t.Fatalf("FromDensity(%v) not finite: %v", pm, cur)
		}
		prev = cur
	}
}

func TestCorrectDensity(t *testing.T) {
	cases := []struct {
		raw  float64
		f    Conversion
		want float64
	}{
		{10, ConversionNone, 10},
		{10, ConversionAQandU, 0.778*10 + 2.65},
		{10, ConversionLRAPA, 0.5*10 - 0.66},
		{0.5, ConversionLRAPA, 0}, // LRAPA would go negative; clamped
	}
	for _, c := range cases {
		if got := CorrectDensity(c.raw, c.f); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("CorrectDensity(%v, %s) = %v, want %v", c.raw, c.f, got, c.want)
		}
	}
}

func TestParseConversion(t *testing.T) {
	for in, want := range map[string]Conversion{
		"":       ConversionNone,
		"none":   ConversionNone,
		"AQandU": ConversionAQandU,
		"aqandu": ConversionAQandU,
		"LRAPA":  ConversionLRAPA,
	} {
		got, err := ParseConversion(in)
		if err != nil || got != want {
			t.Errorf("ParseConversion(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseConversion("bogus"); err == nil {
		t.Fatalf("ParseConversion(bogus) expected error")
	}
}

func TestCategory_MonotonicAndTotal(t *testing.T) {
	if got := Category(math.NaN()); got != LevelUnknown {
		t.Fatalf("Category(NaN) = %v, want unknown", got)
	}
	if got := Category(-1); got != LevelUnknown {
		t.Fatalf("Category(-1) = %v, want unknown", got)
	}
	cases := []struct {
		aqi  float64
		want Level
	}{
		{0, LevelExcellent},
		{50, LevelExcellent},
		{50.1, LevelGood},
		{100, LevelGood},
		{150, LevelFair},
		{200, LevelInferior},
		{201, LevelPoor},
		{999, LevelPoor},
	}
	prev := LevelUnknown
	for _, c := range cases {
		got := Category(c.aqi)
		if got != c.want {
			t.Errorf("Category(%v) = %v, want %v", c.aqi, got, c.want)
		}
		if got < prev {
			t.Errorf("Category not monotonic at %v", c.aqi)
		}
		prev = got
	}
}
