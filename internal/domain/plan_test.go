package domain

import (
	"errors"
	"testing"
)

func TestDayLabelRoundTrip(t *testing.T) {
	for idx := 0; idx < 10; idx++ {
		label := DayLabel(idx)
		got, err := DayIndex(label)
		if err != nil {
			t.Fatalf("DayIndex(%q) returned error: %v", label, err)
		}
		if got != idx {
			t.Fatalf("DayIndex(DayLabel(%d)) = %d", idx, got)
		}
	}
}

func TestDayLabelFormat(t *testing.T) {
	if got := DayLabel(2); got != "Day 3" {
		t.Fatalf("DayLabel(2) = %q, want %q", got, "Day 3")
	}
}

func TestDayIndexRejectsMalformedLabels(t *testing.T) {
	for _, label := range []string{"", "Day", "Day 0", "Day -1", "Day x", "3"} {
		if _, err := DayIndex(label); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("DayIndex(%q) error = %v, want ErrInvalidInput", label, err)
		}
	}
}

func TestParseContentType(t *testing.T) {
	tests := []struct {
		in      string
		want    ContentType
		wantErr bool
	}{
		{"workout", ContentWorkout, false},
		{" Nutrition ", ContentNutrition, false},
		{"meal", "", true},
		{"", "", true},
	}
	for _, tc := range tests {
		got, err := ParseContentType(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("ParseContentType(%q) error = %v, want ErrInvalidInput", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseContentType(%q) returned error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseContentType(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
