package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Gunvolt24/wb_abc/internal/domain"
)

func TestParseDateRange_FromOnly(t *testing.T) {
	t.Parallel()

	r, err := domain.ParseDateRange("2024-06-01", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.HasTo() {
		t.Fatalf("To must be unset: %+v", r)
	}
	if r.From != time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("From wrong: %v", r.From)
	}
	if r.Key() != "2024-06-01" {
		t.Fatalf("Key wrong: %q", r.Key())
	}
}

func TestParseDateRange_FromTo(t *testing.T) {
	t.Parallel()

	r, err := domain.ParseDateRange("2024-06-01", "2024-06-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.HasTo() {
		t.Fatalf("To must be set: %+v", r)
	}
	if r.Key() != "2024-06-01..2024-06-10" {
		t.Fatalf("Key wrong: %q", r.Key())
	}
}

func TestParseDateRange_BadInput(t *testing.T) {
	t.Parallel()

	cases := [][2]string{
		{"", ""},
		{"01.06.2024", ""},
		{"2024-6-1", ""},
		{"2024-06-01", "next week"},
	}
	for _, c := range cases {
		if _, err := domain.ParseDateRange(c[0], c[1]); !errors.Is(err, domain.ErrBadDate) {
			t.Fatalf("ParseDateRange(%q, %q): want ErrBadDate, got %v", c[0], c[1], err)
		}
	}
}

// Конец дня To включителен: следующая полночь минус секунда.
func TestEndOfTo(t *testing.T) {
	t.Parallel()

	r, err := domain.ParseDateRange("2024-06-01", "2024-06-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 6, 10, 23, 59, 59, 0, time.UTC)
	if end := r.EndOfTo(); !end.Equal(want) {
		t.Fatalf("EndOfTo: want %v, got %v", want, end)
	}
}

// Граница месяца и високосный февраль.
func TestEndOfTo_MonthBoundaries(t *testing.T) {
	t.Parallel()

	r, _ := domain.ParseDateRange("2024-02-01", "2024-02-29")
	want := time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC)
	if end := r.EndOfTo(); !end.Equal(want) {
		t.Fatalf("leap february: want %v, got %v", want, end)
	}

	r, _ = domain.ParseDateRange("2024-12-01", "2024-12-31")
	want = time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)
	if end := r.EndOfTo(); !end.Equal(want) {
		t.Fatalf("year boundary: want %v, got %v", want, end)
	}
}
