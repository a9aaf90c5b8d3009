package services

import (
	"testing"
	"time"
)

func TestBusinessClock_NormalizeExpiration(t *testing.T) {
	clock := NewBusinessClock(8)

	tests := []struct {
		name  string
		input time.Time
		want  time.Time
	}{
		{
			name:  "utc evening rolls into next business day",
			input: time.Date(2025, 1, 9, 17, 30, 0, 0, time.UTC),
			want:  time.Date(2025, 1, 9, 16, 0, 0, 0, time.UTC),
		},
		{
			name:  "utc morning stays on same business day",
			input: time.Date(2025, 1, 9, 3, 0, 0, 0, time.UTC),
			want:  time.Date(2025, 1, 8, 16, 0, 0, 0, time.UTC),
		},
		{
			name:  "already normalized is unchanged",
			input: time.Date(2025, 1, 8, 16, 0, 0, 0, time.UTC),
			want:  time.Date(2025, 1, 8, 16, 0, 0, 0, time.UTC),
		},
		{
			name:  "client zone does not matter",
			input: time.Date(2025, 1, 9, 10, 0, 0, 0, time.FixedZone("PST", -8*3600)),
			want:  time.Date(2025, 1, 9, 16, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := clock.NormalizeExpiration(tt.input)
			if !got.Equal(tt.want) {
				t.Fatalf("NormalizeExpiration(%v) = %v, want %v", tt.input, got.UTC(), tt.want)
			}
		})
	}
}

func TestBusinessClock_DaysLeft(t *testing.T) {
	clock := NewBusinessClock(8)
	// 2025-01-10 00:00 UTC+8
	exp := time.Date(2025, 1, 9, 16, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"exactly one day before", exp.Add(-24 * time.Hour), 1},
		{"a bit more than a day before", exp.Add(-25 * time.Hour), 2},
		{"one hour before", exp.Add(-time.Hour), 1},
		{"at expiration", exp, 0},
		{"half a day after", exp.Add(12 * time.Hour), 0},
		{"one and a half days after", exp.Add(36 * time.Hour), -1},
		{"three days after", exp.Add(72 * time.Hour), -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clock.DaysLeft(exp, tt.now); got != tt.want {
				t.Fatalf("DaysLeft() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBusinessClock_ZeroValueUsesDefaultZone(t *testing.T) {
	var clock BusinessClock
	_, offset := time.Now().In(clock.Location()).Zone()
	if offset != DefaultBusinessUTCOffsetHours*3600 {
		t.Fatalf("zero clock offset = %d, want %d", offset, DefaultBusinessUTCOffsetHours*3600)
	}
}
