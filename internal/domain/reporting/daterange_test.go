package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveDateRange_Presets(t *testing.T) {
	// Thursday
	now := time.Date(2025, time.March, 20, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		preset   string
		wantFrom time.Time
		wantTo   time.Time
	}{
		{"today", PresetToday, date(2025, time.March, 20), date(2025, time.March, 20)},
		{"week", PresetWeek, date(2025, time.March, 17), date(2025, time.March, 20)},
		{"month", PresetMonth, date(2025, time.March, 1), date(2025, time.March, 20)},
		{"year", PresetYear, date(2025, time.January, 1), date(2025, time.March, 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveDateRange(DateSpec{Preset: tt.preset}, now)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantFrom, got.From)
			assert.Equal(t, tt.wantTo, got.To)
		})
	}
}

func TestResolveDateRange_WeekOnSunday(t *testing.T) {
	// Sunday resolves back to the Monday six days prior
	now := time.Date(2025, time.March, 23, 8, 0, 0, 0, time.UTC)

	got := ResolveDateRange(DateSpec{Preset: PresetWeek}, now)
	require.NotNil(t, got)
	assert.Equal(t, date(2025, time.March, 17), got.From)
	assert.Equal(t, date(2025, time.March, 23), got.To)
}

func TestResolveDateRange_WeekOnMonday(t *testing.T) {
	now := time.Date(2025, time.March, 17, 23, 59, 0, 0, time.UTC)

	got := ResolveDateRange(DateSpec{Preset: PresetWeek}, now)
	require.NotNil(t, got)
	assert.Equal(t, date(2025, time.March, 17), got.From)
	assert.Equal(t, date(2025, time.March, 17), got.To)
}

func TestResolveDateRange_ExplicitOverridesPreset(t *testing.T) {
	now := time.Date(2025, time.March, 20, 12, 0, 0, 0, time.UTC)
	from := time.Date(2025, time.February, 1, 10, 0, 0, 0, time.UTC)

	// Explicit from replaces the preset's lower bound; preset still
	// supplies the upper bound.
	got := ResolveDateRange(DateSpec{Preset: PresetMonth, FromDate: &from}, now)
	require.NotNil(t, got)
	assert.Equal(t, date(2025, time.February, 1), got.From)
	assert.Equal(t, date(2025, time.March, 20), got.To)
}

func TestResolveDateRange_ExplicitPairWithoutPreset(t *testing.T) {
	now := time.Date(2025, time.March, 20, 12, 0, 0, 0, time.UTC)
	from := date(2025, time.January, 5)
	to := date(2025, time.January, 31)

	got := ResolveDateRange(DateSpec{FromDate: &from, ToDate: &to}, now)
	require.NotNil(t, got)
	assert.Equal(t, from, got.From)
	assert.Equal(t, to, got.To)
}

func TestResolveDateRange_NoWindow(t *testing.T) {
	now := time.Date(2025, time.March, 20, 12, 0, 0, 0, time.UTC)
	from := date(2025, time.January, 5)

	tests := []struct {
		name string
		spec DateSpec
	}{
		{"empty spec", DateSpec{}},
		{"unknown preset", DateSpec{Preset: "quarter"}},
		{"from without to", DateSpec{FromDate: &from}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, ResolveDateRange(tt.spec, now))
		})
	}
}
