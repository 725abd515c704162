package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floatops/float_ledger_app/internal/core/domain"
)

func TestResolveDateRange(t *testing.T) {
	now := time.Date(2026, time.March, 14, 15, 30, 0, 0, time.UTC)
	midnight := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		preset   string
		wantFrom time.Time
		wantTo   time.Time
	}{
		{"today", "today", midnight, midnight.AddDate(0, 0, 1)},
		{"today is case-insensitive", "TODAY", midnight, midnight.AddDate(0, 0, 1)},
		{"yesterday", "yesterday", midnight.AddDate(0, 0, -1), midnight},
		{"trailing week", "week", now.AddDate(0, 0, -7), now},
		{"month to date", "month", time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), now},
		{"year to date", "year", time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), now},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng, err := domain.ResolveDateRange(tt.preset, nil, nil, now)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFrom, rng.From)
			assert.Equal(t, tt.wantTo, rng.To)
		})
	}
}

func TestResolveDateRangeAllTime(t *testing.T) {
	now := time.Date(2026, time.March, 14, 15, 30, 0, 0, time.UTC)

	rng, err := domain.ResolveDateRange("all", nil, nil, now)

	require.NoError(t, err)
	assert.True(t, rng.IsAllTime())
	assert.True(t, rng.Contains(time.Date(1999, time.January, 1, 0, 0, 0, 0, time.UTC)))
}

func TestResolveDateRangeCustom(t *testing.T) {
	now := time.Date(2026, time.March, 14, 15, 30, 0, 0, time.UTC)
	from := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	t.Run("valid bounds", func(t *testing.T) {
		rng, err := domain.ResolveDateRange("custom", &from, &to, now)
		require.NoError(t, err)
		assert.Equal(t, from, rng.From)
		assert.Equal(t, to, rng.To)
	})

	t.Run("missing bounds", func(t *testing.T) {
		_, err := domain.ResolveDateRange("custom", &from, nil, now)
		assert.Error(t, err)
	})

	t.Run("inverted bounds", func(t *testing.T) {
		_, err := domain.ResolveDateRange("custom", &to, &from, now)
		assert.Error(t, err)
	})
}

func TestResolveDateRangeUnknownPreset(t *testing.T) {
	now := time.Date(2026, time.March, 14, 15, 30, 0, 0, time.UTC)

	_, err := domain.ResolveDateRange("fortnight", nil, nil, now)

	assert.Error(t, err)
}

func TestDateRangeContains(t *testing.T) {
	from := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)
	rng := domain.DateRange{From: from, To: from.AddDate(0, 0, 1)}

	assert.True(t, rng.Contains(from), "lower bound is inclusive")
	assert.True(t, rng.Contains(from.Add(12*time.Hour)))
	assert.False(t, rng.Contains(rng.To), "upper bound is exclusive")
	assert.False(t, rng.Contains(from.Add(-time.Nanosecond)))
}
