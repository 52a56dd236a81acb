package tiktok

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitDateRange_SingleDay(t *testing.T) {
	ranges, err := SplitDateRange("20250115", "20250115")

	require.NoError(t, err)
	assert.Equal(t, []DateRange{{Start: "20250115", End: "20250115"}}, ranges)
}

func TestSplitDateRange_WithinWindow(t *testing.T) {
	ranges, err := SplitDateRange("20250101", "20250130")

	require.NoError(t, err)
	assert.Equal(t, []DateRange{{Start: "20250101", End: "20250130"}}, ranges)
}

func TestSplitDateRange_SplitsWideRange(t *testing.T) {
	ranges, err := SplitDateRange("20250101", "20250301")

	require.NoError(t, err)
	assert.Equal(t, []DateRange{
		{Start: "20250101", End: "20250130"},
		{Start: "20250131", End: "20250301"},
	}, ranges)
}

func TestSplitDateRange_NoGapsOrOverlaps(t *testing.T) {
	ranges, err := SplitDateRange("20240901", "20250301")

	require.NoError(t, err)
	require.NotEmpty(t, ranges)
	assert.Equal(t, "20240901", ranges[0].Start)
	assert.Equal(t, "20250301", ranges[len(ranges)-1].End)
	for i := 1; i < len(ranges); i++ {
		prevEnd := mustParse(t, ranges[i-1].End)
		curStart := mustParse(t, ranges[i].Start)
		assert.Equal(t, prevEnd.AddDate(0, 0, 1), curStart)
	}
}

func TestSplitDateRange_Invalid(t *testing.T) {
	_, err := SplitDateRange("2025-01-01", "20250301")
	assert.Error(t, err)

	_, err = SplitDateRange("20250301", "20250101")
	assert.Error(t, err)
}
