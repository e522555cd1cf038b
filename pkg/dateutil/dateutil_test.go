package dateutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	for _, value := range []string{
		"2024-01-02T15:04:05Z",
		"2024-01-02 15:04:05",
		"2024-01-02",
	} {
		parsed, ok := Parse(value)
		assert.True(t, ok, "value: %s", value)
		assert.Equal(t, 2024, parsed.Year())
	}

	_, ok := Parse("not a date")
	assert.False(t, ok)
}

func TestDayKey(t *testing.T) {
	assert.Equal(t, "2024-01-02", DayKey("2024-01-02T15:04:05Z"))
	assert.Equal(t, "2024-01-02", DayKey("2024-01-02"))
	assert.Equal(t, "unknown", DayKey(""))
	assert.Equal(t, "unknown", DayKey("garbage"))
}

func TestFormatLong(t *testing.T) {
	assert.Equal(t, "December 19, 2025", FormatLong("2025-12-19"))
	assert.Equal(t, "garbage", FormatLong("garbage"))
}

func TestInRange(t *testing.T) {
	assert.True(t, InRange("2024-01-02", "2024-01-01", "2024-01-03"))
	assert.True(t, InRange("2024-01-02", "2024-01-02", "2024-01-02"), "bounds are inclusive")
	assert.True(t, InRange("2024-01-02", "", ""))
	assert.True(t, InRange("2024-01-02", "2024-01-01", ""))
	assert.True(t, InRange("2024-01-02", "", "2024-01-03"))
	assert.False(t, InRange("2024-01-02", "2024-01-03", ""))
	assert.False(t, InRange("2024-01-02", "", "2024-01-01"))
	assert.False(t, InRange("garbage", "", ""))
}
