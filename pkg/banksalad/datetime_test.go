package banksalad

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDateFormats(t *testing.T) {
	cache := make(map[string]time.Time)

	d, ok := parseDate("2024-03-05", cache)
	assert.True(t, ok)
	assert.Equal(t, "2024-03-05", d.Format("2006-01-02"))

	d, ok = parseDate("2024.3.5", cache)
	assert.True(t, ok)
	assert.Equal(t, "2024-03-05", d.Format("2006-01-02"))

	d, ok = parseDate("2024년 3월 5일", cache)
	assert.True(t, ok)
	assert.Equal(t, "2024-03-05", d.Format("2006-01-02"))

	// day-first with a two-digit year
	d, ok = parseDate("05/03/24", cache)
	assert.True(t, ok)
	assert.Equal(t, "2024-03-05", d.Format("2006-01-02"))

	// Excel serial: 45000 is 2023-03-15 in the 1900 date system
	d, ok = parseDate("45000", cache)
	assert.True(t, ok)
	assert.Equal(t, "2023-03-15", d.Format("2006-01-02"))
}

func TestParseDateRejects(t *testing.T) {
	cache := make(map[string]time.Time)

	_, ok := parseDate("", cache)
	assert.False(t, ok)

	_, ok = parseDate("입출금내역", cache)
	assert.False(t, ok)

	// serials at or below 59 predate the leap-year bug
	_, ok = parseDate("59", cache)
	assert.False(t, ok)

	_, ok = parseDate("2024-13-01", cache)
	assert.False(t, ok)

	// Feb 30 normalizes to Mar 1 and must not be accepted
	_, ok = parseDate("2024-02-30", cache)
	assert.False(t, ok)
}

func TestParseDateCaching(t *testing.T) {
	cache := make(map[string]time.Time)

	first, ok := parseDate("2024-03-05", cache)
	assert.True(t, ok)

	second, ok := parseDate("2024-03-05", cache)
	assert.True(t, ok)
	assert.Equal(t, first, second)

	// failures are cached too
	_, ok = parseDate("garbage", cache)
	assert.False(t, ok)
	_, ok = parseDate("garbage", cache)
	assert.False(t, ok)
}

func TestParseTimeOfDay(t *testing.T) {
	s, ok := parseTimeOfDay("14:05:09")
	assert.True(t, ok)
	assert.Equal(t, 14*3600+5*60+9, s)

	s, ok = parseTimeOfDay("9:30")
	assert.True(t, ok)
	assert.Equal(t, 9*3600+30*60, s)

	s, ok = parseTimeOfDay("오후 2:30")
	assert.True(t, ok)
	assert.Equal(t, 14*3600+30*60, s)

	s, ok = parseTimeOfDay("오전 12:05")
	assert.True(t, ok)
	assert.Equal(t, 5*60, s)

	s, ok = parseTimeOfDay("오후 12:00")
	assert.True(t, ok)
	assert.Equal(t, 12*3600, s)

	// fractional-day serial, 0.5 is noon
	s, ok = parseTimeOfDay("0.5")
	assert.True(t, ok)
	assert.Equal(t, 12*3600, s)

	_, ok = parseTimeOfDay("")
	assert.False(t, ok)

	_, ok = parseTimeOfDay("25:00")
	assert.False(t, ok)
}
