package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
	d, err := ParseKey(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestDayIgnoresTimeOfDay(t *testing.T) {
	algiers := time.FixedZone("CET", 3600)
	late := time.Date(2024, 6, 10, 23, 30, 0, 0, algiers)
	early := time.Date(2024, 6, 10, 0, 5, 0, 0, time.UTC)

	assert.Equal(t, Day(late), Day(early))
	assert.Equal(t, "2024-06-10", Key(late))
}

func TestDays(t *testing.T) {
	assert.Len(t, Days(date("2024-06-10"), date("2024-06-10")), 1)
	assert.Nil(t, Days(date("2024-06-11"), date("2024-06-10")))

	days := Days(date("2024-02-27"), date("2024-03-01"))
	keys := make([]string, 0, len(days))
	for _, d := range days {
		keys = append(keys, Key(d))
	}
	assert.Equal(t, []string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01"}, keys)
}

func TestCount(t *testing.T) {
	assert.Equal(t, 1, Count(date("2024-06-10"), date("2024-06-10")))
	assert.Equal(t, 3, Count(date("2024-06-10"), date("2024-06-12").Add(18*time.Hour)))
	assert.Equal(t, 0, Count(date("2024-06-12"), date("2024-06-10")))
}

func TestMonthBoundsAndMonths(t *testing.T) {
	first, last := MonthBounds(2024, time.June)
	assert.Equal(t, "2024-06-01", Key(first))
	assert.Equal(t, "2024-06-30", Key(last))

	_, last = MonthBounds(2024, time.February)
	assert.Equal(t, "2024-02-29", Key(last))

	months := Months(date("2024-12-30"), date("2025-01-02"))
	assert.Len(t, months, 2)
	assert.Equal(t, time.December, months[0].Month())
	assert.Equal(t, 2025, months[1].Year())
}
