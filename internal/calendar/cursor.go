package calendar

import (
	"errors"
	"fmt"
	"time"
)

// MinYear is the first year offered by the year selector.
const MinYear = 1995

// YearsAhead is how many years past the current one the selector allows.
const YearsAhead = 10

var (
	ErrMonthOutOfRange = errors.New("month out of range")
	ErrYearOutOfRange  = errors.New("year out of range")
)

// Cursor is the (year, month) currently displayed. Month is 0-based.
type Cursor struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// CursorFor returns the cursor showing today's month.
func CursorFor(today time.Time) Cursor {
	return Cursor{Year: today.Year(), Month: int(today.Month()) - 1}
}

// Prev moves one month back, wrapping January to December of the previous year.
func (c *Cursor) Prev() {
	c.Month--
	if c.Month < 0 {
		c.Month = 11
		c.Year--
	}
}

// Next moves one month forward, wrapping December to January of the next year.
func (c *Cursor) Next() {
	c.Month++
	if c.Month > 11 {
		c.Month = 0
		c.Year++
	}
}

// SetMonth jumps to a 0-based month in the current year.
func (c *Cursor) SetMonth(month int) error {
	if month < 0 || month > 11 {
		return fmt.Errorf("%w: %d", ErrMonthOutOfRange, month)
	}
	c.Month = month
	return nil
}

// SetYear jumps to a year within [MinYear, today.Year()+YearsAhead].
func (c *Cursor) SetYear(year int, today time.Time) error {
	if year < MinYear || year > today.Year()+YearsAhead {
		return fmt.Errorf("%w: %d (allowed %d-%d)", ErrYearOutOfRange, year, MinYear, today.Year()+YearsAhead)
	}
	c.Year = year
	return nil
}

// Contains reports whether the date key falls in the cursor's month.
func (c Cursor) Contains(dateKey string) bool {
	return len(dateKey) >= 7 && dateKey[:7] == fmt.Sprintf("%04d-%02d", c.Year, c.Month+1)
}

// YearRange lists the selectable years in ascending order.
func YearRange(today time.Time) []int {
	last := today.Year() + YearsAhead
	years := make([]int, 0, last-MinYear+1)
	for y := MinYear; y <= last; y++ {
		years = append(years, y)
	}
	return years
}
