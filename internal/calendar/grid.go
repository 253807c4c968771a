// Package calendar builds the month day grid and handles month/year navigation.
package calendar

import (
	"fmt"
	"time"
)

const (
	// Columns is the number of days per grid row (Sunday first).
	Columns = 7
	// Rows is the fixed number of week rows in a month view.
	Rows = 6
	// Cells is the total number of grid positions.
	Cells = Rows * Columns
)

// DayCell is one grid position. Day is 0 for padding cells.
type DayCell struct {
	Day      int    `json:"day"`
	DateKey  string `json:"date,omitempty"`
	IsToday  bool   `json:"is_today"`
	IsFuture bool   `json:"is_future"`
}

// Empty reports whether the cell is padding outside the month.
func (c DayCell) Empty() bool {
	return c.Day == 0
}

// FirstWeekday returns the weekday (0 = Sunday) of the first day of the month.
// month is 0-based.
func FirstWeekday(year, month int) int {
	return int(time.Date(year, time.Month(month+1), 1, 12, 0, 0, 0, time.UTC).Weekday())
}

// DaysIn returns the number of days in the month. month is 0-based.
func DaysIn(year, month int) int {
	return time.Date(year, time.Month(month+2), 0, 12, 0, 0, 0, time.UTC).Day()
}

// DateKey formats a 0-based month date as YYYY-MM-DD.
func DateKey(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month+1, day)
}

// BuildGrid returns the 42 cells for the month. today is interpreted in its own
// location; IsFuture compares local noon of the cell against local noon of today.
func BuildGrid(year, month int, today time.Time) []DayCell {
	first := FirstWeekday(year, month)
	days := DaysIn(year, month)

	loc := today.Location()
	ty, tm, td := today.Date()
	todayNoon := time.Date(ty, tm, td, 12, 0, 0, 0, loc)

	cells := make([]DayCell, Cells)
	for i := range cells {
		day := i - first + 1
		if day < 1 || day > days {
			continue
		}
		noon := time.Date(year, time.Month(month+1), day, 12, 0, 0, 0, loc)
		cells[i] = DayCell{
			Day:      day,
			DateKey:  DateKey(year, month, day),
			IsToday:  year == ty && time.Month(month+1) == tm && day == td,
			IsFuture: noon.After(todayNoon),
		}
	}
	return cells
}

// Weeks splits a grid into rows of seven cells.
func Weeks(cells []DayCell) [][]DayCell {
	var weeks [][]DayCell
	for i := 0; i < len(cells); i += Columns {
		end := i + Columns
		if end > len(cells) {
			end = len(cells)
		}
		weeks = append(weeks, cells[i:end])
	}
	return weeks
}

// ParseDate parses a YYYY-MM-DD key in loc.
func ParseDate(key string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", key, err)
	}
	return t, nil
}

// IsFutureDate reports whether the date key lies after today (noon-anchored).
func IsFutureDate(key string, today time.Time) (bool, error) {
	d, err := ParseDate(key, today.Location())
	if err != nil {
		return false, err
	}
	ty, tm, td := today.Date()
	todayNoon := time.Date(ty, tm, td, 12, 0, 0, 0, today.Location())
	return d.Add(12 * time.Hour).After(todayNoon), nil
}
