// Package render draws dashboard views on a terminal.
package render

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/rcliao/space-dashboard/internal/calendar"
	"github.com/rcliao/space-dashboard/internal/i18n"
	"github.com/rcliao/space-dashboard/internal/model"
	"github.com/rcliao/space-dashboard/internal/theme"
)

// UseColors reports whether stdout should get ANSI colors.
func UseColors() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return !color.NoColor
}

type palette struct {
	title  *color.Color
	today  *color.Color
	future *color.Color
	muted  *color.Color
	err    *color.Color
}

func paletteFor(t theme.Theme) palette {
	if t == theme.Dark {
		return palette{
			title:  color.New(color.FgHiCyan, color.Bold),
			today:  color.New(color.FgHiYellow, color.Bold),
			future: color.New(color.Faint),
			muted:  color.New(color.FgHiBlack),
			err:    color.New(color.FgHiRed, color.Bold),
		}
	}
	return palette{
		title:  color.New(color.FgBlue, color.Bold),
		today:  color.New(color.FgMagenta, color.Bold),
		future: color.New(color.Faint),
		muted:  color.New(color.FgHiBlack),
		err:    color.New(color.FgRed, color.Bold),
	}
}

// Renderer writes views to out using the colors of the active theme.
type Renderer struct {
	out    io.Writer
	colors bool
	themes *theme.Store
}

func New(out io.Writer, themes *theme.Store, colors bool) *Renderer {
	return &Renderer{out: out, colors: colors, themes: themes}
}

func (r *Renderer) paint(c *color.Color, s string) string {
	if !r.colors {
		return s
	}
	c.EnableColor()
	return c.Sprint(s)
}

func (r *Renderer) palette() palette {
	return paletteFor(r.themes.Get())
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignRight},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.Off},
				Alignment:  tw.CellAlignment{Global: tw.AlignRight},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
}

// Month draws the month title and the week grid. Today is highlighted and
// future days are dimmed.
func (r *Renderer) Month(cur calendar.Cursor, cells []calendar.DayCell, lang i18n.Language) error {
	p := r.palette()
	fmt.Fprintln(r.out, r.paint(p.title, i18n.MonthTitle(lang, cur.Year, cur.Month)))

	var rows [][]string
	for _, week := range calendar.Weeks(cells) {
		row := make([]string, len(week))
		for i, c := range week {
			row[i] = r.cell(p, c)
		}
		rows = append(rows, row)
	}

	table := newTable(r.out)
	table.Header(i18n.WeekDays(lang))
	table.Bulk(rows)
	return table.Render()
}

func (r *Renderer) cell(p palette, c calendar.DayCell) string {
	if c.Empty() {
		return ""
	}
	s := strconv.Itoa(c.Day)
	switch {
	case c.IsToday:
		return r.paint(p.today, "["+s+"]")
	case c.IsFuture:
		return r.paint(p.future, s)
	default:
		return s
	}
}

// Content draws one daily content entry.
func (r *Renderer) Content(c *model.DailyContent, lang i18n.Language) {
	p := r.palette()
	labels := i18n.UI(lang)

	badge := c.Date
	if day, month, err := i18n.FormatDayMonth(lang, c.Date); err == nil {
		badge = day + " " + month
	}
	fmt.Fprintf(r.out, "%s  %s\n", r.paint(p.muted, badge), r.paint(p.title, c.Title))
	fmt.Fprintln(r.out, strings.Repeat("─", len([]rune(badge))+2+len([]rune(c.Title))))
	fmt.Fprintln(r.out, c.Explanation)
	if c.MediaURL != "" {
		fmt.Fprintf(r.out, "\n%s: %s\n", c.MediaType, r.paint(p.muted, c.MediaURL))
	}
	fmt.Fprintf(r.out, "\n[%s]\n", labels.Close)
}

// Error draws a failed fetch with the localized error label.
func (r *Renderer) Error(err error, lang i18n.Language) {
	p := r.palette()
	fmt.Fprintf(r.out, "%s %v\n", r.paint(p.err, i18n.UI(lang).Error), err)
}

// Loading prints the localized loading label.
func (r *Renderer) Loading(lang i18n.Language) {
	fmt.Fprintln(r.out, r.paint(r.palette().muted, i18n.UI(lang).Loading))
}

// Moon draws the localized moon phase next to the provider's name.
func (r *Renderer) Moon(m *model.MoonPhase) {
	p := r.palette()
	fmt.Fprintf(r.out, "%s %s\n", r.paint(p.title, m.Label), r.paint(p.muted, "("+m.Phase+")"))
}

// Astronaut draws the astronaut of the day.
func (r *Renderer) Astronaut(a *model.Astronaut) {
	p := r.palette()
	fmt.Fprintln(r.out, r.paint(p.title, a.Name))
	if a.ProfileImage != nil {
		fmt.Fprintln(r.out, r.paint(p.muted, *a.ProfileImage))
	}
}

// Entries draws cache entries as a table.
func (r *Renderer) Entries(entries []model.CacheEntry) error {
	table := tablewriter.NewTable(r.out,
		tablewriter.WithConfig(tablewriter.Config{
			Row:    tw.CellConfig{Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone}, Alignment: tw.CellAlignment{Global: tw.AlignLeft}},
			Header: tw.CellConfig{Formatting: tw.CellFormatting{AutoFormat: tw.On}, Alignment: tw.CellAlignment{Global: tw.AlignLeft}},
		}),
		tablewriter.WithRendition(tw.Rendition{Borders: tw.BorderNone}),
	)
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.NS, e.Key, e.CreatedAt.Local().Format("2006-01-02 15:04"), strconv.Itoa(len(e.Value))})
	}
	table.Header([]string{"ns", "key", "created", "size"})
	table.Bulk(rows)
	return table.Render()
}
