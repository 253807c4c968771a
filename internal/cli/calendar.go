package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/space-dashboard/internal/calendar"
	"github.com/rcliao/space-dashboard/internal/controller"
	"github.com/rcliao/space-dashboard/internal/i18n"
	"github.com/rcliao/space-dashboard/internal/logger"
	"github.com/rcliao/space-dashboard/internal/render"
	"github.com/rcliao/space-dashboard/internal/store"
	"github.com/rcliao/space-dashboard/internal/theme"
)

func init() {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show a month of pictures",
		Long:  "Show the month grid. With -i, navigate months and open days interactively.",
		Run:   runCalendar,
	}

	cmd.Flags().Int("year", 0, "Year (default: current)")
	cmd.Flags().Int("month", 0, "Month 1-12 (default: current)")
	cmd.Flags().StringP("lang", "l", "", "Language: pt, en, es, ja (default: $LANG)")
	cmd.Flags().BoolP("interactive", "i", false, "Interactive mode")

	RootCmd.AddCommand(cmd)
}

type calendarView struct {
	Year     int                `json:"year"`
	Month    int                `json:"month"`
	Title    string             `json:"title"`
	WeekDays []string           `json:"weekdays"`
	Cells    []calendar.DayCell `json:"cells"`
}

func runCalendar(cmd *cobra.Command, args []string) {
	year, _ := cmd.Flags().GetInt("year")
	month, _ := cmd.Flags().GetInt("month")
	lang, _ := cmd.Flags().GetString("lang")
	interactive, _ := cmd.Flags().GetBool("interactive")

	s, err := openStore(cmd)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	themes := loadThemes(cmd.Context(), s)
	r := newRenderer(themes)
	l := langFlag(lang)

	var ctl *controller.Controller
	display := render.Display{R: r, Lang: func() i18n.Language { return ctl.Language() }}
	ctl = controller.New(newFetcher(s), display, l, controller.WithLogger(logger.WithComponent("calendar")))

	if year != 0 {
		if err := ctl.SetYear(year); err != nil {
			exitErr("calendar", err)
		}
	}
	if month != 0 {
		if err := ctl.SetMonth(month - 1); err != nil {
			exitErr("calendar", err)
		}
	}

	if interactive {
		sess := &session{ctl: ctl, r: r, themes: themes, store: s, out: cmd.OutOrStdout()}
		sess.run(cmd.Context(), cmd.InOrStdin())
		return
	}

	if jsonOutput() {
		cur := ctl.Cursor()
		printJSON(calendarView{
			Year:     cur.Year,
			Month:    cur.Month,
			Title:    i18n.MonthTitle(l, cur.Year, cur.Month),
			WeekDays: i18n.WeekDays(l),
			Cells:    ctl.Grid(),
		})
		return
	}
	if err := r.Month(ctl.Cursor(), ctl.Grid(), l); err != nil {
		exitErr("render", err)
	}
}

const sessionHelp = `commands:
  <day>        open a day of the shown month
  n, p         next / previous month
  m <1-12>     jump to month
  y <year>     jump to year
  c            close the open picture
  ok           dismiss an error
  l <lang>     language: pt, en, es, ja
  t            toggle light/dark theme
  q            quit`

// session is the interactive calendar loop.
type session struct {
	ctl    *controller.Controller
	r      *render.Renderer
	themes *theme.Store
	store  store.Store
	out    io.Writer
}

func (s *session) run(ctx context.Context, in io.Reader) {
	s.show()
	fmt.Fprintln(s.out, sessionHelp)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			return
		}
		if s.handle(ctx, scanner.Text()) {
			return
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func (s *session) show() {
	if err := s.r.Month(s.ctl.Cursor(), s.ctl.Grid(), s.ctl.Language()); err != nil {
		fmt.Fprintf(s.out, "render: %v\n", err)
	}
}

// handle runs one command and reports whether the session should end.
func (s *session) handle(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch fields[0] {
	case "q", "quit", "exit":
		return true
	case "h", "help", "?":
		fmt.Fprintln(s.out, sessionHelp)
	case "n", "next":
		s.ctl.Next()
		s.show()
	case "p", "prev":
		s.ctl.Prev()
		s.show()
	case "m":
		month, err := strconv.Atoi(arg)
		if err == nil {
			err = s.ctl.SetMonth(month - 1)
		}
		if err != nil {
			fmt.Fprintf(s.out, "invalid month %q\n", arg)
			return false
		}
		s.show()
	case "y":
		year, err := strconv.Atoi(arg)
		if err == nil {
			err = s.ctl.SetYear(year)
		}
		if err != nil {
			fmt.Fprintf(s.out, "invalid year %q\n", arg)
			return false
		}
		s.show()
	case "c", "close":
		if !s.ctl.Close() {
			fmt.Fprintln(s.out, "nothing to close")
		}
	case "ok":
		if !s.ctl.Acknowledge() {
			fmt.Fprintln(s.out, "no error to dismiss")
		}
	case "l", "lang":
		l, ok := i18n.Parse(arg)
		if !ok {
			fmt.Fprintf(s.out, "unsupported language %q\n", arg)
			return false
		}
		s.ctl.SetLanguage(l)
		s.show()
	case "t", "theme":
		t := s.themes.Toggle()
		if err := theme.Save(ctx, s.store, t); err != nil {
			fmt.Fprintf(s.out, "save theme: %v\n", err)
		}
		s.show()
	default:
		day, err := strconv.Atoi(fields[0])
		if err != nil {
			fmt.Fprintf(s.out, "unknown command %q (h for help)\n", fields[0])
			return false
		}
		s.activate(ctx, day)
	}
	return false
}

func (s *session) activate(ctx context.Context, day int) {
	switch s.ctl.State() {
	case controller.ContentReady:
		fmt.Fprintln(s.out, "close the open picture first (c)")
		return
	case controller.Error:
		fmt.Fprintln(s.out, "dismiss the error first (ok)")
		return
	}
	for _, cell := range s.ctl.Grid() {
		if cell.Day != day || cell.IsFuture {
			continue
		}
		s.r.Loading(s.ctl.Language())
		if s.ctl.Activate(ctx, cell) {
			return
		}
		break
	}
	fmt.Fprintf(s.out, "day %d cannot be opened\n", day)
}
