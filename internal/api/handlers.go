package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rcliao/space-dashboard/internal/apod"
	"github.com/rcliao/space-dashboard/internal/astronaut"
	"github.com/rcliao/space-dashboard/internal/calendar"
	"github.com/rcliao/space-dashboard/internal/i18n"
	"github.com/rcliao/space-dashboard/internal/sky"
	"github.com/rcliao/space-dashboard/internal/theme"
)

func (s *Server) lang(c *gin.Context) i18n.Language {
	return i18n.Negotiate(c.Query("lang"), c.GetHeader("Accept-Language"))
}

func (s *Server) fail(c *gin.Context, status int, err error, msg string) {
	_ = c.Error(err)
	c.JSON(status, errorBody(msg))
}

func (s *Server) sky(c *gin.Context) {
	lat, lon, err := sky.ParseCoordinates(c.Query("lat"), c.Query("lon"))
	if err != nil {
		s.fail(c, http.StatusBadRequest, err, err.Error())
		return
	}

	date := s.deps.Now().UTC().Format(time.DateOnly)
	url, err := s.deps.Sky.StarChart(c.Request.Context(), lat, lon, date)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err, "failed to load sky chart")
		return
	}
	c.JSON(http.StatusOK, gin.H{"imageUrl": url})
}

func (s *Server) apod(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		s.apodToday(c)
		return
	}

	future, err := calendar.IsFutureDate(date, s.deps.Now())
	if err != nil {
		s.fail(c, http.StatusBadRequest, err, err.Error())
		return
	}
	if future {
		s.fail(c, http.StatusBadRequest, errors.New("future date"), "date is in the future")
		return
	}

	content, err := s.deps.Content.Fetch(c.Request.Context(), date, s.lang(c))
	if err != nil {
		s.contentError(c, err)
		return
	}
	c.JSON(http.StatusOK, content)
}

func (s *Server) apodToday(c *gin.Context) {
	content, err := s.deps.Content.Featured(c.Request.Context(), s.lang(c))
	if err != nil {
		s.contentError(c, err)
		return
	}
	c.JSON(http.StatusOK, content)
}

func (s *Server) contentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apod.ErrInvalidDate):
		s.fail(c, http.StatusBadRequest, err, err.Error())
	case errors.Is(err, apod.ErrNetwork):
		s.fail(c, http.StatusBadGateway, err, "content provider unavailable")
	case errors.Is(err, apod.ErrParse):
		s.fail(c, http.StatusBadGateway, err, "content provider returned an invalid response")
	default:
		s.fail(c, http.StatusInternalServerError, err, "failed to load content")
	}
}

type calendarResponse struct {
	Year     int                `json:"year"`
	Month    int                `json:"month"`
	Title    string             `json:"title"`
	WeekDays []string           `json:"weekdays"`
	Cells    []calendar.DayCell `json:"cells"`
	Years    []int              `json:"years"`
	Months   []string           `json:"months"`
	Labels   i18n.Labels        `json:"labels"`
}

// calendar serves the month grid. month is 0-based like the cursor.
func (s *Server) calendar(c *gin.Context) {
	now := s.deps.Now()
	cur := calendar.CursorFor(now)

	if v := c.Query("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err == nil {
			err = cur.SetYear(year, now)
		}
		if err != nil {
			s.fail(c, http.StatusBadRequest, err, "invalid year")
			return
		}
	}
	if v := c.Query("month"); v != "" {
		month, err := strconv.Atoi(v)
		if err == nil {
			err = cur.SetMonth(month)
		}
		if err != nil {
			s.fail(c, http.StatusBadRequest, err, "invalid month")
			return
		}
	}

	lang := s.lang(c)
	c.JSON(http.StatusOK, calendarResponse{
		Year:     cur.Year,
		Month:    cur.Month,
		Title:    i18n.MonthTitle(lang, cur.Year, cur.Month),
		WeekDays: i18n.WeekDays(lang),
		Cells:    calendar.BuildGrid(cur.Year, cur.Month, now),
		Years:    calendar.YearRange(now),
		Months:   i18n.Months(lang),
		Labels:   i18n.UI(lang),
	})
}

func (s *Server) moon(c *gin.Context) {
	phase, err := s.deps.Moon.Current(c.Request.Context(), s.lang(c))
	if err != nil {
		s.fail(c, http.StatusBadGateway, err, "failed to load moon phase")
		return
	}
	c.JSON(http.StatusOK, phase)
}

func (s *Server) astronaut(c *gin.Context) {
	a, err := s.deps.Astronaut.Today(c.Request.Context())
	if errors.Is(err, astronaut.ErrNoAstronauts) {
		s.fail(c, http.StatusNotFound, err, err.Error())
		return
	}
	if err != nil {
		s.fail(c, http.StatusBadGateway, err, "failed to load astronaut")
		return
	}
	c.JSON(http.StatusOK, a)
}

type themeBody struct {
	Theme string `json:"theme" binding:"required,oneof=light dark"`
}

func (s *Server) getTheme(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"theme": s.deps.Themes.Get()})
}

func (s *Server) putTheme(c *gin.Context) {
	var body themeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.fail(c, http.StatusBadRequest, err, "theme must be light or dark")
		return
	}

	t := theme.Theme(body.Theme)
	if s.deps.Themes.Set(t) && s.deps.Store != nil {
		if err := theme.Save(c.Request.Context(), s.deps.Store, t); err != nil {
			s.deps.Logger.Warn("persist theme failed", "error", err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"theme": t})
}
