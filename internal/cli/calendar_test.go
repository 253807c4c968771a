package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/space-dashboard/internal/controller"
	"github.com/rcliao/space-dashboard/internal/i18n"
	"github.com/rcliao/space-dashboard/internal/logger"
	"github.com/rcliao/space-dashboard/internal/model"
	"github.com/rcliao/space-dashboard/internal/render"
	"github.com/rcliao/space-dashboard/internal/store"
	"github.com/rcliao/space-dashboard/internal/theme"
)

type stubFetcher struct{ dates []string }

func (f *stubFetcher) Fetch(_ context.Context, date string, lang i18n.Language) (*model.DailyContent, error) {
	f.dates = append(f.dates, date)
	return &model.DailyContent{Date: date, Title: "Picture " + date, Explanation: "text"}, nil
}

func newTestSession(t *testing.T) (*session, *stubFetcher, *bytes.Buffer) {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	var out bytes.Buffer
	themes := theme.NewStore(theme.Light)
	r := render.New(&out, themes, false)
	f := &stubFetcher{}
	now := time.Date(2024, time.May, 15, 12, 0, 0, 0, time.Local)
	ctl := controller.New(f, render.Display{R: r, Lang: func() i18n.Language { return i18n.EN }}, i18n.EN,
		controller.WithClock(func() time.Time { return now }),
		controller.WithLogger(logger.Discard()))

	return &session{ctl: ctl, r: r, themes: themes, store: s, out: &out}, f, &out
}

func TestSession_OpenAndClose(t *testing.T) {
	sess, f, out := newTestSession(t)
	ctx := context.Background()

	assert.False(t, sess.handle(ctx, "3"))
	assert.Equal(t, []string{"2024-05-03"}, f.dates)
	assert.Contains(t, out.String(), "Picture 2024-05-03")
	assert.Equal(t, controller.ContentReady, sess.ctl.State())

	out.Reset()
	sess.handle(ctx, "4")
	assert.Contains(t, out.String(), "close the open picture first")
	assert.Len(t, f.dates, 1)

	sess.handle(ctx, "c")
	assert.Equal(t, controller.Idle, sess.ctl.State())
}

func TestSession_FutureDayIsRejected(t *testing.T) {
	sess, f, out := newTestSession(t)

	sess.handle(context.Background(), "20")
	assert.Empty(t, f.dates)
	assert.Contains(t, out.String(), "day 20 cannot be opened")
	assert.NotContains(t, out.String(), i18n.UI(i18n.EN).Loading)
}

func TestSession_Navigation(t *testing.T) {
	sess, _, out := newTestSession(t)
	ctx := context.Background()

	sess.handle(ctx, "n")
	assert.Contains(t, out.String(), "June 2024")

	out.Reset()
	sess.handle(ctx, "m 1")
	sess.handle(ctx, "p")
	assert.Contains(t, out.String(), "December 2023")

	out.Reset()
	sess.handle(ctx, "y 1990")
	assert.Contains(t, out.String(), "invalid year")

	out.Reset()
	sess.handle(ctx, "l pt")
	assert.Contains(t, out.String(), "Dezembro de 2023")
}

func TestSession_ThemeToggleIsPersisted(t *testing.T) {
	sess, _, _ := newTestSession(t)

	sess.handle(context.Background(), "t")
	assert.Equal(t, theme.Dark, sess.themes.Get())

	saved, err := theme.Load(context.Background(), sess.store)
	require.NoError(t, err)
	assert.Equal(t, theme.Dark, saved)
}

func TestSession_RunStopsOnQuit(t *testing.T) {
	sess, f, out := newTestSession(t)

	sess.run(context.Background(), strings.NewReader("1\nc\nq\n9\n"))
	assert.Equal(t, []string{"2024-05-01"}, f.dates)
	assert.Contains(t, out.String(), "May 2024")
}
