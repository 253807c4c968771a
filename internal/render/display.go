package render

import (
	"github.com/rcliao/space-dashboard/internal/i18n"
	"github.com/rcliao/space-dashboard/internal/model"
)

// Display adapts a Renderer to the calendar controller's display callbacks.
type Display struct {
	R    *Renderer
	Lang func() i18n.Language
}

func (d Display) ShowContent(c *model.DailyContent) {
	d.R.Content(c, d.Lang())
}

func (d Display) ShowError(err error) {
	d.R.Error(err, d.Lang())
}
