// Package model defines the core dashboard data types.
package model

import "time"

// MediaType is the kind of media attached to a daily content entry.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// DailyContent is one "astronomy picture of the day" entry, possibly translated.
type DailyContent struct {
	Date        string    `json:"date"`
	Title       string    `json:"title"`
	Explanation string    `json:"explanation"`
	MediaURL    string    `json:"url,omitempty"`
	MediaType   MediaType `json:"media_type,omitempty"`
}

// HasImage reports whether the entry carries a displayable image.
func (c DailyContent) HasImage() bool {
	return c.MediaType == MediaImage && c.MediaURL != ""
}

// CacheEntry is a serialized value stored in the device-local cache.
type CacheEntry struct {
	ID        string    `json:"id"`
	NS        string    `json:"ns"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

// Astronaut is a candidate for the astronaut of the day.
type Astronaut struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	ProfileImage *string `json:"profile_image"`
}

// MoonPhase is the current moon phase with a localized label.
type MoonPhase struct {
	Phase string `json:"phase"`
	Label string `json:"label"`
}

// SkyImage is the response of the sky-image proxy.
type SkyImage struct {
	ImageURL *string `json:"imageUrl"`
}
