package anilist

import (
	"strconv"
	"strings"

	"github.com/example/anime-browser/services/browse/internal/domain"
)

const (
	UnknownTitle  = "Unknown"
	NoDescription = "No description available."
)

// ToDomain projects a response record into the domain model. It is total:
// any missing optional field falls back to a fixed default.
func ToDomain(m MediaDTO) domain.Anime {
	a := domain.Anime{
		ID:          m.ID,
		Title:       BestTitle(m.Title),
		CoverURL:    bestCover(m.CoverImage),
		Description: NoDescription,
	}
	if m.AverageScore != nil {
		a.Rating = *m.AverageScore
	}
	if m.Description != nil {
		a.Description = *m.Description
	}
	if m.Season != nil {
		a.Season = *m.Season
	}
	if m.SeasonYear != nil {
		a.SeasonYear = strconv.Itoa(*m.SeasonYear)
	}
	a.BannerURL = deref(m.BannerImage)
	a.Status = deref(m.Status)
	return a
}

// BestTitle prefers the English title, then romaji.
func BestTitle(t *TitleDTO) string {
	if t == nil {
		return UnknownTitle
	}
	if s := strings.TrimSpace(deref(t.English)); s != "" {
		return s
	}
	if s := strings.TrimSpace(deref(t.Romaji)); s != "" {
		return s
	}
	return UnknownTitle
}

func bestCover(c *CoverDTO) string {
	if c == nil {
		return ""
	}
	if s := strings.TrimSpace(deref(c.ExtraLarge)); s != "" {
		return s
	}
	return strings.TrimSpace(deref(c.Large))
}

func mapMedia(list []*MediaDTO) []domain.Anime {
	out := make([]domain.Anime, 0, len(list))
	for _, m := range list {
		if m == nil {
			continue
		}
		out = append(out, ToDomain(*m))
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
