// Package domain holds the browse service's internal representation of an
// anime title, independent of the remote schema it was fetched from.
package domain

import (
	"strings"

	"golang.org/x/net/html"
)

// Anime is a flat, immutable catalog entry ready for display.
type Anime struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	CoverURL    string `json:"cover_url"`
	Rating      int    `json:"rating"`
	Description string `json:"description"`
	Season      string `json:"season"`
	SeasonYear  string `json:"season_year"`

	// Only populated by details queries.
	BannerURL string `json:"banner_url,omitempty"`
	Status    string `json:"status,omitempty"`
}

// PlainDescription returns the description with markup removed. AniList
// descriptions carry <br>, <i> and similar tags.
func (a Anime) PlainDescription() string {
	return StripMarkup(a.Description)
}

// StripMarkup drops HTML tags and collapses line breaks so the text can be
// rendered verbatim. Input that fails to parse is returned trimmed.
func StripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
		case html.ElementNode:
			if n.Data == "br" {
				sb.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && n.Data == "p" {
			sb.WriteString("\n")
		}
	}
	walk(doc)

	lines := strings.Split(sb.String(), "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, l)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
