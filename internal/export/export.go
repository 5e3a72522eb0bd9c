// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package export renders a portfolio as one standalone HTML document.
// Rendering is a pure function of its inputs: no network, no state. The
// document references only remote font and style assets; artwork images
// are embedded as they were uploaded.
package export

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"artstudio/internal/models"
)

//go:embed templates/portfolio.html
var templateFS embed.FS

var portfolioTmpl = template.Must(template.ParseFS(templateFS, "templates/portfolio.html"))

const (
	// EmptyText replaces the grid when there are no entries.
	EmptyText = "No artworks on display yet."

	// NoPrompt is shown for entries without a prompt.
	NoPrompt = "(no description)"

	dateLayout = "Jan 2, 2006"
)

type page struct {
	Name        string
	Generated   string
	ThemeName   string
	Background  template.CSS
	TextColor   template.CSS
	AccentColor template.CSS
	CardBg      template.CSS
	EmptyText   string
	Items       []item
}

type item struct {
	Image   template.URL
	Link    string
	Heading string
	Prompt  string
	Date    string
}

// Render produces the HTML document for the given student name, entries
// (in order) and theme. now is the generation date shown in the header.
func Render(name string, entries []models.Entry, theme models.Theme, now time.Time) (string, error) {
	p := page{
		Name:        name,
		Generated:   now.Format(dateLayout),
		ThemeName:   theme.Name,
		Background:  cssValue(theme.Background),
		TextColor:   cssValue(theme.TextColor),
		AccentColor: cssValue(theme.AccentColor),
		CardBg:      cssValue(theme.CardBg),
		EmptyText:   EmptyText,
	}

	for _, e := range entries {
		it := item{
			Image:   imageURL(e.ImageURL),
			Heading: "Prompt",
			Prompt:  e.Prompt,
			Date:    e.CreatedAt.Format(dateLayout),
		}
		if e.IsLink() {
			it.Link = e.LinkURL
			it.Heading = "Description"
		}
		if it.Prompt == "" {
			it.Prompt = NoPrompt
		}
		p.Items = append(p.Items, it)
	}

	var buf bytes.Buffer
	if err := portfolioTmpl.Execute(&buf, p); err != nil {
		return "", fmt.Errorf("render portfolio: %w", err)
	}
	return buf.String(), nil
}

// Filename returns the download name for a student's export.
func Filename(name string) string {
	return name + "_AI_portfolio.html"
}

var cssBreakers = strings.NewReplacer("<", "", ">", "", "{", "", "}", "", ";", "")

// cssValue trusts a theme value as a CSS declaration value once every
// character that could end the declaration or the style element is gone.
func cssValue(v string) template.CSS {
	return template.CSS(cssBreakers.Replace(v))
}

// imageURL trusts inline image data and http(s) URLs; anything else is
// dropped.
func imageURL(s string) template.URL {
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "data:image/"),
		strings.HasPrefix(lower, "https://"),
		strings.HasPrefix(lower, "http://"):
		return template.URL(s)
	}
	return ""
}
