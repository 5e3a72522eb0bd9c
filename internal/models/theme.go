// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// DefaultThemeID identifies the built-in studio theme.
const DefaultThemeID = "default"

// Theme is the visual presentation applied to the live studio and to the
// exported portfolio. Colors are opaque CSS strings; nothing beyond
// "non-empty" is checked. A Theme is a value: replacing the active theme
// always swaps the whole record.
type Theme struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Background  string `json:"background"`
	TextColor   string `json:"textColor"`
	AccentColor string `json:"accentColor"`
	CardBg      string `json:"cardBg"`
}

// Valid reports whether all four presentation values are non-empty.
func (t Theme) Valid() bool {
	return t.Background != "" && t.TextColor != "" && t.AccentColor != "" && t.CardBg != ""
}

// DefaultTheme returns the built-in studio theme used for new sessions.
func DefaultTheme() Theme {
	return Theme{
		ID:          DefaultThemeID,
		Name:        "Basic Studio",
		Background:  "#f8fafc",
		TextColor:   "#1e293b",
		AccentColor: "#4f46e5",
		CardBg:      "#ffffff",
	}
}
