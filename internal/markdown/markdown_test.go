// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package markdown

import (
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bold", "What a **great** picture!", "<strong>great</strong>"},
		{"emphasis", "I *love* the colors", "<em>love</em>"},
		{"list", "- sky\n- sea", "<li>sky</li>"},
		{"hard wrap", "line one\nline two", "<br>"},
		{"autolink", "see https://example.com", `href="https://example.com"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToHTML(tt.in)
			if err != nil {
				t.Fatalf("ToHTML: %v", err)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("ToHTML(%q) = %q, want it to contain %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestToHTMLDropsRawHTML(t *testing.T) {
	got, err := ToHTML("hello <script>alert(1)</script>")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if strings.Contains(got, "<script>") {
		t.Errorf("raw HTML should not pass through: %q", got)
	}
}

func TestToHTMLDropsJavascriptLinks(t *testing.T) {
	got, err := ToHTML("[click](javascript:alert(1))")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if strings.Contains(got, "javascript:") {
		t.Errorf("unsafe link should be dropped: %q", got)
	}
}
