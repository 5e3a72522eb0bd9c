// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// Validation limits for studio inputs.
const (
	maxNameLen        = 100
	maxPromptLen      = 2_000
	maxChatLen        = 4_000
	maxDescriptionLen = 200
	maxLinkLen        = 2_048
	maxCredentialLen  = 4_096
)

// validateName checks the student name.
func validateName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Name is too long (max 100 characters)."
	}
	return ""
}

// validatePrompt checks a prompt note. Empty prompts are allowed; they
// clear the note.
func validatePrompt(prompt string) string {
	if utf8.RuneCountInString(prompt) > maxPromptLen {
		return "Prompt is too long (max 2,000 characters)."
	}
	return ""
}

// validateChat checks a chat message.
func validateChat(text string) string {
	if strings.TrimSpace(text) == "" {
		return "Message is required."
	}
	if utf8.RuneCountInString(text) > maxChatLen {
		return "Message is too long (max 4,000 characters)."
	}
	return ""
}

// validateDescription checks a theme description.
func validateDescription(desc string) string {
	if strings.TrimSpace(desc) == "" {
		return "Describe the theme you want."
	}
	if utf8.RuneCountInString(desc) > maxDescriptionLen {
		return "Description is too long (max 200 characters)."
	}
	return ""
}

// validateLink checks an optional artwork link. Only absolute http(s)
// URLs are accepted so the export never carries script URLs.
func validateLink(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}
	if len(link) > maxLinkLen {
		return "Link is too long (max 2,048 characters)."
	}
	u, err := url.Parse(link)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "Link must be an http or https address."
	}
	return ""
}

// validateCredential checks a user-supplied API key. The shape is not
// checked; only the length is bounded.
func validateCredential(value string) string {
	if len(value) > maxCredentialLen {
		return "Key is too long."
	}
	return ""
}
