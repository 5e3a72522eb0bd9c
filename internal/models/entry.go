// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// EntryKind distinguishes uploaded images from linked artworks.
type EntryKind string

const (
	EntryKindImage EntryKind = "image"
	EntryKindLink  EntryKind = "link"
)

// Fixed labels assigned to entries at creation.
const (
	DescriptionUploaded = "uploaded artwork"
	DescriptionLinked   = "linked artwork"
)

// Entry is one artwork in the portfolio. ImageURL always holds the preview
// image (for link entries too). LinkURL is set if and only if Kind is link.
type Entry struct {
	ID          uuid.UUID `json:"id"`
	Kind        EntryKind `json:"kind"`
	ImageURL    string    `json:"imageUrl"`
	LinkURL     string    `json:"linkUrl,omitempty"`
	Prompt      string    `json:"prompt"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewEntry builds an entry from a preview image and an optional link. A
// non-empty link makes it a link entry; the prompt starts empty.
func NewEntry(imageURL, linkURL string, now time.Time) Entry {
	e := Entry{
		ID:          uuid.New(),
		Kind:        EntryKindImage,
		ImageURL:    imageURL,
		Description: DescriptionUploaded,
		CreatedAt:   now,
	}
	if linkURL != "" {
		e.Kind = EntryKindLink
		e.LinkURL = linkURL
		e.Description = DescriptionLinked
	}
	return e
}

// IsLink returns true for linked artworks.
func (e *Entry) IsLink() bool {
	return e.Kind == EntryKindLink
}
