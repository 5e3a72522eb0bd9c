// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies who wrote a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn in the studio conversation. Role alternation is not
// enforced; two user messages in a row are normal after an upload.
type Message struct {
	ID        uuid.UUID `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewMessage creates a message with a fresh ID.
func NewMessage(role Role, text string, now time.Time) Message {
	return Message{
		ID:        uuid.New(),
		Role:      role,
		Text:      text,
		CreatedAt: now,
	}
}
