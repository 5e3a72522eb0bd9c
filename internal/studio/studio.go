// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package studio holds one student's portfolio session: the state model
// and the upload, chat and theme flows that mutate it. AI failures never
// escape a flow; they end up as an apology in the conversation or as the
// fallback theme.
package studio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"artstudio/internal/ai"
	"artstudio/internal/credential"
	"artstudio/internal/export"
	"artstudio/internal/models"
	"artstudio/internal/theme"
)

// DefaultName is the student name of a new studio.
const DefaultName = "Student"

// Conversation texts.
const (
	WelcomeMessage = "Hi! Let's become amazing AI creators together. Upload your artwork to build your portfolio, and tell me a mood to change the theme!"
	UploadNotice   = "I uploaded a new artwork! What do you think?"
	UploadApology  = "Something went wrong or the API key is missing. Check the settings!"
	ChatApology    = "Sorry, please try again in a moment!"

	imageInstruction = "Praise this picture at an elementary-school level and explain in two sentences what makes it great. Then ask which prompt was used."
	linkInstruction  = "Praise this artwork (shared as a link) and ask which site or tool was used to make it."
)

// ErrNoImage is returned by Upload when no image data was supplied.
var ErrNoImage = errors.New("studio: upload has no image")

// Assistant is the part of the AI gateway a studio talks to.
type Assistant interface {
	Converse(ctx context.Context, history []models.Message, text string) (string, error)
	DescribeArtwork(ctx context.Context, image *ai.Image, instruction string) (string, error)
}

// ThemeGenerator produces a theme for a description and never fails.
type ThemeGenerator interface {
	Generate(ctx context.Context, description string) theme.Result
}

// Credentials is the studio's own credential layer, read and written by
// the key settings.
type Credentials interface {
	Status(ctx context.Context) credential.Status
	Store(ctx context.Context, value string) error
}

// Option configures a Studio.
type Option func(*Studio)

// WithCredentials attaches the session's credential layer.
func WithCredentials(c Credentials) Option {
	return func(s *Studio) { s.creds = c }
}

// Upload is one artwork submitted by the student. LinkURL is optional;
// when set the entry is a link entry.
type Upload struct {
	Image   *ai.Image
	LinkURL string
}

// View is a snapshot plus the advisory busy flags.
type View struct {
	Snapshot
	Uploading       bool `json:"uploading"`
	GeneratingTheme bool `json:"generatingTheme"`
}

// Studio is one student's session. It is safe for concurrent use:
// concurrent flows are not cancelled or superseded, they all complete and
// their mutations apply in arrival order.
type Studio struct {
	state     *State
	assistant Assistant
	themes    ThemeGenerator
	creds     Credentials
	now       func() time.Time

	uploading       atomic.Bool
	generatingTheme atomic.Bool
}

// New creates a studio with the default theme and the welcome message.
func New(assistant Assistant, themes ThemeGenerator, opts ...Option) *Studio {
	s := &Studio{
		state:     NewState(DefaultName, models.DefaultTheme()),
		assistant: assistant,
		themes:    themes,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state.AppendMessage(models.NewMessage(models.RoleAssistant, WelcomeMessage, s.now()))
	return s
}

// State exposes the underlying state owner.
func (s *Studio) State() *State { return s.state }

// Credentials returns the session's credential layer, or nil when none
// was attached.
func (s *Studio) Credentials() Credentials { return s.creds }

// View returns the current snapshot with busy flags.
func (s *Studio) View() View {
	return View{
		Snapshot:        s.state.Snapshot(),
		Uploading:       s.uploading.Load(),
		GeneratingTheme: s.generatingTheme.Load(),
	}
}

// Upload appends an entry and a user notice, then asks the assistant to
// comment on the artwork. The reply, or an apology on failure, is appended
// as an assistant message.
func (s *Studio) Upload(ctx context.Context, u Upload) (models.Entry, error) {
	if u.Image == nil || len(u.Image.Data) == 0 {
		return models.Entry{}, ErrNoImage
	}

	s.uploading.Store(true)
	defer s.uploading.Store(false)

	link := strings.TrimSpace(u.LinkURL)
	entry := models.NewEntry(u.Image.DataURL(), link, s.now())
	s.state.AppendEntry(entry)

	notice, instruction := UploadNotice, imageInstruction
	if entry.IsLink() {
		notice = fmt.Sprintf("I shared a link to my artwork! (%s)", entry.LinkURL)
		instruction = linkInstruction
	}
	s.state.AppendMessage(models.NewMessage(models.RoleUser, notice, s.now()))

	reply, err := s.assistant.DescribeArtwork(ctx, u.Image, instruction)
	if err != nil {
		slog.Warn("artwork description failed", "entry", entry.ID, "error", err)
		reply = UploadApology
	}
	s.state.AppendMessage(models.NewMessage(models.RoleAssistant, reply, s.now()))
	return entry, nil
}

// Chat sends text with the conversation so far and appends both the user
// message and the reply. Blank text is ignored and reports false.
func (s *Studio) Chat(ctx context.Context, text string) (models.Message, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Message{}, false
	}

	history := s.state.Messages()
	s.state.AppendMessage(models.NewMessage(models.RoleUser, text, s.now()))

	reply, err := s.assistant.Converse(ctx, history, text)
	if err != nil {
		slog.Warn("chat reply failed", "error", err)
		reply = ChatApology
	}
	msg := models.NewMessage(models.RoleAssistant, reply, s.now())
	s.state.AppendMessage(msg)
	return msg, true
}

// GenerateTheme runs the theme pipeline and applies its result, generated
// or fallback, then announces the switch. Blank descriptions are ignored
// and report false.
func (s *Studio) GenerateTheme(ctx context.Context, description string) (theme.Result, bool) {
	description = strings.TrimSpace(description)
	if description == "" {
		return theme.Result{}, false
	}

	s.generatingTheme.Store(true)
	defer s.generatingTheme.Store(false)

	res := s.themes.Generate(ctx, description)
	s.state.SetTheme(res.Theme)
	if res.Fallback() {
		slog.Info("fallback theme applied", "reason", res.Reason)
	}

	s.state.AppendMessage(models.NewMessage(models.RoleAssistant, fmt.Sprintf(
		"Ta-da! I switched the theme to '%s'. How do you like the background and colors? I hope you love it!",
		description), s.now()))
	return res, true
}

// UpdatePrompt records the prompt the student used for an entry.
func (s *Studio) UpdatePrompt(id, prompt string) bool {
	entryID, err := uuid.Parse(id)
	if err != nil {
		return false
	}
	return s.state.UpdatePrompt(entryID, prompt)
}

// SetName changes the student name shown in the export.
func (s *Studio) SetName(name string) {
	s.state.SetName(strings.TrimSpace(name))
}

// Stats summarizes the current entries.
func (s *Studio) Stats() Stats {
	return ComputeStats(s.state.Snapshot().Entries)
}

// Export renders the portfolio document and its download filename.
func (s *Studio) Export(now time.Time) (filename, html string, err error) {
	snap := s.state.Snapshot()
	html, err = export.Render(snap.Name, snap.Entries, snap.Theme, now)
	if err != nil {
		return "", "", err
	}
	return export.Filename(snap.Name), html, nil
}
