// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package studio

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"artstudio/internal/ai"
	"artstudio/internal/models"
	"artstudio/internal/theme"
)

// fakeAssistant is an Assistant test double.
type fakeAssistant struct {
	mu          sync.Mutex
	reply       string
	err         error
	history     []models.Message
	instruction string
	image       *ai.Image
}

func (f *fakeAssistant) Converse(ctx context.Context, history []models.Message, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.history = history
	return f.reply, f.err
}

func (f *fakeAssistant) DescribeArtwork(ctx context.Context, image *ai.Image, instruction string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.image = image
	f.instruction = instruction
	return f.reply, f.err
}

// fakeThemes returns a fixed pipeline result.
type fakeThemes struct {
	result theme.Result
	calls  int
}

func (f *fakeThemes) Generate(ctx context.Context, description string) theme.Result {
	f.calls++
	r := f.result
	r.Theme.Name = description
	return r
}

func testImage() *ai.Image {
	return &ai.Image{Data: []byte{0x89, 'P', 'N', 'G'}, MIMEType: "image/png"}
}

func lastMessage(s *Studio) models.Message {
	msgs := s.State().Messages()
	return msgs[len(msgs)-1]
}

func TestNewStudioWelcomes(t *testing.T) {
	s := New(&fakeAssistant{}, &fakeThemes{})
	v := s.View()
	if len(v.Messages) != 1 || v.Messages[0].Role != models.RoleAssistant || v.Messages[0].Text != WelcomeMessage {
		t.Errorf("messages: got %+v", v.Messages)
	}
	if v.Name != DefaultName || v.Theme != models.DefaultTheme() {
		t.Errorf("defaults: got name %q theme %+v", v.Name, v.Theme)
	}
	if v.Uploading || v.GeneratingTheme {
		t.Error("busy flags should start false")
	}
}

func TestUploadImage(t *testing.T) {
	a := &fakeAssistant{reply: "What a colorful picture!"}
	s := New(a, &fakeThemes{})

	entry, err := s.Upload(context.Background(), Upload{Image: testImage()})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if entry.Kind != models.EntryKindImage || entry.Description != models.DescriptionUploaded {
		t.Errorf("entry: got %+v", entry)
	}
	if !strings.HasPrefix(entry.ImageURL, "data:image/png;base64,") {
		t.Errorf("ImageURL: got %q", entry.ImageURL)
	}
	if a.instruction != imageInstruction {
		t.Errorf("instruction: got %q", a.instruction)
	}

	msgs := s.State().Messages()
	if len(msgs) != 3 {
		t.Fatalf("messages: got %d, want 3", len(msgs))
	}
	if msgs[1].Role != models.RoleUser || msgs[1].Text != UploadNotice {
		t.Errorf("notice: got %+v", msgs[1])
	}
	if msgs[2].Role != models.RoleAssistant || msgs[2].Text != "What a colorful picture!" {
		t.Errorf("reply: got %+v", msgs[2])
	}
	if s.View().Uploading {
		t.Error("uploading flag should be cleared")
	}
}

func TestUploadLink(t *testing.T) {
	a := &fakeAssistant{reply: "Nice!"}
	s := New(a, &fakeThemes{})

	entry, err := s.Upload(context.Background(), Upload{Image: testImage(), LinkURL: " https://example.com/art "})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if entry.Kind != models.EntryKindLink || entry.LinkURL != "https://example.com/art" {
		t.Errorf("entry: got %+v", entry)
	}
	if entry.Description != models.DescriptionLinked {
		t.Errorf("Description: got %q", entry.Description)
	}
	if a.instruction != linkInstruction {
		t.Errorf("instruction: got %q", a.instruction)
	}

	msgs := s.State().Messages()
	if got := msgs[1].Text; got != "I shared a link to my artwork! (https://example.com/art)" {
		t.Errorf("notice: got %q", got)
	}
}

func TestUploadFailureAppendsApology(t *testing.T) {
	a := &fakeAssistant{err: ai.ErrRemoteCall}
	s := New(a, &fakeThemes{})

	if _, err := s.Upload(context.Background(), Upload{Image: testImage()}); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if got := lastMessage(s).Text; got != UploadApology {
		t.Errorf("last message: got %q, want apology", got)
	}
	if len(s.View().Entries) != 1 {
		t.Error("entry should be kept even when the description fails")
	}
}

func TestUploadWithoutImage(t *testing.T) {
	s := New(&fakeAssistant{}, &fakeThemes{})
	if _, err := s.Upload(context.Background(), Upload{}); !errors.Is(err, ErrNoImage) {
		t.Errorf("got %v, want ErrNoImage", err)
	}
	if len(s.View().Entries) != 0 {
		t.Error("no entry should be added")
	}
}

func TestChat(t *testing.T) {
	a := &fakeAssistant{reply: "Tell me more!"}
	s := New(a, &fakeThemes{})

	msg, ok := s.Chat(context.Background(), "  I drew a robot  ")
	if !ok {
		t.Fatal("Chat should accept non-blank text")
	}
	if msg.Text != "Tell me more!" || msg.Role != models.RoleAssistant {
		t.Errorf("reply: got %+v", msg)
	}

	// History is the conversation before the new user message.
	if len(a.history) != 1 || a.history[0].Text != WelcomeMessage {
		t.Errorf("history: got %+v", a.history)
	}

	msgs := s.State().Messages()
	if len(msgs) != 3 || msgs[1].Text != "I drew a robot" {
		t.Errorf("messages: got %+v", msgs)
	}
}

func TestChatBlankIgnored(t *testing.T) {
	s := New(&fakeAssistant{reply: "x"}, &fakeThemes{})
	if _, ok := s.Chat(context.Background(), "   "); ok {
		t.Error("blank text should be ignored")
	}
	if len(s.State().Messages()) != 1 {
		t.Error("blank text should not append messages")
	}
}

func TestChatFailureAppendsApology(t *testing.T) {
	s := New(&fakeAssistant{err: errors.New("boom")}, &fakeThemes{})
	msg, ok := s.Chat(context.Background(), "hi")
	if !ok || msg.Text != ChatApology {
		t.Errorf("got %+v, %v", msg, ok)
	}
}

func TestGenerateTheme(t *testing.T) {
	generated := models.Theme{ID: "custom-1", Background: "#000", TextColor: "#fff", AccentColor: "#f00", CardBg: "#111"}
	th := &fakeThemes{result: theme.Result{Theme: generated}}
	s := New(&fakeAssistant{}, th)

	res, ok := s.GenerateTheme(context.Background(), "night sky")
	if !ok || res.Fallback() {
		t.Fatalf("got %+v, %v", res, ok)
	}
	if got := s.View().Theme; got.ID != "custom-1" || got.Name != "night sky" {
		t.Errorf("theme: got %+v", got)
	}
	if got := lastMessage(s).Text; !strings.HasPrefix(got, "Ta-da! I switched the theme to 'night sky'.") {
		t.Errorf("announcement: got %q", got)
	}
}

func TestGenerateThemeFallbackStillApplied(t *testing.T) {
	th := &fakeThemes{result: theme.Result{Theme: theme.FallbackTheme(""), Reason: theme.ReasonRemoteCall}}
	s := New(&fakeAssistant{}, th)

	res, ok := s.GenerateTheme(context.Background(), "storm")
	if !ok || !res.Fallback() {
		t.Fatalf("got %+v, %v", res, ok)
	}
	if got := s.View().Theme; got.ID != theme.FallbackID || !got.Valid() {
		t.Errorf("theme: got %+v", got)
	}
}

func TestGenerateThemeBlankIgnored(t *testing.T) {
	th := &fakeThemes{}
	s := New(&fakeAssistant{}, th)
	if _, ok := s.GenerateTheme(context.Background(), "  "); ok {
		t.Error("blank description should be ignored")
	}
	if th.calls != 0 {
		t.Error("pipeline should not run for blank descriptions")
	}
}

func TestStudioUpdatePrompt(t *testing.T) {
	s := New(&fakeAssistant{reply: "x"}, &fakeThemes{})
	entry, _ := s.Upload(context.Background(), Upload{Image: testImage()})

	if !s.UpdatePrompt(entry.ID.String(), "a cat in space") {
		t.Fatal("UpdatePrompt should match")
	}
	if s.UpdatePrompt("not-a-uuid", "x") {
		t.Error("malformed id should not match")
	}
	if got := s.View().Entries[0].Prompt; got != "a cat in space" {
		t.Errorf("prompt: got %q", got)
	}
}

func TestStudioExport(t *testing.T) {
	s := New(&fakeAssistant{reply: "x"}, &fakeThemes{})
	s.SetName("Mina")
	entry, _ := s.Upload(context.Background(), Upload{Image: testImage()})
	s.UpdatePrompt(entry.ID.String(), "rainbow bridge")

	filename, html, err := s.Export(time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if filename != "Mina_AI_portfolio.html" {
		t.Errorf("filename: got %q", filename)
	}
	for _, want := range []string{"Mina", "rainbow bridge", entry.ImageURL} {
		if !strings.Contains(html, want) {
			t.Errorf("export missing %q", want)
		}
	}
}

func TestStudioStats(t *testing.T) {
	s := New(&fakeAssistant{reply: "x"}, &fakeThemes{})
	s.Upload(context.Background(), Upload{Image: testImage()})
	s.Upload(context.Background(), Upload{Image: testImage(), LinkURL: "https://example.com"})

	st := s.Stats()
	if st.Total != 2 || st.Images != 1 || st.Links != 1 {
		t.Errorf("stats: got %+v", st)
	}
}
