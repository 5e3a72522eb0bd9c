// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the studio's JSON API. Each request works on
// the studio bound to its session cookie; AI failures never surface as
// server errors because the studio turns them into apologies or the
// fallback theme.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"artstudio/internal/ai"
	"artstudio/internal/markdown"
	"artstudio/internal/middleware"
	"artstudio/internal/models"
	"artstudio/internal/studio"
	"artstudio/internal/theme"
)

const (
	// maxUploadSize is the maximum accepted artwork size (10 MB).
	maxUploadSize = 10 << 20

	// maxJSONBody bounds non-upload request bodies.
	maxJSONBody = 64 << 10
)

// Studio groups the studio API handlers. Every handler acts on the
// session's studio from the request context.
type Studio struct {
	now func() time.Time
}

// NewStudio creates the studio handler group.
func NewStudio() *Studio {
	return &Studio{now: time.Now}
}

// messageView is a message with its text rendered as HTML.
type messageView struct {
	models.Message
	HTML string `json:"html"`
}

// studioView is the GET /api/studio payload.
type studioView struct {
	studio.View
	Messages []messageView `json:"messages"`
}

// Snapshot returns the session's portfolio, conversation and theme.
func (h *Studio) Snapshot(w http.ResponseWriter, r *http.Request) {
	s := middleware.StudioFromCtx(r.Context())
	writeJSON(w, http.StatusOK, renderView(s.View()))
}

// SetName changes the student name shown in the export.
func (h *Studio) SetName(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateName(req.Name); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	s := middleware.StudioFromCtx(r.Context())
	s.SetName(req.Name)
	writeJSON(w, http.StatusOK, map[string]string{"name": s.View().Name})
}

// Upload adds an artwork. It accepts a multipart form with an "image" file
// and an optional "link", or a JSON body whose "image" is a data URL.
func (h *Studio) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize*2)

	var (
		img  *ai.Image
		link string
		ok   bool
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		img, link, ok = readMultipartUpload(w, r)
	} else {
		img, link, ok = readJSONUpload(w, r)
	}
	if !ok {
		return
	}

	if msg := validateLink(link); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	s := middleware.StudioFromCtx(r.Context())
	entry, err := s.Upload(r.Context(), studio.Upload{Image: img, LinkURL: link})
	if err != nil {
		if errors.Is(err, studio.ErrNoImage) {
			writeError(w, http.StatusBadRequest, "Image is empty.")
			return
		}
		slog.Error("upload artwork", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"entry":  entry,
		"studio": renderView(s.View()),
	})
}

func readMultipartUpload(w http.ResponseWriter, r *http.Request) (*ai.Image, string, bool) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 10 MB.")
		return nil, "", false
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No image provided.")
		return nil, "", false
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 10 MB.")
		return nil, "", false
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Could not read the image.")
		return nil, "", false
	}
	if len(data) > maxUploadSize {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 10 MB.")
		return nil, "", false
	}

	img, msg := imageFromBytes(data)
	if msg != "" {
		writeError(w, http.StatusUnsupportedMediaType, msg)
		return nil, "", false
	}
	return img, strings.TrimSpace(r.FormValue("link")), true
}

func readJSONUpload(w http.ResponseWriter, r *http.Request) (*ai.Image, string, bool) {
	var req struct {
		Image string `json:"image"`
		Link  string `json:"link"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return nil, "", false
	}

	parsed, err := ai.ParseDataURL(req.Image)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Image must be a base64 data URL.")
		return nil, "", false
	}
	if len(parsed.Data) > maxUploadSize {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 10 MB.")
		return nil, "", false
	}

	img, msg := imageFromBytes(parsed.Data)
	if msg != "" {
		writeError(w, http.StatusUnsupportedMediaType, msg)
		return nil, "", false
	}
	return img, strings.TrimSpace(req.Link), true
}

// imageFromBytes sniffs data and accepts only image types.
func imageFromBytes(data []byte) (*ai.Image, string) {
	if len(data) == 0 {
		return nil, "Image is empty."
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "Only image files can be uploaded."
	}
	return &ai.Image{Data: data, MIMEType: contentType}, ""
}

// UpdatePrompt records the prompt used for an entry. An unknown id answers
// 404; the state update itself stays a silent no-op for it.
func (h *Studio) UpdatePrompt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validatePrompt(req.Prompt); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	s := middleware.StudioFromCtx(r.Context())
	if !s.UpdatePrompt(chi.URLParam(r, "id"), req.Prompt) {
		writeError(w, http.StatusNotFound, "Artwork not found.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Chat sends a message to the assistant and returns its reply.
func (h *Studio) Chat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateChat(req.Text); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	s := middleware.StudioFromCtx(r.Context())
	reply, ok := s.Chat(r.Context(), req.Text)
	if !ok {
		writeError(w, http.StatusBadRequest, "Message is required.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reply": renderMessage(reply)})
}

// themeResponse reports the applied theme and whether it is the fallback.
type themeResponse struct {
	Theme    models.Theme `json:"theme"`
	Fallback bool         `json:"fallback"`
	Reason   theme.Reason `json:"reason,omitempty"`
}

// Theme generates and applies a theme from a description.
func (h *Studio) Theme(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Description string `json:"description"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateDescription(req.Description); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	s := middleware.StudioFromCtx(r.Context())
	res, ok := s.GenerateTheme(r.Context(), req.Description)
	if !ok {
		writeError(w, http.StatusBadRequest, "Describe the theme you want.")
		return
	}
	writeJSON(w, http.StatusOK, themeResponse{
		Theme:    res.Theme,
		Fallback: res.Fallback(),
		Reason:   res.Reason,
	})
}

// Stats returns portfolio activity counts.
func (h *Studio) Stats(w http.ResponseWriter, r *http.Request) {
	s := middleware.StudioFromCtx(r.Context())
	writeJSON(w, http.StatusOK, s.Stats())
}

// Export downloads the portfolio as a standalone HTML document.
func (h *Studio) Export(w http.ResponseWriter, r *http.Request) {
	s := middleware.StudioFromCtx(r.Context())
	filename, doc, err := s.Export(h.now())
	if err != nil {
		slog.Error("export portfolio", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", contentDisposition(filename))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, doc)
}

// contentDisposition builds an attachment header for filename. Path
// separators and control characters are replaced; non-ASCII names are
// encoded by mime.FormatMediaType.
func contentDisposition(filename string) string {
	clean := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || r == '/' || r == '\\' || r == '"' {
			return '_'
		}
		return r
	}, filename)

	if v := mime.FormatMediaType("attachment", map[string]string{"filename": clean}); v != "" {
		return v
	}
	return `attachment; filename="portfolio.html"`
}

// CredentialStatus reports whether this session has an AI key and its
// source.
func (h *Studio) CredentialStatus(w http.ResponseWriter, r *http.Request) {
	creds := sessionCredentials(w, r)
	if creds == nil {
		return
	}
	writeJSON(w, http.StatusOK, creds.Status(r.Context()))
}

// CredentialSave stores this session's AI key. An empty value clears it.
// Other sessions never see it.
func (h *Studio) CredentialSave(w http.ResponseWriter, r *http.Request) {
	creds := sessionCredentials(w, r)
	if creds == nil {
		return
	}

	var req struct {
		Value string `json:"value"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	value := strings.TrimSpace(req.Value)
	if msg := validateCredential(value); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if err := creds.Store(r.Context(), value); err != nil {
		slog.Error("store credential", "error", err)
		writeError(w, http.StatusInternalServerError, "Could not save the key.")
		return
	}
	slog.Info("credential updated", "cleared", value == "")
	writeJSON(w, http.StatusOK, creds.Status(r.Context()))
}

// sessionCredentials returns the credential layer of the request's studio,
// answering 404 when the studio has none.
func sessionCredentials(w http.ResponseWriter, r *http.Request) studio.Credentials {
	if s := middleware.StudioFromCtx(r.Context()); s != nil {
		if c := s.Credentials(); c != nil {
			return c
		}
	}
	writeError(w, http.StatusNotFound, "Key settings are not available.")
	return nil
}

func renderView(v studio.View) studioView {
	msgs := make([]messageView, len(v.Messages))
	for i, m := range v.Messages {
		msgs[i] = renderMessage(m)
	}
	return studioView{View: v, Messages: msgs}
}

// renderMessage converts a message's markdown to HTML. Rendering errors
// leave HTML empty; clients fall back to the plain text.
func renderMessage(m models.Message) messageView {
	html, err := markdown.ToHTML(m.Text)
	if err != nil {
		slog.Warn("render message markdown", "message", m.ID, "error", err)
	}
	return messageView{Message: m, HTML: html}
}

// decodeJSON reads a bounded JSON body into dst, answering 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return false
	}
	return true
}

// writeJSON encodes data as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError answers with the API's JSON error shape.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
