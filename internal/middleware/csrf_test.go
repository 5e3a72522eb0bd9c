// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// csrfCookie performs a GET and returns the issued token cookie.
func csrfCookie(t *testing.T, h http.Handler) *http.Cookie {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/studio", nil))
	for _, c := range rr.Result().Cookies() {
		if c.Name == CSRFCookieName {
			return c
		}
	}
	t.Fatal("CSRF cookie not set")
	return nil
}

func TestNewCSRFSecureFlag(t *testing.T) {
	for _, secure := range []bool{true, false} {
		h := NewCSRF(secure)(okHandler())
		c := csrfCookie(t, h)
		if c.Secure != secure {
			t.Errorf("cookie Secure: got %v, want %v", c.Secure, secure)
		}
		if c.SameSite != http.SameSiteStrictMode {
			t.Errorf("cookie SameSite: got %v, want StrictMode", c.SameSite)
		}
		if c.HttpOnly {
			t.Error("cookie must be readable by the client script")
		}
		if len(c.Value) != csrfTokenLength*2 {
			t.Errorf("token length: got %d", len(c.Value))
		}
	}
}

func TestCSRF(t *testing.T) {
	h := NewCSRF(false)(okHandler())
	cookie := csrfCookie(t, h)

	tests := []struct {
		name   string
		method string
		header string
		want   int
	}{
		{"GET passes without token", http.MethodGet, "", http.StatusOK},
		{"HEAD passes without token", http.MethodHead, "", http.StatusOK},
		{"POST without token", http.MethodPost, "", http.StatusForbidden},
		{"POST wrong token", http.MethodPost, "nope", http.StatusForbidden},
		{"POST matching token", http.MethodPost, cookie.Value, http.StatusOK},
		{"PUT matching token", http.MethodPut, cookie.Value, http.StatusOK},
		{"PATCH wrong token", http.MethodPatch, "x" + cookie.Value, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/chat", nil)
			req.AddCookie(cookie)
			if tt.header != "" {
				req.Header.Set(CSRFHeaderName, tt.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("got %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestCSRFRejectsPostWithoutCookie(t *testing.T) {
	h := NewCSRF(false)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	req.Header.Set(CSRFHeaderName, "anything")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("got %d, want 403", rr.Code)
	}
}

func TestCSRFKeepsExistingCookie(t *testing.T) {
	h := NewCSRF(false)(okHandler())
	cookie := csrfCookie(t, h)

	req := httptest.NewRequest(http.MethodGet, "/api/studio", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if len(rr.Result().Cookies()) != 0 {
		t.Error("existing token should not be replaced")
	}
}
