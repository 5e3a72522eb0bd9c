// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package credential

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// failingSlot always errors on read.
type failingSlot struct{}

func (failingSlot) Get(ctx context.Context) (string, error) { return "", errors.New("slot down") }
func (failingSlot) Set(ctx context.Context, value string) error {
	return errors.New("slot down")
}

func fixed(v string) func() string { return func() string { return v } }

func TestResolve(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		deployment string
		stored     string
		wantValue  string
		wantSource Source
	}{
		{"absent", "", "", "", SourceNone},
		{"stored only", "", "user-key", "user-key", SourceStored},
		{"deployment wins", "deploy-key", "user-key", "deploy-key", SourceDeployment},
		{"deployment only", "deploy-key", "", "deploy-key", SourceDeployment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot := NewMemorySlot()
			_ = slot.Set(ctx, tt.stored)
			p := NewProvider(fixed(tt.deployment), slot, nil)

			got, ok := p.Resolve(ctx)
			if got != tt.wantValue {
				t.Errorf("Resolve value: got %q, want %q", got, tt.wantValue)
			}
			if ok != (tt.wantValue != "") {
				t.Errorf("Resolve present: got %v", ok)
			}
			st := p.Status(ctx)
			if st.Source != tt.wantSource || st.Present != ok {
				t.Errorf("Status: got %+v, want source %q", st, tt.wantSource)
			}
		})
	}
}

func TestStoreVisibleToNextResolve(t *testing.T) {
	ctx := context.Background()
	p := NewProvider(nil, NewMemorySlot(), nil)

	if _, ok := p.Resolve(ctx); ok {
		t.Fatal("expected absent credential")
	}
	if err := p.Store(ctx, "abc"); err != nil {
		t.Fatalf("Store: %v", err)
	}
	got, ok := p.Resolve(ctx)
	if !ok || got != "abc" {
		t.Errorf("Resolve after Store: got %q, %v", got, ok)
	}
}

func TestStoreDoesNotValidateShape(t *testing.T) {
	ctx := context.Background()
	p := NewProvider(nil, NewMemorySlot(), nil)
	if err := p.Store(ctx, "not really a key!"); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if got, _ := p.Resolve(ctx); got != "not really a key!" {
		t.Errorf("got %q", got)
	}
}

func TestSlotReadFailureIsAbsent(t *testing.T) {
	p := NewProvider(nil, failingSlot{}, nil)
	if _, ok := p.Resolve(context.Background()); ok {
		t.Error("failing slot should resolve as absent")
	}
	if err := p.Store(context.Background(), "x"); err == nil {
		t.Error("Store should surface slot write errors")
	}
}

func TestDeploymentFuncConsultedEachCall(t *testing.T) {
	ctx := context.Background()
	value := ""
	p := NewProvider(func() string { return value }, NewMemorySlot(), nil)

	if _, ok := p.Resolve(ctx); ok {
		t.Fatal("expected absent")
	}
	value = "late"
	if got, _ := p.Resolve(ctx); got != "late" {
		t.Errorf("got %q, want late", got)
	}
}

func TestSealedStore(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot()
	p := NewProvider(nil, slot, NewSealer("s3cret"))

	if err := p.Store(ctx, "api-key"); err != nil {
		t.Fatalf("Store: %v", err)
	}

	raw, _ := slot.Get(ctx)
	if !strings.HasPrefix(raw, sealedPrefix) || strings.Contains(raw, "api-key") {
		t.Errorf("slot should hold a sealed value, got %q", raw)
	}
	if got, ok := p.Resolve(ctx); !ok || got != "api-key" {
		t.Errorf("Resolve: got %q, %v", got, ok)
	}

	// A different secret cannot open it.
	other := NewProvider(nil, slot, NewSealer("other"))
	if _, ok := other.Resolve(ctx); ok {
		t.Error("wrong secret should resolve as absent")
	}

	// No secret at all cannot open it either.
	plain := NewProvider(nil, slot, nil)
	if _, ok := plain.Resolve(ctx); ok {
		t.Error("missing secret should resolve as absent")
	}
}

func TestSealerOpen(t *testing.T) {
	s := NewSealer("k")

	if got, err := s.Open("legacy-plaintext"); err != nil || got != "legacy-plaintext" {
		t.Errorf("plaintext passthrough: got %q, %v", got, err)
	}
	if _, err := s.Open(sealedPrefix + "!!!"); !errors.Is(err, ErrUnseal) {
		t.Errorf("bad base64: got %v, want ErrUnseal", err)
	}
	if _, err := s.Open(sealedPrefix + "AAAA"); !errors.Is(err, ErrUnseal) {
		t.Errorf("short box: got %v, want ErrUnseal", err)
	}

	a, _ := s.Seal("same")
	b, _ := s.Seal("same")
	if a == b {
		t.Error("each seal should use a fresh nonce")
	}
}

func TestNewSealerEmptySecret(t *testing.T) {
	if NewSealer("") != nil {
		t.Error("empty secret should disable sealing")
	}
}
