// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"context"
	"testing"
)

func TestContextKeyString(t *testing.T) {
	key := contextKey("testKey")
	if key.String() != "testKey" {
		t.Errorf("expected 'testKey', got '%s'", key.String())
	}
}

func TestGetSessionTokenFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), SessionTokenCtxKey, 42)

	if _, ok := GetSessionTokenFromContext(ctx); ok {
		t.Error("expected ok=false for wrong type")
	}
}

func TestGetSessionTokenFromContext(t *testing.T) {
	tests := []struct {
		name   string
		ctx    context.Context
		want   string
		wantOK bool
	}{
		{name: "present", ctx: WithSessionToken(context.Background(), "abc"), want: "abc", wantOK: true},
		{name: "empty", ctx: WithSessionToken(context.Background(), ""), wantOK: false},
		{name: "missing", ctx: context.Background(), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := GetSessionTokenFromContext(tt.ctx)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if ok && got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
