package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/hook"
)

func TestGetSessionID_FromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), SessionIDKey, "s1"))
	if got := GetSessionID(req); got != "s1" {
		t.Errorf("GetSessionID() = %q, want s1", got)
	}
}

func TestGetSessionID_NotInContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetSessionID(req); got != "" {
		t.Errorf("expected empty session, got %q", got)
	}
}

// runMiddleware calls mw with next as the rest of the chain.
func runMiddleware(t *testing.T, mw func(*core.RequestEvent) error, req *http.Request, next func(*core.RequestEvent) error) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e := &core.RequestEvent{}
	e.Request = req
	e.Response = rec

	chain := &hook.Hook[*core.RequestEvent]{}
	chain.BindFunc(mw)
	chain.BindFunc(next)
	if err := chain.Trigger(e); err != nil {
		t.Fatalf("middleware error: %v", err)
	}
	return rec
}

func TestSessionMiddleware_IssuesCookie(t *testing.T) {
	var seen string
	rec := runMiddleware(t, SessionMiddleware(), httptest.NewRequest(http.MethodGet, "/", nil), func(e *core.RequestEvent) error {
		seen = GetSessionID(e.Request)
		return nil
	})

	if seen == "" {
		t.Fatal("no session id in context")
	}
	cookie := rec.Header().Get("Set-Cookie")
	if !strings.Contains(cookie, "staff_session="+seen) {
		t.Errorf("Set-Cookie = %q, want staff_session=%s", cookie, seen)
	}
}

func TestSessionMiddleware_ReusesCookie(t *testing.T) {
	const id = "6f1c2a9e-3b7d-4c1a-9d1e-2b3c4d5e6f70"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "staff_session", Value: id})

	var seen string
	rec := runMiddleware(t, SessionMiddleware(), req, func(e *core.RequestEvent) error {
		seen = GetSessionID(e.Request)
		return nil
	})
	if seen != id {
		t.Errorf("session = %q, want %q", seen, id)
	}
	if rec.Header().Get("Set-Cookie") != "" {
		t.Error("an existing session should not be reissued")
	}
}

func TestSessionMiddleware_RejectsGarbageCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "staff_session", Value: "not-a-uuid"})

	var seen string
	runMiddleware(t, SessionMiddleware(), req, func(e *core.RequestEvent) error {
		seen = GetSessionID(e.Request)
		return nil
	})
	if seen == "not-a-uuid" || seen == "" {
		t.Errorf("session = %q, want a fresh id", seen)
	}
}

func TestBodyLimitMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 100)))
	var readErr error
	runMiddleware(t, BodyLimitMiddleware(10), req, func(e *core.RequestEvent) error {
		_, readErr = io.ReadAll(e.Request.Body)
		return nil
	})
	if readErr == nil {
		t.Error("expected reading past the limit to fail")
	}
}
