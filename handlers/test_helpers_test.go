package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sheetquote/config"
	"sheetquote/services"
	"sheetquote/testhelpers"
)

const testSession = "11111111-2222-3333-4444-555555555555"

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

// newTestDeps returns handler dependencies on a fresh test app with the
// clock fixed at 10 Mar 2026.
func newTestDeps(t *testing.T) *Deps {
	t.Helper()
	app := testhelpers.NewTestApp(t)
	d := NewDeps(app, config.Default())
	d.Now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }
	return d
}

// newRequest builds a request in testSession. A non-nil form is sent
// url-encoded. htmx marks it as an HTMX request.
func newRequest(method, target string, form url.Values, htmx bool) *http.Request {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	return req.WithContext(context.WithValue(req.Context(), SessionIDKey, testSession))
}

// newUploadRequest builds a multipart request carrying one "file" field.
func newUploadRequest(t *testing.T, target, fileName, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("HX-Request", "true")
	return req.WithContext(context.WithValue(req.Context(), SessionIDKey, testSession))
}

// serve runs h for req with the given path values and returns the recorder.
func serve(t *testing.T, d *Deps, h func(*core.RequestEvent) error, req *http.Request, pathValues ...string) *httptest.ResponseRecorder {
	t.Helper()
	for i := 0; i+1 < len(pathValues); i += 2 {
		req.SetPathValue(pathValues[i], pathValues[i+1])
	}
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(d.App, req, rec)
	if err := h(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

// putDraft stores a manual draft owned by testSession for the inquiries.
func putDraft(t *testing.T, d *Deps, inquiryIDs []string, parts ...services.PartLine) string {
	t.Helper()
	q := services.NewQuotationDraft(d.Drafts.NewID(), inquiryIDs, parts, services.DraftOptions{
		Terms:        d.Config.Quote.DefaultTerms,
		ValidityDays: d.Config.Quote.ValidityDays,
		Now:          d.Now(),
	})
	q.Owner = testSession
	return d.Drafts.Put(q)
}

func viewDraft(t *testing.T, d *Deps, id string) services.QuotationDraft {
	t.Helper()
	var out services.QuotationDraft
	if err := d.Drafts.View(id, func(q *services.QuotationDraft) {
		out = *q
		out.Parts = append([]services.PartLine(nil), q.Parts...)
	}); err != nil {
		t.Fatalf("view draft %s: %v", id, err)
	}
	return out
}

// readToast decodes the showToast event from the HX-Trigger header.
func readToast(t *testing.T, rec *httptest.ResponseRecorder) Toast {
	t.Helper()
	var triggers struct {
		ShowToast Toast `json:"showToast"`
	}
	header := rec.Header().Get("HX-Trigger")
	if header == "" {
		return Toast{}
	}
	if err := json.Unmarshal([]byte(header), &triggers); err != nil {
		t.Fatalf("HX-Trigger %q is not valid JSON: %v", header, err)
	}
	return triggers.ShowToast
}

func toastType(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return readToast(t, rec).Type
}
