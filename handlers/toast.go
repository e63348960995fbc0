package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/pocketbase/pocketbase/core"
)

// Toast is the notification raised on the client through the showToast
// event. Link is only set on conflict toasts and points at the record that
// already exists.
type Toast struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Link    string `json:"link,omitempty"`
}

const flashCookieName = "flash_toast"

// SetToast raises a toast of toastType ("success", "info", "warning",
// "error" or "conflict") on the response.
func SetToast(e *core.RequestEvent, toastType string, message string) {
	raiseToast(e, Toast{Message: message, Type: toastType})
}

// raiseToast adds t to HX-Trigger next to any events already triggered and
// leaves a copy in the flash cookie, so a toast set before a plain redirect
// shows on the page the browser lands on.
func raiseToast(e *core.RequestEvent, t Toast) {
	triggers := parseTriggers(e.Response.Header().Get("HX-Trigger"))
	triggers["showToast"] = t
	data, err := json.Marshal(triggers)
	if err != nil {
		log.Printf("toast: marshal HX-Trigger: %v", err)
		return
	}
	e.Response.Header().Set("HX-Trigger", string(data))

	flash, err := json.Marshal(t)
	if err != nil {
		return
	}
	http.SetCookie(e.Response, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(string(flash)),
		Path:     "/",
		MaxAge:   10,
		HttpOnly: false, // read by toast.js
		SameSite: http.SameSiteLaxMode,
	})
}

// parseTriggers reads an HX-Trigger value in either of its forms: a JSON
// object of events, or a comma separated list of event names.
func parseTriggers(header string) map[string]any {
	triggers := map[string]any{}
	header = strings.TrimSpace(header)
	if header == "" {
		return triggers
	}
	if strings.HasPrefix(header, "{") {
		if err := json.Unmarshal([]byte(header), &triggers); err == nil {
			return triggers
		}
		log.Printf("toast: dropping unreadable HX-Trigger %q", header)
		return map[string]any{}
	}
	for _, name := range strings.Split(header, ",") {
		if name = strings.TrimSpace(name); name != "" {
			triggers[name] = nil
		}
	}
	return triggers
}

// rejectWithToast answers statusCode with the toast message as body.
// HX-Reswap: none keeps the current view in place; the toast still fires.
func rejectWithToast(e *core.RequestEvent, statusCode int, t Toast) error {
	raiseToast(e, t)
	e.Response.Header().Set("HX-Reswap", "none")
	return e.String(statusCode, t.Message)
}

// ErrorToast reports a failure staff cannot fix from the page, such as a
// missing draft or a failed save.
func ErrorToast(e *core.RequestEvent, statusCode int, message string) error {
	return rejectWithToast(e, statusCode, Toast{Message: message, Type: "error"})
}

// WarningToast reports a problem staff can fix themselves, such as a
// missing price or an unreadable upload. Nothing was changed.
func WarningToast(e *core.RequestEvent, statusCode int, message string) error {
	return rejectWithToast(e, statusCode, Toast{Message: message, Type: "warning"})
}

// ConflictToast reports that the inquiry already has a quotation. The toast
// links to the existing one.
func ConflictToast(e *core.RequestEvent, message, link string) error {
	return rejectWithToast(e, http.StatusConflict, Toast{Message: message, Type: "conflict", Link: link})
}
