package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"sentinel/domain/notifications"
)

// ToastHandlers lets the page raise toasts for purely client-side actions
// such as copying a report to the clipboard.
type ToastHandlers struct {
	toasts Toaster
}

// NewToastHandlers creates the toast handlers.
func NewToastHandlers(toasts Toaster) *ToastHandlers {
	return &ToastHandlers{toasts: toasts}
}

type toastRequest struct {
	Message    string `json:"message"`
	Severity   string `json:"severity"`
	DurationMs *int   `json:"duration_ms"`
}

// Create shows a toast. Severity defaults to info and an omitted duration
// uses the manager's default; an explicit 0 exits at once.
func (h *ToastHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req toastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid toast request")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	severity := notifications.Severity(req.Severity)
	if severity == "" {
		severity = notifications.SeverityInfo
	}

	if req.DurationMs == nil {
		h.toasts.NotifyAs(req.Message, severity)
	} else {
		h.toasts.Notify(req.Message, severity, time.Duration(*req.DurationMs)*time.Millisecond)
	}
	w.WriteHeader(http.StatusAccepted)
}
