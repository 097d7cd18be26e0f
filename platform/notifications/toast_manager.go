package notifications

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"sentinel/domain/notifications"
	"sentinel/logging"
	"sentinel/platform/clock"
)

const (
	// DefaultDuration is how long a toast stays before its exit transition.
	DefaultDuration = 4000 * time.Millisecond

	// ExitGrace is the time between the start of the exit transition and
	// removal, long enough for the exit animation to play.
	ExitGrace = 300 * time.Millisecond
)

// Surface is the display target toasts are written into. The manager calls
// ShowToast once per toast, then BeginToastExit, then RemoveToast.
type Surface interface {
	ShowToast(toast notifications.Toast)
	BeginToastExit(toast notifications.Toast)
	RemoveToast(toast notifications.Toast)
}

// ToastManager owns the ordered set of visible toasts. Each toast has its
// own pair of timers (exit, then removal); toasts never affect each other.
// There is no cap, no deduplication and no early dismissal.
type ToastManager struct {
	mu              sync.Mutex
	toasts          []*notifications.Toast
	surface         Surface
	clock           clock.Clock
	defaultDuration time.Duration
	logger          *logging.Logger
}

// NewToastManager creates a manager writing into surface. The surface must
// be usable for the lifetime of the manager.
func NewToastManager(surface Surface, clk clock.Clock) *ToastManager {
	return &ToastManager{
		surface:         surface,
		clock:           clk,
		defaultDuration: DefaultDuration,
		logger:          logging.Default().WithComponent("toast_manager"),
	}
}

// SetDefaultDuration changes the duration used by NotifyDefault, NotifyAs
// and the severity helpers. Non-positive values are ignored.
func (m *ToastManager) SetDefaultDuration(d time.Duration) {
	if d <= 0 {
		return
	}
	m.mu.Lock()
	m.defaultDuration = d
	m.mu.Unlock()
}

// Notify shows message immediately and schedules its exit after duration
// and its removal ExitGrace later. A zero duration starts the exit at once;
// negative durations count as zero.
func (m *ToastManager) Notify(message string, severity notifications.Severity, duration time.Duration) {
	if duration < 0 {
		duration = 0
	}
	m.show(message, severity, duration)
}

// NotifyAs shows message with the given severity for the default duration.
func (m *ToastManager) NotifyAs(message string, severity notifications.Severity) {
	m.show(message, severity, -1)
}

// show creates and schedules a toast. A negative duration selects the
// default under the lock.
func (m *ToastManager) show(message string, severity notifications.Severity, duration time.Duration) {
	m.mu.Lock()
	if duration < 0 {
		duration = m.defaultDuration
	}
	toast := &notifications.Toast{
		ID:        uuid.NewString(),
		Message:   message,
		Severity:  severity,
		CreatedAt: m.clock.Now(),
		Duration:  duration,
	}
	m.toasts = append(m.toasts, toast)
	snapshot := *toast
	m.mu.Unlock()

	if !severity.IsKnown() {
		m.logger.Debug("Unknown toast severity, using info glyph", "severity", severity)
	}
	m.logger.Debug("Toast shown", "toast_id", toast.ID, "severity", severity, "duration_ms", duration.Milliseconds())

	m.surface.ShowToast(snapshot)
	m.clock.AfterFunc(duration, func() { m.beginExit(toast) })
}

// NotifyDefault shows an info toast with the default duration.
func (m *ToastManager) NotifyDefault(message string) {
	m.NotifyAs(message, notifications.SeverityInfo)
}

// Info is NotifyDefault.
func (m *ToastManager) Info(message string) {
	m.NotifyDefault(message)
}

// Success shows a success toast with the default duration.
func (m *ToastManager) Success(message string) {
	m.NotifyAs(message, notifications.SeveritySuccess)
}

// Warning shows a warning toast with the default duration.
func (m *ToastManager) Warning(message string) {
	m.NotifyAs(message, notifications.SeverityWarning)
}

// Error shows an error toast with the default duration.
func (m *ToastManager) Error(message string) {
	m.NotifyAs(message, notifications.SeverityError)
}

// Visible returns the toasts currently in the container, oldest first.
// Exiting toasts are included until they are removed.
func (m *ToastManager) Visible() []notifications.Toast {
	m.mu.Lock()
	defer m.mu.Unlock()

	visible := make([]notifications.Toast, len(m.toasts))
	for i, toast := range m.toasts {
		visible[i] = *toast
	}
	return visible
}

func (m *ToastManager) beginExit(toast *notifications.Toast) {
	m.mu.Lock()
	toast.Exiting = true
	snapshot := *toast
	m.mu.Unlock()

	m.surface.BeginToastExit(snapshot)
	m.clock.AfterFunc(ExitGrace, func() { m.remove(toast) })
}

func (m *ToastManager) remove(toast *notifications.Toast) {
	m.mu.Lock()
	removed := false
	for i, t := range m.toasts {
		if t == toast {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			removed = true
			break
		}
	}
	snapshot := *toast
	m.mu.Unlock()

	if !removed {
		return
	}
	m.surface.RemoveToast(snapshot)
	m.logger.Debug("Toast removed", "toast_id", toast.ID)
}
