package presenters

import (
	"context"
	"strings"

	"github.com/a-h/templ"

	"sentinel/domain/notifications"
	"sentinel/interfaces/web/templates/components/ui"
)

// ToastPresenter handles toast notification view logic and formatting.
type ToastPresenter struct{}

// NewToastPresenter creates a new toast presenter.
func NewToastPresenter() *ToastPresenter {
	return &ToastPresenter{}
}

// ToView transforms a toast into its view model.
func (p *ToastPresenter) ToView(toast notifications.Toast) ui.ToastView {
	severity := toast.Severity
	if !severity.IsKnown() {
		severity = notifications.SeverityInfo
	}
	return ui.ToastView{
		ID:       toast.ID,
		Message:  toast.Message,
		Severity: string(severity),
		Glyph:    toast.Glyph(),
		Exiting:  toast.Exiting,
	}
}

// FormatToast renders the fragment appended when a toast is shown.
func (p *ToastPresenter) FormatToast(toast notifications.Toast) (string, error) {
	return renderToString(ui.Toast(p.ToView(toast)))
}

// FormatToastExit renders the out-of-band swap that starts the exit transition.
func (p *ToastPresenter) FormatToastExit(toast notifications.Toast) (string, error) {
	return renderToString(ui.ToastExit(p.ToView(toast)))
}

// FormatToastRemove renders the out-of-band delete of the toast element.
func (p *ToastPresenter) FormatToastRemove(toast notifications.Toast) (string, error) {
	return renderToString(ui.ToastRemove(p.ToView(toast)))
}

func renderToString(component templ.Component) (string, error) {
	var buf strings.Builder
	if err := component.Render(context.Background(), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
