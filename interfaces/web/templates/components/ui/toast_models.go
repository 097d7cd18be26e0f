package ui

// ToastView is the view model for one toast element.
type ToastView struct {
	ID       string
	Message  string
	Severity string
	Glyph    string
	Exiting  bool
}

// ElementID is the DOM id shared by the show, exit and remove fragments.
func (v ToastView) ElementID() string {
	return "toast-" + v.ID
}

func (v ToastView) class() string {
	class := "toast toast-" + v.Severity
	if v.Exiting {
		class += " exiting"
	}
	return class
}

func (v ToastView) asExiting() ToastView {
	v.Exiting = true
	return v
}
