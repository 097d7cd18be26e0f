package repositories

import "fmt"

// ErrRunNotActive occurs when a terminal update targets a run that is no
// longer running in the store.
type ErrRunNotActive struct {
	RunID string
}

func (e ErrRunNotActive) Error() string {
	return fmt.Sprintf("analysis run %s is not running", e.RunID)
}
