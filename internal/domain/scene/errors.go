package scene

import (
	"errors"
	"fmt"
)

// ErrSetup is the kind of every SetupError.
var ErrSetup = errors.New("scene setup failed")

// SetupError reports a fatal problem found while preparing the scene.
type SetupError struct {
	Component string
	Reason    string
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrSetup, e.Component, e.Reason)
}

// Unwrap returns ErrSetup.
func (e *SetupError) Unwrap() error { return ErrSetup }
