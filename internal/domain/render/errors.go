package render

import "errors"

// ErrUnknownMark is returned when an event targets a mark that is not
// visible.
var ErrUnknownMark = errors.New("mark is not rendered")
