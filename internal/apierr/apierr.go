// Package apierr classifies errors from the remote study API so callers can
// tell an intentional cancellation apart from a real failure.
package apierr

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

// IsCanceled reports whether err was caused by an aborted request rather
// than a genuine failure. Cancellations are silently ignored everywhere:
// no error state, no retry, no user-visible message.
func IsCanceled(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	// url.Error wraps the context error on in-flight request abort, but older
	// transports can lose the chain, so check the embedded error too.
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return errors.Is(uerr.Err, context.Canceled)
	}
	return false
}

// Message extracts a human-readable message from an arbitrary recovered or
// returned value. It always produces a string, even for non-error values.
func Message(v any) string {
	switch e := v.(type) {
	case nil:
		return "unknown error"
	case error:
		return e.Error()
	case string:
		if e == "" {
			return "unknown error"
		}
		return e
	default:
		return fmt.Sprintf("%v", v)
	}
}
