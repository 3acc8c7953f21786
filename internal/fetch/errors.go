// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// FetchError reports a transport failure or a non-success response from the
// search site or a paper page. For the listing fetch it is fatal to the job;
// for a single paper page it is converted into that item's failure summary.
type FetchError struct {
	// URL is the request that failed.
	URL string

	// Status is the HTTP status code when a response was received, zero
	// otherwise.
	Status int

	// Timeout marks deadline expiry; treated like any other fetch failure
	// for the affected item.
	Timeout bool

	// Err is the underlying transport error, if any.
	Err error
}

func (e *FetchError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("fetch %s: timed out", e.URL)
	case e.Status != 0:
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.Status)
	default:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports that fetched content could not be interpreted as text.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("parse %s: no readable text", e.URL)
}

func (e *ParseError) Unwrap() error { return e.Err }

// isTimeout reports whether err is a deadline or network timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
