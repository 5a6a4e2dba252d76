// Package sources defines the contract every lien ingestion strategy
// implements, whether it scrapes a live auction platform or reads an
// uploaded file. The registry treats all adapters through this one
// interface; capability refinements are separate interfaces discovered by
// type assertion, so file adapters never carry session machinery they do
// not have.
package sources

import (
	"context"
	"fmt"
	"time"

	"lienterminal-backend/lib/lien"
)

// FetchOptions bounds one fetch call. There is no cancellation beyond the
// context: callers limit work via Limit and, for interactive sources, the
// configured session timeout.
type FetchOptions struct {
	// Limit caps the number of records fetched. Zero means the adapter's
	// default.
	Limit int
}

// Source is the capability contract shared by every adapter.
//
// Region validation happens at construction: an adapter that only serves a
// fixed set of regions rejects others with a *ConfigurationError before any
// I/O. Fetch returns an empty batch, not an error, when the source simply
// has no records; unrecoverable conditions surface as
// *SourceUnavailableError or *FormatError.
type Source interface {
	// Platform identifies the provenance tag stamped on produced records.
	Platform() lien.SourcePlatform
	// SubRegions enumerates the counties/municipalities this adapter can
	// serve, pure and side-effect-free. Empty when the adapter has no fixed
	// enumeration (file uploads).
	SubRegions() []string
	// Fetch produces one batch. It may suspend on I/O and must release any
	// session it acquires on every exit path.
	Fetch(ctx context.Context, opts FetchOptions) (lien.Batch, error)
}

// Interactive is implemented by adapters that drive a live session against a
// remote platform.
type Interactive interface {
	Source
	// SessionTimeout is the bound after which a fetch fails rather than
	// hang.
	SessionTimeout() time.Duration
}

// Static is implemented by adapters that read a fixed input and hold no
// session.
type Static interface {
	Source
	// InputLocator describes the input, a file path or name.
	InputLocator() string
}

// ConfigurationError reports an unsupported region or a missing required
// construction parameter. It is surfaced to the caller and never retried.
type ConfigurationError struct {
	Region    string
	Supported []string
	Reason    string
}

func (e *ConfigurationError) Error() string {
	if e.Region != "" {
		return fmt.Sprintf(
			"region %q %s (supported: %v)",
			e.Region, e.Reason, e.Supported,
		)
	}
	return e.Reason
}

// FormatError reports input that could not be parsed as any supported
// tabular format after exhausting fallbacks. Fatal for the ingestion call.
type FormatError struct {
	Locator string
	Err     error
}

func (e *FormatError) Error() string {
	if e.Locator != "" {
		return fmt.Sprintf("unreadable input %q: %v", e.Locator, e.Err)
	}
	return fmt.Sprintf("unreadable input: %v", e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// SourceUnavailableError reports a network or authentication failure against
// a live platform. It propagates to the caller; nothing here retries.
type SourceUnavailableError struct {
	Platform lien.SourcePlatform
	URL      string
	Err      error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable (%s): %v", e.Platform, e.URL, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}
