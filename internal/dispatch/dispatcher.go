// Package dispatch turns any error raised by business code into the HTTP
// status and ErrorDetails record written back to the client.
//
// Dispatch is total: it never panics and always yields exactly one pair.
// Known kinds expose where the failure happened (the request context);
// anything else falls back to a generic 500 whose detail is the raw error
// text, unless redaction is enabled.
package dispatch

import (
	"fmt"
	"net/http"
	"time"

	"github.com/benbjohnson/clock"

	domainerrors "result-hub/internal/domain/errors"
)

const (
	// UnexpectedMessage is the client message for unclassified errors.
	UnexpectedMessage = "An unexpected error occurred"
	// RedactedDetail replaces the raw error text when redaction is on.
	RedactedDetail = "internal error"
)

// ErrorDetails is the wire record for a failed request.
type ErrorDetails struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Detail    string    `json:"detail"`
}

// Outcome carries the classification alongside the pair, for logging and
// metrics. Kind is zero for unclassified errors.
type Outcome struct {
	Status  int
	Details ErrorDetails
	Kind    domainerrors.Kind
}

// Classified reports whether the error matched a declared kind.
func (o Outcome) Classified() bool { return o.Kind.Valid() }

// Label is the metrics/log label for the outcome's kind.
func (o Outcome) Label() string {
	if o.Classified() {
		return o.Kind.String()
	}
	return "UNCLASSIFIED"
}

// Dispatcher holds no per-request state and is safe for concurrent use.
type Dispatcher struct {
	clock  clock.Clock
	redact bool
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c clock.Clock) Option {
	return func(d *Dispatcher) {
		if c != nil {
			d.clock = c
		}
	}
}

// WithRedaction hides the raw error text of unclassified errors from clients.
func WithRedaction(on bool) Option {
	return func(d *Dispatcher) { d.redact = on }
}

// New returns a Dispatcher using the real clock unless overridden.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{clock: clock.New()}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Dispatch classifies err and returns the status and record to send.
func (d *Dispatcher) Dispatch(err error, requestContext string) (int, ErrorDetails) {
	o := d.Classify(err, requestContext)
	return o.Status, o.Details
}

// Classify is Dispatch with the matched kind attached.
func (d *Dispatcher) Classify(err error, requestContext string) Outcome {
	now := d.clock.Now()

	if de, ok := findDomainError(err); ok {
		if status, known := de.Kind.Status(); known {
			return Outcome{
				Status:  status,
				Kind:    de.Kind,
				Details: ErrorDetails{Timestamp: now, Message: de.Message, Detail: requestContext},
			}
		}
	}

	detail := RedactedDetail
	if !d.redact {
		detail = rawMessage(err)
	}
	return Outcome{
		Status:  http.StatusInternalServerError,
		Details: ErrorDetails{Timestamp: now, Message: UnexpectedMessage, Detail: detail},
	}
}

// findDomainError is domainerrors.As with panics from the chain's Unwrap or
// As methods treated as "not found".
func findDomainError(err error) (de *domainerrors.DomainError, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			de, ok = nil, false
		}
	}()
	return domainerrors.As(err)
}

// RawMessage returns err's text without ever panicking.
func RawMessage(err error) string { return rawMessage(err) }

func rawMessage(err error) (msg string) {
	if err == nil {
		return ""
	}
	defer func() {
		if rec := recover(); rec != nil {
			msg = fmt.Sprintf("%T", err)
		}
	}()
	return err.Error()
}
