// Package result holds the envelope every operation returns: a machine-readable
// code, a human message and, for DataResult, a payload.
package result

import (
	"encoding/json"
	"fmt"
)

// Code is the machine-readable outcome of an operation. Only the constants
// declared below are valid; zero means success.
type Code int

const (
	CodeSuccess         Code = 0
	CodeServerError     Code = 1
	CodeValidationError Code = 2
	CodeNotFound        Code = 3
	CodeBadRequest      Code = 4
	CodeFailure         Code = 5
)

var defaultMessages = map[Code]string{
	CodeSuccess:         "OK",
	CodeServerError:     "SERVER ERROR",
	CodeValidationError: "VALIDATION ERROR",
	CodeNotFound:        "RESOURCE NOT FOUND",
	CodeBadRequest:      "BAD REQUEST",
	CodeFailure:         "FAILURE",
}

// Valid reports whether c is one of the declared codes.
func (c Code) Valid() bool {
	_, ok := defaultMessages[c]
	return ok
}

// DefaultMessage returns the canonical text for c, or the failure text for
// an undeclared code.
func (c Code) DefaultMessage() string {
	if msg, ok := defaultMessages[c]; ok {
		return msg
	}
	return defaultMessages[CodeFailure]
}

func (c Code) String() string {
	return fmt.Sprintf("%d(%s)", int(c), c.DefaultMessage())
}

// Result is an immutable outcome. Fields are unexported so a Result can only
// be built through the constructors in this package.
type Result struct {
	code    Code
	message string
}

// Predeclared envelopes carrying the default message of each code.
var (
	SuccessResult         = Result{code: CodeSuccess, message: defaultMessages[CodeSuccess]}
	ServerErrorResult     = Result{code: CodeServerError, message: defaultMessages[CodeServerError]}
	ValidationErrorResult = Result{code: CodeValidationError, message: defaultMessages[CodeValidationError]}
	NotFoundResult        = Result{code: CodeNotFound, message: defaultMessages[CodeNotFound]}
	BadRequestResult      = Result{code: CodeBadRequest, message: defaultMessages[CodeBadRequest]}
	FailureResult         = Result{code: CodeFailure, message: defaultMessages[CodeFailure]}
)

// Success returns a success envelope. The first non-empty message, if any,
// replaces the default "OK".
func Success(message ...string) Result {
	return Result{code: CodeSuccess, message: pick(CodeSuccess, message)}
}

// Failure returns a failure envelope for code. The success code and
// undeclared codes are coerced to CodeFailure so a failure never reads as
// success.
func Failure(code Code, message ...string) Result {
	if code == CodeSuccess || !code.Valid() {
		code = CodeFailure
	}
	return Result{code: code, message: pick(code, message)}
}

// Show returns a copy of base carrying a custom message.
func Show(base Result, message string) Result {
	return Result{code: base.code, message: message}
}

// IsSuccess is the only predicate callers should branch on.
func IsSuccess(r Result) bool { return r.code == CodeSuccess }

func (r Result) Code() Code      { return r.code }
func (r Result) Message() string { return r.message }
func (r Result) IsSuccess() bool { return IsSuccess(r) }

func (r Result) String() string {
	return fmt.Sprintf("Result{resultCode=%d, resultText=%q}", int(r.code), r.message)
}

type resultJSON struct {
	ResultCode Code   `json:"resultCode"`
	ResultText string `json:"resultText"`
}

// MarshalJSON writes the wire shape {resultCode, resultText}.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultJSON{ResultCode: r.code, ResultText: r.message})
}

func (r *Result) UnmarshalJSON(b []byte) error {
	var w resultJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	r.code, r.message = w.ResultCode, w.ResultText
	return nil
}

func pick(code Code, message []string) string {
	for _, m := range message {
		if m != "" {
			return m
		}
	}
	return code.DefaultMessage()
}
