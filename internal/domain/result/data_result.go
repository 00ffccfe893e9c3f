package result

import (
	"encoding/json"
	"fmt"
)

// DataResult pairs a Result with an optional payload. HasData is false when no
// payload was attached, which is the convention for failures.
type DataResult[T any] struct {
	result  Result
	data    T
	hasData bool
}

// WithData attaches data to r. Code and message are copied, never recomputed.
func WithData[T any](r Result, data T) DataResult[T] {
	return DataResult[T]{result: r, data: data, hasData: true}
}

// NewDataResult builds a DataResult directly from a code, message and payload.
// The code is taken as given; use Failure first if it may be undeclared.
func NewDataResult[T any](code Code, message string, data T) DataResult[T] {
	return DataResult[T]{result: Result{code: code, message: message}, data: data, hasData: true}
}

// Empty wraps r without a payload.
func Empty[T any](r Result) DataResult[T] {
	return DataResult[T]{result: r}
}

// Result returns the envelope without the payload.
func (d DataResult[T]) Result() Result { return d.result }

func (d DataResult[T]) Code() Code      { return d.result.code }
func (d DataResult[T]) Message() string { return d.result.message }
func (d DataResult[T]) IsSuccess() bool { return IsSuccess(d.result) }
func (d DataResult[T]) Data() T         { return d.data }
func (d DataResult[T]) HasData() bool   { return d.hasData }

func (d DataResult[T]) String() string {
	return fmt.Sprintf("DataResult{data=%v, resultCode=%d, resultText=%q}", d.data, int(d.result.code), d.result.message)
}

type dataResultJSON[T any] struct {
	ResultCode Code   `json:"resultCode"`
	ResultText string `json:"resultText"`
	Data       *T     `json:"data,omitempty"`
}

// MarshalJSON writes {resultCode, resultText, data?}; data is omitted when
// nothing was attached.
func (d DataResult[T]) MarshalJSON() ([]byte, error) {
	w := dataResultJSON[T]{ResultCode: d.result.code, ResultText: d.result.message}
	if d.hasData {
		w.Data = &d.data
	}
	return json.Marshal(w)
}

func (d *DataResult[T]) UnmarshalJSON(b []byte) error {
	var w dataResultJSON[T]
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	d.result = Result{code: w.ResultCode, message: w.ResultText}
	if w.Data != nil {
		d.data, d.hasData = *w.Data, true
	}
	return nil
}
