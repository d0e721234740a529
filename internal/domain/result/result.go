// Package result provides the two-variant outcome used instead of panics
// or bare error returns for expected business outcomes. A Result either
// holds a value or a typed domain error; the error kind stays discoverable
// with errors.Is.
package result

// Result is a Success/Failure outcome of a use case
type Result[T any] struct {
	value T
	err   error
	ok    bool
}

// Ok creates a successful result carrying a value
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value, ok: true}
}

// Fail creates a failed result carrying a domain error
func Fail[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// IsOk returns true for a success
func (r Result[T]) IsOk() bool {
	return r.ok
}

// IsFailure returns true for a failure
func (r Result[T]) IsFailure() bool {
	return !r.ok
}

// Value returns the carried value; zero value on failure
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the carried error; nil on success
func (r Result[T]) Err() error {
	return r.err
}

// Unpack returns the value and error as an ordinary Go pair
func (r Result[T]) Unpack() (T, error) {
	return r.value, r.err
}
