package query

// Status is the observable state of a read
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusError
	StatusSuccess
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusSuccess:
		return "success"
	}
	return "idle"
}

// Result is what a pane renders: a loading placeholder, an inline error, or data
type Result[T any] struct {
	Status Status
	Data   T
	Err    error
}

// Pending is a result whose request is in flight
func Pending[T any]() Result[T] {
	return Result[T]{Status: StatusLoading}
}

// Failed carries an error message
func Failed[T any](err error) Result[T] {
	return Result[T]{Status: StatusError, Err: err}
}

// Done carries data
func Done[T any](v T) Result[T] {
	return Result[T]{Status: StatusSuccess, Data: v}
}

// From builds Done or Failed from a call's return values
func From[T any](v T, err error) Result[T] {
	if err != nil {
		return Failed[T](err)
	}
	return Done(v)
}

func (r Result[T]) Loading() bool { return r.Status == StatusLoading }
func (r Result[T]) Ok() bool      { return r.Status == StatusSuccess }

// Message is the error text, empty unless Status is StatusError
func (r Result[T]) Message() string {
	if r.Status != StatusError || r.Err == nil {
		return ""
	}
	return r.Err.Error()
}
