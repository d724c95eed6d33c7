package wordpress

// Outcome classifies a fetch so callers choose a fallback explicitly instead
// of receiving a silently zeroed value.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeEmpty
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeEmpty:
		return "empty"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the typed outcome of a single upstream fetch. Err is set only
// when Outcome is OutcomeFailed.
type Result[T any] struct {
	Value   T
	Outcome Outcome
	Err     error
}

// OK reports whether the fetch produced a usable, non-empty value.
func (r Result[T]) OK() bool { return r.Outcome == OutcomeOK }

func ok[T any](v T) Result[T] {
	return Result[T]{Value: v, Outcome: OutcomeOK}
}

func empty[T any]() Result[T] {
	return Result[T]{Outcome: OutcomeEmpty}
}

func failed[T any](err error) Result[T] {
	return Result[T]{Outcome: OutcomeFailed, Err: err}
}
