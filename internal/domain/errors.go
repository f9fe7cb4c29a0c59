package domain

import "fmt"

// FailureKind classifies adapter- and session-level failures. Everything
// below the dispatch router converts failures into these typed values; only
// programmer errors (invalid arguments) may escape as plain errors.
type FailureKind string

const (
	// FailureCapabilityUnavailable: a required OS tool is absent. Degrade,
	// do not fail the whole plan.
	FailureCapabilityUnavailable FailureKind = "capability_unavailable"
	// FailureProcessTimeout: an external call exceeded its bound.
	FailureProcessTimeout FailureKind = "process_timeout"
	// FailureProcessSpawn: a candidate launcher was missing or exited
	// immediately.
	FailureProcessSpawn FailureKind = "process_spawn"
	// FailureParse: OS tool output did not match the expected shape.
	FailureParse FailureKind = "parse"
	// FailurePlatformUnsupported: OS family is not one of the three known.
	FailurePlatformUnsupported FailureKind = "platform_unsupported"
)

// Failure is the typed error value used at component boundaries.
type Failure struct {
	Kind FailureKind
	Op   string
	Err  error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("%s: %s", f.Op, f.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", f.Op, f.Kind, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// NewFailure builds a Failure for operation op.
func NewFailure(kind FailureKind, op string, err error) *Failure {
	return &Failure{Kind: kind, Op: op, Err: err}
}
