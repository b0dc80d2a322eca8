package membuf

import (
	"fmt"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Kind classifies a fatal diagnostic. Kinds map 1:1 onto the package's
// sentinel errors so tests can match faults with errors.Is.
type Kind uint8

const (
	KindReinitialized Kind = iota + 1
	KindInvalidMemory
	KindInsufficientMemory
	KindUnimplemented
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindReinitialized:
		return "reinitialized_memory"
	case KindInvalidMemory:
		return "invalid_memory"
	case KindInsufficientMemory:
		return "insufficient_memory"
	case KindUnimplemented:
		return "unimplemented"
	case KindInternal:
		return "internal"
	}
	return "unknown"
}

// Err returns the sentinel error for the kind.
func (k Kind) Err() error {
	switch k {
	case KindReinitialized:
		return ErrReinitialized
	case KindInvalidMemory:
		return ErrInvalidMemory
	case KindInsufficientMemory:
		return ErrInsufficientMemory
	case KindUnimplemented:
		return ErrUnimplemented
	}
	return ErrInternal
}

// Fault is the panic value carried by the default fault policy. It wraps the
// kind's sentinel so errors.Is(f, membuf.ErrUnimplemented) works.
type Fault struct {
	Kind   Kind
	Reason string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%v: %s", f.Kind.Err(), f.Reason)
}

func (f *Fault) Unwrap() error { return f.Kind.Err() }

// Policy decides what happens after a fault has been logged. A policy must
// not return normally; if it does, Failf panics anyway.
type Policy func(*Fault)

// PanicOnFault panics with the fault. The default: loud, catchable in tests.
func PanicOnFault(f *Fault) {
	panic(f)
}

// AbortOnFault terminates the process. Intended for release builds where a
// corrupt buffer must not be allowed to limp onward.
func AbortOnFault(f *Fault) {
	os.Exit(2)
}

var (
	faultPolicy Policy     = PanicOnFault
	faultLogger log.Logger = log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
)

// SetFaultPolicy installs the policy invoked after a fault is logged.
// Passing nil restores the default PanicOnFault.
func SetFaultPolicy(p Policy) {
	if p == nil {
		p = PanicOnFault
	}
	faultPolicy = p
}

// SetFaultLogger replaces the logger faults are reported through.
func SetFaultLogger(l log.Logger) {
	if l == nil {
		l = log.NewNopLogger()
	}
	faultLogger = l
}

// Failf reports a fatal diagnostic: logs one structured record and invokes
// the installed policy. Never returns.
func Failf(k Kind, format string, args ...any) {
	f := &Fault{Kind: k, Reason: fmt.Sprintf(format, args...)}
	_ = level.Error(faultLogger).Log("fault", k.String(), "reason", f.Reason)
	faultPolicy(f)
	// The policy is contractually non-returning; enforce it.
	panic(f)
}
