// Package trace records native graphics calls.
//
// A Recorder stands in for a native graphics API: backends issue their calls
// into it instead of a driver. Every call is counted and logged at debug
// level. A retaining recorder also keeps the calls for inspection; tests use
// one to compare recorded sequences across backends and binding modes.
package trace

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Call is one recorded native call.
type Call struct {
	Func string
	Args []any
}

// String formats the call as Func(arg, arg).
func (c Call) String() string {
	var sb strings.Builder
	sb.WriteString(c.Func)
	sb.WriteByte('(')
	for i, a := range c.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprint(&sb, a)
	}
	sb.WriteByte(')')
	return sb.String()
}

// Recorder is a native call sink. It is safe for concurrent use.
type Recorder struct {
	api  string
	log  *slog.Logger
	keep bool

	mu     sync.Mutex
	calls  []Call
	n      int
	handle uint32
}

// NewRecorder returns a recorder for the named native API that keeps every
// call. A nil logger disables logging.
func NewRecorder(api string, log *slog.Logger) *Recorder {
	return &Recorder{api: api, log: log, keep: true}
}

// NewCounter returns a recorder that counts and logs calls without keeping
// them. Its memory use does not grow with the number of calls.
func NewCounter(api string, log *slog.Logger) *Recorder {
	return &Recorder{api: api, log: log}
}

// API returns the native API name.
func (r *Recorder) API() string { return r.api }

// Retains reports whether r keeps the calls it records.
func (r *Recorder) Retains() bool { return r.keep }

// Record counts a call and keeps it when r retains calls.
func (r *Recorder) Record(fn string, args ...any) {
	c := Call{Func: fn, Args: args}
	r.mu.Lock()
	r.n++
	if r.keep {
		r.calls = append(r.calls, c)
	}
	r.mu.Unlock()

	if r.log != nil && r.log.Enabled(context.Background(), slog.LevelDebug) {
		r.log.Debug("native call", "api", r.api, "call", c.String())
	}
}

// NewHandle returns a fresh non-zero native object handle.
func (r *Recorder) NewHandle() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handle++
	return r.handle
}

// Len returns the number of calls recorded since the last Reset, kept or not.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}

// Calls returns a copy of the kept calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Strings returns the recorded calls formatted with Call.String.
func (r *Recorder) Strings() []string {
	calls := r.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}

// Filter returns the recorded calls to any of fns, in order.
func (r *Recorder) Filter(fns ...string) []Call {
	var out []Call
	for _, c := range r.Calls() {
		for _, fn := range fns {
			if c.Func == fn {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// Count returns how many calls to fn were recorded.
func (r *Recorder) Count(fn string) int { return len(r.Filter(fn)) }

// Reset discards the recorded calls. Handles keep increasing.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.calls = r.calls[:0]
	r.n = 0
	r.mu.Unlock()
}
