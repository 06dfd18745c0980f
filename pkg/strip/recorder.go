package strip

import (
	"sync"

	"github.com/fcurrie/serpentine-led-golang/internal/types"
)

// Op names a driver call
type Op string

const (
	OpSet  Op = "set"
	OpShow Op = "show"
)

// Call is one recorded driver call
type Call struct {
	Op    Op
	Index int
	Color types.RGB
}

// Recorder is a Memory strip that also logs every call. Tests use it as
// the driver double; it can be told to fail.
type Recorder struct {
	*Memory

	mu    sync.Mutex
	calls []Call
	fail  error
}

// NewRecorder creates a recording strip of count elements
func NewRecorder(count int) *Recorder {
	return &Recorder{Memory: NewMemory(count)}
}

// SetElement records and stages one element
func (r *Recorder) SetElement(index int, red, green, blue uint8) error {
	if err := r.failure(); err != nil {
		return err
	}
	if err := r.Memory.SetElement(index, red, green, blue); err != nil {
		return err
	}
	r.record(Call{Op: OpSet, Index: index, Color: types.RGB{R: red, G: green, B: blue}})
	return nil
}

// Show records and shows the staged elements
func (r *Recorder) Show() error {
	if err := r.failure(); err != nil {
		return err
	}
	if err := r.Memory.Show(); err != nil {
		return err
	}
	r.record(Call{Op: OpShow, Index: -1})
	return nil
}

// FailWith makes every following SetElement and Show return err.
// A nil err restores normal operation.
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail = err
}

// Calls returns a copy of the call log
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Reset empties the call log
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

func (r *Recorder) failure() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fail
}

func (r *Recorder) record(c Call) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
}
