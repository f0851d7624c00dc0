package core

import "sync/atomic"

// FaultSignal is the process-wide flag used to halt the pipeline on the
// first unrecoverable error.
//
// The flag is sticky within one run: once set it stays set until the
// orchestrator performs a full stop and an explicit Reset. Any stage may
// set it; only the orchestrator's idle loop acts on it.
type FaultSignal struct {
	set atomic.Bool
}

// NewFaultSignal creates a cleared fault signal.
func NewFaultSignal() *FaultSignal {
	return &FaultSignal{}
}

// Set marks the signal. Setting an already-set signal is a no-op.
func (f *FaultSignal) Set() {
	f.set.Store(true)
}

// IsSet reports whether the signal has been set.
func (f *FaultSignal) IsSet() bool {
	return f.set.Load()
}

// Reset clears the signal. Called only by the orchestrator after a full
// stop; stages never clear the signal themselves.
func (f *FaultSignal) Reset() {
	f.set.Store(false)
}
