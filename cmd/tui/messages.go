package main

import "github.com/sevigo/hubmerge/internal/coordinator"

// runStartedMsg marks the background merge run's start. The run sends no
// intermediate progress; runCompleteMsg is the next message it produces.
type runStartedMsg struct{}

// runCompleteMsg carries the Coordinator's result, or the error it failed
// with.
type runCompleteMsg struct {
	out *coordinator.Output
	err error
}

// previewLoadedMsg carries the glamour-rendered preview of the primary
// text artifact, once the run has completed.
type previewLoadedMsg struct {
	rendered string
	err      error
}
