package core

import "errors"

// Sentinel errors classified by kind. The Coordinator is the
// single place that decides which of these is a per-file diagnostic versus
// a fatal run failure (errors.Is against these, never type assertions).
var (
	// ErrSandboxViolation marks a path that escaped its repo root, or an
	// unreadable repo root directory. Aborts the current repo's scan only.
	ErrSandboxViolation = errors.New("sandbox violation: path escapes repo root")

	// ErrUnknownVocabulary marks a category or tag outside the closed
	// vocabulary. Never substituted silently — always surfaced.
	ErrUnknownVocabulary = errors.New("value outside closed vocabulary")

	// ErrRenderInvariant marks a broken Renderer invariant (missing
	// required section, duplicate anchor). Fatal for the entire run.
	ErrRenderInvariant = errors.New("renderer invariant violated")

	// ErrSplitFailure marks a Splitter failure (rename failed, partial
	// flush). Fatal; caller must clean up the reported partial path.
	ErrSplitFailure = errors.New("splitter failed to finalize a part")

	// ErrSidecarInvalid marks a sidecar that failed structural validation.
	// Fatal; the run produced no sidecar and must not advertise the text
	// report as canonical-for-agents.
	ErrSidecarInvalid = errors.New("sidecar failed structural validation")

	// ErrPostWriteVerification marks an advertised output file that is
	// missing or empty after write completion. Fatal.
	ErrPostWriteVerification = errors.New("post-write verification failed")
)
