package editor

import (
	"github.com/rs/zerolog"

	"github.com/dhollis/scribe/internal/surface/reconcile"
)

// Option configures an Editor during creation.
type Option func(*Editor)

// WithHistoryLimit caps the undo ring. Non-positive values keep the
// default.
func WithHistoryLimit(limit int) Option {
	return func(e *Editor) {
		if limit > 0 {
			e.historyLimit = limit
		}
	}
}

// WithLineBreaks controls whether extracted text keeps newlines. When
// disabled, every newline a user edit produces is stripped.
func WithLineBreaks(allow bool) Option {
	return func(e *Editor) {
		e.allowLineBreaks = allow
	}
}

// WithLogger sets the structured logger. The default discards
// everything.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Editor) {
		e.log = log
	}
}

// WithHooks attaches the reconciler's collaborator callbacks.
func WithHooks(h reconcile.Hooks) Option {
	return func(e *Editor) {
		e.hooks = h
	}
}

// WithChangeHandler registers the content-change callback.
func WithChangeHandler(fn ChangeHandler) Option {
	return func(e *Editor) {
		e.onChange = fn
	}
}

// WithCursorHandler registers the cursor-move callback.
func WithCursorHandler(fn CursorHandler) Option {
	return func(e *Editor) {
		e.onCursor = fn
	}
}
