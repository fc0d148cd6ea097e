package input

import (
	"context"

	"labelbot/internal/domain/entities"
)

// TextRenderer is the caller-facing render contract. Adapters (command
// handlers, schedulers, web views) depend on this port rather than on the
// application service directly.
type TextRenderer interface {
	// Render resolves and formats the label derived from defaultText.
	Render(ctx context.Context, namespace, category, defaultText string, rctx entities.RenderContext, args ...any) (string, error)

	// RenderKey is the explicit-key variant, for callers that manage their
	// own keys and need collision-free naming.
	RenderKey(ctx context.Context, namespace, key, defaultText string, rctx entities.RenderContext, args ...any) (string, error)

	// Raw formats defaultText directly against args, with no key derivation
	// and no store interaction. For text that must never be templated.
	Raw(defaultText string, rctx entities.RenderContext, args ...any) (string, error)
}
