package application

import (
	"context"

	"golang.org/x/text/language"

	"labelbot/internal/domain/entities"
	"labelbot/internal/domain/pattern"
	"labelbot/internal/ports/input"
)

// Ensure Renderer implements the input.TextRenderer port.
var _ input.TextRenderer = (*Renderer)(nil)

// Renderer orchestrates the full pipeline: derive identifier, resolve the
// stored pattern, format it against the argument list.
type Renderer struct {
	engine *ResolutionEngine
	cache  pattern.Cache
}

func NewRenderer(engine *ResolutionEngine) *Renderer {
	return &Renderer{engine: engine}
}

// Render resolves the label derived from (namespace, category, defaultText)
// and formats the chosen pattern against args for the request context.
func (r *Renderer) Render(ctx context.Context, namespace, category, defaultText string, rctx entities.RenderContext, args ...any) (string, error) {
	id, err := DeriveKey(namespace, category, defaultText, "")
	if err != nil {
		return "", err
	}
	return r.finish(ctx, id, defaultText, rctx, args)
}

// RenderKey renders under a caller-supplied key, bypassing derivation. The
// caller asserts the key is unique within the namespace.
func (r *Renderer) RenderKey(ctx context.Context, namespace, key, defaultText string, rctx entities.RenderContext, args ...any) (string, error) {
	id, err := DeriveKey(namespace, "", defaultText, key)
	if err != nil {
		return "", err
	}
	return r.finish(ctx, id, defaultText, rctx, args)
}

// Raw formats defaultText directly against args: no key derivation, no store
// interaction. This is the escape hatch for text that must never be
// templated or translated. Raw patterns are parsed per call and kept out of
// the compiled cache, since interpolated texts are unbounded in number.
func (r *Renderer) Raw(defaultText string, rctx entities.RenderContext, args ...any) (string, error) {
	compiled, err := pattern.Parse(defaultText)
	if err != nil {
		return "", err
	}
	return compiled.Render(args, parseLocale(rctx.Locale))
}

func (r *Renderer) finish(ctx context.Context, id entities.Identifier, defaultText string, rctx entities.RenderContext, args []any) (string, error) {
	resolved, err := r.engine.Resolve(ctx, id, defaultText, rctx)
	if err != nil {
		return "", err
	}
	compiled, err := r.cache.Get(resolved.Pattern)
	if err != nil {
		return "", err
	}
	return compiled.Render(args, parseLocale(rctx.Locale))
}

// parseLocale maps a locale string to a language tag, falling back to
// English when it does not parse.
func parseLocale(locale string) language.Tag {
	tag, err := language.Parse(locale)
	if err != nil {
		return language.English
	}
	return tag
}
