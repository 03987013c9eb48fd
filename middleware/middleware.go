package middleware

import (
	"context"

	"github.com/reoring/schemadoc"
)

// ctxKeyDocument is a typed context key for storing the validated document.
type ctxKeyDocument struct{}

// ContextWithDocument attaches a document to the context.
func ContextWithDocument(ctx context.Context, d *schemadoc.Document) context.Context {
	return context.WithValue(ctx, ctxKeyDocument{}, d)
}

// DocumentFromContext retrieves the document stored by Validate.
func DocumentFromContext(ctx context.Context) (*schemadoc.Document, bool) {
	d, ok := ctx.Value(ctxKeyDocument{}).(*schemadoc.Document)
	return d, ok && d != nil
}

// ErrorPayload shapes failed validations for JSON responses.
func ErrorPayload(fvs schemadoc.FailedValidations) map[string]any {
	return map[string]any{"failed_validations": fvs}
}
