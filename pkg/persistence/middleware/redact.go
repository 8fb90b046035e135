package middleware

import (
	"context"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
)

// Mask replaces redacted strings.
const Mask = "***"

// Field names an outcome field that can be redacted.
type Field string

const (
	FieldInput      Field = "input"
	FieldTape       Field = "tape"
	FieldFinalState Field = "final_state"
)

type redactMiddleware struct {
	next   ports.RunStore
	fields map[Field]bool
}

// NewRedactMiddleware creates a middleware that masks the given outcome fields
// before they reach the store. Without fields, input and tape are masked.
// Redaction is one-way: loaded runs carry the mask.
func NewRedactMiddleware(fields ...Field) Middleware {
	if len(fields) == 0 {
		fields = []Field{FieldInput, FieldTape}
	}
	set := make(map[Field]bool, len(fields))
	for _, f := range fields {
		set[Field(strings.ToLower(string(f)))] = true
	}
	return func(next ports.RunStore) ports.RunStore {
		return &redactMiddleware{next: next, fields: set}
	}
}

func (m *redactMiddleware) Save(ctx context.Context, run *domain.Run) error {
	// Copy so the caller's run keeps its values.
	cloned := *run
	if m.fields[FieldInput] {
		cloned.Outcome.Input = Mask
	}
	if m.fields[FieldTape] {
		cloned.Outcome.Tape = Mask
	}
	if m.fields[FieldFinalState] {
		cloned.Outcome.FinalState = Mask
	}
	return m.next.Save(ctx, &cloned)
}

func (m *redactMiddleware) Load(ctx context.Context, id string) (*domain.Run, error) {
	return m.next.Load(ctx, id)
}

func (m *redactMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *redactMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
