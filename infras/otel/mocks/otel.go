package mocks

import (
	"context"

	"wsb/infras/otel"
)

// noop satisfies both otel.Otel and otel.Scope without recording anything.
type noop struct{}

func (noop) NewScope(ctx context.Context, _, _ string) (context.Context, otel.Scope) {
	return ctx, noop{}
}

func (noop) Shutdown(context.Context) error { return nil }

func (noop) End() {}
func (noop) TraceError(error) {}
func (noop) TraceIfError(error) {}
func (noop) AddEvent(string) {}
func (noop) SetAttribute(string, any) {}
func (noop) SetAttributes(map[string]any) {}

func NewOtel() otel.Otel {
	return noop{}
}

func NewScope() otel.Scope {
	return noop{}
}
