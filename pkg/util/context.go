package util

import (
	"context"
)

type key string

const (
	versionKey = key("dataset-version")
	commandKey = key("command")
)

// WithRequestID returns a context with request id.
// A new id is generated when the given one is empty.
func WithRequestID(ctx context.Context, id string) context.Context {
	return ContextWithRequestID(ctx, id)
}

// WithVersion returns a context carrying the dataset version a command works on.
func WithVersion(ctx context.Context, version string) context.Context {
	return context.WithValue(ctx, versionKey, version)
}

// WithCommand returns a context carrying the running command name.
func WithCommand(ctx context.Context, command string) context.Context {
	return context.WithValue(ctx, commandKey, command)
}

// GetRequestID returns request id from context
// will return empty string if not present
func GetRequestID(ctx context.Context) string {
	return FromContext(ctx)
}

// GetVersion returns the dataset version from context
// will return empty string if not present
func GetVersion(ctx context.Context) string {
	v, _ := ctx.Value(versionKey).(string)
	return v
}

// GetCommand returns the command name from context
// will return empty string if not present
func GetCommand(ctx context.Context) string {
	c, _ := ctx.Value(commandKey).(string)
	return c
}
