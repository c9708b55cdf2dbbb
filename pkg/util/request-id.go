package util

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

const (
	contextKey = key("x-request-id")
)

// ContextWithRequestID returns a context with a request id
// It will generate new request id if the provided id is empty
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return context.WithValue(ctx, contextKey, Generate())
	}

	return context.WithValue(ctx, contextKey, id)
}

// Generate returns a uuid-v4 string to use as request or run id
func Generate() string {
	return uuid.NewString()
}

// GenerateHex returns a uuid-v4 without dashes, the shape used for tracking run ids
func GenerateHex() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// FromContext returns a request id from ctx if available
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey).(string)

	return id
}
