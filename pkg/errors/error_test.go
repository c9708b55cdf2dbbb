package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracerFromError(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		assertFn func(t *testing.T, tracer *ErrorTracer)
	}{
		{
			name: "plain error gets a stack",
			err:  stderrors.New("boom"),
			assertFn: func(t *testing.T, tracer *ErrorTracer) {
				assert.Equal(t, "boom", tracer.Error())
				assert.NotNil(t, tracer.StackTrace())
			},
		},
		{
			name: "tracer is returned unchanged",
			err:  NewTracer("already traced"),
			assertFn: func(t *testing.T, tracer *ErrorTracer) {
				assert.Equal(t, "already traced", tracer.Error())
				assert.Nil(t, tracer.Err)
			},
		},
		{
			name: "details stay reachable through the chain",
			err:  NewErrorDetails("nothing to do", string(DatasetNoDataError), "version"),
			assertFn: func(t *testing.T, tracer *ErrorTracer) {
				assert.True(t, ErrorCodeEquals(tracer, string(DatasetNoDataError)))
				assert.False(t, ErrorCodeEquals(tracer, string(GeneralNotFoundError)))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.assertFn(t, TracerFromError(tc.err))
		})
	}
}

func TestErrorTracer_Wrap(t *testing.T) {
	err := NewTracer("snapshot_store_error").Wrap(stderrors.New("connection refused"))

	assert.Equal(t, "snapshot_store_error: connection refused", err.Error())
	assert.NotNil(t, err.StackTrace())
}

func TestBaseError(t *testing.T) {
	baseErr := NewBaseError()
	assert.False(t, baseErr.HasDetails())
	assert.False(t, baseErr.IsAllCodeEqual(string(CSVMissingColumnError)))

	baseErr.AddErrorDetails(
		NewErrorDetails("missing column close", string(CSVMissingColumnError), "close"),
		NewErrorDetails("missing column volume", string(CSVMissingColumnError), "volume"),
	)

	assert.True(t, baseErr.HasDetails())
	assert.True(t, baseErr.IsAllCodeEqual(string(CSVMissingColumnError)))
	assert.True(t, baseErr.IsAnyCodeEqual(string(CSVMissingColumnError)))
	assert.False(t, baseErr.IsAnyCodeEqual(string(CSVMalformedRecordError)))
	assert.Equal(t, []string{"close", "volume"}, baseErr.Fields())
	assert.Contains(t, baseErr.Error(), "field: volume")
}
