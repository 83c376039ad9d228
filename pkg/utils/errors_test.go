package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorErrorFatality(t *testing.T) {
	tests := []struct {
		name  string
		err   *CollectorError
		fatal bool
	}{
		{"fetch is recoverable", NewFetchError("fetch failed", nil), false},
		{"extract is recoverable", NewExtractError("extract failed", nil), false},
		{"enumerate is fatal", NewEnumerateError("no links", nil), true},
		{"persist is fatal", NewPersistError("write failed", nil), true},
		{"config is fatal", NewConfigError("bad config", nil), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.fatal, tt.err.Fatal())
		})
	}
}

func TestCollectorErrorMessage(t *testing.T) {
	cause := errors.New("connection refused")

	withCause := NewFetchError("failed to fetch page", cause)
	assert.Equal(t, "failed to fetch page: connection refused", withCause.Error())

	bare := NewPersistError("failed to persist snapshot", nil)
	assert.Equal(t, "failed to persist snapshot", bare.Error())
}

// Fatality must survive error wrapping so the pipeline can classify errors
// it receives through layered %w chains.
func TestCollectorErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewPersistError("failed to persist snapshot", cause)

	assert.ErrorIs(t, err, cause)

	var cerr *CollectorError
	require.ErrorAs(t, error(err), &cerr)
	assert.True(t, cerr.Fatal())
}
