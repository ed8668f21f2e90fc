package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigurationError(t *testing.T) {
	err := NewConfigurationError("spider", "must not be empty")
	assert.Equal(t, `configuration error: field "spider": must not be empty`, err.Error())
}

func TestLoadErrorUnwrap(t *testing.T) {
	cause := errors.New("checksum mismatch")
	err := NewLoadError("dump.0.table", cause)

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "dump.0.table")
}

func TestStageStartErrorUnwrap(t *testing.T) {
	cause := errors.New("bind failed")
	err := NewStageStartError("downloader", cause)

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "downloader")
}

func TestControlViolationError(t *testing.T) {
	err := NewControlViolationError("spider", "suspend", "timeout")
	assert.Equal(t, "control violation: stage spider: op suspend: got timeout", err.Error())
}

func TestStatusError(t *testing.T) {
	err := NewStatusError("suspend", "running")
	assert.Equal(t, "status error: want suspend, got running", err.Error())
}

func TestUnknownControlError(t *testing.T) {
	err := NewUnknownControlError("rewind")
	assert.Equal(t, "unknown control operation: rewind", err.Error())
}
