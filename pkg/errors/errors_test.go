package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New(ErrNotRoot, "must run as root")
	assert.Equal(t, ErrNotRoot, err.Code)
	assert.Equal(t, "must run as root", err.Message)
	assert.Equal(t, "[NOT_ROOT] must run as root", err.Error())
}

func TestNewf(t *testing.T) {
	err := Newf(ErrAptInstall, "failed to install %s", "docker-ce")
	assert.Equal(t, "[APT_INSTALL] failed to install docker-ce", err.Error())
}

func TestWrap(t *testing.T) {
	inner := fmt.Errorf("exit status 1")
	err := Wrap(inner, ErrComposeUp, "compose up failed")

	assert.Equal(t, "[COMPOSE_UP] compose up failed: exit status 1", err.Error())
	assert.Equal(t, inner, errors.Unwrap(err))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrComposeUp, "should be nil"))
	assert.Nil(t, Wrapf(nil, ErrComposeUp, "should be %s", "nil"))
}

// Wrap returns *GeostackError, so its nil becomes a non-nil error interface
// when returned directly. Call sites must only call Wrap on a non-nil err.
func TestWrapNilIsTypedThroughErrorInterface(t *testing.T) {
	leak := func() error {
		return Wrap(nil, ErrComposeUp, "unreachable")
	}
	assert.Error(t, leak())
}

func TestIs(t *testing.T) {
	err := New(ErrEnvHelperMissing, "create-envfile.py not found")
	assert.True(t, errors.Is(err, New(ErrEnvHelperMissing, "other message")))
	assert.False(t, errors.Is(err, New(ErrEnvParse, "other code")))
}

func TestIsErrorCode(t *testing.T) {
	err := Wrap(fmt.Errorf("boom"), ErrStepRun, "step failed")
	assert.True(t, IsErrorCode(err, ErrStepRun))
	assert.False(t, IsErrorCode(err, ErrStepProbe))
	assert.False(t, IsErrorCode(fmt.Errorf("plain"), ErrStepRun))
}

func TestIsErrorCodeWrappedDeep(t *testing.T) {
	inner := New(ErrNotReady, "geoserver did not come up")
	outer := fmt.Errorf("running step: %w", inner)
	assert.True(t, IsErrorCode(outer, ErrNotReady))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, ErrGitClone, GetErrorCode(New(ErrGitClone, "clone failed")))
	assert.Equal(t, ErrUnknown, GetErrorCode(fmt.Errorf("plain")))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrStepRun, "step failed").
		WithDetail("step", "docker-engine").
		WithDetail("attempt", 1)

	assert.Equal(t, "docker-engine", err.Details["step"])
	assert.Equal(t, 1, err.Details["attempt"])
}
