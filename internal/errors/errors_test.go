package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"csvlens/domain/core"

	"github.com/stretchr/testify/assert"
)

func TestFromDomainClassifiesPipelineErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"parse", core.NewParseError(2, "wrong number of fields"), CodeParseError, http.StatusBadRequest},
		{"imputation", core.NewImputationError("no numeric columns"), CodeImputationError, http.StatusUnprocessableEntity},
		{"argument", core.NewInvalidArgumentError("kind", "unknown"), CodeInvalidArgument, http.StatusBadRequest},
		{"wrapped", fmt.Errorf("load: %w", core.NewParseError(0, "empty input")), CodeParseError, http.StatusBadRequest},
		{"other", stderrors.New("disk on fire"), CodeInternalError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := FromDomain(tt.err)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.status, HTTPStatus(appErr.Code))
			assert.True(t, stderrors.Is(appErr, tt.err))
		})
	}
}

func TestFromDomainHidesInternalDetails(t *testing.T) {
	appErr := FromDomain(stderrors.New("open /var/secret: permission denied"))
	assert.Equal(t, "internal error", appErr.Message)
}

func TestWrapKeepsCode(t *testing.T) {
	inner := InvalidInput("no file uploaded")
	wrapped := Wrap(inner, "profile request")
	assert.Equal(t, CodeInvalidInput, GetCode(wrapped))
	assert.Same(t, wrapped, FromDomain(wrapped))

	assert.Equal(t, CodeImputationError, GetCode(Wrap(core.NewImputationError("x"), "run")))
	assert.Nil(t, Wrap(nil, "nothing"))
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
}

func TestUploadTooLarge(t *testing.T) {
	err := UploadTooLarge(8 << 20)
	assert.Equal(t, "upload exceeds the 8 MB limit", err.Error())
	assert.Equal(t, 413, HTTPStatus(err.Code))
}
