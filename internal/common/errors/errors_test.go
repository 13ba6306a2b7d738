package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"not found", NotFound("Board not found."), ErrCodeNotFound, http.StatusNotFound},
		{"bad request", BadRequest("invalid request body"), ErrCodeBadRequest, http.StatusBadRequest},
		{"validation", ValidationError("name", "Name is required."), ErrCodeValidationError, http.StatusUnprocessableEntity},
		{"invalid argument", InvalidArgument("name is required"), ErrCodeInvalidArgument, http.StatusInternalServerError},
		{"invalid state", InvalidState("no statuses"), ErrCodeInvalidState, http.StatusInternalServerError},
		{"internal", InternalError("boom", fmt.Errorf("disk")), ErrCodeInternalError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.Equal(t, tt.status, GetHTTPStatus(tt.err))
		})
	}
}

func TestValidationError_Fields(t *testing.T) {
	err := ValidationError("deadline", "Invalid date format. Use yyyy-MM-dd.")
	assert.Equal(t, map[string][]string{"deadline": {"Invalid date format. Use yyyy-MM-dd."}}, err.Fields)
	assert.True(t, IsValidation(err))
	assert.False(t, IsNotFound(err))
}

func TestWrap_PreservesAppError(t *testing.T) {
	inner := NotFound("Task not found.")
	wrapped := Wrap(inner, "delete task")

	assert.True(t, IsNotFound(wrapped))
	assert.Equal(t, http.StatusNotFound, wrapped.HTTPStatus)
	assert.True(t, stderrors.Is(wrapped, inner))
}

func TestWrap_PlainError(t *testing.T) {
	assert.Nil(t, Wrap(nil, "noop"))

	wrapped := Wrap(fmt.Errorf("disk full"), "write upload")
	assert.Equal(t, ErrCodeInternalError, wrapped.Code)
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(wrapped))
}

func TestGetHTTPStatus_NonAppError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(fmt.Errorf("plain")))
	assert.Equal(t, http.StatusNotFound, GetHTTPStatus(fmt.Errorf("ctx: %w", NotFound("x"))))
}

func TestFieldErrors(t *testing.T) {
	fe := FieldErrors{}
	assert.NoError(t, fe.Err("Validation failed."))

	fe.Add("name", "Name is required.")
	fe.Add("file", "Image file is required.")
	fe.Set("file", "Unsupported image type.")

	assert.Equal(t, []string{"file", "name"}, fe.Fields())

	err := fe.Err("Validation failed.")
	require.Error(t, err)
	var appErr *AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, "Validation failed.", appErr.Message)
	assert.Equal(t, []string{"Unsupported image type."}, appErr.Fields["file"])
}
