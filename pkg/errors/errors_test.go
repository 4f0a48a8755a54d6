package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/Anycrabs/telegram-masters-bot/pkg/errors"
)

func TestAppError_Error(t *testing.T) {
	err := apperrors.NewInternalError("failed to list masters", errors.New("connection refused"))
	assert.Equal(t, "INTERNAL: failed to list masters: connection refused", err.Error())

	notFound := apperrors.NewNotFoundError("master 7 not found")
	assert.Equal(t, "NOT_FOUND: master 7 not found", notFound.Error())
}

func TestIsType_SeesThroughWrapping(t *testing.T) {
	base := apperrors.NewNotFoundError("page about not found")
	wrapped := fmt.Errorf("load page: %w", base)

	assert.True(t, apperrors.IsNotFound(wrapped))
	assert.False(t, apperrors.IsPermissionDenied(wrapped))
	assert.True(t, apperrors.IsType(wrapped, apperrors.ErrorTypeNotFound))
}

func TestIsType_PlainError(t *testing.T) {
	assert.False(t, apperrors.IsNotFound(errors.New("boom")))
	assert.False(t, apperrors.IsNotFound(nil))
}

func TestUnwrap_ReturnsCause(t *testing.T) {
	cause := errors.New("tx aborted")
	err := apperrors.NewInternalError("failed to submit review", cause)
	assert.ErrorIs(t, err, cause)
}

func TestKindHelpers(t *testing.T) {
	conflict := fmt.Errorf("approve: %w", apperrors.NewConflictError("master 3 is inactive"))
	assert.True(t, apperrors.IsConflict(conflict))
	assert.False(t, apperrors.IsValidation(conflict))

	invalid := apperrors.NewValidationError("rating must be between 1 and 5")
	assert.True(t, apperrors.IsValidation(invalid))
	assert.Equal(t, "rating must be between 1 and 5", apperrors.Message(fmt.Errorf("submit: %w", invalid)))
	assert.Empty(t, apperrors.Message(errors.New("plain")))
}
