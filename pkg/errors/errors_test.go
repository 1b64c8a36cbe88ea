package errors

import (
	"database/sql"
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	notFound := Clone(ErrNotFound, "student not found")
	wrapped := fmt.Errorf("handler: %w", notFound)

	got := FromError(wrapped)
	assert.Same(t, notFound, got)
	assert.Equal(t, http.StatusNotFound, got.Status)
}

func TestFromErrorWrapsUnknownAsInternal(t *testing.T) {
	got := FromError(sql.ErrConnDone)

	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.Equal(t, http.StatusInternalServerError, got.Status)
	assert.ErrorIs(t, got, sql.ErrConnDone)
	assert.Nil(t, FromError(nil))
}

func TestCloneMatchesTemplate(t *testing.T) {
	clone := Clone(ErrConflict, "student 4 already exists")

	assert.True(t, stdErrors.Is(clone, ErrConflict))
	assert.False(t, stdErrors.Is(clone, ErrNotFound))
	assert.Equal(t, "conflict", ErrConflict.Message)
	assert.Equal(t, "student 4 already exists", clone.Error())
}
