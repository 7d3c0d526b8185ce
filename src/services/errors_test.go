package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(ErrValidation("bad input")))
	assert.Equal(t, KindNotFound, KindOf(ErrNotFound("missing")))
	assert.Equal(t, KindForbidden, KindOf(ErrForbidden("nope")))
	assert.Equal(t, KindConflict, KindOf(ErrConflict("dup")))
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("outer: %w", ErrConflict("dup"))
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("boom")))
	assert.Equal(t, ErrorKind(""), KindOf(nil))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "missing", ErrNotFound("missing").Error())
}
