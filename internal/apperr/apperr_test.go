package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationf(t *testing.T) {
	err := Validationf("field %q required", "name")
	assert.Equal(t, `field "name" required`, err.Error())

	var ve *ValidationError
	assert.ErrorAs(t, fmt.Errorf("create: %w", err), &ve)
}

func TestNotFound(t *testing.T) {
	err := NotFound("experiment")
	assert.Equal(t, "experiment not found", err.Error())

	var nf *NotFoundError
	assert.ErrorAs(t, fmt.Errorf("get: %w", err), &nf)
	assert.Equal(t, "experiment", nf.Resource)
}

func TestStorageWrapsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Storage("upload", cause)

	assert.Contains(t, err.Error(), "upload")
	assert.ErrorIs(t, err, cause)

	var se *StorageError
	assert.ErrorAs(t, err, &se)
	assert.Equal(t, "upload", se.Op)
}
