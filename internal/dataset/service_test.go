package dataset

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slmforge/trainbench/internal/apperr"
)

// Validation failures must surface before any storage or database call, so a
// service with no backends at all is enough to exercise them.
func TestUploadRejectsBeforeSideEffects(t *testing.T) {
	svc := NewService(nil, nil)

	t.Run("bad dataset type", func(t *testing.T) {
		_, err := svc.Upload(context.Background(), UploadRequest{
			Name:        "spam",
			DatasetType: "testing",
			Filename:    "spam.csv",
			Data:        strings.NewReader("a,b\n1,2\n"),
		})
		var ve *apperr.ValidationError
		assert.ErrorAs(t, err, &ve)
		assert.Contains(t, ve.Error(), "dataset_type")
	})

	t.Run("bad extension", func(t *testing.T) {
		_, err := svc.Upload(context.Background(), UploadRequest{
			Name:        "spam",
			DatasetType: "training",
			Filename:    "spam.parquet",
			Data:        strings.NewReader("binary"),
		})
		var ve *apperr.ValidationError
		assert.ErrorAs(t, err, &ve)
		assert.Contains(t, ve.Error(), ".parquet")
	})

	t.Run("no extension", func(t *testing.T) {
		_, err := svc.Upload(context.Background(), UploadRequest{
			Name:        "spam",
			DatasetType: "evaluation",
			Filename:    "spam",
			Data:        strings.NewReader(""),
		})
		var ve *apperr.ValidationError
		assert.ErrorAs(t, err, &ve)
	})
}
