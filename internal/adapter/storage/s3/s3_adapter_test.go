package s3

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/daniyar-kh/marketplace-backend/internal/listing/domain"
)

// Input validation happens before the client is touched, so a zero-value
// store is enough to exercise it.
func TestStore_RejectsEmptyFile(t *testing.T) {
	store := &MediaStore{logger: zap.NewNop()}

	_, err := store.Store(context.Background(), "photo.jpg", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidFile)
}

func TestStore_RejectsMissingNameOrExtension(t *testing.T) {
	store := &MediaStore{logger: zap.NewNop()}

	for _, filename := range []string{"", "photo"} {
		_, err := store.Store(context.Background(), filename, []byte("data"))
		assert.ErrorIs(t, err, domain.ErrInvalidFile, "filename %q", filename)
	}
}
