package pagination_test

import (
	"testing"
	"time"

	"github.com/finbooks/finbooks_backend/internal/utils/pagination"
	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	entityDate := time.Date(2025, 3, 15, 10, 30, 0, 123456789, time.UTC)
	createdAt := time.Date(2025, 3, 15, 10, 31, 2, 0, time.UTC)

	token := pagination.EncodeToken(entityDate, createdAt)
	gotDate, gotCreated, err := pagination.DecodeToken(token)
	assert.NoError(t, err)
	assert.True(t, entityDate.Equal(gotDate))
	assert.True(t, createdAt.Equal(gotCreated))
}

func TestDecodeToken_Invalid(t *testing.T) {
	_, _, err := pagination.DecodeToken("not-base64!!!")
	assert.Error(t, err)

	// Valid base64, wrong payload shape.
	_, _, err = pagination.DecodeToken("aGVsbG8=")
	assert.Error(t, err)
}

func TestEncodeDecodeMultiFieldToken(t *testing.T) {
	fields := []string{"2025-03-15T10:30:00Z", "acct-123"}
	token := pagination.EncodeMultiFieldToken(fields...)

	got, err := pagination.DecodeMultiFieldToken(token)
	assert.NoError(t, err)
	assert.Equal(t, fields, got)
}

func TestEncodeDecodeDateBasedToken(t *testing.T) {
	date := time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)
	token := pagination.EncodeDateBasedToken(date)

	got, err := pagination.DecodeDateBasedToken(token)
	assert.NoError(t, err)
	assert.True(t, date.Equal(got))
}
