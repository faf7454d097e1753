package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 30, 45, 123000000, time.UTC)

	cursor := EncodeCursor(at)
	decoded, err := DecodeCursor(cursor)
	require.NoError(t, err)
	assert.True(t, at.Equal(decoded))
}

func TestDecodeCursor_Invalid(t *testing.T) {
	_, err := DecodeCursor("not base64!!")
	assert.Error(t, err)

	// valid base64 but not a timestamp
	_, err = DecodeCursor("aGVsbG8=")
	assert.Error(t, err)
}

func TestPageVerify(t *testing.T) {
	num := int64(3)
	PageVerify(&num)
	assert.Equal(t, int64(DefaultLimit), num)

	num = int64(100)
	PageVerify(&num)
	assert.Equal(t, int64(DefaultLimit), num)

	num = int64(20)
	PageVerify(&num)
	assert.Equal(t, int64(20), num)
}
