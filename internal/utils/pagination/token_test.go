package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	createdAt := time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC)
	entryID := "c1f3e0f0-8a2b-4f59-9d1a-1f0f3a2b4c5d"

	token := EncodeToken(createdAt, entryID)
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedCreatedAt, decodedEntryID, err := DecodeToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, createdAt, decodedCreatedAt, "Created at time should match after decode")
	assert.Equal(t, entryID, decodedEntryID, "Entry ID should match after decode")

	// Current time values survive the round trip at nanosecond precision
	now := time.Now().UTC()
	nowToken := EncodeToken(now, "entry-1")
	decodedNow, decodedID, err := DecodeToken(nowToken)
	assert.NoError(t, err, "Decoding current time should not return an error")
	assert.True(t, now.Equal(decodedNow), "Current time should match after decode")
	assert.Equal(t, "entry-1", decodedID)
}

func TestDecodeTokenError(t *testing.T) {
	// Invalid base64
	_, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode", "Error should mention base64 decoding")

	// Missing separator
	invalidToken := "MjAyMy0wNS0xNVQwMDowMDowMFo=" // "2023-05-15T00:00:00Z" without separator
	_, _, err = DecodeToken(invalidToken)
	assert.Error(t, err, "Should return an error for invalid token format")
	assert.Contains(t, err.Error(), "split", "Error should mention splitting issue")

	// Invalid timestamp
	invalidDateToken := EncodeToken(time.Time{}, "x")
	_, _, _ = DecodeToken(invalidDateToken) // zero time is still parseable, so build a bad one by hand
	_, _, err = DecodeToken("bm90YWRhdGV8ZW50cnktMQ==") // "notadate|entry-1"
	assert.Error(t, err, "Should return an error for invalid timestamp")
	assert.Contains(t, err.Error(), "created_at parse", "Error should mention timestamp parsing issue")

	// Empty entry id
	emptyIDToken := EncodeToken(time.Now().UTC(), "")
	_, _, err = DecodeToken(emptyIDToken)
	assert.Error(t, err, "Should return an error for empty entry id")
}
