package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseUserID(t *testing.T) {
	t.Run("accepts a snowflake", func(t *testing.T) {
		id, err := ParseUserID("100000000000000001")
		assert.NoError(t, err)
		assert.Equal(t, UserID("100000000000000001"), id)
		assert.False(t, id.IsNil())
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := ParseUserID("")
		assert.Error(t, err)
	})

	t.Run("rejects non-digits", func(t *testing.T) {
		_, err := ParseUserID("123abc")
		assert.Error(t, err)
	})

	t.Run("rejects overlong input", func(t *testing.T) {
		_, err := ParseUserID("123456789012345678901")
		assert.Error(t, err)
	})
}

func TestParseGuildAndRoleIDs(t *testing.T) {
	_, err := ParseGuildID("900000000000000001")
	assert.NoError(t, err)

	_, err = ParseRoleID("800000000000000001")
	assert.NoError(t, err)

	_, err = ParseGuildID("")
	assert.Error(t, err)

	_, err = ParseRoleID("-1")
	assert.Error(t, err)
}
