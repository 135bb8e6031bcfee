package sentinel

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestApprovalStatusValidate(t *testing.T) {
	t.Run("SucceedsWithRecognizedStatuses", func(t *testing.T) {
		for _, s := range []ApprovalStatus{StatusApproved, StatusPending, StatusDenied, StatusUnknown} {
			assert.NoError(t, s.Validate())
		}
	})
	t.Run("FailsWithUnrecognizedStatus", func(t *testing.T) {
		assert.Error(t, ApprovalStatus("banana").Validate())
	})
	t.Run("FailsWithEmptyStatus", func(t *testing.T) {
		assert.Error(t, ApprovalStatus("").Validate())
	})
}

func TestRedactValue(t *testing.T) {
	t.Run("KeepsFirstFourCharacters", func(t *testing.T) {
		assert.Equal(t, "abcd***", RedactValue("abcd1234"))
	})
	t.Run("MasksShortValuesEntirely", func(t *testing.T) {
		assert.Equal(t, "***", RedactValue("abcd"))
		assert.Equal(t, "***", RedactValue("ab"))
		assert.Equal(t, "***", RedactValue(""))
	})
	t.Run("KeepsMultibyteRunesIntact", func(t *testing.T) {
		assert.Equal(t, "ａｂｃｄ***", RedactValue("ａｂｃｄ１２３４"))
		assert.True(t, utf8.ValidString(RedactValue("日本語のパスワード")))
		assert.Equal(t, "日本語の***", RedactValue("日本語のパスワード"))
		assert.Equal(t, "***", RedactValue("秘密"))
	})
}
