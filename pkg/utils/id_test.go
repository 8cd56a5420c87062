package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRoomCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code := GenerateRoomCode()
		assert.Len(t, code, roomCodeLength)
		for _, c := range code {
			assert.True(t, strings.ContainsRune(roomCodeChars, c), "unexpected character %q", c)
		}
		seen[code] = true
	}
	// 50 次抽樣全部相同的機率可以忽略
	assert.Greater(t, len(seen), 1)
}
