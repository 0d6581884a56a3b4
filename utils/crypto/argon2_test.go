package cryptopackage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestGenerateFromPassword 测试密码散列生成
func TestGenerateFromPassword(t *testing.T) {
	hash, err := GenerateFromPassword("test-password-123")
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	// 同一密码两次散列应因盐不同而不同
	hash2, err := GenerateFromPassword("test-password-123")
	assert.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
}

// TestComparePasswordAndHash 测试密码校验
func TestComparePasswordAndHash(t *testing.T) {
	hash, err := GenerateFromPassword("correct-password")
	assert.NoError(t, err)

	ok, err := ComparePasswordAndHash("correct-password", hash)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = ComparePasswordAndHash("wrong-password", hash)
	assert.NoError(t, err)
	assert.False(t, ok)
}

// TestComparePasswordAndHash_InvalidHash 非法散列格式
func TestComparePasswordAndHash_InvalidHash(t *testing.T) {
	_, err := ComparePasswordAndHash("password", "not-a-valid-hash")
	assert.Error(t, err)
}
