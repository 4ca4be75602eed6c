package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObfuscate(t *testing.T) {
	assert.Equal(t, "****56789", Obfuscate("123456789", 5))
	assert.Equal(t, "***", Obfuscate("123", 5))
	assert.Equal(t, "", Obfuscate("", 5))
}

func TestMin(t *testing.T) {
	assert.Equal(t, 1, Min(2, 1, 3))
	assert.Equal(t, 5, Min(5))
}

func TestKeys(t *testing.T) {
	assert.Nil(t, Keys(nil))
	assert.ElementsMatch(t, []string{"a", "b"}, Keys(map[string]string{"a": "1", "b": "2"}))
}

func TestFastHashHex(t *testing.T) {
	assert.Equal(t, FastHashHex([]byte("key")), FastHashHex([]byte("key")))
	assert.NotEqual(t, FastHashHex([]byte("key")), FastHashHex([]byte("other")))
}
