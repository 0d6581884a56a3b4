package validator

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestIsGif GIF 魔数识别
func TestIsGif(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    bool
	}{
		{"gif89a", []byte("GIF89a\x01\x00\x01\x00"), true},
		{"gif87a", []byte("GIF87a\x01\x00\x01\x00"), true},
		{"png", []byte("\x89PNG\r\n\x1a\n"), false},
		{"jpeg", []byte("\xff\xd8\xff\xe0"), false},
		{"plain text", []byte("hello world"), false},
		{"empty", []byte{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := bytes.NewReader(tt.content)
			got, err := IsGif(reader)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestIsGif_SeeksBack 检测后读取位置要回到开头
func TestIsGif_SeeksBack(t *testing.T) {
	content := []byte("GIF89a\x01\x00\x01\x00")
	reader := bytes.NewReader(content)

	_, err := IsGif(reader)
	assert.NoError(t, err)

	rest := make([]byte, len(content))
	n, _ := reader.Read(rest)
	assert.Equal(t, len(content), n)
	assert.Equal(t, content, rest)
}
