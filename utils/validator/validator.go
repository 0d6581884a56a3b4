package validator

import (
	"io"
	"net/http"
)

// gifMimeType 唯一允许的上传类型
const gifMimeType = "image/gif"

// IsGif Verify if the file content is a GIF by content sniffing.
func IsGif(file io.ReadSeeker) (bool, error) {
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return false, err
	}

	_, err = file.Seek(0, io.SeekStart)
	if err != nil {
		return false, err
	}

	// 检测 MIME 类型（GIF87a/GIF89a 魔数）
	mimeType := http.DetectContentType(buffer[:n])
	return mimeType == gifMimeType, nil
}
