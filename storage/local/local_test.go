package local

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStorage(t *testing.T) *Storage {
	s, err := NewStorage(t.TempDir())
	require.NoError(t, err)
	return s
}

// TestSaveOpenDelete 基本读写删
func TestSaveOpenDelete(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()
	content := []byte("GIF89a test content")

	require.NoError(t, s.Save(ctx, "test.gif", bytes.NewReader(content), int64(len(content))))

	exists, err := s.Exists(ctx, "test.gif")
	assert.NoError(t, err)
	assert.True(t, exists)

	reader, err := s.Open(ctx, "test.gif")
	require.NoError(t, err)
	got, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.NoError(t, reader.Close())
	assert.Equal(t, content, got)

	require.NoError(t, s.Delete(ctx, "test.gif"))
	exists, err = s.Exists(ctx, "test.gif")
	assert.NoError(t, err)
	assert.False(t, exists)
}

// TestResolve_RejectsTraversal 路径穿越防护
func TestResolve_RejectsTraversal(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	bad := []string{
		"../escape.gif",
		"../../etc/passwd",
		"a/b.gif",
		"a\\b.gif",
		".",
		"..",
		"",
	}
	for _, name := range bad {
		t.Run(name, func(t *testing.T) {
			_, err := s.Open(ctx, name)
			assert.Error(t, err)
		})
	}
}

// TestUsedBytes 目录占用统计
func TestUsedBytes(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	used, err := s.UsedBytes()
	require.NoError(t, err)
	assert.Zero(t, used)

	content := []byte("0123456789")
	require.NoError(t, s.Save(ctx, "a.gif", bytes.NewReader(content), int64(len(content))))
	require.NoError(t, s.Save(ctx, "b.gif", bytes.NewReader(content), int64(len(content))))

	used, err = s.UsedBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(20), used)
}

// TestListByModTime 按修改时间升序
func TestListByModTime(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "first.gif", bytes.NewReader([]byte("a")), 1))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, s.Save(ctx, "second.gif", bytes.NewReader([]byte("b")), 1))

	files, err := s.ListByModTime()
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "first.gif", files[0])
	assert.Equal(t, "second.gif", files[1])
}
