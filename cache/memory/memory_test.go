package memory

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMemory(t *testing.T, maxCost int64) *Memory {
	m, err := NewMemory(Config{NumCounters: 1000, MaxCost: maxCost, BufferItems: 64})
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

type sample struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// TestMemory_StructRoundTrip 结构体经编码写入后可完整读回
func TestMemory_StructRoundTrip(t *testing.T) {
	m := newTestMemory(t, 1<<20)
	ctx := context.Background()

	in := sample{Name: "loop.gif", Size: 2048}
	require.NoError(t, m.Set(ctx, "k1", in, time.Minute))

	var out sample
	require.NoError(t, m.Get(ctx, "k1", &out))
	assert.Equal(t, in, out)
}

// TestMemory_RawBytes 字节值原样透传
func TestMemory_RawBytes(t *testing.T) {
	m := newTestMemory(t, 1<<20)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "raw", []byte("GIF89a"), time.Minute))

	var out []byte
	require.NoError(t, m.Get(ctx, "raw", &out))
	assert.Equal(t, []byte("GIF89a"), out)
}

// TestMemory_Miss 未命中返回 ErrCacheMiss
func TestMemory_Miss(t *testing.T) {
	m := newTestMemory(t, 1<<20)

	var out sample
	assert.ErrorIs(t, m.Get(context.Background(), "absent", &out), ErrCacheMiss)
}

// TestMemory_CostLimitsAdmission 编码后超过 MaxCost 的值不被收纳
func TestMemory_CostLimitsAdmission(t *testing.T) {
	m := newTestMemory(t, 64)
	ctx := context.Background()

	big := sample{Name: strings.Repeat("x", 256), Size: 1}
	require.NoError(t, m.Set(ctx, "big", big, time.Minute))

	var out sample
	assert.ErrorIs(t, m.Get(ctx, "big", &out), ErrCacheMiss)
}
