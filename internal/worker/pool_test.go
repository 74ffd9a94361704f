package worker

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_ExecuteKeepsOrder(t *testing.T) {
	pool := NewPool[string, string](4, func(ctx context.Context, in string) (string, error) {
		return strings.ToUpper(in), nil
	})

	tasks := pool.Execute(context.Background(), []string{"a", "b", "c", "d", "e"})

	require.Len(t, tasks, 5)
	for i, want := range []string{"A", "B", "C", "D", "E"} {
		assert.NoError(t, tasks[i].Err)
		assert.Equal(t, want, tasks[i].Result)
	}
}

func TestPool_ExecuteReportsErrors(t *testing.T) {
	boom := errors.New("boom")
	pool := NewPool[int, int](0, func(ctx context.Context, in int) (int, error) {
		if in%2 == 0 {
			return 0, boom
		}
		return in * 10, nil
	})

	tasks := pool.Execute(context.Background(), []int{1, 2, 3})

	assert.Equal(t, 10, tasks[0].Result)
	assert.ErrorIs(t, tasks[1].Err, boom)
	assert.Equal(t, 30, tasks[2].Result)
}

func TestPool_ExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	pool := NewPool[int, int](2, func(ctx context.Context, in int) (int, error) {
		calls.Add(1)
		return in, nil
	})

	tasks := pool.Execute(ctx, []int{1, 2, 3, 4})

	require.Len(t, tasks, 4)
	for _, task := range tasks {
		if task.Err != nil {
			assert.ErrorIs(t, task.Err, context.Canceled)
		}
	}
	assert.LessOrEqual(t, int(calls.Load()), 4)
}

func TestBatch(t *testing.T) {
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, Batch([]int{1, 2, 3, 4, 5}, 2))
	assert.Equal(t, [][]int{{1}, {2}}, Batch([]int{1, 2}, 0))
	assert.Nil(t, Batch([]int{}, 3))
}

func TestBatchByChars(t *testing.T) {
	tests := []struct {
		name     string
		texts    []string
		maxItems int
		maxChars int
		want     [][]string
	}{
		{"item limit", []string{"a", "b", "c"}, 2, 0, [][]string{{"a", "b"}, {"c"}}},
		{"char limit", []string{"aaa", "bb", "cccc"}, 10, 5, [][]string{{"aaa", "bb"}, {"cccc"}}},
		{"oversized text alone", []string{"a", "toolongtext", "b"}, 10, 4, [][]string{{"a"}, {"toolongtext"}, {"b"}}},
		{"runes not bytes", []string{"éé", "ññ"}, 10, 4, [][]string{{"éé", "ññ"}}},
		{"empty", nil, 3, 3, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BatchByChars(tt.texts, tt.maxItems, tt.maxChars))
		})
	}
}
