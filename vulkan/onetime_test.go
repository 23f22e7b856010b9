package vulkan

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

type fakeTransfer struct {
	calls  []string
	failAt string
}

func (q *fakeTransfer) step(name string) error {
	q.calls = append(q.calls, name)
	if name == q.failAt {
		return errors.New(name + " failed")
	}
	return nil
}

func (q *fakeTransfer) allocate() (vk.CommandBuffer, error) {
	return nil, q.step("allocate")
}

func (q *fakeTransfer) begin(vk.CommandBuffer) error  { return q.step("begin") }
func (q *fakeTransfer) end(vk.CommandBuffer) error    { return q.step("end") }
func (q *fakeTransfer) submit(vk.CommandBuffer) error { return q.step("submit") }
func (q *fakeTransfer) waitIdle() error               { return q.step("wait idle") }
func (q *fakeTransfer) free(vk.CommandBuffer)         { q.step("free") }

func TestRunOneTimeOrder(t *testing.T) {
	q := &fakeTransfer{}
	err := runOneTime(q, func(vk.CommandBuffer) {
		q.calls = append(q.calls, "record")
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"allocate", "begin", "record", "end", "submit", "wait idle", "free"}, q.calls)
}

func TestRunOneTimeFailures(t *testing.T) {
	tests := []struct {
		failAt string
		want   []string
	}{
		{"allocate", []string{"allocate"}},
		{"begin", []string{"allocate", "begin", "free"}},
		{"end", []string{"allocate", "begin", "record", "end", "free"}},
		{"submit", []string{"allocate", "begin", "record", "end", "submit", "free"}},
		{"wait idle", []string{"allocate", "begin", "record", "end", "submit", "wait idle", "free"}},
	}
	for _, tt := range tests {
		t.Run(tt.failAt, func(t *testing.T) {
			q := &fakeTransfer{failAt: tt.failAt}
			err := runOneTime(q, func(vk.CommandBuffer) {
				q.calls = append(q.calls, "record")
			})
			assert.EqualError(t, err, tt.failAt+" failed")
			assert.Equal(t, tt.want, q.calls)
		})
	}
}

func TestDeviceOneTimeCommandBuffer(t *testing.T) {
	q := &fakeTransfer{}
	d := &Device{transferQueue: q}

	_, err := d.BeginOneTimeCommandBuffer()
	require.NoError(t, err)
	assert.Equal(t, []string{"allocate", "begin"}, q.calls)

	// A fake queue hands out null buffers, which no backend call accepts.
	err = d.EndOneTimeCommandBuffer(nil)
	assert.Error(t, err)
	assert.Equal(t, []string{"allocate", "begin"}, q.calls)
}
