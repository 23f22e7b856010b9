package vulkan

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckExisting(t *testing.T) {
	actual := []string{"VK_KHR_surface\x00", "VK_KHR_xcb_surface", "VK_EXT_debug_report\x00"}
	wanted := []string{"VK_KHR_surface", "VK_EXT_debug_report\x00", "VK_KHR_portability_enumeration"}

	existing, missing := checkExisting(actual, wanted)
	assert.Equal(t, []string{"VK_KHR_surface\x00", "VK_EXT_debug_report\x00"}, existing)
	assert.Equal(t, []string{"VK_KHR_portability_enumeration"}, missing)
}

func TestSafeString(t *testing.T) {
	assert.Equal(t, "main\x00", safeString("main"))
	assert.Equal(t, "main\x00", safeString("main\x00"))
	assert.Equal(t, "\x00", safeString(""))
	assert.Equal(t, []string{"a\x00", "b\x00"}, safeStrings([]string{"a", "b\x00"}))
	assert.Equal(t, "main", trimNul("main\x00"))
}

func TestSliceUint32(t *testing.T) {
	data := make([]byte, 10)
	binary.NativeEndian.PutUint32(data[0:], spirvMagic)
	binary.NativeEndian.PutUint32(data[4:], 0x00010000)

	words := sliceUint32(data)
	assert.Equal(t, []uint32{spirvMagic, 0x00010000}, words)
	assert.Nil(t, sliceUint32([]byte{1, 2, 3}))
}
