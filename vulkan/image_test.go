package vulkan

import (
	"testing"

	"github.com/andewx/dieselrhi/rhi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestTransitionMasks(t *testing.T) {
	tests := []struct {
		name     string
		old, new vk.ImageLayout
		want     barrierMasks
	}{
		{
			name: "undefined to transfer dst",
			old:  vk.ImageLayoutUndefined,
			new:  vk.ImageLayoutTransferDstOptimal,
			want: barrierMasks{
				dstAccess: vk.AccessFlags(vk.AccessTransferWriteBit),
				srcStage:  vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit),
				dstStage:  vk.PipelineStageFlags(vk.PipelineStageTransferBit),
			},
		},
		{
			name: "transfer dst to shader read",
			old:  vk.ImageLayoutTransferDstOptimal,
			new:  vk.ImageLayoutShaderReadOnlyOptimal,
			want: barrierMasks{
				srcAccess: vk.AccessFlags(vk.AccessTransferWriteBit),
				dstAccess: vk.AccessFlags(vk.AccessShaderReadBit),
				srcStage:  vk.PipelineStageFlags(vk.PipelineStageTransferBit),
				dstStage:  vk.PipelineStageFlags(vk.PipelineStageFragmentShaderBit),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			masks, err := transitionMasks(tt.old, tt.new)
			require.NoError(t, err)
			assert.Equal(t, tt.want, masks)
		})
	}
}

func TestTransitionMasksUnsupported(t *testing.T) {
	pairs := [][2]vk.ImageLayout{
		{vk.ImageLayoutUndefined, vk.ImageLayoutShaderReadOnlyOptimal},
		{vk.ImageLayoutShaderReadOnlyOptimal, vk.ImageLayoutTransferDstOptimal},
		{vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutTransferDstOptimal},
		{vk.ImageLayoutUndefined, vk.ImageLayoutPresentSrc},
	}
	for _, p := range pairs {
		_, err := transitionMasks(p[0], p[1])
		assert.ErrorIs(t, err, rhi.ErrUnsupportedTransition)
	}
}

func TestUnsupportedTransitionAllocatesNothing(t *testing.T) {
	q := &fakeTransfer{}
	d := &Device{transferQueue: q}

	err := d.transitionImageLayout(vk.NullImage, 1, vk.ImageLayoutShaderReadOnlyOptimal, vk.ImageLayoutUndefined)
	assert.ErrorIs(t, err, rhi.ErrUnsupportedTransition)
	assert.Empty(t, q.calls)
}

func TestFindDepthFormat(t *testing.T) {
	depth := vk.FormatFeatureFlags(vk.FormatFeatureDepthStencilAttachmentBit)
	sampled := vk.FormatFeatureFlags(vk.FormatFeatureSampledImageBit)

	tests := []struct {
		name      string
		supported map[vk.Format]vk.FormatFeatureFlags
		want      vk.Format
	}{
		{"first candidate", map[vk.Format]vk.FormatFeatureFlags{
			vk.FormatD32Sfloat:      depth,
			vk.FormatD24UnormS8Uint: depth,
		}, vk.FormatD32Sfloat},
		{"skips unusable", map[vk.Format]vk.FormatFeatureFlags{
			vk.FormatD32Sfloat:       sampled,
			vk.FormatD32SfloatS8Uint: depth | sampled,
		}, vk.FormatD32SfloatS8Uint},
		{"last candidate", map[vk.Format]vk.FormatFeatureFlags{
			vk.FormatD24UnormS8Uint: depth,
		}, vk.FormatD24UnormS8Uint},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, err := findDepthFormat(func(f vk.Format) vk.FormatFeatureFlags {
				return tt.supported[f]
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, format)
		})
	}

	_, err := findDepthFormat(func(vk.Format) vk.FormatFeatureFlags { return sampled })
	assert.ErrorIs(t, err, rhi.ErrNoDepthFormat)
}

func TestImageDescOf(t *testing.T) {
	desc := imageDescOf(rhi.ImageCreateInfo{
		Width:  256,
		Height: 128,
		Format: rhi.FormatR8G8B8A8Srgb,
		Usage:  rhi.ImageUsageSampled,
	})
	assert.Equal(t, uint32(1), desc.mipLevels)
	assert.Equal(t, uint32(1), desc.layers)
	assert.Equal(t, vk.FormatR8g8b8a8Srgb, desc.format)
	assert.Equal(t, vk.ImageUsageFlags(vk.ImageUsageSampledBit), desc.usage)

	desc = imageDescOf(rhi.ImageCreateInfo{MipLevels: 4, ArrayLayers: 6})
	assert.Equal(t, uint32(4), desc.mipLevels)
	assert.Equal(t, uint32(6), desc.layers)
}
