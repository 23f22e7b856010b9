package vulkan

import (
	"github.com/andewx/dieselrhi/rhi"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

func checkSPIRV(code []byte) error {
	if len(code) == 0 || len(code)%4 != 0 {
		return errors.Errorf("vulkan: shader code size %d is not a multiple of 4", len(code))
	}
	if words := sliceUint32(code); words[0] != spirvMagic {
		return errors.Errorf("vulkan: bad SPIR-V magic %#08x", words[0])
	}
	return nil
}

// CreateShaderModule wraps SPIR-V code. Code is expected to be a whole
// number of little endian words.
func (d *Device) CreateShaderModule(code []byte) (rhi.Shader, error) {
	if err := checkSPIRV(code); err != nil {
		return nil, err
	}
	var module vk.ShaderModule
	ret := vk.CreateShaderModule(d.device, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code)),
		PCode:    sliceUint32(code),
	}, nil, &module)
	if isError(ret) {
		return nil, newError(ret, "create shader module")
	}
	return wrap[rhi.ShaderKind](module), nil
}

func (d *Device) DestroyShaderModule(shader rhi.Shader) {
	module := native[vk.ShaderModule](shader)
	if module == vk.NullShaderModule {
		return
	}
	vk.DestroyShaderModule(d.device, module, nil)
	if r, ok := shader.(*Shader); ok {
		r.reset()
	}
}
