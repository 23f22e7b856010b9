package vulkan

import (
	"context"
	"log/slog"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// debugLevel maps debug report flags to a log level. Errors win over
// warnings when several bits are set.
func debugLevel(flags vk.DebugReportFlags) slog.Level {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		return slog.LevelError
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit|vk.DebugReportPerformanceWarningBit) != 0:
		return slog.LevelWarn
	case flags&vk.DebugReportFlags(vk.DebugReportDebugBit) != 0:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

func (d *Device) debugReport(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
	object uint64, location uint, messageCode int32, pLayerPrefix string,
	pMessage string, pUserData unsafe.Pointer) vk.Bool32 {

	d.log.Log(context.Background(), debugLevel(flags), pMessage,
		"layer", pLayerPrefix,
		"code", messageCode,
		"object", object)
	return vk.Bool32(vk.False)
}

func (d *Device) setupDebugReport() error {
	if !d.config.Validation || len(d.layers) == 0 {
		d.log.Debug("vulkan: debug report disabled")
		return nil
	}
	ret := vk.CreateDebugReportCallback(d.instance, &vk.DebugReportCallbackCreateInfo{
		SType: vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags: vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit |
			vk.DebugReportPerformanceWarningBit),
		PfnCallback: d.debugReport,
	}, nil, &d.debugCallback)
	if isError(ret) {
		return newError(ret, "create debug report callback")
	}
	d.log.Info("vulkan: debug report callback enabled")
	return nil
}
