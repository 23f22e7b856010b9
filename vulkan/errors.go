package vulkan

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/andewx/dieselrhi/rhi"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

func isError(ret vk.Result) bool {
	return ret != vk.Success
}

// newError wraps a failing native result with the name of the operation and
// a stack trace. It returns nil for vk.Success.
func newError(ret vk.Result, op string) error {
	if ret == vk.Success {
		return nil
	}
	return errors.Wrapf(vk.Error(ret), "vulkan: %s (%d)", op, ret)
}

func errorsForeign[K rhi.Kind](h rhi.Handle[K]) error {
	return errors.Wrapf(rhi.ErrForeignHandle, "vulkan: %s", rhi.KindOf(h))
}

func orPanic(err error) {
	if err != nil {
		panic(err)
	}
}

func checkErr(err *error) {
	if v := recover(); v != nil {
		if e, ok := v.(error); ok {
			*err = e
			return
		}
		*err = fmt.Errorf("%+v", v)
	}
}

// Fatal runs the finalizers and exits when err is not nil. Meant for drivers
// that cannot continue without a device.
func Fatal(err error, finalizers ...func()) {
	if err == nil {
		return
	}
	for _, fn := range finalizers {
		fn()
	}
	slog.Error("fatal", "err", fmt.Sprintf("%+v", err))
	os.Exit(1)
}
