// Command triangle opens a window and draws a spinning, depth tested
// triangle through the rhi.Device interface. It exercises the whole device
// lifecycle, including swapchain recreation when the window is resized.
//
// Usage:
//
//	triangle -vert tri.vert.spv -frag tri.frag.spv [-config triangle.toml] [-v]
package main

import (
	"flag"
	"log/slog"
	"os"
	"runtime"

	"github.com/andewx/dieselrhi/rhi"
	"github.com/andewx/dieselrhi/vulkan"
	"github.com/andewx/dieselrhi/window"
	"github.com/pkg/errors"
)

var (
	configPath = flag.String("config", "", "TOML config file; defaults apply when empty")
	vertPath   = flag.String("vert", "", "SPIR-V vertex shader")
	fragPath   = flag.String("frag", "", "SPIR-V fragment shader")
	verbose    = flag.Bool("v", false, "log debug output")
)

func init() {
	// GLFW event handling must run on the main thread.
	runtime.LockOSThread()
}

func loadConfig() (rhi.Config, error) {
	if *configPath == "" {
		return rhi.DefaultConfig().WithDefaults(), nil
	}
	return rhi.LoadConfigFile(*configPath)
}

func readShaders() (vert, frag []byte, err error) {
	if *vertPath == "" || *fragPath == "" {
		return nil, nil, errors.New("both -vert and -frag are required")
	}
	if vert, err = os.ReadFile(*vertPath); err != nil {
		return nil, nil, errors.Wrap(err, "read vertex shader")
	}
	if frag, err = os.ReadFile(*fragPath); err != nil {
		return nil, nil, errors.Wrap(err, "read fragment shader")
	}
	return vert, frag, nil
}

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	cfg, err := loadConfig()
	vulkan.Fatal(err)
	vert, frag, err := readShaders()
	vulkan.Fatal(err)

	vulkan.Fatal(window.Init())
	win, err := window.New(cfg.Window)
	vulkan.Fatal(err, window.Terminate)

	dev, err := vulkan.NewDevice(rhi.InitInfo{
		Window: win,
		Config: cfg,
		Logger: log,
	})
	vulkan.Fatal(err, win.Destroy, window.Terminate)

	r, err := newRenderer(dev, log, vert, frag)
	vulkan.Fatal(err, dev.Destroy, win.Destroy, window.Terminate)

	for !win.ShouldClose() {
		win.PollEvents()
		if err = r.draw(); err != nil {
			break
		}
	}

	if idleErr := dev.WaitIdle(); idleErr != nil {
		log.Warn("triangle: wait idle", "err", idleErr)
	}
	r.destroy()
	dev.Destroy()
	win.Destroy()
	window.Terminate()
	vulkan.Fatal(err)
}
