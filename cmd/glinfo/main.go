// Command glinfo prints the driver strings and limits of an OpenGL 4.6
// context as JSON.
package main

import (
	"encoding/json"
	"fmt"
	"runtime"

	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/devblok/korufx/device/opengl"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		log.WithError(err).Fatal("Failed to initialise SDL")
	}
	defer sdl.Quit()

	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 6)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)

	window, err := sdl.CreateWindow("glinfo", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		1, 1, sdl.WINDOW_OPENGL|sdl.WINDOW_HIDDEN)
	if err != nil {
		log.WithError(err).Fatal("Failed to create window")
	}
	defer window.Destroy()

	ctx, err := window.GLCreateContext()
	if err != nil {
		log.WithError(err).Fatal("Failed to create GL 4.6 core context")
	}
	defer sdl.GLDeleteContext(ctx)

	dev, err := opengl.New(sdl.GLGetProcAddress, opengl.Configuration{})
	if err != nil {
		log.WithError(err).Fatal("Failed to load OpenGL")
	}

	if bytes, err := json.MarshalIndent(dev.Info(), "", "  "); err == nil {
		fmt.Printf("%s\n", bytes)
	} else {
		log.WithError(err).Fatal("Failed to encode device info")
	}
}
