// Command fxdemo renders a model through a post-processing pipeline.
package main

import (
	"runtime"

	"github.com/gobuffalo/packr"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/devblok/korufx/asset"
	"github.com/devblok/korufx/core"
	"github.com/devblok/korufx/device"
	"github.com/devblok/korufx/device/opengl"
	"github.com/devblok/korufx/pipeline"
	"github.com/devblok/korufx/render"
	"github.com/devblok/korufx/render/postprocess"
)

func init() {
	runtime.LockOSThread()
}

// Essential globals
var (
	configuration core.Configuration
	sdlWindow     *sdl.Window
	glContext     sdl.GLContext
)

func newWindow() *sdl.Window {
	attributes := map[sdl.GLattr]int{
		sdl.GL_CONTEXT_MAJOR_VERSION: 4,
		sdl.GL_CONTEXT_MINOR_VERSION: 6,
		sdl.GL_CONTEXT_PROFILE_MASK:  sdl.GL_CONTEXT_PROFILE_CORE,
		sdl.GL_DOUBLEBUFFER:          1,
		sdl.GL_DEPTH_SIZE:            24,
	}
	if configuration.Renderer.Debug {
		attributes[sdl.GL_CONTEXT_FLAGS] = sdl.GL_CONTEXT_DEBUG_FLAG
	}
	for attr, value := range attributes {
		if err := sdl.GLSetAttribute(attr, value); err != nil {
			log.WithError(err).Fatal("Failed to set GL attribute")
		}
	}

	window, err := sdl.CreateWindow(configuration.Renderer.Title,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(configuration.Renderer.ScreenWidth),
		int32(configuration.Renderer.ScreenHeight),
		sdl.WINDOW_OPENGL|sdl.WINDOW_ALLOW_HIGHDPI)
	if err != nil {
		log.WithError(err).Fatal("Failed to create window")
	}
	return window
}

func main() {
	var err error
	if configuration, err = core.LoadConfiguration(); err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}
	configuration.Log.Apply(log.StandardLogger())

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		log.WithError(err).Fatal("Failed to initialise SDL")
	}
	defer sdl.Quit()

	sdlWindow = newWindow()
	defer sdlWindow.Destroy()

	if glContext, err = sdlWindow.GLCreateContext(); err != nil {
		log.WithError(err).Fatal("Failed to create GL context")
	}
	defer sdl.GLDeleteContext(glContext)

	swapInterval := 0
	if configuration.Renderer.VSync {
		swapInterval = 1
	}
	if err := sdl.GLSetSwapInterval(swapInterval); err != nil {
		log.WithError(err).Warn("Swap interval not supported")
	}

	dev, err := opengl.New(sdl.GLGetProcAddress, opengl.Configuration{
		DebugOutput: configuration.Renderer.Debug,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to load OpenGL")
	}

	src, err := asset.Open(configuration.Assets.Path, asset.BoxSource{Box: packr.NewBox("./assets")})
	if err != nil {
		log.WithError(err).Fatal("Failed to open assets")
	}
	defer asset.Close(src)

	width, height := drawableSize(sdlWindow.GLGetDrawableSize())
	log.WithFields(log.Fields{
		"width":  width,
		"height": height,
	}).Info("Drawable size")

	if err := run(dev, src, width, height); err != nil {
		log.WithError(err).Fatal("Demo failed")
	}
}

// drawableSize returns the size of the window framebuffer in pixels, which
// is larger than the window size on HiDPI displays. It falls back to the
// configured size when the driver reports nothing.
func drawableSize(w, h int32) (int, int) {
	if w <= 0 || h <= 0 {
		return configuration.Renderer.ScreenWidth, configuration.Renderer.ScreenHeight
	}
	return int(w), int(h)
}

func run(dev device.Device, src asset.Source, width, height int) error {
	time := core.NewTime(configuration.Time)
	defer time.Stop()

	scene, err := NewScene(dev, src, configuration.Assets.Model, width, height)
	if err != nil {
		return err
	}
	defer scene.Release()

	stack, err := loadStack(dev, src, width, height, &time)
	if err != nil {
		return err
	}
	defer stack.Release()

EventLoop:
	for {
		select {
		case <-time.EventTicker().C:
			if pollEvents() {
				log.Info("Event loop exited")
				break EventLoop
			}
		case <-time.FpsTicker().C:
			if err := frame(dev, scene, stack, time.Elapsed()); err != nil {
				return err
			}
			sdlWindow.GLSwap()
		}
	}
	return nil
}

// pollEvents drains the SDL event queue and reports whether the demo
// should quit.
func pollEvents() bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if quitRequested(event) {
			return true
		}
	}
	return false
}

func quitRequested(event sdl.Event) bool {
	switch et := event.(type) {
	case *sdl.KeyboardEvent:
		return et.Keysym.Sym == sdl.K_ESCAPE
	case *sdl.QuitEvent:
		return true
	}
	return false
}

func loadStack(dev device.Device, src asset.Source, width, height int, time *core.Time) (*postprocess.Stack, error) {
	desc, err := pipeline.Load(src, configuration.Assets.Pipeline)
	if err != nil {
		return nil, err
	}
	return pipeline.Build(dev, src, desc, width, height,
		pipeline.WithStageUniforms("grain", func(p *render.ShaderProgram) {
			p.SetFloat("uTime", time.Elapsed())
		}))
}

// frame draws the scene and runs it through the stack, which ends on the
// screen.
func frame(dev device.Device, scene *Scene, stack *postprocess.Stack, elapsed float32) error {
	scene.Draw(elapsed)
	return stack.Execute(postprocess.State{RenderTarget: scene.RenderTarget()})
}
