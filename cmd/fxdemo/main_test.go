package main

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/devblok/korufx/asset"
	"github.com/devblok/korufx/core"
	"github.com/devblok/korufx/device"
	"github.com/devblok/korufx/device/devicetest"
	"github.com/devblok/korufx/render/postprocess"
)

func TestFrame(t *testing.T) {
	c := qt.New(t)
	dev := devicetest.New()
	src := asset.DirSource("assets")

	configuration.Assets = core.AssetConfiguration{Pipeline: "pipeline.yaml", Model: "cube.dae"}
	tm := core.NewTime(core.TimeConfiguration{FramesPerSecond: 60, EventPollDelay: 10})
	defer tm.Stop()

	scene, err := NewScene(dev, src, "cube.dae", 320, 240)
	c.Assert(err, qt.IsNil)
	stack, err := loadStack(dev, src, 320, 240, &tm)
	c.Assert(err, qt.IsNil)
	c.Assert(stack.Len(), qt.Equals, 3)

	c.Assert(frame(dev, scene, stack, 0.5), qt.IsNil)
	c.Assert(dev.Errors, qt.HasLen, 0)
	c.Assert(dev.Dispatches, qt.HasLen, 1)
	c.Assert(dev.Draws, qt.HasLen, 3)

	sceneDraw := dev.Draws[0]
	c.Assert(sceneDraw.Count, qt.Equals, 36)
	c.Assert(sceneDraw.Framebuffer, qt.Equals, scene.RenderTarget().FramebufferHandle())
	c.Assert(dev.Dispatches[0].TextureUnits[0], qt.Equals, scene.RenderTarget().Texture(device.Color0).Handle())
	c.Assert(dev.Draws[1].Count, qt.Equals, postprocess.QuadVertices)
	c.Assert(dev.Draws[2].Framebuffer, qt.Equals, device.DefaultFramebuffer)
	c.Assert(dev.Draws[2].Viewport, qt.Equals, [4]int{0, 0, 320, 240})

	state, ok := dev.Program(scene.program.Handle())
	c.Assert(ok, qt.IsTrue)
	light, ok := state.Uniform("uLight")
	c.Assert(ok, qt.IsTrue)
	c.Assert(light, qt.Equals, [3]float32{lightDirection.X(), lightDirection.Y(), lightDirection.Z()})

	grain := stack.Stages()[1].(*postprocess.Stack).Stages()[0].(*postprocess.RenderStage)
	state, ok = dev.Program(grain.Program().Handle())
	c.Assert(ok, qt.IsTrue)
	_, ok = state.Uniform("uTime")
	c.Assert(ok, qt.IsTrue)

	// frames after the first allocate nothing
	allocations := dev.Allocations()
	c.Assert(frame(dev, scene, stack, 1.0), qt.IsNil)
	c.Assert(dev.Allocations(), qt.Equals, allocations)

	stack.Release()
	scene.Release()
	c.Assert(dev.Live().Total(), qt.Equals, 0)
}

func TestSceneMissingModel(t *testing.T) {
	c := qt.New(t)
	dev := devicetest.New()

	_, err := NewScene(dev, asset.DirSource("assets"), "missing.dae", 320, 240)
	c.Assert(err, qt.ErrorIs, asset.ErrNotFound)
	c.Assert(dev.Live().Total(), qt.Equals, 0)
}

func TestQuitRequested(t *testing.T) {
	c := qt.New(t)
	c.Assert(quitRequested(&sdl.QuitEvent{}), qt.IsTrue)
	c.Assert(quitRequested(&sdl.KeyboardEvent{Keysym: sdl.Keysym{Sym: sdl.K_ESCAPE}}), qt.IsTrue)
	c.Assert(quitRequested(&sdl.KeyboardEvent{Keysym: sdl.Keysym{Sym: sdl.K_SPACE}}), qt.IsFalse)
	c.Assert(quitRequested(&sdl.MouseMotionEvent{}), qt.IsFalse)
}

func TestDrawableSize(t *testing.T) {
	c := qt.New(t)
	configuration.Renderer = core.RendererConfiguration{ScreenWidth: 800, ScreenHeight: 600}

	width, height := drawableSize(1600, 1200)
	c.Assert([2]int{width, height}, qt.Equals, [2]int{1600, 1200})
	width, height = drawableSize(0, 0)
	c.Assert([2]int{width, height}, qt.Equals, [2]int{800, 600})
}
