// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package device_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/devblok/korufx/device"
)

func TestFormatCompatibility(t *testing.T) {
	tests := []struct {
		format device.Format
		point  device.Attachment
		ok     bool
	}{
		{device.RGBA8, device.Color0, true},
		{device.R32UI, device.Color7, true},
		{device.RGBA8, device.DepthStencil, false},
		{device.D24S8, device.DepthStencil, true},
		{device.D24S8, device.Depth, false},
		{device.D24S8, device.Color0, false},
		{device.D32F, device.Depth, true},
		{device.D16, device.Color1, false},
		{device.S8, device.Stencil, true},
		{device.FormatUndefined, device.Color0, false},
		{device.Format(1000), device.Color0, false},
	}
	for _, test := range tests {
		c := qt.New(t)
		c.Assert(test.format.CompatibleWith(test.point), qt.Equals, test.ok,
			qt.Commentf("%v at %v", test.format, test.point))
	}
}

func TestFormatTransfer(t *testing.T) {
	c := qt.New(t)

	pixels, ptype := device.RGBA8.TransferFormat()
	c.Assert(pixels, qt.Equals, device.PixelRGBA)
	c.Assert(ptype, qt.Equals, device.U8)

	pixels, ptype = device.RG32I.TransferFormat()
	c.Assert(pixels, qt.Equals, device.PixelRGInteger)
	c.Assert(ptype, qt.Equals, device.I32)

	pixels, ptype = device.D24S8.TransferFormat()
	c.Assert(pixels, qt.Equals, device.PixelDepthStencil)
	c.Assert(ptype, qt.Equals, device.U24S8)

	c.Assert(device.RGB16UI.Integer(), qt.IsTrue)
	c.Assert(device.RGB16.Integer(), qt.IsFalse)
	c.Assert(device.RGB16.Components(), qt.Equals, 3)
	c.Assert(device.RGBA32F.String(), qt.Equals, "RGBA32F")
	c.Assert(device.Format(-1).String(), qt.Equals, "Format(-1)")
}

func TestAttachmentPoints(t *testing.T) {
	c := qt.New(t)

	c.Assert(device.ColorAttachment(3), qt.Equals, device.Color3)
	c.Assert(device.Color3.ColorIndex(), qt.Equals, 3)
	c.Assert(device.Depth.IsColor(), qt.IsFalse)
	c.Assert(device.Depth.ColorIndex(), qt.Equals, -1)
	c.Assert(device.ColorAttachment(12).String(), qt.Equals, "Color12")
	c.Assert(device.DepthStencil.String(), qt.Equals, "DepthStencil")
}
