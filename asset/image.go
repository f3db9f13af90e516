// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package asset

import (
	"bytes"
	"fmt"
	"image"
	"io"

	// registered image decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/disintegration/imaging"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/korufx/device"
	"github.com/devblok/korufx/render"
)

// LoadImage decodes a png, jpeg, gif, bmp, tiff or webp image into 8 bit
// RGBA pixel data. With flip set the rows are reversed so the top of the
// image ends up at the top of a texture.
func LoadImage(r io.Reader, flip bool) (*render.ImageData, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if flip {
		img = imaging.FlipV(img)
	}
	log.WithFields(log.Fields{
		"format": format,
		"width":  img.Bounds().Dx(),
		"height": img.Bounds().Dy(),
	}).Debug("image decoded")
	return render.NewImageData(img), nil
}

// LoadTexture decodes the image at name into a new 2D texture.
func LoadTexture(dev device.Device, src Source, name string) (*render.Texture, error) {
	contents, err := src.ReadFile(name)
	if err != nil {
		return nil, err
	}
	img, err := LoadImage(bytes.NewReader(contents), true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	tex := render.NewTexture(dev, device.Texture2D)
	if err := tex.SetImage2D(img); err != nil {
		tex.Release()
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return tex, nil
}
