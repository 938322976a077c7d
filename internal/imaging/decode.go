package imaging

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
)

// Decode lê PNG, JPEG ou GIF e devolve amostras normalizadas em [0,1].
func Decode(r io.Reader) (Image, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return Image{}, fmt.Errorf("imaging: decodificar: %w", err)
	}
	return FromImage(src), nil
}

// FromImage normaliza uma image.Image; o canal alfa só é mantido se houver transparência.
func FromImage(src image.Image) Image {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	nrgba := make([]color.NRGBA, 0, width*height)
	opaque := true
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			if c.A != 0xff {
				opaque = false
			}
			nrgba = append(nrgba, c)
		}
	}

	channels := 4
	if opaque {
		channels = 3
	}

	img := New(height, width, channels)
	for i, c := range nrgba {
		base := i * channels
		img.Pix[base] = float32(c.R) / 255
		img.Pix[base+1] = float32(c.G) / 255
		img.Pix[base+2] = float32(c.B) / 255
		if channels == 4 {
			img.Pix[base+3] = float32(c.A) / 255
		}
	}
	return img
}
