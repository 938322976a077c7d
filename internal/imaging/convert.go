package imaging

import (
	"bytes"
	"image"
	"image/png"
)

// ToByte escala para [0,255], satura e trunca.
func ToByte(v float32) uint8 {
	s := float64(v) * 255
	if s <= 0 {
		return 0
	}
	if s >= 255 {
		return 255
	}
	return uint8(s)
}

// ToNRGBA converte a imagem para 8 bits por canal.
// Um canal vira cinza replicado; três canais recebem alfa opaco.
func ToNRGBA(img Image) (*image.NRGBA, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}

	out := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			base := (y*img.Width + x) * img.Channels
			dst := out.PixOffset(x, y)
			switch img.Channels {
			case 1:
				g := ToByte(img.Pix[base])
				out.Pix[dst], out.Pix[dst+1], out.Pix[dst+2], out.Pix[dst+3] = g, g, g, 0xff
			case 3:
				out.Pix[dst] = ToByte(img.Pix[base])
				out.Pix[dst+1] = ToByte(img.Pix[base+1])
				out.Pix[dst+2] = ToByte(img.Pix[base+2])
				out.Pix[dst+3] = 0xff
			case 4:
				out.Pix[dst] = ToByte(img.Pix[base])
				out.Pix[dst+1] = ToByte(img.Pix[base+1])
				out.Pix[dst+2] = ToByte(img.Pix[base+2])
				out.Pix[dst+3] = ToByte(img.Pix[base+3])
			}
		}
	}
	return out, nil
}

// EncodePNG converte e codifica a imagem em memória.
func EncodePNG(img Image) ([]byte, error) {
	rgba, err := ToNRGBA(img)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	if err := enc.Encode(&buf, rgba); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
