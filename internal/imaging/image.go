// Package imaging converte lotes de imagens em ponto flutuante para PNG.
package imaging

import (
	"errors"
	"fmt"
	"math"
)

// Image guarda amostras em [0,1] no layout altura x largura x canal (row-major, canal por último).
type Image struct {
	Height   int
	Width    int
	Channels int
	Pix      []float32
}

// Batch é uma sequência ordenada de imagens.
type Batch []Image

// New aloca uma imagem zerada.
func New(height, width, channels int) Image {
	return Image{
		Height:   height,
		Width:    width,
		Channels: channels,
		Pix:      make([]float32, height*width*channels),
	}
}

// At retorna a amostra do canal c no pixel (y, x).
func (img Image) At(y, x, c int) float32 {
	return img.Pix[(y*img.Width+x)*img.Channels+c]
}

// Set grava a amostra do canal c no pixel (y, x).
func (img Image) Set(y, x, c int, v float32) {
	img.Pix[(y*img.Width+x)*img.Channels+c] = v
}

// Validate confere dimensões, canais suportados e ausência de NaN.
func (img Image) Validate() error {
	if img.Height <= 0 || img.Width <= 0 {
		return fmt.Errorf("imaging: dimensões inválidas %dx%d", img.Width, img.Height)
	}
	switch img.Channels {
	case 1, 3, 4:
	default:
		return fmt.Errorf("imaging: %d canais não suportados", img.Channels)
	}
	if want := img.Height * img.Width * img.Channels; len(img.Pix) != want {
		return fmt.Errorf("imaging: esperava %d amostras, recebi %d", want, len(img.Pix))
	}
	for _, v := range img.Pix {
		if math.IsNaN(float64(v)) {
			return errors.New("imaging: amostra NaN")
		}
	}
	return nil
}
