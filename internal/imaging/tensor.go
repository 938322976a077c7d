package imaging

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// FromTensor interpreta o campo "image" enviado pelo host.
// Aceita array 3-D (uma imagem HWC), array 4-D (lote NHWC) ou string base64 de PNG/JPEG/GIF.
func FromTensor(raw json.RawMessage) (Input, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Input{}, errors.New("imaging: imagem ausente")
	}

	if trimmed[0] == '"' {
		var encoded string
		if err := json.Unmarshal(trimmed, &encoded); err != nil {
			return Input{}, fmt.Errorf("imaging: string inválida: %w", err)
		}
		return fromBase64(encoded)
	}

	var batch [][][][]float32
	if err := json.Unmarshal(trimmed, &batch); err == nil {
		if len(batch) == 0 {
			return Input{}, errors.New("imaging: lote vazio")
		}
		images := make(Batch, 0, len(batch))
		for i, rows := range batch {
			img, err := fromRows(rows)
			if err != nil {
				return Input{}, fmt.Errorf("imaging: imagem %d: %w", i, err)
			}
			images = append(images, img)
		}
		return NewBatch(images), nil
	}

	var rows [][][]float32
	if err := json.Unmarshal(trimmed, &rows); err != nil {
		return Input{}, errors.New("imaging: tensor deve ter 3 ou 4 dimensões")
	}
	img, err := fromRows(rows)
	if err != nil {
		return Input{}, fmt.Errorf("imaging: %w", err)
	}
	return NewSingle(img), nil
}

func fromRows(rows [][][]float32) (Image, error) {
	if len(rows) == 0 || len(rows[0]) == 0 || len(rows[0][0]) == 0 {
		return Image{}, errors.New("tensor vazio")
	}

	height, width, channels := len(rows), len(rows[0]), len(rows[0][0])
	img := New(height, width, channels)
	for y, row := range rows {
		if len(row) != width {
			return Image{}, fmt.Errorf("linha %d com largura %d, esperado %d", y, len(row), width)
		}
		for x, px := range row {
			if len(px) != channels {
				return Image{}, fmt.Errorf("pixel (%d,%d) com %d canais, esperado %d", y, x, len(px), channels)
			}
			copy(img.Pix[(y*width+x)*channels:], px)
		}
	}
	if err := img.Validate(); err != nil {
		return Image{}, err
	}
	return img, nil
}

func fromBase64(encoded string) (Input, error) {
	if i := strings.Index(encoded, ";base64,"); i >= 0 {
		encoded = encoded[i+len(";base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return Input{}, fmt.Errorf("imaging: base64 inválido: %w", err)
	}
	img, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Input{}, err
	}
	return NewSingle(img), nil
}
