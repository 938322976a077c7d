package uploader

import (
	"strconv"
	"strings"
)

// ParseSceneOrder divide a lista por vírgulas e ajusta ao tamanho do lote:
// posições faltantes recebem o próprio índice; excedentes são descartados.
func ParseSceneOrder(raw string, n int) []string {
	if n <= 0 {
		return nil
	}

	scenes := make([]string, 0, n)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		scenes = append(scenes, part)
		if len(scenes) == n {
			return scenes
		}
	}
	for i := len(scenes); i < n; i++ {
		scenes = append(scenes, strconv.Itoa(i))
	}
	return scenes
}
