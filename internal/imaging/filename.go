package imaging

import "strings"

const (
	// DefaultExt é a extensão usada quando o nome não traz extensão raster reconhecida.
	DefaultExt = ".png"
	// DefaultFilename é usado quando o host envia nome vazio.
	DefaultFilename = "output.png"
	// ContentType do corpo enviado ao storage.
	ContentType = "image/png"
)

var rasterExts = []string{".png", ".jpg", ".jpeg"}

// NormalizeFilename mantém nomes .png/.jpg/.jpeg (sem diferenciar caixa) e troca
// qualquer outra extensão por .png, preservando o nome base.
func NormalizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultFilename
	}

	lower := strings.ToLower(name)
	for _, ext := range rasterExts {
		if strings.HasSuffix(lower, ext) {
			return name
		}
	}
	return trimExt(name) + DefaultExt
}

// trimExt remove a extensão do último segmento; pontos iniciais (".env") não contam como extensão.
func trimExt(name string) string {
	base := name[strings.LastIndex(name, "/")+1:]
	dot := strings.LastIndex(base, ".")
	if dot <= 0 || strings.Trim(base[:dot], ".") == "" {
		return name
	}
	return name[:len(name)-len(base)+dot]
}
