package imaging

// Kind discrimina a forma da entrada recebida do host.
type Kind int

const (
	KindSingle Kind = iota + 1
	KindBatch
)

func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindBatch:
		return "batch"
	default:
		return "unknown"
	}
}

// Input é a variante {Single, Batch} decidida uma única vez na fronteira.
type Input struct {
	kind   Kind
	images Batch
}

// NewSingle embrulha uma imagem avulsa.
func NewSingle(img Image) Input {
	return Input{kind: KindSingle, images: Batch{img}}
}

// NewBatch embrulha um lote; o slice não é copiado.
func NewBatch(images Batch) Input {
	return Input{kind: KindBatch, images: images}
}

func (in Input) Kind() Kind {
	return in.kind
}

func (in Input) Len() int {
	return len(in.images)
}

// Images devolve a visão em lote; uma imagem avulsa é um lote de tamanho 1.
func (in Input) Images() Batch {
	return in.images
}

// First devolve a primeira imagem, se houver.
func (in Input) First() (Image, bool) {
	if len(in.images) == 0 {
		return Image{}, false
	}
	return in.images[0], true
}
