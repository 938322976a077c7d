package uploader

import (
	"fmt"
	"strings"
	"time"

	"github.com/ahmedbana/upload-to-azure/internal/imaging"
	"github.com/ahmedbana/upload-to-azure/internal/util"
)

// Namer gera nomes únicos de blob: {unix}_{generationId}_{id8}_{indice}.png ou {unix}_{id8}_{indice}.png.
type Namer struct {
	Now   func() time.Time
	NewID func() string
}

func (n Namer) Name(generationID string, index int) string {
	now := time.Now
	if n.Now != nil {
		now = n.Now
	}
	newID := util.ShortID
	if n.NewID != nil {
		newID = n.NewID
	}

	ts := now().Unix()
	if gen := strings.TrimSpace(generationID); gen != "" {
		return fmt.Sprintf("%d_%s_%s_%d%s", ts, gen, newID(), index, imaging.DefaultExt)
	}
	return fmt.Sprintf("%d_%s_%d%s", ts, newID(), index, imaging.DefaultExt)
}
