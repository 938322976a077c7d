package util

import "github.com/google/uuid"

// ShortID devolve os 8 primeiros caracteres de um UUID v4 aleatório.
func ShortID() string {
	return uuid.NewString()[:8]
}
