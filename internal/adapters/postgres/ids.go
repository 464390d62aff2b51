package postgres

import (
	"fmt"

	"github.com/google/uuid"
)

// ParseID converts a domain id into the uuid stored in the database.
func ParseID[T ~string](kind string, id T) (uuid.UUID, error) {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("invalid %s id: %w", kind, err)
	}
	return u, nil
}
