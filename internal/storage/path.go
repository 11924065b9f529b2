package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// NewImageID generates the identifier used in recipe image storage keys.
// It is a package variable so tests can substitute a deterministic source.
var NewImageID = func() string {
	return uuid.New().String()
}

// RecipeImagePath builds the storage key for an uploaded recipe image.
// The key is derived from a freshly generated identifier plus the
// extension of the original filename; nothing else from the client-
// supplied name is used, so keys never collide or traverse directories.
func RecipeImagePath(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("uploads/recipe/%s%s", NewImageID(), ext)
}
