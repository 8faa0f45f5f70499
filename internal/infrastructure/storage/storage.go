// Package storage holds the image stores behind ports.ImageStore. Stored
// images are addressed by a public path of the form /uploads/<name>.
package storage

import (
	"fmt"
	"path"
	"strings"

	"github.com/alayatales/temple-api/internal/core/domain"
)

// PublicPrefix is the URL prefix uploaded images are served under.
const PublicPrefix = "/uploads/"

// PublicPath returns the public path of a stored image name.
func PublicPath(name string) string {
	return PublicPrefix + name
}

// NameFromPath extracts the stored name from a public path and rejects
// anything that would escape the upload root.
func NameFromPath(publicPath string) (string, error) {
	name, ok := strings.CutPrefix(publicPath, PublicPrefix)
	if !ok {
		return "", fmt.Errorf("%w: %q is not an upload path", domain.ErrValidation, publicPath)
	}
	if err := checkName(name); err != nil {
		return "", err
	}
	return name, nil
}

func checkName(name string) error {
	if name == "" || name == "." || name == ".." || name != path.Base(name) || strings.ContainsRune(name, '\\') {
		return fmt.Errorf("%w: invalid image name %q", domain.ErrValidation, name)
	}
	return nil
}
