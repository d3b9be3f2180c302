// Package templates provides the prompt template stores: a local
// filesystem directory and a MinIO bucket. Both are read-only after
// startup and safe for concurrent use.
package templates

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	domain "github.com/bryanwahyu/mindanalyzer/internal/domain/analysis"
)

// FSStore loads templates from a directory, one <name>.txt per resource
type FSStore struct {
	dir string
}

func NewFSStore(dir string) *FSStore {
	return &FSStore{dir: dir}
}

func (s *FSStore) Load(_ context.Context, name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name+".txt"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", domain.Ef(domain.CodeTemplateMissing, "template %s not found in %s", name, s.dir)
		}
		return "", fmt.Errorf("read template %s: %w", name, err)
	}
	return strings.TrimSpace(string(data)), nil
}
