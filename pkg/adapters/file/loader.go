package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/turing/pkg/definition"
	"github.com/aretw0/turing/pkg/domain"
)

// Extensions recognised as machine definitions, in lookup priority order.
var Extensions = []string{".yaml", ".yml", ".json", ".tm", ".txt"}

// Loader implements ports.TableLoader over a directory of definition files.
// The machine name is the file name without its extension.
type Loader struct {
	Dir string
}

// NewLoader creates a loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{Dir: dir}
}

// Load reads the first file named name+ext for ext in Extensions.
func (l *Loader) Load(ctx context.Context, name string) (definition.Definition, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return definition.Definition{}, fmt.Errorf("%w: invalid name %q", domain.ErrTableNotFound, name)
	}

	for _, ext := range Extensions {
		path := filepath.Join(l.Dir, name+ext)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		def, err := definition.LoadFile(path)
		if err != nil {
			return definition.Definition{}, err
		}
		def.Name = name
		return def, nil
	}
	return definition.Definition{}, fmt.Errorf("%w: %s", domain.ErrTableNotFound, name)
}

// List returns the names of all definition files in the directory.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list machines: %w", err)
	}

	seen := make(map[string]bool)
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !isDefinition(ext) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func isDefinition(ext string) bool {
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}
