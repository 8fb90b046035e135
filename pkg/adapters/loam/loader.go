// Package loam reads machine definitions from a Loam document repository.
// Each document is one machine; its frontmatter carries the definition.
package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/turing/pkg/definition"
	"github.com/aretw0/turing/pkg/domain"
)

// Loader adapts a typed Loam repository to the ports.TableLoader interface.
type Loader struct {
	Repo *loam.TypedRepository[definition.Definition]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[definition.Definition]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initialises a read-only Loam repository at path and wraps it.
func Open(path string) (*Loader, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[definition.Definition](repo)), nil
}

// Load retrieves the machine stored under name ("flipper" finds flipper.md).
func (l *Loader) Load(ctx context.Context, name string) (definition.Definition, error) {
	doc, err := l.Repo.Get(ctx, name)
	if err != nil {
		return definition.Definition{}, fmt.Errorf("%w: %s: %w", domain.ErrTableNotFound, name, err)
	}

	def := doc.Data
	if def.Name == "" {
		def.Name = trimExtension(doc.ID)
	}
	return def, nil
}

// List lists all machines in the repository.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	names := make([]string, 0, len(docs))
	for _, doc := range docs {
		name := trimExtension(doc.ID)
		if existing, ok := seen[name]; ok {
			return nil, fmt.Errorf("collision detected: machine '%s' is defined in both '%s' and '%s'", name, existing, doc.ID)
		}
		seen[name] = doc.ID
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func trimExtension(id string) string {
	return filepath.ToSlash(strings.TrimSuffix(id, filepath.Ext(id)))
}
