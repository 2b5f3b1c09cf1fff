// internal/registry/memory.go
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	custom_errors "repo-init-service/internal/errors"
	"repo-init-service/internal/model"
)

// Memory is an in-process repository registry. It records initialized
// repositories by name and assigns default locations below root.
type Memory struct {
	mu     sync.RWMutex
	repos  map[string]model.Repository
	root   string
	now    func() time.Time
	logger *slog.Logger
}

// NewMemory creates a registry that places repositories without an explicit
// location under root.
func NewMemory(root string, logger *slog.Logger) (*Memory, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve repositories root %q: %w", root, err)
	}
	return &Memory{
		repos:  make(map[string]model.Repository),
		root:   abs,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}, nil
}

// Init registers a repository described by hints.
func (m *Memory) Init(ctx context.Context, hints model.Hints) (model.Repository, error) {
	if err := ctx.Err(); err != nil {
		return model.Repository{}, err
	}

	if err := model.CheckRepositoryName(hints.RepositoryName); err != nil {
		return model.Repository{}, err
	}

	location := hints.RepositoryURL
	if location == "" {
		location = m.defaultLocation(hints.RepositoryName)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.repos[hints.RepositoryName]; exists {
		return model.Repository{}, &custom_errors.ErrRepositoryExists{Name: hints.RepositoryName}
	}

	repo := model.Repository{
		ID:        uuid.New(),
		Name:      hints.RepositoryName,
		Location:  location,
		CreatedAt: m.now(),
	}
	m.repos[repo.Name] = repo
	m.logger.Info("Repository initialized", "repository", repo.Name, "id", repo.ID, "location", redact(location))

	return repo, nil
}

// Lookup returns the repository registered under name.
func (m *Memory) Lookup(_ context.Context, name string) (model.Repository, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	repo, ok := m.repos[name]
	if !ok {
		return model.Repository{}, &custom_errors.ErrRepositoryNotFound{Name: name}
	}
	return repo, nil
}

// List returns all registered repositories ordered by name.
func (m *Memory) List(_ context.Context) ([]model.Repository, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	repos := make([]model.Repository, 0, len(m.repos))
	for _, r := range m.repos {
		repos = append(repos, r)
	}
	sort.Slice(repos, func(i, j int) bool { return repos[i].Name < repos[j].Name })
	return repos, nil
}

func (m *Memory) defaultLocation(name string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Join(m.root, name))}
	return u.String()
}

// redact hides credentials carried in the query of a location.
func redact(location string) string {
	u, err := url.Parse(location)
	if err != nil {
		return ""
	}
	q := u.Query()
	if q.Has("password") {
		q.Set("password", "xxxxx")
		u.RawQuery = q.Encode()
	}
	return u.Redacted()
}
