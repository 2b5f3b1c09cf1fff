// internal/initreq/initreq.go
package initreq

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cast"

	custom_errors "repo-init-service/internal/errors"
	"repo-init-service/internal/model"
	"repo-init-service/internal/pgconfig"
)

// Request attribute and body parameter names.
const (
	RepoAttr = "repository"

	DirParentDir = "parentDirectory"

	DBHost     = "dbHost"
	DBPort     = "dbPort"
	DBName     = "dbName"
	DBSchema   = "dbSchema"
	DBUser     = "dbUser"
	DBPassword = "dbPassword"
)

const (
	mediaTypeJSON = "application/json"
	mediaTypeForm = "application/x-www-form-urlencoded"

	maxBodyBytes = 1 << 20
)

// Mapper turns init requests into repository Hints. It holds no per-request
// state and is safe for concurrent use.
type Mapper struct {
	logger *slog.Logger
}

// NewMapper creates a new Mapper.
func NewMapper(logger *slog.Logger) *Mapper {
	return &Mapper{logger: logger}
}

// HintsFromRequest extracts the repository name from the route and the
// optional location parameters from the body.
func (m *Mapper) HintsFromRequest(r *http.Request) (*model.Hints, error) {
	name, err := RepositoryName(r)
	if err != nil {
		return nil, err
	}
	hints := &model.Hints{RepositoryName: name}
	logger := m.logger.With("repository", name)

	params, err := readParams(r)
	if err != nil {
		return nil, err
	}

	if parent, ok := params.get(DirParentDir); ok {
		u, err := fileURI(parent, name)
		if err != nil {
			return nil, err
		}
		hints.RepositoryURL = u.String()
		logger.Debug("Using directory repository", "parent_directory", parent)
		return hints, nil
	}

	if cfg, ok := databaseConfig(params, logger); ok {
		hints.RepositoryURL = cfg.URIForRepository(name).String()
		logger.Debug("Using postgres repository", "host", cfg.Host, "port", cfg.Port, "database", cfg.Database, "schema", cfg.Schema)
		return hints, nil
	}

	logger.Debug("No repository location requested")
	return hints, nil
}

// RepositoryName returns the unescaped repository route parameter. The name
// must be usable as a single directory name.
func RepositoryName(r *http.Request) (string, error) {
	name := chi.URLParam(r, RepoAttr)
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	if err := model.CheckRepositoryName(name); err != nil {
		return "", err
	}
	return name, nil
}

// params holds flat body parameters. Values are used verbatim; empty values
// count as absent.
type params map[string]string

func (p params) get(key string) (string, bool) {
	v := p[key]
	return v, v != ""
}

func (p params) getOr(key, fallback string) string {
	if v, ok := p.get(key); ok {
		return v
	}
	return fallback
}

func readParams(r *http.Request) (params, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return params{}, nil
	}
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return params{}, nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return params{}, nil
	}

	switch mediaType {
	case mediaTypeForm:
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			return nil, &custom_errors.ErrMalformedBody{MediaType: mediaType, Err: err}
		}
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return nil, &custom_errors.ErrMalformedBody{MediaType: mediaType, Err: err}
		}
		p := make(params, len(values))
		for k := range values {
			p[k] = values.Get(k)
		}
		return p, nil

	case mediaTypeJSON:
		var raw map[string]any
		dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
		err := dec.Decode(&raw)
		if errors.Is(err, io.EOF) {
			return params{}, nil
		}
		if err != nil {
			return nil, &custom_errors.ErrMalformedBody{MediaType: mediaType, Err: err}
		}
		if _, err := dec.Token(); !errors.Is(err, io.EOF) {
			if err == nil {
				err = errors.New("unexpected data after JSON object")
			}
			return nil, &custom_errors.ErrMalformedBody{MediaType: mediaType, Err: err}
		}
		p := make(params, len(raw))
		for k, v := range raw {
			// nested objects and arrays are not parameters
			switch v.(type) {
			case map[string]any, []any, nil:
				continue
			}
			s, err := cast.ToStringE(v)
			if err != nil {
				continue
			}
			p[k] = s
		}
		return p, nil
	}

	return params{}, nil
}

// fileURI places the repository directly below parent.
func fileURI(parent, name string) (*url.URL, error) {
	abs, err := filepath.Abs(parent)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve parent directory %q: %w", parent, err)
	}
	return &url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Join(abs, name))}, nil
}

// databaseConfig builds a DatabaseConfig when both the database name and
// password are supplied; everything else falls back to defaults.
func databaseConfig(p params, logger *slog.Logger) (pgconfig.DatabaseConfig, bool) {
	database, hasDatabase := p.get(DBName)
	password, hasPassword := p.get(DBPassword)
	if !hasDatabase || !hasPassword {
		if hasDatabase || hasPassword {
			logger.Debug("Ignoring incomplete database parameters", "has_database", hasDatabase, "has_password", hasPassword)
		}
		return pgconfig.DatabaseConfig{}, false
	}

	cfg := pgconfig.New()
	cfg.Database = database
	cfg.Password = password
	if host, ok := p.get(DBHost); ok {
		if pgconfig.ValidHost(host) {
			cfg.Host = host
		} else {
			logger.Debug("Invalid database host, using default", "host", host, "default", cfg.Host)
		}
	}
	cfg.Schema = p.getOr(DBSchema, cfg.Schema)
	cfg.Username = p.getOr(DBUser, cfg.Username)

	if raw, ok := p.get(DBPort); ok {
		port, err := strconv.Atoi(raw)
		if err != nil || port < 1 || port > 65535 {
			logger.Debug("Invalid database port, using default", "port", raw, "default", cfg.Port)
		} else {
			cfg.Port = port
		}
	}
	return cfg, true
}
