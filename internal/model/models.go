// internal/model/models.go
package model

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	custom_errors "repo-init-service/internal/errors"
)

// CheckRepositoryName reports whether name can be used as a single path
// segment below a parent directory.
func CheckRepositoryName(name string) error {
	switch {
	case name == "":
		return &custom_errors.ErrMissingAttribute{Attribute: "repository"}
	case name == "." || name == "..":
		return &custom_errors.ErrInvalidAttribute{Attribute: "repository", Value: name, Reason: "relative path element"}
	case strings.ContainsAny(name, "/\\\x00"):
		return &custom_errors.ErrInvalidAttribute{Attribute: "repository", Value: name, Reason: "contains a path separator"}
	}
	return nil
}

// Hints is the configuration handed to the repository initializer.
// An empty RepositoryURL means no location was requested and the
// initializer picks one.
type Hints struct {
	RepositoryName string `json:"repository-name"`
	RepositoryURL  string `json:"repository-url,omitempty"`
}

// Location returns the parsed repository URL, if one is set.
func (h Hints) Location() (*url.URL, bool) {
	if h.RepositoryURL == "" {
		return nil, false
	}
	u, err := url.Parse(h.RepositoryURL)
	if err != nil {
		return nil, false
	}
	return u, true
}

// Repository is an initialized repository as reported by the initializer.
type Repository struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
}
