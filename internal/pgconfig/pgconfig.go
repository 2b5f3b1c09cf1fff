// internal/pgconfig/pgconfig.go
package pgconfig

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Scheme is the URI scheme of PostgreSQL-backed repository locations.
const Scheme = "postgresql"

// Default connection values. Database and Password have no default.
const (
	DefaultHost     = "localhost"
	DefaultPort     = 5432
	DefaultSchema   = "public"
	DefaultUsername = "postgres"
)

// DatabaseConfig describes where a PostgreSQL-backed repository lives.
type DatabaseConfig struct {
	Host     string
	Port     int
	Database string
	Schema   string
	Username string
	Password string
}

// New returns a DatabaseConfig populated with the default values.
func New() DatabaseConfig {
	return DatabaseConfig{
		Host:     DefaultHost,
		Port:     DefaultPort,
		Schema:   DefaultSchema,
		Username: DefaultUsername,
	}
}

// ValidHost reports whether host survives being written into and parsed back
// out of a URI authority.
func ValidHost(host string) bool {
	if host == "" {
		return false
	}
	u := url.URL{Scheme: Scheme, Host: net.JoinHostPort(host, strconv.Itoa(DefaultPort))}
	parsed, err := url.Parse(u.String())
	if err != nil {
		return false
	}
	return parsed.Hostname() == host && parsed.Port() == strconv.Itoa(DefaultPort)
}

// URIForRepository encodes the config and the repository name as
// postgresql://host:port/<database>/<schema>/<repository>?user=..&password=..
func (c DatabaseConfig) URIForRepository(repository string) *url.URL {
	u := &url.URL{
		Scheme: Scheme,
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
	}
	var path, rawPath strings.Builder
	for _, segment := range []string{c.Database, c.Schema, repository} {
		path.WriteString("/" + segment)
		rawPath.WriteString("/" + url.PathEscape(segment))
	}
	u.Path, u.RawPath = path.String(), rawPath.String()

	q := url.Values{}
	q.Set("user", c.Username)
	q.Set("password", c.Password)
	u.RawQuery = q.Encode()
	return u
}

// FromURI decodes a URI produced by URIForRepository. Parts the URI does not
// carry are filled in with defaults.
func FromURI(u *url.URL) (DatabaseConfig, error) {
	if u == nil || u.Scheme != Scheme {
		return DatabaseConfig{}, fmt.Errorf("not a %s URI: %v", Scheme, u)
	}

	segments, err := pathSegments(u)
	if err != nil {
		return DatabaseConfig{}, err
	}
	if len(segments) == 0 || segments[0] == "" {
		return DatabaseConfig{}, fmt.Errorf("%s URI has no database: %s", Scheme, u.Redacted())
	}

	cfg := New()
	cfg.Database = segments[0]
	if len(segments) > 1 && segments[1] != "" {
		cfg.Schema = segments[1]
	}
	if host := u.Hostname(); host != "" {
		cfg.Host = host
	}
	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return DatabaseConfig{}, fmt.Errorf("invalid port %q: %w", p, err)
		}
		cfg.Port = port
	}

	q := u.Query()
	if user := q.Get("user"); user != "" {
		cfg.Username = user
	}
	cfg.Password = q.Get("password")

	return cfg, nil
}

// RepositoryFromURI returns the repository name segment of a URI produced by
// URIForRepository.
func RepositoryFromURI(u *url.URL) (string, error) {
	segments, err := pathSegments(u)
	if err != nil {
		return "", err
	}
	if len(segments) < 3 || segments[2] == "" {
		return "", fmt.Errorf("%s URI has no repository: %s", Scheme, u.Redacted())
	}
	return segments[2], nil
}

// ConnString renders the config as a libpq connection URL, selecting the
// schema through search_path.
func (c DatabaseConfig) ConnString() string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.Username, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Database,
	}
	q := url.Values{}
	q.Set("search_path", c.Schema)
	u.RawQuery = q.Encode()
	return u.String()
}

// ConnConfig parses ConnString with pgx. No connection is made.
func (c DatabaseConfig) ConnConfig() (*pgx.ConnConfig, error) {
	cc, err := pgx.ParseConfig(c.ConnString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}
	return cc, nil
}

func pathSegments(u *url.URL) ([]string, error) {
	raw := strings.Split(strings.TrimPrefix(u.EscapedPath(), "/"), "/")
	segments := make([]string, len(raw))
	for i, s := range raw {
		v, err := url.PathUnescape(s)
		if err != nil {
			return nil, fmt.Errorf("invalid path segment %q: %w", s, err)
		}
		segments[i] = v
	}
	return segments, nil
}
