//go:build integration

// cmd/service/integration_test.go
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"repo-init-service/internal/api"
	"repo-init-service/internal/metrics"
	"repo-init-service/internal/model"
	"repo-init-service/internal/pgconfig"
	"repo-init-service/internal/registry"
)

func setupTestDatabase(ctx context.Context, t *testing.T) (host string, port int, teardown func()) {
	// Start a postgres container
	pgContainer, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("test-db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	host, err = pgContainer.Host(ctx)
	require.NoError(t, err)
	mapped, err := pgContainer.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	teardown = func() {
		err := pgContainer.Terminate(ctx)
		require.NoError(t, err)
	}
	return host, mapped.Int(), teardown
}

func TestInitPostgresRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	host, port, teardown := setupTestDatabase(ctx, t)
	defer teardown()

	// Prepare a non-default schema so search_path is observable
	admin := pgconfig.DatabaseConfig{Host: host, Port: port, Database: "test-db", Schema: pgconfig.DefaultSchema, Username: "user", Password: "password"}
	adminCfg, err := admin.ConnConfig()
	require.NoError(t, err)
	conn, err := pgx.ConnectConfig(ctx, adminCfg)
	require.NoError(t, err)
	_, err = conn.Exec(ctx, "CREATE SCHEMA gis")
	require.NoError(t, err)
	require.NoError(t, conn.Close(ctx))

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	repos, err := registry.NewMemory(t.TempDir(), logger)
	require.NoError(t, err)
	router := api.NewRouter(repos, metrics.New(), logger)

	// --- ACT ---
	form := url.Values{
		"dbHost":     {host},
		"dbPort":     {strconv.Itoa(port)},
		"dbName":     {"test-db"},
		"dbSchema":   {"gis"},
		"dbUser":     {"user"},
		"dbPassword": {"password"},
	}
	req := httptest.NewRequest(http.MethodPut, "/v1/repos/roads/init", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// --- ASSERT ---
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		Repository model.Repository `json:"repository"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	location, err := url.Parse(resp.Repository.Location)
	require.NoError(t, err)
	dbCfg, err := pgconfig.FromURI(location)
	require.NoError(t, err)
	connCfg, err := dbCfg.ConnConfig()
	require.NoError(t, err)

	repoConn, err := pgx.ConnectConfig(ctx, connCfg)
	require.NoError(t, err)
	defer repoConn.Close(ctx)

	require.NoError(t, repoConn.Ping(ctx))
	var schema string
	require.NoError(t, repoConn.QueryRow(ctx, "SELECT current_schema()").Scan(&schema))
	assert.Equal(t, "gis", schema)
}
