// internal/model/models_test.go
package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	custom_errors "repo-init-service/internal/errors"
)

func TestHints_Location(t *testing.T) {
	_, ok := Hints{RepositoryName: "roads"}.Location()
	assert.False(t, ok)

	u, ok := Hints{RepositoryName: "roads", RepositoryURL: "file:///tmp/roads"}.Location()
	require.True(t, ok)
	assert.Equal(t, "/tmp/roads", u.Path)

	_, ok = Hints{RepositoryName: "roads", RepositoryURL: "::not a url"}.Location()
	assert.False(t, ok)
}

func TestHints_JSON(t *testing.T) {
	b, err := json.Marshal(Hints{RepositoryName: "roads"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"repository-name":"roads"}`, string(b))

	b, err = json.Marshal(Hints{RepositoryName: "roads", RepositoryURL: "file:///tmp/roads"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"repository-name":"roads","repository-url":"file:///tmp/roads"}`, string(b))
}

func TestCheckRepositoryName(t *testing.T) {
	for _, name := range []string{"roads", "my repo", " roads ", "..roads", "v1.0"} {
		assert.NoError(t, CheckRepositoryName(name), name)
	}

	var missing *custom_errors.ErrMissingAttribute
	assert.ErrorAs(t, CheckRepositoryName(""), &missing)

	for _, name := range []string{".", "..", "a/b", `a\b`, "../../etc", "a\x00b"} {
		var invalid *custom_errors.ErrInvalidAttribute
		assert.ErrorAs(t, CheckRepositoryName(name), &invalid, name)
	}
}
