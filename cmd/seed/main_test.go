package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvFilesOverridesInOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shared.env"),
		[]byte("# shared\nMONGO_DB=shared-db\nREVIEW_COLLECTION=\"reviews_shared\"\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "local.env"),
		[]byte("export MONGO_DB='local-db'\n"), 0o600))
	t.Setenv("MONGO_DB", "from-process")
	t.Setenv("REVIEW_COLLECTION", "")

	require.NoError(t, loadEnvFiles(dir, "local"))

	assert.Equal(t, "local-db", os.Getenv("MONGO_DB"))
	assert.Equal(t, "reviews_shared", os.Getenv("REVIEW_COLLECTION"))
	assert.Equal(t, "local-db", envOrDefault("MONGO_DB", "reststop"))
}

func TestLoadEnvFilesMissingFile(t *testing.T) {
	assert.Error(t, loadEnvFiles(t.TempDir(), "staging"))
}
