package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestLoadConfigFrom(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "config.yaml")
	envPath := filepath.Join(dir, ".env")

	require.NoError(t, os.WriteFile(yamlPath, []byte("DB_HOST: db.internal\nDB_PORT: \"5432\"\nAPP_PORT: \"8000\"\n"), 0o600))
	require.NoError(t, os.WriteFile(envPath, []byte("DB_PORT=6543\n"), 0o600))
	t.Setenv("APP_PORT", "9000")
	t.Setenv("DB_PORT", "")
	os.Unsetenv("DB_PORT")

	LoadConfigFrom(yamlPath, envPath)

	assert.Equal(t, "db.internal", GetConfig("DB_HOST"))
	assert.Equal(t, "6543", GetConfig("DB_PORT"))
	assert.Equal(t, "9000", GetConfig("APP_PORT"))
	assert.Equal(t, "", GetConfig("UNKNOWN_KEY"))
	assert.Equal(t, "10", GetConfigDefault("RATE_LIMIT_MAX", "10"))
}

func TestValidatorSlug(t *testing.T) {
	InitValidator()

	type payload struct {
		Slug string `validate:"slug"`
	}
	assert.NoError(t, Validate.Struct(payload{Slug: "breakfast_2-go"}))
	assert.Error(t, Validate.Struct(payload{Slug: "not a slug"}))
}

func TestIsDuplicateKeyError(t *testing.T) {
	assert.False(t, IsDuplicateKeyError(nil))
	assert.False(t, IsDuplicateKeyError(errors.New("connection refused")))
	assert.True(t, IsDuplicateKeyError(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)))
	assert.True(t, IsDuplicateKeyError(errors.New("UNIQUE constraint failed: tags.slug")))
}

func TestIsForeignKeyError(t *testing.T) {
	assert.False(t, IsForeignKeyError(nil))
	assert.False(t, IsForeignKeyError(gorm.ErrDuplicatedKey))
	assert.True(t, IsForeignKeyError(fmt.Errorf("insert: %w", gorm.ErrForeignKeyViolated)))
	assert.True(t, IsForeignKeyError(errors.New("FOREIGN KEY constraint failed")))
	assert.False(t, IsDuplicateKeyError(gorm.ErrForeignKeyViolated))
}
