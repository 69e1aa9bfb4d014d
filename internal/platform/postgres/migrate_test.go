package postgres

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	require.NoError(t, configureGoose(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	t.Cleanup(func() { goose.SetBaseFS(nil) })

	migrations, err := goose.CollectMigrations(migrationsDir, 0, goose.MaxVersion)

	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, int64(1), migrations[0].Version)
	assert.Equal(t, int64(2), migrations[1].Version)
}

func TestGooseLogger(t *testing.T) {
	var buf bytes.Buffer
	l := &gooseLogger{logger: slog.New(slog.NewTextHandler(&buf, nil))}

	l.Printf("OK   %s (%d ms)\n", "00001_create_users.sql", 12)
	l.Fatalf("failed: %v", "boom")

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "00001_create_users.sql")
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "failed: boom")
}
