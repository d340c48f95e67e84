package database

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guardpost/migrations"
)

type recordingExecer struct {
	statements []string
	failOn     string
}

func (r *recordingExecer) ExecContext(_ context.Context, query string, _ ...any) (sql.Result, error) {
	if r.failOn != "" && query == r.failOn {
		return nil, fmt.Errorf("forced failure")
	}
	r.statements = append(r.statements, query)
	return nil, nil
}

func TestMigrateAppliesFilesInOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"002_second.sql": {Data: []byte("second")},
		"001_first.sql":  {Data: []byte("first")},
		"notes.txt":      {Data: []byte("ignored")},
	}
	exec := &recordingExecer{}

	require.NoError(t, Migrate(context.Background(), exec, fsys))
	assert.Equal(t, []string{"first", "second"}, exec.statements)
}

func TestMigratePropagatesFailure(t *testing.T) {
	fsys := fstest.MapFS{
		"001_first.sql": {Data: []byte("boom")},
	}
	exec := &recordingExecer{failOn: "boom"}

	err := Migrate(context.Background(), exec, fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "001_first.sql")
}

func TestMigrateEmbeddedSchema(t *testing.T) {
	exec := &recordingExecer{}

	require.NoError(t, Migrate(context.Background(), exec, migrations.FS))
	require.NotEmpty(t, exec.statements)
	assert.Contains(t, exec.statements[0], "CREATE TABLE IF NOT EXISTS evaluations")
}
