// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleArticle = `I started running in the winter. It was cold, and I hated it.

By spring I could run five miles. We ran together on Sundays.

Now I run every day!`

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestAnalyzeThenGenerate(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "style.db")
	t.Setenv("STYLE_ENGINE_AI_PROVIDER", "echo")
	t.Setenv("STYLE_ENGINE_STORE_PATH", dbPath)
	t.Setenv("STYLE_ENGINE_STORE_CACHE_SIZE", "0")

	sample := filepath.Join(dir, "running.txt")
	require.NoError(t, os.WriteFile(sample, []byte(sampleArticle), 0o644))

	t.Run("generate before analyze", func(t *testing.T) {
		_, _, err := execute(t, "generate", "--scope", "cli-test", "renewable", "energy")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "analyze <file>")
	})

	t.Run("analyze stores a profile", func(t *testing.T) {
		out, _, err := execute(t, "analyze", "--scope", "cli-test", sample)
		require.NoError(t, err)
		assert.Contains(t, out, "File: running.txt")
		assert.Contains(t, out, "Voice:     first-person")
		assert.Contains(t, out, `style stored for scope "cli-test"`)
	})

	t.Run("generate saves the artifact", func(t *testing.T) {
		out, errOut, err := execute(t, "generate", "--scope", "cli-test", "renewable", "energy")
		require.NoError(t, err)
		assert.Contains(t, out, "# renewable energy")
		assert.Contains(t, errOut, "Blog post saved to memory")
	})

	t.Run("generate reports a failed save and still succeeds", func(t *testing.T) {
		db, err := sql.Open("sqlite3", dbPath)
		require.NoError(t, err)
		_, err = db.Exec(`CREATE TRIGGER reject_artifacts BEFORE INSERT ON artifacts
			BEGIN SELECT RAISE(ABORT, 'disk full'); END`)
		require.NoError(t, err)
		require.NoError(t, db.Close())

		out, errOut, err := execute(t, "generate", "--scope", "cli-test", "tides")
		require.NoError(t, err)
		assert.Contains(t, out, "# tides")
		assert.Contains(t, errOut, "Note: could not save to memory")
		assert.Contains(t, errOut, "disk full")
	})
}
