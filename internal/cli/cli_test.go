package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vinicius-lino-figueiredo/jsondb"
)

// seed copies the library fixture into a new directory and returns it.
func seed(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	b, err := os.ReadFile(filepath.Join("testdata", "library.db.json"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "library.db.json"), b, 0o644))
	return dir
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func golden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func decodeDocuments(t *testing.T, out string) []map[string]any {
	t.Helper()
	var docs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	return docs
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "jsondb", cmd.Use)

	for _, name := range []string{"collections", "find", "count", "insert", "update", "delete", "drop"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
	assert.Equal(t, "false", verbose.DefValue)

	for flag, def := range map[string]string{"dir": ".", "db": "default", "config": "", "indent": "    "} {
		f := cmd.PersistentFlags().Lookup(flag)
		require.NotNil(t, f, flag)
		assert.Equal(t, def, f.DefValue, flag)
	}
}

func TestCollections(t *testing.T) {
	dir := seed(t)
	out, _, err := run(t, "collections", "--dir", dir, "--db", "library")
	require.NoError(t, err)
	golden(t).Assert(t, "collections", []byte(out))
}

func TestFind(t *testing.T) {
	dir := seed(t)

	out, _, err := run(t, "find", "books", `{"author": "Jane Austen"}`, "--dir", dir, "--db", "library")
	require.NoError(t, err)
	golden(t).Assert(t, "find_by_author", []byte(out))

	out, _, err = run(t, "find", "books", `{"year": "1815"}`, "--dir", dir, "--db", "library")
	require.NoError(t, err)
	golden(t).Assert(t, "find_no_match", []byte(out))

	out, _, err = run(t, "find", "books", "--dir", dir, "--db", "library")
	require.NoError(t, err)
	assert.Len(t, decodeDocuments(t, out), 3)
}

// Reading a database never changes its file.
func TestFindKeepsFile(t *testing.T) {
	dir := seed(t)
	before, err := os.ReadFile(filepath.Join(dir, "library.db.json"))
	require.NoError(t, err)

	_, _, err = run(t, "find", "books", "--dir", dir, "--db", "library")
	require.NoError(t, err)

	after, err := os.ReadFile(filepath.Join(dir, "library.db.json"))
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestFindInvalidFilter(t *testing.T) {
	dir := seed(t)
	_, _, err := run(t, "find", "books", `["a"]`, "--dir", dir, "--db", "library")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, _, err = run(t, "find", "books", `null`, "--dir", dir, "--db", "library")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, _, err = run(t, "find", "books", `{} {}`, "--dir", dir, "--db", "library")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCount(t *testing.T) {
	dir := seed(t)
	out, _, err := run(t, "count", "books", `{"author": "Jane Austen"}`, "--dir", dir, "--db", "library")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)

	out, _, err = run(t, "count", "authors", "--dir", dir, "--db", "library")
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)
}

func TestInsert(t *testing.T) {
	dir := t.TempDir()
	out, _, err := run(t, "insert", "books", `{"title": "Emma"}`, `{"title": "Dune"}`, "--dir", dir)
	require.NoError(t, err)

	docs := decodeDocuments(t, out)
	require.Len(t, docs, 2)
	assert.Equal(t, "Emma", docs[0]["title"])
	assert.NotEmpty(t, docs[0]["id"])
	assert.Equal(t, docs[0]["createdAt"], docs[0]["updatedAt"])
	assert.FileExists(t, filepath.Join(dir, "default.db.json"))

	out, _, err = run(t, "count", "books", "--dir", dir)
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)
}

// A document with a system field is rejected and nothing is inserted.
func TestInsertSystemField(t *testing.T) {
	dir := t.TempDir()
	_, _, err := run(t, "insert", "books", `{"title": "Emma"}`, `{"id": "x"}`, "--dir", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "id is automatically managed")

	out, _, err := run(t, "count", "books", "--dir", dir)
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)
}

func TestUpdate(t *testing.T) {
	dir := seed(t)

	out, _, err := run(t, "update", "books", `{"author": "Jane Austen"}`, `{"read": true}`, "--dir", dir, "--db", "library")
	require.NoError(t, err)
	docs := decodeDocuments(t, out)
	require.Len(t, docs, 1)
	assert.Equal(t, "b1", docs[0]["id"])
	assert.Equal(t, true, docs[0]["read"])
	assert.Equal(t, "2024-01-01T00:00:00.000Z", docs[0]["createdAt"])
	assert.NotEqual(t, "2024-01-01T00:00:00.000Z", docs[0]["updatedAt"])

	out, _, err = run(t, "update", "books", `{"author": "Jane Austen"}`, `{"read": false}`, "--many", "--dir", dir, "--db", "library")
	require.NoError(t, err)
	assert.Len(t, decodeDocuments(t, out), 2)

	out, _, err = run(t, "update", "books", `{"author": "Nobody"}`, `{"read": false}`, "--dir", dir, "--db", "library")
	require.NoError(t, err)
	assert.Empty(t, decodeDocuments(t, out))
}

func TestDelete(t *testing.T) {
	dir := seed(t)

	out, _, err := run(t, "delete", "books", `{"author": "Jane Austen"}`, "--dir", dir, "--db", "library")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)

	out, _, err = run(t, "delete", "books", `{}`, "--many", "--dir", dir, "--db", "library")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)

	out, _, err = run(t, "collections", "--dir", dir, "--db", "library")
	require.NoError(t, err)
	golden(t).Assert(t, "collections", []byte(out))
}

// Update and delete refuse a missing filter as a usage error.
func TestFilterRequired(t *testing.T) {
	dir := seed(t)
	for _, args := range [][]string{
		{"update", "books", "", `{"read": true}`},
		{"update", "books", "", `{"read": true}`, "--many"},
		{"delete", "books", ""},
		{"delete", "books", "", "--many"},
	} {
		_, _, err := run(t, append(args, "--dir", dir, "--db", "library")...)
		require.Error(t, err, args)
		assert.Equal(t, ExitCommandError, GetExitCode(err), args)
		assert.ErrorIs(t, err, jsondb.ErrFilterRequired, args)
	}

	out, _, err := run(t, "count", "books", "--dir", dir, "--db", "library")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
}

// Numbers given as arguments keep every digit.
func TestLargeNumbers(t *testing.T) {
	dir := t.TempDir()
	_, _, err := run(t, "insert", "counters", `{"n": 9007199254740993}`, "--dir", dir)
	require.NoError(t, err)

	out, _, err := run(t, "count", "counters", `{"n": 9007199254740993}`, "--dir", dir)
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)

	out, _, err = run(t, "count", "counters", `{"n": 9007199254740992}`, "--dir", dir)
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)

	b, err := os.ReadFile(filepath.Join(dir, "default.db.json"))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"n": 9007199254740993`)
}

func TestDrop(t *testing.T) {
	dir := seed(t)
	_, _, err := run(t, "drop", "--dir", dir, "--db", "library")
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "library.db.json"))

	_, _, err = run(t, "drop", "--dir", dir, "--db", "../library")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestIndent(t *testing.T) {
	dir := t.TempDir()
	_, _, err := run(t, "count", "books", "--dir", dir, "--indent", "")
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(dir, "default.db.json"))
	require.NoError(t, err)
	assert.Equal(t, "{\"books\":[]}\n", string(b))
}

func TestConfig(t *testing.T) {
	dir := seed(t)
	cfg := filepath.Join(t.TempDir(), "jsondb.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("dir: "+dir+"\ndatabase: library\n"), 0o644))

	out, _, err := run(t, "collections", "--config", cfg)
	require.NoError(t, err)
	golden(t).Assert(t, "collections", []byte(out))

	// flags take precedence
	out, _, err = run(t, "collections", "--config", cfg, "--db", "other")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestConfigInvalid(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "jsondb.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("folder: data\n"), 0o644))

	_, _, err := run(t, "collections", "--config", cfg)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, _, err = run(t, "collections", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

// Logs go to the error output, leaving results untouched.
func TestVerbose(t *testing.T) {
	dir := seed(t)
	out, logs, err := run(t, "find", "books", `{"author": "Jane Austen"}`, "--dir", dir, "--db", "library", "-v")
	require.NoError(t, err)
	golden(t).Assert(t, "find_by_author", []byte(out))
	assert.Contains(t, logs, "find")
	assert.Contains(t, logs, "books")
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jsondb.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dir: data\nindent: \"\"\nverbose: true\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "data", cfg.Dir)
	require.NotNil(t, cfg.Indent)
	assert.Equal(t, "", *cfg.Indent)
	assert.True(t, cfg.Verbose)
	assert.Empty(t, cfg.Database)
}
