package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	cmd := NewRootCommand()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

// newStore returns --db args for a fresh SQLite file with the schema created.
func newStore(t *testing.T) []string {
	t.Helper()
	db := []string{"--db", filepath.Join(t.TempDir(), "cli.db")}
	r := execute(t, "", append(db, "init")...)
	require.NoError(t, r.err)
	return db
}

func run(t *testing.T, db []string, args ...string) result {
	t.Helper()
	return execute(t, "", append(append([]string{}, db...), args...)...)
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "ormjoin", cmd.Use)
	assert.Contains(t, cmd.Long, "inner joins")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"init"}, {"reset"}, {"view"}, {"user"},
		{"seed", "fixed"}, {"seed", "users"}, {"seed", "posts"}, {"seed", "random"},
	}

	for _, path := range commands {
		t.Run(strings.Join(path, " "), func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "Command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, path[len(path)-1], subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	for _, name := range []string{"config", "db", "dialect", "dsn"} {
		flag := cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, flag, "flag --%s", name)
		assert.Equal(t, "", flag.DefValue)
	}
}

func TestInitIsIdempotent(t *testing.T) {
	db := newStore(t)

	r := run(t, db, "init")
	require.NoError(t, r.err)
	assert.Contains(t, r.stderr, "schema ready")
}

func TestSeedFixedAndView(t *testing.T) {
	db := newStore(t)

	r := run(t, db, "seed", "fixed")
	require.NoError(t, r.err)
	assert.Equal(t, "Done\n", r.stdout)

	r = run(t, db, "view")
	require.NoError(t, r.err)
	assert.True(t, strings.HasPrefix(r.stdout, "SQL Query: \n SELECT "), r.stdout)
	assert.Contains(t, r.stdout, `INNER JOIN "users" ON "users"."id" = "posts"."user_id"`)
	assert.NotContains(t, r.stdout, "WHERE")
	assert.Contains(t, r.stdout, "\n\n\nResults:\n")
	for _, row := range []string{
		"(<User john>, <Post my first post!>)",
		"(<User john>, <Post my second post!>)",
		"(<User susan>, <Post susan's first post>)",
		"(<User susan>, <Post susan's second post>)",
	} {
		assert.Contains(t, r.stdout, row+"\n")
	}
}

func TestSeedFixedTwice(t *testing.T) {
	db := newStore(t)

	require.NoError(t, run(t, db, "seed", "fixed").err)

	r := run(t, db, "seed", "fixed")
	require.Error(t, r.err)
	assert.Equal(t, ExitFailure, GetExitCode(r.err))
	assert.Contains(t, r.err.Error(), "UNIQUE constraint failed")
	assert.Empty(t, r.stdout)
}

func TestViewUsername(t *testing.T) {
	db := newStore(t)
	require.NoError(t, run(t, db, "seed", "fixed").err)

	r := run(t, db, "view", "--username", "susan")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "WHERE users.username = ?")
	assert.Contains(t, r.stdout, "(<User susan>, <Post susan's first post>)\n")
	assert.Contains(t, r.stdout, "(<User susan>, <Post susan's second post>)\n")
	assert.NotContains(t, r.stdout, "<User john>")

	r = run(t, db, "view", "--username", "nobody")
	require.NoError(t, r.err)
	assert.True(t, strings.HasSuffix(r.stdout, "Results:\n"), r.stdout)
}

func TestViewPrompt(t *testing.T) {
	db := newStore(t)
	require.NoError(t, run(t, db, "seed", "fixed").err)

	r := execute(t, "john\n", append(db, "view", "--prompt")...)
	require.NoError(t, r.err)
	assert.True(t, strings.HasPrefix(r.stdout, "Input username to look for: SQL Query: \n"), r.stdout)
	assert.Contains(t, r.stdout, "(<User john>, <Post my first post!>)\n")
	assert.NotContains(t, r.stdout, "<User susan>")

	// A last line without a newline still counts.
	r = execute(t, "susan", append(db, "view", "-p")...)
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "(<User susan>, <Post susan's first post>)\n")
}

func TestViewPromptWithoutInput(t *testing.T) {
	db := newStore(t)

	r := execute(t, "", append(db, "view", "--prompt")...)
	require.Error(t, r.err)
	assert.Equal(t, ExitCommandError, GetExitCode(r.err))
}

func TestViewFlagsExclusive(t *testing.T) {
	db := newStore(t)

	r := run(t, db, "view", "--username", "susan", "--prompt")
	require.Error(t, r.err)
}

func TestViewWithoutSchema(t *testing.T) {
	db := []string{"--db", filepath.Join(t.TempDir(), "empty.db")}

	r := run(t, db, "view")
	require.Error(t, r.err)
	assert.Equal(t, ExitFailure, GetExitCode(r.err))
	assert.Contains(t, r.err.Error(), "no such table")
}

func TestSeedRandom(t *testing.T) {
	db := newStore(t)

	r := run(t, db, "seed", "users", "--count", "10", "--rand-seed", "1")
	require.NoError(t, r.err)
	assert.Equal(t, "Done\n", r.stdout)

	r = run(t, db, "seed", "posts", "--count", "30", "--rand-seed", "1")
	require.NoError(t, r.err)

	r = run(t, db, "user", "10")
	require.NoError(t, r.err)
	assert.True(t, strings.HasPrefix(r.stdout, "<User "), r.stdout)

	r = run(t, db, "user", "11")
	require.Error(t, r.err)
	assert.Equal(t, ExitFailure, GetExitCode(r.err))
	assert.Contains(t, r.err.Error(), "user 11 not found")
}

func TestSeedRandomDefaults(t *testing.T) {
	db := newStore(t)

	r := run(t, db, "seed", "random", "--rand-seed", "3")
	require.NoError(t, r.err)
	assert.Equal(t, "Done\n", r.stdout)

	r = run(t, db, "view")
	require.NoError(t, r.err)
	rows := strings.Count(r.stdout, "(<User ")
	assert.Equal(t, 30, rows, "every post has an author when ten users exist")
}

func TestSeedNegativeCount(t *testing.T) {
	db := newStore(t)

	r := run(t, db, "seed", "users", "--count", "-1")
	require.Error(t, r.err)
	assert.Equal(t, ExitCommandError, GetExitCode(r.err))
}

func TestUserCommand(t *testing.T) {
	db := newStore(t)
	require.NoError(t, run(t, db, "seed", "fixed").err)

	r := run(t, db, "user", "2")
	require.NoError(t, r.err)
	lines := strings.Split(strings.TrimSuffix(r.stdout, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "<User susan> susan@example.com", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "  <Post susan's first post> "), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "  <Post susan's second post> "), lines[2])
}

func TestUserInvalidID(t *testing.T) {
	for _, arg := range []string{"abc", "0", "-3"} {
		t.Run(arg, func(t *testing.T) {
			r := execute(t, "", "user", "--", arg)
			require.Error(t, r.err)
			assert.Equal(t, ExitCommandError, GetExitCode(r.err))
		})
	}
}

func TestReset(t *testing.T) {
	db := newStore(t)
	require.NoError(t, run(t, db, "seed", "fixed").err)

	r := run(t, db, "reset")
	require.NoError(t, r.err)

	r = run(t, db, "view")
	require.NoError(t, r.err)
	assert.True(t, strings.HasSuffix(r.stdout, "Results:\n"), r.stdout)

	require.NoError(t, run(t, db, "seed", "fixed").err)
}

func TestInvalidDialect(t *testing.T) {
	r := execute(t, "", "--dialect", "oracle", "init")
	require.Error(t, r.err)
	assert.Equal(t, ExitCommandError, GetExitCode(r.err))
	assert.Contains(t, r.err.Error(), "invalid dialect")
}

func TestMissingConfigFile(t *testing.T) {
	r := execute(t, "", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "init")
	require.Error(t, r.err)
	assert.Equal(t, ExitCommandError, GetExitCode(r.err))
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "ormjoin.yaml")
	cfg := "database:\n  path: " + filepath.Join(dir, "from-config.db") + "\nseed:\n  users: 3\n  posts: 5\n  author_ids: 3\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	conf := []string{"--config", cfgPath}
	require.NoError(t, run(t, conf, "init").err)
	require.NoError(t, run(t, conf, "seed", "random").err)

	_, err := os.Stat(filepath.Join(dir, "from-config.db"))
	require.NoError(t, err)

	require.NoError(t, run(t, conf, "user", "3").err)
	r := run(t, conf, "user", "4")
	assert.Equal(t, ExitFailure, GetExitCode(r.err))

	r = run(t, conf, "view")
	require.NoError(t, r.err)
	assert.Equal(t, 5, strings.Count(r.stdout, "(<User "))
}

func TestVerboseLogsStatements(t *testing.T) {
	db := newStore(t)

	r := run(t, db, "-v", "view")
	require.NoError(t, r.err)
	assert.Contains(t, r.stderr, "orm: statement")
	assert.Contains(t, r.stderr, "INNER JOIN")

	r = run(t, db, "view")
	require.NoError(t, r.err)
	assert.NotContains(t, r.stderr, "orm: statement")
}
