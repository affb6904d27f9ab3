package process

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/core-tools/hsu-shell/pkg/errors"
	"github.com/core-tools/hsu-shell/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, dir string, name string, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"+body+"\n"), 0755))
}

func skipOnWindows(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh worker scripts")
	}
}

func TestDataDirArg(t *testing.T) {
	assert.Equal(t, `app_data_path="/home/user/.local/share/app"`, DataDirArg("/home/user/.local/share/app"))
	assert.Equal(t, `app_data_path="C:\Users\me\AppData"`, DataDirArg(`C:\Users\me\AppData`))
}

func TestBuildInvocation(t *testing.T) {
	baseDir := filepath.Join(string(filepath.Separator), "opt", "shell")
	spec := ProcessSpec{
		ID:       "master",
		Binary:   "out/bin/node/node",
		Args:     []string{"out/master_server.js", "page.useGenWorkers=true"},
		ErrorLog: "stderr_master.log",
	}

	t.Run("without_data_dir", func(t *testing.T) {
		inv := BuildInvocation(spec, 0, baseDir, "", true)

		assert.Equal(t, "master", inv.ID)
		assert.Equal(t, filepath.Join(baseDir, "out", "bin", "node", "node"), inv.Path)
		assert.Equal(t, []string{"out/master_server.js", "page.useGenWorkers=true"}, inv.Args)
		assert.Equal(t, baseDir, inv.Dir)
		assert.Equal(t, filepath.Join(baseDir, "stderr_master.log"), inv.ErrorLogPath)
		assert.True(t, inv.HideConsole)
	})

	t.Run("with_data_dir", func(t *testing.T) {
		inv := BuildInvocation(spec, 0, baseDir, "/data/app", false)

		assert.Equal(t, []string{"out/master_server.js", "page.useGenWorkers=true", `app_data_path="/data/app"`}, inv.Args)
		assert.False(t, inv.HideConsole)
		assert.Len(t, spec.Args, 2, "spec args must not be mutated")
	})

	t.Run("positional_id", func(t *testing.T) {
		inv := BuildInvocation(ProcessSpec{Binary: "w", ErrorLog: "w.log"}, 3, baseDir, "", false)
		assert.Equal(t, "worker-3", inv.ID)
	})

	t.Run("absolute_error_log", func(t *testing.T) {
		logPath := filepath.Join(t.TempDir(), "w.log")
		inv := BuildInvocation(ProcessSpec{Binary: "w", ErrorLog: logPath}, 0, baseDir, "", false)
		assert.Equal(t, logPath, inv.ErrorLogPath)
	})
}

func TestCapabilities(t *testing.T) {
	caps := DetectCapabilities()
	assert.Equal(t, runtime.GOOS == "windows", caps.SupportsWindowSuppression)

	assert.True(t, Capabilities{SupportsWindowSuppression: true}.ShouldHideConsole(false))
	assert.False(t, Capabilities{SupportsWindowSuppression: true}.ShouldHideConsole(true))
	assert.False(t, Capabilities{SupportsWindowSuppression: false}.ShouldHideConsole(false))
}

func TestExecutableDir(t *testing.T) {
	dir, err := ExecutableDir()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSpawn_RedirectsStderr(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	writeScript(t, dir, "worker", `echo "stderr: $1 $2" >&2; echo "stdout is discarded"`)

	inv := BuildInvocation(ProcessSpec{ID: "a", Binary: "worker", Args: []string{"script.js", "flag=1"}, ErrorLog: "a.log"}, 0, dir, "", false)
	cmd, err := Spawn(inv, logging.NewNopLogger())
	require.NoError(t, err)
	require.NoError(t, cmd.Wait())

	data, err := os.ReadFile(filepath.Join(dir, "a.log"))
	require.NoError(t, err)
	assert.Equal(t, "stderr: script.js flag=1\n", string(data))
}

func TestSpawn_TruncatesExistingLog(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	writeScript(t, dir, "worker", `echo new >&2`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "w.log"), []byte("old content that is longer\n"), 0644))

	cmd, err := Spawn(BuildInvocation(ProcessSpec{Binary: "worker", ErrorLog: "w.log"}, 0, dir, "", false), logging.NewNopLogger())
	require.NoError(t, err)
	require.NoError(t, cmd.Wait())

	data, err := os.ReadFile(filepath.Join(dir, "w.log"))
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(data))
}

func TestSpawn_WorkingDirectoryIsBaseDir(t *testing.T) {
	skipOnWindows(t)

	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	writeScript(t, dir, "worker", `pwd >&2`)

	cmd, err := Spawn(BuildInvocation(ProcessSpec{Binary: "worker", ErrorLog: "w.log"}, 0, dir, "", false), logging.NewNopLogger())
	require.NoError(t, err)
	require.NoError(t, cmd.Wait())

	data, err := os.ReadFile(filepath.Join(dir, "w.log"))
	require.NoError(t, err)
	assert.Equal(t, dir+"\n", string(data))
}

func TestSpawn_Failures(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	writeScript(t, dir, "worker", `exit 0`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "not-executable"), []byte("#!/bin/sh\n"), 0644))

	t.Run("missing_binary", func(t *testing.T) {
		_, err := Spawn(BuildInvocation(ProcessSpec{Binary: "missing", ErrorLog: "m.log"}, 0, dir, "", false), logging.NewNopLogger())
		assert.True(t, errors.IsSpawnError(err))
	})

	t.Run("log_file_not_creatable", func(t *testing.T) {
		_, err := Spawn(BuildInvocation(ProcessSpec{Binary: "worker", ErrorLog: "no/such/dir/w.log"}, 0, dir, "", false), logging.NewNopLogger())
		assert.True(t, errors.IsLogFileError(err))
	})

	t.Run("not_executable", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("root bypasses execute permission checks")
		}
		_, err := Spawn(BuildInvocation(ProcessSpec{Binary: "not-executable", ErrorLog: "n.log"}, 0, dir, "", false), logging.NewNopLogger())
		assert.True(t, errors.IsSpawnError(err))
	})
}

func TestKill(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	writeScript(t, dir, "worker", `exec sleep 30`)

	cmd, err := Spawn(BuildInvocation(ProcessSpec{Binary: "worker", ErrorLog: "w.log"}, 0, dir, "", false), logging.NewNopLogger())
	require.NoError(t, err)

	killed, err := Kill(cmd.Process)
	require.NoError(t, err)
	assert.True(t, killed)

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	select {
	case err := <-done:
		assert.Error(t, err, "killed process reports a signal exit")
	case <-time.After(5 * time.Second):
		t.Fatal("process did not exit after kill")
	}

	killed, err = Kill(cmd.Process)
	assert.NoError(t, err, "killing a finished process is a no-op")
	assert.False(t, killed)

	killed, err = Kill(nil)
	assert.NoError(t, err)
	assert.False(t, killed)
}
