package processstate

import (
	"os"
	"os/exec"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsProcessRunning_InvalidPID(t *testing.T) {
	for _, pid := range []int{0, -1} {
		running, err := IsProcessRunning(pid)
		assert.False(t, running)
		assert.ErrorIs(t, err, ErrInvalidPID)
	}
}

func TestIsProcessRunning_Self(t *testing.T) {
	running, err := IsProcessRunning(os.Getpid())
	require.NoError(t, err)
	assert.True(t, running)
}

func TestIsProcessRunning_ReapedChild(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh")
	}

	cmd := exec.Command("/bin/sh", "-c", "exit 0")
	require.NoError(t, cmd.Start())
	pid := cmd.Process.Pid
	require.NoError(t, cmd.Wait())

	running, err := IsProcessRunning(pid)
	require.NoError(t, err)
	assert.False(t, running)
}
