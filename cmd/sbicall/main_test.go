package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEncodeSetTimerNarrow(t *testing.T) {
	out, err := run(t, "encode", "--width", "rv32", "set-timer", "0x100000005")
	require.NoError(t, err)
	assert.Contains(t, out, "set-timer (direct, rv32)")
	assert.Contains(t, out, "a7  0x54494d45")
	assert.Contains(t, out, "a0  0x5\n")
	assert.Contains(t, out, "a1  0x1\n")
	assert.Contains(t, out, "status=ok")
}

func TestEncodeBootSecondary(t *testing.T) {
	out, err := run(t, "encode", "boot-secondary", "2", "0x80200000", "0x1234")
	require.NoError(t, err)
	assert.Contains(t, out, "a0  0x2\n")
	assert.Contains(t, out, "a1  0x80200000\n")
	assert.Contains(t, out, "a2  0x1234\n")
	assert.Contains(t, out, "a3  0x0\n")
	assert.Contains(t, out, "a4  0x0\n")
	assert.Contains(t, out, "a5  0x0\n")
	assert.Contains(t, out, "ext HSM")
}

func TestEncodeBootSecondaryTwice(t *testing.T) {
	out, err := run(t, "encode", "boot-secondary", "0", "0x80200000", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "status=sbi: already available")
}

func TestEncodeProbeByName(t *testing.T) {
	out, err := run(t, "encode", "probe", "TIME")
	require.NoError(t, err)
	assert.Contains(t, out, "a0  0x54494d45")
	assert.Contains(t, out, "returned value=0x1")
}

func TestEncodeErrors(t *testing.T) {
	_, err := run(t, "encode", "frobnicate")
	assert.Error(t, err)
	_, err = run(t, "encode", "send-ipi", "1")
	assert.Error(t, err)
	_, err = run(t, "encode", "send-ipi", "x", "0")
	assert.Error(t, err)
	_, err = run(t, "encode", "--mode", "delegated", "system-reset", "0", "0")
	assert.Error(t, err)
}

func TestTimeDelegatedFirmware(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sbi.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mode: delegated\nfirmware_time: true\n"), 0o644))
	out, err := run(t, "time", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "traps=1")
}

func TestTimeCounter(t *testing.T) {
	out, err := run(t, "time")
	require.NoError(t, err)
	assert.Contains(t, out, "traps=0")
}

func TestProbe(t *testing.T) {
	out, err := run(t, "probe")
	require.NoError(t, err)
	assert.Contains(t, out, "spec v2.0")
	assert.Contains(t, out, "+ HSM")
	assert.Contains(t, out, "- PMU")
}

func TestSession(t *testing.T) {
	out, err := run(t, "session", "--harts", "3", "--reset")
	require.NoError(t, err)
	assert.Contains(t, out, "started harts [1 2]")
	assert.Contains(t, out, "shutdown requested")
	assert.Contains(t, out, "# TYPE sbi_calls_total counter\n")
	assert.Contains(t, out, "# HELP sbi_calls_total Firmware calls by extension and function.\n")
	assert.Contains(t, out, `sbi_calls_total{ext="HSM",fid="0"} 2`)
	assert.Contains(t, out, `sbi_calls_total{ext="sPI",fid="0"} 1`)
	assert.Contains(t, out, `sbi_calls_total{ext="SRST",fid="0"} 1`)
	assert.Contains(t, out, "# TYPE sbi_time_read_retries_total counter\nsbi_time_read_retries_total 0\n")
}

func TestSessionDelegated(t *testing.T) {
	out, err := run(t, "session", "--mode", "delegated")
	require.NoError(t, err)
	assert.Contains(t, out, "hart bring-up unavailable in delegated mode")
	assert.NotContains(t, out, `ext="HSM"`)
}

func TestImageRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))
	_, err := run(t, "image", path)
	assert.Error(t, err)
}
