package scripts

import (
	"bytes"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func stackScriptPath(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	return filepath.Join(filepath.Dir(thisFile), "stack.sh")
}

func runStackScript(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := exec.Command("bash", append([]string{stackScriptPath(t)}, args...)...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func TestStackScriptDryRunUp(t *testing.T) {
	stdout, stderr, err := runStackScript(t, "up", "--dry-run")
	if err != nil {
		t.Fatalf("stack up dry-run failed: %v\nstdout:\n%s\nstderr:\n%s", err, stdout, stderr)
	}

	expected := []string{
		"[dry-run] docker compose",
		"stack is up",
	}
	for _, token := range expected {
		if !strings.Contains(stdout, token) {
			t.Fatalf("output missing %q\noutput:\n%s", token, stdout)
		}
	}
}

func TestStackScriptDryRunDown(t *testing.T) {
	stdout, stderr, err := runStackScript(t, "down", "--dry-run")
	if err != nil {
		t.Fatalf("stack down dry-run failed: %v\nstdout:\n%s\nstderr:\n%s", err, stdout, stderr)
	}

	expected := []string{
		"[dry-run] docker compose",
		"stack is down",
	}
	for _, token := range expected {
		if !strings.Contains(stdout, token) {
			t.Fatalf("output missing %q\noutput:\n%s", token, stdout)
		}
	}
}

func TestStackScriptUnknownCommand(t *testing.T) {
	_, stderr, err := runStackScript(t, "not-a-command")
	if err == nil {
		t.Fatal("expected unknown command to fail")
	}
	if !strings.Contains(stderr, "usage:") {
		t.Fatalf("stderr missing usage: %s", stderr)
	}
}
