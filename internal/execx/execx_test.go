package execx

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"testing"
)

func TestRunRelaysStreams(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available")
	}
	var stdout bytes.Buffer
	err := DefaultRunner().Run(context.Background(), Command{
		Name:   "cat",
		Stdin:  strings.NewReader("hello\n"),
		Stdout: &stdout,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stdout.String() != "hello\n" {
		t.Fatalf("stdout = %q", stdout.String())
	}
}

func TestExitCode(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	err := DefaultRunner().Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "exit 3"}})
	code, ok := ExitCode(err)
	if !ok || code != 3 {
		t.Fatalf("ExitCode = %d, %v; want 3, true", code, ok)
	}
	if code, ok := ExitCode(nil); !ok || code != 0 {
		t.Fatalf("ExitCode(nil) = %d, %v", code, ok)
	}
}

func TestIsNotFound(t *testing.T) {
	err := DefaultRunner().Run(context.Background(), Command{Name: "spellmask-definitely-missing-binary"})
	if !IsNotFound(err) {
		t.Fatalf("IsNotFound(%v) = false", err)
	}
	if _, ok := ExitCode(err); ok {
		t.Fatal("missing binary should not report an exit code")
	}
}
