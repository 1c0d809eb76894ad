// Package harness runs a command line binary as a subprocess and checks its
// output and exit status. A test binary can serve as the command itself by
// routing TestMain through Main.
package harness

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
)

// EnvRun marks a re-executed test binary that should behave as the command.
const EnvRun = "LESSONPACK_HARNESS_RUN"

// Main runs command instead of the tests when the binary was launched by a Cmd.
func Main(m *testing.M, command func()) {
	if os.Getenv(EnvRun) != "" {
		command()
		os.Exit(0)
	}
	os.Exit(m.Run())
}

// Executable locates the binary a Cmd launches by default.
func Executable() (string, error) {
	return os.Executable()
}

type Output interface {
	Check(stdout []byte, stderr []byte) error
}

type fullStdout []byte

func (r fullStdout) Check(stdout []byte, stderr []byte) error {
	if !bytes.Equal(stdout, r) {
		return fmt.Errorf("stdout %q is not %q", stdout, []byte(r))
	}
	return nil
}

type partialStdout string

func (r partialStdout) Check(stdout []byte, stderr []byte) error {
	if !strings.Contains(string(stdout), string(r)) {
		return fmt.Errorf("stdout does not contain %q", string(r))
	}
	return nil
}

type partialStderr string

func (r partialStderr) Check(stdout []byte, stderr []byte) error {
	if !strings.Contains(string(stderr), string(r)) {
		return fmt.Errorf("stderr does not contain %q", string(r))
	}
	return nil
}

func FullStdout(stdout []byte) Output {
	return fullStdout(stdout)
}

func PartialStdout(stdout string) Output {
	return partialStdout(stdout)
}

func PartialStderr(stderr string) Output {
	return partialStderr(stderr)
}

type Cmd struct {
	Binary string
	Dir    string
	Args   []string
	Env    []string
	Output Output
}

type Result struct {
	Stdout []byte
	Stderr []byte
	Code   int
}

func (r *Cmd) Success(t testing.TB) *Result {
	t.Helper()
	return r.assert(t, true)
}

func (r *Cmd) Fail(t testing.TB) *Result {
	t.Helper()
	return r.assert(t, false)
}

// Run executes the command with stdin closed. A non-zero exit is reported in
// Result.Code, not as an error.
func (r *Cmd) Run() (*Result, error) {
	binary := r.Binary
	if binary == "" {
		var err error
		binary, err = Executable()
		if err != nil {
			return nil, fmt.Errorf("unable to locate executable: %w", err)
		}
	}

	command := exec.Command(binary, r.Args...)
	command.Dir = r.Dir
	command.Env = append(append(os.Environ(), EnvRun+"=1"), r.Env...)
	command.Stdin = nil

	var stdout, stderr bytes.Buffer
	command.Stdout = &stdout
	command.Stderr = &stderr

	result := &Result{Code: 0}
	err := command.Run()
	result.Stdout = stdout.Bytes()
	result.Stderr = stderr.Bytes()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.Code = exitErr.ExitCode()
	} else if err != nil {
		return nil, fmt.Errorf("unable to run %s: %w", binary, err)
	}
	return result, nil
}

func (r *Cmd) assert(t testing.TB, success bool) *Result {
	t.Helper()
	result, err := r.Run()
	if err != nil {
		t.Fatalf("%v", err)
	}

	// * check output
	if r.Output != nil {
		if err := r.Output.Check(result.Stdout, result.Stderr); err != nil {
			t.Fatalf("%s %v: %v\n\nstdout:\n%s\n\nstderr:\n%s", r.Binary, r.Args, err, result.Stdout, result.Stderr)
		}
	}

	// * check status
	if (result.Code == 0) != success {
		t.Fatalf("%s %v: exit code %d\n\nstdout:\n%s\n\nstderr:\n%s", r.Binary, r.Args, result.Code, result.Stdout, result.Stderr)
	}
	return result
}
