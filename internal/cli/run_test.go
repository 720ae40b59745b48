package cli

import (
	"bytes"
	stdcontext "context"
	"encoding/json"
	"os"
	"path/filepath"
	stdruntime "runtime"
	"strings"
	"testing"
	"time"

	"github.com/Paintersrp/procwatch/internal/cliutil"
)

func writeManifest(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "procwatch.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	ctx, cancel := stdcontext.WithTimeout(stdcontext.Background(), 10*time.Second)
	defer cancel()
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

func decodeRecords(t *testing.T, output string) []cliutil.LogRecord {
	t.Helper()
	var records []cliutil.LogRecord
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if line == "" {
			continue
		}
		var record cliutil.LogRecord
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			t.Fatalf("decode %q: %v", line, err)
		}
		records = append(records, record)
	}
	return records
}

func TestRunCapturesProcessOutput(t *testing.T) {
	if stdruntime.GOOS == "windows" {
		t.Skip("run tests skipped on windows")
	}

	manifest := writeManifest(t, `version: "0.1"
processes:
  greeter:
    path: /bin/sh
    args: ["-c", "printf 'hello from child\n'"]
`)

	output, err := executeCommand(t, "-f", manifest, "run", "--json")
	if err != nil {
		t.Fatalf("run: %v\noutput: %s", err, output)
	}

	var captured bool
	for _, record := range decodeRecords(t, output) {
		if record.Process == "greeter" && record.Message == "hello from child" {
			captured = true
		}
	}
	if !captured {
		t.Fatalf("captured line missing from output:\n%s", output)
	}
}

func TestRunReportsSpawnFailure(t *testing.T) {
	if stdruntime.GOOS == "windows" {
		t.Skip("run tests skipped on windows")
	}

	manifest := writeManifest(t, `version: "0.1"
processes:
  ghost:
    path: /nonexistent/missing-binary
`)

	output, err := executeCommand(t, "-f", manifest, "run", "--json")
	if err == nil {
		t.Fatalf("expected run to report the failed start, output:\n%s", output)
	}
	if !strings.Contains(err.Error(), "failed to start") {
		t.Fatalf("unexpected error: %v", err)
	}

	var spawnError bool
	for _, record := range decodeRecords(t, output) {
		if record.Process == "ghost" && record.Level == "error" {
			spawnError = true
		}
	}
	if !spawnError {
		t.Fatalf("expected an error record for the failed spawn:\n%s", output)
	}
}

func TestExecSupervisesAdHocCommand(t *testing.T) {
	if stdruntime.GOOS == "windows" {
		t.Skip("exec tests skipped on windows")
	}

	output, err := executeCommand(t, "exec", "oneshot", "--json", "--", "/bin/sh", "-c", "printf 'ad hoc\n'")
	if err != nil {
		t.Fatalf("exec: %v\noutput: %s", err, output)
	}

	var captured bool
	for _, record := range decodeRecords(t, output) {
		if record.Process == "oneshot" && record.Message == "ad hoc" {
			captured = true
		}
	}
	if !captured {
		t.Fatalf("captured line missing from output:\n%s", output)
	}
}

func TestConfigValidate(t *testing.T) {
	manifest := writeManifest(t, `version: "0.1"
processes:
  tsc:
    path: node
    args: ["tsc", "--watch"]
`)

	output, err := executeCommand(t, "-f", manifest, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	if !strings.Contains(output, "1 processes") || !strings.Contains(output, "tsc: node") {
		t.Fatalf("unexpected output:\n%s", output)
	}
}

func TestConfigValidateRejectsBrokenManifest(t *testing.T) {
	manifest := writeManifest(t, "version: \"0.1\"\n")

	if _, err := executeCommand(t, "-f", manifest, "config", "validate"); err == nil {
		t.Fatal("expected validation failure")
	}
}

func TestConfigInitWritesValidManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "procwatch.yaml")

	output, err := executeCommand(t, "-f", path, "config", "init")
	if err != nil {
		t.Fatalf("config init: %v\noutput: %s", err, output)
	}

	if _, err := executeCommand(t, "-f", path, "config", "validate"); err != nil {
		t.Fatalf("starter manifest failed validation: %v", err)
	}

	if _, err := executeCommand(t, "-f", path, "config", "init"); err == nil {
		t.Fatal("expected init to refuse overwriting an existing manifest")
	}
}
