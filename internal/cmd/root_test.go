package cmd

import (
	"context"
	"strings"
	"testing"
)

func TestExecute_ConflictingOutputFlags(t *testing.T) {
	err := Execute(context.Background(), []string{"version", "--json", "--output", "text"})
	if err == nil {
		t.Fatal("expected error for conflicting --json and --output text")
	}
	if !strings.Contains(err.Error(), "--json conflicts") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExecute_InvalidOutputFormat(t *testing.T) {
	err := Execute(context.Background(), []string{"version", "--output", "yaml"})
	if err == nil {
		t.Fatal("expected error for invalid output format")
	}
	if !strings.Contains(err.Error(), "invalid --output") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExecute_InvalidJQExpression(t *testing.T) {
	err := Execute(context.Background(), []string{"version", "--jq", ".foo["})
	if err == nil {
		t.Fatal("expected error for invalid jq expression")
	}
}

func TestExecute_JQImpliesJSONOutput(t *testing.T) {
	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"version", "--jq", ".version"}); err != nil {
			t.Errorf("version --jq failed: %v", err)
		}
	})
	if !strings.Contains(output, `"dev"`) {
		t.Errorf("expected jq-filtered version string, got: %s", output)
	}
}

func TestExecute_NegativeTimeout(t *testing.T) {
	err := Execute(context.Background(), []string{"version", "--timeout", "-5s"})
	if err == nil {
		t.Fatal("expected error for negative timeout")
	}
}

func TestExecute_OutputFromEnv(t *testing.T) {
	t.Setenv("MATROID_OUTPUT", "json")

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"version"}); err != nil {
			t.Errorf("version failed: %v", err)
		}
	})
	if !strings.Contains(output, `"version"`) {
		t.Errorf("expected JSON output from MATROID_OUTPUT, got: %s", output)
	}
}

func TestExecute_FlagsResetBetweenRuns(t *testing.T) {
	t.Setenv("MATROID_OUTPUT", "")

	if err := Execute(context.Background(), []string{"version", "--json"}); err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"version"}); err != nil {
			t.Errorf("second run failed: %v", err)
		}
	})
	if strings.Contains(output, `"version"`) {
		t.Errorf("second run should use text output, got JSON: %s", output)
	}
}

func TestExecute_UnknownCommand(t *testing.T) {
	err := Execute(context.Background(), []string{"frobnicate"})
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
}
