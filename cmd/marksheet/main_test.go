package main

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestRunMain_Commands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{name: "no command", args: []string{"marksheet"}, wantCode: ExitUsage, wantStderr: "Usage: marksheet"},
		{name: "version", args: []string{"marksheet", "version"}, wantCode: ExitSuccess, wantStdout: "marksheet dev"},
		{name: "help", args: []string{"marksheet", "help"}, wantCode: ExitSuccess, wantStdout: "hallticket"},
		{name: "help ledger", args: []string{"marksheet", "help", "ledger"}, wantCode: ExitSuccess, wantStdout: "--institution"},
		{name: "help unknown", args: []string{"marksheet", "help", "nope"}, wantCode: ExitUsage, wantStderr: "Unknown command: nope"},
		{name: "ledger --help", args: []string{"marksheet", "ledger", "--help"}, wantCode: ExitSuccess, wantStdout: "Usage: marksheet ledger"},
		{name: "unknown command", args: []string{"marksheet", "convert"}, wantCode: ExitUsage, wantStderr: "unknown command: convert"},
		{name: "unknown flag", args: []string{"marksheet", "ledger", "--nope"}, wantCode: ExitUsage, wantStderr: "invalid usage"},
		{name: "no input", args: []string{"marksheet", "hallticket"}, wantCode: ExitIO, wantStderr: "no input specified"},
		{name: "missing roster", args: []string{"marksheet", "ledger", "/nonexistent/roster.yaml"}, wantCode: ExitIO},
		{name: "bad backend", args: []string{"marksheet", "ledger", "--backend", "pandoc", "x.yaml"}, wantCode: ExitUsage, wantStderr: "backend"},
		{name: "bad layout kind", args: []string{"marksheet", "layout", "--kind", "poster", "x.yaml"}, wantCode: ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env, stdout, stderr := testEnv()

			code := runMain(tt.args, env)
			if code != tt.wantCode {
				t.Errorf("runMain() = %d, want %d\nstderr: %s", code, tt.wantCode, stderr)
			}
			if tt.wantStdout != "" && !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want it to contain %q", stdout, tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr, tt.wantStderr)
			}
		})
	}
}

func TestRunMain_RendersEachDocumentKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cmd     string
		wantOut string
	}{
		{cmdLedger, "roster_marksheet.pdf"},
		{cmdGradeCard, "roster_gradecards.pdf"},
		{cmdHallTicket, "roster_halltickets.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			roster := writeFile(t, dir, "roster.yaml", rosterYAML)
			env, stdout, stderr := testEnv()

			code := runMain([]string{"marksheet", tt.cmd, roster}, env)
			if code != ExitSuccess {
				t.Fatalf("runMain() = %d, want 0\nstderr: %s", code, stderr)
			}
			out := filepath.Join(dir, tt.wantOut)
			readPDF(t, out)
			if !strings.Contains(stdout.String(), "Created "+out) {
				t.Errorf("stdout = %q, want Created line for %s", stdout, out)
			}
		})
	}
}

func TestRunMain_ReportsSkippedStudents(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	roster := writeFile(t, dir, "roster.yaml", rosterYAML+`  - register_no: ""
    name: No Number
`)
	env, _, stderr := testEnv()

	code := runMain([]string{"marksheet", "ledger", "-q", roster}, env)
	if code != ExitSuccess {
		t.Fatalf("runMain() = %d, want 0\nstderr: %s", code, stderr)
	}
	if !strings.Contains(stderr.String(), "student #2") || !strings.Contains(stderr.String(), "register_no is required") {
		t.Errorf("stderr = %q, want skipped student warning", stderr)
	}
}

func TestRunMain_Batch(t *testing.T) {
	t.Parallel()
	in := t.TempDir()
	out := t.TempDir()
	writeFile(t, in, "cs/sem3.yaml", rosterYAML)
	writeFile(t, in, "math/sem3.yml", rosterYAML)
	writeFile(t, in, "notes.txt", "ignored")
	writeFile(t, in, "broken/sem1.yaml", "students: []\n")
	env, stdout, stderr := testEnv()

	code := runMain([]string{"marksheet", "hallticket", "-w", "2", "-o", out, in}, env)
	if code != ExitGeneral {
		t.Errorf("runMain() = %d, want %d for a partially failed batch", code, ExitGeneral)
	}
	readPDF(t, filepath.Join(out, "cs", "sem3_halltickets.pdf"))
	readPDF(t, filepath.Join(out, "math", "sem3_halltickets.pdf"))
	if !strings.Contains(stderr.String(), "FAILED "+filepath.Join(in, "broken", "sem1.yaml")) {
		t.Errorf("stderr = %q, want FAILED line for the empty roster", stderr)
	}
	if !strings.Contains(stdout.String(), "2 succeeded, 1 failed") {
		t.Errorf("stdout = %q, want batch summary", stdout)
	}
}

func TestRunMain_SettingsFile(t *testing.T) {
	t.Parallel()

	t.Run("unknown institution is a usage error with hint", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		settings := writeFile(t, dir, "templates.yaml", "templates:\n  - institution_code: INST02\n")
		roster := writeFile(t, dir, "roster.yaml", rosterYAML)
		env, _, stderr := testEnv()

		code := runMain([]string{"marksheet", "gradecard", "--settings", settings, roster}, env)
		if code != ExitUsage {
			t.Errorf("runMain() = %d, want %d\nstderr: %s", code, ExitUsage, stderr)
		}
		if !strings.Contains(stderr.String(), "hint:") {
			t.Errorf("stderr = %q, want a hint", stderr)
		}
	})

	t.Run("overflowing ledger suggests landscape paper", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		settings := writeFile(t, dir, "templates.yaml", "templates:\n  - institution_code: INST01\n    paper_size: A4\n")
		roster := writeFile(t, dir, "wide.yaml", rosterWithCourses(12))
		env, _, stderr := testEnv()

		code := runMain([]string{"marksheet", "ledger", "--settings", settings, roster}, env)
		if code != ExitUsage {
			t.Errorf("runMain() = %d, want %d\nstderr: %s", code, ExitUsage, stderr)
		}
		if !strings.Contains(stderr.String(), "Legal") {
			t.Errorf("stderr = %q, want paper hint", stderr)
		}
	})

	t.Run("institution flag overrides roster", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		settings := writeFile(t, dir, "templates.yaml", "templates:\n  - institution_code: INST02\n    institution_name: Second College\n")
		roster := writeFile(t, dir, "roster.yaml", rosterYAML)
		env, _, stderr := testEnv()

		code := runMain([]string{"marksheet", "hallticket", "--settings", settings, "--institution", "INST02", roster}, env)
		if code != ExitSuccess {
			t.Errorf("runMain() = %d, want 0\nstderr: %s", code, stderr)
		}
	})
}

func TestRunMain_Layout(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	roster := writeFile(t, dir, "roster.yaml", rosterYAML)
	env, stdout, stderr := testEnv()

	code := runMain([]string{"marksheet", "layout", roster}, env)
	if code != ExitSuccess {
		t.Fatalf("runMain() = %d, want 0\nstderr: %s", code, stderr)
	}
	for _, want := range []string{"course_order", "CG1", "CG2", "CG3", "CS302", "Legal landscape"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
}

func TestMergeRenderFlags(t *testing.T) {
	t.Parallel()
	flags, _, err := parseRenderFlags(cmdLedger, []string{
		"-o", "out", "-w", "3", "-t", "1m", "--backend", "browser", "--style", "compact",
		"--settings", "t.yaml", "--institution", "INST09", "--exam-name", "Nov 2026", "--cluster-groups",
	})
	if err != nil {
		t.Fatalf("parseRenderFlags() error = %v", err)
	}
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	mergeRenderFlags(flags, cfg)

	if cfg.Output.DefaultDir != "out" || cfg.Workers != 3 || cfg.Backend.Timeout != "1m" {
		t.Errorf("I/O flags not merged: %+v", cfg)
	}
	if cfg.Backend.Name != "browser" || cfg.Backend.Style != "compact" {
		t.Errorf("Backend = %+v", cfg.Backend)
	}
	if cfg.Settings.File != "t.yaml" || cfg.Settings.Institution != "INST09" {
		t.Errorf("Settings = %+v", cfg.Settings)
	}
	if !cfg.Document.ClusterGroups {
		t.Error("Document.ClusterGroups = false, want true from --cluster-groups")
	}
	if got := flags.document.info().ExamName; got != "Nov 2026" {
		t.Errorf("ExamName = %q, want %q", got, "Nov 2026")
	}
}
