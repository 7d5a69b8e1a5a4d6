package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/genomepuzzle/site/internal/config"
	"github.com/genomepuzzle/site/internal/dataset"
)

func writeDataset(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"run1_answer_sheet.csv": "public_name,r1,r2,SPECIES\nGP-001,GP-001_R1.fastq.gz,GP-001_R2.fastq.gz,Escherichia coli\n",
		"run1_sample_sheet.csv": "public_name,r1,r2\nGP-001,GP-001_R1.fastq.gz,GP-001_R2.fastq.gz\n",
		"GP-001_R1.fastq.gz":    "@r1",
		"GP-001_R2.fastq.gz":    "@r2",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestPublishCmd_DryRun(t *testing.T) {
	t.Setenv("PUBLIC_URL", "https://pub.example.com/")
	dir := writeDataset(t)
	public := filepath.Join(t.TempDir(), "public")

	root := newRootCmd()
	var stderr bytes.Buffer
	root.SetErr(&stderr)
	root.SetArgs([]string{
		"publish",
		"--path", dir,
		"--public-dir", public,
		"--dotenv", filepath.Join(t.TempDir(), "absent.env"),
		"--dry-run",
	})
	if err := root.Execute(); err != nil {
		t.Fatalf("publish: %v\n%s", err, stderr.String())
	}

	data, err := os.ReadFile(filepath.Join(public, dataset.DetailsFile))
	if err != nil {
		t.Fatal(err)
	}
	details, err := dataset.DecodeDetails(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(details.Samples) != 1 || details.Samples[0].R1URL != "https://pub.example.com/GP-001_R1.fastq.gz" {
		t.Errorf("samples = %+v", details.Samples)
	}

	for _, tool := range dataset.Downloaders {
		if _, err := os.Stat(filepath.Join(public, tool.ScriptName())); err != nil {
			t.Errorf("missing %s: %v", tool.ScriptName(), err)
		}
	}

	if !strings.Contains(stderr.String(), `"msg":"dataset published"`) {
		t.Errorf("missing summary log line:\n%s", stderr.String())
	}
}

func TestPublishCmd_MissingCredentials(t *testing.T) {
	dotenv := filepath.Join(t.TempDir(), "r2.env")
	if err := os.WriteFile(dotenv, []byte("BUCKET_NAME=puzzles\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ACCESS_KEY_ID", "")
	t.Setenv("SECRET_ACCESS_KEY", "")
	t.Setenv("ENDPOINT_URL", "")

	root := newRootCmd()
	root.SetErr(io.Discard)
	root.SetArgs([]string{"publish", "--path", writeDataset(t), "--dotenv", dotenv})

	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), "ACCESS_KEY_ID") {
		t.Fatalf("err = %v, want missing credentials", err)
	}
}

func TestServeCmd_InvalidConfig(t *testing.T) {
	root := newRootCmd()
	root.SetErr(io.Discard)
	root.SetArgs([]string{"serve", "--cache-max-size", "lots"})

	if err := root.Execute(); err == nil {
		t.Fatal("serve accepted an invalid cache size")
	}
}

func TestServe_StopsOnCancel(t *testing.T) {
	cfg, err := config.Parse([]string{"--listen", "127.0.0.1:0", "--public-dir", t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, cfg, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	}()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}

func TestVersionTemplate(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--version"})

	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != versionString() {
		t.Errorf("version = %q, want %q", got, versionString())
	}
}
