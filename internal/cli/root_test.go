package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInvalidFormatRejected(t *testing.T) {
	_, err := execute(t, "--format", "yaml", "status")
	if err == nil || !strings.Contains(err.Error(), "invalid format") {
		t.Fatalf("err = %v, want invalid format", err)
	}
}

func TestInitAndProjectRoundTrip(t *testing.T) {
	data := filepath.Join(t.TempDir(), "site")

	out, err := execute(t, "init", "--data", data, "--remember=false")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out, "initialized 16 resources") {
		t.Fatalf("init output = %q", out)
	}

	out, err = execute(t, "project", "create", "Villa renovation", "--data", data)
	if err != nil {
		t.Fatalf("project create: %v", err)
	}
	if !strings.Contains(out, "created project Villa renovation") {
		t.Fatalf("create output = %q", out)
	}

	out, err = execute(t, "project", "list", "--data", data)
	if err != nil {
		t.Fatalf("project list: %v", err)
	}
	if !strings.Contains(out, "Villa renovation") || !strings.Contains(out, "active") {
		t.Fatalf("list output = %q", out)
	}
}

func TestFundAddAndBalance(t *testing.T) {
	data := filepath.Join(t.TempDir(), "site")
	if _, err := execute(t, "init", "--data", data, "--remember=false"); err != nil {
		t.Fatalf("init: %v", err)
	}
	steps := [][]string{
		{"fund", "add", "100", "--project", "p1", "--currency", "usd", "--data", data},
		{"fund", "add", "40", "--project", "p1", "--kind", "expense", "--currency", "usd", "--data", data},
		{"fund", "add", "5000", "--project", "p1", "--currency", "syp", "--data", data},
	}
	for _, args := range steps {
		if _, err := execute(t, args...); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}
	out, err := execute(t, "fund", "balance", "--project", "p1", "--data", data)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !strings.Contains(out, "usd: 60.00") || !strings.Contains(out, "syp: 5000.00") {
		t.Fatalf("balance output = %q", out)
	}
}

func TestFileUploadListDelete(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "site")
	src := filepath.Join(dir, "plan.pdf")
	if err := os.WriteFile(src, []byte("pdf-bytes"), 0o644); err != nil {
		t.Fatalf("write source file: %v", err)
	}
	if _, err := execute(t, "init", "--data", data, "--remember=false"); err != nil {
		t.Fatalf("init: %v", err)
	}

	out, err := execute(t, "file", "upload", src, "--project", "p1", "--content-type", "application/pdf", "--data", data)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.Contains(out, "uploaded plan.pdf (9 bytes)") {
		t.Fatalf("upload output = %q", out)
	}

	out, err = execute(t, "file", "list", "--project", "p1", "--data", data)
	if err != nil || !strings.Contains(out, "plan.pdf") {
		t.Fatalf("list: %v %q", err, out)
	}
	id := strings.Fields(out)[0]

	out, err = execute(t, "file", "delete", id, "--data", data)
	if err != nil || !strings.Contains(out, "deleted file "+id) {
		t.Fatalf("delete: %v %q", err, out)
	}
	out, err = execute(t, "file", "list", "--project", "p1", "--data", data)
	if err != nil || strings.Contains(out, "plan.pdf") {
		t.Fatalf("list after delete: %v %q", err, out)
	}
}

func TestBackupExportImport(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "site")
	bundle := filepath.Join(dir, "backup.json")

	if _, err := execute(t, "init", "--data", data, "--remember=false"); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := execute(t, "client", "create", "Ayman", "--phone", "555-0101", "--data", data); err != nil {
		t.Fatalf("client create: %v", err)
	}
	out, err := execute(t, "backup", "export", bundle, "--data", data)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "exported 16 resources") {
		t.Fatalf("export output = %q", out)
	}

	restored := filepath.Join(dir, "restored")
	out, err = execute(t, "backup", "import", bundle, "--data", restored)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "restored 16 resources, skipped 0") {
		t.Fatalf("import output = %q", out)
	}
	out, err = execute(t, "client", "list", "--data", restored)
	if err != nil || !strings.Contains(out, "Ayman") {
		t.Fatalf("client list after restore: %v %q", err, out)
	}
}
