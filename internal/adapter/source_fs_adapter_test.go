package adapter

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	m "mutate.dev/pkg/mutate/internal/model"
)

func TestLocalSourceFSAdapter_ReadFile(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	path := filepath.Join(root, "main.go")
	content := "package main\n" + "func main() {}\n"
	writeTestFile(t, path, content)

	got, err := adapter.ReadFile(context.Background(), m.Path(path))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if string(got) != content {
		t.Fatalf("ReadFile() = %q, want %q", got, content)
	}
}

func TestLocalSourceFSAdapter_HashFile(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	path := filepath.Join(root, "hash.go")
	content := []byte("package main\nfunc main() {}\n")
	writeTestBytes(t, path, content)

	got, err := adapter.HashFile(context.Background(), m.Path(path))
	if err != nil {
		t.Fatalf("HashFile() error = %v", err)
	}

	want := fmt.Sprintf("%x", sha256.Sum256(content))
	if got != want {
		t.Fatalf("HashFile() = %s, want %s", got, want)
	}
}

func TestLocalSourceFSAdapter_FileInfo(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()
	root := t.TempDir()

	info, err := adapter.FileInfo(context.Background(), m.Path(root))
	require.NoError(t, err)
	require.True(t, info.IsDir())

	_, err = adapter.FileInfo(context.Background(), m.Path(filepath.Join(root, "missing")))
	require.True(t, os.IsNotExist(err))
}

func TestLocalSourceFSAdapter_FindProjectRoot(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	goModDir := t.TempDir()
	writeTestFile(t, filepath.Join(goModDir, "go.mod"), "module example.com/x\n")

	nested := filepath.Join(goModDir, "pkg", "inner")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	source := filepath.Join(nested, "file.go")
	writeTestFile(t, source, "package inner\n")

	got, err := adapter.FindProjectRoot(context.Background(), m.Path(source))
	if err != nil {
		t.Fatalf("FindProjectRoot() error = %v", err)
	}

	if got != m.Path(goModDir) {
		t.Fatalf("FindProjectRoot() = %s, want %s", got, goModDir)
	}

	got, err = adapter.FindProjectRoot(context.Background(), m.Path(nested))
	require.NoError(t, err)
	require.Equal(t, m.Path(goModDir), got)
}

func TestLocalSourceFSAdapter_Glob(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	mustMkdir(t, filepath.Join(root, "app"))
	mustMkdir(t, filepath.Join(root, "app", "sub"))
	writeTestFile(t, filepath.Join(root, "app", "grading.go"), "package app\n")
	writeTestFile(t, filepath.Join(root, "app", "models.go"), "package app\n")
	writeTestFile(t, filepath.Join(root, "app", "grading_test.go"), "package app\n")
	writeTestFile(t, filepath.Join(root, "app", "sub", "deep.go"), "package sub\n")

	t.Run("single level star", func(t *testing.T) {
		got, err := adapter.Glob(context.Background(), m.Path(root), "app/*.go")
		require.NoError(t, err)
		assert.Equal(t, []m.Path{
			m.Path(filepath.Join("app", "grading.go")),
			m.Path(filepath.Join("app", "grading_test.go")),
			m.Path(filepath.Join("app", "models.go")),
		}, got)
	})

	t.Run("double star crosses directories", func(t *testing.T) {
		got, err := adapter.Glob(context.Background(), m.Path(root), "app/**/deep.go")
		require.NoError(t, err)
		assert.Equal(t, []m.Path{m.Path(filepath.Join("app", "sub", "deep.go"))}, got)
	})

	t.Run("invalid pattern", func(t *testing.T) {
		_, err := adapter.Glob(context.Background(), m.Path(root), "app/[")
		require.Error(t, err)
	})
}

func TestLocalSourceFSAdapter_CreateTempDirAndRemoveAll(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	tmp, err := adapter.CreateTempDir(context.Background(), "mutate-test-*")
	if err != nil {
		t.Fatalf("CreateTempDir() error = %v", err)
	}

	if fi, err := os.Stat(string(tmp)); err != nil || !fi.IsDir() {
		t.Fatalf("CreateTempDir() did not create directory, stat err=%v", err)
	}

	writeTestFile(t, filepath.Join(string(tmp), "file.go"), "package main\n")

	if err := adapter.RemoveAll(context.Background(), tmp); err != nil {
		t.Fatalf("RemoveAll() error = %v", err)
	}

	if _, err := os.Stat(string(tmp)); !os.IsNotExist(err) {
		t.Fatalf("RemoveAll() did not remove directory, stat err=%v", err)
	}
}

func TestLocalSourceFSAdapter_CopyDirIsVerbatim(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()
	ctx := context.Background()

	src := t.TempDir()
	dst := t.TempDir()

	mustMkdir(t, filepath.Join(src, "sub"))
	mustMkdir(t, filepath.Join(src, ".git"))
	mustMkdir(t, filepath.Join(src, "vendor"))
	writeTestFile(t, filepath.Join(src, "sub", "main.go"), "package main\n")
	writeTestFile(t, filepath.Join(src, ".git", "HEAD"), "ref: refs/heads/main\n")
	writeTestFile(t, filepath.Join(src, "vendor", "modules.txt"), "# none\n")

	script := filepath.Join(src, "run.sh")
	require.NoError(t, adapter.WriteFile(ctx, m.Path(script), []byte("#!/bin/sh\n"), 0o755))

	if runtime.GOOS != "windows" {
		require.NoError(t, os.Symlink("sub/main.go", filepath.Join(src, "link.go")))
	}

	require.NoError(t, adapter.CopyDir(ctx, m.Path(src), m.Path(dst)))

	for _, rel := range []string{"sub/main.go", ".git/HEAD", "vendor/modules.txt", "run.sh"} {
		want, err := os.ReadFile(filepath.Join(src, rel))
		require.NoError(t, err)

		got, err := os.ReadFile(filepath.Join(dst, rel))
		require.NoError(t, err, rel)
		assert.Equal(t, want, got, rel)
	}

	info, err := os.Stat(filepath.Join(dst, "run.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	if runtime.GOOS != "windows" {
		link, err := os.Readlink(filepath.Join(dst, "link.go"))
		require.NoError(t, err)
		assert.Equal(t, "sub/main.go", link)
	}
}

func TestLocalSourceFSAdapter_CopyDir_MissingSource(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	err := adapter.CopyDir(context.Background(), m.Path(filepath.Join(t.TempDir(), "missing")), m.Path(t.TempDir()))
	require.Error(t, err)
}

func TestLocalSourceFSAdapter_PathHelpers(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()
	ctx := context.Background()

	base := m.Path("/tmp/project")
	target := m.Path("/tmp/project/sub/dir/file.go")

	rel, err := adapter.RelPath(ctx, base, target)
	if err != nil {
		t.Fatalf("RelPath() error = %v", err)
	}

	if string(rel) != filepath.Join("sub", "dir", "file.go") {
		t.Fatalf("RelPath() = %s, want %s", rel, filepath.Join("sub", "dir", "file.go"))
	}

	joined := adapter.JoinPath(ctx, "/tmp", "project", "sub", "file.go")
	if string(joined) != filepath.Join("/tmp", "project", "sub", "file.go") {
		t.Fatalf("JoinPath() = %s, want %s", joined, filepath.Join("/tmp", "project", "sub", "file.go"))
	}
}

func writeTestFile(t *testing.T, path, contents string) {
	t.Helper()
	writeTestBytes(t, path, []byte(contents))
}

func writeTestBytes(t *testing.T, path string, contents []byte) {
	t.Helper()

	if err := os.WriteFile(path, contents, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func mustMkdir(t *testing.T, path string) {
	t.Helper()

	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatalf("failed to create dir %s: %v", path, err)
	}
}

func readFileBytes(t *testing.T, path string) []byte {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}

	return content
}

func examplePath(t *testing.T, name string) string {
	t.Helper()

	return filepath.Join("..", "..", "examples", name)
}
