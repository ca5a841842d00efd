package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureSubDir_CreatesDirectoryInCWD(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureSubDir("downloads")
	require.NoError(t, err)

	want := filepath.Join(tmp, "downloads")
	require.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		perm := fi.Mode().Perm()
		require.Equal(t, os.FileMode(0o700), perm&0o700)
	}
}

func TestEnsureSubDir_Idempotent(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	first, err := EnsureSubDir("downloads")
	require.NoError(t, err)

	second, err := EnsureSubDir("downloads")
	require.NoError(t, err)

	require.Equal(t, first, second)
	fi, err := os.Stat(second)
	require.NoError(t, err)
	require.True(t, fi.IsDir())
}

func TestEnsureSubDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	require.NoError(t, os.WriteFile("downloads", []byte("x"), 0o660))

	_, err := EnsureSubDir("downloads")
	require.Error(t, err, "should fail when a file exists with the same name")
}

func TestReadLimited(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "proof.jpg")
	require.NoError(t, os.WriteFile(p, make([]byte, 100), 0o660))

	data, size, err := ReadLimited(p, 10)
	require.NoError(t, err)
	require.Len(t, data, 11)
	require.Equal(t, int64(100), size)

	data, size, err = ReadLimited(p, 1000)
	require.NoError(t, err)
	require.Len(t, data, 100)
	require.Equal(t, int64(100), size)

	_, _, err = ReadLimited(filepath.Join(tmp, "missing.jpg"), 10)
	require.Error(t, err)

	_, _, err = ReadLimited(tmp, 10)
	require.Error(t, err)
}

func TestCreateUnique(t *testing.T) {
	tmp := t.TempDir()

	f1, err := CreateUnique(tmp, "proof.png")
	require.NoError(t, err)
	require.NoError(t, f1.Close())
	require.Equal(t, filepath.Join(tmp, "proof.png"), f1.Name())

	f2, err := CreateUnique(tmp, "proof.png")
	require.NoError(t, err)
	require.NoError(t, f2.Close())
	require.Equal(t, filepath.Join(tmp, "proof-1.png"), f2.Name())
}
