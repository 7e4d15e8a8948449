package storage

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartFile(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("resume", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["resume"][0]
}

func TestUploads_SaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	u, err := NewUploads(dir, 1<<20, nil)
	require.NoError(t, err)

	content := []byte("%PDF-1.4 fake resume body")
	path, err := u.Save(multipartFile(t, "resume.pdf", content))
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, ".pdf"))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, got)

	u.Remove(path)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// removing again must be harmless
	u.Remove(path)
}

func TestUploads_UniqueNames(t *testing.T) {
	u, err := NewUploads(t.TempDir(), 1<<20, nil)
	require.NoError(t, err)

	first, err := u.Save(multipartFile(t, "resume.pdf", []byte("one")))
	require.NoError(t, err)
	second, err := u.Save(multipartFile(t, "resume.pdf", []byte("two")))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestUploads_RejectsDisallowedExtension(t *testing.T) {
	u, err := NewUploads(t.TempDir(), 1<<20, nil)
	require.NoError(t, err)

	_, err = u.Save(multipartFile(t, "resume.exe", []byte("nope")))
	assert.ErrorIs(t, err, ErrUnsupportedExtension)
}

func TestUploads_RejectsOversize(t *testing.T) {
	u, err := NewUploads(t.TempDir(), 8, nil)
	require.NoError(t, err)

	_, err = u.Save(multipartFile(t, "resume.txt", []byte("more than eight bytes")))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestUploads_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	_, err := NewUploads(dir, 1<<20, nil)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
