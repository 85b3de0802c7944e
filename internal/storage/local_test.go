package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalRoundTrip(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	l, err := NewLocal(root)
	require.NoError(t, err)

	path, err := l.Save(ctx, "resumes/s1/a.pdf", "application/pdf", strings.NewReader("%PDF-1.4 body"))
	require.NoError(t, err)
	assert.Equal(t, "resumes/s1/a.pdf", path)
	assert.FileExists(t, filepath.Join(root, "resumes", "s1", "a.pdf"))

	rc, err := l.Open(ctx, path)
	require.NoError(t, err)
	b, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 body", string(b))

	require.NoError(t, l.Delete(ctx, path))
	_, err = os.Stat(filepath.Join(root, "resumes", "s1", "a.pdf"))
	assert.True(t, os.IsNotExist(err))

	assert.ErrorIs(t, l.Delete(ctx, path), ErrObjectNotFound)
	_, err = l.Open(ctx, path)
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocalRejectsTraversal(t *testing.T) {
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	_, err = l.Save(context.Background(), "../escape.pdf", "application/pdf", strings.NewReader("x"))
	assert.Error(t, err)
	_, err = l.Open(context.Background(), "..")
	assert.Error(t, err)
}

func TestLocalSaveDoesNotOverwrite(t *testing.T) {
	ctx := context.Background()
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	_, err = l.Save(ctx, "k.pdf", "application/pdf", strings.NewReader("one"))
	require.NoError(t, err)
	_, err = l.Save(ctx, "k.pdf", "application/pdf", strings.NewReader("two"))
	assert.Error(t, err)
}
