package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/keypad/pkg/domain"
	"github.com/aretw0/keypad/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	ports.RunSessionStoreContract(t, New(t.TempDir()))
}

func TestFileStore_ListMissingDir(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "not-yet"))
	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFileStore_RejectsPathLikeIDs(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	for _, id := range []string{"", "..", "a/b", `a\b`, "tmp-x"} {
		err := store.Save(ctx, id, domain.InitialSnapshot())
		assert.ErrorIs(t, err, ErrInvalidSessionID, id)

		_, err = store.Load(ctx, id)
		assert.ErrorIs(t, err, ErrInvalidSessionID, id)
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0o644))

	_, err := New(dir).Load(context.Background(), "bad")
	assert.ErrorIs(t, err, domain.ErrInvalidSnapshot)
}

func TestFileStore_IgnoresStrayFiles(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", domain.InitialSnapshot()))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tmp-s2-123.json"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0o755))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, ids)
}

func TestFileStore_DefaultPath(t *testing.T) {
	assert.Equal(t, filepath.Join(".keypad", "sessions"), New("").BasePath)
}
