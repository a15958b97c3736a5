package content

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/UtonulVTebe/studyhub-api/internal/models"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func sampleContent() map[string]interface{} {
	return map[string]interface{}{
		"topic-1": map[string]interface{}{
			"title": "Basics",
			"lectures": map[string]interface{}{
				"lec-1": map[string]interface{}{
					"tasks": map[string]interface{}{
						"task-1": map[string]interface{}{"type": "single_choice", "correct_answer": 1},
					},
				},
			},
		},
	}
}

func TestFileStoreSaveAndResolve(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rel, err := store.Save(ctx, 5, sampleContent())
	require.NoError(t, err)
	require.Equal(t, "courses/5.json", rel)

	tree, err := store.Resolve(ctx, models.Course{ID: 5, ContentPath: rel})
	require.NoError(t, err)
	task, ok := FindTask(tree, "topic-1", "lec-1", "task-1")
	require.True(t, ok)
	require.Equal(t, SingleChoiceTask{Correct: 1}, task)
}

func TestFileStoreResolveFallsBackToDefaultPath(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Save(ctx, 9, sampleContent())
	require.NoError(t, err)

	tree, err := store.Resolve(ctx, models.Course{ID: 9})
	require.NoError(t, err)
	require.Contains(t, tree, "topic-1")
}

func TestFileStoreResolveMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Resolve(context.Background(), models.Course{ID: 404})
	require.ErrorIs(t, err, ErrContentNotFound)
}

func TestFileStoreSaveRejectsMisshapenTree(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Save(context.Background(), 1, map[string]interface{}{
		"topic-1": "not an object",
	})
	require.ErrorIs(t, err, ErrContentInvalid)
}

func TestFileStoreImport(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rel, err := store.Import(ctx, 3, []byte(`{"topic-1": {"lectures": {}}}`))
	require.NoError(t, err)
	require.Equal(t, "courses/3.json", rel)

	_, err = store.Import(ctx, 3, []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a})
	require.ErrorIs(t, err, ErrContentInvalid, "binary uploads must be rejected")

	_, err = store.Import(ctx, 3, []byte(`{"broken"`))
	require.ErrorIs(t, err, ErrContentInvalid)
}

func TestFileStoreRemove(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rel, err := store.Save(ctx, 7, sampleContent())
	require.NoError(t, err)
	require.NoError(t, store.Remove(rel))

	_, err = store.Resolve(ctx, models.Course{ID: 7, ContentPath: rel})
	require.ErrorIs(t, err, ErrContentNotFound)

	require.NoError(t, store.Remove(rel), "removing an absent document is not an error")
	require.Error(t, store.Remove("../outside.json"), "paths escaping the root are refused")
}
