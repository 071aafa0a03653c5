package upload

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emlakpro/core/internal/modules/media"
	"github.com/emlakpro/core/internal/pkg/apperr"
)

// fakeStore is an in-memory media.Store for session tests.
type fakeStore struct {
	mu       sync.Mutex
	objects  map[string][]byte
	failNext int // fail this many uploads before succeeding
	deleted  []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (f *fakeStore) Upload(_ context.Context, obj media.UploadObject) (*media.StoredObject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext > 0 {
		f.failNext--
		return nil, apperr.Upload(obj.FileName, errors.New("boom"))
	}
	key := obj.Folder + "/" + obj.FileName
	f.objects[key] = obj.Data
	return &media.StoredObject{ID: key, URL: "https://cdn.test/" + key}, nil
}

func (f *fakeStore) Fetch(_ context.Context, id string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if data, ok := f.objects[id]; ok {
		return data, nil
	}
	return nil, apperr.NotFound("görsel", id)
}

func (f *fakeStore) DeleteObject(_ context.Context, id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	// an absent object is already deleted
	delete(f.objects, id)
	return true
}

func (f *fakeStore) DeleteFolder(_ context.Context, folder string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	// a missing folder is already deleted
	for key := range f.objects {
		if len(key) > len(folder) && key[:len(folder)+1] == folder+"/" {
			delete(f.objects, key)
		}
	}
	return true
}

func (f *fakeStore) RenameFolder(_ context.Context, oldFolder, newFolder string) (*media.RenameResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res := &media.RenameResult{Folder: newFolder, Complete: true}
	for key, data := range f.objects {
		if len(key) > len(oldFolder) && key[:len(oldFolder)+1] == oldFolder+"/" {
			newKey := newFolder + key[len(oldFolder):]
			if oldFolder != newFolder {
				f.objects[newKey] = data
				delete(f.objects, key)
			}
			res.Moved = append(res.Moved, media.MovedResource{
				OldID: key, NewID: newKey, NewURL: "https://cdn.test/" + newKey,
			})
		}
	}
	return res, nil
}

func (f *fakeStore) List(_ context.Context, folder string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for key := range f.objects {
		if len(key) > len(folder) && key[:len(folder)+1] == folder+"/" {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (f *fakeStore) URLFor(id string) string { return "https://cdn.test/" + id }

func addUploaded(t *testing.T, s *Session, store media.Store, index int) *Item {
	t.Helper()
	item, err := s.Add(index, fmt.Sprintf("img-%d.jpg", index), "", []byte{0xFF})
	require.NoError(t, err)
	require.NoError(t, s.Upload(context.Background(), store, item))
	return item
}

func TestSessionCapEnforced(t *testing.T) {
	s := NewSession("draft-1", 2)
	s.SetFolder("emlak/test")

	_, err := s.Add(0, "a.jpg", "", nil)
	require.NoError(t, err)
	_, err = s.Add(1, "b.jpg", "", nil)
	require.NoError(t, err)

	// third photo rejected, the first two stay admitted
	_, err = s.Add(2, "c.jpg", "", nil)
	assert.True(t, apperr.IsValidation(err))
	assert.Len(t, s.Items(), 2)
}

func TestSessionUploadAndRetry(t *testing.T) {
	store := newFakeStore()
	store.failNext = 1
	s := NewSession("draft-1", 50)
	s.SetFolder("emlak/test")

	item, err := s.Add(0, "a.jpg", "", []byte{1})
	require.NoError(t, err)

	err = s.Upload(context.Background(), store, item)
	require.Error(t, err)
	assert.Equal(t, StatusError, s.Items()[0].Status)

	require.NoError(t, s.Retry(context.Background(), store, 0))
	got := s.Items()[0]
	assert.Equal(t, StatusUploaded, got.Status)
	assert.Equal(t, "emlak/test/a.jpg", got.RemoteID)
	assert.Equal(t, 100, got.Progress)
}

func TestSessionRetryRejectsNonErrored(t *testing.T) {
	store := newFakeStore()
	s := NewSession("draft-1", 50)
	s.SetFolder("emlak/test")
	addUploaded(t, s, store, 0)

	err := s.Retry(context.Background(), store, 0)
	assert.True(t, apperr.IsValidation(err))
}

func TestSessionRemoveRecordsPendingDeletion(t *testing.T) {
	store := newFakeStore()
	s := NewSession("draft-1", 50)
	s.SetFolder("emlak/test")
	item := addUploaded(t, s, store, 0)

	// the remote copy vanishing before removal still counts as deleted
	store.DeleteObject(context.Background(), item.RemoteID)

	deleted, err := s.Remove(context.Background(), store, 0)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Empty(t, s.Items())

	// a re-attached copy with the same id must not survive commit
	_, err = s.AttachExisting(0, item.RemoteID, "https://cdn.test/x", "")
	require.NoError(t, err)
	images, failures := s.CommitAll()
	assert.Empty(t, images)
	require.Len(t, failures, 1)
	assert.Equal(t, "fotoğraf silinmiş", failures[0].Reason)
}

func TestSessionReorderSetsCover(t *testing.T) {
	store := newFakeStore()
	s := NewSession("draft-1", 50)
	s.SetFolder("emlak/test")
	addUploaded(t, s, store, 0)
	addUploaded(t, s, store, 1)
	addUploaded(t, s, store, 2)

	s.Reorder([]int{2, 0, 1})

	items := s.Items()
	require.Len(t, items, 3)
	assert.Equal(t, 2, items[0].Index)
	assert.True(t, items[0].IsCover)
	assert.False(t, items[1].IsCover)
	assert.False(t, items[2].IsCover)
}

func TestSessionCommitAll(t *testing.T) {
	store := newFakeStore()
	s := NewSession("draft-1", 50)
	s.SetFolder("emlak/test")
	addUploaded(t, s, store, 0)
	addUploaded(t, s, store, 1)

	// an errored item is reported, not committed
	store.failNext = 3
	item, err := s.Add(2, "bad.jpg", "", []byte{1})
	require.NoError(t, err)
	_ = s.Upload(context.Background(), store, item)

	// duplicate remote id collapses to one row
	first := s.Items()[0]
	_, err = s.AttachExisting(3, first.RemoteID, first.RemoteURL, "")
	require.NoError(t, err)

	images, failures := s.CommitAll()
	require.Len(t, images, 2)
	assert.True(t, images[0].IsCover)
	assert.Equal(t, 0, images[0].OrderIndex)
	assert.Equal(t, 1, images[1].OrderIndex)
	assert.False(t, images[1].IsCover)

	require.Len(t, failures, 1)
	assert.Equal(t, "bad.jpg", failures[0].FileName)
	assert.Equal(t, "yükleme tamamlanmadı", failures[0].Reason)
}
