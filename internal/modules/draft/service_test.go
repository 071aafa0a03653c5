package draft

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/emlakpro/core/internal/modules/media"
	"github.com/emlakpro/core/internal/modules/upload"
)

// renameStore stubs just enough of media.Store for reconcile tests.
type renameStore struct {
	objects    map[string]struct{}
	failRename bool
	moveLimit  int // when > 0, only that many objects move per rename
	renamed    [][2]string
}

func (r *renameStore) Upload(context.Context, media.UploadObject) (*media.StoredObject, error) {
	return nil, errors.New("not used")
}
func (r *renameStore) Fetch(context.Context, string) ([]byte, error) {
	return nil, errors.New("not used")
}
func (r *renameStore) DeleteObject(context.Context, string) bool { return true }
func (r *renameStore) DeleteFolder(context.Context, string) bool { return true }

func (r *renameStore) RenameFolder(_ context.Context, oldFolder, newFolder string) (*media.RenameResult, error) {
	if r.failRename {
		return nil, errors.New("copy denied")
	}
	r.renamed = append(r.renamed, [2]string{oldFolder, newFolder})
	res := &media.RenameResult{Folder: newFolder, Complete: true}
	var keys []string
	for key := range r.objects {
		if strings.HasPrefix(key, oldFolder+"/") {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		if r.moveLimit > 0 && len(res.Moved) == r.moveLimit {
			res.Complete = false
			break
		}
		newKey := newFolder + strings.TrimPrefix(key, oldFolder)
		res.Moved = append(res.Moved, media.MovedResource{
			OldID: key, NewID: newKey, NewURL: "https://cdn.test/" + newKey,
		})
	}
	return res, nil
}

func (r *renameStore) List(_ context.Context, folder string) ([]string, error) {
	var keys []string
	for key := range r.objects {
		if strings.HasPrefix(key, strings.Trim(folder, "/")+"/") {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (r *renameStore) URLFor(id string) string { return "https://cdn.test/" + id }

func newReconcileService(store media.Store) (*Service, *upload.Manager) {
	sessions := upload.NewManager(50)
	resolver := upload.NewFolderResolver(store, nil, zap.NewNop())
	return NewService(nil, store, resolver, sessions, zap.NewNop()), sessions
}

func TestReconcileFoldersRewritesImageIdentities(t *testing.T) {
	store := &renameStore{objects: map[string]struct{}{
		"emlak/gecici-ad/img-0.jpg": {},
		"emlak/gecici-ad/img-1.jpg": {},
	}}
	svc, sessions := newReconcileService(store)
	sessions.Session("draft-1").SetFolder("emlak/gecici-ad")

	images := []upload.CommittedImage{
		{StorageID: "emlak/gecici-ad/img-0.jpg", URL: "https://cdn.test/emlak/gecici-ad/img-0.jpg", IsCover: true},
		{StorageID: "emlak/gecici-ad/img-1.jpg", URL: "https://cdn.test/emlak/gecici-ad/img-1.jpg", OrderIndex: 1},
	}

	got, folder, err := svc.ReconcileFolders(context.Background(), "konut", "draft-1", "Satılık Daire", images)
	require.NoError(t, err)
	assert.Equal(t, "emlak/satilik-daire", folder)
	assert.Equal(t, "emlak/satilik-daire/img-0.jpg", got[0].StorageID)
	assert.Equal(t, "https://cdn.test/emlak/satilik-daire/img-1.jpg", got[1].URL)
	assert.True(t, got[0].IsCover)

	// session follows the photos
	assert.Equal(t, "emlak/satilik-daire", sessions.Session("draft-1").Folder())
}

func TestReconcileFoldersIdentityWhenAlreadyFinal(t *testing.T) {
	// the draft's own photos occupy the title-derived folder already;
	// publish must keep it instead of sidestepping to a suffixed name
	store := &renameStore{objects: map[string]struct{}{
		"emlak/satilik-villa/img-0.jpg": {},
		"emlak/satilik-villa/img-1.jpg": {},
	}}
	svc, sessions := newReconcileService(store)
	sessions.Session("draft-2").SetFolder("emlak/satilik-villa")

	images := []upload.CommittedImage{{StorageID: "emlak/satilik-villa/img-0.jpg"}}
	got, folder, err := svc.ReconcileFolders(context.Background(), "konut", "draft-2", "Satılık Villa", images)
	require.NoError(t, err)
	assert.Equal(t, "emlak/satilik-villa", folder)
	assert.Equal(t, images, got)
	assert.Empty(t, store.renamed)
}

func TestReconcileFoldersKeepsSuffixedFolderForSameTitle(t *testing.T) {
	store := &renameStore{objects: map[string]struct{}{
		"emlak/satilik-villa-1/img-0.jpg": {},
	}}
	svc, sessions := newReconcileService(store)
	sessions.Session("draft-5").SetFolder("emlak/satilik-villa-1")

	images := []upload.CommittedImage{{StorageID: "emlak/satilik-villa-1/img-0.jpg"}}
	got, folder, err := svc.ReconcileFolders(context.Background(), "konut", "draft-5", "Satılık Villa", images)
	require.NoError(t, err)
	assert.Equal(t, "emlak/satilik-villa-1", folder)
	assert.Equal(t, images, got)
	assert.Empty(t, store.renamed)
}

func TestReconcileFoldersPartialRenameRewritesMovedOnly(t *testing.T) {
	store := &renameStore{moveLimit: 1, objects: map[string]struct{}{
		"emlak/eski-ad/img-0.jpg": {},
		"emlak/eski-ad/img-1.jpg": {},
	}}
	svc, sessions := newReconcileService(store)
	sessions.Session("draft-4").SetFolder("emlak/eski-ad")

	images := []upload.CommittedImage{
		{StorageID: "emlak/eski-ad/img-0.jpg", URL: "https://cdn.test/emlak/eski-ad/img-0.jpg"},
		{StorageID: "emlak/eski-ad/img-1.jpg", URL: "https://cdn.test/emlak/eski-ad/img-1.jpg"},
	}
	got, folder, err := svc.ReconcileFolders(context.Background(), "konut", "draft-4", "Yeni Başlık", images)
	require.NoError(t, err)
	assert.Equal(t, "emlak/yeni-baslik", folder)
	assert.Equal(t, "emlak/yeni-baslik/img-0.jpg", got[0].StorageID)
	assert.Equal(t, "emlak/eski-ad/img-1.jpg", got[1].StorageID)
	assert.Equal(t, "https://cdn.test/emlak/eski-ad/img-1.jpg", got[1].URL)
}

func TestReconcileFoldersKeepsOriginalOnRenameFailure(t *testing.T) {
	store := &renameStore{failRename: true, objects: map[string]struct{}{
		"emlak/eski/img-0.jpg": {},
	}}
	svc, sessions := newReconcileService(store)
	sessions.Session("draft-3").SetFolder("emlak/eski")

	images := []upload.CommittedImage{{StorageID: "emlak/eski/img-0.jpg"}}
	got, folder, err := svc.ReconcileFolders(context.Background(), "konut", "draft-3", "Yeni Başlık", images)
	require.NoError(t, err)
	assert.Equal(t, "emlak/eski", folder)
	assert.Equal(t, images, got)
}
