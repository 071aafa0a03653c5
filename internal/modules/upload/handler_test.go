package upload

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/emlakpro/core/internal/config"
)

func newTestHandler(store *fakeStore) (*Handler, *Manager, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	manager := NewManager(50)
	resolver := NewFolderResolver(store, nil, zap.NewNop())
	h := NewHandler(store, manager, resolver, config.UploadConfig{
		MaxPhotos:        50,
		MaxPixelEdge:     8000,
		NormalizeMaxEdge: 1920,
		JPEGQuality:      82,
		TimeoutSeconds:   5,
	}, zap.NewNop())

	r := gin.New()
	r.POST("/upload/retry", h.Retry)
	r.DELETE("/upload/remove", h.Remove)
	r.PUT("/upload/reorder", h.Reorder)
	r.POST("/upload/attach", h.Attach)
	return h, manager, r
}

func doJSON(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestRetryEndpointRecoversFailedUpload(t *testing.T) {
	store := newFakeStore()
	store.failNext = 1
	_, manager, r := newTestHandler(store)

	session := manager.Session("draft-1")
	session.SetFolder("emlak/test")
	item, err := session.Add(0, "a.jpg", "", []byte{1})
	require.NoError(t, err)
	require.Error(t, session.Upload(context.Background(), store, item))
	require.Equal(t, StatusError, session.Items()[0].Status)

	w := doJSON(r, http.MethodPost, "/upload/retry", `{"listingId":"draft-1","index":0}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, StatusUploaded, session.Items()[0].Status)
}

func TestRetryEndpointUnknownSession(t *testing.T) {
	_, _, r := newTestHandler(newFakeStore())

	w := doJSON(r, http.MethodPost, "/upload/retry", `{"listingId":"ghost","index":0}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRemoveEndpointDropsPhoto(t *testing.T) {
	store := newFakeStore()
	_, manager, r := newTestHandler(store)

	session := manager.Session("draft-1")
	session.SetFolder("emlak/test")
	addUploaded(t, session, store, 0)

	w := doJSON(r, http.MethodDelete, "/upload/remove?listingId=draft-1&index=0", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"deleted":true`)
	assert.Empty(t, session.Items())
	assert.Empty(t, store.objects)
}

func TestReorderEndpointSetsCover(t *testing.T) {
	store := newFakeStore()
	_, manager, r := newTestHandler(store)

	session := manager.Session("draft-1")
	session.SetFolder("emlak/test")
	addUploaded(t, session, store, 0)
	addUploaded(t, session, store, 1)
	addUploaded(t, session, store, 2)

	w := doJSON(r, http.MethodPut, "/upload/reorder", `{"listingId":"draft-1","order":[2,0,1]}`)

	assert.Equal(t, http.StatusOK, w.Code)
	items := session.Items()
	require.Len(t, items, 3)
	assert.Equal(t, 2, items[0].Index)
	assert.True(t, items[0].IsCover)
}

func TestAttachEndpointAdoptsStoredPhoto(t *testing.T) {
	store := newFakeStore()
	store.objects["emlak/satilik-daire/img-0.jpg"] = []byte{1}
	_, manager, r := newTestHandler(store)

	w := doJSON(r, http.MethodPost, "/upload/attach",
		`{"listingId":"draft-1","index":0,"id":"emlak/satilik-daire/img-0.jpg"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	session := manager.Session("draft-1")
	assert.Equal(t, "emlak/satilik-daire", session.Folder())
	items := session.Items()
	require.Len(t, items, 1)
	assert.True(t, items[0].IsExisting)
	assert.Equal(t, StatusUploaded, items[0].Status)
	assert.Equal(t, "https://cdn.test/emlak/satilik-daire/img-0.jpg", items[0].RemoteURL)
}

func TestAttachEndpointRequiresID(t *testing.T) {
	_, _, r := newTestHandler(newFakeStore())

	w := doJSON(r, http.MethodPost, "/upload/attach", `{"listingId":"draft-1"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
