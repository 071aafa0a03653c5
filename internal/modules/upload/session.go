package upload

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/emlakpro/core/internal/modules/media"
	"github.com/emlakpro/core/internal/pkg/apperr"
)

// Status is the lifecycle state of one photo in a session.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusUploading Status = "uploading"
	StatusUploaded  Status = "uploaded"
	StatusError     Status = "error"
)

// Item is one photo tracked by a draft's upload session.
type Item struct {
	Index      int    `json:"index"`
	FileName   string `json:"fileName"`
	Title      string `json:"title,omitempty"`
	RemoteID   string `json:"id,omitempty"`
	RemoteURL  string `json:"url,omitempty"`
	Status     Status `json:"status"`
	Progress   int    `json:"progress"`
	IsExisting bool   `json:"isExisting"`
	IsCover    bool   `json:"isCover"`

	data []byte
	err  error
}

// CommitFailure names a photo that could not make it into the final set.
type CommitFailure struct {
	FileName string `json:"fileName"`
	Reason   string `json:"reason"`
}

// CommittedImage is the persisted form of an uploaded photo.
type CommittedImage struct {
	StorageID  string
	URL        string
	Title      string
	OrderIndex int
	IsCover    bool
}

// Session tracks the photo set of one draft being edited. All methods are
// safe for concurrent use; deletions are remembered even when the remote
// removal fails so a later commit never resurrects a removed photo.
type Session struct {
	mu              sync.Mutex
	draftID         string
	folder          string
	maxPhotos       int
	items           []*Item
	pendingDeletion map[string]struct{}
}

func NewSession(draftID string, maxPhotos int) *Session {
	return &Session{
		draftID:         draftID,
		maxPhotos:       maxPhotos,
		pendingDeletion: make(map[string]struct{}),
	}
}

// SetFolder pins the storage folder used by later uploads.
func (s *Session) SetFolder(folder string) {
	s.mu.Lock()
	s.folder = folder
	s.mu.Unlock()
}

func (s *Session) Folder() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.folder
}

// Add queues one new photo. When the set is full the photo is rejected and
// the count error names the limit; photos already admitted stay admitted.
func (s *Session) Add(index int, fileName, title string, data []byte) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) >= s.maxPhotos {
		return nil, apperr.Validation("file",
			fmt.Sprintf("En fazla %d fotoğraf yükleyebilirsiniz", s.maxPhotos))
	}

	item := &Item{
		Index:    index,
		FileName: fileName,
		Title:    title,
		Status:   StatusQueued,
		data:     data,
	}
	s.items = append(s.items, item)
	return item, nil
}

// AttachExisting registers a photo that already lives in the store, e.g.
// when an edit session reopens a published listing's folder.
func (s *Session) AttachExisting(index int, remoteID, url, title string) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) >= s.maxPhotos {
		return nil, apperr.Validation("file",
			fmt.Sprintf("En fazla %d fotoğraf yükleyebilirsiniz", s.maxPhotos))
	}

	item := &Item{
		Index:      index,
		FileName:   remoteID,
		Title:      title,
		RemoteID:   remoteID,
		RemoteURL:  url,
		Status:     StatusUploaded,
		Progress:   100,
		IsExisting: true,
	}
	s.items = append(s.items, item)
	return item, nil
}

// Upload pushes a queued or errored item to the store.
func (s *Session) Upload(ctx context.Context, store media.Store, item *Item) error {
	s.mu.Lock()
	if item.Status == StatusUploaded {
		s.mu.Unlock()
		return nil
	}
	folder := s.folder
	item.Status = StatusUploading
	item.Progress = 0
	item.err = nil
	data := item.data
	s.mu.Unlock()

	stored, err := store.Upload(ctx, media.UploadObject{
		Folder:      folder,
		FileName:    item.FileName,
		Data:        data,
		ContentType: "image/jpeg",
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		item.Status = StatusError
		item.err = err
		return err
	}
	item.Status = StatusUploaded
	item.Progress = 100
	item.RemoteID = stored.ID
	item.RemoteURL = stored.URL
	item.data = nil
	return nil
}

// Retry re-runs the upload of an errored item.
func (s *Session) Retry(ctx context.Context, store media.Store, index int) error {
	s.mu.Lock()
	item := s.find(index)
	if item == nil {
		s.mu.Unlock()
		return apperr.NotFound("fotoğraf", fmt.Sprintf("%d", index))
	}
	if item.Status != StatusError {
		s.mu.Unlock()
		return apperr.Validation("index", "Sadece hatalı yüklemeler tekrar denenebilir")
	}
	s.mu.Unlock()
	return s.Upload(ctx, store, item)
}

// Remove drops an item from the set and deletes its remote object. The
// remote id is recorded as pending deletion regardless of the remote
// outcome so the photo can never reappear in a commit.
func (s *Session) Remove(ctx context.Context, store media.Store, index int) (bool, error) {
	s.mu.Lock()
	item := s.find(index)
	if item == nil {
		s.mu.Unlock()
		return false, apperr.NotFound("fotoğraf", fmt.Sprintf("%d", index))
	}
	remoteID := item.RemoteID
	s.drop(item)
	if remoteID != "" {
		s.pendingDeletion[remoteID] = struct{}{}
	}
	s.mu.Unlock()

	if remoteID == "" {
		return true, nil
	}
	return store.DeleteObject(ctx, remoteID), nil
}

// MarkDeleted records a remote id removed outside the session.
func (s *Session) MarkDeleted(remoteID string) {
	s.mu.Lock()
	s.pendingDeletion[remoteID] = struct{}{}
	s.mu.Unlock()
}

// Reorder rewrites item order; the first index becomes the cover photo.
// Indices absent from the new order keep their relative position at the end.
func (s *Session) Reorder(order []int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos := make(map[int]int, len(order))
	for i, idx := range order {
		pos[idx] = i
	}
	sort.SliceStable(s.items, func(a, b int) bool {
		pa, oka := pos[s.items[a].Index]
		pb, okb := pos[s.items[b].Index]
		switch {
		case oka && okb:
			return pa < pb
		case oka:
			return true
		default:
			return false
		}
	})
	for i, item := range s.items {
		item.IsCover = i == 0
	}
}

// Items returns a snapshot of the current set.
func (s *Session) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, *item)
	}
	return out
}

// CommitAll flattens the session into the image rows to persist. Errored
// and pending-deletion photos are reported as failures, duplicate remote
// ids collapse to their first occurrence, and a successful commit is
// returned even when some photos failed.
func (s *Session) CommitAll() ([]CommittedImage, []CommitFailure) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		images   []CommittedImage
		failures []CommitFailure
		seen     = make(map[string]struct{})
	)
	for _, item := range s.items {
		if item.Status != StatusUploaded || item.RemoteID == "" {
			failures = append(failures, CommitFailure{
				FileName: item.FileName,
				Reason:   "yükleme tamamlanmadı",
			})
			continue
		}
		if _, deleted := s.pendingDeletion[item.RemoteID]; deleted {
			failures = append(failures, CommitFailure{
				FileName: item.FileName,
				Reason:   "fotoğraf silinmiş",
			})
			continue
		}
		if _, dup := seen[item.RemoteID]; dup {
			continue
		}
		seen[item.RemoteID] = struct{}{}
		images = append(images, CommittedImage{
			StorageID:  item.RemoteID,
			URL:        item.RemoteURL,
			Title:      item.Title,
			OrderIndex: len(images),
			IsCover:    len(images) == 0,
		})
	}
	return images, failures
}

func (s *Session) find(index int) *Item {
	for _, item := range s.items {
		if item.Index == index {
			return item
		}
	}
	return nil
}

func (s *Session) drop(target *Item) {
	for i, item := range s.items {
		if item == target {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}
