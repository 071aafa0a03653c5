package media

import "context"

// UploadObject is one image headed for the remote store.
type UploadObject struct {
	Folder      string
	FileName    string
	Data        []byte
	ContentType string
}

// StoredObject is the remote identity of an uploaded image.
type StoredObject struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// MovedResource records one object relocated by a folder rename.
type MovedResource struct {
	OldID  string
	NewID  string
	NewURL string
}

// RenameResult maps the objects of a renamed folder to their new
// identities. Complete is false when only part of the batch moved; the
// mapping then still covers the moved part.
type RenameResult struct {
	Folder   string
	Moved    []MovedResource
	Complete bool
}

// Lookup returns the new identity for an old object id, if it moved.
func (r *RenameResult) Lookup(oldID string) (MovedResource, bool) {
	for _, m := range r.Moved {
		if m.OldID == oldID {
			return m, true
		}
	}
	return MovedResource{}, false
}

// Store is the remote media backend. Delete operations report success as a
// bool instead of an error so callers can treat cleanup as best effort.
type Store interface {
	Upload(ctx context.Context, obj UploadObject) (*StoredObject, error)
	Fetch(ctx context.Context, objectID string) ([]byte, error)
	DeleteObject(ctx context.Context, objectID string) bool
	DeleteFolder(ctx context.Context, folder string) bool
	RenameFolder(ctx context.Context, oldFolder, newFolder string) (*RenameResult, error)
	List(ctx context.Context, folder string) ([]string, error)
	URLFor(objectID string) string
}
