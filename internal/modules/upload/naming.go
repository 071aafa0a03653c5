package upload

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

func uploadTimeout(seconds int) time.Duration {
	if seconds <= 0 {
		seconds = 60
	}
	return time.Duration(seconds) * time.Second
}

// objectFileName builds a collision-free store name. The original name is
// discarded; everything is re-encoded as JPEG before upload.
func objectFileName(index int, _ string) string {
	return fmt.Sprintf("img-%d-%s.jpg", index, uuid.NewString()[:8])
}

// folderOfObject derives the folder an object id lives under, or "" when
// the id has no folder part.
func folderOfObject(objectID string) string {
	dir := path.Dir(strings.Trim(objectID, "/"))
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}
