package upload

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/emlakpro/core/internal/modules/media"
	"github.com/emlakpro/core/internal/pkg/redis"
	"github.com/emlakpro/core/internal/pkg/slug"
)

const (
	folderCacheTTL  = 24 * time.Hour
	maxSlugAttempts = 20
)

func folderCacheKey(propertyType, draftID string) string {
	return fmt.Sprintf("emlak:folder:%s:%s", propertyType, draftID)
}

// FolderResolver assigns each draft a stable storage folder. The first
// resolution picks a readable slug-based name; later calls for the same
// draft return the cached name so every photo of a draft lands together.
type FolderResolver struct {
	store media.Store
	rdb   *redis.Client // optional, falls back to local when nil
	log   *zap.Logger

	mu    sync.Mutex
	local map[string]string
}

func NewFolderResolver(store media.Store, rdb *redis.Client, log *zap.Logger) *FolderResolver {
	return &FolderResolver{
		store: store,
		rdb:   rdb,
		log:   log,
		local: make(map[string]string),
	}
}

// Resolve returns the storage folder for a draft, creating a name from the
// listing title on first use. Unusable titles fall back to the draft id.
func (r *FolderResolver) Resolve(ctx context.Context, propertyType, draftID, title string) string {
	key := folderCacheKey(propertyType, draftID)

	if r.rdb != nil {
		if cached, err := r.rdb.Get(ctx, key); err == nil && cached != "" {
			r.remember(key, cached)
			return cached
		}
	}
	r.mu.Lock()
	if cached, ok := r.local[key]; ok {
		r.mu.Unlock()
		return cached
	}
	r.mu.Unlock()

	folder := r.pickName(ctx, draftID, title)
	r.remember(key, folder)
	if r.rdb != nil {
		if err := r.rdb.Set(ctx, key, folder, folderCacheTTL); err != nil {
			r.log.Warn("folder cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return folder
}

// Reassign pins a draft to a folder chosen elsewhere, e.g. after a rename.
func (r *FolderResolver) Reassign(ctx context.Context, propertyType, draftID, folder string) {
	key := folderCacheKey(propertyType, draftID)
	r.remember(key, folder)
	if r.rdb != nil {
		if err := r.rdb.Set(ctx, key, folder, folderCacheTTL); err != nil {
			r.log.Warn("folder cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// Forget drops the cached folder of a draft.
func (r *FolderResolver) Forget(ctx context.Context, propertyType, draftID string) {
	key := folderCacheKey(propertyType, draftID)
	r.mu.Lock()
	delete(r.local, key)
	r.mu.Unlock()
	if r.rdb != nil {
		if err := r.rdb.Del(ctx, key); err != nil {
			r.log.Warn("folder cache delete failed", zap.String("key", key), zap.Error(err))
		}
	}
}

func (r *FolderResolver) remember(key, folder string) {
	r.mu.Lock()
	r.local[key] = folder
	r.mu.Unlock()
}

// NameFor picks an unoccupied slug-based folder for a title, falling back
// to fallbackID when the title yields nothing usable.
func (r *FolderResolver) NameFor(ctx context.Context, fallbackID, title string) string {
	return r.pickName(ctx, fallbackID, title)
}

// FolderMatchesTitle reports whether folder is already a name derived from
// title's slug, with or without a collision suffix. A draft whose folder
// was named from the same title keeps it at publish instead of renaming
// onto itself.
func FolderMatchesTitle(folder, title string) bool {
	base := slug.Make(title)
	if base == "" {
		return false
	}
	name := strings.Trim(folder, "/")
	name = strings.TrimPrefix(name, media.RootPrefix+"/")
	if name == base {
		return true
	}
	suffix, ok := strings.CutPrefix(name, base+"-")
	if !ok || suffix == "" {
		return false
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (r *FolderResolver) pickName(ctx context.Context, draftID, title string) string {
	base := slug.Make(title)
	if base == "" {
		return media.RootPrefix + "/" + draftID
	}

	for n := 0; n <= maxSlugAttempts; n++ {
		candidate := media.RootPrefix + "/" + slug.WithSuffix(base, n)
		keys, err := r.store.List(ctx, candidate)
		if err == nil && len(keys) == 0 {
			return candidate
		}
	}
	return media.RootPrefix + "/" + draftID
}
