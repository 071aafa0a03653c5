package upload

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestFolderResolver(t *testing.T) {
	ctx := context.Background()

	t.Run("stable per draft", func(t *testing.T) {
		r := NewFolderResolver(newFakeStore(), nil, zap.NewNop())
		first := r.Resolve(ctx, "konut", "draft-1", "Satılık Daire Merkez")
		assert.Equal(t, "emlak/satilik-daire-merkez", first)
		assert.Equal(t, first, r.Resolve(ctx, "konut", "draft-1", "Başka Başlık"))
	})

	t.Run("collision picks numeric suffix", func(t *testing.T) {
		store := newFakeStore()
		store.objects["emlak/satilik-daire/img-0.jpg"] = []byte{1}
		r := NewFolderResolver(store, nil, zap.NewNop())
		assert.Equal(t, "emlak/satilik-daire-1",
			r.Resolve(ctx, "konut", "draft-2", "Satılık Daire"))
	})

	t.Run("empty title falls back to draft id", func(t *testing.T) {
		r := NewFolderResolver(newFakeStore(), nil, zap.NewNop())
		assert.Equal(t, "emlak/draft-3", r.Resolve(ctx, "vasita", "draft-3", "???"))
	})

	t.Run("folder matching the title stays recognizable", func(t *testing.T) {
		assert.True(t, FolderMatchesTitle("emlak/satilik-villa", "Satılık Villa"))
		assert.True(t, FolderMatchesTitle("emlak/satilik-villa-2", "Satılık Villa"))
		assert.True(t, FolderMatchesTitle("satilik-villa", "Satılık Villa"))
		assert.False(t, FolderMatchesTitle("emlak/satilik-villa-ek", "Satılık Villa"))
		assert.False(t, FolderMatchesTitle("emlak/kiralik-daire", "Satılık Villa"))
		assert.False(t, FolderMatchesTitle("emlak/draft-9", "???"))
	})

	t.Run("forget clears the pin", func(t *testing.T) {
		r := NewFolderResolver(newFakeStore(), nil, zap.NewNop())
		r.Reassign(ctx, "konut", "draft-4", "emlak/manuel-klasor")
		assert.Equal(t, "emlak/manuel-klasor", r.Resolve(ctx, "konut", "draft-4", "x"))
		r.Forget(ctx, "konut", "draft-4")
		assert.NotEqual(t, "emlak/manuel-klasor", r.Resolve(ctx, "konut", "draft-4", "Yeni Ev"))
	})
}
