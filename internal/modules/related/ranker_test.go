package related

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func ref() Candidate {
	return Candidate{
		ID:        "ref",
		Price:     2000000,
		Province:  "Ankara",
		District:  "Çankaya",
		Subtype:   "daire",
		RoomCount: "3+1",
		CreatedAt: now,
	}
}

func TestRankPriceDominates(t *testing.T) {
	candidates := []Candidate{
		{ID: "far", Price: 2600000, Province: "Ankara", District: "Çankaya", CreatedAt: now},
		{ID: "close", Price: 2050000, Province: "Ankara", District: "Çankaya", CreatedAt: now},
	}

	got := Rank(ref(), candidates, now, DefaultLimit)
	require.Len(t, got, 2)
	assert.Equal(t, "close", got[0].ID)
	assert.Greater(t, got[0].Score, got[1].Score)
}

func TestRankLocalityLayers(t *testing.T) {
	candidates := []Candidate{
		{ID: "elsewhere", Price: 2000000, Province: "İzmir", District: "Konak", CreatedAt: now},
		{ID: "same-province", Price: 2000000, Province: "Ankara", District: "Keçiören", CreatedAt: now},
		{ID: "same-district", Price: 2000000, Province: "Ankara", District: "Çankaya", CreatedAt: now},
	}

	got := Rank(ref(), candidates, now, DefaultLimit)
	require.Len(t, got, 3)
	assert.Equal(t, "same-district", got[0].ID)
	assert.Equal(t, "same-province", got[1].ID)
	assert.Equal(t, "elsewhere", got[2].ID)
}

func TestRankTieBreakIsStable(t *testing.T) {
	// identical candidates apart from id: order must follow the input
	candidates := []Candidate{
		{ID: "a", Price: 2000000, CreatedAt: now},
		{ID: "b", Price: 2000000, CreatedAt: now},
		{ID: "c", Price: 2000000, CreatedAt: now},
	}

	first := Rank(ref(), candidates, now, DefaultLimit)
	for i := 0; i < 10; i++ {
		again := Rank(ref(), candidates, now, DefaultLimit)
		require.Equal(t, first, again)
	}
	assert.Equal(t, "a", first[0].ID)
	assert.Equal(t, "b", first[1].ID)
	assert.Equal(t, "c", first[2].ID)
}

func TestRankExcludesReferenceAndHonorsLimit(t *testing.T) {
	var candidates []Candidate
	for i := 0; i < 30; i++ {
		candidates = append(candidates, Candidate{
			ID:        fmt.Sprintf("c-%d", i),
			Price:     2000000,
			CreatedAt: now,
		})
	}
	candidates = append(candidates, ref())

	got := Rank(ref(), candidates, now, DefaultLimit)
	assert.Len(t, got, DefaultLimit)
	for _, sc := range got {
		assert.NotEqual(t, "ref", sc.ID)
	}
}

func TestRankFreshnessAndFeaturedNudge(t *testing.T) {
	candidates := []Candidate{
		{ID: "old", Price: 2000000, CreatedAt: now.Add(-300 * 24 * time.Hour)},
		{ID: "fresh", Price: 2000000, CreatedAt: now},
	}
	got := Rank(ref(), candidates, now, DefaultLimit)
	assert.Equal(t, "fresh", got[0].ID)

	// featured outweighs a small freshness gap
	candidates = []Candidate{
		{ID: "plain", Price: 2000000, CreatedAt: now},
		{ID: "featured", Price: 2000000, CreatedAt: now.Add(-30 * 24 * time.Hour), IsFeatured: true},
	}
	got = Rank(ref(), candidates, now, DefaultLimit)
	assert.Equal(t, "featured", got[0].ID)
}

func TestPriceCloseness(t *testing.T) {
	assert.Equal(t, 1.0, priceCloseness(100, 100))
	assert.InDelta(t, 0.5, priceCloseness(100, 200), 1e-9)
	assert.Equal(t, 0.0, priceCloseness(0, 100))
}
