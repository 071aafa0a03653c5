package related

import (
	"math"
	"sort"
	"time"
)

// DefaultLimit is how many related listings the public page shows.
const DefaultLimit = 12

const recencyWindow = 365 * 24 * time.Hour

// Scoring weights. Price dominates; location splits the rest with district
// worth more than province alone.
const (
	weightPrice     = 0.45
	weightDistrict  = 0.20
	weightProvince  = 0.15
	weightSubtype   = 0.10
	weightRoomCount = 0.07
	weightRecency   = 0.03
	weightFeatured  = 0.02
)

// Candidate is a ranking view of a listing, decoupled from persistence.
type Candidate struct {
	ID         string
	Price      float64
	Province   string
	District   string
	Subtype    string
	RoomCount  string
	CreatedAt  time.Time
	IsFeatured bool
}

// Scored pairs a candidate with its computed relevance.
type Scored struct {
	Candidate
	Score float64
}

// Rank orders candidates by relevance to ref and returns at most limit of
// them. Equal scores break on locality match strength, then keep the input
// order, so the same inputs always produce the same output.
func Rank(ref Candidate, candidates []Candidate, now time.Time, limit int) []Scored {
	if limit <= 0 {
		limit = DefaultLimit
	}

	scored := make([]Scored, 0, len(candidates))
	for _, cand := range candidates {
		if cand.ID == ref.ID {
			continue
		}
		scored = append(scored, Scored{
			Candidate: cand,
			Score:     score(ref, cand, now),
		})
	}

	sort.SliceStable(scored, func(a, b int) bool {
		if scored[a].Score != scored[b].Score {
			return scored[a].Score > scored[b].Score
		}
		return localityRank(ref, scored[a].Candidate) > localityRank(ref, scored[b].Candidate)
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

func score(ref, cand Candidate, now time.Time) float64 {
	s := weightPrice * priceCloseness(ref.Price, cand.Price)

	if ref.District != "" && cand.District == ref.District {
		s += weightDistrict
	}
	if ref.Province != "" && cand.Province == ref.Province {
		s += weightProvince
	}
	if ref.Subtype != "" && cand.Subtype == ref.Subtype {
		s += weightSubtype
	}
	if ref.RoomCount != "" && cand.RoomCount == ref.RoomCount {
		s += weightRoomCount
	}
	s += weightRecency * recency(cand.CreatedAt, now)
	if cand.IsFeatured {
		s += weightFeatured
	}
	return s
}

// priceCloseness is the ratio of the smaller price to the larger, 1.0 for
// equal prices. Unpriced rows score zero.
func priceCloseness(a, b float64) float64 {
	if a <= 0 || b <= 0 {
		return 0
	}
	return math.Min(a, b) / math.Max(a, b)
}

// recency decays linearly from 1.0 to 0 over a year.
func recency(createdAt, now time.Time) float64 {
	age := now.Sub(createdAt)
	if age <= 0 {
		return 1
	}
	if age >= recencyWindow {
		return 0
	}
	return 1 - float64(age)/float64(recencyWindow)
}

// localityRank orders tie-broken candidates: same district beats same
// province beats no match.
func localityRank(ref, cand Candidate) int {
	switch {
	case ref.District != "" && cand.District == ref.District:
		return 2
	case ref.Province != "" && cand.Province == ref.Province:
		return 1
	default:
		return 0
	}
}
