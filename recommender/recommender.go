// Package recommender ranks franchise ads against a student's stated interests.
//
// Every active ad falls into one category. Primary ads share a tag with the
// student's interests (or a category tag with their business interests),
// complementary ads share only a complementary tag, and the rest are
// discovery ads. The slate takes a weighted share from each category in that
// order and backfills from the remaining active ads.
package recommender

import (
	"math"
	"sort"
	"strings"
	"time"

	"jetacademy/models"
)

type Category int

const (
	Discovery Category = iota
	Complementary
	Primary
)

func (c Category) String() string {
	switch c {
	case Primary:
		return "primary"
	case Complementary:
		return "complementary"
	default:
		return "discovery"
	}
}

// Scored is an ad with its category and weighted score.
type Scored struct {
	Ad       models.FranchiseAd
	Category Category
	Score    float64
}

// Active keeps the ads that are switched on and inside their run window at now.
func Active(ads []models.FranchiseAd, now time.Time) []models.FranchiseAd {
	out := make([]models.FranchiseAd, 0, len(ads))
	for i := range ads {
		if ads[i].ActiveAt(now) {
			out = append(out, ads[i])
		}
	}
	return out
}

// Recommend returns at most limit active ads for the profile. A nil profile
// gets the first limit active ads in catalog order.
func Recommend(in *models.UserInterests, ads []models.FranchiseAd, limit int, now time.Time) []models.FranchiseAd {
	active := Active(ads, now)
	if limit <= 0 || len(active) == 0 {
		return []models.FranchiseAd{}
	}
	if in == nil {
		return active[:min(limit, len(active))]
	}

	weights := WeightsOf(in).Normalize()
	scored := Score(in, active, weights)

	quota := map[Category]int{
		Primary:       share(limit, weights.Primary),
		Complementary: share(limit, weights.Complementary),
		Discovery:     share(limit, weights.Discovery),
	}

	picked := make(map[uint]bool, limit)
	out := make([]models.FranchiseAd, 0, limit)
	for _, cat := range []Category{Primary, Complementary, Discovery} {
		taken := 0
		for _, s := range scored {
			if taken == quota[cat] {
				break
			}
			if s.Category == cat {
				out = append(out, s.Ad)
				picked[s.Ad.ID] = true
				taken++
			}
		}
	}

	for _, ad := range active {
		if len(out) >= limit {
			break
		}
		if !picked[ad.ID] {
			out = append(out, ad)
			picked[ad.ID] = true
		}
	}

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// share is ceil(limit * pct / 100), tolerant of rescaling round-off.
func share(limit int, pct float64) int {
	return int(math.Ceil(float64(limit)*pct/100 - 1e-9))
}

// Score categorizes every ad and sorts by score then priority, both descending.
func Score(in *models.UserInterests, ads []models.FranchiseAd, weights Weights) []Scored {
	business := terms(in.BusinessInterests)
	all := terms(in.Interests, in.FoodPreferences, in.HobbyPreferences, in.BusinessInterests)

	scored := make([]Scored, 0, len(ads))
	for _, ad := range ads {
		primary := countIn(terms(ad.InterestTags), all) + countIn(terms(ad.CategoryTags), business)
		complementary := countIn(terms(ad.ComplementaryTags), all)

		s := Scored{Ad: ad, Category: Discovery}
		if primary > 0 {
			s.Score += weights.Primary
			s.Category = Primary
		}
		if complementary > 0 {
			s.Score += weights.Complementary
			if s.Category == Discovery {
				s.Category = Complementary
			}
		}
		scored = append(scored, s)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Ad.Priority > scored[j].Ad.Priority
	})
	return scored
}

// terms flattens comma separated lists into lowercase trimmed terms.
func terms(lists ...string) []string {
	var out []string
	for _, l := range lists {
		for _, t := range models.SplitList(l) {
			out = append(out, strings.ToLower(t))
		}
	}
	return out
}

func countIn(tags, pool []string) int {
	set := make(map[string]struct{}, len(pool))
	for _, p := range pool {
		set[p] = struct{}{}
	}
	n := 0
	for _, t := range tags {
		if _, ok := set[t]; ok {
			n++
		}
	}
	return n
}
