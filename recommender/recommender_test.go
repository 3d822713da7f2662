package recommender

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"jetacademy/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

type catalog struct {
	ads    []models.FranchiseAd
	nextID uint
}

func (c *catalog) add(n int, prefix string, mutate func(ad *models.FranchiseAd)) {
	for i := 0; i < n; i++ {
		c.nextID++
		ad := models.FranchiseAd{
			Title:     fmt.Sprintf("%s-%d", prefix, i),
			IsActive:  true,
			StartDate: now.Add(-24 * time.Hour),
		}
		ad.ID = c.nextID
		if mutate != nil {
			mutate(&ad)
		}
		c.ads = append(c.ads, ad)
	}
}

func profile() *models.UserInterests {
	return &models.UserInterests{
		Interests:                "Coffee, fitness",
		FoodPreferences:          "vegan",
		HobbyPreferences:         "",
		BusinessInterests:        "Retail",
		PrimaryMatchWeight:       60,
		ComplementaryMatchWeight: 30,
		DiscoveryWeight:          10,
	}
}

func countByPrefix(ads []models.FranchiseAd) map[string]int {
	out := map[string]int{}
	for _, ad := range ads {
		prefix, _, _ := strings.Cut(ad.Title, "-")
		out[prefix]++
	}
	return out
}

func TestRecommendBucketsByWeight(t *testing.T) {
	var c catalog
	c.add(8, "primary", func(ad *models.FranchiseAd) { ad.InterestTags = " COFFEE ,tea" })
	c.add(5, "complementary", func(ad *models.FranchiseAd) { ad.ComplementaryTags = "vegan" })
	c.add(5, "discovery", func(ad *models.FranchiseAd) { ad.InterestTags = "sailing" })

	got := Recommend(profile(), c.ads, 10, now)

	require.Len(t, got, 10)
	assert.Equal(t, map[string]int{"primary": 6, "complementary": 3, "discovery": 1}, countByPrefix(got))
	for i, ad := range got {
		switch {
		case i < 6:
			assert.Contains(t, ad.Title, "primary")
		case i < 9:
			assert.Contains(t, ad.Title, "complementary")
		default:
			assert.Contains(t, ad.Title, "discovery")
		}
	}
}

func TestRecommendOrdersByPriorityWithinCategory(t *testing.T) {
	var c catalog
	c.add(3, "primary", func(ad *models.FranchiseAd) {
		ad.InterestTags = "fitness"
		ad.Priority = int(ad.ID)
	})

	got := Recommend(profile(), c.ads, 3, now)

	require.Len(t, got, 3)
	assert.Equal(t, []uint{3, 2, 1}, []uint{got[0].ID, got[1].ID, got[2].ID})
}

func TestRecommendCategoryTagsMatchOnlyBusinessInterests(t *testing.T) {
	in := profile()
	scored := Score(in, []models.FranchiseAd{
		{CategoryTags: "retail"},
		{CategoryTags: "coffee"},
	}, DefaultWeights)

	byTag := map[string]Category{}
	for _, s := range scored {
		byTag[s.Ad.CategoryTags] = s.Category
	}
	assert.Equal(t, Primary, byTag["retail"])
	assert.Equal(t, Discovery, byTag["coffee"])
}

func TestScoreAddsBothWeightsForDoubleMatch(t *testing.T) {
	scored := Score(profile(), []models.FranchiseAd{
		{InterestTags: "coffee", ComplementaryTags: "vegan"},
	}, DefaultWeights)

	require.Len(t, scored, 1)
	assert.Equal(t, Primary, scored[0].Category)
	assert.InDelta(t, 90, scored[0].Score, 1e-9)
}

func TestRecommendBackfillsShortCategories(t *testing.T) {
	var c catalog
	c.add(2, "primary", func(ad *models.FranchiseAd) { ad.InterestTags = "coffee" })
	c.add(20, "discovery", nil)

	got := Recommend(profile(), c.ads, 10, now)

	require.Len(t, got, 10)
	assert.Equal(t, 2, countByPrefix(got)["primary"])
	seen := map[uint]bool{}
	for _, ad := range got {
		assert.False(t, seen[ad.ID], "duplicate ad %d", ad.ID)
		seen[ad.ID] = true
	}
}

func TestRecommendNeverReturnsInactiveAds(t *testing.T) {
	var c catalog
	past := now.Add(-time.Hour)
	c.add(3, "off", func(ad *models.FranchiseAd) { ad.IsActive = false; ad.InterestTags = "coffee" })
	c.add(3, "future", func(ad *models.FranchiseAd) { ad.StartDate = now.Add(time.Hour); ad.InterestTags = "coffee" })
	c.add(3, "ended", func(ad *models.FranchiseAd) { ad.EndDate = &past; ad.InterestTags = "coffee" })
	c.add(2, "live", nil)

	got := Recommend(profile(), c.ads, 10, now)

	require.Len(t, got, 2)
	for _, ad := range got {
		assert.Contains(t, ad.Title, "live")
	}
}

func TestRecommendWithoutProfileReturnsCatalogHead(t *testing.T) {
	var c catalog
	c.add(12, "ad", nil)
	c.ads[0].IsActive = false

	got := Recommend(nil, c.ads, 10, now)

	require.Len(t, got, 10)
	assert.Equal(t, uint(2), got[0].ID)
	assert.Equal(t, uint(11), got[9].ID)
}

func TestRecommendRespectsLimitWhenWeightsOvershoot(t *testing.T) {
	var c catalog
	c.add(10, "primary", func(ad *models.FranchiseAd) { ad.InterestTags = "coffee" })
	c.add(10, "complementary", func(ad *models.FranchiseAd) { ad.ComplementaryTags = "vegan" })
	c.add(10, "discovery", nil)

	in := profile()
	in.PrimaryMatchWeight, in.ComplementaryMatchWeight, in.DiscoveryWeight = 50, 50, 50

	got := Recommend(in, c.ads, 10, now)

	require.Len(t, got, 10)
	counts := countByPrefix(got)
	assert.Equal(t, 4, counts["primary"])
	assert.Equal(t, 4, counts["complementary"])
	assert.Equal(t, 2, counts["discovery"])
}

func TestRecommendEmptyAndZeroLimit(t *testing.T) {
	assert.Empty(t, Recommend(profile(), nil, 10, now))

	var c catalog
	c.add(3, "ad", nil)
	assert.Empty(t, Recommend(profile(), c.ads, 0, now))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, DefaultWeights, Weights{}.Normalize())
	assert.Equal(t, DefaultWeights, Weights{Primary: -5}.Normalize())

	w := Weights{Primary: 30, Complementary: 15, Discovery: 5}.Normalize()
	assert.InDelta(t, 60, w.Primary, 1e-9)
	assert.InDelta(t, 30, w.Complementary, 1e-9)
	assert.InDelta(t, 10, w.Discovery, 1e-9)

	w = Weights{Primary: 100, Complementary: -20, Discovery: 0}.Normalize()
	assert.InDelta(t, 100, w.Primary, 1e-9)
	assert.Zero(t, w.Complementary)
}
