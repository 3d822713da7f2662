package recommender

import "jetacademy/models"

// Weights is the percentage of a recommendation slate reserved for each category.
type Weights struct {
	Primary       float64
	Complementary float64
	Discovery     float64
}

// DefaultWeights is used when a user has not expressed any preference.
var DefaultWeights = Weights{
	Primary:       models.DefaultPrimaryWeight,
	Complementary: models.DefaultComplementaryWeight,
	Discovery:     models.DefaultDiscoveryWeight,
}

// WeightsOf reads the stored weights of a profile.
func WeightsOf(in *models.UserInterests) Weights {
	return Weights{
		Primary:       float64(in.PrimaryMatchWeight),
		Complementary: float64(in.ComplementaryMatchWeight),
		Discovery:     float64(in.DiscoveryWeight),
	}
}

// Normalize clamps negative weights to zero and rescales the rest to sum to
// 100. All-zero weights fall back to DefaultWeights.
func (w Weights) Normalize() Weights {
	w.Primary = max(w.Primary, 0)
	w.Complementary = max(w.Complementary, 0)
	w.Discovery = max(w.Discovery, 0)

	total := w.Primary + w.Complementary + w.Discovery
	if total == 0 {
		return DefaultWeights
	}
	scale := 100 / total
	return Weights{
		Primary:       w.Primary * scale,
		Complementary: w.Complementary * scale,
		Discovery:     w.Discovery * scale,
	}
}
