package cpiseries

import (
	"sort"

	"github.com/rellumm/CPI-Time-Series/sarima"
)

// ModelRank is one row of the model comparison table.
type ModelRank struct {
	Spec   string  `json:"spec"`
	AICc   float64 `json:"aicc"`
	LogLik float64 `json:"log_lik"`
	Sigma2 float64 `json:"sigma2"`
}

// Rank tabulates candidate models sorted ascending by AICc. The sort is
// stable so equal-AICc candidates keep their fit order. Pure function; the
// input slice is left untouched.
func Rank(models []*sarima.Model) []ModelRank {
	ranks := make([]ModelRank, 0, len(models))
	for _, m := range models {
		ranks = append(ranks, ModelRank{
			Spec:   m.Spec.String(),
			AICc:   m.AICc,
			LogLik: m.LogLik,
			Sigma2: m.Sigma2,
		})
	}
	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].AICc < ranks[j].AICc
	})
	return ranks
}
