package warp

import (
	"math"

	"github.com/df07/go-mis-raytracer/pkg/core"
)

// Heuristic selects how two sampling strategies are combined
type Heuristic int

const (
	HeuristicBalance Heuristic = iota
	HeuristicPower
)

// DefaultBeta is the exponent used by the power heuristic
const DefaultBeta = 2.0

// ParseHeuristic converts a property value into a Heuristic
func ParseHeuristic(name string) (Heuristic, error) {
	switch name {
	case "balance":
		return HeuristicBalance, nil
	case "power":
		return HeuristicPower, nil
	}
	return HeuristicBalance, core.NewConfigurationError("mis", "unknown heuristic %q", name)
}

func (h Heuristic) String() string {
	if h == HeuristicPower {
		return "power"
	}
	return "balance"
}

// Weight returns the MIS weight of a sample drawn from strategy f with
// density fPdf, given nf samples from f and ng samples from g.
func (h Heuristic) Weight(nf int, fPdf float64, ng int, gPdf float64) float64 {
	if h == HeuristicPower {
		return PowerHeuristic(nf, fPdf, ng, gPdf, DefaultBeta)
	}
	return BalanceHeuristic(nf, fPdf, ng, gPdf)
}

// BalanceHeuristic returns nf·fPdf / (nf·fPdf + ng·gPdf)
func BalanceHeuristic(nf int, fPdf float64, ng int, gPdf float64) float64 {
	f := float64(nf) * fPdf
	g := float64(ng) * gPdf
	if f+g == 0 {
		return 0
	}
	return f / (f + g)
}

// PowerHeuristic returns (nf·fPdf)^β / ((nf·fPdf)^β + (ng·gPdf)^β)
func PowerHeuristic(nf int, fPdf float64, ng int, gPdf float64, beta float64) float64 {
	f := math.Pow(float64(nf)*fPdf, beta)
	g := math.Pow(float64(ng)*gPdf, beta)
	if f+g == 0 {
		return 0
	}
	return f / (f + g)
}
