// Package stats holds the batting average rules shared by the live ledger
// and the historical aggregator.
package stats

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// NoAverage is displayed when a player has no official at-bats. Existing
// sheets and exports contain this exact string.
const NoAverage = ".000"

// Convention decides which recorded attempts count as official at-bats.
type Convention string

const (
	// SacrificeFlyAware excludes sacrifice flies from official at-bats.
	SacrificeFlyAware Convention = "sacrifice-fly-aware"
	// Legacy counts every recorded attempt, which is what the original sheet
	// script and generated test data did with their "fielders choice" column.
	Legacy Convention = "legacy"
)

func ParseConvention(s string) (Convention, error) {
	switch c := Convention(s); c {
	case SacrificeFlyAware, Legacy:
		return c, nil
	case "":
		return SacrificeFlyAware, nil
	default:
		return "", fmt.Errorf("unknown average convention %q", s)
	}
}

// OfficialAtBats returns the batting average denominator for a count of
// recorded attempts of which sacrificeFlies were sacrifice flies.
func (c Convention) OfficialAtBats(attempts, sacrificeFlies int) int {
	if c == Legacy {
		return attempts
	}
	official := attempts - sacrificeFlies
	if official < 0 {
		return 0
	}
	return official
}

// Average formats hits over the convention's official at-bats.
func (c Convention) Average(hits, attempts, sacrificeFlies int) string {
	return FormatAverage(hits, c.OfficialAtBats(attempts, sacrificeFlies))
}

// FormatAverage renders hits/officialAtBats with three decimals ("0.667",
// "1.000") or NoAverage when there are no official at-bats.
func FormatAverage(hits, officialAtBats int) string {
	if officialAtBats <= 0 {
		return NoAverage
	}
	return Fixed3(float64(hits) / float64(officialAtBats))
}

var (
	thousand = big.NewRat(1000, 1)
	half     = big.NewRat(1, 2)
)

// Fixed3 formats x the way the browser's toFixed(3) does: the exact binary
// value is rounded to the nearest thousandth, ties away from zero.
func Fixed3(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return strconv.FormatFloat(x, 'f', 3, 64)
	}
	if x < 0 {
		return "-" + Fixed3(-x)
	}
	r := new(big.Rat).SetFloat64(x)
	r.Mul(r, thousand)
	r.Add(r, half)
	n := new(big.Int).Quo(r.Num(), r.Denom())

	whole, frac := new(big.Int).QuoRem(n, big.NewInt(1000), new(big.Int))
	return fmt.Sprintf("%s.%03d", whole.String(), frac.Int64())
}

// AverageValue is the numeric form used for sorting leaderboards.
func AverageValue(hits, officialAtBats int) float64 {
	if officialAtBats <= 0 {
		return 0
	}
	return float64(hits) / float64(officialAtBats)
}
