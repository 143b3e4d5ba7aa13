package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlayerGameStatsExtraBaseHits(t *testing.T) {
	ps := PlayerGameStats{Hits: 5, Singles: 1, Doubles: 2, Triples: 1, HomeRuns: 1}
	assert.Equal(t, 4, ps.ExtraBaseHits())
	assert.Zero(t, PlayerGameStats{Hits: 3, Singles: 3}.ExtraBaseHits())
}
