package game

const (
	RankBeginner     = "beginner"
	RankIntermediate = "intermediate"
	RankExpert       = "expert"
	RankLegendary    = "legendary"
)

// RankOf maps accumulated experience to its tier label. Values outside every
// band, negatives included, fall back to the lowest tier.
func RankOf(xp int) string {
	if xp < 0 {
		xp = 0
	}
	switch {
	case xp <= 12000:
		return RankBeginner
	case xp <= 25000:
		return RankIntermediate
	case xp <= 60000:
		return RankExpert
	case xp <= 120000:
		return RankLegendary
	}
	return RankBeginner
}
