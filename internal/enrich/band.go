package enrich

// Score band labels, fixed reporting vocabulary.
const (
	BandNoScore = "Zero/No Score"
	Band300     = "300-649"
	Band650     = "650-699"
	Band700     = "700-749"
	Band750     = "750+"
)

// ScoreBand maps a numeric bureau score to its reporting band.
func ScoreBand(score float64) string {
	switch {
	case score >= 750:
		return Band750
	case score >= 700:
		return Band700
	case score >= 650:
		return Band650
	case score >= 300:
		return Band300
	}
	return BandNoScore
}
