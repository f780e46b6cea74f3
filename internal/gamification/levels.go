package gamification

// Level progression follows the table customers already see in the app:
// 0-99 is level 1, 100-299 level 2, 300-599 level 3, 600-999 level 4,
// 1000-1499 level 5, then floor(points/500)+1. The legacy table steps down
// from 5 to 4 at exactly 1500 points; badges shipped against that table, so
// it is preserved as is.
func LevelForPoints(points int64) int {
	if points < 0 {
		return 1
	}
	switch {
	case points < 100:
		return 1
	case points < 300:
		return 2
	case points < 600:
		return 3
	case points < 1000:
		return 4
	case points < 1500:
		return 5
	}
	return int(points/500) + 1
}

// Badge tiers by level.
const (
	BadgeBronze  = "🥉 Bronze"
	BadgeSilver  = "🥈 Prata"
	BadgeGold    = "🥇 Ouro"
	BadgeDiamond = "💎 Diamante"
	BadgeMaster  = "🏆 Mestre"
)

// BadgeForLevel maps a level to its display badge.
func BadgeForLevel(level int) string {
	switch {
	case level >= 10:
		return BadgeMaster
	case level >= 7:
		return BadgeDiamond
	case level >= 5:
		return BadgeGold
	case level >= 3:
		return BadgeSilver
	}
	return BadgeBronze
}
