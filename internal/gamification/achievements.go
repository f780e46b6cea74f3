package gamification

// AchievementCategory buckets achievements for display.
type AchievementCategory string

const (
	CategoryReferral    AchievementCategory = "referral"
	CategoryLoyalty     AchievementCategory = "loyalty"
	CategoryPerformance AchievementCategory = "performance"
	CategoryMilestone   AchievementCategory = "milestone"
)

// Achievement is one unlockable milestone in the rewards program.
type Achievement struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Icon        string              `json:"icon"`
	Points      int64               `json:"points"`
	Category    AchievementCategory `json:"category"`
	Requirement int64               `json:"requirement"`
}

// Achievements returns the static achievement catalog.
func Achievements() []Achievement {
	return []Achievement{
		{
			ID:          "first_referral",
			Name:        "Primeiro Indicado",
			Description: "Faça sua primeira indicação",
			Icon:        "👥",
			Points:      50,
			Category:    CategoryReferral,
			Requirement: 1,
		},
		{
			ID:          "referral_master",
			Name:        "Mestre das Indicações",
			Description: "Indique 10 novos clientes",
			Icon:        "🎯",
			Points:      500,
			Category:    CategoryReferral,
			Requirement: 10,
		},
		{
			ID:          "loyal_customer",
			Name:        "Cliente Fiel",
			Description: "Complete 5 agendamentos",
			Icon:        "⭐",
			Points:      100,
			Category:    CategoryLoyalty,
			Requirement: 5,
		},
		{
			ID:          "vip_status",
			Name:        "Status VIP",
			Description: "Alcance 1000 pontos",
			Icon:        "👑",
			Points:      200,
			Category:    CategoryMilestone,
			Requirement: 1000,
		},
		{
			ID:          "monthly_champion",
			Name:        "Campeão do Mês",
			Description: "Seja o #1 do ranking mensal",
			Icon:        "🏅",
			Points:      300,
			Category:    CategoryPerformance,
			Requirement: 1,
		},
	}
}
