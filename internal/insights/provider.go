package insights

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// InsightType classifies an insight for the dashboard.
type InsightType string

const (
	TypeOptimization   InsightType = "optimization"
	TypePrediction     InsightType = "prediction"
	TypeRecommendation InsightType = "recommendation"
	TypeAlert          InsightType = "alert"
)

// Impact is the estimated business impact of acting on an insight.
type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

// Insight is one generated observation about a barbershop's operation.
type Insight struct {
	ID          string         `json:"id"`
	Type        InsightType    `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Impact      Impact         `json:"impact"`
	Actionable  bool           `json:"actionable"`
	Data        map[string]any `json:"data,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// CustomerBehavior is a behavioral profile for one customer.
type CustomerBehavior struct {
	CustomerID           uuid.UUID `json:"customerId"`
	PreferredServices    []string  `json:"preferredServices"`
	PreferredTimes       []string  `json:"preferredTimes"`
	AverageSpendingCents int64     `json:"averageSpendingCents"`
	LoyaltyScore         float64   `json:"loyaltyScore"`
	RiskOfChurn          float64   `json:"riskOfChurn"`
	NextVisitPrediction  time.Time `json:"nextVisitPrediction"`
}

// Provider generates insights. The static implementation below is the only
// one today; a model-backed provider would satisfy the same interface.
type Provider interface {
	DailyInsights(ctx context.Context, barbershopID uuid.UUID) ([]Insight, error)
	CustomerBehavior(ctx context.Context, customerID uuid.UUID) (*CustomerBehavior, error)
	ServiceRecommendations(ctx context.Context, customerID uuid.UUID) ([]string, error)
}

// StaticProvider returns fixed, deterministic insight content.
type StaticProvider struct {
	now func() time.Time
}

// NewStaticProvider creates the canned-content provider.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{now: time.Now}
}

// DailyInsights returns the standing set of dashboard insights.
func (p *StaticProvider) DailyInsights(_ context.Context, _ uuid.UUID) ([]Insight, error) {
	now := p.now()
	return []Insight{
		{
			ID:          "1",
			Type:        TypeOptimization,
			Title:       "Otimização de Horários",
			Description: "Seus horários de 14h-16h têm 23% menos agendamentos. Considere oferecer promoções neste período.",
			Impact:      ImpactHigh,
			Actionable:  true,
			Data:        map[string]any{"timeSlot": "14:00-16:00", "occupancyRate": 0.77},
			CreatedAt:   now,
		},
		{
			ID:          "2",
			Type:        TypePrediction,
			Title:       "Previsão de Demanda",
			Description: "Baseado no histórico, espere 35% mais agendamentos na próxima sexta-feira.",
			Impact:      ImpactMedium,
			Actionable:  true,
			Data:        map[string]any{"predictedIncrease": 0.35, "date": "Friday"},
			CreatedAt:   now,
		},
		{
			ID:          "3",
			Type:        TypeRecommendation,
			Title:       "Serviços Populares",
			Description: "Corte + Barba está em alta. 67% dos clientes que fazem corte também pedem barba.",
			Impact:      ImpactMedium,
			Actionable:  true,
			Data:        map[string]any{"service": "Corte + Barba", "conversionRate": 0.67},
			CreatedAt:   now,
		},
		{
			ID:          "4",
			Type:        TypeAlert,
			Title:       "Clientes em Risco",
			Description: "3 clientes VIP não agendam há mais de 30 dias. Considere entrar em contato.",
			Impact:      ImpactHigh,
			Actionable:  true,
			Data:        map[string]any{"riskCustomers": 3, "daysSinceLastVisit": 30},
			CreatedAt:   now,
		},
	}, nil
}

// CustomerBehavior returns a canned behavioral profile.
func (p *StaticProvider) CustomerBehavior(_ context.Context, customerID uuid.UUID) (*CustomerBehavior, error) {
	return &CustomerBehavior{
		CustomerID:           customerID,
		PreferredServices:    []string{"Corte Masculino", "Barba"},
		PreferredTimes:       []string{"10:00", "14:00", "16:00"},
		AverageSpendingCents: 4550,
		LoyaltyScore:         8.5,
		RiskOfChurn:          0.15,
		NextVisitPrediction:  p.now().Add(14 * 24 * time.Hour),
	}, nil
}

// ServiceRecommendations returns the top upsell suggestions for a customer.
func (p *StaticProvider) ServiceRecommendations(_ context.Context, _ uuid.UUID) ([]string, error) {
	return []string{
		"Tratamento Capilar Premium",
		"Corte + Barba Combo",
	}, nil
}
