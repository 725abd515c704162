package dto

import (
	"time"

	"github.com/floatops/float_ledger_app/internal/core/domain"
	"github.com/floatops/float_ledger_app/internal/utils/money"
)

// DashboardQueryRequest selects the aggregation range.
type DashboardQueryRequest struct {
	Preset string     `form:"range,default=today"`
	From   *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To     *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
}

// SupervisorCardResponse renders a supervisor card with display amounts.
type SupervisorCardResponse struct {
	SupervisorID   string            `json:"supervisorID"`
	SupervisorName string            `json:"supervisorName"`
	StartOfDay     map[string]string `json:"startOfDay"`
	EndOfDay       map[string]string `json:"endOfDay"`
	StartTotal     string            `json:"startTotal"`
	EndTotal       string            `json:"endTotal"`
	Net            string            `json:"net"`
}

// GlobalDashboardResponse renders the network-wide view.
type GlobalDashboardResponse struct {
	Cards          []SupervisorCardResponse `json:"cards"`
	StartTotal     string                   `json:"startTotal"`
	EndTotal       string                   `json:"endTotal"`
	Net            string                   `json:"net"`
	FloatPoolStart string                   `json:"floatPoolStart"`
	FloatPoolNow   string                   `json:"floatPoolNow"`
}

func formatAmountMap(m map[string]int64) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = money.Format(v)
	}
	return out
}

// ToSupervisorCardResponse converts a domain card to its response DTO.
func ToSupervisorCardResponse(card *domain.SupervisorCard) SupervisorCardResponse {
	return SupervisorCardResponse{
		SupervisorID:   card.SupervisorID,
		SupervisorName: card.SupervisorName,
		StartOfDay:     formatAmountMap(card.StartOfDay),
		EndOfDay:       formatAmountMap(card.EndOfDay),
		StartTotal:     money.Format(card.StartTotal),
		EndTotal:       money.Format(card.EndTotal),
		Net:            money.Format(card.Net),
	}
}

// ToGlobalDashboardResponse converts the global view to its response DTO.
func ToGlobalDashboardResponse(g *domain.GlobalDashboard) GlobalDashboardResponse {
	cards := make([]SupervisorCardResponse, len(g.Cards))
	for i := range g.Cards {
		cards[i] = ToSupervisorCardResponse(&g.Cards[i])
	}
	return GlobalDashboardResponse{
		Cards:          cards,
		StartTotal:     money.Format(g.StartTotal),
		EndTotal:       money.Format(g.EndTotal),
		Net:            money.Format(g.Net),
		FloatPoolStart: money.Format(g.FloatPoolStart),
		FloatPoolNow:   money.Format(g.FloatPoolNow),
	}
}
