package api

import (
	"fmt"
	"strings"

	"github.com/terraincognita07/registro/internal/models"
	"github.com/terraincognita07/registro/internal/services"
)

func (payload commandPayload) command() (services.Command, error) {
	switch strings.TrimSpace(payload.Type) {
	case services.SetCheckedIn{}.Name():
		return services.SetCheckedIn{Value: payload.Value}, nil
	case services.SetGoal{}.Name():
		return services.SetGoal{GoalID: strings.TrimSpace(payload.Goal), Value: payload.Value}, nil
	case services.SelectRisk{}.Name():
		return services.SelectRisk{Status: models.RiskStatus(strings.ToUpper(strings.TrimSpace(payload.Risk)))}, nil
	case services.SetRelapsed{}.Name():
		return services.SetRelapsed{Value: payload.Value}, nil
	case services.SetRehabContact{}.Name():
		return services.SetRehabContact{Value: payload.Value}, nil
	case services.SetNotes{}.Name():
		return services.SetNotes{Text: payload.Notes}, nil
	case services.ToggleLock{}.Name():
		return services.ToggleLock{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", services.ErrUnknownCmd, payload.Type)
	}
}
