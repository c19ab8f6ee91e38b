package models

type FixedGoal struct {
	ID       string
	Text     string
	TimeHint string
}

var FixedGoals = [TotalFixedGoals]FixedGoal{
	{ID: "salida_casa", Text: "Salida de Casa", TimeHint: "06:00 - 07:00 AM"},
	{ID: "entrada_trabajo", Text: "Entrada al Trabajo", TimeHint: "07:00 - 08:00 AM"},
	{ID: "salida_trabajo", Text: "Salida del Trabajo", TimeHint: "17:00 - 18:00 PM"},
	{ID: "entrada_grupo", Text: "Entrada al Grupo/Reunión", TimeHint: "18:00 - 20:15 PM"},
	{ID: "salida_grupo", Text: "Salida del Grupo/Reunión", TimeHint: "Después de las 20:15 PM"},
	{ID: "llegada_casa", Text: "Llegada a Casa", TimeHint: "Aproximadamente 21:00 hs"},
	{ID: "pastilla_21hs", Text: "Medicamento / Suplemento", TimeHint: "Después de Llegar a Casa"},
	{ID: "llamada_fin_dia", Text: "Llamada al Final del Día", TimeHint: "Último chequeo antes de dormir"},
}

func FixedGoalIDs() []string {
	ids := make([]string, 0, len(FixedGoals))
	for _, goal := range FixedGoals {
		ids = append(ids, goal.ID)
	}
	return ids
}

func IsFixedGoal(goalID string) bool {
	for _, goal := range FixedGoals {
		if goal.ID == goalID {
			return true
		}
	}
	return false
}
