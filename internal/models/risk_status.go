package models

import "strings"

type RiskStatus string

const (
	RiskNone     RiskStatus = ""
	RiskLow      RiskStatus = "BAJO"
	RiskModerate RiskStatus = "MODERADO"
	RiskHigh     RiskStatus = "ALTO"
	RiskCritical RiskStatus = "CRITICO"
)

var RiskStatuses = []RiskStatus{RiskLow, RiskModerate, RiskHigh, RiskCritical}

var riskLabels = map[RiskStatus]string{
	RiskLow:      "Bajo",
	RiskModerate: "Moderado",
	RiskHigh:     "Alto",
	RiskCritical: "Crítico",
}

func ParseRiskStatus(raw string) (RiskStatus, bool) {
	candidate := RiskStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := riskLabels[candidate]; ok {
		return candidate, true
	}
	return RiskNone, false
}

func (status RiskStatus) Valid() bool {
	_, ok := riskLabels[status]
	return ok
}

func (status RiskStatus) Label() string {
	return riskLabels[status]
}

func (status RiskStatus) IsHigh() bool {
	return status == RiskHigh || status == RiskCritical
}
