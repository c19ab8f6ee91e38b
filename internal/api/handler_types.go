package api

import (
	"context"
	"html/template"
	"log/slog"

	"github.com/terraincognita07/registro/internal/i18n"
	"github.com/terraincognita07/registro/internal/models"
	"github.com/terraincognita07/registro/internal/services"
)

const (
	sessionCookieName  = "registro_session"
	languageCookieName = "registro_lang"
	flashCookieName    = "registro_flash"

	contextIdentityKey = "identity"
	contextLanguageKey = "language"
	contextMessagesKey = "messages"
)

type Handler struct {
	days         *services.DayService
	exports      *services.ExportService
	samples      *services.SampleDataService
	auth         *services.AuthService
	i18n         *i18n.Manager
	cookieSecure bool
	streamCtx    context.Context
	log          *slog.Logger
	templates    map[string]*template.Template
}

type HandlerDeps struct {
	Days         *services.DayService
	Exports      *services.ExportService
	Samples      *services.SampleDataService
	Auth         *services.AuthService
	I18n         *i18n.Manager
	CookieSecure bool
	// StreamContext ends every open live stream when cancelled.
	StreamContext context.Context
	Log           *slog.Logger
}

type FlashPayload struct {
	MessageKey string `json:"message_key,omitempty"`
	IsError    bool   `json:"is_error,omitempty"`
}

type goalView struct {
	Goal models.FixedGoal
	Done bool
}

type riskView struct {
	Status   models.RiskStatus
	Label    string
	Selected bool
}

type dashboardView struct {
	Lang          string
	Messages      map[string]string
	CSRFToken     string
	UserID        string
	Form          services.FormState
	Goals         []goalView
	Risks         []riskView
	Streak        int
	StreakTier    services.StreakTier
	StreakMessage string
	Calendar      services.CalendarMonth
	Weekdays      [7]string
	Compliance    []services.GoalCompliance
	Recent        []services.HistoryEntry
	HasHistory    bool
	Flash         string
	FlashIsError  bool
}

type authErrorView struct {
	Lang     string
	Messages map[string]string
}

type gatesJSON struct {
	Locked   bool `json:"locked"`
	Future   bool `json:"future"`
	Disabled bool `json:"disabled"`
}

type progressJSON struct {
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
}

type dayJSON struct {
	Date       string             `json:"date"`
	Today      string             `json:"today"`
	Record     models.DailyRecord `json:"record"`
	Exists     bool               `json:"exists"`
	Gates      gatesJSON          `json:"gates"`
	Progress   progressJSON       `json:"progress"`
	MessageKey string             `json:"messageKey,omitempty"`
	Message    string             `json:"message,omitempty"`
}

type commandPayload struct {
	Type  string `json:"type" form:"type"`
	Goal  string `json:"goal" form:"goal"`
	Risk  string `json:"risk" form:"risk"`
	Value bool   `json:"value" form:"value"`
	Notes string `json:"notes" form:"notes"`
}
