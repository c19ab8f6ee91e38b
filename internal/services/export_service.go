package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/terraincognita07/registro/internal/models"
)

const (
	csvYes        = "SI"
	csvNo         = "NO"
	csvLineBreak  = "\n"
	exportBaseTag = "RegistroDiario"
)

var exportCSVBaseHeaders = []string{
	"Fecha",
	"Check_In_Apoyo",
	"Emotional_Status",
	"Has_Relapsed",
	"Rehab_Communication",
	"Is_Locked",
	"Notes",
}

// ExportCSVHeaders is the base header followed by every fixed goal id.
func ExportCSVHeaders() []string {
	headers := make([]string, 0, len(exportCSVBaseHeaders)+len(models.FixedGoals))
	headers = append(headers, exportCSVBaseHeaders...)
	return append(headers, models.FixedGoalIDs()...)
}

type ExportHistoryReader interface {
	FetchHistory(ctx context.Context, userID string) ([]models.DailyRecord, error)
}

// ExportArchiver keeps a server-side copy of generated exports.
type ExportArchiver interface {
	Archive(ctx context.Context, key string, contentType string, body []byte) error
}

type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
	Records     int
}

type ExportService struct {
	days     ExportHistoryReader
	archiver ExportArchiver
	clock    Clock
	log      *slog.Logger
}

func NewExportService(days ExportHistoryReader, archiver ExportArchiver, clock Clock, log *slog.Logger) *ExportService {
	if clock == nil {
		clock = SystemClock
	}
	if log == nil {
		log = slog.Default()
	}
	return &ExportService{
		days:     days,
		archiver: archiver,
		clock:    clock,
		log:      log.With("component", "export_service"),
	}
}

func (service *ExportService) loadHistory(ctx context.Context, userID string, exportRange ExportRange) ([]models.DailyRecord, error) {
	history, err := service.days.FetchHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	history = exportRange.Filter(history)
	if len(history) == 0 {
		return nil, ErrNoHistory
	}
	return history, nil
}

func (service *ExportService) BuildCSV(ctx context.Context, userID string, today string, exportRange ExportRange) (ExportFile, error) {
	history, err := service.loadHistory(ctx, userID, exportRange)
	if err != nil {
		return ExportFile{}, err
	}

	file := ExportFile{
		Filename:    ExportFilename(userID, today, "csv"),
		ContentType: "text/csv;charset=utf-8",
		Body:        []byte(SerializeCSV(history)),
		Records:     len(history),
	}
	service.archive(ctx, userID, file)
	return file, nil
}

func (service *ExportService) BuildPDF(ctx context.Context, userID string, today string, exportRange ExportRange) (ExportFile, error) {
	history, err := service.loadHistory(ctx, userID, exportRange)
	if err != nil {
		return ExportFile{}, err
	}

	body, err := RenderPDFReport(userID, today, history)
	if err != nil {
		return ExportFile{}, fmt.Errorf("render pdf report: %w", err)
	}
	return ExportFile{
		Filename:    ExportFilename(userID, today, "pdf"),
		ContentType: "application/pdf",
		Body:        body,
		Records:     len(history),
	}, nil
}

// archive never fails the export; a missing copy is only logged.
func (service *ExportService) archive(ctx context.Context, userID string, file ExportFile) {
	if service.archiver == nil {
		return
	}
	key := fmt.Sprintf("exports/%s/%s", userID, file.Filename)
	if err := service.archiver.Archive(ctx, key, file.ContentType, file.Body); err != nil {
		service.log.Warn("export archive failed", "user_id", userID, "key", key, "error", err)
	}
}

func ExportFilename(userID string, today string, extension string) string {
	return fmt.Sprintf("%s_%s_%s.%s", exportBaseTag, userID, today, extension)
}

// SerializeCSV renders history in the given order. Lines are joined without a
// trailing break so N records produce N+1 lines.
func SerializeCSV(history []models.DailyRecord) string {
	lines := make([]string, 0, len(history)+1)
	lines = append(lines, strings.Join(ExportCSVHeaders(), ","))
	for _, record := range history {
		lines = append(lines, strings.Join(ExportCSVColumns(record), ","))
	}
	return strings.Join(lines, csvLineBreak)
}

func ExportCSVColumns(record models.DailyRecord) []string {
	columns := []string{
		record.DateString,
		csvYesNo(record.CheckedIn),
		riskTokenOrUnset(record.EmotionalStatus),
		csvYesNo(record.HasRelapsed),
		csvYesNo(record.HasCommunicatedWithRehab),
		csvYesNo(record.IsLocked),
		csvQuote(record.Notes),
	}
	for _, goal := range models.FixedGoals {
		columns = append(columns, csvYesNo(record.FixedGoalsStatus[goal.ID]))
	}
	return columns
}

func csvYesNo(value bool) string {
	if value {
		return csvYes
	}
	return csvNo
}

func csvQuote(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}
