package services

import (
	"errors"
	"strings"

	"github.com/terraincognita07/registro/internal/models"
)

var (
	ErrExportFromDateInvalid = errors.New("export invalid from date")
	ErrExportToDateInvalid   = errors.New("export invalid to date")
	ErrExportRangeInvalid    = errors.New("export invalid range")
)

// ExportRange bounds an export by inclusive canonical dates. Empty bounds are open.
type ExportRange struct {
	From string
	To   string
}

func ParseExportRange(rawFrom string, rawTo string) (ExportRange, error) {
	var exportRange ExportRange
	if fromRaw := strings.TrimSpace(rawFrom); fromRaw != "" {
		from, err := CanonicalDate(fromRaw)
		if err != nil {
			return ExportRange{}, ErrExportFromDateInvalid
		}
		exportRange.From = from
	}
	if toRaw := strings.TrimSpace(rawTo); toRaw != "" {
		to, err := CanonicalDate(toRaw)
		if err != nil {
			return ExportRange{}, ErrExportToDateInvalid
		}
		exportRange.To = to
	}
	if exportRange.From != "" && exportRange.To != "" && exportRange.From > exportRange.To {
		return ExportRange{}, ErrExportRangeInvalid
	}
	return exportRange, nil
}

func (exportRange ExportRange) Contains(dateString string) bool {
	if exportRange.From != "" && dateString < exportRange.From {
		return false
	}
	if exportRange.To != "" && dateString > exportRange.To {
		return false
	}
	return true
}

func (exportRange ExportRange) Filter(history []models.DailyRecord) []models.DailyRecord {
	if exportRange.From == "" && exportRange.To == "" {
		return history
	}
	filtered := make([]models.DailyRecord, 0, len(history))
	for _, record := range history {
		if exportRange.Contains(record.DateString) {
			filtered = append(filtered, record)
		}
	}
	return filtered
}
