package db

import (
	"github.com/terraincognita07/registro/internal/realtime"
	"gorm.io/gorm"
)

type Repositories struct {
	Records *RecordRepository
}

func NewRepositories(database *gorm.DB, dispatcher *realtime.Dispatcher) *Repositories {
	return &Repositories{
		Records: NewRecordRepository(database, dispatcher),
	}
}
