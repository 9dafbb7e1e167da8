package ports

import (
	"context"

	"github.com/Gunvolt24/wb_abc/internal/domain"
)

// ReportBuilder — порт построения ABC-отчёта за период (для HTTP-слоя).
type ReportBuilder interface {
	// RunReport — полный цикл: кэш → выборка → классификация → передача на сохранение.
	RunReport(ctx context.Context, period domain.DateRange) ([]domain.ABCItem, error)
}
