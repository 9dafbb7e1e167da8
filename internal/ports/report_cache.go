package ports

import (
	"context"

	"github.com/Gunvolt24/wb_abc/internal/domain"
)

// ReportCache — кэш готовых отчётов по ключу периода.
// Требования к реализации: потокобезопасность; возврат копий, а не внутренних срезов.
type ReportCache interface {
	// Get — отчёт по ключу; (items, true) при попадании, (nil, false) при промахе/истечении.
	Get(ctx context.Context, key string) ([]domain.ABCItem, bool)

	// Set — сохранить/обновить отчёт в кэше.
	Set(ctx context.Context, key string, items []domain.ABCItem) error
}
