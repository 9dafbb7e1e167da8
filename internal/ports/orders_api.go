package ports

import (
	"context"

	"github.com/Gunvolt24/wb_abc/internal/domain"
)

// Режимы выборки заказов Statistics API (параметр flag).
const (
	// FlagSince — все записи с lastChangeDate >= dateFrom (апстрим ограничивает ~100k строк).
	FlagSince = 0
	// FlagExact — точное совпадение даты, без ограничения количества.
	FlagExact = 1
)

// OrdersAPI — порт доступа к заказам поставщика во внешнем Statistics API.
type OrdersAPI interface {
	// Orders — выгрузка заказов за дату dateFrom (YYYY-MM-DD) в режиме flag.
	Orders(ctx context.Context, dateFrom string, flag int) ([]domain.OrderRecord, error)
}
