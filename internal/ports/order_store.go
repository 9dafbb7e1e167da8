package ports

import (
	"context"

	"github.com/Gunvolt24/wb_abc/internal/domain"
)

// OrderStore — порт долговременного хранилища заказов.
// Реализация обязана сохранять нормализованные измерения (товар, склад, регион)
// идемпотентно по натуральному ключу: создать при первом появлении, далее переиспользовать.
type OrderStore interface {
	// SaveOrders — транзакционно сохраняет пачку заказов вместе с измерениями.
	SaveOrders(ctx context.Context, orders []domain.OrderRecord) error
}
