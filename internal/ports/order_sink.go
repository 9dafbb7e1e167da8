package ports

import (
	"context"

	"github.com/Gunvolt24/wb_abc/internal/domain"
)

// OrderSink — приёмник сырых заказов для отложенного сохранения.
// Submit не должен блокировать вызывающего: передача — неблокирующая,
// переполнение очереди — ошибка, которую вызывающий логирует, но не пробрасывает.
type OrderSink interface {
	Submit(ctx context.Context, orders []domain.OrderRecord) error
}
