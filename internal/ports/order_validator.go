package ports

import (
	"context"

	"github.com/Gunvolt24/wb_abc/internal/domain"
)

// OrderValidator — доменная валидация записи заказа перед сохранением.
type OrderValidator interface {
	Validate(ctx context.Context, order *domain.OrderRecord) error
}
