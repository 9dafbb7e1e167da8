package validate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gunvolt24/wb_abc/internal/domain"
	"github.com/Gunvolt24/wb_abc/internal/ports"
)

// Проверка, что OrderRecordValidator удовлетворяет порту OrderValidator.
var _ ports.OrderValidator = (*OrderRecordValidator)(nil)

// ErrInvalidOrder — базовая (sentinel error) ошибка валидации записи заказа.
var ErrInvalidOrder = errors.New("order record validation failed")

// OrderRecordValidator — проверка записи заказа перед сохранением в хранилище.
type OrderRecordValidator struct{}

// NewOrderRecordValidator — конструктор.
// Validate возвращает ErrInvalidOrder (с обёрнутой причиной) при любой проблеме.
func NewOrderRecordValidator() *OrderRecordValidator { return &OrderRecordValidator{} }

// Validate — проверяет обязательные поля записи.
func (v *OrderRecordValidator) Validate(_ context.Context, order *domain.OrderRecord) error {
	if order == nil {
		return fmt.Errorf("%w: запись не может быть nil", ErrInvalidOrder)
	}
	if order.Srid == "" {
		return fmt.Errorf("%w: srid обязателен", ErrInvalidOrder)
	}
	if order.NmID <= 0 {
		return fmt.Errorf("%w: nmId должен быть положительным", ErrInvalidOrder)
	}
	if order.Date.IsZero() || order.Date.Before(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)) {
		return fmt.Errorf("%w: date некорректна", ErrInvalidOrder)
	}
	if order.LastChangeDate.IsZero() {
		return fmt.Errorf("%w: lastChangeDate обязательна", ErrInvalidOrder)
	}
	if order.PriceWithDisc < 0 || order.TotalPrice < 0 {
		return fmt.Errorf("%w: цена не может быть отрицательной", ErrInvalidOrder)
	}
	if order.DiscountPercent < 0 || order.DiscountPercent > 100 {
		return fmt.Errorf("%w: discountPercent вне диапазона [0,100]", ErrInvalidOrder)
	}
	return nil
}
