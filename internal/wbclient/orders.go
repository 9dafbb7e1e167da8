package wbclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Gunvolt24/wb_abc/internal/domain"
	"github.com/Gunvolt24/wb_abc/internal/ports"
)

// Путь эндпоинта заказов поставщика (относительно базового URL).
const supplierOrdersPath = "v1/supplier/orders"

// Проверка, что OrdersAPI удовлетворяет порту OrdersAPI.
var _ ports.OrdersAPI = (*OrdersAPI)(nil)

// OrdersAPI — группа эндпоинтов заказов Statistics API.
// Создаётся один раз при сборке приложения, не лениво.
type OrdersAPI struct {
	client *Client
}

// NewOrdersAPI — конструктор группы эндпоинтов поверх открытого клиента.
func NewOrdersAPI(client *Client) *OrdersAPI { return &OrdersAPI{client: client} }

// Orders — выгрузка заказов за dateFrom (YYYY-MM-DD).
// flag=0: все записи с lastChangeDate >= dateFrom (апстрим ограничивает ~100k);
// flag=1: точное совпадение даты, без ограничения.
func (a *OrdersAPI) Orders(ctx context.Context, dateFrom string, flag int) ([]domain.OrderRecord, error) {
	query := url.Values{
		"dateFrom": {dateFrom},
		"flag":     {strconv.Itoa(flag)},
	}

	var records []domain.OrderRecord
	if err := a.client.Fetch(ctx, Request{
		Method: http.MethodGet,
		Path:   supplierOrdersPath,
		Query:  query,
	}, &records); err != nil {
		return nil, err
	}

	return records, nil
}
