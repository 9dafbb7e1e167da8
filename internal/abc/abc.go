// Пакет abc — ABC-анализ (Парето) заказов по вкладу в выручку.
// Чистая функция над входной выборкой: никакого разделяемого состояния.
package abc

import (
	"math"
	"sort"

	"github.com/Gunvolt24/wb_abc/internal/domain"
)

// Params — пороги классификации в процентах накопленной доли.
type Params struct {
	ThresholdA       float64 // граница категории A (включительно)
	ThresholdB       float64 // граница категории B (включительно)
	ExcludeCancelled bool    // исключать отменённые заказы
}

// DefaultParams — пороги по умолчанию: A до 80%, B до 95%, отменённые исключаются.
func DefaultParams() Params {
	return Params{ThresholdA: 80.0, ThresholdB: 95.0, ExcludeCancelled: true}
}

// accumulator — промежуточная агрегация по одному nmId.
// Описательные поля фиксируются при первом появлении товара во входном
// порядке и более не перезаписываются.
type accumulator struct {
	nmID            int64
	supplierArticle string
	barcode         string
	subject         string
	brand           string
	ordersCount     int
	revenue         float64
}

// Classify — агрегирует заказы по товару и раскладывает их по категориям
// A/B/C накопленной доли выручки.
//
// Шаги:
//  1. фильтрация отменённых (если ExcludeCancelled);
//  2. группировка по nmId: счётчик заказов + сумма priceWithDisc;
//  3. сортировка по выручке по убыванию (при равенстве — nmId по возрастанию,
//     чтобы порядок был детерминирован);
//  4. проход с накоплением доли и присвоением категории по границам `<=`.
//
// Округление до двух знаков выполняется только на выходе — накопитель
// считается на полных значениях, иначе ошибка округления накапливалась бы.
// Пустой вход, полностью отменённая выборка и нулевая суммарная выручка
// дают пустой результат (это не ошибка).
func Classify(orders []domain.OrderRecord, p Params) []domain.ABCItem {
	groups := make(map[int64]*accumulator)
	seen := make([]int64, 0)

	for i := range orders {
		order := &orders[i]
		if p.ExcludeCancelled && order.IsCancel {
			continue
		}

		acc, ok := groups[order.NmID]
		if !ok {
			acc = &accumulator{
				nmID:            order.NmID,
				supplierArticle: order.SupplierArticle,
				barcode:         order.Barcode,
				subject:         order.Subject,
				brand:           order.Brand,
			}
			groups[order.NmID] = acc
			seen = append(seen, order.NmID)
		}

		acc.ordersCount++
		acc.revenue += order.PriceWithDisc
	}

	if len(groups) == 0 {
		return []domain.ABCItem{}
	}

	var totalRevenue float64
	for _, acc := range groups {
		totalRevenue += acc.revenue
	}
	// Нулевую выборку нельзя осмысленно поделить на доли.
	if totalRevenue == 0 {
		return []domain.ABCItem{}
	}

	sorted := make([]*accumulator, 0, len(groups))
	for _, nmID := range seen {
		sorted = append(sorted, groups[nmID])
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].revenue != sorted[j].revenue {
			return sorted[i].revenue > sorted[j].revenue
		}
		return sorted[i].nmID < sorted[j].nmID
	})

	result := make([]domain.ABCItem, 0, len(sorted))
	cumulativeShare := 0.0

	for _, acc := range sorted {
		revenueShare := acc.revenue / totalRevenue * 100
		cumulativeShare += revenueShare

		var tier domain.Tier
		switch {
		case cumulativeShare <= p.ThresholdA:
			tier = domain.TierA
		case cumulativeShare <= p.ThresholdB:
			tier = domain.TierB
		default:
			tier = domain.TierC
		}

		result = append(result, domain.ABCItem{
			SupplierArticle: acc.supplierArticle,
			NmID:            acc.nmID,
			Barcode:         acc.barcode,
			Subject:         acc.subject,
			Brand:           acc.brand,
			Tier:            tier,
			OrdersCount:     acc.ordersCount,
			Revenue:         round2(acc.revenue),
			RevenueShare:    round2(revenueShare),
			CumulativeShare: round2(cumulativeShare),
		})
	}

	return result
}

// round2 — округление до двух знаков после запятой.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
