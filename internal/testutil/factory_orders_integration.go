//go:build integration

package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/Gunvolt24/wb_abc/internal/domain"
)

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func UniqSuffix() string { return randHex(6) }

// Мини-генератор валидной записи заказа
func MakeOrderRecord(opts ...func(*domain.OrderRecord)) domain.OrderRecord {
	now := time.Now().UTC().Truncate(time.Second)
	suffix := UniqSuffix()

	o := domain.OrderRecord{
		Date:           domain.Time{Time: now},
		LastChangeDate: domain.Time{Time: now},

		WarehouseName:   "Коледино",
		WarehouseType:   "Склад WB",
		CountryName:     "Россия",
		OblastOkrugName: "Центральный федеральный округ",
		RegionName:      "Московская",

		SupplierArticle: "ART-" + suffix,
		NmID:            1_000_000 + int64(now.UnixNano()%1_000_000),
		Barcode:         "2000" + suffix,
		Category:        "Одежда",
		Subject:         "Футболки",
		Brand:           "brand",
		TechSize:        "M",

		IncomeID:      12345,
		IsRealization: true,

		TotalPrice:      1500,
		DiscountPercent: 30,
		Spp:             5,
		FinishedPrice:   997.5,
		PriceWithDisc:   1050,

		Sticker: "st-" + suffix,
		GNumber: "g-" + suffix,
		Srid:    "srid-" + suffix,
	}

	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Доп. опции — для переопределения полей в тесте.

func WithSrid(srid string) func(*domain.OrderRecord) {
	return func(o *domain.OrderRecord) { o.Srid = srid }
}

func WithNmID(nmID int64) func(*domain.OrderRecord) {
	return func(o *domain.OrderRecord) { o.NmID = nmID }
}

func WithRevenue(priceWithDisc float64) func(*domain.OrderRecord) {
	return func(o *domain.OrderRecord) { o.PriceWithDisc = priceWithDisc }
}

func WithDate(ts time.Time) func(*domain.OrderRecord) {
	return func(o *domain.OrderRecord) {
		o.Date = domain.Time{Time: ts}
		o.LastChangeDate = domain.Time{Time: ts}
	}
}

func WithCancelled(cancelDate time.Time) func(*domain.OrderRecord) {
	return func(o *domain.OrderRecord) {
		o.IsCancel = true
		o.CancelDate = domain.Time{Time: cancelDate}
	}
}

func WithWarehouse(name string) func(*domain.OrderRecord) {
	return func(o *domain.OrderRecord) { o.WarehouseName = name }
}
