package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gunvolt24/wb_abc/internal/domain"
	"github.com/Gunvolt24/wb_abc/internal/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Проверка, что OrderStore удовлетворяет порту OrderStore.
var _ ports.OrderStore = (*OrderStore)(nil)

// OrderStore — хранилище заказов на Postgres (pgxpool).
// Измерения (товар, склад, регион) нормализованы и переиспользуются
// по натуральному ключу; заказ идемпотентен по srid.
type OrderStore struct {
	pool *pgxpool.Pool
}

// NewOrderStore — конструктор OrderStore.
func NewOrderStore(pool *pgxpool.Pool) *OrderStore { return &OrderStore{pool: pool} }

// SaveOrders — транзакционно сохраняет пачку заказов.
// Id-шники измерений кэшируются на время транзакции, чтобы не делать
// upsert одного и того же склада/товара на каждую строку пачки.
func (s *OrderStore) SaveOrders(ctx context.Context, orders []domain.OrderRecord) error {
	if len(orders) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		// При уже завершённой транзакции Rollback вернёт ErrTxClosed — игнорируем.
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			_ = rbErr
		}
	}()

	batch := newDimCache()
	for i := range orders {
		if err := s.saveOne(ctx, tx, batch, &orders[i]); err != nil {
			return fmt.Errorf("save order srid=%s: %w", orders[i].Srid, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// dimCache — id измерений, уже созданных/найденных в рамках одной транзакции.
type dimCache struct {
	products   map[int64]int64
	warehouses map[string]int64
	regions    map[string]int64
}

func newDimCache() *dimCache {
	return &dimCache{
		products:   make(map[int64]int64),
		warehouses: make(map[string]int64),
		regions:    make(map[string]int64),
	}
}

// saveOne — upsert измерений по натуральным ключам + вставка заказа.
func (s *OrderStore) saveOne(ctx context.Context, tx pgx.Tx, cache *dimCache, order *domain.OrderRecord) error {
	productID, err := s.upsertProduct(ctx, tx, cache, order)
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}

	warehouseID, err := s.upsertWarehouse(ctx, tx, cache, order)
	if err != nil {
		return fmt.Errorf("upsert warehouse: %w", err)
	}

	regionID, err := s.upsertRegion(ctx, tx, cache, order)
	if err != nil {
		return fmt.Errorf("upsert region: %w", err)
	}

	// Заказ идемпотентен по srid: повторная вставка той же записи — no-op.
	if _, err := tx.Exec(ctx, `
		INSERT INTO orders (
			srid, date, last_change_date, cancel_date,
			product_id, warehouse_id, region_id,
			income_id, is_supply, is_realization, is_cancel,
			total_price, discount_percent, spp, finished_price, price_with_disc,
			sticker, g_number
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (srid) DO NOTHING
	`,
		order.Srid, order.Date.Time, order.LastChangeDate.Time, order.CancelDate.Time,
		productID, warehouseID, regionID,
		order.IncomeID, order.IsSupply, order.IsRealization, order.IsCancel,
		order.TotalPrice, order.DiscountPercent, order.Spp, order.FinishedPrice, order.PriceWithDisc,
		order.Sticker, order.GNumber,
	); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}

// upsertProduct — товар по натуральному ключу nm_id: создать при первом
// появлении, иначе вернуть существующий id (описательные поля не перезаписываются).
func (s *OrderStore) upsertProduct(ctx context.Context, tx pgx.Tx, cache *dimCache, order *domain.OrderRecord) (int64, error) {
	if id, ok := cache.products[order.NmID]; ok {
		return id, nil
	}

	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO products (nm_id, barcode, supplier_article, category, subject, brand, tech_size)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (nm_id) DO UPDATE SET nm_id = EXCLUDED.nm_id
		RETURNING id
	`, order.NmID, order.Barcode, order.SupplierArticle, order.Category, order.Subject, order.Brand, order.TechSize).Scan(&id)
	if err != nil {
		return 0, err
	}

	cache.products[order.NmID] = id
	return id, nil
}

// upsertWarehouse — склад по натуральному ключу name.
func (s *OrderStore) upsertWarehouse(ctx context.Context, tx pgx.Tx, cache *dimCache, order *domain.OrderRecord) (int64, error) {
	if id, ok := cache.warehouses[order.WarehouseName]; ok {
		return id, nil
	}

	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO warehouses (name, warehouse_type)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, order.WarehouseName, order.WarehouseType).Scan(&id)
	if err != nil {
		return 0, err
	}

	cache.warehouses[order.WarehouseName] = id
	return id, nil
}

// upsertRegion — регион по составному натуральному ключу (страна, округ, регион).
func (s *OrderStore) upsertRegion(ctx context.Context, tx pgx.Tx, cache *dimCache, order *domain.OrderRecord) (int64, error) {
	key := order.CountryName + "\x00" + order.OblastOkrugName + "\x00" + order.RegionName
	if id, ok := cache.regions[key]; ok {
		return id, nil
	}

	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO regions (country_name, oblast_okrug_name, region_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (country_name, oblast_okrug_name, region_name) DO UPDATE SET country_name = EXCLUDED.country_name
		RETURNING id
	`, order.CountryName, order.OblastOkrugName, order.RegionName).Scan(&id)
	if err != nil {
		return 0, err
	}

	cache.regions[key] = id
	return id, nil
}
