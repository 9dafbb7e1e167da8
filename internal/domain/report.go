package domain

// Tier — категория ABC-анализа.
type Tier string

const (
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
)

// ABCItem — строка отчёта ABC-анализа по одному товару (nmId).
// Отчёт отдаётся отсортированным по выручке по убыванию; потребители
// могут полагаться на этот порядок.
type ABCItem struct {
	SupplierArticle string  `json:"supplier_article"`
	NmID            int64   `json:"nm_id"`
	Barcode         string  `json:"barcode"`
	Subject         string  `json:"subject"`
	Brand           string  `json:"brand"`
	Tier            Tier    `json:"category"`
	OrdersCount     int     `json:"orders_count"`
	Revenue         float64 `json:"revenue"`
	RevenueShare    float64 `json:"revenue_share"`
	CumulativeShare float64 `json:"cumulative_share"`
}
