package catalog

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Laptop struct {
	ID            int64           `json:"id"`
	Brand         string          `json:"brand"`
	Model         string          `json:"model"`
	Processor     string          `json:"processor"`
	RAMGB         int             `json:"ram_gb"`
	StorageGB     int             `json:"storage_gb"`
	Graphics      string          `json:"graphics"`
	ScreenSize    float64         `json:"screen_size"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	CreatedAt     time.Time       `json:"created_at"`
}

type Mouse struct {
	ID            int64           `json:"id"`
	Brand         string          `json:"brand"`
	Model         string          `json:"model"`
	MouseType     string          `json:"mouse_type"`
	Connectivity  string          `json:"connectivity"`
	DPI           int             `json:"dpi"`
	Buttons       int             `json:"buttons"`
	RGBLighting   bool            `json:"rgb_lighting"`
	WeightGrams   int             `json:"weight_grams"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	CreatedAt     time.Time       `json:"created_at"`
}

type Kind string

const (
	KindLaptop Kind = "laptop"
	KindMouse  Kind = "mouse"
)

// ProductRef identifies exactly one product in exactly one catalog. The two
// catalogs are disjoint; an id is only meaningful together with its kind.
type ProductRef struct {
	Kind Kind
	ID   int64
}

func (r ProductRef) Valid() bool {
	return (r.Kind == KindLaptop || r.Kind == KindMouse) && r.ID > 0
}

func (r ProductRef) String() string {
	return fmt.Sprintf("%s %d", r.Kind, r.ID)
}

// NewRef builds a ProductRef from the wire representation, where a laptop id
// and a mouse id are two optional fields of which exactly one must be set.
func NewRef(laptopID, miceID *int64) (ProductRef, error) {
	switch {
	case laptopID != nil && miceID != nil:
		return ProductRef{}, fmt.Errorf("cannot specify both laptop_id and mice_id")
	case laptopID != nil:
		return ProductRef{Kind: KindLaptop, ID: *laptopID}, nil
	case miceID != nil:
		return ProductRef{Kind: KindMouse, ID: *miceID}, nil
	default:
		return ProductRef{}, fmt.Errorf("either laptop_id or mice_id must be provided")
	}
}
