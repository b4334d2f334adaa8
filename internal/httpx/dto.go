package httpx

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mshnjffr/e-commerce-store/internal/catalog"
	"github.com/mshnjffr/e-commerce-store/internal/orders"
)

type orderItemReq struct {
	LaptopID *int64 `json:"laptop_id"`
	MiceID   *int64 `json:"mice_id"`
	Quantity int    `json:"quantity"`
}

type orderReq struct {
	Items []orderItemReq `json:"items"`
}

func (r orderReq) toItems() ([]orders.ItemInput, error) {
	items := make([]orders.ItemInput, 0, len(r.Items))
	for _, it := range r.Items {
		ref, err := catalog.NewRef(it.LaptopID, it.MiceID)
		if err != nil {
			return nil, &orders.InvalidItemsError{Reason: err.Error()}
		}
		items = append(items, orders.ItemInput{Ref: ref, Quantity: it.Quantity})
	}
	return items, nil
}

type orderLineResp struct {
	ID        int64           `json:"id"`
	LaptopID  *int64          `json:"laptop_id"`
	MiceID    *int64          `json:"mice_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Laptop    *catalog.Laptop `json:"laptop,omitempty"`
	Mice      *catalog.Mouse  `json:"mice,omitempty"`
}

type orderResp struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      orders.Status   `json:"status"`
	Items       []orderLineResp `json:"items"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func toOrderResp(o orders.Order) orderResp {
	items := make([]orderLineResp, 0, len(o.Lines))
	for _, l := range o.Lines {
		var laptopID, miceID *int64
		id := l.Ref.ID
		switch l.Ref.Kind {
		case catalog.KindLaptop:
			laptopID = &id
		case catalog.KindMouse:
			miceID = &id
		}
		items = append(items, orderLineResp{
			ID:        l.ID,
			LaptopID:  laptopID,
			MiceID:    miceID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Laptop:    l.Laptop,
			Mice:      l.Mouse,
		})
	}
	return orderResp{
		ID:          o.ID,
		UserID:      o.UserID,
		TotalAmount: o.TotalAmount,
		Status:      o.Status,
		Items:       items,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}
