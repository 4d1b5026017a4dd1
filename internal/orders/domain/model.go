package domain

import "time"

// Order is one row of the orders table. order_id is supplied by the caller,
// never generated.
type Order struct {
	OrderID     int64     `gorm:"column:order_id;primaryKey;autoIncrement:false" json:"order_id"`
	CustomerID  string    `gorm:"column:customer_id;not null;default:''" json:"customer_id"`
	MfgPlantID  string    `gorm:"column:mfg_plant_id;not null;default:''" json:"mfg_plant_id"`
	OrderDate   time.Time `gorm:"column:order_date;not null" json:"order_date"`
	OrderStatus string    `gorm:"column:order_status;not null;default:''" json:"order_status"`
	ProductID   string    `gorm:"column:product_id;not null;default:''" json:"product_id"`
	Quantity    int64     `gorm:"column:quantity;not null;default:0" json:"quantity"`
	TotalPrice  float64   `gorm:"column:total_price;type:numeric(14,2);not null;default:0" json:"total_price"`
	UnitPrice   float64   `gorm:"column:unit_price;type:numeric(14,2);not null;default:0" json:"unit_price"`
}

func (Order) TableName() string { return "orders" }

// UpdatableColumns are overwritten when an upsert hits an existing order_id.
var UpdatableColumns = []string{
	"customer_id",
	"mfg_plant_id",
	"order_date",
	"order_status",
	"product_id",
	"quantity",
	"total_price",
	"unit_price",
}

const (
	EventUpserted = "orders.upserted"
	EventDeleted  = "orders.deleted"
)

// Event announces a committed change to the orders table.
type Event struct {
	Type       string    `json:"type"`
	OrderID    int64     `json:"order_id"`
	Order      *Order    `json:"order,omitempty"`
	Channel    string    `json:"channel"`
	RequestID  string    `json:"request_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
