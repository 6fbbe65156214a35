package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade records one executed match between a buyer and a seller.
// Money and stock columns are the participants' balances right after
// settlement, so a run can be replayed from the store alone.
type Trade struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Seq         uint64 `gorm:"index" json:"seq"` // engine-assigned, 1-based
	Tick        int64  `json:"tick"`
	BuyOrderID  string `json:"buy_order_id"`
	SellOrderID string `json:"sell_order_id"`

	BuyerID     string          `gorm:"index" json:"buyer_id"`
	BuyerMoney  decimal.Decimal `gorm:"type:numeric" json:"buyer_money"`
	BuyerStock  int64           `json:"buyer_stock"`
	SellerID    string          `gorm:"index" json:"seller_id"`
	SellerMoney decimal.Decimal `gorm:"type:numeric" json:"seller_money"`
	SellerStock int64           `json:"seller_stock"`

	Qty   int64           `json:"qty"`
	Price decimal.Decimal `gorm:"type:numeric" json:"price"`

	CreatedAt time.Time `json:"created_at"`
}
