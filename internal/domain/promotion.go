package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// PromotionType classifies how a promotion discounts an order. It is stored
// and serialized by name, so neither the wire form nor the storage form
// depends on declaration order.
type PromotionType string

const (
	AmountDiscount     PromotionType = "AMOUNT_DISCOUNT"
	PercentageDiscount PromotionType = "PERCENTAGE_DISCOUNT"
	BuyOneGetOne       PromotionType = "BUY_ONE_GET_ONE"
)

// ParsePromotionType matches s against the enumeration names, ignoring case.
func ParsePromotionType(s string) (PromotionType, error) {
	switch t := PromotionType(strings.ToUpper(strings.TrimSpace(s))); t {
	case AmountDiscount, PercentageDiscount, BuyOneGetOne:
		return t, nil
	default:
		return "", fmt.Errorf("unknown promotion type %q", s)
	}
}

func (t PromotionType) String() string { return string(t) }

// Promotion is the business entity (the truth). It does not depend on Gin,
// Postgres or Redis.
type Promotion struct {
	ID          int64 // 0 until assigned by the store
	Title       string
	Description string
	PromoCode   int64
	PromoType   PromotionType
	PromoValue  decimal.Decimal
	StartDate   Date
	CreatedDate Date
	Duration    Duration
	Active      bool
}

// Label is the human-readable identity used in logs: "<title> id=[<id|none>]".
func (p Promotion) Label() string {
	id := "none"
	if p.ID != 0 {
		id = strconv.FormatInt(p.ID, 10)
	}
	return fmt.Sprintf("%s id=[%s]", p.Title, id)
}
