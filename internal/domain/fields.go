package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrBadValue marks a query value that failed coercion; handlers treat it as
// caller error.
var ErrBadValue = errors.New("invalid value")

// FieldKind drives query-string coercion for filterable Promotion fields.
type FieldKind int

const (
	KindString FieldKind = iota
	KindInt
	KindBool
	KindDecimal
	KindDate
	KindDuration
	KindPromoType
)

// promotionFields is the static registry of filterable fields, keyed by wire
// name. Filter lookups never reach for struct fields by reflection; a name
// missing here is an InvalidAttributeError.
var promotionFields = map[string]FieldKind{
	"id":           KindInt,
	"title":        KindString,
	"description":  KindString,
	"promo_code":   KindInt,
	"promo_type":   KindPromoType,
	"promo_value":  KindDecimal,
	"start_date":   KindDate,
	"created_date": KindDate,
	"duration":     KindDuration,
	"active":       KindBool,
}

// InvalidAttributeError reports a field name that does not exist on Promotion.
type InvalidAttributeError struct {
	Name string
}

func (e *InvalidAttributeError) Error() string {
	return fmt.Sprintf("'%s' is not a valid attribute of Promotion", e.Name)
}

// CoerceField converts a raw query-string value into the named field's typed
// value. Booleans follow the lenient rule: only "true" (any case) is true,
// every other string is false without error. Everything else is parsed
// strictly and malformed input is an error, never a silent mismatch.
func CoerceField(name, raw string) (any, error) {
	kind, ok := promotionFields[name]
	if !ok {
		return nil, &InvalidAttributeError{Name: name}
	}
	switch kind {
	case KindInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w for %s: %q is not an integer", ErrBadValue, name, raw)
		}
		return n, nil
	case KindBool:
		return strings.EqualFold(raw, "true"), nil
	case KindDecimal:
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w for %s: %q is not a number", ErrBadValue, name, raw)
		}
		return v, nil
	case KindDate:
		d, err := ParseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("%w for %s: %v", ErrBadValue, name, err)
		}
		return d, nil
	case KindDuration:
		d, err := ParseSpan(raw)
		if err != nil {
			return nil, fmt.Errorf("%w for %s: %v", ErrBadValue, name, err)
		}
		return d, nil
	case KindPromoType:
		t, err := ParsePromotionType(raw)
		if err != nil {
			return nil, fmt.Errorf("%w for %s: %v", ErrBadValue, name, err)
		}
		return t, nil
	default:
		return raw, nil
	}
}
