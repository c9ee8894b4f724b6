package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestCoerceField(t *testing.T) {
	tests := []struct {
		name  string
		field string
		raw   string
		want  any
	}{
		{name: "int", field: "promo_code", raw: "12345", want: int64(12345)},
		{name: "id", field: "id", raw: "7", want: int64(7)},
		{name: "string passthrough", field: "title", raw: "Summer Sale", want: "Summer Sale"},
		{name: "bool true", field: "active", raw: "true", want: true},
		{name: "bool mixed case", field: "active", raw: "TrUe", want: true},
		{name: "bool anything else is false", field: "active", raw: "yes", want: false},
		{name: "promo type", field: "promo_type", raw: "amount_discount", want: AmountDiscount},
		{name: "date", field: "start_date", raw: "2024-06-15", want: NewDate(2024, time.June, 15)},
		{name: "duration", field: "duration", raw: "5 days, 01:30:00", want: NewDuration(5, 90*time.Minute)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CoerceField(tt.field, tt.raw)
			if err != nil {
				t.Fatalf("CoerceField(%q, %q): %v", tt.field, tt.raw, err)
			}
			switch want := tt.want.(type) {
			case Date:
				if !got.(Date).Equal(want) {
					t.Errorf("got %v, want %v", got, want)
				}
			default:
				if got != tt.want {
					t.Errorf("got %v (%T), want %v (%T)", got, got, tt.want, tt.want)
				}
			}
		})
	}
}

func TestCoerceFieldDecimal(t *testing.T) {
	got, err := CoerceField("promo_value", "19.99")
	if err != nil {
		t.Fatalf("CoerceField: %v", err)
	}
	if !got.(decimal.Decimal).Equal(decimal.RequireFromString("19.99")) {
		t.Errorf("got %v, want 19.99", got)
	}
}

func TestCoerceFieldErrors(t *testing.T) {
	tests := []struct {
		name  string
		field string
		raw   string
	}{
		{name: "bad int", field: "promo_code", raw: "abc"},
		{name: "bad decimal", field: "promo_value", raw: "cheap"},
		{name: "bad date", field: "start_date", raw: "15/06/2024"},
		{name: "bad duration", field: "duration", raw: "a while"},
		{name: "bad promo type", field: "promo_type", raw: "FREE_SHIPPING"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CoerceField(tt.field, tt.raw)
			if !errors.Is(err, ErrBadValue) {
				t.Errorf("CoerceField(%q, %q) err = %v, want ErrBadValue", tt.field, tt.raw, err)
			}
		})
	}
}

func TestCoerceFieldUnknownName(t *testing.T) {
	_, err := CoerceField("discount", "10")
	var invalid *InvalidAttributeError
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %v, want InvalidAttributeError", err)
	}
	want := "'discount' is not a valid attribute of Promotion"
	if invalid.Error() != want {
		t.Errorf("Error() = %q, want %q", invalid.Error(), want)
	}
}
