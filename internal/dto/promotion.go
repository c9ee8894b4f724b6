package dto

import (
	"encoding/json"
	"errors"
	"fmt"

	"promotions/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	maxTitleLen       = 40
	maxDescriptionLen = 255
)

// ErrMalformedBody means the request body was not a JSON object at all.
var ErrMalformedBody = errors.New("body of request contained bad or no data")

// MissingFieldError names the first required field absent from the body.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "missing field " + e.Field
}

// InvalidAttributeError names a field whose value had the wrong shape.
type InvalidAttributeError struct {
	Field string
	Err   error
}

func (e *InvalidAttributeError) Error() string {
	return fmt.Sprintf("invalid attribute %s: %v", e.Field, e.Err)
}

func (e *InvalidAttributeError) Unwrap() error { return e.Err }

// requiredFields in declared order; the first missing key is the one
// reported.
var requiredFields = []string{
	"title",
	"description",
	"promo_code",
	"promo_type",
	"promo_value",
	"start_date",
	"created_date",
	"duration",
	"active",
}

// PromotionRequest is a fully validated create/update body. Any id in the
// body is ignored; ids are assigned by the store.
type PromotionRequest struct {
	Title       string
	Description string
	PromoCode   int64
	PromoType   domain.PromotionType
	PromoValue  decimal.Decimal
	StartDate   domain.Date
	CreatedDate domain.Date
	Duration    domain.Duration
	Active      bool
}

// UnmarshalJSON decodes in two phases: first into a raw map so a missing key
// or a non-object body gets its own error, then field by field so a bad value
// is reported with the attribute name.
func (r *PromotionRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return ErrMalformedBody
	}
	for _, name := range requiredFields {
		if _, ok := raw[name]; !ok {
			return &MissingFieldError{Field: name}
		}
	}

	decode := func(name string, dst any) error {
		if err := json.Unmarshal(raw[name], dst); err != nil {
			return &InvalidAttributeError{Field: name, Err: err}
		}
		return nil
	}

	if err := decode("title", &r.Title); err != nil {
		return err
	}
	if len(r.Title) > maxTitleLen {
		return &InvalidAttributeError{Field: "title", Err: fmt.Errorf("must be at most %d characters", maxTitleLen)}
	}
	if err := decode("description", &r.Description); err != nil {
		return err
	}
	if len(r.Description) > maxDescriptionLen {
		return &InvalidAttributeError{Field: "description", Err: fmt.Errorf("must be at most %d characters", maxDescriptionLen)}
	}
	if err := decode("promo_code", &r.PromoCode); err != nil {
		return err
	}
	var typeName string
	if err := decode("promo_type", &typeName); err != nil {
		return err
	}
	promoType, err := domain.ParsePromotionType(typeName)
	if err != nil {
		return &InvalidAttributeError{Field: "promo_type", Err: err}
	}
	r.PromoType = promoType
	if err := decode("promo_value", &r.PromoValue); err != nil {
		return err
	}
	if err := decode("start_date", &r.StartDate); err != nil {
		return err
	}
	if err := decode("created_date", &r.CreatedDate); err != nil {
		return err
	}
	if err := decode("duration", &r.Duration); err != nil {
		return err
	}
	if err := decode("active", &r.Active); err != nil {
		return err
	}
	return nil
}

// ToPromotion builds the domain entity. ID stays unassigned.
func (r PromotionRequest) ToPromotion() domain.Promotion {
	return domain.Promotion{
		Title:       r.Title,
		Description: r.Description,
		PromoCode:   r.PromoCode,
		PromoType:   r.PromoType,
		PromoValue:  r.PromoValue,
		StartDate:   r.StartDate,
		CreatedDate: r.CreatedDate,
		Duration:    r.Duration,
		Active:      r.Active,
	}
}

// PromotionResponse is the serialized form: promo_type by name, duration in
// its canonical rendering, id null while unassigned.
type PromotionResponse struct {
	ID          *int64          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	PromoCode   int64           `json:"promo_code"`
	PromoType   string          `json:"promo_type"`
	PromoValue  decimal.Decimal `json:"promo_value"`
	StartDate   domain.Date     `json:"start_date"`
	CreatedDate domain.Date     `json:"created_date"`
	Duration    domain.Duration `json:"duration"`
	Active      bool            `json:"active"`
}

// FromDomain serializes a Promotion.
func FromDomain(p domain.Promotion) PromotionResponse {
	var id *int64
	if p.ID != 0 {
		v := p.ID
		id = &v
	}
	return PromotionResponse{
		ID:          id,
		Title:       p.Title,
		Description: p.Description,
		PromoCode:   p.PromoCode,
		PromoType:   p.PromoType.String(),
		PromoValue:  p.PromoValue,
		StartDate:   p.StartDate,
		CreatedDate: p.CreatedDate,
		Duration:    p.Duration,
		Active:      p.Active,
	}
}

// FromDomainList serializes a result set.
func FromDomainList(list []domain.Promotion) []PromotionResponse {
	out := make([]PromotionResponse, len(list))
	for i := range list {
		out[i] = FromDomain(list[i])
	}
	return out
}
