package repo

import (
	"context"
	"sort"
	"sync"

	"promotions/internal/domain"

	"github.com/shopspring/decimal"
)

// MemoryPromotionRepo implements PromotionRepo with an in-process map so
// service and handler tests run without Postgres. It honors the same
// contract as the Postgres implementation, including the coercion rules of
// FindByFields.
type MemoryPromotionRepo struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]domain.Promotion
}

func NewMemoryPromotionRepo() *MemoryPromotionRepo {
	return &MemoryPromotionRepo{items: make(map[int64]domain.Promotion)}
}

func (r *MemoryPromotionRepo) Create(_ context.Context, p domain.Promotion) (domain.Promotion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = r.nextID
	r.items[p.ID] = p
	return p, nil
}

func (r *MemoryPromotionRepo) Update(_ context.Context, p domain.Promotion) (domain.Promotion, error) {
	if p.ID == 0 {
		return domain.Promotion{}, ErrNoID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[p.ID]; !ok {
		return domain.Promotion{}, ErrNotFound
	}
	r.items[p.ID] = p
	return p, nil
}

func (r *MemoryPromotionRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *MemoryPromotionRepo) Find(_ context.Context, id int64) (domain.Promotion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	if !ok {
		return domain.Promotion{}, ErrNotFound
	}
	return p, nil
}

func (r *MemoryPromotionRepo) FindAll(_ context.Context) ([]domain.Promotion, error) {
	return r.filter(func(domain.Promotion) bool { return true }), nil
}

func (r *MemoryPromotionRepo) FindByTitle(_ context.Context, title string) ([]domain.Promotion, error) {
	return r.filter(func(p domain.Promotion) bool { return p.Title == title }), nil
}

func (r *MemoryPromotionRepo) FindByPromoCode(_ context.Context, code int64) ([]domain.Promotion, error) {
	return r.filter(func(p domain.Promotion) bool { return p.PromoCode == code }), nil
}

func (r *MemoryPromotionRepo) FindByPromoType(_ context.Context, t domain.PromotionType) ([]domain.Promotion, error) {
	return r.filter(func(p domain.Promotion) bool { return p.PromoType == t }), nil
}

func (r *MemoryPromotionRepo) FindByActive(_ context.Context, active bool) ([]domain.Promotion, error) {
	return r.filter(func(p domain.Promotion) bool { return p.Active == active }), nil
}

func (r *MemoryPromotionRepo) FindByFields(_ context.Context, fields map[string]string) ([]domain.Promotion, error) {
	coerced := make(map[string]any, len(fields))
	for name, raw := range fields {
		val, err := domain.CoerceField(name, raw)
		if err != nil {
			return nil, err
		}
		coerced[name] = val
	}
	return r.filter(func(p domain.Promotion) bool {
		for name, val := range coerced {
			if !matchField(p, name, val) {
				return false
			}
		}
		return true
	}), nil
}

func (r *MemoryPromotionRepo) RemoveAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := int64(len(r.items))
	r.items = make(map[int64]domain.Promotion)
	return count, nil
}

func (r *MemoryPromotionRepo) filter(keep func(domain.Promotion) bool) []domain.Promotion {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []domain.Promotion
	for _, p := range r.items {
		if keep(p) {
			list = append(list, p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func matchField(p domain.Promotion, name string, val any) bool {
	switch name {
	case "id":
		return p.ID == val.(int64)
	case "title":
		return p.Title == val.(string)
	case "description":
		return p.Description == val.(string)
	case "promo_code":
		return p.PromoCode == val.(int64)
	case "promo_type":
		return p.PromoType == val.(domain.PromotionType)
	case "promo_value":
		return p.PromoValue.Equal(val.(decimal.Decimal))
	case "start_date":
		return p.StartDate.Equal(val.(domain.Date))
	case "created_date":
		return p.CreatedDate.Equal(val.(domain.Date))
	case "duration":
		return p.Duration == val.(domain.Duration)
	case "active":
		return p.Active == val.(bool)
	}
	return false
}
