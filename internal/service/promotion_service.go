package service

import (
	"context"
	"strings"

	"promotions/internal/cache"
	"promotions/internal/domain"
	"promotions/internal/repo"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// PromotionService orchestrates the repository and the list cache. Each
// request is independent; the only shared state lives in the store and the
// cache.
type PromotionService struct {
	repo  repo.PromotionRepo
	cache *cache.PromotionCache
	sf    singleflight.Group
}

// NewPromotionService creates a PromotionService. If c is nil, caching is
// disabled.
func NewPromotionService(r repo.PromotionRepo, c *cache.PromotionCache) *PromotionService {
	return &PromotionService{repo: r, cache: c}
}

// Create persists a new promotion. The store assigns the id.
func (s *PromotionService) Create(ctx context.Context, p domain.Promotion) (domain.Promotion, error) {
	log.Debug().Str("promotion", p.Label()).Msg("creating promotion")
	p.ID = 0
	out, err := s.repo.Create(ctx, p)
	if err != nil {
		return domain.Promotion{}, err
	}
	s.invalidate(ctx)
	return out, nil
}

// Get returns a single promotion or repo.ErrNotFound.
func (s *PromotionService) Get(ctx context.Context, id int64) (domain.Promotion, error) {
	return s.repo.Find(ctx, id)
}

// Update commits the already-mutated record.
func (s *PromotionService) Update(ctx context.Context, p domain.Promotion) (domain.Promotion, error) {
	log.Debug().Str("promotion", p.Label()).Msg("saving promotion")
	out, err := s.repo.Update(ctx, p)
	if err != nil {
		return domain.Promotion{}, err
	}
	s.invalidate(ctx)
	return out, nil
}

// SetActive flips only the active flag of an existing promotion.
func (s *PromotionService) SetActive(ctx context.Context, id int64, active bool) (domain.Promotion, error) {
	p, err := s.repo.Find(ctx, id)
	if err != nil {
		return domain.Promotion{}, err
	}
	p.Active = active
	out, err := s.repo.Update(ctx, p)
	if err != nil {
		return domain.Promotion{}, err
	}
	s.invalidate(ctx)
	return out, nil
}

// Delete removes a promotion. Absent ids are a no-op.
func (s *PromotionService) Delete(ctx context.Context, id int64) error {
	log.Debug().Int64("id", id).Msg("deleting promotion")
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// RemoveAll wipes the table and reports the count. Routing restricts it to
// test mode.
func (s *PromotionService) RemoveAll(ctx context.Context) (int64, error) {
	count, err := s.repo.RemoveAll(ctx)
	if err != nil {
		return 0, err
	}
	log.Info().Int64("removed", count).Msg("removed all promotions")
	s.invalidate(ctx)
	return count, nil
}

// List returns every promotion, through the cache when one is configured.
func (s *PromotionService) List(ctx context.Context) ([]domain.Promotion, error) {
	if s.cache == nil {
		return s.repo.FindAll(ctx)
	}
	v, err, _ := s.sf.Do(cacheKeyList, func() (interface{}, error) {
		if list, err := s.cache.GetList(ctx); err == nil && list != nil {
			return list, nil
		}
		list, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		_ = s.cache.SetList(ctx, list)
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Promotion), nil
}

const cacheKeyList = "list"

// recognized single-field query parameters, checked in this order.
var singleFieldParams = [...]string{"title", "promo_code", "promo_type", "active"}

// Query dispatches a list request by its query parameters: more than one
// parameter goes through the general multi-field filter (AND semantics);
// exactly one recognized parameter uses its dedicated lookup; anything else
// returns all promotions.
func (s *PromotionService) Query(ctx context.Context, params map[string]string) ([]domain.Promotion, error) {
	if len(params) > 1 {
		log.Debug().Interface("fields", params).Msg("find by fields")
		return s.repo.FindByFields(ctx, params)
	}

	if len(params) == 1 {
		for _, name := range singleFieldParams {
			raw, ok := params[name]
			if !ok {
				continue
			}
			log.Debug().Str("field", name).Str("value", raw).Msg("find by field")
			switch name {
			case "title":
				return s.repo.FindByTitle(ctx, raw)
			case "promo_code":
				val, err := domain.CoerceField(name, raw)
				if err != nil {
					return nil, err
				}
				return s.repo.FindByPromoCode(ctx, val.(int64))
			case "promo_type":
				val, err := domain.CoerceField(name, raw)
				if err != nil {
					return nil, err
				}
				return s.repo.FindByPromoType(ctx, val.(domain.PromotionType))
			case "active":
				return s.repo.FindByActive(ctx, strings.EqualFold(raw, "true"))
			}
		}
	}

	log.Debug().Msg("find all")
	return s.List(ctx)
}

func (s *PromotionService) invalidate(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx)
	}
}
