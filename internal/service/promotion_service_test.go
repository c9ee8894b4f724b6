package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"promotions/internal/domain"
	"promotions/internal/repo"

	"github.com/shopspring/decimal"
)

// spyRepo records which lookup the service dispatched to.
type spyRepo struct {
	*repo.MemoryPromotionRepo
	lastCall string
}

func (s *spyRepo) FindAll(ctx context.Context) ([]domain.Promotion, error) {
	s.lastCall = "FindAll"
	return s.MemoryPromotionRepo.FindAll(ctx)
}

func (s *spyRepo) FindByTitle(ctx context.Context, title string) ([]domain.Promotion, error) {
	s.lastCall = "FindByTitle"
	return s.MemoryPromotionRepo.FindByTitle(ctx, title)
}

func (s *spyRepo) FindByPromoCode(ctx context.Context, code int64) ([]domain.Promotion, error) {
	s.lastCall = "FindByPromoCode"
	return s.MemoryPromotionRepo.FindByPromoCode(ctx, code)
}

func (s *spyRepo) FindByPromoType(ctx context.Context, t domain.PromotionType) ([]domain.Promotion, error) {
	s.lastCall = "FindByPromoType"
	return s.MemoryPromotionRepo.FindByPromoType(ctx, t)
}

func (s *spyRepo) FindByActive(ctx context.Context, active bool) ([]domain.Promotion, error) {
	s.lastCall = "FindByActive"
	return s.MemoryPromotionRepo.FindByActive(ctx, active)
}

func (s *spyRepo) FindByFields(ctx context.Context, fields map[string]string) ([]domain.Promotion, error) {
	s.lastCall = "FindByFields"
	return s.MemoryPromotionRepo.FindByFields(ctx, fields)
}

func newTestService(t *testing.T) (*PromotionService, *spyRepo) {
	t.Helper()
	spy := &spyRepo{MemoryPromotionRepo: repo.NewMemoryPromotionRepo()}
	return NewPromotionService(spy, nil), spy
}

func testPromotion(title string, code int64, active bool) domain.Promotion {
	return domain.Promotion{
		Title:       title,
		Description: "test",
		PromoCode:   code,
		PromoType:   domain.AmountDiscount,
		PromoValue:  decimal.RequireFromString("5.00"),
		StartDate:   domain.NewDate(2024, time.June, 15),
		CreatedDate: domain.NewDate(2024, time.June, 1),
		Duration:    domain.NewDuration(3, 0),
		Active:      active,
	}
}

func TestServiceCreateClearsStaleID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p := testPromotion("summer", 100, true)
	p.ID = 999
	created, err := svc.Create(ctx, p)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 999 {
		t.Error("caller-supplied id must not survive create")
	}
	if created.ID == 0 {
		t.Error("store did not assign an id")
	}
}

func TestServiceSetActive(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, _ := svc.Create(ctx, testPromotion("summer", 100, true))
	updated, err := svc.SetActive(ctx, created.ID, false)
	if err != nil {
		t.Fatalf("set active: %v", err)
	}
	if updated.Active {
		t.Error("Active still true")
	}
	if updated.Title != "summer" {
		t.Errorf("Title = %q; other fields must be untouched", updated.Title)
	}

	if _, err := svc.SetActive(ctx, 9999, true); !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("missing id: err = %v, want ErrNotFound", err)
	}
}

func TestServiceUpdateRequiresID(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Update(context.Background(), testPromotion("no id", 1, true)); !errors.Is(err, repo.ErrNoID) {
		t.Errorf("err = %v, want ErrNoID", err)
	}
}

func TestServiceQueryDispatch(t *testing.T) {
	tests := []struct {
		name     string
		params   map[string]string
		wantCall string
	}{
		{name: "no params lists all", params: map[string]string{}, wantCall: "FindAll"},
		{name: "title", params: map[string]string{"title": "summer"}, wantCall: "FindByTitle"},
		{name: "promo_code", params: map[string]string{"promo_code": "100"}, wantCall: "FindByPromoCode"},
		{name: "promo_type", params: map[string]string{"promo_type": "amount_discount"}, wantCall: "FindByPromoType"},
		{name: "active", params: map[string]string{"active": "true"}, wantCall: "FindByActive"},
		{name: "unrecognized single param lists all", params: map[string]string{"sort": "title"}, wantCall: "FindAll"},
		{
			name:     "multiple params use the general filter",
			params:   map[string]string{"title": "summer", "active": "true"},
			wantCall: "FindByFields",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, spy := newTestService(t)
			ctx := context.Background()
			svc.Create(ctx, testPromotion("summer", 100, true))
			spy.lastCall = ""

			if _, err := svc.Query(ctx, tt.params); err != nil {
				t.Fatalf("query: %v", err)
			}
			if spy.lastCall != tt.wantCall {
				t.Errorf("dispatched to %s, want %s", spy.lastCall, tt.wantCall)
			}
		})
	}
}

func TestServiceQueryResults(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	svc.Create(ctx, testPromotion("summer", 100, true))
	svc.Create(ctx, testPromotion("winter", 200, false))

	list, err := svc.Query(ctx, map[string]string{"promo_code": "200"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(list) != 1 || list[0].Title != "winter" {
		t.Errorf("results = %v", list)
	}

	list, err = svc.Query(ctx, nil)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("results = %d, want 2", len(list))
	}
}

func TestServiceQueryBadValues(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Query(ctx, map[string]string{"promo_code": "abc"}); !errors.Is(err, domain.ErrBadValue) {
		t.Errorf("bad code: err = %v, want ErrBadValue", err)
	}
	if _, err := svc.Query(ctx, map[string]string{"promo_type": "FREE_SHIPPING"}); !errors.Is(err, domain.ErrBadValue) {
		t.Errorf("bad type: err = %v, want ErrBadValue", err)
	}
	// A filter set touching an unknown attribute fails the whole call.
	_, err := svc.Query(ctx, map[string]string{"title": "summer", "discount": "10"})
	var invalid *domain.InvalidAttributeError
	if !errors.As(err, &invalid) {
		t.Errorf("unknown field: err = %v, want InvalidAttributeError", err)
	}
}

func TestServiceDeleteIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, _ := svc.Create(ctx, testPromotion("summer", 100, true))
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestServiceRemoveAll(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	svc.Create(ctx, testPromotion("a", 1, true))
	svc.Create(ctx, testPromotion("b", 2, true))

	count, err := svc.RemoveAll(ctx)
	if err != nil {
		t.Fatalf("remove all: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	list, _ := svc.List(ctx)
	if len(list) != 0 {
		t.Errorf("%d promotions left", len(list))
	}
}
