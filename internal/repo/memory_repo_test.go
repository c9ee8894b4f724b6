package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"promotions/internal/domain"

	"github.com/shopspring/decimal"
)

func seedPromotion(title string, code int64, pt domain.PromotionType, active bool) domain.Promotion {
	return domain.Promotion{
		Title:       title,
		Description: "seed",
		PromoCode:   code,
		PromoType:   pt,
		PromoValue:  decimal.RequireFromString("10.00"),
		StartDate:   domain.NewDate(2024, time.June, 15),
		CreatedDate: domain.NewDate(2024, time.June, 1),
		Duration:    domain.NewDuration(5, 0),
		Active:      active,
	}
}

func TestMemoryRepoCreateAssignsIDs(t *testing.T) {
	r := NewMemoryPromotionRepo()
	ctx := context.Background()

	a, err := r.Create(ctx, seedPromotion("a", 1, domain.AmountDiscount, true))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	b, err := r.Create(ctx, seedPromotion("b", 2, domain.AmountDiscount, true))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.ID == 0 || b.ID == 0 || a.ID == b.ID {
		t.Errorf("ids not assigned uniquely: %d, %d", a.ID, b.ID)
	}

	got, err := r.Find(ctx, a.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Title != "a" {
		t.Errorf("found %q, want a", got.Title)
	}
}

func TestMemoryRepoFindNotFound(t *testing.T) {
	r := NewMemoryPromotionRepo()
	if _, err := r.Find(context.Background(), 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryRepoUpdate(t *testing.T) {
	r := NewMemoryPromotionRepo()
	ctx := context.Background()

	created, _ := r.Create(ctx, seedPromotion("a", 1, domain.AmountDiscount, false))
	created.Title = "renamed"
	updated, err := r.Update(ctx, created)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "renamed" {
		t.Errorf("Title = %q", updated.Title)
	}

	if _, err := r.Update(ctx, seedPromotion("no id", 1, domain.AmountDiscount, false)); !errors.Is(err, ErrNoID) {
		t.Errorf("update without id: err = %v, want ErrNoID", err)
	}

	missing := created
	missing.ID = 404
	if _, err := r.Update(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("update missing: err = %v, want ErrNotFound", err)
	}
}

func TestMemoryRepoDeleteIsIdempotent(t *testing.T) {
	r := NewMemoryPromotionRepo()
	ctx := context.Background()

	created, _ := r.Create(ctx, seedPromotion("a", 1, domain.AmountDiscount, true))
	if err := r.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// Deleting again, or deleting an id that never existed, still succeeds.
	if err := r.Delete(ctx, created.ID); err != nil {
		t.Errorf("second delete: %v", err)
	}
	if err := r.Delete(ctx, 9999); err != nil {
		t.Errorf("delete unknown id: %v", err)
	}
	if _, err := r.Find(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("find after delete: err = %v, want ErrNotFound", err)
	}
}

func TestMemoryRepoSingleFieldFinders(t *testing.T) {
	r := NewMemoryPromotionRepo()
	ctx := context.Background()
	r.Create(ctx, seedPromotion("summer", 100, domain.AmountDiscount, true))
	r.Create(ctx, seedPromotion("winter", 200, domain.PercentageDiscount, false))
	r.Create(ctx, seedPromotion("summer", 300, domain.BuyOneGetOne, true))

	byTitle, _ := r.FindByTitle(ctx, "summer")
	if len(byTitle) != 2 {
		t.Errorf("FindByTitle = %d results, want 2", len(byTitle))
	}
	byCode, _ := r.FindByPromoCode(ctx, 200)
	if len(byCode) != 1 || byCode[0].Title != "winter" {
		t.Errorf("FindByPromoCode = %v", byCode)
	}
	byType, _ := r.FindByPromoType(ctx, domain.BuyOneGetOne)
	if len(byType) != 1 || byType[0].PromoCode != 300 {
		t.Errorf("FindByPromoType = %v", byType)
	}
	byActive, _ := r.FindByActive(ctx, false)
	if len(byActive) != 1 || byActive[0].Title != "winter" {
		t.Errorf("FindByActive = %v", byActive)
	}

	all, _ := r.FindAll(ctx)
	if len(all) != 3 {
		t.Fatalf("FindAll = %d results, want 3", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].ID > all[i].ID {
			t.Errorf("results not ordered by id: %v", all)
		}
	}
}

func TestMemoryRepoFindByFields(t *testing.T) {
	r := NewMemoryPromotionRepo()
	ctx := context.Background()
	r.Create(ctx, seedPromotion("summer", 100, domain.AmountDiscount, true))
	r.Create(ctx, seedPromotion("summer", 200, domain.AmountDiscount, false))
	r.Create(ctx, seedPromotion("winter", 300, domain.PercentageDiscount, true))

	// AND semantics across fields.
	list, err := r.FindByFields(ctx, map[string]string{
		"title":  "summer",
		"active": "true",
	})
	if err != nil {
		t.Fatalf("find by fields: %v", err)
	}
	if len(list) != 1 || list[0].PromoCode != 100 {
		t.Errorf("results = %v, want the single active summer promotion", list)
	}

	// Typed comparisons, not string comparisons.
	list, err = r.FindByFields(ctx, map[string]string{
		"promo_value": "10.0",
		"duration":    "5 days, 00:00:00",
	})
	if err != nil {
		t.Fatalf("find by fields: %v", err)
	}
	if len(list) != 3 {
		t.Errorf("results = %d, want 3", len(list))
	}
}

func TestMemoryRepoFindByFieldsRejectsBadInput(t *testing.T) {
	r := NewMemoryPromotionRepo()
	ctx := context.Background()
	r.Create(ctx, seedPromotion("summer", 100, domain.AmountDiscount, true))

	_, err := r.FindByFields(ctx, map[string]string{"title": "summer", "discount": "10"})
	var invalid *domain.InvalidAttributeError
	if !errors.As(err, &invalid) {
		t.Errorf("unknown field: err = %v, want InvalidAttributeError", err)
	}

	_, err = r.FindByFields(ctx, map[string]string{"start_date": "June 15"})
	if !errors.Is(err, domain.ErrBadValue) {
		t.Errorf("bad date: err = %v, want ErrBadValue", err)
	}

	_, err = r.FindByFields(ctx, map[string]string{"promo_code": "abc"})
	if !errors.Is(err, domain.ErrBadValue) {
		t.Errorf("bad code: err = %v, want ErrBadValue", err)
	}
}

func TestMemoryRepoRemoveAll(t *testing.T) {
	r := NewMemoryPromotionRepo()
	ctx := context.Background()
	r.Create(ctx, seedPromotion("a", 1, domain.AmountDiscount, true))
	r.Create(ctx, seedPromotion("b", 2, domain.AmountDiscount, true))

	count, err := r.RemoveAll(ctx)
	if err != nil {
		t.Fatalf("remove all: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	all, _ := r.FindAll(ctx)
	if len(all) != 0 {
		t.Errorf("%d promotions left after remove all", len(all))
	}
}
