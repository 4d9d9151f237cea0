package products

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

func pricePtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestMemStore_ListSeeded(t *testing.T) {
	s := NewStore()

	got, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len=%d want=3", len(got))
	}
	for i, want := range SeedProducts() {
		if got[i] != want {
			t.Fatalf("product[%d]=%+v want=%+v", i, got[i], want)
		}
	}
}

func TestMemStore_ListReturnsCopy(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	got, _ := s.List(ctx)
	got[0].Name = "changed"

	p, err := s.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Name != "Ноутбук" {
		t.Fatalf("store aliased by List result: name=%q", p.Name)
	}
}

func TestMemStore_GetIdempotent(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	first, err := s.Get(ctx, 2)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := s.Get(ctx, 2)
		if err != nil {
			t.Fatalf("Get #%d: %v", i, err)
		}
		if again != first {
			t.Fatalf("Get #%d=%+v want=%+v", i, again, first)
		}
	}
}

func TestMemStore_GetMissing(t *testing.T) {
	s := NewStore()

	if _, err := s.Get(context.Background(), 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v want=ErrNotFound", err)
	}
}

func TestMemStore_CreateAssignsFreshID(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	before, _ := s.List(ctx)
	seen := make(map[int64]bool, len(before))
	for _, p := range before {
		seen[p.ID] = true
	}

	p, err := s.Create(ctx, CreateInput{Name: strPtr("Мышь"), Price: pricePtr(1500)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if seen[p.ID] {
		t.Fatalf("id %d reused", p.ID)
	}
	if p.Name != "Мышь" || p.Price != 1500 {
		t.Fatalf("created=%+v", p)
	}

	after, _ := s.List(ctx)
	if len(after) != len(before)+1 {
		t.Fatalf("len=%d want=%d", len(after), len(before)+1)
	}
	if after[len(after)-1] != p {
		t.Fatalf("created product not appended last: %+v", after[len(after)-1])
	}
}

func TestMemStore_CreateNeverReusesDeletedID(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	p, err := s.Create(ctx, CreateInput{Name: strPtr("a"), Price: pricePtr(1)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	q, err := s.Create(ctx, CreateInput{Name: strPtr("b"), Price: pricePtr(2)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if q.ID <= p.ID {
		t.Fatalf("id=%d not above deleted id %d", q.ID, p.ID)
	}
}

func TestMemStore_CreateInvalid(t *testing.T) {
	tests := []struct {
		name string
		in   CreateInput
	}{
		{name: "empty", in: CreateInput{}},
		{name: "no price", in: CreateInput{Name: strPtr("Мышь")}},
		{name: "no name", in: CreateInput{Price: pricePtr(100)}},
		{name: "blank name", in: CreateInput{Name: strPtr("  "), Price: pricePtr(100)}},
		{name: "zero price", in: CreateInput{Name: strPtr("Мышь"), Price: pricePtr(0)}},
		{name: "negative price", in: CreateInput{Name: strPtr("Мышь"), Price: pricePtr(-5)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			ctx := context.Background()

			if _, err := s.Create(ctx, tt.in); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("err=%v want=ErrInvalidInput", err)
			}
			got, _ := s.List(ctx)
			if len(got) != 3 {
				t.Fatalf("len=%d want=3", len(got))
			}
		})
	}
}

func TestMemStore_UpdatePartial(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	p, err := s.Update(ctx, 1, UpdateInput{Price: pricePtr(80000)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	want := Product{ID: 1, Name: "Ноутбук", Price: 80000}
	if p != want {
		t.Fatalf("updated=%+v want=%+v", p, want)
	}

	p, err = s.Update(ctx, 1, UpdateInput{Name: strPtr("Ультрабук")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	want.Name = "Ультрабук"
	if p != want {
		t.Fatalf("updated=%+v want=%+v", p, want)
	}

	stored, _ := s.Get(ctx, 1)
	if stored != want {
		t.Fatalf("stored=%+v want=%+v", stored, want)
	}
}

func TestMemStore_UpdateNothingSupplied(t *testing.T) {
	s := NewStore()

	p, err := s.Update(context.Background(), 3, UpdateInput{})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if p != SeedProducts()[2] {
		t.Fatalf("updated=%+v", p)
	}
}

func TestMemStore_PriceMustSurviveFloatConversion(t *testing.T) {
	tests := []struct {
		name  string
		price string
	}{
		{name: "inf", price: "1e400"},
		{name: "negative inf", price: "-1e400"},
		{name: "rounds to zero", price: "1e-400"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			ctx := context.Background()
			price := decimal.RequireFromString(tt.price)

			if _, err := s.Create(ctx, CreateInput{Name: strPtr("x"), Price: &price}); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("create err=%v want=ErrInvalidInput", err)
			}
			if _, err := s.Update(ctx, 2, UpdateInput{Price: &price}); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("update err=%v want=ErrInvalidInput", err)
			}

			got, _ := s.List(ctx)
			if len(got) != 3 || got[1] != SeedProducts()[1] {
				t.Fatalf("store changed: %+v", got)
			}
		})
	}
}

func TestMemStore_UpdateErrors(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if _, err := s.Update(ctx, 999, UpdateInput{Name: strPtr("x")}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing: err=%v", err)
	}
	if _, err := s.Update(ctx, 999, UpdateInput{Name: strPtr("")}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing wins over invalid: err=%v", err)
	}
	if _, err := s.Update(ctx, 1, UpdateInput{Name: strPtr("")}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank name: err=%v", err)
	}
	if _, err := s.Update(ctx, 1, UpdateInput{Name: strPtr("ok"), Price: pricePtr(0)}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("zero price: err=%v", err)
	}

	p, _ := s.Get(ctx, 1)
	if p != SeedProducts()[0] {
		t.Fatalf("rejected update mutated record: %+v", p)
	}
}

func TestMemStore_DeleteTwice(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if err := s.Delete(ctx, 2); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := s.Delete(ctx, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: err=%v", err)
	}

	got, _ := s.List(ctx)
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("after delete=%+v", got)
	}
}

func TestNewMemStore_SkipsDuplicateSeed(t *testing.T) {
	s := NewMemStore(
		Product{ID: 7, Name: "a", Price: 1},
		Product{ID: 7, Name: "b", Price: 2},
	)
	ctx := context.Background()

	got, _ := s.List(ctx)
	if len(got) != 1 || got[0].Name != "a" {
		t.Fatalf("list=%+v", got)
	}

	p, err := s.Create(ctx, CreateInput{Name: strPtr("c"), Price: pricePtr(3)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID != 8 {
		t.Fatalf("id=%d want=8", p.ID)
	}
}

func TestMemStore_ConcurrentCreatesUnique(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	const n = 100
	ids := make(chan int64, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := s.Create(ctx, CreateInput{Name: strPtr("x"), Price: pricePtr(1)})
			if err != nil {
				t.Errorf("Create: %v", err)
				return
			}
			ids <- p.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool, n)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}

	got, _ := s.List(ctx)
	if len(got) != 3+n {
		t.Fatalf("len=%d want=%d", len(got), 3+n)
	}
}
