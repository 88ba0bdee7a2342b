package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samirrijal/evoteli/internal/adapters/memory"
	"github.com/samirrijal/evoteli/internal/core/domain"
)

func TestPreferences_Namespaced(t *testing.T) {
	ctx := context.Background()
	p := memory.NewPreferences()
	a := p.Namespace("a")
	b := p.Namespace("b")

	if _, err := a.Get(ctx, "k"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := a.Set(ctx, "k", "1"); err != nil {
		t.Fatal(err)
	}
	if v, err := a.Get(ctx, "k"); err != nil || v != "1" {
		t.Errorf("a = %q, %v", v, err)
	}
	if _, err := b.Get(ctx, "k"); !errors.Is(err, domain.ErrNotFound) {
		t.Error("namespaces leak into each other")
	}
	if v, _ := p.Namespace("a").Get(ctx, "k"); v != "1" {
		t.Error("reopened namespace lost its value")
	}
}
