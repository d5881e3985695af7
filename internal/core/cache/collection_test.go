package cache

import (
	"testing"

	"github.com/lumenpaints/erp-backend/internal/core/domain"
)

func product(id, name string) domain.Product {
	return domain.Product{ID: id, Name: name}
}

func TestCollection_PrependOrder(t *testing.T) {
	c := NewCollection[domain.Product]()
	c.Prepend(product("p1", "Primer"))
	c.Prepend(product("p2", "Gloss"))
	c.Prepend(product("p3", "Matte"))

	snapshot := c.Snapshot()
	if len(snapshot) != 3 {
		t.Fatalf("len = %d", len(snapshot))
	}
	// Newest first.
	if snapshot[0].ID != "p3" || snapshot[1].ID != "p2" || snapshot[2].ID != "p1" {
		t.Fatalf("unexpected order: %v", snapshot)
	}
}

func TestCollection_SeedReplaces(t *testing.T) {
	c := NewCollection[domain.Product]()
	c.Prepend(product("old", "Old"))
	c.Seed([]domain.Product{product("a", "A"), product("b", "B")})

	if c.Len() != 2 {
		t.Fatalf("len = %d", c.Len())
	}
	if _, ok := c.GetByID("old"); ok {
		t.Fatalf("seed must replace prior contents")
	}
}

func TestCollection_ReplaceByID(t *testing.T) {
	c := NewCollection[domain.Product]()
	c.Seed([]domain.Product{product("a", "A"), product("b", "B")})

	if !c.ReplaceByID(product("b", "B2")) {
		t.Fatalf("replace reported no match")
	}
	got, _ := c.GetByID("b")
	if got.Name != "B2" {
		t.Fatalf("record not replaced: %+v", got)
	}
	if c.Len() != 2 {
		t.Fatalf("replace must not change length")
	}

	if c.ReplaceByID(product("ghost", "X")) {
		t.Fatalf("replacing an absent id must report false")
	}
}

func TestCollection_RemoveByID(t *testing.T) {
	c := NewCollection[domain.Product]()
	c.Seed([]domain.Product{product("a", "A"), product("b", "B")})

	if !c.RemoveByID("a") {
		t.Fatalf("remove reported no match")
	}
	if c.Len() != 1 {
		t.Fatalf("len = %d", c.Len())
	}
	if c.RemoveByID("a") {
		t.Fatalf("removing an absent id must report false")
	}
}

func TestCollection_SnapshotIsACopy(t *testing.T) {
	c := NewCollection[domain.Product]()
	c.Seed([]domain.Product{product("a", "A")})

	snapshot := c.Snapshot()
	snapshot[0].Name = "mutated"

	got, _ := c.GetByID("a")
	if got.Name != "A" {
		t.Fatalf("snapshot mutation leaked into the collection")
	}
}
