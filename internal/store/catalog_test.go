package store

import (
	"strings"
	"testing"

	"github.com/dukerupert/cesta/internal/model"
)

func TestNewID(t *testing.T) {
	a, b := NewID("prod"), NewID("prod")
	if !strings.HasPrefix(a, "prod_") {
		t.Errorf("id = %q, want prod_ prefix", a)
	}
	if a == b {
		t.Error("expected distinct ids")
	}
}

func TestCategoryCreateAndLookup(t *testing.T) {
	cs := NewCatalogStore()

	dairy := cs.CreateCategory("Lácteos y Huevos")
	cs.CreateCategory("Panadería")

	got, ok := cs.GetCategory(dairy.ID)
	if !ok || got.Name != "Lácteos y Huevos" {
		t.Fatalf("GetCategory = %+v, %v", got, ok)
	}

	byName, ok := cs.CategoryByName("lacteos y huevos")
	if !ok || byName.ID != dairy.ID {
		t.Errorf("CategoryByName = %+v, %v", byName, ok)
	}
	if _, ok := cs.CategoryByName(""); ok {
		t.Error("empty name should not resolve")
	}

	if r := cs.CategoryRank(dairy.ID); r != 0 {
		t.Errorf("rank = %d, want 0", r)
	}
	if r := cs.CategoryRank("cat_missing"); r != 2 {
		t.Errorf("rank of unknown = %d, want 2", r)
	}
}

func TestStoreCreateUpdateIsolation(t *testing.T) {
	cs := NewCatalogStore()

	aisles := []string{"cat_a", "cat_b"}
	st := cs.CreateStore(model.Store{Name: "Mercadona", Color: "#00A650", AisleOrder: aisles})
	aisles[0] = "mutated"

	got, ok := cs.GetStore(st.ID)
	if !ok {
		t.Fatal("store not found")
	}
	if got.AisleOrder[0] != "cat_a" {
		t.Errorf("aisle order aliased caller slice: %v", got.AisleOrder)
	}

	got.Name = "Lidl"
	if !cs.UpdateStore(got) {
		t.Fatal("update failed")
	}
	again, _ := cs.GetStore(st.ID)
	if again.Name != "Lidl" {
		t.Errorf("name = %q, want Lidl", again.Name)
	}

	if cs.UpdateStore(model.Store{ID: "store_missing"}) {
		t.Error("update of unknown store should report false")
	}
}

func TestProductCRUD(t *testing.T) {
	cs := NewCatalogStore()

	p := cs.CreateProduct(model.Product{Name: "Leche Entera", CategoryID: "cat_dairy", Unit: model.UnitLiters})
	if p.ID == "" {
		t.Fatal("expected id")
	}
	if p.Aliases == nil {
		t.Error("aliases should default to empty slice")
	}

	p.Brand = "Hacendado"
	if !cs.UpdateProduct(p) {
		t.Fatal("update failed")
	}
	got, _ := cs.GetProduct(p.ID)
	if got.Brand != "Hacendado" {
		t.Errorf("brand = %q", got.Brand)
	}

	if !cs.DeleteProduct(p.ID) {
		t.Fatal("delete failed")
	}
	if _, ok := cs.GetProduct(p.ID); ok {
		t.Error("product still present after delete")
	}
	if cs.DeleteProduct(p.ID) {
		t.Error("second delete should report false")
	}
}

func TestAddAliasesUnion(t *testing.T) {
	cs := NewCatalogStore()
	p := cs.CreateProduct(model.Product{Name: "Leche", Aliases: []string{"LECHE ENT"}})

	got, ok := cs.AddAliases(p.ID, "leche ent", "LECHE HCD", "", "LECHE HCD")
	if !ok {
		t.Fatal("add aliases failed")
	}
	want := []string{"LECHE ENT", "LECHE HCD"}
	if len(got.Aliases) != len(want) {
		t.Fatalf("aliases = %v, want %v", got.Aliases, want)
	}
	for i := range want {
		if got.Aliases[i] != want[i] {
			t.Errorf("aliases[%d] = %q, want %q", i, got.Aliases[i], want[i])
		}
	}

	if _, ok := cs.AddAliases("prod_missing", "x"); ok {
		t.Error("expected false for unknown product")
	}
}

func TestListProductsReturnsCopies(t *testing.T) {
	cs := NewCatalogStore()
	cs.CreateProduct(model.Product{Name: "Pan", Aliases: []string{"BARRA"}})

	list := cs.ListProducts()
	list[0].Aliases[0] = "mutated"

	again := cs.ListProducts()
	if again[0].Aliases[0] != "BARRA" {
		t.Errorf("store state mutated through returned slice: %v", again[0].Aliases)
	}
}
