package shopping

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/cesta/internal/grocery"
	"github.com/dukerupert/cesta/internal/model"
)

// DefaultListName is the name of the list every new user starts with.
const DefaultListName = "Compra Semanal"

type demoStore struct {
	name   string
	color  string
	aisles []string
}

var demoStores = []demoStore{
	{"Mercadona", "green", []string{
		grocery.CategoryProduce, grocery.CategoryBakery, grocery.CategoryMeat, grocery.CategoryDairy,
		grocery.CategoryPantry, grocery.CategorySnacks, grocery.CategoryBeverages, grocery.CategoryFrozen,
		grocery.CategoryHousehold, grocery.CategoryBaby,
	}},
	{"Lidl", "yellow", []string{
		grocery.CategoryBakery, grocery.CategoryProduce, grocery.CategoryMeat, grocery.CategoryDairy,
		grocery.CategoryFrozen, grocery.CategoryBeverages,
	}},
	{"Frutería Local", "green", []string{grocery.CategoryProduce}},
	{"Carrefour", "blue", []string{
		grocery.CategoryProduce, grocery.CategoryBakery, grocery.CategoryMeat, grocery.CategoryDairy,
		grocery.CategoryPantry, grocery.CategoryBeverages, grocery.CategoryFrozen, grocery.CategoryHousehold,
	}},
	{"Dia", "red", []string{
		grocery.CategoryProduce, grocery.CategoryBakery, grocery.CategoryDairy, grocery.CategoryMeat,
		grocery.CategoryBeverages,
	}},
}

type demoPrice struct {
	store   string
	price   string
	date    string
	quality model.Quality
	notes   string
}

type demoProduct struct {
	name     string
	brand    string
	category string
	unit     model.Unit
	aliases  []string
	health   int
	prices   []demoPrice
}

var demoProducts = []demoProduct{
	{"Leche Entera", "Hacendado", grocery.CategoryDairy, model.UnitLiters, []string{"LECHE HACENDADO", "LLET SENCERA"}, 4, []demoPrice{
		{"Mercadona", "0.90", "2023-10-26", model.QualityNormal, "Marca Hacendado"},
		{"Lidl", "0.92", "2023-10-25", model.QualityNormal, ""},
	}},
	{"Plátanos", "Canarias", grocery.CategoryProduce, model.UnitKilograms, []string{"PLATANO CANARIAS"}, 5, []demoPrice{
		{"Frutería Local", "1.99", "2023-10-25", model.QualityGood, ""},
		{"Mercadona", "2.15", "2023-10-26", model.QualityNormal, ""},
	}},
	{"Pechuga de Pollo", "", grocery.CategoryMeat, model.UnitKilograms, nil, 5, []demoPrice{
		{"Mercadona", "6.50", "2023-10-26", model.QualityGood, "En bandeja"},
	}},
	{"Pan de Masa Madre", "", grocery.CategoryBakery, model.UnitUnits, nil, 4, []demoPrice{
		{"Lidl", "2.50", "2023-10-26", model.QualityGood, ""},
	}},
	{"Huevos Camperos", "Pazo de Vilane", grocery.CategoryDairy, model.UnitUnits, nil, 5, []demoPrice{
		{"Mercadona", "2.10", "2023-10-24", model.QualityNormal, ""},
	}},
	{"Tomates", "", grocery.CategoryProduce, model.UnitKilograms, nil, 5, []demoPrice{
		{"Frutería Local", "2.49", "2023-10-25", model.QualityGood, ""},
	}},
	{"Aceite de Oliva", "Carbonell", grocery.CategoryPantry, model.UnitLiters, nil, 4, []demoPrice{
		{"Lidl", "8.75", "2023-10-22", model.QualityNormal, "Oferta"},
		{"Mercadona", "9.10", "2023-10-26", model.QualityNormal, ""},
	}},
	{"Agua con Gas", "Font Vella", grocery.CategoryBeverages, model.UnitLiters, nil, 5, []demoPrice{
		{"Mercadona", "0.60", "2023-10-26", model.QualityNormal, ""},
	}},
}

// SeedDemo fills an empty catalog with sample stores, products and prices.
// It does nothing when any store already exists.
func (s *Service) SeedDemo() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.catalog.ListStores()) > 0 {
		return nil
	}

	categoryID := func(name string) string {
		c, _ := s.catalog.CategoryByName(name)
		return c.ID
	}

	storeIDs := make(map[string]string, len(demoStores))
	for _, ds := range demoStores {
		aisles := make([]string, len(ds.aisles))
		for i, name := range ds.aisles {
			aisles[i] = categoryID(name)
		}
		st := s.catalog.CreateStore(model.Store{Name: ds.name, Color: ds.color, AisleOrder: aisles})
		storeIDs[ds.name] = st.ID
	}

	for _, dp := range demoProducts {
		health := dp.health
		p := s.catalog.CreateProduct(model.Product{
			Name:        dp.name,
			CategoryID:  categoryID(dp.category),
			Unit:        dp.unit,
			Brand:       dp.brand,
			Aliases:     dp.aliases,
			HealthScore: &health,
		})
		for _, price := range dp.prices {
			date, err := time.Parse(time.DateOnly, price.date)
			if err != nil {
				return fmt.Errorf("parse demo price date: %w", err)
			}
			s.prices.Add(model.PriceRecord{
				ProductID: p.ID,
				StoreID:   storeIDs[price.store],
				Price:     decimal.RequireFromString(price.price),
				Date:      date,
				Quality:   price.quality,
				Notes:     price.notes,
			})
		}
	}

	s.logger.Info("demo catalog seeded", "stores", len(demoStores), "products", len(demoProducts))
	return nil
}
