package model

type Unit string

const (
	UnitKilograms Unit = "kg"
	UnitLiters    Unit = "l"
	UnitUnits     Unit = "u"
)

// Valid reports whether u is one of the known units.
func (u Unit) Valid() bool {
	switch u {
	case UnitKilograms, UnitLiters, UnitUnits:
		return true
	}
	return false
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Store struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	// AisleOrder ranks category ids for walking the store. Categories not
	// listed sort after the ranked ones.
	AisleOrder []string `json:"aisle_order"`
}

// AisleRank returns the position of categoryID in the store's aisle order,
// or len(AisleOrder) when the category is not ranked.
func (s Store) AisleRank(categoryID string) int {
	for i, id := range s.AisleOrder {
		if id == categoryID {
			return i
		}
	}
	return len(s.AisleOrder)
}

type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	CategoryID  string   `json:"category_id"`
	Unit        Unit     `json:"unit"`
	Brand       string   `json:"brand,omitempty"`
	Size        string   `json:"size,omitempty"`
	Aliases     []string `json:"aliases"`
	HealthScore *int     `json:"health_score,omitempty"`
}

// Clone returns a copy that shares no slices or pointers with p.
func (p Product) Clone() Product {
	c := p
	c.Aliases = append([]string(nil), p.Aliases...)
	if p.HealthScore != nil {
		hs := *p.HealthScore
		c.HealthScore = &hs
	}
	return c
}

// Clone returns a copy that shares no slices with s.
func (s Store) Clone() Store {
	c := s
	c.AisleOrder = append([]string(nil), s.AisleOrder...)
	return c
}
