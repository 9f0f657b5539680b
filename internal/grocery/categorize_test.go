package grocery

import "testing"

func TestCategorizeExactMatch(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"leche", CategoryDairy},
		{"pollo", CategoryMeat},
		{"pan", CategoryBakery},
		{"arroz", CategoryPantry},
		{"helado", CategoryFrozen},
		{"cafe", CategoryBeverages},
		{"galletas", CategorySnacks},
		{"lejia", CategoryHousehold},
		{"pienso", CategoryPets},
		{"panales", CategoryBaby},
		{"manzana", CategoryProduce},
	}
	for _, tt := range tests {
		got := Categorize(tt.input)
		if got != tt.want {
			t.Errorf("Categorize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCategorizeSubstringMatch(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"pechuga de pollo", CategoryMeat},
		{"leche entera hacendado", CategoryDairy},
		{"pan de masa madre", CategoryBakery},
		{"tomate frito", CategoryPantry},
		{"agua con gas", CategoryBeverages},
		{"aguacates maduros", CategoryProduce},
		{"patatas fritas onduladas", CategorySnacks},
		{"panceta curada", CategoryMeat},
		{"pizza congelada", CategoryFrozen},
		{"toallitas bebe", CategoryBaby},
	}
	for _, tt := range tests {
		got := Categorize(tt.input)
		if got != tt.want {
			t.Errorf("Categorize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCategorizeAccentAndCaseInsensitive(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"LECHE", CategoryDairy},
		{"Plátanos", CategoryProduce},
		{"Jamón Serrano", CategoryMeat},
		{"CAFÉ MOLIDO", CategoryBeverages},
	}
	for _, tt := range tests {
		got := Categorize(tt.input)
		if got != tt.want {
			t.Errorf("Categorize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCategorizeEmptyString(t *testing.T) {
	got := Categorize("")
	if got != FallbackCategory {
		t.Errorf("Categorize(%q) = %q, want %q", "", got, FallbackCategory)
	}
}

func TestCategorizeWhitespace(t *testing.T) {
	got := Categorize("  leche  ")
	if got != CategoryDairy {
		t.Errorf("Categorize(%q) = %q, want %q", "  leche  ", got, CategoryDairy)
	}
}

func TestCategorizeUnknownItem(t *testing.T) {
	tests := []string{
		"widget",
		"xyz123",
		"cosa rara",
	}
	for _, input := range tests {
		got := Categorize(input)
		if got != FallbackCategory {
			t.Errorf("Categorize(%q) = %q, want %q", input, got, FallbackCategory)
		}
	}
}

func TestCategorizeAnswersKnownCategories(t *testing.T) {
	known := make(map[string]bool)
	for _, c := range DefaultCategories {
		known[c] = true
	}
	for k, v := range exactMatch {
		if !known[v] {
			t.Errorf("exactMatch[%q] = %q, not a default category", k, v)
		}
	}
	for _, e := range substringMatches {
		if !known[e.category] {
			t.Errorf("substring %q -> %q, not a default category", e.keyword, e.category)
		}
	}
}
