package grocery

import "strings"

// Default category names. The catalog seeds these; Categorize only ever
// answers with one of them.
const (
	CategoryProduce   = "Frutas y Verduras"
	CategoryMeat      = "Carne y Pescado"
	CategoryDairy     = "Lácteos y Huevos"
	CategoryBakery    = "Pan, Cereales y Pasta"
	CategoryPantry    = "Despensa / Enlatados"
	CategoryFrozen    = "Congelados"
	CategoryBeverages = "Bebidas"
	CategorySnacks    = "Snacks y Dulces"
	CategoryHousehold = "Higiene y Limpieza"
	CategoryPets      = "Mascotas"
	CategoryBaby      = "Bebé"
)

// DefaultCategories lists the seeded categories in display order.
var DefaultCategories = []string{
	CategoryProduce,
	CategoryMeat,
	CategoryDairy,
	CategoryBakery,
	CategoryPantry,
	CategoryFrozen,
	CategoryBeverages,
	CategorySnacks,
	CategoryHousehold,
	CategoryPets,
	CategoryBaby,
}

// FallbackCategory is used when nothing better is known about a product.
const FallbackCategory = CategoryPantry

// Categorize returns the default category name for the given product name.
// Matching is case and accent insensitive: exact match first, then
// substring match. Falls back to FallbackCategory if no match is found.
func Categorize(productName string) string {
	name := Normalize(productName)
	if name == "" {
		return FallbackCategory
	}

	// Phase 1: exact match
	if cat, ok := exactMatch[name]; ok {
		return cat
	}

	// Phase 2: substring match (ordered longer/more-specific first)
	for _, entry := range substringMatches {
		if strings.Contains(name, entry.keyword) {
			return entry.category
		}
	}

	return FallbackCategory
}

var exactMatch = map[string]string{
	// Frutas y Verduras
	"manzana":   CategoryProduce,
	"manzanas":  CategoryProduce,
	"platano":   CategoryProduce,
	"platanos":  CategoryProduce,
	"naranja":   CategoryProduce,
	"naranjas":  CategoryProduce,
	"limon":     CategoryProduce,
	"limones":   CategoryProduce,
	"tomate":    CategoryProduce,
	"tomates":   CategoryProduce,
	"patata":    CategoryProduce,
	"patatas":   CategoryProduce,
	"cebolla":   CategoryProduce,
	"cebollas":  CategoryProduce,
	"ajo":       CategoryProduce,
	"ajos":      CategoryProduce,
	"lechuga":   CategoryProduce,
	"zanahoria": CategoryProduce,
	"pimiento":  CategoryProduce,
	"pepino":    CategoryProduce,
	"fresas":    CategoryProduce,
	"uvas":      CategoryProduce,
	"pera":      CategoryProduce,
	"peras":     CategoryProduce,
	"aguacate":  CategoryProduce,
	"calabacin": CategoryProduce,
	"espinacas": CategoryProduce,
	"brocoli":   CategoryProduce,

	// Carne y Pescado
	"pollo":    CategoryMeat,
	"ternera":  CategoryMeat,
	"cerdo":    CategoryMeat,
	"jamon":    CategoryMeat,
	"chorizo":  CategoryMeat,
	"salmon":   CategoryMeat,
	"merluza":  CategoryMeat,
	"atun":     CategoryMeat,
	"gambas":   CategoryMeat,
	"pavo":     CategoryMeat,
	"cordero":  CategoryMeat,
	"bacalao":  CategoryMeat,
	"sardinas": CategoryMeat,

	// Lácteos y Huevos
	"leche":       CategoryDairy,
	"huevos":      CategoryDairy,
	"mantequilla": CategoryDairy,
	"queso":       CategoryDairy,
	"yogur":       CategoryDairy,
	"yogures":     CategoryDairy,
	"nata":        CategoryDairy,
	"kefir":       CategoryDairy,

	// Pan, Cereales y Pasta
	"pan":        CategoryBakery,
	"baguette":   CategoryBakery,
	"cereales":   CategoryBakery,
	"avena":      CategoryBakery,
	"macarrones": CategoryBakery,
	"espaguetis": CategoryBakery,
	"pasta":      CategoryBakery,
	"tostadas":   CategoryBakery,

	// Despensa / Enlatados
	"arroz":        CategoryPantry,
	"harina":       CategoryPantry,
	"azucar":       CategoryPantry,
	"sal":          CategoryPantry,
	"aceite":       CategoryPantry,
	"vinagre":      CategoryPantry,
	"lentejas":     CategoryPantry,
	"garbanzos":    CategoryPantry,
	"legumbres":    CategoryPantry,
	"miel":         CategoryPantry,
	"mermelada":    CategoryPantry,
	"mayonesa":     CategoryPantry,
	"ketchup":      CategoryPantry,
	"especias":     CategoryPantry,
	"caldo":        CategoryPantry,
	"conservas":    CategoryPantry,
	"frutos secos": CategoryPantry,

	// Congelados
	"helado":      CategoryFrozen,
	"helados":     CategoryFrozen,
	"hielo":       CategoryFrozen,
	"pizza":       CategoryFrozen,
	"croquetas":   CategoryFrozen,
	"guisantes":   CategoryFrozen,
	"san jacobos": CategoryFrozen,

	// Bebidas
	"agua":     CategoryBeverages,
	"zumo":     CategoryBeverages,
	"cafe":     CategoryBeverages,
	"te":       CategoryBeverages,
	"refresco": CategoryBeverages,
	"cerveza":  CategoryBeverages,
	"vino":     CategoryBeverages,
	"cava":     CategoryBeverages,

	// Snacks y Dulces
	"patatas fritas": CategorySnacks,
	"galletas":       CategorySnacks,
	"chocolate":      CategorySnacks,
	"palomitas":      CategorySnacks,
	"caramelos":      CategorySnacks,
	"gominolas":      CategorySnacks,
	"bollos":         CategorySnacks,

	// Higiene y Limpieza
	"papel higienico":  CategoryHousehold,
	"lejia":            CategoryHousehold,
	"detergente":       CategoryHousehold,
	"suavizante":       CategoryHousehold,
	"lavavajillas":     CategoryHousehold,
	"estropajo":        CategoryHousehold,
	"champu":           CategoryHousehold,
	"gel":              CategoryHousehold,
	"desodorante":      CategoryHousehold,
	"pasta de dientes": CategoryHousehold,
	"servilletas":      CategoryHousehold,
	"bolsas de basura": CategoryHousehold,

	// Mascotas
	"pienso":       CategoryPets,
	"arena gato":   CategoryPets,
	"comida perro": CategoryPets,
	"comida gato":  CategoryPets,

	// Bebé
	"panales":   CategoryBaby,
	"toallitas": CategoryBaby,
	"potitos":   CategoryBaby,
	"papilla":   CategoryBaby,
}

type substringEntry struct {
	keyword  string
	category string
}

// Ordered with longer/more-specific keywords first for deterministic priority.
var substringMatches = []substringEntry{
	// Multi-word and compound entries that would otherwise lose to a
	// shorter keyword below.
	{"patatas fritas", CategorySnacks},
	{"pasta de dientes", CategoryHousehold},
	{"papel higienico", CategoryHousehold},
	{"bolsas de basura", CategoryHousehold},
	{"comida para perro", CategoryPets},
	{"comida para gato", CategoryPets},
	{"arena para gato", CategoryPets},
	{"tomate frito", CategoryPantry},
	{"aceite de oliva", CategoryPantry},
	{"agua con gas", CategoryBeverages},
	{"leche de avena", CategoryBeverages},
	{"pan de molde", CategoryBakery},
	{"masa madre", CategoryBakery},
	{"pechuga", CategoryMeat},
	{"congelad", CategoryFrozen},
	{"helado", CategoryFrozen},

	{"aguacate", CategoryProduce},
	{"panceta", CategoryMeat},

	// Single keywords
	{"panal", CategoryBaby},
	{"toallita", CategoryBaby},
	{"potito", CategoryBaby},
	{"pienso", CategoryPets},
	{"detergente", CategoryHousehold},
	{"lejia", CategoryHousehold},
	{"suavizante", CategoryHousehold},
	{"champu", CategoryHousehold},
	{"galleta", CategorySnacks},
	{"chocolate", CategorySnacks},
	{"cerveza", CategoryBeverages},
	{"refresco", CategoryBeverages},
	{"zumo", CategoryBeverages},
	{"vino", CategoryBeverages},
	{"cafe", CategoryBeverages},
	{"agua", CategoryBeverages},
	{"pollo", CategoryMeat},
	{"ternera", CategoryMeat},
	{"cerdo", CategoryMeat},
	{"jamon", CategoryMeat},
	{"salmon", CategoryMeat},
	{"merluza", CategoryMeat},
	{"atun", CategoryMeat},
	{"leche", CategoryDairy},
	{"huevo", CategoryDairy},
	{"queso", CategoryDairy},
	{"yogur", CategoryDairy},
	{"mantequilla", CategoryDairy},
	{"cereal", CategoryBakery},
	{"macarron", CategoryBakery},
	{"espagueti", CategoryBakery},
	{"pan", CategoryBakery},
	{"arroz", CategoryPantry},
	{"aceite", CategoryPantry},
	{"lenteja", CategoryPantry},
	{"garbanzo", CategoryPantry},
	{"conserva", CategoryPantry},
	{"platano", CategoryProduce},
	{"manzana", CategoryProduce},
	{"naranja", CategoryProduce},
	{"tomate", CategoryProduce},
	{"patata", CategoryProduce},
	{"cebolla", CategoryProduce},
	{"lechuga", CategoryProduce},
	{"fruta", CategoryProduce},
	{"verdura", CategoryProduce},
}
