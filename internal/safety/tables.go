package safety

// TablesVersion identifies the revision of the static safety data below.
// Bump it whenever a table changes so audit rows can be traced back to
// the data they were produced with.
const TablesVersion = "2025.08.1"

// allergyExpansions maps a canonical allergy label to every ingredient
// and dish term it implies. All terms are stored pre-normalized (see
// Normalize); a hygiene test enforces this.
//
// Dish names whose danger depends on preparation (paella, gumbo, ...)
// belong in ambiguousDishes instead, so they warn rather than hard-block.
var allergyExpansions = map[string][]string{
	"peanuts": {
		"peanut", "peanuts", "peanut butter", "peanut oil", "peanut sauce",
		"peanut flour", "peanut brittle", "groundnut", "groundnuts",
		"arachis", "satay", "pad thai", "kung pao", "kung pao chicken",
		"beer nuts", "mixed nuts", "goober peas",
	},
	"tree nuts": {
		"almond", "almonds", "almond milk", "almond butter", "almond flour",
		"almond extract", "cashew", "cashews", "cashew butter", "walnut",
		"walnuts", "pecan", "pecans", "pistachio", "pistachios", "hazelnut",
		"hazelnuts", "macadamia", "macadamias", "brazil nut", "brazil nuts",
		"pine nut", "pine nuts", "chestnut", "chestnuts", "praline",
		"pralines", "marzipan", "nougat", "nutella", "frangipane",
		"baklava", "gianduja", "nut butter", "mixed nuts", "amaretto",
	},
	"shellfish": {
		"shellfish", "shrimp", "shrimps", "prawn", "prawns", "crab",
		"crabs", "crabmeat", "crab meat", "crab cake", "crab cakes",
		"lobster", "lobsters", "crawfish", "crayfish", "langoustine",
		"langoustines", "scampi", "clam", "clams", "clam chowder",
		"mussel", "mussels", "oyster", "oysters", "oyster sauce",
		"scallop", "scallops", "squid", "calamari", "octopus", "snail",
		"snails", "escargot", "abalone", "conch", "cockle", "cockles",
		"whelk", "krill", "sea urchin", "uni", "cuttlefish",
		"shrimp paste", "shrimp cocktail", "crustacean", "crustaceans",
	},
	"fish": {
		"fish", "salmon", "tuna", "cod", "haddock", "halibut", "tilapia",
		"trout", "bass", "sea bass", "snapper", "mackerel", "sardine",
		"sardines", "anchovy", "anchovies", "herring", "catfish",
		"swordfish", "mahi mahi", "flounder", "sole", "eel", "unagi",
		"caviar", "roe", "fish sauce", "fish stock", "fish and chips",
		"worcestershire", "worcestershire sauce", "surimi", "sashimi",
		"ceviche", "gravlax", "lox", "smoked salmon", "bonito", "dashi",
	},
	"eggs": {
		"egg", "eggs", "egg white", "egg whites", "egg yolk", "egg yolks",
		"egg wash", "egg noodles", "mayonnaise", "mayo", "aioli",
		"meringue", "custard", "hollandaise", "quiche", "frittata",
		"omelet", "omelette", "eggnog", "carbonara", "french toast",
		"deviled eggs", "scrambled eggs", "albumin", "ovalbumin",
		"lysozyme",
	},
	"dairy": {
		"milk", "cheese", "butter", "cream", "yogurt", "yoghurt",
		"ice cream", "whey", "casein", "lactose", "ghee", "custard",
		"buttermilk", "sour cream", "cream cheese", "cottage cheese",
		"mozzarella", "cheddar", "parmesan", "brie", "feta", "ricotta",
		"mascarpone", "gouda", "provolone", "condensed milk",
		"evaporated milk", "milk chocolate", "whipped cream",
		"half and half", "creme fraiche", "bechamel", "alfredo", "queso",
		"paneer", "gelato", "milkshake", "pudding", "burrata", "halloumi",
	},
	"soy": {
		"soy", "soya", "soybean", "soybeans", "soy sauce", "tofu",
		"tempeh", "edamame", "miso", "tamari", "soy milk", "soy protein",
		"soy lecithin", "textured vegetable protein", "tvp", "natto",
		"teriyaki", "teriyaki sauce", "hoisin", "hoisin sauce", "shoyu",
		"yuba",
	},
	"wheat": {
		"wheat", "flour", "bread", "pasta", "noodles", "couscous",
		"semolina", "seitan", "bulgur", "farro", "spelt", "durum",
		"bran", "wheat germ", "cracker", "crackers", "crouton",
		"croutons", "breadcrumbs", "panko", "tortilla", "bagel",
		"pastry", "cake", "cookie", "cookies", "pizza", "pretzel",
		"pretzels", "pancake", "pancakes", "waffle", "waffles", "barley",
		"rye", "malt", "gluten", "udon", "ramen", "orzo", "gnocchi",
		"roux", "biscuit", "biscuits", "muffin", "muffins", "donut",
		"doughnut", "croissant", "baguette", "pita", "naan", "focaccia",
	},
	"sesame": {
		"sesame", "sesame seed", "sesame seeds", "sesame oil", "tahini",
		"hummus", "halva", "halvah", "zaatar", "benne", "benne seed",
		"gomashio", "furikake",
	},
	"nightshades": {
		"tomato", "tomatoes", "potato", "potatoes", "eggplant",
		"aubergine", "bell pepper", "bell peppers", "paprika", "cayenne",
		"chili", "chilli", "chili pepper", "chile", "jalapeno",
		"habanero", "serrano", "poblano", "tomatillo", "goji berry",
		"goji berries", "pimento", "pimiento", "tabasco", "ketchup",
		"marinara", "salsa",
	},
	"corn": {
		"corn", "maize", "cornmeal", "corn syrup",
		"high fructose corn syrup", "cornstarch", "corn starch",
		"popcorn", "polenta", "grits", "hominy", "corn tortilla",
		"tortilla chips", "cornbread", "corn oil", "dextrose",
		"maltodextrin", "masa",
	},
	"mustard": {
		"mustard", "mustard seed", "mustard seeds", "dijon",
		"mustard greens", "honey mustard", "mustard oil",
	},
	"celery": {
		"celery", "celeriac", "celery salt", "celery seed",
		"celery root",
	},
	"lupin": {
		"lupin", "lupine", "lupin flour", "lupin beans",
	},
}

// allergyAliases folds the label variants users actually type ("milk",
// "tree nut", "crustaceans") onto the canonical table keys above.
var allergyAliases = map[string]string{
	"peanut":         "peanuts",
	"groundnut":      "peanuts",
	"tree nut":       "tree nuts",
	"treenut":        "tree nuts",
	"treenuts":       "tree nuts",
	"nuts":           "tree nuts",
	"nut":            "tree nuts",
	"crustacean":     "shellfish",
	"crustaceans":    "shellfish",
	"mollusk":        "shellfish",
	"mollusks":       "shellfish",
	"molluscs":       "shellfish",
	"egg":            "eggs",
	"milk":           "dairy",
	"lactose":        "dairy",
	"soya":           "soy",
	"soybean":        "soy",
	"soybeans":       "soy",
	"gluten":         "wheat",
	"sesame seeds":   "sesame",
	"nightshade":     "nightshades",
	"maize":          "corn",
}

// restrictionExpansions maps a dietary restriction label to the
// ingredient terms it rules out. Unlike allergies, an unknown
// restriction label is NOT added as a literal term: "vegan" is not an
// ingredient word.
var restrictionExpansions = map[string][]string{
	"vegetarian": {
		"beef", "pork", "chicken", "lamb", "veal", "bacon", "ham",
		"sausage", "steak", "turkey", "duck", "goose", "meatball",
		"meatballs", "pepperoni", "salami", "prosciutto", "pancetta",
		"chorizo", "hot dog", "hot dogs", "jerky", "gelatin", "lard",
		"venison", "meat", "ground beef", "brisket", "ribs", "pastrami",
		"foie gras", "bone broth", "oxtail", "tripe", "fish", "salmon",
		"tuna", "cod", "anchovy", "anchovies", "shrimp", "prawn", "crab",
		"lobster", "scallop", "scallops", "fish sauce", "oyster sauce",
	},
	"vegan": {
		"beef", "pork", "chicken", "lamb", "veal", "bacon", "ham",
		"sausage", "steak", "turkey", "duck", "goose", "meatball",
		"meatballs", "pepperoni", "salami", "prosciutto", "pancetta",
		"chorizo", "hot dog", "hot dogs", "jerky", "gelatin", "lard",
		"venison", "meat", "ground beef", "brisket", "ribs", "pastrami",
		"foie gras", "bone broth", "oxtail", "tripe", "fish", "salmon",
		"tuna", "cod", "anchovy", "anchovies", "shrimp", "prawn", "crab",
		"lobster", "scallop", "scallops", "fish sauce", "oyster sauce",
		"egg", "eggs", "milk", "cheese", "butter", "cream", "yogurt",
		"honey", "mayonnaise", "whey", "casein", "ghee", "ice cream",
		"custard", "lactose",
	},
	"pescatarian": {
		"beef", "pork", "chicken", "lamb", "veal", "bacon", "ham",
		"sausage", "steak", "turkey", "duck", "goose", "meat",
		"meatball", "meatballs", "pepperoni", "salami", "prosciutto",
		"pancetta", "chorizo", "hot dog", "hot dogs", "jerky", "lard",
		"venison", "ground beef", "brisket", "ribs", "pastrami",
	},
	"halal": {
		"pork", "bacon", "ham", "lard", "pepperoni", "prosciutto",
		"pancetta", "pork belly", "pulled pork", "carnitas",
		"blood sausage", "gelatin", "alcohol", "wine", "beer", "rum",
		"vodka", "brandy", "bourbon", "whiskey", "sherry", "mirin",
		"sake",
	},
	"kosher": {
		"pork", "bacon", "ham", "lard", "pork belly", "pulled pork",
		"carnitas", "shellfish", "shrimp", "prawn", "prawns", "crab",
		"lobster", "clam", "clams", "oyster", "oysters", "mussel",
		"mussels", "scallop", "scallops", "squid", "calamari", "octopus",
		"cheeseburger",
	},
	"keto": {
		"sugar", "bread", "pasta", "rice", "potato", "potatoes", "flour",
		"corn", "cereal", "oats", "oatmeal", "honey", "candy", "soda",
		"cake", "cookie", "cookies", "donut", "doughnut", "juice",
		"banana", "tortilla", "noodles", "crackers", "bagel",
	},
	"paleo": {
		"bread", "pasta", "rice", "beans", "lentils", "peanut",
		"peanuts", "tofu", "soy", "cheese", "milk", "yogurt", "sugar",
		"corn", "oats", "cereal", "crackers",
	},
	"gluten free": {
		"wheat", "flour", "bread", "pasta", "noodles", "couscous",
		"semolina", "seitan", "bulgur", "farro", "spelt", "durum",
		"barley", "rye", "malt", "gluten", "breadcrumbs", "panko",
		"crouton", "croutons", "soy sauce", "udon", "ramen",
	},
	"dairy free": {
		"milk", "cheese", "butter", "cream", "yogurt", "yoghurt",
		"ice cream", "whey", "casein", "lactose", "ghee", "buttermilk",
		"sour cream", "cream cheese", "mozzarella", "cheddar",
		"parmesan", "bechamel", "alfredo",
	},
	"nut free": {
		"peanut", "peanuts", "peanut butter", "almond", "almonds",
		"cashew", "cashews", "walnut", "walnuts", "pecan", "pecans",
		"pistachio", "pistachios", "hazelnut", "hazelnuts", "macadamia",
		"pine nut", "pine nuts", "nut butter", "mixed nuts", "praline",
		"marzipan", "nutella",
	},
}

var restrictionAliases = map[string]string{
	"veggie":      "vegetarian",
	"plant based": "vegan",
	"pescetarian": "pescatarian",
	"ketogenic":   "keto",
	"glutenfree":  "gluten free",
	"dairyfree":   "dairy free",
	"nutfree":     "nut free",
}

// substitutions suggests a safe swap for a blocked term. Lookup misses
// fall back to a generic suggestion.
var substitutions = map[string]string{
	"shrimp":        "chicken or tofu",
	"shrimps":       "chicken or tofu",
	"prawn":         "chicken or tofu",
	"prawns":        "chicken or tofu",
	"crab":          "hearts of palm or jackfruit",
	"crabmeat":      "hearts of palm or jackfruit",
	"lobster":       "hearts of palm or king oyster mushroom",
	"scallop":       "king oyster mushroom",
	"scallops":      "king oyster mushrooms",
	"squid":         "king oyster mushroom",
	"calamari":      "breaded mushrooms",
	"oyster sauce":  "mushroom stir fry sauce",
	"fish":          "chicken or hearts of palm",
	"salmon":        "chicken or roasted carrots",
	"tuna":          "chickpea salad",
	"anchovy":       "capers or olives",
	"anchovies":     "capers or olives",
	"fish sauce":    "coconut aminos with a pinch of salt",
	"peanut":        "sunflower seed butter",
	"peanuts":       "roasted sunflower seeds",
	"peanut butter": "sunflower seed butter",
	"peanut sauce":  "sunflower seed butter sauce",
	"satay":         "grilled skewers with sunflower seed sauce",
	"pad thai":      "rice noodles with tamarind sauce and no peanuts",
	"almond":        "toasted oats or seeds",
	"almonds":       "toasted oats or seeds",
	"cashew":        "roasted chickpeas",
	"cashews":       "roasted chickpeas",
	"walnut":        "toasted pumpkin seeds",
	"walnuts":       "toasted pumpkin seeds",
	"milk":          "oat milk",
	"cheese":        "nutritional yeast or dairy free cheese",
	"butter":        "olive oil or dairy free butter",
	"cream":         "coconut cream",
	"yogurt":        "coconut yogurt",
	"ice cream":     "sorbet or coconut based ice cream",
	"egg":           "flax egg or chia egg",
	"eggs":          "flax eggs or chia eggs",
	"mayonnaise":    "egg free mayonnaise",
	"mayo":          "egg free mayonnaise",
	"soy sauce":     "coconut aminos",
	"tofu":          "chicken or chickpeas",
	"soy":           "coconut aminos or chickpeas",
	"wheat":         "gluten free flour blend",
	"flour":         "gluten free flour blend",
	"bread":         "gluten free bread",
	"pasta":         "rice noodles or gluten free pasta",
	"noodles":       "rice noodles",
	"sesame":        "sunflower seeds",
	"sesame oil":    "olive oil",
	"tahini":        "sunflower seed butter",
	"beef":          "mushrooms or plant based ground",
	"pork":          "jackfruit or plant based alternative",
	"bacon":         "smoked tempeh or mushroom bacon",
	"chicken":       "tofu or chickpeas",
	"sugar":         "stevia or monk fruit sweetener",
	"tomato":        "roasted beets or pumpkin puree",
	"tomatoes":      "roasted beets or pumpkin puree",
	"potato":        "cauliflower or turnips",
	"potatoes":      "cauliflower or turnips",
	"corn":          "peas or chopped zucchini",
	"mustard":       "horseradish or vinegar dressing",
}

const genericSubstitution = "a suitable alternative"

// DishInfo describes a dish whose typical recipe conflicts with certain
// allergies even when no forbidden word appears in the dish name.
type DishInfo struct {
	AllergenCategories []string
	Warning            string
	SafeAlternative    string
}

// ambiguousDishes is consulted only when no literal forbidden term
// matched. Each entry fires only for users whose own allergies
// intersect its categories.
var ambiguousDishes = map[string]DishInfo{
	"paella": {
		AllergenCategories: []string{"shellfish", "fish"},
		Warning:            "Paella is traditionally made with shellfish such as shrimp and mussels, and often fish stock.",
		SafeAlternative:    "vegetable paella made with vegetable stock",
	},
	"gumbo": {
		AllergenCategories: []string{"shellfish", "fish"},
		Warning:            "Gumbo usually contains shrimp, crab, or seafood stock.",
		SafeAlternative:    "chicken and sausage gumbo made without seafood",
	},
	"jambalaya": {
		AllergenCategories: []string{"shellfish"},
		Warning:            "Jambalaya commonly includes shrimp alongside chicken and sausage.",
		SafeAlternative:    "chicken and sausage jambalaya with no shrimp",
	},
	"bouillabaisse": {
		AllergenCategories: []string{"fish", "shellfish"},
		Warning:            "Bouillabaisse is a fish and shellfish stew.",
		SafeAlternative:    "a hearty vegetable and saffron stew",
	},
	"cioppino": {
		AllergenCategories: []string{"shellfish", "fish"},
		Warning:            "Cioppino is a seafood stew built on fish and shellfish.",
		SafeAlternative:    "a tomato and white bean stew",
	},
	"bisque": {
		AllergenCategories: []string{"shellfish", "dairy"},
		Warning:            "Bisque is classically a cream soup made from shellfish stock.",
		SafeAlternative:    "roasted tomato or butternut squash soup",
	},
	"caesar salad": {
		AllergenCategories: []string{"fish", "eggs", "dairy"},
		Warning:            "Caesar dressing traditionally contains anchovies, raw egg, and parmesan.",
		SafeAlternative:    "a green salad with olive oil and lemon dressing",
	},
	"pesto": {
		AllergenCategories: []string{"tree nuts", "dairy"},
		Warning:            "Pesto is usually made with pine nuts and parmesan cheese.",
		SafeAlternative:    "basil pesto made with seeds and nutritional yeast",
	},
	"tiramisu": {
		AllergenCategories: []string{"dairy", "eggs", "wheat"},
		Warning:            "Tiramisu contains mascarpone, raw egg, and wheat ladyfingers.",
		SafeAlternative:    "a coconut chia coffee parfait",
	},
	"miso soup": {
		AllergenCategories: []string{"soy", "fish"},
		Warning:            "Miso soup is made from soybean paste and usually fish based dashi stock.",
		SafeAlternative:    "a clear vegetable soup with kombu stock",
	},
	"fried rice": {
		AllergenCategories: []string{"eggs", "soy", "shellfish"},
		Warning:            "Fried rice commonly includes egg, soy sauce, and sometimes shrimp.",
		SafeAlternative:    "fried rice made without egg, with coconut aminos",
	},
	"spring rolls": {
		AllergenCategories: []string{"peanuts", "shellfish", "eggs", "wheat"},
		Warning:            "Spring rolls often contain shrimp and come with peanut dipping sauce.",
		SafeAlternative:    "vegetable rice paper rolls with a tamarind dip",
	},
	"tempura": {
		AllergenCategories: []string{"wheat", "eggs", "shellfish"},
		Warning:            "Tempura batter contains wheat flour and egg, and shrimp tempura is the default in many kitchens.",
		SafeAlternative:    "vegetable tempura with a rice flour batter",
	},
	"tom yum": {
		AllergenCategories: []string{"shellfish", "fish"},
		Warning:            "Tom yum is typically made with shrimp and fish sauce.",
		SafeAlternative:    "tom yum with mushrooms, no shrimp or fish sauce",
	},
	"laksa": {
		AllergenCategories: []string{"shellfish", "fish", "eggs"},
		Warning:            "Laksa broth commonly contains shrimp paste and fish, with egg noodles.",
		SafeAlternative:    "a coconut curry noodle soup without shrimp paste",
	},
	"kimchi": {
		AllergenCategories: []string{"fish", "shellfish"},
		Warning:            "Traditional kimchi is fermented with fish sauce or salted shrimp.",
		SafeAlternative:    "vegan kimchi fermented without fish sauce",
	},
	"thai curry": {
		AllergenCategories: []string{"shellfish", "fish", "peanuts"},
		Warning:            "Thai curry pastes often contain shrimp paste and fish sauce, and some curries are finished with peanuts.",
		SafeAlternative:    "a curry made with a vegan curry paste",
	},
	"massaman curry": {
		AllergenCategories: []string{"peanuts", "fish", "shellfish"},
		Warning:            "Massaman curry is traditionally finished with peanuts and fish sauce.",
		SafeAlternative:    "massaman style curry with potatoes and no peanuts",
	},
	"mole": {
		AllergenCategories: []string{"peanuts", "tree nuts", "sesame"},
		Warning:            "Mole sauces are usually thickened with peanuts, almonds, or sesame.",
		SafeAlternative:    "a chili sauce thickened with pumpkin seeds",
	},
	"bibimbap": {
		AllergenCategories: []string{"eggs", "soy", "sesame"},
		Warning:            "Bibimbap is typically topped with a fried egg and dressed with soy and sesame oil.",
		SafeAlternative:    "bibimbap without the egg, dressed with coconut aminos",
	},
	"falafel": {
		AllergenCategories: []string{"sesame", "wheat"},
		Warning:            "Falafel is commonly served with tahini sauce and in wheat pita.",
		SafeAlternative:    "falafel in lettuce wraps with a yogurt free herb sauce",
	},
	"nicoise salad": {
		AllergenCategories: []string{"fish", "eggs"},
		Warning:            "Nicoise salad is built around tuna, anchovies, and boiled egg.",
		SafeAlternative:    "a green bean and olive salad with chickpeas",
	},
}
