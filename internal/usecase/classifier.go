package usecase

// CategoryLabel is one assignment in the classification hierarchy:
// super-class, product kind and the core ingredient.
type CategoryLabel struct {
	SuperClass string `json:"superClass"`
	Kind       string `json:"kind"`
	Ingredient string `json:"ingredient"`
}

// tokenSet is the token membership view a rule predicate sees.
type tokenSet map[string]bool

// rulePredicate decides whether a rule applies to a token set.
type rulePredicate func(tokenSet) bool

// classificationRule pairs a predicate with its label. The table below is
// scanned strictly top to bottom and the first matching rule wins: order
// encodes specificity ("caviar" before "salmon", spice pepper before
// vegetable pepper). Do not reorder: order is semantics, not a tuning knob.
type classificationRule struct {
	name  string
	match rulePredicate
	label CategoryLabel
}

func anyOf(words ...string) rulePredicate {
	return func(ts tokenSet) bool {
		for _, w := range words {
			if ts[w] {
				return true
			}
		}
		return false
	}
}

func noneOf(words ...string) rulePredicate {
	inner := anyOf(words...)
	return func(ts tokenSet) bool { return !inner(ts) }
}

func allPreds(preds ...rulePredicate) rulePredicate {
	return func(ts tokenSet) bool {
		for _, p := range preds {
			if !p(ts) {
				return false
			}
		}
		return true
	}
}

// classificationTable is the ordered rule table. Loaded once; static.
var classificationTable = []classificationRule{
	// Specific seafood first. Caviar must beat the fish rules: "salmon
	// caviar" is caviar, not salmon.
	{"caviar", anyOf("caviar", "roe"),
		CategoryLabel{"seafood", "caviar", "caviar"}},
	{"surimi", anyOf("surimi"),
		CategoryLabel{"seafood", "surimi", "surimi"}},
	{"shrimp", anyOf("shrimp", "shrimps", "prawn", "prawns"),
		CategoryLabel{"seafood", "shrimp", "shrimp"}},
	{"squid", anyOf("squid", "calamari"),
		CategoryLabel{"seafood", "squid", "squid"}},
	{"octopus", anyOf("octopus"),
		CategoryLabel{"seafood", "octopus", "octopus"}},
	{"mussel", anyOf("mussel", "mussels"),
		CategoryLabel{"seafood", "mussel", "mussel"}},
	{"scallop", anyOf("scallop", "scallops"),
		CategoryLabel{"seafood", "scallop", "scallop"}},
	{"crab", allPreds(anyOf("crab", "crabs"), noneOf("surimi")),
		CategoryLabel{"seafood", "crab", "crab"}},
	{"lobster", anyOf("lobster", "langoustine"),
		CategoryLabel{"seafood", "lobster", "lobster"}},
	{"salmon", allPreds(anyOf("salmon"), noneOf("caviar", "roe")),
		CategoryLabel{"seafood", "salmon", "salmon"}},
	{"trout", allPreds(anyOf("trout"), noneOf("caviar", "roe")),
		CategoryLabel{"seafood", "trout", "trout"}},
	{"tuna", anyOf("tuna"),
		CategoryLabel{"seafood", "tuna", "tuna"}},
	{"cod", anyOf("cod"),
		CategoryLabel{"seafood", "cod", "cod"}},
	{"seabass", anyOf("seabass", "bass"),
		CategoryLabel{"seafood", "seabass", "seabass"}},
	{"herring", anyOf("herring"),
		CategoryLabel{"seafood", "herring", "herring"}},
	{"mackerel", anyOf("mackerel"),
		CategoryLabel{"seafood", "mackerel", "mackerel"}},
	{"fish-generic", anyOf("fish"),
		CategoryLabel{"seafood", "fish", "fish"}},

	// Processed meat before the raw species rules: "beef sausage" is a
	// sausage, not beef.
	{"sausage", anyOf("sausage", "sausages", "salami", "wiener", "wieners", "frankfurter", "frankfurters", "bratwurst", "chorizo"),
		CategoryLabel{"meat", "sausage", "meat"}},
	{"bacon", anyOf("bacon", "pancetta"),
		CategoryLabel{"meat", "bacon", "pork"}},
	{"ham", allPreds(anyOf("ham", "prosciutto"), noneOf("hamburger")),
		CategoryLabel{"meat", "ham", "pork"}},
	{"beef", anyOf("beef", "veal", "angus"),
		CategoryLabel{"meat", "beef", "beef"}},
	{"pork", anyOf("pork", "hog"),
		CategoryLabel{"meat", "pork", "pork"}},
	{"lamb", anyOf("lamb", "mutton"),
		CategoryLabel{"meat", "lamb", "lamb"}},
	{"chicken", anyOf("chicken", "hen", "broiler"),
		CategoryLabel{"meat", "chicken", "chicken"}},
	{"turkey", anyOf("turkey"),
		CategoryLabel{"meat", "turkey", "turkey"}},
	{"duck", anyOf("duck"),
		CategoryLabel{"meat", "duck", "duck"}},

	// Dairy. Butter excludes peanut butter; cream excludes ice cream; milk
	// excludes plant drinks.
	{"butter", allPreds(anyOf("butter"), noneOf("peanut", "almond", "cocoa")),
		CategoryLabel{"dairy", "butter", "milk"}},
	{"cheese", anyOf("cheese", "cheddar", "mozzarella", "parmesan", "gouda", "feta", "brie", "mascarpone", "ricotta"),
		CategoryLabel{"dairy", "cheese", "milk"}},
	{"yogurt", anyOf("yogurt", "yoghurt", "kefir"),
		CategoryLabel{"dairy", "yogurt", "milk"}},
	{"cream", allPreds(anyOf("cream"), noneOf("ice")),
		CategoryLabel{"dairy", "cream", "milk"}},
	{"milk", allPreds(anyOf("milk"), noneOf("coconut", "almond", "soy", "oat", "rice")),
		CategoryLabel{"dairy", "milk", "milk"}},
	{"eggs", anyOf("egg", "eggs"),
		CategoryLabel{"dairy", "eggs", "egg"}},

	// Spice pepper must be checked before the vegetable: "ground black
	// pepper" is a condiment, a bell "pepper" is produce.
	{"pepper-spice", allPreds(anyOf("pepper", "peppercorn", "peppercorns"), anyOf("black", "white", "ground", "crushed", "whole")),
		CategoryLabel{"condiment", "pepper-spice", "pepper"}},
	{"ketchup", anyOf("ketchup"),
		CategoryLabel{"condiment", "ketchup", "tomato"}},
	{"mayonnaise", anyOf("mayonnaise", "mayo"),
		CategoryLabel{"condiment", "mayonnaise", "egg"}},
	{"mustard", anyOf("mustard"),
		CategoryLabel{"condiment", "mustard", "mustard"}},
	{"vinegar", anyOf("vinegar", "balsamic"),
		CategoryLabel{"condiment", "vinegar", "vinegar"}},

	// Beverages before produce: "orange juice" must land on juice, not on
	// the orange rule further down.
	{"juice", anyOf("juice", "nectar"),
		CategoryLabel{"beverage", "juice", "fruit"}},
	{"water", allPreds(anyOf("water"), anyOf("mineral", "sparkling", "still", "spring", "drinking")),
		CategoryLabel{"beverage", "water", "water"}},
	{"soda", anyOf("cola", "soda", "lemonade", "tonic"),
		CategoryLabel{"beverage", "soda", "water"}},
	{"coffee", anyOf("coffee", "espresso"),
		CategoryLabel{"beverage", "coffee", "coffee"}},
	{"tea", anyOf("tea"),
		CategoryLabel{"beverage", "tea", "tea"}},

	// Produce
	{"pepper-vegetable", allPreds(anyOf("pepper", "peppers", "capsicum"), noneOf("black", "white", "ground", "crushed", "cayenne", "chili", "chilli")),
		CategoryLabel{"produce", "pepper-vegetable", "pepper"}},
	{"tomato", allPreds(anyOf("tomato", "tomatoes"), noneOf("paste", "puree", "ketchup", "sauce")),
		CategoryLabel{"produce", "tomato", "tomato"}},
	{"potato", anyOf("potato", "potatoes"),
		CategoryLabel{"produce", "potato", "potato"}},
	{"onion", anyOf("onion", "onions", "shallot", "shallots"),
		CategoryLabel{"produce", "onion", "onion"}},
	{"carrot", anyOf("carrot", "carrots"),
		CategoryLabel{"produce", "carrot", "carrot"}},
	{"cucumber", anyOf("cucumber", "cucumbers", "gherkin", "gherkins"),
		CategoryLabel{"produce", "cucumber", "cucumber"}},
	{"mushroom", anyOf("mushroom", "mushrooms", "champignon", "champignons"),
		CategoryLabel{"produce", "mushroom", "mushroom"}},
	{"apple", anyOf("apple", "apples"),
		CategoryLabel{"produce", "apple", "apple"}},
	{"banana", anyOf("banana", "bananas"),
		CategoryLabel{"produce", "banana", "banana"}},
	{"orange", anyOf("orange", "oranges"),
		CategoryLabel{"produce", "orange", "orange"}},
	{"lemon", anyOf("lemon", "lemons", "lime", "limes"),
		CategoryLabel{"produce", "lemon", "lemon"}},
	{"lettuce", anyOf("lettuce", "salad", "arugula", "rucola", "spinach"),
		CategoryLabel{"produce", "lettuce", "lettuce"}},

	// Grocery staples
	{"oil", anyOf("oil"),
		CategoryLabel{"grocery", "oil", "oil"}},
	{"rice-grain", anyOf("rice", "basmati", "jasmine"),
		CategoryLabel{"grocery", "rice", "rice"}},
	{"pasta", anyOf("pasta", "spaghetti", "penne", "fusilli", "macaroni", "noodles"),
		CategoryLabel{"grocery", "pasta", "wheat"}},
	{"flour", anyOf("flour"),
		CategoryLabel{"grocery", "flour", "wheat"}},
	{"sugar", anyOf("sugar"),
		CategoryLabel{"grocery", "sugar", "sugar"}},
	{"salt", anyOf("salt"),
		CategoryLabel{"grocery", "salt", "salt"}},
	{"tomato-paste", anyOf("paste", "puree"),
		CategoryLabel{"grocery", "tomato-paste", "tomato"}},
}

// Classifier assigns a hierarchical category from the ordered rule table.
type Classifier struct {
	rules []classificationRule
}

// NewClassifier creates a classifier over the static rule table.
func NewClassifier() *Classifier {
	return &Classifier{rules: classificationTable}
}

// Classify returns the first matching label, or ok=false when no rule
// matches. It never fails on malformed input.
func (c *Classifier) Classify(tokens []string) (CategoryLabel, bool) {
	label, _, ok := c.ClassifyWithConfidence(tokens)
	return label, ok
}

// ClassifyWithConfidence returns the winning label plus a confidence:
// 1.0 when exactly one rule matched, 0.7 when several matched (the first
// still wins but the ambiguity is flagged), ok=false when none matched.
func (c *Classifier) ClassifyWithConfidence(tokens []string) (CategoryLabel, float64, bool) {
	if len(tokens) == 0 {
		return CategoryLabel{}, 0, false
	}

	ts := make(tokenSet, len(tokens))
	for _, tok := range tokens {
		ts[tok] = true
	}

	var winner CategoryLabel
	matches := 0
	for _, rule := range c.rules {
		if rule.match(ts) {
			if matches == 0 {
				winner = rule.label
			}
			matches++
		}
	}

	switch matches {
	case 0:
		return CategoryLabel{}, 0, false
	case 1:
		return winner, 1.0, true
	default:
		return winner, 0.7, true
	}
}
