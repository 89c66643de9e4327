package tax

// Rate bands applied by the FBR for GST on goods and services.
const (
	RateZeroPercent     = 0.0
	RateStandardPercent = 17.0
	RatePackagedPercent = 18.0
	RateLuxuryPercent   = 25.0
)

// DefaultRate is applied when a description matches nothing in the table.
const DefaultRate = RateStandardPercent

// categoryRate binds a product keyword to its GST band.
type categoryRate struct {
	Keyword string
	Rate    float64
}

// fbrCategoryRates is the FBR 2024 category table. The declaration order is
// load-bearing: containment matching scans the table top to bottom and the
// first hit wins, so entries must not be reordered or sorted.
var fbrCategoryRates = []categoryRate{
	// Zero-rated basic unpackaged food
	{"milk", 0},
	{"bread", 0},
	{"rice", 0},
	{"wheat", 0},
	{"sugar", 0},
	{"flour", 0},
	{"vegetables", 0},
	{"fruits", 0},
	{"eggs", 0},
	{"chicken", 0},
	{"beef", 0},
	{"mutton", 0},
	{"fish", 0},
	{"pulses", 0},
	{"lentils", 0},

	// Packaged food
	{"biscuits", 18},
	{"candy", 18},
	{"chocolate", 18},
	{"snacks", 18},
	{"canned food", 18},
	{"packaged milk", 18},
	{"packaged juice", 18},
	{"packaged water", 18},
	{"bottled sauce", 18},
	{"ketchup", 18},
	{"mayonnaise", 18},
	{"ice cream", 18},
	{"yogurt", 18},
	{"cheese", 18},
	{"butter", 18},
	{"cereals", 18},
	{"noodles", 18},
	{"pasta", 18},

	// Luxury goods
	{"jewelry", 25},
	{"watches", 25},
	{"perfumes", 25},
	{"designer clothing", 25},
	{"luxury cars", 25},
	{"yachts", 25},
	{"private jets", 25},
	{"expensive art", 25},
	{"high-end electronics", 25},
	{"premium cosmetics", 25},
	{"diamonds", 25},
	{"gems", 25},
	{"gold jewelry", 25},
	{"luxury handbags", 25},

	// Standard rate
	{"mobile", 17},
	{"laptop", 17},
	{"computer", 17},
	{"tablet", 17},
	{"tv", 17},
	{"refrigerator", 17},
	{"washing machine", 17},
	{"air conditioner", 17},
	{"fan", 17},
	{"iron", 17},
	{"microwave", 17},
	{"soft drink", 17},
	{"shirt", 17},
	{"pants", 17},
	{"dress", 17},
	{"shoes", 17},
	{"service", 17},
	{"furniture", 17},
	{"appliances", 17},
	{"building materials", 17},
}

// luxuryKeywords mark an item as luxury regardless of its base category, so
// "gold jewelry" and "premium rice" both land in the 25% band.
var luxuryKeywords = []string{
	"luxury", "designer", "premium", "high-end", "expensive",
	"diamond", "gold", "platinum", "gems",
}

// packagedKeywords move otherwise zero-rated food into the 18% band
// ("packaged milk" must not inherit the 0% rate of "milk").
var packagedKeywords = []string{
	"packaged", "canned", "bottled", "jar", "tin",
	"boxed", "processed", "sealed", "wrapped",
}
