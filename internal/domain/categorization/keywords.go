package categorization

// Category labels produced by Tag.
const (
	CategoryFoodAndDrink   = "Food & Drink"
	CategoryShopping       = "Shopping"
	CategoryTransportation = "Transportation"
	CategoryEntertainment  = "Entertainment"
	CategoryBillsUtilities = "Bills & Utilities"
	CategoryHealth         = "Health"
	CategoryTravel         = "Travel"
	CategoryTransfer       = "Transfer"
	CategoryIncome         = "Income"
	CategoryOther          = "Other"
)

// Categories lists every label Tag can return.
var Categories = []string{
	CategoryFoodAndDrink,
	CategoryShopping,
	CategoryTransportation,
	CategoryEntertainment,
	CategoryBillsUtilities,
	CategoryHealth,
	CategoryTravel,
	CategoryTransfer,
	CategoryIncome,
	CategoryOther,
}

// Expense tables in priority order. The first table with any hit decides the
// category, so a grocery merchant that also looks like travel stays groceries.
var expenseTables = []KeywordTable{
	{Label: CategoryFoodAndDrink, Keywords: []string{
		"STARBUCKS", "DUNKIN", "COFFEE", "CAFE", "RESTAURANT", "MCDONALD", "BURGER",
		"PIZZA", "CHIPOTLE", "TACO BELL", " SUBWAY ", "DOORDASH", "GRUBHUB", "UBER EATS",
		"POSTMATES", "BAKERY", "GROCERY", "SUPERMARKET", "WHOLE FOODS", "TRADER JOE",
		"KROGER", "SAFEWAY", "PUBLIX", " ALDI ", " DINER ", "BREWERY", "LIQUOR",
		"SWEETGREEN", "PANERA", "CHICK FIL A", " WENDY", " BAR ", " GRILL ",
	}},
	{Label: CategoryShopping, Keywords: []string{
		"AMAZON", "AMZN", " TARGET ", "WALMART", "COSTCO", "BEST BUY", " EBAY ", " ETSY ",
		" IKEA ", "HOME DEPOT", " LOWE", "MACY", "NORDSTROM", " KOHL", "APPLE STORE",
		"TJ MAXX", "MARSHALLS", "SEPHORA", " ULTA ", "WAYFAIR", "ZARA", "OLD NAVY",
	}},
	{Label: CategoryTransportation, Keywords: []string{
		" UBER ", " LYFT ", " SHELL ", "CHEVRON", "EXXON", "MOBIL", " BP ", "TEXACO",
		"GAS STATION", " FUEL ", "PARKING", " TOLL", "TRANSIT", " METRO ", " MTA ",
		"CITGO", "SUNOCO", "VALERO", "E ZPASS",
	}},
	{Label: CategoryEntertainment, Keywords: []string{
		"NETFLIX", "SPOTIFY", " HULU ", "DISNEY", " HBO ", "YOUTUBE", "CINEMA", "THEATER",
		"THEATRE", " AMC ", " REGAL ", " STEAM ", "PLAYSTATION", " XBOX ", "NINTENDO",
		"TICKETMASTER", "CONCERT", "BOWLING", "PARAMOUNT", "PEACOCK",
	}},
	{Label: CategoryBillsUtilities, Keywords: []string{
		"ELECTRIC", "UTILITY", "UTILITIES", " WATER ", "COMCAST", "XFINITY", "VERIZON",
		"AT&T", "T MOBILE", "SPECTRUM", "INTERNET", " PHONE ", "INSURANCE", "GEICO",
		"STATE FARM", "PROGRESSIVE", " RENT ", "MORTGAGE", "PG&E", "CON EDISON",
		"DUKE ENERGY", " ENERGY ", "CABLE",
	}},
	{Label: CategoryHealth, Keywords: []string{
		"PHARMACY", " CVS ", "WALGREENS", "RITE AID", "DOCTOR", "DENTAL", "DENTIST",
		"HOSPITAL", "CLINIC", "MEDICAL", "OPTOMETR", " GYM ", "FITNESS", "HEALTH",
	}},
	{Label: CategoryTravel, Keywords: []string{
		"AIRLINE", "AIRWAYS", "DELTA AIR", "UNITED AIR", "AMERICAN AIR", "SOUTHWEST",
		"JETBLUE", "HOTEL", "MARRIOTT", "HILTON", "HYATT", "AIRBNB", "EXPEDIA",
		"BOOKING COM", "AMTRAK", "HERTZ", " AVIS ", "RENT A CAR", " MOTEL ",
	}},
	{Label: CategoryTransfer, Keywords: []string{
		"TRANSFER", "ZELLE", "VENMO", "PAYPAL", "CASH APP", " WIRE ", " ATM ",
		"WITHDRAWAL", " XFER ",
	}},
}

var incomeKeywords = KeywordTable{Label: CategoryIncome, Keywords: []string{
	"PAYROLL", "SALARY", "EMPLOYER", "DIRECT DEP", " DIR DEP ", "PAYCHECK", " WAGES ",
}}

var peerTransferKeywords = KeywordTable{Label: CategoryTransfer, Keywords: []string{
	"ZELLE", "VENMO", "CASH APP", "PAYPAL", "TRANSFER", " XFER ",
}}

// Essential/flex scoring tables.
var (
	essentialCategoryKeywords = KeywordTable{Label: string(Essential), Keywords: []string{
		"BILLS", "UTILITIES", " RENT ", "MORTGAGE", "INSURANCE", "HEALTH", "MEDICAL",
		"PHARMACY", "GROCER", "TRANSPORTATION", " GAS ", " FUEL ", "CHILDCARE",
		"EDUCATION", " LOAN ", "HOUSING",
	}}

	essentialMerchantTextKeywords = KeywordTable{Label: string(Essential), Keywords: []string{
		"PHARMACY", "GROCERY", "GROCERIES", "SUPERMARKET", "INSURANCE", "ELECTRIC",
		"UTILITY", "UTILITIES", "WATER DEPT", "GAS STATION", " FUEL ", "DOCTOR",
		"CLINIC", "HOSPITAL", "MEDICAL", "DENTAL", "DAYCARE", "CHILDCARE", "TUITION",
		"MORTGAGE", "LOAN PAYMENT", " RENT ",
	}}

	// essentialMerchants are named merchants that are almost always necessary
	// spend. Matched exactly first, then with one-character tolerance.
	essentialMerchants = []string{
		"KROGER", "SAFEWAY", "WHOLE FOODS", "TRADER JOE", "ALDI", "PUBLIX", "COSTCO",
		"WALGREENS", "CVS", "RITE AID", "COMCAST", "XFINITY", "VERIZON", "AT&T",
		"T MOBILE", "SPECTRUM", "PG&E", "CON EDISON", "DUKE ENERGY", "GEICO",
		"STATE FARM", "PROGRESSIVE", "ALLSTATE", "SHELL", "CHEVRON", "EXXON",
	}

	flexCategoryKeywords = KeywordTable{Label: string(Flex), Keywords: []string{
		"ENTERTAINMENT", "SHOPPING", "FOOD & DRINK", "DINING", "RESTAURANT", "TRAVEL",
		"PERSONAL CARE", "GIFTS", "RECREATION", "SUBSCRIPTION", "HOBBIES",
	}}

	flexMerchantKeywords = KeywordTable{Label: string(Flex), Keywords: []string{
		"STARBUCKS", "AMAZON", "AMZN", "NETFLIX", "SPOTIFY", " HULU ", "DOORDASH",
		"GRUBHUB", "UBER EATS", "BEST BUY", " STEAM ", "AIRBNB", "MCDONALD", "CHIPOTLE",
		" ETSY ", "SEPHORA", "TICKETMASTER",
	}}

	// Overrides short-circuit scoring. Essential overrides are listed first and
	// win when both tables match.
	essentialOverrides = KeywordTable{Label: string(Essential), Keywords: []string{
		"LANDLORD", "PROPERTY MANAGEMENT", "PROPERTY MGMT", "APARTMENTS", "RENT PAYMENT",
		" HOA ",
	}}

	flexOverrides = KeywordTable{Label: string(Flex), Keywords: []string{
		"NETFLIX", "SPOTIFY", " HULU ", "DISNEY PLUS", "DISNEY+", "HBO MAX", "YOUTUBE PREMIUM",
		"APPLE MUSIC", "PARAMOUNT+", "PEACOCK",
	}}
)

// Engines are compiled once; the tables above are never mutated.
var (
	expenseEngine                 = NewEngine(expenseTables...)
	incomeEngine                  = NewEngine(incomeKeywords)
	peerTransferEngine            = NewEngine(peerTransferKeywords)
	essentialCategoryEngine       = NewEngine(essentialCategoryKeywords)
	essentialMerchantTextEngine   = NewEngine(essentialMerchantTextKeywords)
	essentialMerchantEngine       = NewEngine(KeywordTable{Label: string(Essential), Keywords: essentialMerchants})
	essentialMerchantFuzzyMatcher = NewFuzzyMatcher(essentialMerchants, 1)
	flexCategoryEngine            = NewEngine(flexCategoryKeywords)
	flexMerchantEngine            = NewEngine(flexMerchantKeywords)
	overrideEngine                = NewEngine(essentialOverrides, flexOverrides)
)
