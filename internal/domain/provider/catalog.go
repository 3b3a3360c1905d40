package provider

// Known provider kinds
const (
	KindAzul    = "azul"
	KindCardnet = "cardnet"
	KindPortal  = "portal"
	KindPayPal  = "paypal"
	KindStripe  = "stripe"
)

// CatalogEntry describes one known provider kind with its defaults.
type CatalogEntry struct {
	Key                   string  `json:"key"`
	DisplayName           string  `json:"displayName"`
	LogoRef               string  `json:"logoRef"`
	TransactionFeePercent float64 `json:"transactionFeePercent"`
	IsManual              bool    `json:"isManual"`
}

// Catalog returns the fixed list of provider kinds this system knows
// about. Order is stable.
func Catalog() []CatalogEntry {
	return []CatalogEntry{
		{Key: KindAzul, DisplayName: "Azul", LogoRef: "providers/azul.png", TransactionFeePercent: 3.5},
		{Key: KindCardnet, DisplayName: "CardNet", LogoRef: "providers/cardnet.png", TransactionFeePercent: 3.75},
		{Key: KindPortal, DisplayName: "Portal", LogoRef: "providers/portal.png", TransactionFeePercent: 2.9},
		{Key: KindPayPal, DisplayName: "PayPal", LogoRef: "providers/paypal.png", TransactionFeePercent: 4.2},
		{Key: KindStripe, DisplayName: "Stripe", LogoRef: "providers/stripe.png", TransactionFeePercent: 2.9},
	}
}

// CatalogEntryFor looks up a catalog entry by provider key.
func CatalogEntryFor(key string) (CatalogEntry, bool) {
	for _, entry := range Catalog() {
		if entry.Key == key {
			return entry, true
		}
	}
	return CatalogEntry{}, false
}
