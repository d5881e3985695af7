package domain

// Settings is the persisted application configuration: one JSON object
// in the key-value store, written once with defaults when absent.
type Settings struct {
	Currency          string `json:"currency"`
	InactivityMinutes int    `json:"inactivity_minutes"`
	CompanyName       string `json:"company_name"`
	CompanyAddress    string `json:"company_address"`
	CompanyPhone      string `json:"company_phone"`
	TaxNumber         string `json:"tax_number"`
}

// DefaultSettings returns the documented defaults applied when no
// settings object has been persisted yet. An inactivity threshold of
// 0 disables the monitor.
func DefaultSettings() Settings {
	return Settings{
		Currency:          "USD",
		InactivityMinutes: 30,
		CompanyName:       "Lumen Paints",
	}
}
