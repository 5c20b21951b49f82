package config

// DefaultThresholds are the score-to-tier boundaries used when a client does
// not override them.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SeniorPartnerMin:  71,
		SeniorAttorneyMin: 41,
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:           8080,
		DataDir:        "data",
		ClientsDir:     "clients",
		Model:          "gpt-4o-mini",
		TimeoutSeconds: 8,
		Thresholds:     DefaultThresholds(),
	}
}

// DefaultClient returns a client bundle used by the init wizard as a
// starting point.
func DefaultClient(id string) *Client {
	return &Client{
		ID:           id,
		BusinessName: "Law Firm AI Assistant",
		Greeting:     "Welcome to our law firm. How can I assist you with your legal matter today?",
		Contact: ContactInfo{
			Phone: "555-123-4567",
			Email: "info@lawfirm.com",
		},
		FeeStructure: "Contingency fee (no upfront cost).",
		CaseTypes:    []string{"personal_injury", "car_accident", "slip_and_fall", "criminal_defense"},
	}
}
