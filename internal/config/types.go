package config

// Thresholds are the score-to-tier routing boundaries. Scores at or above
// SeniorPartnerMin route to the senior partner; scores at or above
// SeniorAttorneyMin route to a senior attorney; everything below goes to a
// junior attorney.
type Thresholds struct {
	SeniorPartnerMin  int `yaml:"senior_partner_min" koanf:"senior_partner_min"`
	SeniorAttorneyMin int `yaml:"senior_attorney_min" koanf:"senior_attorney_min"`
}

// Config is the top-level server configuration, corresponding to intakeflow.yml.
type Config struct {
	Port         int    `yaml:"port" koanf:"port"`
	DataDir      string `yaml:"data_dir" koanf:"data_dir"`
	ClientsDir   string `yaml:"clients_dir" koanf:"clients_dir"`
	PatternsFile string `yaml:"patterns_file" koanf:"patterns_file"` // empty = built-in library
	AllowAll     bool   `yaml:"allow_all_origins" koanf:"allow_all_origins"`

	Model          string `yaml:"model" koanf:"model"`
	TimeoutSeconds int    `yaml:"llm_timeout_seconds" koanf:"llm_timeout_seconds"`

	Thresholds Thresholds `yaml:"thresholds" koanf:"thresholds"`
}

// ContactInfo is the firm contact block surfaced in replies.
type ContactInfo struct {
	Phone string `yaml:"phone" koanf:"phone"`
	Email string `yaml:"email" koanf:"email"`
}

// Client is one client configuration bundle, loaded from a YAML file in the
// clients directory. The file name (without extension) is the client id.
// All behavior-driving fields are validated once at load time.
type Client struct {
	ID             string      `yaml:"-" koanf:"-"`
	BusinessName   string      `yaml:"business_name" koanf:"business_name"`
	Greeting       string      `yaml:"greeting" koanf:"greeting"`
	Contact        ContactInfo `yaml:"contact" koanf:"contact"`
	FeeStructure   string      `yaml:"fee_structure" koanf:"fee_structure"`
	CaseTypes      []string    `yaml:"case_types" koanf:"case_types"`
	Thresholds     *Thresholds `yaml:"thresholds" koanf:"thresholds"` // nil = server defaults
}
