package intent

// Intent labels form a closed enumeration; the classifier never emits
// anything outside this set.
const (
	CriminalDefense       = "CRIMINAL_DEFENSE"
	UrgentMatter          = "URGENT_MATTER"
	InjuryDetails         = "INJURY_DETAILS"
	CaseInquiry           = "CASE_INQUIRY"
	FeeQuestions          = "FEE_QUESTIONS"
	ConsultationRequest   = "CONSULTATION_REQUEST"
	AppointmentScheduling = "APPOINTMENT_SCHEDULING"
	CaseStatus            = "CASE_STATUS"
	DocumentHelp          = "DOCUMENT_HELP"
	ReferralRequest       = "REFERRAL_REQUEST"
	GeneralInfo           = "GENERAL_INFO"
)

// known is the closed set accepted when parsing external classifier output.
var known = map[string]bool{
	CriminalDefense:       true,
	UrgentMatter:          true,
	InjuryDetails:         true,
	CaseInquiry:           true,
	FeeQuestions:          true,
	ConsultationRequest:   true,
	AppointmentScheduling: true,
	CaseStatus:            true,
	DocumentHelp:          true,
	ReferralRequest:       true,
	GeneralInfo:           true,
}

// Result is the classification outcome for one message.
type Result struct {
	Intent         string  `json:"intent"`
	Confidence     float64 `json:"confidence"`
	Reasoning      string  `json:"reasoning"`
	PracticeArea   string  `json:"practice_area"`
	Urgency        string  `json:"urgency"` // low / medium / high
	Specialization string  `json:"specialization,omitempty"`
	Fallback       bool    `json:"fallback,omitempty"`
}
