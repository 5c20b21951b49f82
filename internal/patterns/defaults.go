package patterns

// Built-in rule tables. These are hand-tuned configuration, not verified
// domain truth; a YAML library file replaces them wholesale (see Load).

func defaultPatterns() []CasePattern {
	return []CasePattern{
		{
			ID:          "drunk-driver-rear-end-medical",
			Description: "drunk driver + rear-end + medical treatment",
			BaseScore:   85,
			Strength:    "Very Strong",
			Attorney:    TierSeniorPartner,
			Keywords:    []string{"drunk driver", "rear-end", "medical", "emergency room"},
			Multipliers: map[string]float64{
				"emergency room": 1.2,
				"surgery":        1.5,
				"specialist":     1.3,
				"missed work":    1.2,
				"lost wages":     1.25,
			},
			PracticeArea: "personal_injury",
			Urgency:      "high",
		},
		{
			ID:          "clear-liability-serious-injury",
			Description: "clear liability + serious injury + lost wages",
			BaseScore:   80,
			Strength:    "Very Strong",
			Attorney:    TierSeniorPartner,
			Keywords:    []string{"rear-end", "serious injury", "surgery", "lost wages"},
			Multipliers: map[string]float64{
				"emergency room": 1.15,
				"surgery":        1.4,
				"specialist":     1.25,
				"missed work":    1.2,
			},
			PracticeArea: "personal_injury",
			Urgency:      "high",
		},
		{
			ID:          "criminal-dui-first-offense",
			Description: "criminal defense + first offense + dui",
			BaseScore:   75,
			Strength:    "Strong",
			Attorney:    TierSenior,
			Keywords:    []string{"drunk driver", "first offense", "criminal"},
			Multipliers: map[string]float64{
				"first offense": 1.3,
				"cooperative":   1.2,
			},
			PracticeArea: "criminal_defense",
			Urgency:      "high",
		},
		{
			ID:          "rear-end-medical-minor",
			Description: "rear-end + medical treatment + minor injuries",
			BaseScore:   70,
			Strength:    "Strong",
			Attorney:    TierSenior,
			Keywords:    []string{"rear-end", "medical", "back pain"},
			Multipliers: map[string]float64{
				"emergency room":   1.15,
				"specialist":       1.25,
				"physical therapy": 1.1,
				"missed work":      1.15,
			},
			PracticeArea: "personal_injury",
			Urgency:      "medium",
		},
		{
			ID:          "slip-fall-medical",
			Description: "slip and fall + medical treatment",
			BaseScore:   65,
			Strength:    "Moderate",
			Attorney:    TierAssociate,
			Keywords:    []string{"slip and fall", "medical"},
			Multipliers: map[string]float64{
				"emergency room": 1.2,
				"surgery":        1.4,
				"witness":        1.3,
			},
			PracticeArea: "personal_injury",
			Urgency:      "medium",
		},
		{
			ID:          "criminal-misdemeanor-first",
			Description: "criminal defense + misdemeanor + first offense",
			BaseScore:   60,
			Strength:    "Moderate",
			Attorney:    TierAssociate,
			Keywords:    []string{"misdemeanor", "first offense", "criminal"},
			Multipliers: map[string]float64{
				"first offense": 1.2,
				"cooperative":   1.1,
			},
			PracticeArea: "criminal_defense",
			Urgency:      "medium",
		},
		{
			ID:          "minor-collision-no-injury",
			Description: "minor collision + no injuries + property damage only",
			BaseScore:   25,
			Strength:    "Weak",
			Attorney:    TierJunior,
			Keywords:    []string{"minor collision", "no injury", "property damage"},
			Multipliers: map[string]float64{},
			PracticeArea: "personal_injury",
			Urgency:      "low",
		},
		{
			ID:          "general-inquiry",
			Description: "general inquiry + no specific case",
			BaseScore:   20,
			Strength:    "Very Weak",
			Attorney:    TierJunior,
			Keywords:    []string{"greeting", "question"},
			Multipliers: map[string]float64{},
			PracticeArea: "general",
			Urgency:      "low",
		},
	}
}

func defaultCategories() []ScoreCategory {
	return []ScoreCategory{
		{Name: "truck", Points: 30, Expression: `\b(18-wheeler|semi truck|commercial truck|big rig|truck driver|trucker|tractor trailer)\b`},
		{Name: "medical", Points: 40, Expression: `\b(doctor|surgeon|surgery|medical malpractice|hospital|malpractice|physician|nurse)\b`},
		{Name: "serious_injury", Points: 25, Expression: `\b(hospitalized|emergency room|er visit|went to er|serious injury|broken|fracture|surgery)\b`},
		{Name: "evidence", Points: 20, Expression: `\b(police report|cited|ticket|fault|police officer|officer said|witness)\b`},
		{Name: "work_impact", Points: 15, Expression: `\b(lost work|can't work|unable to work|missed work|lost wages|lost income|time off work)\b`},
		{Name: "pain_suffering", Points: 15, Expression: `\b(pain|suffering|ongoing treatment|physical therapy|rehabilitation|chronic pain|permanent injury)\b`},
	}
}

func defaultContradictions() []ContradictionPair {
	return []ContradictionPair{
		{
			Name:     "injury",
			Positive: []string{"serious injury", "broken", "fracture"},
			Negative: []string{"no injury", "not hurt", "wasn't hurt", "i'm fine", "im fine"},
		},
		{
			Name:     "impairment",
			Positive: []string{"drunk driver", "dui"},
			Negative: []string{"sober", "not drinking", "wasn't drinking"},
		},
		{
			Name:     "work",
			Positive: []string{"missed work", "lost wages"},
			Negative: []string{"no missed work", "working fine", "didn't miss work"},
		},
		{
			Name:     "treatment",
			Positive: []string{"medical treatment", "hospital"},
			Negative: []string{"no treatment", "refused medical", "didn't see a doctor"},
		},
	}
}

// defaultExtraction canonicalizes transcript phrases before pattern matching.
func defaultExtraction() []KeywordGroup {
	return []KeywordGroup{
		{Canonical: "rear-end", Terms: []string{"rear-end", "rear end", "rear ended", "hit from behind"}},
		{Canonical: "drunk driver", Terms: []string{"drunk", "dui", "dwi", "intoxicated"}},
		{Canonical: "emergency room", Terms: []string{"emergency room", "er visit", "went to er", "hospital"}},
		{Canonical: "medical", Terms: []string{"medical", "treatment", "doctor", "injury", "injuries", "hurt"}},
		{Canonical: "surgery", Terms: []string{"surgery", "operation"}},
		{Canonical: "specialist", Terms: []string{"specialist", "orthopedic"}},
		{Canonical: "physical therapy", Terms: []string{"physical therapy", "rehab"}},
		{Canonical: "missed work", Terms: []string{"missed work", "time off work", "can't work", "unable to work"}},
		{Canonical: "lost wages", Terms: []string{"lost wages", "lost income"}},
		{Canonical: "serious injury", Terms: []string{"serious", "severe", "major injury"}},
		{Canonical: "broken", Terms: []string{"broken", "broke my", "fractured"}},
		{Canonical: "fracture", Terms: []string{"fracture"}},
		{Canonical: "back pain", Terms: []string{"back pain", "neck pain"}},
		{Canonical: "slip and fall", Terms: []string{"slip", "fell", "wet floor", "slipped"}},
		{Canonical: "witness", Terms: []string{"witness", "saw it happen"}},
		{Canonical: "criminal", Terms: []string{"arrested", "criminal charges", "charged with"}},
		{Canonical: "misdemeanor", Terms: []string{"misdemeanor"}},
		{Canonical: "first offense", Terms: []string{"first offense", "first time"}},
		{Canonical: "cooperative", Terms: []string{"cooperative", "cooperated"}},
		{Canonical: "minor collision", Terms: []string{"minor", "fender bender"}},
		{Canonical: "no injury", Terms: []string{"no injuries", "no injury", "not hurt", "wasn't hurt", "i'm fine", "im fine", "fine"}},
		{Canonical: "property damage", Terms: []string{"property damage", "just my car", "only the car"}},
		{Canonical: "sober", Terms: []string{"sober", "not drinking", "wasn't drinking"}},
		{Canonical: "no missed work", Terms: []string{"no missed work", "working fine", "didn't miss work"}},
		{Canonical: "no treatment", Terms: []string{"no treatment", "refused medical", "didn't see a doctor"}},
		{Canonical: "greeting", Terms: []string{"hello", "hi ", "hey"}},
		{Canonical: "question", Terms: []string{"question", "help", "wondering"}},
	}
}

// defaultLeadValues is the scorer's estimated-value step function.
func defaultLeadValues() []ValueRange {
	return []ValueRange{
		{MinScore: 85, Label: "$100k-$500k+"},
		{MinScore: 70, Label: "$50k-$200k"},
		{MinScore: 50, Label: "$25k-$100k"},
		{MinScore: 30, Label: "$10k-$50k"},
		{MinScore: 0, Label: "$5k-$25k"},
	}
}

// defaultCaseValues is the finer-grained bracket used for pattern candidates.
func defaultCaseValues() []ValueRange {
	return []ValueRange{
		{MinScore: 95, Label: "$100k-$500k+"},
		{MinScore: 85, Label: "$75k-$200k"},
		{MinScore: 75, Label: "$50k-$150k"},
		{MinScore: 65, Label: "$25k-$100k"},
		{MinScore: 55, Label: "$15k-$75k"},
		{MinScore: 45, Label: "$10k-$50k"},
		{MinScore: 35, Label: "$5k-$25k"},
		{MinScore: 25, Label: "$2k-$15k"},
		{MinScore: 0, Label: "$1k-$10k"},
	}
}

func defaultTemplates() map[string]ResponseTemplate {
	return map[string]ResponseTemplate{
		"drunk-driver-rear-end-medical": {
			Initial:      "I'm very sorry this happened. A drunk driver rear-ending you with medical treatment is exactly the type of case that results in significant settlements.",
			FollowUp:     "With the treatment you've described, you have a very strong case. Cases like this often settle for six figures.",
			Consultation: "Our Senior Partner needs to meet with you as soon as possible for a case this valuable.",
		},
		"rear-end-medical-minor": {
			Initial:      "I'm sorry about your accident. Rear-end collisions with medical treatment typically result in good settlements.",
			FollowUp:     "With medical treatment on record, you have a strong case. The other driver's insurance will likely be liable.",
			Consultation: "Let's get you scheduled with one of our senior attorneys who handles these cases.",
		},
		"criminal-dui-first-offense": {
			Initial:      "I understand this is a difficult situation. First-time DUI cases often have good outcomes with proper representation.",
			FollowUp:     "As a first offense, we can likely negotiate for reduced charges or diversion programs.",
			Consultation: "Our criminal defense attorney needs to meet with you quickly to protect your rights.",
		},
		"default": {
			Initial:      "I'm sorry to hear about your situation. Let me help assess your case.",
			FollowUp:     "Based on what you've shared, we can help you understand your options.",
			Consultation: "I'd like to connect you with one of our attorneys to discuss your options.",
		},
	}
}
