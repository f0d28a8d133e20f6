package privacy

type RetentionRule struct {
	RetentionPeriod string `json:"retention_period"`
	Reason          string `json:"reason"`
	DeletionMethod  string `json:"deletion_method"`
}

type RetentionPolicy struct {
	ResumeData    RetentionRule `json:"resume_data"`
	UserData      RetentionRule `json:"user_data"`
	AnalyticsData RetentionRule `json:"analytics_data"`
}

type DataController struct {
	Name         string `json:"name"`
	ContactEmail string `json:"contact_email"`
}

type Compliance struct {
	DataController         DataController `json:"data_controller"`
	DataProcessingPurposes []string       `json:"data_processing_purposes"`
	DataSubjectRights      []string       `json:"data_subject_rights"`
	DataRetention          string         `json:"data_retention"`
}

type Policy struct {
	LastUpdated    string          `json:"last_updated"`
	Version        string          `json:"version"`
	Description    string          `json:"description"`
	GDPRCompliance Compliance      `json:"gdpr_compliance"`
	DataRetention  RetentionPolicy `json:"data_retention"`
}

func DataRetention() RetentionPolicy {
	return RetentionPolicy{
		ResumeData: RetentionRule{
			RetentionPeriod: "30 days",
			Reason:          "Needed for analysis and report generation",
			DeletionMethod:  "Secure deletion",
		},
		UserData: RetentionRule{
			RetentionPeriod: "1 year",
			Reason:          "Account maintenance and improvement of service",
			DeletionMethod:  "Anonymization followed by secure deletion",
		},
		AnalyticsData: RetentionRule{
			RetentionPeriod: "2 years",
			Reason:          "Service improvement and research",
			DeletionMethod:  "Aggregation and anonymization",
		},
	}
}

func PrivacyPolicy() Policy {
	return Policy{
		LastUpdated: "2025-04-14",
		Version:     "1.0",
		Description: "This privacy policy explains how the resume analyzer collects, uses, and protects your personal data.",
		GDPRCompliance: Compliance{
			DataController: DataController{Name: "Resume Analyzer", ContactEmail: "privacy@resume-analyzer.example.com"},
			DataProcessingPurposes: []string{
				"Resume analysis and skill extraction",
				"Job compatibility scoring",
				"Report generation",
				"Service improvement",
			},
			DataSubjectRights: []string{
				"Right to access",
				"Right to rectification",
				"Right to erasure (right to be forgotten)",
				"Right to restrict processing",
				"Right to data portability",
				"Right to object to processing",
				"Rights related to automated decision making and profiling",
			},
			DataRetention: "See data retention policy",
		},
		DataRetention: DataRetention(),
	}
}
