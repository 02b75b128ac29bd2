package fakebackend

import "trialscope/internal/domain"

func intPtr(n int) *int { return &n }

// Fixtures returns the sample trials served by default. Each call returns a fresh copy.
func Fixtures() []domain.TrialDetail {
	return []domain.TrialDetail{
		{
			Trial: domain.Trial{
				NCTID: "NCT00000102", BriefTitle: "Inhaled Corticosteroid Dosing in Mild Asthma",
				Phase: "Phase 2", Status: "Recruiting", Enrollment: intPtr(120),
				Condition: domain.StringList{"Asthma"}, Intervention: "Budesonide",
			},
			OfficialTitle: "A Randomized Dose-Ranging Study of Inhaled Budesonide in Adults With Mild Persistent Asthma",
			BriefSummary:  "Compares three budesonide doses for symptom control in **mild asthma**.",
			Gender:        "All", MinimumAge: intPtr(18), MaximumAge: intPtr(65),
			StartDate: "2023-02-01", CompletionDate: "2025-06-30",
			Sponsors: domain.StringList{"Northfield Respiratory Institute"},
		},
		{
			Trial: domain.Trial{
				NCTID: "NCT00000218", BriefTitle: "Early Pulmonary Rehabilitation After COPD Exacerbation",
				Phase: "N/A", Status: "Completed", Enrollment: intPtr(340),
				Condition: domain.StringList{"COPD", "Dyspnea"}, Intervention: "Supervised exercise program",
			},
			BriefSummary: "Evaluates a six-week rehabilitation program started within 14 days of discharge.",
			Gender:       "All", MinimumAge: intPtr(40),
			StartDate: "2019-09-15", CompletionDate: "2022-01-10",
			Sponsors: domain.StringList{"Lakeside University Hospital"},
		},
		{
			Trial: domain.Trial{
				NCTID: "NCT00000341", BriefTitle: "Metformin Extended Release in Prediabetes",
				Phase: "Phase 3", Status: "Active, not recruiting", Enrollment: intPtr(1500),
				Condition: domain.StringList{"Prediabetes", "Type 2 Diabetes"}, Intervention: "Metformin ER",
			},
			BriefSummary: "Tests whether extended-release metformin delays progression to type 2 diabetes.",
			Gender:       "All", MinimumAge: intPtr(30), MaximumAge: intPtr(75),
			StartDate: "2021-04-01",
			Sponsors:  domain.StringList{"Metabolic Health Consortium"},
		},
		{
			Trial: domain.Trial{
				NCTID: "NCT00000459", BriefTitle: "Biologic Add-On Therapy for Severe Eosinophilic Asthma",
				Phase: "Phase 3", Status: "Recruiting", Enrollment: intPtr(600),
				Condition: domain.StringList{"Asthma", "Eosinophilia"}, Intervention: "Anti-IL-5 monoclonal antibody",
			},
			BriefSummary: "Adds a monthly anti-IL-5 injection to standard inhaled therapy.",
			Gender:       "All", MinimumAge: intPtr(12),
			StartDate: "2024-01-10",
			Sponsors:  domain.StringList{"Helix Biologics"},
		},
		{
			Trial: domain.Trial{
				NCTID: "NCT00000587", BriefTitle: "Mindfulness Training for Chronic Migraine",
				Phase: "N/A", Status: "Not yet recruiting", Enrollment: intPtr(80),
				Condition: domain.StringList{"Migraine"}, Intervention: "Mindfulness-based stress reduction",
			},
			BriefSummary: "An eight-week group program compared with headache education.",
			Gender:       "Female", MinimumAge: intPtr(18), MaximumAge: intPtr(60),
			Sponsors: domain.StringList{"Coastal Neurology Group"},
		},
		{
			Trial: domain.Trial{
				NCTID: "NCT00000613", BriefTitle: "Low-Dose Aspirin for Preeclampsia Prevention",
				Phase: "Phase 4", Status: "Terminated", Enrollment: intPtr(212),
				Condition: domain.StringList{"Preeclampsia"}, Intervention: "Aspirin",
			},
			BriefSummary: "Terminated early after an interim analysis showed slow accrual.",
			Gender:       "Female", MinimumAge: intPtr(18), MaximumAge: intPtr(45),
			StartDate: "2018-03-01", CompletionDate: "2019-11-30",
			Sponsors: domain.StringList{"Maternal Health Network"},
		},
	}
}
