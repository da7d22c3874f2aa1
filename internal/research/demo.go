package research

import (
	"context"
	"strings"
)

// DemoSource serves the hardcoded sample studies used by the assistant demo.
// It satisfies the same Source interface as the real backend, so the demo and
// production modes differ only in wiring.
type DemoSource struct{}

// NewDemoSource creates the demo evidence source.
func NewDemoSource() *DemoSource {
	return &DemoSource{}
}

// sampleStudies are the canned demo results. Matching is a naive substring
// check against the query; the demo never fails.
var sampleStudies = []struct {
	keywords []string
	response Response
}{
	{
		keywords: []string{"hypertension", "blood pressure"},
		response: Response{
			Summary: "Recent guidance supports a treatment target below 130/80 mmHg for most adults " +
				"with confirmed hypertension, with home monitoring preferred for diagnosis.",
			KeyFindings: []string{
				"Intensive control reduced major cardiovascular events by 25% versus standard targets.",
				"Home blood pressure monitoring improves diagnostic accuracy over office readings.",
				"Single-pill combinations improve adherence compared with free combinations.",
			},
			Sources: []SourceRef{
				{Title: "Intensive vs Standard Blood-Pressure Control", Journal: "NEJM", Year: 2021},
				{Title: "Hypertension Canada Guidelines", Journal: "Can J Cardiol", Year: 2022},
			},
			Confidence: 0.92,
		},
	},
	{
		keywords: []string{"diabetes", "metformin", "a1c"},
		response: Response{
			Summary: "Metformin remains first-line therapy for type 2 diabetes; SGLT2 inhibitors are " +
				"preferred add-ons for patients with cardiovascular or renal comorbidity.",
			KeyFindings: []string{
				"SGLT2 inhibitors reduce heart-failure hospitalization independent of glycemic effect.",
				"Early combination therapy delays treatment failure versus stepwise escalation.",
			},
			Sources: []SourceRef{
				{Title: "VERIFY: Early Combination Therapy in Type 2 Diabetes", Journal: "Lancet", Year: 2019},
				{Title: "Diabetes Canada Clinical Practice Guidelines", Journal: "Can J Diabetes", Year: 2023},
			},
			Confidence: 0.89,
		},
	},
	{
		keywords: []string{"anticoagulation", "atrial fibrillation", "doac"},
		response: Response{
			Summary: "Direct oral anticoagulants are first-line for stroke prevention in nonvalvular " +
				"atrial fibrillation, with dosing adjusted for renal function and age.",
			KeyFindings: []string{
				"DOACs show comparable efficacy to warfarin with lower intracranial bleeding risk.",
				"Inappropriate dose reduction is common and associated with worse outcomes.",
			},
			Sources: []SourceRef{
				{Title: "CCS Atrial Fibrillation Guidelines", Journal: "Can J Cardiol", Year: 2020},
			},
			Confidence: 0.87,
		},
	},
}

// Query returns the first sample study matching the query, or a generic demo
// answer when nothing matches.
func (d *DemoSource) Query(_ context.Context, req Request) (Response, error) {
	needle := strings.ToLower(req.Query)
	for _, study := range sampleStudies {
		for _, kw := range study.keywords {
			if strings.Contains(needle, kw) {
				return study.response, nil
			}
		}
	}

	return Response{
		Summary: "This is a demonstration environment. Ask about hypertension, diabetes, or " +
			"anticoagulation to see sample evidence summaries.",
		KeyFindings: []string{"Demo mode returns curated sample studies only."},
		Sources:     []SourceRef{},
		Confidence:  0.5,
	}, nil
}
