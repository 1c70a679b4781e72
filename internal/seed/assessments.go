package seed

import "github.com/garnizeh/talentflow/pkg/models"

func intPtr(v int) *int { return &v }
func floatPtr(v float64) *float64 { return &v }

// ExampleAssessments returns the builder states attached to the first seeded
// jobs.
func ExampleAssessments() []models.BuilderState {
	return []models.BuilderState{
		{
			Title: "React Developer Quiz",
			Sections: []models.Section{{
				ID: "s1", Title: "Core Concepts",
				Questions: []models.Question{
					{ID: "q1", Text: "What is JSX?", Type: models.QuestionSingleChoice, Required: true, Options: []models.Option{
						{ID: "o1", Text: "A syntax extension for JS"},
						{ID: "o2", Text: "A new programming language"},
						{ID: "o3", Text: "A database"},
					}},
					{ID: "q2", Text: "What is a React Hook?", Type: models.QuestionShortText, Required: true, MaxLength: intPtr(100)},
					{ID: "q3", Text: "Explain the Virtual DOM.", Type: models.QuestionLongText, Required: true, MaxLength: intPtr(500)},
					{ID: "q4", Text: "Years of React experience", Type: models.QuestionNumeric, Required: true, Min: floatPtr(0), Max: floatPtr(20)},
					{ID: "q5", Text: "Upload a code sample (optional)", Type: models.QuestionFileUpload},
				},
			}},
		},
		{
			Title: "Product Manager Assessment",
			Sections: []models.Section{{
				ID: "s2", Title: "Product Thinking",
				Questions: []models.Question{
					{ID: "pm1", Text: "Which prioritization frameworks have you used?", Type: models.QuestionMultiChoice, Options: []models.Option{
						{ID: "rice", Text: "RICE"},
						{ID: "moscow", Text: "MoSCoW"},
						{ID: "kano", Text: "Kano"},
					}},
					{ID: "pm2", Text: "Describe a product you launched.", Type: models.QuestionLongText, Required: true, MaxLength: intPtr(1000)},
				},
			}},
		},
		{
			Title: "UX/UI Designer Portfolio Review",
			Sections: []models.Section{{
				ID: "s3", Title: "Portfolio & Process",
				Questions: []models.Question{
					{ID: "ux1", Text: "Link to your portfolio", Type: models.QuestionShortText, Required: true, MaxLength: intPtr(200)},
					{ID: "ux2", Text: "Upload a case study", Type: models.QuestionFileUpload},
				},
			}},
		},
	}
}
