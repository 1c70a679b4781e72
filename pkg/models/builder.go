package models

// QuestionType discriminates the question variants of a builder state.
type QuestionType string

const (
	QuestionSingleChoice QuestionType = "single-choice"
	QuestionMultiChoice  QuestionType = "multi-choice"
	QuestionShortText    QuestionType = "short-text"
	QuestionLongText     QuestionType = "long-text"
	QuestionNumeric      QuestionType = "numeric"
	QuestionFileUpload   QuestionType = "file-upload"
)

// QuestionTypes lists every question variant.
var QuestionTypes = []QuestionType{QuestionSingleChoice, QuestionMultiChoice, QuestionShortText, QuestionLongText, QuestionNumeric, QuestionFileUpload}

func (t QuestionType) Valid() bool {
	for _, qt := range QuestionTypes {
		if t == qt {
			return true
		}
	}
	return false
}

// IsChoice reports whether answers pick from Options.
func (t QuestionType) IsChoice() bool {
	return t == QuestionSingleChoice || t == QuestionMultiChoice
}

// IsText reports whether the question accepts free text bounded by MaxLength.
func (t QuestionType) IsText() bool {
	return t == QuestionShortText || t == QuestionLongText
}

const DefaultAssessmentTitle = "New Assessment"

// BuilderState is the document an assessment is built from.
type BuilderState struct {
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// DefaultBuilderState is returned for jobs without a stored assessment.
func DefaultBuilderState() BuilderState {
	return BuilderState{Title: DefaultAssessmentTitle, Sections: []Section{}}
}

type Section struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Question fields beyond Type are only meaningful for some variants:
// Options for choice questions, MaxLength for text, Min/Max for numeric.
type Question struct {
	ID        string       `json:"id"`
	Text      string       `json:"text"`
	Type      QuestionType `json:"type"`
	Options   []Option     `json:"options,omitempty"`
	Required  bool         `json:"required,omitempty"`
	MaxLength *int         `json:"maxLength,omitempty"`
	Min       *float64     `json:"min,omitempty"`
	Max       *float64     `json:"max,omitempty"`
}

type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Questions returns every question across sections in document order.
func (b BuilderState) Questions() []Question {
	var out []Question
	for _, s := range b.Sections {
		out = append(out, s.Questions...)
	}
	return out
}
