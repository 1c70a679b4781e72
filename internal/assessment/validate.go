// Package assessment validates builder states and submitted responses.
//
// Validation runs in two passes: the embedded JSON Schema checks the document
// shape, then Go code checks the rules the schema cannot express, such as
// which attributes apply to which question type.
package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/garnizeh/talentflow/pkg/models"
)

// ValidationError describes the first problem found in a document.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err carries a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

type Validator struct {
	schemas *Loader
}

func NewValidator(l *Loader) *Validator {
	return &Validator{schemas: l}
}

func (v *Validator) checkSchema(ctx context.Context, name string, raw []byte) error {
	rs, ok := v.schemas.GetSchema(name)
	if !ok {
		return fmt.Errorf("schema %q not loaded", name)
	}
	errs, err := rs.ValidateBytes(ctx, raw)
	if err != nil {
		return &ValidationError{Message: "invalid json"}
	}
	if len(errs) > 0 {
		field := strings.TrimPrefix(errs[0].PropertyPath, "/")
		return &ValidationError{Field: field, Message: errs[0].Message}
	}
	return nil
}

// BuilderState decodes and validates raw. Missing section, question and
// option ids are filled in.
func (v *Validator) BuilderState(ctx context.Context, raw json.RawMessage) (models.BuilderState, error) {
	var state models.BuilderState
	if err := v.checkSchema(ctx, SchemaBuilderState, raw); err != nil {
		return state, err
	}
	if err := json.Unmarshal(raw, &state); err != nil {
		return state, &ValidationError{Message: "invalid builder state"}
	}
	if err := CheckBuilderState(&state); err != nil {
		return state, err
	}
	return state, nil
}

// Response decodes and validates raw. When state is non-nil the answers are
// checked against its questions.
func (v *Validator) Response(ctx context.Context, state *models.BuilderState, raw json.RawMessage) (models.ResponseData, error) {
	if err := v.checkSchema(ctx, SchemaResponseData, raw); err != nil {
		return nil, err
	}
	var data models.ResponseData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, &ValidationError{Message: "invalid response data"}
	}
	if state != nil {
		if err := CheckResponse(*state, data); err != nil {
			return nil, err
		}
	}
	return data, nil
}

// CheckBuilderState enforces the per-type attribute rules on s and fills in
// missing ids. Everything else is kept as written.
func CheckBuilderState(s *models.BuilderState) error {
	if s.Sections == nil {
		s.Sections = []models.Section{}
	}

	seen := make(map[string]bool)
	for si := range s.Sections {
		sec := &s.Sections[si]
		if sec.ID == "" {
			sec.ID = uuid.NewString()
		}
		if sec.Questions == nil {
			sec.Questions = []models.Question{}
		}

		for qi := range sec.Questions {
			q := &sec.Questions[qi]
			field := fmt.Sprintf("sections/%d/questions/%d", si, qi)
			if q.ID == "" {
				q.ID = uuid.NewString()
			}
			if seen[q.ID] {
				return invalid(field+"/id", "duplicate question id %q", q.ID)
			}
			seen[q.ID] = true

			if err := checkQuestion(field, q); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkQuestion(field string, q *models.Question) error {
	if strings.TrimSpace(q.Text) == "" {
		return invalid(field+"/text", "question text is required")
	}
	if !q.Type.Valid() {
		return invalid(field+"/type", "unknown question type %q", q.Type)
	}

	if q.Type.IsChoice() {
		ids := make(map[string]bool, len(q.Options))
		for oi := range q.Options {
			o := &q.Options[oi]
			if o.ID == "" {
				o.ID = uuid.NewString()
			}
			if ids[o.ID] {
				return invalid(fmt.Sprintf("%s/options/%d/id", field, oi), "duplicate option id %q", o.ID)
			}
			ids[o.ID] = true
		}
	} else if len(q.Options) > 0 {
		return invalid(field+"/options", "options are only allowed on choice questions")
	}

	if q.MaxLength != nil {
		if !q.Type.IsText() {
			return invalid(field+"/maxLength", "maxLength is only allowed on text questions")
		}
		if *q.MaxLength < 1 {
			return invalid(field+"/maxLength", "maxLength must be at least 1")
		}
	}

	if q.Min != nil || q.Max != nil {
		if q.Type != models.QuestionNumeric {
			return invalid(field, "min and max are only allowed on numeric questions")
		}
		if q.Min != nil && q.Max != nil && *q.Min > *q.Max {
			return invalid(field+"/min", "min must not exceed max")
		}
	}
	return nil
}

// CheckResponse verifies that data answers state: required questions are
// answered and every answer matches its question type and bounds. Answers to
// unknown question ids are ignored.
func CheckResponse(state models.BuilderState, data models.ResponseData) error {
	for _, q := range state.Questions() {
		raw, ok := data[q.ID]
		if !ok || isBlank(raw) {
			if q.Required {
				return invalid(q.ID, "answer is required")
			}
			continue
		}

		if err := checkAnswer(q, raw); err != nil {
			return err
		}
	}
	return nil
}

func checkAnswer(q models.Question, raw json.RawMessage) error {
	switch {
	case q.Type.IsText() || q.Type == models.QuestionFileUpload:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return invalid(q.ID, "answer must be text")
		}
		if q.MaxLength != nil && utf8.RuneCountInString(s) > *q.MaxLength {
			return invalid(q.ID, "answer exceeds %d characters", *q.MaxLength)
		}

	case q.Type == models.QuestionNumeric:
		n, ok := numberValue(raw)
		if !ok {
			return invalid(q.ID, "answer must be a number")
		}
		if q.Min != nil && n < *q.Min {
			return invalid(q.ID, "answer must be at least %v", *q.Min)
		}
		if q.Max != nil && n > *q.Max {
			return invalid(q.ID, "answer must be at most %v", *q.Max)
		}

	case q.Type == models.QuestionSingleChoice:
		var id string
		if err := json.Unmarshal(raw, &id); err != nil {
			return invalid(q.ID, "answer must be an option id")
		}
		if !hasOption(q, id) {
			return invalid(q.ID, "unknown option %q", id)
		}

	case q.Type == models.QuestionMultiChoice:
		var ids []string
		if err := json.Unmarshal(raw, &ids); err != nil {
			return invalid(q.ID, "answer must be a list of option ids")
		}
		for _, id := range ids {
			if !hasOption(q, id) {
				return invalid(q.ID, "unknown option %q", id)
			}
		}
	}
	return nil
}

func hasOption(q models.Question, id string) bool {
	for _, o := range q.Options {
		if o.ID == id {
			return true
		}
	}
	return false
}

// numberValue accepts JSON numbers and numeric strings.
func numberValue(raw json.RawMessage) (float64, bool) {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func isBlank(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	switch trimmed {
	case "", "null", `""`, "[]":
		return true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s) == ""
	}
	return false
}
