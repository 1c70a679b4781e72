package models_test

import (
	"encoding/json"
	"testing"

	"github.com/garnizeh/talentflow/pkg/models"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Senior React Developer", "senior-react-developer"},
		{"UX/UI Designer (L3)", "uxui-designer-l3"},
		{"  Backend   Engineer ", "-backend-engineer-"},
		{"Full-Stack\tDeveloper", "full-stack-developer"},
		{"Ünïcode Role", "ncode-role"},
		{"!!!", ""},
	}
	for _, c := range cases {
		if got := models.Slugify(c.title); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.title, got, c.want)
		}
	}
}

func TestEnums(t *testing.T) {
	for _, s := range models.Stages {
		if !s.Valid() {
			t.Fatalf("stage %q should be valid", s)
		}
	}
	if models.Stage("interview").Valid() {
		t.Fatalf("unknown stage accepted")
	}
	if !models.JobStatusArchived.Valid() || models.JobStatus("closed").Valid() {
		t.Fatalf("job status validation mismatch")
	}
	if !models.JobTypeContract.Valid() || models.JobType("Freelance").Valid() {
		t.Fatalf("job type validation mismatch")
	}
	if !models.QuestionFileUpload.Valid() || models.QuestionType("essay").Valid() {
		t.Fatalf("question type validation mismatch")
	}
	if !models.QuestionMultiChoice.IsChoice() || models.QuestionNumeric.IsText() {
		t.Fatalf("question type classification mismatch")
	}
}

func TestDefaultBuilderStateJSON(t *testing.T) {
	b, err := json.Marshal(models.DefaultBuilderState())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"title":"New Assessment","sections":[]}` {
		t.Fatalf("unexpected default builder state: %s", b)
	}
}
