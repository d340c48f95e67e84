package models

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	dErrors "guardpost/pkg/domain-errors"
	s "guardpost/pkg/string"
	"guardpost/pkg/validation"
)

// Submission carries the validated field values of one evaluation form.
// Scores outside [0,10] are rejected, not clamped; earlier revisions of the
// form accepted them silently, which made exported averages meaningless.
type Submission struct {
	SubjectName string `validate:"required,notblank"`
	Topic       string `validate:"required,notblank"`

	PriorEvaluations int `validate:"min=0"`
	Robberies        int `validate:"min=0"`
	Stops            int `validate:"min=0"`
	Pursuits         int `validate:"min=0"`
	Detentions       int `validate:"min=0"`

	RadioScore   int    `validate:"min=0,max=10"`
	RadioNotes   string `validate:"required,notblank"`
	ConductScore int    `validate:"min=0,max=10"`
	ConductNotes string `validate:"required,notblank"`

	Detention1Score             int   `validate:"min=0,max=10"`
	Detention1RightsRead        YesNo `validate:"oneof=yes no"`
	Detention1SuspectIdentified YesNo `validate:"oneof=yes no"`
	Detention1ItemsSeized       YesNo `validate:"oneof=yes no"`

	Detention2Notes             string `validate:"required,notblank"`
	Detention2Score             int    `validate:"min=0,max=10"`
	Detention2RightsRead        YesNo  `validate:"oneof=yes no"`
	Detention2SuspectIdentified YesNo  `validate:"oneof=yes no"`
	Detention2ItemsSeized       YesNo  `validate:"oneof=yes no"`

	IncidentScore    int    `validate:"min=0,max=10"`
	CrimesCorrect    YesNo  `validate:"oneof=yes no"`
	PhotoAttached    YesNo  `validate:"oneof=yes no"`
	LayoutCorrect    YesNo  `validate:"oneof=yes no"`
	DescriptionClear YesNo  `validate:"oneof=yes no"`
	IncidentErrors   string // may be empty; stored as submitted
	FinalRemarks     string `validate:"required,notblank"`
}

// ParseSubmission turns a raw form payload into a validated Submission.
// Failures are validation_failed domain errors naming the offending field.
func ParseSubmission(form url.Values) (*Submission, error) {
	var sub Submission

	for _, f := range []struct {
		name string
		dst  *int
	}{
		{"prior_evaluations", &sub.PriorEvaluations},
		{"robberies", &sub.Robberies},
		{"stops", &sub.Stops},
		{"pursuits", &sub.Pursuits},
		{"detentions", &sub.Detentions},
		{"radio_score", &sub.RadioScore},
		{"conduct_score", &sub.ConductScore},
		{"detention1_score", &sub.Detention1Score},
		{"detention2_score", &sub.Detention2Score},
		{"incident_score", &sub.IncidentScore},
	} {
		v, err := intField(form, f.name)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	sub.SubjectName = form.Get("subject_name")
	sub.Topic = form.Get("topic")
	sub.RadioNotes = form.Get("radio_notes")
	sub.ConductNotes = form.Get("conduct_notes")
	sub.Detention2Notes = form.Get("detention2_notes")
	sub.IncidentErrors = form.Get("incident_errors")
	sub.FinalRemarks = form.Get("final_remarks")

	sub.Detention1RightsRead = YesNo(form.Get("detention1_rights_read"))
	sub.Detention1SuspectIdentified = YesNo(form.Get("detention1_suspect_identified"))
	sub.Detention1ItemsSeized = YesNo(form.Get("detention1_items_seized"))
	sub.Detention2RightsRead = YesNo(form.Get("detention2_rights_read"))
	sub.Detention2SuspectIdentified = YesNo(form.Get("detention2_suspect_identified"))
	sub.Detention2ItemsSeized = YesNo(form.Get("detention2_items_seized"))
	sub.CrimesCorrect = YesNo(form.Get("crimes_correct"))
	sub.PhotoAttached = YesNo(form.Get("photo_attached"))
	sub.LayoutCorrect = YesNo(form.Get("layout_correct"))
	sub.DescriptionClear = YesNo(form.Get("description_clear"))

	s.TrimStrings(
		&sub.SubjectName,
		&sub.Topic,
		&sub.RadioNotes,
		&sub.ConductNotes,
		&sub.Detention2Notes,
		&sub.IncidentErrors,
		&sub.FinalRemarks,
	)

	if err := validation.Validate(&sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

func intField(form url.Values, name string) (int, error) {
	raw := strings.TrimSpace(form.Get(name))
	if raw == "" {
		return 0, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s is required", name))
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s must be an integer", name))
	}
	return v, nil
}
