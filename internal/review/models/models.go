// Package models defines the evaluation record and the validated submission
// it is assembled from.
package models

import (
	"time"

	"github.com/google/uuid"

	"guardpost/internal/identity"
)

// YesNo is the enumerated domain of the form's yes/no questions. The tokens
// are the exact, case-sensitive values the form posts.
type YesNo string

const (
	Yes YesNo = "yes"
	No  YesNo = "no"
)

// IncidentErrorsPlaceholder is substituted for an empty "errors observed"
// field in rendered output only; the stored value keeps the empty string.
const IncidentErrorsPlaceholder = "none reported"

// Evaluation is one persisted evaluation submission. Records are created
// exactly once at submission time, embed the reviewer identity by value, and
// are never mutated or deleted.
type Evaluation struct {
	ID       uuid.UUID         `json:"id"`
	Reviewer identity.Identity `json:"reviewer"`

	SubjectName string `json:"subject_name"`
	Topic       string `json:"topic"`

	PriorEvaluations int `json:"prior_evaluations"`
	Robberies        int `json:"robberies"`
	Stops            int `json:"stops"`
	Pursuits         int `json:"pursuits"`
	Detentions       int `json:"detentions"`

	RadioScore   int    `json:"radio_score"`
	RadioNotes   string `json:"radio_notes"`
	ConductScore int    `json:"conduct_score"`
	ConductNotes string `json:"conduct_notes"`

	Detention1Score             int   `json:"detention1_score"`
	Detention1RightsRead        YesNo `json:"detention1_rights_read"`
	Detention1SuspectIdentified YesNo `json:"detention1_suspect_identified"`
	Detention1ItemsSeized       YesNo `json:"detention1_items_seized"`

	Detention2Notes             string `json:"detention2_notes"`
	Detention2Score             int    `json:"detention2_score"`
	Detention2RightsRead        YesNo  `json:"detention2_rights_read"`
	Detention2SuspectIdentified YesNo  `json:"detention2_suspect_identified"`
	Detention2ItemsSeized       YesNo  `json:"detention2_items_seized"`

	IncidentScore    int    `json:"incident_score"`
	CrimesCorrect    YesNo  `json:"crimes_correct"`
	PhotoAttached    YesNo  `json:"photo_attached"`
	LayoutCorrect    YesNo  `json:"layout_correct"`
	DescriptionClear YesNo  `json:"description_clear"`
	IncidentErrors   string `json:"incident_errors"`
	FinalRemarks     string `json:"final_remarks"`

	SubmittedAt time.Time `json:"submitted_at"`
}

// IncidentErrorsDisplay returns the "errors observed" text for rendering,
// substituting the placeholder when the reviewer left it empty.
func (e *Evaluation) IncidentErrorsDisplay() string {
	if e.IncidentErrors == "" {
		return IncidentErrorsPlaceholder
	}
	return e.IncidentErrors
}

// NewEvaluation assembles the canonical record from a resolved identity, a
// validated submission, and a server-assigned id and timestamp. It is pure:
// no I/O, no side effects, no reads of ambient state.
func NewEvaluation(reviewer identity.Identity, sub *Submission, id uuid.UUID, now time.Time) Evaluation {
	return Evaluation{
		ID:       id,
		Reviewer: reviewer,

		SubjectName: sub.SubjectName,
		Topic:       sub.Topic,

		PriorEvaluations: sub.PriorEvaluations,
		Robberies:        sub.Robberies,
		Stops:            sub.Stops,
		Pursuits:         sub.Pursuits,
		Detentions:       sub.Detentions,

		RadioScore:   sub.RadioScore,
		RadioNotes:   sub.RadioNotes,
		ConductScore: sub.ConductScore,
		ConductNotes: sub.ConductNotes,

		Detention1Score:             sub.Detention1Score,
		Detention1RightsRead:        sub.Detention1RightsRead,
		Detention1SuspectIdentified: sub.Detention1SuspectIdentified,
		Detention1ItemsSeized:       sub.Detention1ItemsSeized,

		Detention2Notes:             sub.Detention2Notes,
		Detention2Score:             sub.Detention2Score,
		Detention2RightsRead:        sub.Detention2RightsRead,
		Detention2SuspectIdentified: sub.Detention2SuspectIdentified,
		Detention2ItemsSeized:       sub.Detention2ItemsSeized,

		IncidentScore:    sub.IncidentScore,
		CrimesCorrect:    sub.CrimesCorrect,
		PhotoAttached:    sub.PhotoAttached,
		LayoutCorrect:    sub.LayoutCorrect,
		DescriptionClear: sub.DescriptionClear,
		IncidentErrors:   sub.IncidentErrors,
		FinalRemarks:     sub.FinalRemarks,

		SubmittedAt: now.UTC(),
	}
}
