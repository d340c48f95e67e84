package notify

import (
	"fmt"

	"guardpost/internal/review/models"
)

const embedColorGreen = 0x00FF00

type webhookPayload struct {
	Embeds []embed `json:"embeds"`
}

type embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Color       int          `json:"color"`
	Fields      []embedField `json:"fields"`
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// renderEmbed builds the fixed-structure human-readable summary of a record.
// Free-text fields that may be empty render a placeholder instead of an
// empty embed value, which the platform rejects.
func renderEmbed(e *models.Evaluation) embed {
	return embed{
		Title:       "New guard evaluation",
		Description: fmt.Sprintf("Evaluation submitted by <@%s>", e.Reviewer.ID),
		Color:       embedColorGreen,
		Fields: []embedField{
			{Name: "Subject", Value: e.SubjectName},
			{Name: "Topic", Value: e.Topic},
			{Name: "Activity", Value: fmt.Sprintf(
				"Prior evaluations: **%d**\nRobberies: **%d**\nStops: **%d**",
				e.PriorEvaluations, e.Robberies, e.Stops)},
			{Name: "Actions", Value: fmt.Sprintf(
				"Pursuits: **%d**\nDetentions: **%d**",
				e.Pursuits, e.Detentions)},
			{Name: "Radio", Value: fmt.Sprintf(
				"Score: **%d/10**\nNotes: %s", e.RadioScore, e.RadioNotes)},
			{Name: "Conduct", Value: fmt.Sprintf(
				"Score: **%d/10**\nNotes: %s", e.ConductScore, e.ConductNotes)},
			{Name: "Detention 1", Value: fmt.Sprintf(
				"Score: **%d/10**\nRights read: **%s**\nSuspect identified: **%s**\nItems seized: **%s**",
				e.Detention1Score, e.Detention1RightsRead, e.Detention1SuspectIdentified, e.Detention1ItemsSeized)},
			{Name: "Detention 2", Value: fmt.Sprintf(
				"Score: **%d/10**\nNotes: %s\nRights read: **%s**\nSuspect identified: **%s**\nItems seized: **%s**",
				e.Detention2Score, e.Detention2Notes, e.Detention2RightsRead, e.Detention2SuspectIdentified, e.Detention2ItemsSeized)},
			{Name: "Incident", Value: fmt.Sprintf(
				"Score: **%d/10**\nCrimes correct: **%s**\nPhoto attached: **%s**\nLayout correct: **%s**\nDescription clear: **%s**",
				e.IncidentScore, e.CrimesCorrect, e.PhotoAttached, e.LayoutCorrect, e.DescriptionClear)},
			{Name: "Errors observed", Value: e.IncidentErrorsDisplay()},
			{Name: "Final remarks", Value: e.FinalRemarks},
			{Name: "Reviewer", Value: e.Reviewer.DisplayTag()},
		},
	}
}
