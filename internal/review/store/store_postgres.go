package store

import (
	"context"
	"database/sql"
	"fmt"

	"guardpost/internal/review/models"
)

// PostgresStore persists evaluations in PostgreSQL. Records are only ever
// inserted; no statement in this store updates or deletes rows.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed evaluation store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, e *models.Evaluation) error {
	if e == nil {
		return fmt.Errorf("evaluation is required")
	}

	query := `
		INSERT INTO evaluations (
			id,
			reviewer_id, reviewer_username, reviewer_global_name,
			subject_name, topic,
			prior_evaluations, robberies, stops, pursuits, detentions,
			radio_score, radio_notes, conduct_score, conduct_notes,
			detention1_score, detention1_rights_read, detention1_suspect_identified, detention1_items_seized,
			detention2_notes, detention2_score, detention2_rights_read, detention2_suspect_identified, detention2_items_seized,
			incident_score, crimes_correct, photo_attached, layout_correct, description_clear,
			incident_errors, final_remarks,
			submitted_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32
		)
	`
	_, err := s.db.ExecContext(ctx, query,
		e.ID,
		e.Reviewer.ID, e.Reviewer.Username, e.Reviewer.GlobalName,
		e.SubjectName, e.Topic,
		e.PriorEvaluations, e.Robberies, e.Stops, e.Pursuits, e.Detentions,
		e.RadioScore, e.RadioNotes, e.ConductScore, e.ConductNotes,
		e.Detention1Score, string(e.Detention1RightsRead), string(e.Detention1SuspectIdentified), string(e.Detention1ItemsSeized),
		e.Detention2Notes, e.Detention2Score, string(e.Detention2RightsRead), string(e.Detention2SuspectIdentified), string(e.Detention2ItemsSeized),
		e.IncidentScore, string(e.CrimesCorrect), string(e.PhotoAttached), string(e.LayoutCorrect), string(e.DescriptionClear),
		e.IncidentErrors, e.FinalRemarks,
		e.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("append evaluation: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]models.Evaluation, error) {
	query := `
		SELECT
			id,
			reviewer_id, reviewer_username, reviewer_global_name,
			subject_name, topic,
			prior_evaluations, robberies, stops, pursuits, detentions,
			radio_score, radio_notes, conduct_score, conduct_notes,
			detention1_score, detention1_rights_read, detention1_suspect_identified, detention1_items_seized,
			detention2_notes, detention2_score, detention2_rights_read, detention2_suspect_identified, detention2_items_seized,
			incident_score, crimes_correct, photo_attached, layout_correct, description_clear,
			incident_errors, final_remarks,
			submitted_at
		FROM evaluations
		ORDER BY submitted_at, id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	defer rows.Close()

	var out []models.Evaluation
	for rows.Next() {
		var e models.Evaluation
		err := rows.Scan(
			&e.ID,
			&e.Reviewer.ID, &e.Reviewer.Username, &e.Reviewer.GlobalName,
			&e.SubjectName, &e.Topic,
			&e.PriorEvaluations, &e.Robberies, &e.Stops, &e.Pursuits, &e.Detentions,
			&e.RadioScore, &e.RadioNotes, &e.ConductScore, &e.ConductNotes,
			&e.Detention1Score, &e.Detention1RightsRead, &e.Detention1SuspectIdentified, &e.Detention1ItemsSeized,
			&e.Detention2Notes, &e.Detention2Score, &e.Detention2RightsRead, &e.Detention2SuspectIdentified, &e.Detention2ItemsSeized,
			&e.IncidentScore, &e.CrimesCorrect, &e.PhotoAttached, &e.LayoutCorrect, &e.DescriptionClear,
			&e.IncidentErrors, &e.FinalRemarks,
			&e.SubmittedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate evaluations: %w", err)
	}
	return out, nil
}
