package handler

import (
	"encoding/csv"
	"io"
	"strconv"

	"guardpost/internal/review/models"
)

// exportHeader is the fixed six-column header of the CSV export. Column
// order is part of the external contract; downstream spreadsheets key on it.
var exportHeader = []string{"Name", "Topic", "Reviewer", "Conduct Score", "Detention Score", "Incident Score"}

// writeCSV streams one row per record in storage iteration order.
func writeCSV(w io.Writer, evaluations []models.Evaluation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for i := range evaluations {
		e := &evaluations[i]
		row := []string{
			e.SubjectName,
			e.Topic,
			e.Reviewer.DisplayTag(),
			strconv.Itoa(e.ConductScore),
			strconv.Itoa(e.Detention1Score),
			strconv.Itoa(e.IncidentScore),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
