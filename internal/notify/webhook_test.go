package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guardpost/internal/identity"
	"guardpost/internal/review/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func sampleEvaluation() *models.Evaluation {
	return &models.Evaluation{
		ID:           uuid.New(),
		Reviewer:     identity.Identity{ID: "42", Username: "ana"},
		SubjectName:  "J. Ferreira",
		Topic:        "night patrol",
		RadioScore:   8,
		RadioNotes:   "clear",
		ConductScore: 9,
		ConductNotes: "calm",
		FinalRemarks: "solid",
		SubmittedAt:  time.Now().UTC(),
	}
}

func TestNotifyPostsEmbed(t *testing.T) {
	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	d := New(srv.URL, time.Second, discardLogger())
	d.Notify(context.Background(), sampleEvaluation())

	require.Len(t, got.Embeds, 1)
	e := got.Embeds[0]
	assert.Equal(t, "New guard evaluation", e.Title)
	assert.Equal(t, "Evaluation submitted by <@42>", e.Description)

	byName := map[string]string{}
	for _, f := range e.Fields {
		byName[f.Name] = f.Value
	}
	assert.Equal(t, "J. Ferreira", byName["Subject"])
	assert.Equal(t, "ana", byName["Reviewer"])
	assert.Equal(t, models.IncidentErrorsPlaceholder, byName["Errors observed"],
		"empty errors field renders the placeholder")
}

func TestNotifySwallowsFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "slow endpoint",
			handler: func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(200 * time.Millisecond)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			d := New(srv.URL, 50*time.Millisecond, discardLogger())

			// Must not panic or propagate anything.
			d.Notify(context.Background(), sampleEvaluation())
		})
	}
}

func TestNotifyWithoutWebhookIsNoop(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	d := New("", time.Second, discardLogger())
	d.Notify(context.Background(), sampleEvaluation())

	assert.Zero(t, calls.Load())
}
