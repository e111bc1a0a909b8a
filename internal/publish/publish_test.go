package publish

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/demand-capture/internal/capture"
)

func capturedOutcome() capture.Outcome {
	return capture.Outcome{
		Status:          capture.StatusDataCaptured,
		CurrentDemand:   "12,345 MW",
		YesterdayDemand: "11,000 MW",
		TimeBlock:       "10:15 - 10:30",
		Date:            time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC),
		CapturedAt:      time.Date(2024, time.January, 5, 10, 31, 0, 0, time.UTC),
	}
}

func TestPublishDataCaptured(t *testing.T) {
	var requests []url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.Query())
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewPublisher(srv.URL, 0)
	p.Publish(context.Background(), capturedOutcome())

	require.Len(t, requests, 1, "exactly one request per cycle")
	q := requests[0]
	assert.Equal(t, "DataCaptured", q.Get("status"))
	assert.Equal(t, "2024-01-05", q.Get("date"))
	assert.Equal(t, "10:15-10:30", q.Get("time"))
	assert.Equal(t, "12345", q.Get("current"))
	assert.Equal(t, "11000", q.Get("yesterday"))
}

func TestPublishFailureStatusCarriesOnlyStatus(t *testing.T) {
	var requests []url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.Query())
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewPublisher(srv.URL, 0)
	p.Publish(context.Background(), capture.Outcome{Status: capture.StatusParsingFailed})

	require.Len(t, requests, 1)
	q := requests[0]
	assert.Equal(t, "ParsingFailed", q.Get("status"))
	assert.Len(t, q, 1, "failure statuses carry no data fields")
}

func TestPublishSwallowsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	p := NewPublisher(srv.URL, time.Second)
	assert.NotPanics(t, func() {
		p.Publish(context.Background(), capturedOutcome())
	})
}

func TestPublishSwallowsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewPublisher(srv.URL, 0)
	assert.NotPanics(t, func() {
		p.Publish(context.Background(), capturedOutcome())
	})
}

func TestParams(t *testing.T) {
	tests := []struct {
		name     string
		outcome  capture.Outcome
		expected map[string]string
	}{
		{
			name:    "Full capture",
			outcome: capturedOutcome(),
			expected: map[string]string{
				"status":    "DataCaptured",
				"date":      "2024-01-05",
				"time":      "10:15-10:30",
				"current":   "12345",
				"yesterday": "11000",
			},
		},
		{
			name:     "Timeout carries only status",
			outcome:  capture.Outcome{Status: capture.StatusTimeout},
			expected: map[string]string{"status": "TimeoutError"},
		},
		{
			name:     "Scraping failure carries only status",
			outcome:  capture.Outcome{Status: capture.StatusScrapingFailed},
			expected: map[string]string{"status": "ScrapingFailed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Params(tt.outcome))
		})
	}
}
