package server

import (
	"encoding/json"
	"html/template"
	"log"
	"net/http"

	"github.com/jonathan/demand-capture/internal/db"
	"github.com/jonathan/demand-capture/internal/parsing"
)

// ChartWindow bounds the number of records returned for charting.
const ChartWindow = 48

// LatestDataCard is the human-formatted view of the most recent record.
type LatestDataCard struct {
	CurrentDemand   string `json:"current_demand"`
	YesterdayDemand string `json:"yesterday_demand"`
	TimeBlock       string `json:"time_block"`
	Date            string `json:"date"`
	CapturedAt      string `json:"captured_at"`
}

// ChartData holds parallel arrays for the demand chart, ordered oldest to
// newest.
type ChartData struct {
	Labels    []string  `json:"labels"`
	Current   []float64 `json:"current"`
	Yesterday []float64 `json:"yesterday"`
	// IntervalSeconds is the gap between a capture and the one before it;
	// the first entry is always 0.
	IntervalSeconds []float64 `json:"interval_seconds"`
}

// DemandResponse is the /api/demand payload.
type DemandResponse struct {
	LatestDataCard *LatestDataCard `json:"latest_data_card"`
	ChartData      ChartData       `json:"chart_data"`
}

// handleDemandData serves the charting JSON: the latest record as a card
// plus the recent history as parallel series.
func (s *Server) handleDemandData(w http.ResponseWriter, r *http.Request) {
	records, err := s.records.ListRecent(r.Context(), ChartWindow)
	if err != nil {
		log.Printf("Failed to list demand records: %v", err)
		http.Error(w, "failed to load demand data", http.StatusInternalServerError)
		return
	}

	// ListRecent returns newest first; the chart wants oldest to newest.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}

	resp := DemandResponse{ChartData: buildChartData(records)}
	if len(records) > 0 {
		resp.LatestDataCard = buildCard(records[len(records)-1])
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("Failed to encode demand response: %v", err)
	}
}

func buildCard(rec db.DemandRecord) *LatestDataCard {
	card := &LatestDataCard{
		CurrentDemand:   rec.CurrentDemand,
		YesterdayDemand: rec.YesterdayDemand,
		CapturedAt:      rec.CapturedAt.Format("2006-01-02 15:04:05"),
	}
	if rec.TimeBlock != nil {
		card.TimeBlock = *rec.TimeBlock
	}
	if rec.Date != nil {
		card.Date = parsing.FormatDate(*rec.Date)
	}
	return card
}

func buildChartData(records []db.DemandRecord) ChartData {
	chart := ChartData{
		Labels:          make([]string, 0, len(records)),
		Current:         make([]float64, 0, len(records)),
		Yesterday:       make([]float64, 0, len(records)),
		IntervalSeconds: make([]float64, 0, len(records)),
	}

	for i, rec := range records {
		label := ""
		if rec.TimeBlock != nil {
			label = *rec.TimeBlock
		}
		if label == "" {
			label = rec.CapturedAt.Format("15:04")
		}
		chart.Labels = append(chart.Labels, label)

		current, _ := parsing.DemandValue(rec.CurrentDemand)
		yesterday, _ := parsing.DemandValue(rec.YesterdayDemand)
		chart.Current = append(chart.Current, current)
		chart.Yesterday = append(chart.Yesterday, yesterday)

		interval := 0.0
		if i > 0 {
			interval = rec.CapturedAt.Sub(records[i-1].CapturedAt).Seconds()
		}
		chart.IntervalSeconds = append(chart.IntervalSeconds, interval)
	}

	return chart
}

// handleHealth returns server liveness and database reachability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "database": "ok"}
	code := http.StatusOK
	if err := s.records.Ping(r.Context()); err != nil {
		status["database"] = "unreachable"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(status)
}

var homeTemplate = template.Must(template.New("home").Parse(`<!DOCTYPE html>
<html>
<head><title>Power Demand</title></head>
<body>
<h1>Latest Power Demand</h1>
{{if .}}
<table>
  <tr><th>Current Demand</th><td>{{.CurrentDemand}}</td></tr>
  <tr><th>Yesterday Demand</th><td>{{.YesterdayDemand}}</td></tr>
  <tr><th>Time Block</th><td>{{.TimeBlock}}</td></tr>
  <tr><th>Date</th><td>{{.Date}}</td></tr>
  <tr><th>Captured At</th><td>{{.CapturedAt}}</td></tr>
</table>
{{else}}
<p>No data captured yet.</p>
{{end}}
</body>
</html>
`))

// handleHome renders the latest record as a plain HTML page.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	latest, err := s.records.LatestRecord(r.Context())
	if err != nil {
		log.Printf("Failed to load latest record: %v", err)
		http.Error(w, "failed to load latest record", http.StatusInternalServerError)
		return
	}

	var card *LatestDataCard
	if latest != nil {
		card = buildCard(*latest)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := homeTemplate.Execute(w, card); err != nil {
		log.Printf("Failed to render home page: %v", err)
	}
}
