// Package publish pushes each cycle's outcome to the downstream demand API.
// The push is fire and forget: a transport failure never affects the rest of
// the cycle.
package publish

import (
	"context"
	"log"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jonathan/demand-capture/internal/capture"
	"github.com/jonathan/demand-capture/internal/parsing"
)

// DefaultTimeout bounds the outbound API call.
const DefaultTimeout = 10 * time.Second

// Publisher sends one GET per cycle to the downstream API endpoint.
type Publisher struct {
	client   *resty.Client
	endpoint string
}

// NewPublisher creates a Publisher. timeout <= 0 uses DefaultTimeout.
func NewPublisher(endpoint string, timeout time.Duration) *Publisher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Publisher{
		client:   resty.New().SetTimeout(timeout),
		endpoint: endpoint,
	}
}

// Publish sends the outcome. The request always carries the status; a fully
// captured outcome additionally carries the cleaned demand values, the date
// as YYYY-MM-DD and the time block as HH:MM-HH:MM. Transport failures and
// non-2xx responses are logged and swallowed.
func (p *Publisher) Publish(ctx context.Context, outcome capture.Outcome) {
	params := Params(outcome)

	log.Printf("[PUBLISH] Pushing status %s to %s", outcome.Status, p.endpoint)
	res, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(p.endpoint)
	if err != nil {
		log.Printf("[PUBLISH] API call failed: %v", err)
		return
	}

	if res.IsSuccess() {
		log.Printf("[PUBLISH] API call successful (status %d): %s", res.StatusCode(), res.String())
	} else {
		log.Printf("[PUBLISH] API call returned status %d: %s", res.StatusCode(), res.String())
	}
}

// Params builds the query parameter set for an outcome.
func Params(outcome capture.Outcome) map[string]string {
	params := map[string]string{"status": string(outcome.Status)}
	if outcome.Status != capture.StatusDataCaptured {
		return params
	}

	params["date"] = parsing.FormatDate(outcome.Date)
	params["time"] = parsing.CompactTimeBlock(outcome.TimeBlock)
	params["current"] = parsing.CleanDemand(outcome.CurrentDemand)
	params["yesterday"] = parsing.CleanDemand(outcome.YesterdayDemand)
	return params
}
