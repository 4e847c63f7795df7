// Package participant implements the client side of the availability protocol:
// one request/response query per participant with strict failure
// classification and tolerant normalization of untrusted payloads.
package participant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/hupe1980/courtmesh/core"
	"github.com/hupe1980/courtmesh/logging"
)

// maxResponseBytes caps how much of a participant response is read. Payloads
// beyond it are untrusted noise.
const maxResponseBytes = 1 << 20

// Options configures a Client.
type Options struct {
	// HTTPClient performs the requests. Defaults to a plain http.Client;
	// per-call deadlines come from the caller's context, not the client.
	HTTPClient *http.Client

	// BreakerEnabled guards every endpoint with a circuit breaker so a dead
	// participant fails fast as Unreachable instead of burning the latency
	// budget. Enabled by default.
	BreakerEnabled bool

	// BreakerFailureThreshold is the number of consecutive transport failures
	// that trips an endpoint's breaker.
	BreakerFailureThreshold uint32

	// BreakerOpenTimeout is how long a tripped breaker stays open.
	BreakerOpenTimeout time.Duration

	// Logger records query outcomes. Defaults to NoOp.
	Logger logging.Logger
}

// Client queries participant availability providers. It is stateless across
// invocations apart from the per-endpoint circuit breakers and safe for
// concurrent use.
type Client struct {
	opts     Options
	breakers *breakerGroup
}

var _ core.AvailabilityQuerier = (*Client)(nil)

// NewClient creates a participant client with optional overrides.
func NewClient(optFns ...func(o *Options)) *Client {
	opts := Options{
		HTTPClient:              &http.Client{},
		BreakerEnabled:          true,
		BreakerFailureThreshold: 5,
		BreakerOpenTimeout:      30 * time.Second,
		Logger:                  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Client{opts: opts, breakers: newBreakerGroup(opts)}
}

// QueryAvailability sends exactly one availability request to the participant
// and classifies the result. It never retries; the negotiation engine owns
// the retry policy. The call is bounded by the context deadline.
//
// Classification:
//   - context deadline / transport timeout: QueryTimeout
//   - connection refused, DNS failure, non-2xx status, open breaker: QueryUnreachable
//   - response body that cannot be parsed into well-formed intervals: QueryMalformed
func (c *Client) QueryAvailability(ctx context.Context, p core.Participant, dateRange core.TimeInterval) core.QueryResult {
	start := time.Now()
	result := c.query(ctx, p, dateRange)
	if l, ok := c.opts.Logger.(*logging.CourtMeshLogger); ok {
		l.LogParticipantQuery(p.ID, result.Status.String(), time.Since(start), result.Err)
	} else {
		c.opts.Logger.Debug("participant query", "participant", p.ID, "status", result.Status.String(), "duration", time.Since(start))
	}
	return result
}

func (c *Client) query(ctx context.Context, p core.Participant, dateRange core.TimeInterval) core.QueryResult {
	do := func() ([]byte, error) { return c.send(ctx, p.Endpoint, dateRange) }

	var body []byte
	var err error
	if breaker := c.breakers.get(p.Endpoint); breaker != nil {
		body, err = breaker.Execute(do)
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return core.QueryResult{ParticipantID: p.ID, Status: core.QueryUnreachable, Err: err}
		}
	} else {
		body, err = do()
	}
	if err != nil {
		return core.QueryResult{ParticipantID: p.ID, Status: classifyTransportError(err), Err: err}
	}

	intervals, ok := decodeAvailability(body)
	if !ok {
		return core.QueryResult{ParticipantID: p.ID, Status: core.QueryMalformed, RawPayload: body}
	}

	return core.QueryResult{
		ParticipantID: p.ID,
		Status:        core.QueryOk,
		Window: core.AvailabilityWindow{
			ParticipantID: p.ID,
			Intervals:     clip(intervals, dateRange),
			AsOf:          time.Now().UTC(),
		},
	}
}

// queryRequest is the fixed outbound wire shape.
type queryRequest struct {
	Range core.TimeInterval `json:"range"`
}

// send performs the single HTTP round trip and returns the raw body.
func (c *Client) send(ctx context.Context, endpoint string, dateRange core.TimeInterval) ([]byte, error) {
	payload, err := json.Marshal(queryRequest{Range: dateRange})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	url := strings.TrimSuffix(endpoint, "/") + "/availability"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("endpoint %s answered status %d", endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}

// classifyTransportError separates "slow" from "down". Deadline, timeout and
// cancellation errors map to QueryTimeout (the call was abandoned in flight,
// not refused), everything else to QueryUnreachable (assumed down, not slow).
func classifyTransportError(err error) core.QueryStatus {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return core.QueryTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return core.QueryTimeout
	}
	return core.QueryUnreachable
}

// clip restricts normalized intervals to the queried range. Participants
// occasionally answer with availability outside the asked window; it must not
// leak into intersection.
func clip(intervals []core.TimeInterval, dateRange core.TimeInterval) []core.TimeInterval {
	return core.IntersectSets(intervals, []core.TimeInterval{dateRange})
}
