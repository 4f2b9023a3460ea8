package tadau

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// Reporter sends usage events to the Google Analytics 4 Measurement
// Protocol collect endpoint. It holds immutable configuration and is safe
// for concurrent use.
//
// Sending is best-effort by contract: once constructed, no call on the
// reporter ever returns an error to the caller. Telemetry must never
// break the host application.
type Reporter struct {
	config    *Config
	targetURL string
	client    HTTPDoer
	logger    Logger
	inst      *instruments
}

// New creates a reporter from functional options.
//
// Example usage:
//
//	reporter, err := tadau.New(
//	    tadau.WithAPISecret(secret),
//	    tadau.WithMeasurementID(id),
//	    tadau.WithOptInString(os.Getenv("TADAU_OPT_IN")),
//	)
//
// Example usage with a config file:
//
//	reporter, err := tadau.New(tadau.WithConfigFile("my_solution/config.yaml"))
func New(opts ...Option) (*Reporter, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return NewFromConfig(cfg)
}

// NewFromConfig creates a reporter from an already built configuration.
// The configuration is validated again so a hand-assembled Config cannot
// bypass the credential invariants.
func NewFromConfig(cfg *Config) (*Reporter, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = &NoOpLogger{}
	}
	client := cfg.HTTPClient
	if client == nil {
		client = NewTracedHTTPClient(nil)
	}
	collect := cfg.CollectURL
	if collect == "" {
		collect = DefaultCollectURL
	}

	// The target URL is fixed for the reporter's lifetime.
	q := url.Values{}
	q.Set("api_secret", cfg.APISecret)
	q.Set("measurement_id", cfg.MeasurementID)

	return &Reporter{
		config:    cfg,
		targetURL: collect + "?" + q.Encode(),
		client:    client,
		logger:    logger,
		inst:      newInstruments(),
	}, nil
}

// SendResult records the outcome of dispatching a single event.
type SendResult struct {
	EventName  string // Sanitized event name, "" when the event had none
	ClientID   string // Client ID used for the dispatch
	StatusCode int    // HTTP status from the collect endpoint, 0 on failure
	Err        error  // Non-nil when the event was skipped or failed
}

// BatchReport aggregates per-event outcomes of one SendEvents call.
type BatchReport []SendResult

// Sent returns the number of events that were dispatched.
func (r BatchReport) Sent() int {
	n := 0
	for _, res := range r {
		if res.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the number of events that were skipped or failed.
func (r BatchReport) Failed() int {
	return len(r) - r.Sent()
}

// SendEvents dispatches each event as an independent POST request to the
// collect endpoint. It never returns an error: per-event failures are
// logged, recorded in the report, and do not affect sibling events.
//
// Returns nil when the reporter is not opted in, its configuration is
// incomplete, or the batch is empty.
func (r *Reporter) SendEvents(ctx context.Context, events []Event) BatchReport {
	if !r.enabled() {
		return nil
	}
	if len(events) == 0 {
		// Avoids sending empty hits (e.g. only a client id).
		r.logger.Debug("Skipping empty event batch", nil)
		return nil
	}

	ctx, span := r.inst.tracer.Start(ctx, "tadau.send_events")
	defer span.End()
	span.SetAttributes(attribute.Int("tadau.batch_size", len(events)))

	report := make(BatchReport, 0, len(events))
	for _, ev := range events {
		res := r.sendOne(ctx, ev)
		if res.Err != nil {
			r.inst.addFailed(ctx)
		} else {
			r.inst.addSent(ctx)
		}
		report = append(report, res)
	}
	return report
}

// enabled reports whether the reporter may produce network traffic
func (r *Reporter) enabled() bool {
	return r.config.OptIn && r.config.APISecret != "" && r.config.MeasurementID != ""
}

// sendOne validates, shapes and dispatches a single event. Every failure
// path is absorbed into the result; the recover guard keeps a misbehaving
// value (e.g. an unmarshalable parameter) from aborting the batch.
func (r *Reporter) sendOne(ctx context.Context, ev Event) (res SendResult) {
	defer func() {
		if rec := recover(); rec != nil {
			res.Err = fmt.Errorf("panic while sending event: %v", rec)
			r.logger.Error("Recovered from panic while sending event", map[string]interface{}{
				"event": ev,
				"panic": rec,
			})
		}
	}()

	name := ev.name()
	if name == "" {
		r.logger.Warn("Skipping event without a name", map[string]interface{}{
			"event": ev,
		})
		res.Err = ErrMissingEventName
		return res
	}
	res.EventName = sanitizeEventName(name)

	// Uses the given client_id or generates a random one.
	clientID := ev.stringField("client_id")
	if clientID == "" {
		clientID = uuid.New().String()
	}
	res.ClientID = clientID

	// Starts from a copy of the fixed dimensions and overlays the event's
	// own parameters. The shared map is never mutated.
	params := make(map[string]interface{}, len(r.config.FixedDimensions)+len(ev))
	for k, v := range r.config.FixedDimensions {
		params[k] = v
	}
	for k, v := range ev {
		if _, reserved := reservedKeys[k]; reserved {
			continue
		}
		if !isTruthy(v) {
			r.logger.Warn("Dropping event parameter with empty value", map[string]interface{}{
				"key":   k,
				"value": v,
			})
			continue
		}
		params[k] = v
	}

	payload := collectPayload{
		NonPersonalizedAds: true,
		ClientID:           clientID,
		UserID:             ev.stringField("user_id"),
		Events: []eventPayload{{
			Name:   res.EventName,
			Params: params,
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		r.logger.Error("Failed to serialize event payload", map[string]interface{}{
			"event": ev,
			"error": err.Error(),
		})
		res.Err = fmt.Errorf("failed to serialize payload: %w", err)
		return res
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.targetURL, bytes.NewReader(body))
	if err != nil {
		r.logger.Error("Failed to build collect request", map[string]interface{}{
			"event": ev,
			"error": err.Error(),
		})
		res.Err = fmt.Errorf("failed to build request: %w", err)
		return res
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error("Failed to send event", map[string]interface{}{
			"event": ev,
			"error": err.Error(),
		})
		res.Err = fmt.Errorf("failed to send event: %w", err)
		return res
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	// Fire-and-forget: the status is diagnostic only.
	res.StatusCode = resp.StatusCode
	r.logger.Debug("Event dispatched", map[string]interface{}{
		"name":        res.EventName,
		"status_code": resp.StatusCode,
	})
	return res
}

// SendAdsEvent sends an ads interaction event.
//
// Parameters:
//   - eventAction: the action taken (e.g. "create")
//   - eventContext: the context the action ran in
//   - adsPlatform: the ads platform (e.g. GAds, GA, CM, DV)
//   - adsPlatformID: the ads platform id (e.g. account identifier, cid)
//   - adsResource: the ads resource (e.g. conversionAction)
//   - adsResourceID: the ads resource id
func (r *Reporter) SendAdsEvent(ctx context.Context, eventAction, eventContext, adsPlatform, adsPlatformID, adsResource, adsResourceID string) BatchReport {
	return r.SendEvents(ctx, []Event{{
		"name":                   "ads-event",
		"event_is_impact_action": true,
		"event_action":           eventAction,
		"event_context":          eventContext,
		"ads_platform":           adsPlatform,
		"ads_platform_id":        adsPlatformID,
		"ads_resource":           adsResource,
		"ads_resource_id":        adsResourceID,
	}})
}

// SendCustomEvent sends a free-form usage event.
func (r *Reporter) SendCustomEvent(ctx context.Context, eventAction string, eventIsImpactAction bool, eventContext string) BatchReport {
	return r.SendEvents(ctx, []Event{{
		"name":                   "custom-event",
		"event_action":           eventAction,
		"event_is_impact_action": eventIsImpactAction,
		"event_context":          eventContext,
	}})
}

// SendErrorEvent reports an error observed by the host application.
func (r *Reporter) SendErrorEvent(ctx context.Context, errorMessage, errorCode, errorLocation, errorLocationID string) BatchReport {
	return r.SendEvents(ctx, []Event{{
		"name":              "error-event",
		"error_message":     errorMessage,
		"error_code":        errorCode,
		"error_location":    errorLocation,
		"error_location_id": errorLocationID,
	}})
}
