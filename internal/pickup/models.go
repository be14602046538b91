// Package pickup implements the waste-pickup decision pipeline: request
// normalization, structural validation, the two advisory stages, the
// optimization stage, and the orchestrator that assembles the response.
package pickup

import (
	"encoding/json"
	"strings"
)

// Stage layers, in pipeline order.
const (
	LayerContext         = "layer1"
	LayerPersonalization = "layer2"
	LayerOptimization    = "optimization"
	LayerFinal           = "final"
)

// Stage titles. Fixed per layer regardless of how the text was produced.
const (
	TitleContext         = "Layer 1: Global Context Intelligence Agent"
	TitlePersonalization = "Layer 2: Personalized Decision Agent"
	TitleOptimization    = "Optimization and Pooling"
	TitleFinal           = "Pickup Scheduled"
)

// TextSource tags where an advisory text came from.
type TextSource string

const (
	// SourceModel marks text produced by the external text-generation call.
	SourceModel TextSource = "model"

	// SourceFallback marks deterministic template text used after the
	// external call failed, timed out, or was disabled.
	SourceFallback TextSource = "fallback"
)

// Request is the raw inbound request. Every field is optional; pointer
// fields distinguish absent from zero-valued.
type Request struct {
	CompanyID    *string           `json:"companyId,omitempty"`
	CompanySize  *string           `json:"companySize,omitempty"`
	Industry     *string           `json:"industry,omitempty"`
	RiskAppetite *string           `json:"riskAppetite,omitempty"`
	City         *string           `json:"city,omitempty"`
	State        *string           `json:"state,omitempty"`
	WasteItems   *[]WasteItemInput `json:"wasteItems,omitempty"`

	// raw keeps the received body so Empty and Seed reflect what the
	// caller actually sent, including keys the struct does not model.
	raw json.RawMessage
}

// UnmarshalJSON decodes the typed fields and retains the raw body.
func (r *Request) UnmarshalJSON(data []byte) error {
	type plain Request
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Request(p)
	r.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON emits the typed fields only.
func (r Request) MarshalJSON() ([]byte, error) {
	type plain Request
	return json.Marshal(plain(r))
}

// Empty reports whether the request carried zero fields. A request with
// only unknown keys is not empty.
func (r Request) Empty() bool {
	if len(r.raw) > 0 {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(r.raw, &fields); err == nil {
			return len(fields) == 0
		}
	}
	return r.CompanyID == nil && r.CompanySize == nil && r.Industry == nil &&
		r.RiskAppetite == nil && r.City == nil && r.State == nil && r.WasteItems == nil
}

// Seed returns the canonical JSON encoding of the request. Byte-identical
// requests, and requests differing only in key order, share a seed, so
// the whole pipeline is reproducible from request content alone.
func (r Request) Seed() string {
	if len(r.raw) > 0 {
		var value any
		if err := json.Unmarshal(r.raw, &value); err == nil {
			if canonical, err := json.Marshal(value); err == nil {
				return string(canonical)
			}
		}
	}
	encoded, err := json.Marshal(r)
	if err != nil {
		return ""
	}
	return string(encoded)
}

// WasteItemInput is a raw waste item. All fields optional.
type WasteItemInput struct {
	Material *string        `json:"material,omitempty"`
	Quantity *Quantity      `json:"quantity,omitempty"`
	Unit     *string        `json:"unit,omitempty"`
	Location *LocationInput `json:"location,omitempty"`
}

// LocationInput is a raw, possibly partial location.
type LocationInput struct {
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
	Address *string  `json:"address,omitempty"`
}

// Quantity decodes a JSON quantity value leniently: a non-numeric value
// is recorded as invalid rather than failing the whole request, so the
// normalizer can replace it with a default.
type Quantity struct {
	value float64
	valid bool
}

// NewQuantity wraps a numeric quantity.
func NewQuantity(value float64) *Quantity {
	return &Quantity{value: value, valid: true}
}

// UnmarshalJSON never fails; non-numeric input leaves the quantity invalid.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		q.value = f
		q.valid = true
	}
	return nil
}

// MarshalJSON encodes the numeric value, or null when invalid.
func (q Quantity) MarshalJSON() ([]byte, error) {
	if !q.valid {
		return []byte("null"), nil
	}
	return json.Marshal(q.value)
}

// Float64 returns the numeric value and whether it was a valid number.
func (q *Quantity) Float64() (float64, bool) {
	if q == nil || !q.valid {
		return 0, false
	}
	return q.value, true
}

// NormalizedRequest is the canonical request: every required field
// present, wasteItems non-empty. Read-only after normalization.
type NormalizedRequest struct {
	CompanyID    string      `json:"companyId"`
	CompanySize  string      `json:"companySize"`
	Industry     string      `json:"industry"`
	RiskAppetite string      `json:"riskAppetite"`
	City         string      `json:"city,omitempty"`
	State        string      `json:"state,omitempty"`
	WasteItems   []WasteItem `json:"wasteItems"`
}

// WasteItem is a fully-specified waste item.
type WasteItem struct {
	Material string   `json:"material"`
	Quantity float64  `json:"quantity"`
	Unit     string   `json:"unit"`
	Location Location `json:"location"`
}

// Location is a fully-specified pickup location.
type Location struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Address string  `json:"address"`
}

// StageMessage is one advisory message. Exactly four are produced per
// successful run, in layer order.
type StageMessage struct {
	Layer     string `json:"layer"`
	Title     string `json:"title"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`

	// Set on the optimization message only.
	OptimizationMetrics *OptimizationMetrics `json:"optimizationMetrics,omitempty"`
	RoutingNotes        *RoutingNotes        `json:"routingNotes,omitempty"`
}

// OptimizationMetrics are illustrative scores drawn from the seeded RNG.
type OptimizationMetrics struct {
	ProfitScore       float64 `json:"profitScore"`
	PoolingEfficiency float64 `json:"poolingEfficiency"`
	RouteOptimality   float64 `json:"routeOptimality"`
}

// RoutingNotes echo upstream advisory signals on the optimization message.
type RoutingNotes struct {
	DemandSignal string `json:"demandSignal"`
	RiskAppetite string `json:"riskAppetite"`
}

// Stop is one pickup stop on the synthesized route.
type Stop struct {
	Address          string  `json:"address"`
	ExpectedQuantity float64 `json:"expectedQuantity"`
}

// Route is the synthesized pickup route.
type Route struct {
	RouteID    string `json:"routeId"`
	ETAMinutes int    `json:"etaMinutes"`
	Stops      []Stop `json:"stops"`
}

// Pickup is the scheduled pickup plan.
type Pickup struct {
	Scheduled             bool   `json:"scheduled"`
	Date                  string `json:"date"`
	DateTime              string `json:"dateTime"`
	DateTimeLocal         string `json:"dateTimeLocal"`
	TimezoneOffsetMinutes int    `json:"timezoneOffsetMinutes"`
	Route                 Route  `json:"route"`
}

// Response is the terminal pipeline artifact. Never mutated after
// assembly.
type Response struct {
	RequestID string         `json:"requestId"`
	Status    string         `json:"status"`
	Messages  []StageMessage `json:"messages"`
	Pickup    Pickup         `json:"pickup"`
	Warnings  []string       `json:"warnings,omitempty"`
}

// ValidationError reports structural validation failures found after
// normalization. It is returned, not panicked; the HTTP layer renders it
// with the itemized reasons.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Reasons, "; ")
}
