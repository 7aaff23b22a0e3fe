package params

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Request is the inbound payload accepted from outer surfaces (HTTP, CLI
// JSON input). Top-level fields are typed any so a wrong type surfaces as a
// ValidationError naming the field rather than a decode failure.
type Request struct {
	InitialColonySize        any            `json:"initialColonySize,omitempty"`
	AlreadySterilized        any            `json:"alreadySterilized,omitempty"`
	MonthlySterilizationRate any            `json:"monthlySterilizationRate,omitempty"`
	SterilizationCost        any            `json:"sterilizationCost,omitempty"`
	SimulationLength         any            `json:"simulationLength,omitempty"`
	MonthlyAbandonment       any            `json:"monthlyAbandonment,omitempty"`
	Params                   map[string]any `json:"params,omitempty"`

	// Seed fixes the random stream; 0 lets the engine pick one.
	Seed int64 `json:"seed,omitempty"`

	UseMonteCarlo        bool `json:"useMonteCarlo,omitempty"`
	NumberOfSimulations  any  `json:"numberOfSimulations,omitempty"`
	VariationCoefficient any  `json:"variationCoefficient,omitempty"`

	// nulls holds top-level keys sent as an explicit JSON null.
	nulls []string
}

// UnmarshalJSON decodes numbers as json.Number and remembers top-level
// parameters sent as null, which would otherwise look like absent keys.
func (r *Request) UnmarshalJSON(data []byte) error {
	type plain Request
	var p plain
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&p); err != nil {
		return err
	}
	req := Request(p)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	top := req.topLevel()
	for k, v := range raw {
		if _, ok := top[k]; ok && bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			req.nulls = append(req.nulls, k)
		}
	}
	sort.Strings(req.nulls)

	*r = req
	return nil
}

func (r Request) topLevel() map[string]any {
	return map[string]any{
		"initialColonySize":        r.InitialColonySize,
		"alreadySterilized":        r.AlreadySterilized,
		"monthlySterilizationRate": r.MonthlySterilizationRate,
		"sterilizationCost":        r.SterilizationCost,
		"simulationLength":         r.SimulationLength,
		"monthlyAbandonment":       r.MonthlyAbandonment,
		"numberOfSimulations":      r.NumberOfSimulations,
		"variationCoefficient":     r.VariationCoefficient,
	}
}

// Overrides flattens the request into a single override map keyed by
// canonical name. Nested params are applied first and top-level fields
// replace them. Two nested keys naming the same parameter are rejected, as
// is a top-level parameter sent as null.
func (r Request) Overrides() (map[string]any, error) {
	out := make(map[string]any, len(r.Params)+8)

	keys := make([]string, 0, len(r.Params))
	for k := range r.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	via := make(map[string]string, len(keys))
	for _, k := range keys {
		c, ok := Canonical(k)
		if !ok {
			// New reports it as unknown.
			c = k
		}
		if prev, dup := via[c]; dup {
			return nil, duplicateError(c, r.Params[k], prev, k)
		}
		via[c] = k
		out[c] = r.Params[k]
	}

	if len(r.nulls) > 0 {
		return nil, &ValidationError{Field: r.nulls[0], Value: nil, Reason: "missing value"}
	}
	for k, v := range r.topLevel() {
		if v != nil {
			out[k] = v
		}
	}
	return out, nil
}

// FromRequest builds a validated Set from an inbound request.
func FromRequest(r Request) (Set, error) {
	overrides, err := r.Overrides()
	if err != nil {
		return Set{}, err
	}
	return New(overrides)
}

func duplicateError(field string, value any, first, second string) error {
	return &ValidationError{
		Field:  field,
		Value:  value,
		Reason: fmt.Sprintf("set more than once (via %s, %s)", first, second),
	}
}
