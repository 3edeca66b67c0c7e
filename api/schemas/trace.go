package schemas

import "time"

// -- Trace Schemas --

// TraceEvent is the record of one dispatched event.
type TraceEvent struct {
	Seq       int    `json:"seq"`
	Type      string `json:"type"`
	Interface string `json:"interface"`
	// Target is a short selector of the event target, e.g. "input#name".
	Target    string      `json:"target"`
	Modifiers KeyModifier `json:"modifiers,omitempty"`

	Key      string `json:"key,omitempty"`
	Code     string `json:"code,omitempty"`
	KeyCode  int    `json:"key_code,omitempty"`
	CharCode int    `json:"char_code,omitempty"`
	Location int    `json:"location,omitempty"`
	Repeat   bool   `json:"repeat,omitempty"`

	Button      int     `json:"button,omitempty"`
	Buttons     int     `json:"buttons,omitempty"`
	Detail      int     `json:"detail,omitempty"`
	ClientX     float64 `json:"client_x,omitempty"`
	ClientY     float64 `json:"client_y,omitempty"`
	PointerID   int     `json:"pointer_id,omitempty"`
	PointerType string  `json:"pointer_type,omitempty"`

	Data      string `json:"data,omitempty"`
	InputType string `json:"input_type,omitempty"`

	DefaultPrevented bool      `json:"default_prevented,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}

// Trace is the ordered event record of one scenario run.
type Trace struct {
	RunID     string       `json:"run_id"`
	Scenario  string       `json:"scenario"`
	StartedAt time.Time    `json:"started_at"`
	Events    []TraceEvent `json:"events"`
}

// ScenarioResult reports one scenario run.
type ScenarioResult struct {
	RunID    string        `json:"run_id"`
	Scenario string        `json:"scenario"`
	File     string        `json:"file,omitempty"`
	Status   RunStatus     `json:"status"`
	Steps    int           `json:"steps"`
	Failures []string      `json:"failures,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
	Trace    *Trace        `json:"trace,omitempty"`
}
