package schemas_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/xkilldash9x/userevent/api/schemas"
)

// TestStructJSONTags verifies the json tags of the trace output, which is
// consumed by other tools.
func TestStructJSONTags(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name         string
		structRef    interface{}
		expectedTags map[string]string
	}{
		{
			name:      "Trace",
			structRef: schemas.Trace{},
			expectedTags: map[string]string{
				"RunID":     "run_id",
				"Scenario":  "scenario",
				"StartedAt": "started_at",
				"Events":    "events",
			},
		},
		{
			name:      "TraceEvent",
			structRef: schemas.TraceEvent{},
			expectedTags: map[string]string{
				"Seq":              "seq",
				"Type":             "type",
				"Target":           "target",
				"Modifiers":        "modifiers,omitempty",
				"KeyCode":          "key_code,omitempty",
				"DefaultPrevented": "default_prevented,omitempty",
				"InputType":        "input_type,omitempty",
			},
		},
		{
			name:      "ScenarioResult",
			structRef: schemas.ScenarioResult{},
			expectedTags: map[string]string{
				"RunID":    "run_id",
				"Status":   "status",
				"Failures": "failures,omitempty",
				"Trace":    "trace,omitempty",
			},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			typ := reflect.TypeOf(tc.structRef)
			for field, want := range tc.expectedTags {
				f, ok := typ.FieldByName(field)
				require.True(t, ok, "field %s missing on %s", field, tc.name)
				assert.Equal(t, want, f.Tag.Get("json"), "json tag of %s.%s", tc.name, field)
			}
		})
	}
}

func TestModifiersOf(t *testing.T) {
	t.Parallel()
	assert.Equal(t, schemas.ModNone, schemas.ModifiersOf(false, false, false, false))
	m := schemas.ModifiersOf(true, false, false, true)
	assert.Equal(t, schemas.KeyModifier(9), m)
	assert.True(t, m.Has(schemas.ModShift))
	assert.True(t, m.Has(schemas.ModAlt|schemas.ModShift))
	assert.False(t, m.Has(schemas.ModCtrl))
}

func TestScenarioYAML(t *testing.T) {
	t.Parallel()
	doc := `
name: sign in
html: <input id="name"/>
options:
  delay: 5ms
  skip_hover: true
steps:
  - action: type
    target: "#name"
    text: Sup
    selection_start: 0
  - action: pointer
    pointer:
      - keys: "[MouseLeft]"
        target: "xpath://input"
        offset: 2
expect:
  - target: "#name"
    value: Sup
    events: [input, input, input]
`
	var s schemas.Scenario
	require.NoError(t, yaml.Unmarshal([]byte(doc), &s))

	assert.Equal(t, "sign in", s.Name)
	require.NotNil(t, s.Options.Delay)
	assert.Equal(t, 5*time.Millisecond, *s.Options.Delay)
	require.NotNil(t, s.Options.SkipHover)
	assert.True(t, *s.Options.SkipHover)
	assert.Nil(t, s.Options.SkipClick)

	require.Len(t, s.Steps, 2)
	assert.Equal(t, schemas.ActionType, s.Steps[0].Action)
	require.NotNil(t, s.Steps[0].SelectionStart)
	assert.Equal(t, 0, *s.Steps[0].SelectionStart)
	require.Len(t, s.Steps[1].Pointer, 1)
	assert.Equal(t, "xpath://input", s.Steps[1].Pointer[0].Target)
	assert.Equal(t, 2, *s.Steps[1].Pointer[0].Offset)

	require.Len(t, s.Expect, 1)
	assert.Equal(t, "Sup", *s.Expect[0].Value)
	assert.Equal(t, []string{"input", "input", "input"}, s.Expect[0].Events)
}
