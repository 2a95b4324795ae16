package assets

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"picogrid.dev/internal/room"
	"picogrid.dev/internal/rules"
)

// scenarioSchema constrains scenario files before they are decoded, so a
// malformed file is rejected with a schema path instead of a zero-value
// surprise downstream.
const scenarioSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["name", "room", "rules"],
  "additionalProperties": false,
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "room": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "builtin": {"type": "string"},
        "rows": {"type": "array", "items": {"type": "string"}, "minItems": 3},
        "empty": {
          "type": "object",
          "additionalProperties": false,
          "required": ["height", "width"],
          "properties": {
            "height": {"type": "integer", "minimum": 3},
            "width": {"type": "integer", "minimum": 3}
          }
        }
      },
      "oneOf": [
        {"required": ["builtin"]},
        {"required": ["rows"]},
        {"required": ["empty"]}
      ]
    },
    "rules": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "builtin": {"type": "string"},
        "lines": {"type": "array", "items": {"type": "string"}, "minItems": 1}
      },
      "oneOf": [
        {"required": ["builtin"]},
        {"required": ["lines"]}
      ]
    },
    "start_state": {"type": "integer", "minimum": 0, "maximum": 99},
    "max_steps": {"type": "integer", "minimum": 1}
  }
}`

var compiledScenarioSchema = jsonschema.MustCompileString("scenario.schema.json", scenarioSchema)

// Scenario is a runnable description of (room, rules, options), loaded
// from a JSON file.
type Scenario struct {
	Name       string        `json:"name"`
	Room       ScenarioRoom  `json:"room"`
	Rules      ScenarioRules `json:"rules"`
	StartState int           `json:"start_state"`
	MaxSteps   int           `json:"max_steps"`
}

// ScenarioRoom selects a room: a builtin name, explicit ASCII rows, or an
// empty room of the given dimensions. Exactly one field is set.
type ScenarioRoom struct {
	Builtin string     `json:"builtin,omitempty"`
	Rows    []string   `json:"rows,omitempty"`
	Empty   *EmptySpec `json:"empty,omitempty"`
}

type EmptySpec struct {
	Height int `json:"height"`
	Width  int `json:"width"`
}

// ScenarioRules selects a rule set: a builtin name or explicit rule lines.
type ScenarioRules struct {
	Builtin string   `json:"builtin,omitempty"`
	Lines   []string `json:"lines,omitempty"`
}

// LoadScenario reads, schema-validates and decodes a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(raw)
}

// ParseScenario validates scenario JSON against the embedded schema and
// decodes it.
func ParseScenario(raw []byte) (*Scenario, error) {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("assets: scenario: %w", err)
	}
	if err := compiledScenarioSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("assets: scenario: %w", err)
	}
	var s Scenario
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("assets: scenario: %w", err)
	}
	return &s, nil
}

// BuildRoom materializes the scenario's room.
func (s *Scenario) BuildRoom() (*room.Room, error) {
	switch {
	case s.Room.Builtin != "":
		return Room(s.Room.Builtin)
	case s.Room.Empty != nil:
		return room.Empty(s.Room.Empty.Height, s.Room.Empty.Width)
	default:
		return room.FromString(strings.Join(s.Room.Rows, "\n"))
	}
}

// BuildRules materializes the scenario's rule set.
func (s *Scenario) BuildRules() (*rules.RuleSet, error) {
	if s.Rules.Builtin != "" {
		return RuleSet(s.Rules.Builtin)
	}
	return rules.Parse(strings.Join(s.Rules.Lines, "\n"))
}
