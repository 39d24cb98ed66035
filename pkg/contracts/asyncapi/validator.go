package asyncapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// EventTypeExtension marks a component schema as the data schema of a CloudEvent type.
const EventTypeExtension = "x-event-type"

const documentURL = "asyncapi://document.json"

// EventValidator validates CloudEvent payloads against AsyncAPI component schemas.
type EventValidator struct {
	schemas map[string]*jsonschema.Schema
}

// CloudEvent is the structured-mode envelope as seen on the wire.
type CloudEvent struct {
	SpecVersion     string      `json:"specversion"`
	Type            string      `json:"type"`
	Source          string      `json:"source"`
	Subject         string      `json:"subject,omitempty"`
	ID              string      `json:"id"`
	Time            string      `json:"time,omitempty"`
	DataContentType string      `json:"datacontenttype,omitempty"`
	Data            interface{} `json:"data,omitempty"`
}

type document struct {
	AsyncAPI   string `yaml:"asyncapi"`
	Components struct {
		Schemas map[string]map[string]interface{} `yaml:"schemas"`
	} `yaml:"components"`
}

// NewEventValidator loads the AsyncAPI document at path.
func NewEventValidator(path string) (*EventValidator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read AsyncAPI spec: %w", err)
	}
	return NewEventValidatorFromBytes(data)
}

// NewEventValidatorFromBytes compiles every component schema carrying an
// x-event-type extension. Local $refs between component schemas resolve
// against the whole document.
func NewEventValidatorFromBytes(specBytes []byte) (*EventValidator, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(specBytes, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse AsyncAPI spec: %w", err)
	}
	var doc document
	if err := yaml.Unmarshal(specBytes, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse AsyncAPI spec: %w", err)
	}
	if doc.AsyncAPI == "" {
		return nil, fmt.Errorf("missing asyncapi version field")
	}

	// YAML numbers and maps are normalised through JSON before compiling.
	asJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to convert AsyncAPI spec to JSON: %w", err)
	}
	resource, err := jsonschema.UnmarshalJSON(bytes.NewReader(asJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to decode AsyncAPI spec: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(documentURL, resource); err != nil {
		return nil, fmt.Errorf("failed to add AsyncAPI resource: %w", err)
	}

	schemas := make(map[string]*jsonschema.Schema)
	for name, schema := range doc.Components.Schemas {
		eventType, ok := schema[EventTypeExtension].(string)
		if !ok || eventType == "" {
			continue
		}
		compiled, err := compiler.Compile(documentURL + "#/components/schemas/" + name)
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
		}
		schemas[eventType] = compiled
	}

	return &EventValidator{schemas: schemas}, nil
}

// ValidateEvent validates the envelope and its data payload.
func (v *EventValidator) ValidateEvent(event CloudEvent) error {
	if event.Type == "" {
		return fmt.Errorf("event type is required")
	}
	if event.SpecVersion != "1.0" {
		return fmt.Errorf("unsupported specversion %q", event.SpecVersion)
	}
	if event.ID == "" || event.Source == "" {
		return fmt.Errorf("event id and source are required")
	}

	schema, ok := v.schemas[event.Type]
	if !ok {
		return fmt.Errorf("no schema found for event type: %s", event.Type)
	}
	if event.Data == nil {
		return fmt.Errorf("event data is required")
	}

	dataJSON, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}
	data, err := jsonschema.UnmarshalJSON(bytes.NewReader(dataJSON))
	if err != nil {
		return fmt.Errorf("failed to decode event data: %w", err)
	}

	if err := schema.Validate(data); err != nil {
		return fmt.Errorf("event data validation failed for type %s: %w", event.Type, err)
	}
	return nil
}

// ValidateEventJSON validates a structured-mode CloudEvent.
func (v *EventValidator) ValidateEventJSON(eventJSON []byte) error {
	var event CloudEvent
	if err := json.Unmarshal(eventJSON, &event); err != nil {
		return fmt.Errorf("failed to parse CloudEvent: %w", err)
	}
	return v.ValidateEvent(event)
}

// SupportedEventTypes returns the event types that have schemas, sorted.
func (v *EventValidator) SupportedEventTypes() []string {
	types := make([]string, 0, len(v.schemas))
	for eventType := range v.schemas {
		types = append(types, eventType)
	}
	sort.Strings(types)
	return types
}

// HasSchema reports whether eventType has a schema.
func (v *EventValidator) HasSchema(eventType string) bool {
	_, ok := v.schemas[eventType]
	return ok
}
