package apidoc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-eventform/pkg/form"
	"github.com/goliatone/go-eventform/pkg/model"
)

// DefaultPath is where the JSON API accepts registrations.
const DefaultPath = "/api/registrations"

// Option configures a Document.
type Option func(*config)

type config struct {
	path    string
	title   string
	version string
}

// WithPath overrides the API path.
func WithPath(path string) Option {
	return func(cfg *config) {
		if path = strings.TrimSpace(path); path != "" {
			cfg.path = path
		}
	}
}

// WithVersion sets info.version.
func WithVersion(version string) Option {
	return func(cfg *config) {
		if version = strings.TrimSpace(version); version != "" {
			cfg.version = version
		}
	}
}

// Document is the OpenAPI description of the registration API.
type Document struct {
	spec    *openapi3.T
	request *openapi3.Schema
	model   model.FormModel
}

// New builds and validates the document for fm.
func New(ctx context.Context, fm model.FormModel, options ...Option) (*Document, error) {
	cfg := config{
		path:    DefaultPath,
		title:   fm.Title,
		version: "1.0.0",
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.title == "" {
		cfg.title = fm.ID
	}

	request := RequestSchema(fm)
	operation := &openapi3.Operation{
		OperationID: "submit" + exportName(fm.ID),
		Summary:     "Submit a registration",
		Description: "Applies the posted values to a new form and submits it. Validation failures return the per-field messages.",
		RequestBody: &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchema(request),
		},
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(200, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription("Registration accepted").WithJSONSchema(acceptedSchema()),
			}),
			openapi3.WithStatus(400, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription("Malformed payload").WithJSONSchema(malformedSchema()),
			}),
			openapi3.WithStatus(422, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription("Validation failed").WithJSONSchema(rejectedSchema()),
			}),
		),
	}

	spec := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   cfg.title,
			Version: cfg.version,
		},
		Paths: openapi3.NewPaths(
			openapi3.WithPath(cfg.path, &openapi3.PathItem{Post: operation}),
		),
	}
	if err := spec.Validate(ctx); err != nil {
		return nil, fmt.Errorf("apidoc: validate: %w", err)
	}

	return &Document{spec: spec, request: request, model: fm}, nil
}

// Spec exposes the underlying OpenAPI document.
func (d *Document) Spec() *openapi3.T {
	return d.spec
}

// MarshalJSON encodes the OpenAPI document.
func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.spec)
}

// RequestSchema derives the request body schema from the model: selects are
// string enums, checkboxes booleans, number fields accept a string or a
// number, and everything else is a string. Unknown properties are rejected.
func RequestSchema(fm model.FormModel) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	for _, field := range fm.Fields {
		schema.WithProperty(field.Name, fieldSchema(field))
	}
	schema.AdditionalProperties = openapi3.AdditionalProperties{Has: boolPtr(false)}
	return schema
}

func fieldSchema(field model.Field) *openapi3.Schema {
	var schema *openapi3.Schema
	switch field.Control {
	case form.ControlSelect:
		values := make([]any, 0, len(field.Options))
		for _, option := range field.Options {
			values = append(values, option.Value)
		}
		schema = openapi3.NewStringSchema().WithEnum(values...)
	case form.ControlCheckbox:
		schema = openapi3.NewBoolSchema()
	case form.ControlNumber:
		schema = openapi3.NewOneOfSchema(openapi3.NewStringSchema(), openapi3.NewFloat64Schema())
	default:
		schema = openapi3.NewStringSchema()
	}
	schema.Title = strings.TrimSpace(strings.TrimRight(field.Label, ":?"))
	return schema
}

func acceptedSchema() *openapi3.Schema {
	item := openapi3.NewObjectSchema().
		WithProperty("field", openapi3.NewStringSchema()).
		WithProperty("label", openapi3.NewStringSchema()).
		WithProperty("value", openapi3.NewStringSchema())
	return openapi3.NewObjectSchema().
		WithProperty("submitted", openapi3.NewBoolSchema()).
		WithProperty("summary", openapi3.NewArraySchema().WithItems(item))
}

func rejectedSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("submitted", openapi3.NewBoolSchema()).
		WithProperty("errors", openapi3.NewObjectSchema().WithAdditionalProperties(openapi3.NewStringSchema()))
}

func malformedSchema() *openapi3.Schema {
	messages := openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())
	return openapi3.NewObjectSchema().
		WithProperty("error", openapi3.NewStringSchema()).
		WithProperty("fields", openapi3.NewObjectSchema().WithAdditionalProperties(messages)).
		WithProperty("form", messages)
}

// PayloadError reports a request body that does not match the request
// schema. Issues are keyed by JSON pointer ("/age"); "" holds problems with
// the body as a whole.
type PayloadError struct {
	Issues map[string][]string
}

func (e *PayloadError) Error() string {
	keys := make([]string, 0, len(e.Issues))
	for key := range e.Issues {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		location := key
		if location == "" {
			location = "body"
		}
		parts = append(parts, location+": "+strings.Join(e.Issues[key], "; "))
	}
	return "apidoc: invalid payload: " + strings.Join(parts, ", ")
}

// DecodeRequest checks data against the request schema and converts it into
// changes in model order. Fields absent from the payload produce no change.
func (d *Document) DecodeRequest(data []byte) ([]form.Change, error) {
	var body any
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, &PayloadError{Issues: map[string][]string{"": {"body is not valid JSON"}}}
	}

	if err := d.request.VisitJSON(body, openapi3.MultiErrors()); err != nil {
		return nil, payloadError(err)
	}

	object, _ := body.(map[string]any)
	changes := make([]form.Change, 0, len(object))
	for _, field := range d.model.Fields {
		raw, ok := object[field.Name]
		if !ok {
			continue
		}
		switch value := raw.(type) {
		case bool:
			changes = append(changes, form.CheckboxChange(field.Name, value))
		case float64:
			changes = append(changes, form.Change{
				Name:  field.Name,
				Value: strconv.FormatFloat(value, 'f', -1, 64),
				Type:  field.Control,
			})
		case string:
			changes = append(changes, form.Change{Name: field.Name, Value: value, Type: field.Control})
		}
	}
	return changes, nil
}

func payloadError(err error) *PayloadError {
	out := &PayloadError{Issues: make(map[string][]string)}
	collectIssues(err, out.Issues)
	if len(out.Issues) == 0 {
		out.Issues[""] = []string{err.Error()}
	}
	return out
}

func collectIssues(err error, issues map[string][]string) {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, inner := range multi {
			collectIssues(inner, issues)
		}
		return
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		pointer := ""
		if segments := schemaErr.JSONPointer(); len(segments) > 0 {
			pointer = "/" + strings.Join(segments, "/")
		}
		reason := schemaErr.Reason
		if reason == "" {
			reason = schemaErr.Error()
		}
		issues[pointer] = append(issues[pointer], reason)
		return
	}

	issues[""] = append(issues[""], err.Error())
}

func exportName(id string) string {
	if id == "" {
		return "Form"
	}
	return strings.ToUpper(id[:1]) + id[1:]
}

func boolPtr(v bool) *bool {
	return &v
}
