package validation

import (
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const draft07 = "http://json-schema.org/draft-07/schema#"

type JSONSchema struct {
	Schema               string              `json:"$schema,omitempty"`
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties bool                `json:"additionalProperties"`
}

type Property struct {
	Type             string              `json:"type,omitempty"`
	Description      string              `json:"description,omitempty"`
	Minimum          *float64            `json:"minimum,omitempty"`
	ExclusiveMinimum *float64            `json:"exclusiveMinimum,omitempty"`
	Maximum          *float64            `json:"maximum,omitempty"`
	Enum             []string            `json:"enum,omitempty"`
	Pattern          *string             `json:"pattern,omitempty"`
	Format           string              `json:"format,omitempty"`
	MinLength        *int                `json:"minLength,omitempty"`
	MaxLength        *int                `json:"maxLength,omitempty"`
	MinItems         *int                `json:"minItems,omitempty"`
	Items            *Property           `json:"items,omitempty"`
	Properties       map[string]Property `json:"properties,omitempty"`
	Required         []string            `json:"required,omitempty"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// NewSchema returns a draft-07 object schema that rejects unknown properties.
func NewSchema(properties map[string]Property, required ...string) JSONSchema {
	return JSONSchema{
		Schema:     draft07,
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

// String is a string property with inclusive length bounds; max <= 0 means unbounded.
func String(min, max int) Property {
	p := Property{Type: "string", MinLength: &min}
	if max > 0 {
		p.MaxLength = &max
	}
	return p
}

// MaxInteger is the largest value a Postgres INTEGER column holds.
const MaxInteger = math.MaxInt32

// Integer is an integer property with an inclusive lower bound, capped at MaxInteger.
func Integer(min float64) Property {
	max := float64(MaxInteger)
	return Property{Type: "integer", Minimum: &min, Maximum: &max}
}

// PositiveInteger is an integer strictly greater than zero, capped at MaxInteger.
func PositiveInteger() Property {
	zero, max := 0.0, float64(MaxInteger)
	return Property{Type: "integer", ExclusiveMinimum: &zero, Maximum: &max}
}

// Number is a number property with an inclusive lower bound.
func Number(min float64) Property {
	return Property{Type: "number", Minimum: &min}
}

// PositiveNumber is a number strictly greater than zero.
func PositiveNumber() Property {
	zero := 0.0
	return Property{Type: "number", ExclusiveMinimum: &zero}
}

// Date is a calendar date in YYYY-MM-DD form.
func Date() Property {
	return Property{Type: "string", Format: "date"}
}

func Email() Property {
	min := 4
	return Property{Type: "string", Format: "email", MinLength: &min}
}

func Boolean() Property {
	return Property{Type: "boolean"}
}

// ArrayOf is an array whose items all match item.
func ArrayOf(item Property) Property {
	return Property{Type: "array", Items: &item}
}

// NonEmptyArrayOf is ArrayOf with at least one item.
func NonEmptyArrayOf(item Property) Property {
	one := 1
	return Property{Type: "array", Items: &item, MinItems: &one}
}

// Object is a nested object property.
func Object(properties map[string]Property, required ...string) Property {
	return Property{Type: "object", Properties: properties, Required: required}
}

// ValidateInput checks doc against schema with gojsonschema.
func ValidateInput(doc map[string]interface{}, schema JSONSchema) (*ValidationResult, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   fieldPath(desc),
			Message: messageFor(desc),
			Code:    desc.Type(),
		})
	}
	return out, nil
}

// fieldPath turns gojsonschema's context into a dotted path. Required errors are reported
// on the parent, so the missing property is appended.
func fieldPath(desc gojsonschema.ResultError) string {
	field := desc.Field()
	if field == "(root)" {
		field = ""
	}
	if desc.Type() == "required" {
		if prop, ok := desc.Details()["property"].(string); ok {
			if field == "" || field == prop {
				return prop
			}
			if strings.HasSuffix(field, "."+prop) {
				return field
			}
			return field + "." + prop
		}
	}
	return field
}

func messageFor(desc gojsonschema.ResultError) string {
	details := desc.Details()
	switch desc.Type() {
	case "required":
		return "Required"
	case "string_gte":
		if details["min"] == 1 {
			return "Required"
		}
		return fmt.Sprintf("Must contain at least %v character(s)", details["min"])
	case "string_lte":
		return fmt.Sprintf("Must contain at most %v character(s)", details["max"])
	case "number_gt":
		return "Must be greater than " + bound(details["min"])
	case "number_gte":
		return "Must be greater than or equal to " + bound(details["min"])
	case "number_lte":
		return "Must be less than or equal to " + bound(details["max"])
	case "invalid_type":
		return fmt.Sprintf("Expected %v", details["expected"])
	case "format":
		if details["format"] == "email" {
			return "Invalid email address"
		}
		if details["format"] == "date" {
			return "Invalid date"
		}
		return fmt.Sprintf("Invalid %v", details["format"])
	case "array_min_items":
		return fmt.Sprintf("Must contain at least %v item(s)", details["min"])
	case "enum":
		return "Invalid option"
	case "additional_property_not_allowed":
		return "Unexpected field"
	default:
		return desc.Description()
	}
}

// bound renders a schema limit without gojsonschema's rational notation.
func bound(v interface{}) string {
	switch n := v.(type) {
	case *big.Rat:
		if n.IsInt() {
			return n.Num().String()
		}
		f, _ := n.Float64()
		return strconv.FormatFloat(f, 'f', -1, 64)
	case *big.Float:
		return n.Text('f', -1)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// FieldErrors flattens the result to one message per top-level field, first error wins.
func (vr *ValidationResult) FieldErrors() map[string]string {
	if vr == nil || len(vr.Errors) == 0 {
		return nil
	}
	out := make(map[string]string, len(vr.Errors))
	for _, err := range vr.Errors {
		key := topLevel(err.Field)
		if _, seen := out[key]; !seen {
			out[key] = err.Message
		}
	}
	return out
}

func topLevel(field string) string {
	if i := strings.IndexAny(field, ".["); i >= 0 {
		return field[:i]
	}
	return field
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}
