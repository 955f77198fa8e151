package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "loan-broker/internal/common/errors"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// DecimalScale is the scale of the NUMERIC(12,2) money columns.
const DecimalScale = 2

var decimalLimit = decimal.New(1, 10)

const (
	MsgExpectedNumber = "Expected a number"
	MsgDecimalScale   = "Must have at most 2 decimal places"
	MsgDecimalLimit   = "Must be less than 10000000000"
	MsgInvalidInput   = "Invalid input, please try again"
)

// Kind tells the coercer how to read a raw form string.
type Kind int

const (
	KindString Kind = iota
	KindInteger
	// KindDecimal is an exact amount with at most DecimalScale places below 1e10.
	KindDecimal
	KindDate
	KindBool
	KindJSON
	KindLowerString
)

// Field describes one form field. Optional fields that arrive empty are left out of the
// document. Nested coerces string and number leaves inside KindJSON objects and arrays of objects.
type Field struct {
	Kind     Kind
	Optional bool
	Nested   map[string]Kind
}

// Form maps field names to their coercion rules.
type Form map[string]Field

// Values is the subset of url.Values the coercer reads.
type Values interface {
	Get(key string) string
	Has(key string) bool
}

// Coerce converts raw strings into a JSON-like document. Fields that cannot be converted
// are reported in the returned map and omitted from the document.
func (f Form) Coerce(values Values) (map[string]interface{}, map[string]string) {
	doc := make(map[string]interface{}, len(f))
	var coerceErrs map[string]string

	for name, field := range f {
		if !values.Has(name) {
			continue
		}
		raw := strings.TrimSpace(values.Get(name))
		if raw == "" && (field.Optional || field.Kind != KindString && field.Kind != KindLowerString) {
			continue
		}

		v, err := coerce(raw, field.Kind, field.Nested)
		if err != nil {
			if coerceErrs == nil {
				coerceErrs = make(map[string]string)
			}
			coerceErrs[name] = err.Error()
			continue
		}
		doc[name] = v
	}

	return doc, coerceErrs
}

func coerce(raw string, kind Kind, nested map[string]Kind) (interface{}, error) {
	switch kind {
	case KindString:
		return raw, nil
	case KindLowerString:
		return strings.ToLower(raw), nil
	case KindInteger:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("Expected a whole number")
		}
		return n, nil
	case KindDecimal:
		d, err := ParseDecimal(raw)
		if err != nil {
			return nil, err
		}
		// json.Number keeps the exact digits through schema validation and decoding.
		return json.Number(d.String()), nil
	case KindDate:
		if _, err := ParseDate(raw); err != nil {
			return nil, fmt.Errorf("Invalid date")
		}
		return raw, nil
	case KindBool:
		return raw == "true" || raw == "on" || raw == "1", nil
	case KindJSON:
		dec := json.NewDecoder(strings.NewReader(raw))
		dec.UseNumber()
		var v interface{}
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("Invalid JSON")
		}
		return coerceNested(v, nested)
	default:
		return nil, fmt.Errorf("unsupported field kind %d", kind)
	}
}

func coerceNested(v interface{}, nested map[string]Kind) (interface{}, error) {
	if len(nested) == 0 {
		return v, nil
	}
	switch t := v.(type) {
	case []interface{}:
		for i, item := range t {
			c, err := coerceNested(item, nested)
			if err != nil {
				return nil, err
			}
			t[i] = c
		}
		return t, nil
	case map[string]interface{}:
		for key, kind := range nested {
			var s string
			switch raw := t[key].(type) {
			case string:
				s = raw
			case json.Number:
				if kind == KindString || kind == KindLowerString {
					continue
				}
				s = raw.String()
			default:
				continue
			}
			s = strings.TrimSpace(s)
			if s == "" && kind != KindString {
				delete(t, key)
				continue
			}
			c, err := coerce(s, kind, nil)
			if err != nil {
				return nil, fmt.Errorf("%s: %s", key, err.Error())
			}
			t[key] = c
		}
		return t, nil
	default:
		return v, nil
	}
}

// Bind coerces values, validates them against schema and decodes the result into out.
// Any failure comes back as a VALIDATION_FAILED StandardError.
func Bind(values Values, form Form, schema JSONSchema, out interface{}) error {
	doc, coerceErrs := form.Coerce(values)

	result, err := ValidateInput(doc, schema)
	if err != nil {
		if len(coerceErrs) > 0 {
			return apperrors.NewValidationError(coerceErrs)
		}
		return apperrors.NewFormError(MsgInvalidInput)
	}

	fieldErrs := make(map[string]string)
	for k, v := range coerceErrs {
		fieldErrs[k] = v
	}
	for k, v := range result.FieldErrors() {
		if _, seen := fieldErrs[k]; !seen {
			fieldErrs[k] = v
		}
	}
	if len(fieldErrs) > 0 {
		return apperrors.NewValidationError(fieldErrs)
	}

	return Decode(doc, out)
}

// ParseDecimal reads an exact decimal that fits a NUMERIC(12,2) column.
func ParseDecimal(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errors.New(MsgExpectedNumber)
	}
	if !d.Equal(d.Round(DecimalScale)) {
		return decimal.Zero, errors.New(MsgDecimalScale)
	}
	if d.Abs().GreaterThanOrEqual(decimalLimit) {
		return decimal.Zero, errors.New(MsgDecimalLimit)
	}
	return d, nil
}

// Decode copies a validated document into a tagged struct.
func Decode(doc map[string]interface{}, out interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD calendar date in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
