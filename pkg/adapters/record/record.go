// Package record turns loosely typed authored records into dialogue rows.
//
// Authored tables are written by hand, so every loader goes through the same lenient rules:
// integers accept anything that parses as an integer or as a float (truncated toward zero),
// booleans are true only for "1" or "true" in any case, and anything unparsable becomes the
// zero value instead of an error.
package record

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/aretw0/murmur/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// ToInt converts v to an int. It never fails: unparsable input yields 0.
func ToInt(v any) int {
	switch n := v.(type) {
	case nil:
		return 0
	case int:
		return n
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return ToInt(fmt.Sprint(n))
	case float32:
		return truncate(float64(n))
	case float64:
		return truncate(n)
	}

	s := strings.TrimSpace(fmt.Sprint(v))
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return truncate(f)
	}
	return 0
}

func truncate(f float64) int {
	if math.IsNaN(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0
	}
	return int(f)
}

// ToBool reports whether v spells "1" or "true" (case-insensitive).
func ToBool(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	}
	s := strings.TrimSpace(fmt.Sprint(v))
	return s == "1" || strings.EqualFold(s, "true")
}

// ToString renders v as text. nil becomes the empty string.
func ToString(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// coerce is a mapstructure decode hook applying the lenient rules to every row field.
func coerce(_ reflect.Type, to reflect.Type, data any) (any, error) {
	switch to.Kind() {
	case reflect.Int:
		return ToInt(data), nil
	case reflect.Bool:
		return ToBool(data), nil
	case reflect.String:
		return ToString(data), nil
	default:
		return data, nil
	}
}

// Decode builds a row from a map keyed by field name (see domain.RowFields).
// Keys match case-insensitively; unknown keys are ignored and missing ones stay zero.
func Decode(fields map[string]any) (domain.DialogueRow, error) {
	var row domain.DialogueRow
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: coerce,
		Result:     &row,
		TagName:    "mapstructure",
	})
	if err != nil {
		return row, fmt.Errorf("failed to create row decoder: %w", err)
	}
	if err := dec.Decode(fields); err != nil {
		return row, fmt.Errorf("failed to decode row: %w", err)
	}
	return row, nil
}

// FromValues builds a row from positional values laid out in domain.RowFields order, the
// column layout of the authored dialogue table. It reports false when fewer values than fields are given; extra values are ignored.
func FromValues(values []string) (domain.DialogueRow, bool, error) {
	if len(values) < len(domain.RowFields) {
		return domain.DialogueRow{}, false, nil
	}
	fields := make(map[string]any, len(domain.RowFields))
	for i, name := range domain.RowFields {
		fields[name] = values[i]
	}
	// The table stores the trigger column as a number: only 1 opens a choice.
	fields["opens_choice"] = ToInt(values[7]) == 1
	fields["speaker"] = strings.TrimSpace(values[3])
	row, err := Decode(fields)
	if err != nil {
		return row, false, err
	}
	return row, true, nil
}
