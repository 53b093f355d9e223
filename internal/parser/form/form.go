// Copyright (C) 2025 the wedding-website maintainers
// See root-dir/LICENSE for more information

package form

import (
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Unmarshal fills target from submitted form values using `form` struct
// tags. Multi-valued keys keep only the first value except for slice
// fields. Checkbox fields accept "on" as well as "true".
func Unmarshal(input url.Values, target any) error {
	val := reflect.ValueOf(target)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return &InvalidUnmarshalError{Type: reflect.TypeOf(target)}
	}

	v := val.Elem()
	ttype := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := ttype.Field(i)
		name := field.Tag.Get("form")
		if name == "" || name == "-" {
			continue
		}

		fieldVal := v.Field(i)
		if field.Type == reflect.TypeOf(uuid.UUID{}) {
			raw, ok := first(input, name)
			if !ok || raw == "" {
				continue
			}
			id, err := uuid.Parse(raw)
			if err != nil {
				return err
			}
			fieldVal.Set(reflect.ValueOf(id))
			continue
		}

		switch field.Type.Kind() {
		case reflect.String:
			if raw, ok := first(input, name); ok {
				fieldVal.SetString(raw)
			}
		case reflect.Bool:
			if raw, ok := first(input, name); ok {
				fieldVal.SetBool(isChecked(raw))
			}
		case reflect.Int:
			raw, ok := first(input, name)
			if !ok || raw == "" {
				continue
			}
			n, err := strconv.Atoi(raw)
			if err != nil {
				return err
			}
			fieldVal.SetInt(int64(n))
		case reflect.Float64:
			raw, ok := first(input, name)
			if !ok || raw == "" {
				continue
			}
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return err
			}
			fieldVal.SetFloat(f)
		case reflect.Slice:
			if field.Type.Elem().Kind() != reflect.String {
				continue
			}
			if values, ok := input[name]; ok {
				fieldVal.Set(reflect.ValueOf(append([]string(nil), values...)))
			}
		case reflect.Struct:
			if err := Unmarshal(sub(input, name), fieldVal.Addr().Interface()); err != nil {
				return err
			}
		}
	}
	return nil
}

// GroupValues splits dotted form keys into one url.Values per prefix, so
// `<guestID>.<field>` inputs from the group table come back keyed by
// guest. Keys without a dot are dropped.
func GroupValues(raw url.Values) map[string]url.Values {
	input := make(map[string]url.Values)
	for k, v := range raw {
		prefix, rest, found := strings.Cut(k, ".")
		if !found {
			continue
		}
		if input[prefix] == nil {
			input[prefix] = make(url.Values)
		}
		input[prefix][rest] = v
	}
	return input
}

func first(input url.Values, name string) (string, bool) {
	values, ok := input[name]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func isChecked(raw string) bool {
	switch strings.ToLower(raw) {
	case "true", "on", "1":
		return true
	}
	return false
}

func sub(input url.Values, prefix string) url.Values {
	out := make(url.Values)
	for k, v := range input {
		if rest, found := strings.CutPrefix(k, prefix+"."); found {
			out[rest] = v
		}
	}
	return out
}

type InvalidUnmarshalError struct {
	Type reflect.Type
}

func (e *InvalidUnmarshalError) Error() string {
	if e.Type == nil {
		return "form: Unmarshal(nil)"
	}
	if e.Type.Kind() != reflect.Pointer {
		return "form: Unmarshal(non-pointer " + e.Type.String() + ")"
	}
	return "form: Unmarshal(nil " + e.Type.String() + ")"
}
