package lace

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Unmarshal parses a Lace document and stores the result in the value
// pointed to by v. If v is not a pointer to a struct, Unmarshal returns an
// error.
//
// Unmarshal uses struct tags to determine how to map document keys to
// struct fields:
//   - `lace:"fieldname"` - maps the document key "fieldname" to this field
//   - `lace:"fieldname,required"` - fails if the key is absent
//   - `lace:"fieldname,omitempty"` - skips the field if its value is empty
//   - `lace:"-"` - ignores this field
//
// Example:
//
//	type Config struct {
//	    Host  string   `lace:"host"`
//	    Port  int      `lace:"port"`
//	    Debug bool     `lace:"debug"`
//	    Tags  []string `lace:"tags"`
//	}
func Unmarshal(data []byte, v any) error {
	doc, err := NewParser().Parse(string(data))
	if err != nil {
		return err
	}
	return UnmarshalDocument(doc, v)
}

// UnmarshalDocument unmarshals a parsed Document into v.
func UnmarshalDocument(doc *Document, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("unmarshal target must be a non-nil pointer")
	}

	elem := rv.Elem()
	if elem.Kind() != reflect.Struct {
		return fmt.Errorf("unmarshal target must be a pointer to struct")
	}

	t := elem.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldValue := elem.Field(i)

		// Skip unexported fields
		if !fieldValue.CanSet() {
			continue
		}

		tag := field.Tag.Get("lace")
		if tag == "-" {
			continue
		}

		tagName, opts := parseTag(tag)
		if tagName == "" {
			tagName = strings.ToLower(field.Name)
		}

		value, ok := doc.Get(tagName)
		if !ok {
			if hasOption(opts, "required") {
				return fmt.Errorf("required field %s not found", tagName)
			}
			continue
		}

		if hasOption(opts, "omitempty") && isEmpty(value) {
			continue
		}

		if err := setField(fieldValue, value); err != nil {
			return fmt.Errorf("field %s: %v", field.Name, err)
		}
	}

	return nil
}

// setField sets a reflect.Value from a Lace value.
func setField(field reflect.Value, value Value) error {
	if value == nil {
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		return setString(field, value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return setInt(field, value)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return setUint(field, value)
	case reflect.Float32, reflect.Float64:
		return setFloat(field, value)
	case reflect.Bool:
		return setBool(field, value)
	case reflect.Slice:
		return setSlice(field, value)
	case reflect.Ptr:
		return setPointer(field, value)
	case reflect.Interface:
		field.Set(reflect.ValueOf(value))
		return nil
	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}
}

func setString(field reflect.Value, value Value) error {
	switch v := value.(type) {
	case Text:
		field.SetString(string(v))
	case Bareword:
		field.SetString(string(v))
	default:
		field.SetString(fmt.Sprint(v))
	}
	return nil
}

func setInt(field reflect.Value, value Value) error {
	switch v := value.(type) {
	case Int:
		field.SetInt(int64(v))
	case Float:
		field.SetInt(int64(v))
	case Text:
		return setIntString(field, string(v))
	case Bareword:
		return setIntString(field, string(v))
	default:
		return fmt.Errorf("cannot convert %T to int", v)
	}
	return nil
}

func setIntString(field reflect.Value, s string) error {
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("cannot parse as int: %v", err)
	}
	field.SetInt(i)
	return nil
}

func setUint(field reflect.Value, value Value) error {
	switch v := value.(type) {
	case Int:
		if v < 0 {
			return fmt.Errorf("cannot convert negative value %d to uint", v)
		}
		field.SetUint(uint64(v))
	case Float:
		field.SetUint(uint64(v))
	case Text:
		return setUintString(field, string(v))
	case Bareword:
		return setUintString(field, string(v))
	default:
		return fmt.Errorf("cannot convert %T to uint", v)
	}
	return nil
}

func setUintString(field reflect.Value, s string) error {
	u, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("cannot parse as uint: %v", err)
	}
	field.SetUint(u)
	return nil
}

func setFloat(field reflect.Value, value Value) error {
	switch v := value.(type) {
	case Int:
		field.SetFloat(float64(v))
	case Float:
		field.SetFloat(float64(v))
	case Text:
		return setFloatString(field, string(v))
	case Bareword:
		return setFloatString(field, string(v))
	default:
		return fmt.Errorf("cannot convert %T to float", v)
	}
	return nil
}

func setFloatString(field reflect.Value, s string) error {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("cannot parse as float: %v", err)
	}
	field.SetFloat(f)
	return nil
}

func setBool(field reflect.Value, value Value) error {
	var s string
	switch v := value.(type) {
	case Text:
		s = string(v)
	case Bareword:
		s = string(v)
	case Int:
		field.SetBool(v != 0)
		return nil
	default:
		return fmt.Errorf("cannot convert %T to bool", v)
	}

	b, err := parseBool(s)
	if err != nil {
		return fmt.Errorf("cannot parse as bool: %v", err)
	}
	field.SetBool(b)
	return nil
}

func setSlice(field reflect.Value, value Value) error {
	arr, ok := value.(Array)
	if !ok {
		return fmt.Errorf("cannot convert %T to slice", value)
	}

	slice := reflect.MakeSlice(field.Type(), len(arr), len(arr))
	for i, item := range arr {
		if err := setField(slice.Index(i), item); err != nil {
			return fmt.Errorf("index %d: %v", i, err)
		}
	}
	field.Set(slice)
	return nil
}

func setPointer(field reflect.Value, value Value) error {
	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	ptr := reflect.New(field.Type().Elem())
	if err := setField(ptr.Elem(), value); err != nil {
		return err
	}
	field.Set(ptr)
	return nil
}

// Helper functions

func parseTag(tag string) (string, []string) {
	parts := strings.Split(tag, ",")
	if len(parts) == 0 {
		return "", nil
	}
	return parts[0], parts[1:]
}

func hasOption(opts []string, option string) bool {
	for _, opt := range opts {
		if opt == option {
			return true
		}
	}
	return false
}

func isEmpty(value Value) bool {
	switch v := value.(type) {
	case nil:
		return true
	case Text:
		return v == ""
	case Bareword:
		return v == ""
	case Array:
		return len(v) == 0
	case Int:
		return v == 0
	case Float:
		return v == 0
	default:
		return false
	}
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "yes", "1", "on":
		return true, nil
	case "false", "no", "0", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid bool value: %s", s)
	}
}
