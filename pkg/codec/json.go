package codec

import (
	"reflect"

	gojson "github.com/goccy/go-json"

	"github.com/ajitpratap0/redisutil/pkg/errors"
)

// EncodeJSON returns the UTF-8 JSON encoding of v. A nil value, including a
// typed nil pointer, encodes to nil bytes.
func EncodeJSON(v interface{}) ([]byte, error) {
	if isNil(v) {
		return nil, nil
	}
	data, err := gojson.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeSerialization, "cannot encode value as JSON").
			WithDetail("type", reflect.TypeOf(v).String())
	}
	return data, nil
}

// EncodeJSONIndent is EncodeJSON with indentation, for human readers.
func EncodeJSONIndent(v interface{}) ([]byte, error) {
	if isNil(v) {
		return nil, nil
	}
	data, err := gojson.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeSerialization, "cannot encode value as JSON").
			WithDetail("type", reflect.TypeOf(v).String())
	}
	return data, nil
}

// DecodeJSON decodes data into out. Empty data leaves out untouched.
func DecodeJSON(data []byte, out interface{}) error {
	if len(data) == 0 {
		return nil
	}
	if err := gojson.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, errors.ErrorTypeSerialization, "cannot decode JSON value").
			WithDetail("size", len(data))
	}
	return nil
}

// DecodeJSONString decodes JSON text into out.
func DecodeJSONString(s string, out interface{}) error {
	return DecodeJSON([]byte(s), out)
}

// DecodeJSONAs decodes data into a new T. Empty data yields the zero T.
func DecodeJSONAs[T any](data []byte) (T, error) {
	var out T
	err := DecodeJSON(data, &out)
	return out, err
}

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
