// Package jsonbody encodes and decodes object bodies stored as JSON text.
//
// Some writers store a value as a JSON string whose contents are themselves
// JSON (for example the text "{\"foo\":1}" including the quotes). Decode
// detects a top-level JSON string and decodes its contents a second time, so
// both single- and double-encoded bodies yield the same logical value.
package jsonbody

import (
	"bytes"
	"encoding/json"

	"github.com/oscarhermoso/cubecache/errors"
)

// Decode decodes body into a value of type V, unwrapping one level of string
// encoding when the body is a JSON string.
//
// A plain JSON string value (such as "hello") is therefore rejected, since its
// contents are not JSON. Errors carry errors.CodeDecodeFailed.
func Decode[V any](body []byte) (V, error) {
	var value V

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return value, errors.New(errors.CodeDecodeFailed, "empty body")
	}

	if trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return value, errors.Wrap(err, errors.CodeDecodeFailed, "failed to decode string body")
		}
		trimmed = []byte(inner)
	}

	if err := json.Unmarshal(trimmed, &value); err != nil {
		return value, errors.Wrap(err, errors.CodeDecodeFailed, "failed to decode body")
	}

	return value, nil
}

// Encode serialises value as a single level of JSON.
func Encode(value any) ([]byte, error) {
	body, err := json.Marshal(value)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidInput, "failed to encode body")
	}
	return body, nil
}
