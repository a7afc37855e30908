// Package patch applies partial JSON updates onto a full request shape so
// the merged result can be validated like a create.
package patch

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"jobtracker/internal/pkg/apperr"
)

// Body is a decoded PATCH payload keyed by JSON field name.
type Body map[string]json.RawMessage

// Has reports whether key is present, including explicit nulls.
func (b Body) Has(key string) bool {
	_, ok := b[key]
	return ok
}

// CheckKeys rejects empty bodies and keys outside allowed.
func (b Body) CheckKeys(allowed ...string) error {
	if len(b) == 0 {
		return apperr.Validation("body", "no valid fields to update")
	}
	set := make(map[string]bool, len(allowed))
	for _, k := range allowed {
		set[k] = true
	}

	var unknown []string
	for k := range b {
		if !set[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}

	sort.Strings(unknown)
	fields := make(map[string]string, len(unknown))
	for _, k := range unknown {
		fields[k] = "unknown field"
	}
	return &apperr.ValidationError{Fields: fields}
}

// Decode unmarshals the body into dst as if it had been sent on its own.
func (b Body) Decode(dst any) error {
	raw, err := json.Marshal(b)
	if err != nil {
		return err
	}
	return Decode(raw, dst)
}

// Merge overlays b onto base (any JSON-marshalable value) and decodes the
// result into dst. A null in b clears the field.
func Merge(base any, b Body, dst any) error {
	raw, err := json.Marshal(base)
	if err != nil {
		return err
	}
	merged := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &merged); err != nil {
		return err
	}
	for k, v := range b {
		merged[k] = v
	}

	raw, err = json.Marshal(merged)
	if err != nil {
		return err
	}
	return Decode(raw, dst)
}

// Decode unmarshals raw into dst and turns JSON type mismatches into
// field-level validation errors.
func Decode(raw []byte, dst any) error {
	err := json.Unmarshal(raw, dst)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		if i := strings.LastIndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		return apperr.Validation(field, "must be of type "+typeErr.Type.String())
	}
	return apperr.Validation("body", "invalid JSON")
}
