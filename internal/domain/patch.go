package domain

import (
	"bytes"
	"encoding/json"
)

// OptionalString distinguishes a field that was absent from one that was
// explicitly set, possibly to null.
type OptionalString struct {
	Set   bool
	Value *string
}

// SomeString returns a present, non-null value.
func SomeString(s string) OptionalString {
	return OptionalString{Set: true, Value: &s}
}

// NullString returns a present null value.
func NullString() OptionalString {
	return OptionalString{Set: true}
}

// UnmarshalJSON is only invoked for keys present in the document, so reaching
// it marks the field as set.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// MarshalJSON writes the value or null.
func (o OptionalString) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// TaskPatch holds the subset of task fields a caller asked to change.
type TaskPatch struct {
	Title       OptionalString `json:"title"`
	Description OptionalString `json:"description"`
	Status      OptionalString `json:"status"`
}

// IsEmpty reports whether no field was supplied.
func (p TaskPatch) IsEmpty() bool {
	return !p.Title.Set && !p.Description.Set && !p.Status.Set
}

// Fields returns the supplied fields keyed by column name. Absent fields are
// left out entirely; explicit nulls are kept as nil.
func (p TaskPatch) Fields() map[string]*string {
	fields := make(map[string]*string, 3)
	if p.Title.Set {
		fields["title"] = p.Title.Value
	}
	if p.Description.Set {
		fields["description"] = p.Description.Value
	}
	if p.Status.Set {
		fields["status"] = p.Status.Value
	}
	return fields
}
