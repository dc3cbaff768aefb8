package types

// FieldType is the declared type tag of a Field.
type FieldType string

// Field type tags. Only FieldTypeNumber is treated as numeric.
const (
	FieldTypeNumber  FieldType = "number"
	FieldTypeString  FieldType = "string"
	FieldTypeTime    FieldType = "time"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeOther   FieldType = "other"
)

// ParseFieldType maps a type name to its tag. Unrecognised names map to
// FieldTypeOther.
func ParseFieldType(s string) FieldType {
	switch FieldType(s) {
	case FieldTypeNumber, FieldTypeString, FieldTypeTime, FieldTypeBoolean:
		return FieldType(s)
	default:
		return FieldTypeOther
	}
}

// Field is a named, typed column of values within a Series.
type Field struct {
	Name   string    `json:"name"`
	Type   FieldType `json:"type"`
	Values []any     `json:"values"`
}

// IsNumeric reports whether the field carries the numeric type tag.
// The tag is a declaration only; individual values may still fail a
// runtime numeric check.
func (f Field) IsNumeric() bool {
	return f.Type == FieldTypeNumber
}

// Series is one frame of a query result.
type Series struct {
	Name   string  `json:"name,omitempty"`
	Fields []Field `json:"fields"`
}

// FirstNumeric returns the first field tagged numeric, in declaration order.
func (s Series) FirstNumeric() (Field, bool) {
	for _, f := range s.Fields {
		if f.IsNumeric() {
			return f, true
		}
	}
	return Field{}, false
}
