package typed

import "github.com/aretw0/pomodoro/pkg/core"

// Fields consumes the properties of a document one by one and keeps the first
// error, so a decoder can read every field and check Err once at the end.
type Fields struct {
	obj core.Object
	err error
}

// NewFields starts decoding obj.
func NewFields(obj core.Object) *Fields {
	return &Fields{obj: obj}
}

// Err returns the first extraction error.
func (f *Fields) Err() error {
	return f.err
}

// Field takes a required property.
func Field[T any](f *Fields, name string) T {
	var zero T
	if f.err != nil {
		return zero
	}
	v, err := core.Take[T](f.obj, name)
	if err != nil {
		f.err = err
		return zero
	}
	return v
}

// Optional takes a nullable property.
func Optional[T any](f *Fields, name string) *T {
	if f.err != nil {
		return nil
	}
	v, err := core.TakeOptional[T](f.obj, name)
	if err != nil {
		f.err = err
		return nil
	}
	return v
}

// StringList takes a required array of strings.
func StringList(f *Fields, name string) []string {
	if f.err != nil {
		return nil
	}
	v, err := core.TakeStrings(f.obj, name)
	if err != nil {
		f.err = err
		return nil
	}
	return v
}
