package reflect

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
	"unsafe"
)

// Field is a struct field carrying the injection tag.
type Field struct {
	Name     string
	Index    []int
	Type     reflect.Type
	BeanName string
	Exported bool
}

// TaggedFields returns the fields of t (struct or pointer to struct) that
// carry tagKey, in declaration order. Embedded structs are not descended.
func TaggedFields(t reflect.Type, tagKey string) []Field {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var fields []Field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag, ok := sf.Tag.Lookup(tagKey)
		if !ok {
			continue
		}

		name, _, _ := strings.Cut(tag, ",")
		fields = append(fields, Field{
			Name:     sf.Name,
			Index:    sf.Index,
			Type:     sf.Type,
			BeanName: strings.TrimSpace(name),
			Exported: sf.IsExported(),
		})
	}
	return fields
}

// SetField assigns value to field, going through unsafe for unexported
// fields. field must be addressable.
func SetField(field, value reflect.Value) {
	if !field.CanSet() {
		field = reflect.NewAt(field.Type(), unsafe.Pointer(field.UnsafeAddr())).Elem()
	}
	field.Set(value)
}

func UpperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// SetterName derives the conventional setter for a field: engine -> SetEngine.
func SetterName(field string) string {
	return "Set" + UpperFirst(field)
}

// IsSetter reports whether a bound method looks like a one-argument setter
// with no results.
func IsSetter(name string, mt reflect.Type) bool {
	return len(name) > 3 && strings.HasPrefix(name, "Set") &&
		mt.NumIn() == 1 && mt.NumOut() == 0 && !mt.IsVariadic()
}
