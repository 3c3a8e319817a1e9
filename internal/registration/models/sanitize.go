package models

import (
	"reflect"
	"strings"
	"unicode"
)

// sanitize trims every string field of the struct v points to and strips
// control characters. Fields tagged `sanitize:"multiline"` keep newlines and
// tabs; all others lose them so nothing can break a mail header.
func sanitize(v any) {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return
	}

	val = val.Elem()
	if val.Kind() != reflect.Struct {
		return
	}

	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if !field.CanSet() || field.Kind() != reflect.String {
			continue
		}
		multiline := typ.Field(i).Tag.Get("sanitize") == "multiline"
		field.SetString(cleanString(field.String(), multiline))
	}
}

func cleanString(s string, multiline bool) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.Map(func(r rune) rune {
		switch {
		case multiline && (r == '\n' || r == '\t'):
			return r
		case r == '\n' || r == '\r' || r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
