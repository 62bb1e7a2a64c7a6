package utils

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

func ToStringSlice(slice []any) []string {
	stringSlice := make([]string, 0)
	for _, v := range slice {
		if s, ok := v.(string); ok {
			stringSlice = append(stringSlice, s)
		}
	}
	return stringSlice
}

// ToString coerces a parameter or metadata value to its string form.
// JSON numbers that hold whole values are printed without a fraction.
func ToString(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case fmt.Stringer:
		return value.String()
	case bool:
		return strconv.FormatBool(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(value), 'f', -1, 32)
	case []string:
		return strings.Join(value, ",")
	case []any:
		return strings.Join(ToStringSlice(value), ",")
	default:
		return fmt.Sprint(value)
	}
}

// SnakeCase turns an accessor style name ("TokenType") into its metadata key ("token_type").
func SnakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
