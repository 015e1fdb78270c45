package validate

import (
	"reflect"
	"strings"
)

// jsonName — имя поля из json-тега (или имя поля Go, если тега нет).
func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}
