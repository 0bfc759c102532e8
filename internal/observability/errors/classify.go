package errors

import (
	goerrors "errors"
	"reflect"
	"strconv"
	"strings"
)

// statusCoder is implemented by errors that carry an upstream HTTP status.
type statusCoder interface {
	HTTPStatus() int
}

// Classify returns a normalized error class suitable for metric labels and logs.
// Errors carrying an HTTP status collapse to "http_<code>"; anything else is
// named after its innermost concrete type in snake_case-ish form.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	var sc statusCoder
	if goerrors.As(err, &sc) && sc.HTTPStatus() > 0 {
		return "http_" + strconv.Itoa(sc.HTTPStatus())
	}

	for {
		unwrapped := goerrors.Unwrap(err)
		if unwrapped == nil {
			break
		}
		err = unwrapped
	}

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}

	name := strings.ToLower(strings.ReplaceAll(t.String(), "*", ""))
	name = strings.ReplaceAll(name, ".", "_")
	if name == "" {
		return "unknown"
	}
	return name
}
