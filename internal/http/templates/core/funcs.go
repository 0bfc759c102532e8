// Package core provides the template helpers shared by every page.
package core

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/target/ims-ui/internal/domain/model"
	"github.com/target/ims-ui/internal/http/uiutil"
)

// Deps holds optional dependencies for constructing the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
}

// Funcs returns a template.FuncMap containing helpers that are broadly useful across templates.
func Funcs(deps Deps) template.FuncMap {
	funcs := template.FuncMap{
		"sectionTmpl":  deps.ContentTemplateFor,
		"friendlyTime": friendlyTime,
		"relativeTime": relativeTime,
		"add":          func(a, b int) int { return a + b },
		"sub":          func(a, b int) int { return a - b },
		"contains":     strings.Contains,
		"formatNumber": formatNumberTemplate,
		"money":        uiutil.FormatMoney,
		"statusClass":  statusClass,
		"truncateText": TruncateText,
		"humanize":     humanize,
	}

	addRenderFuncs(funcs, deps)
	return funcs
}

func addRenderFuncs(funcs template.FuncMap, deps Deps) {
	funcs["renderSection"] = func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - rendered by our own html/template set; user values were escaped during ExecuteTemplate.
		return template.HTML(buf.String()), nil
	}
}

func toTime(ts any) time.Time {
	switch v := ts.(type) {
	case time.Time:
		return v
	case *time.Time:
		if v != nil {
			return *v
		}
	case model.LocalTime:
		return v.Time()
	case *model.LocalTime:
		if v != nil {
			return v.Time()
		}
	}
	return time.Time{}
}

func friendlyTime(ts any) string {
	return uiutil.FormatFriendlyDateTime(toTime(ts))
}

func relativeTime(ts any) string {
	return uiutil.FriendlyRelativeTime(toTime(ts))
}

// formatNumberTemplate formats any integer type with comma separators for thousands.
func formatNumberTemplate(v any) string {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int64:
		n = x
	case int32:
		n = int64(x)
	default:
		return fmt.Sprint(v)
	}

	neg := n < 0
	if neg {
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	if len(s) > 3 {
		s = withCommas(s)
	}
	if neg {
		return "-" + s
	}
	return s
}

func withCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s) + (len(s)-1)/3)

	prefix := len(s) % 3
	if prefix == 0 {
		prefix = 3
	}

	b.WriteString(s[:prefix])
	for i := prefix; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// statusClass maps transaction and request statuses onto badge styles.
func statusClass(status any) string {
	switch strings.ToUpper(fmt.Sprint(status)) {
	case "COMPLETED", "APPROVED":
		return "badge-success"
	case "PENDING":
		return "badge-warning"
	case "PROCESSING":
		return "badge-info"
	case "CANCELLED", "REJECTED":
		return "badge-danger"
	default:
		return "badge-light"
	}
}

// humanize turns enum values such as "RETURN_TO_SUPPLIER" into "Return to supplier".
func humanize(v any) string {
	s := strings.ToLower(strings.ReplaceAll(fmt.Sprint(v), "_", " "))
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// TruncateText truncates a string to a maximum number of runes (not bytes).
// The maxLen parameter can be any numeric type for template flexibility.
func TruncateText(s string, maxLen any) string {
	n, ok := toIntSafe(maxLen)
	if !ok || n <= 0 {
		return s
	}
	return uiutil.TruncateWithEllipsis(s, n)
}

func toIntSafe(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		return int(val), true
	default:
		return 0, false
	}
}
