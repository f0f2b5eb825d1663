package document

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-intake/pkg/schema"
)

// Visible evaluates a SurveyJS visibleIf expression against the response.
// Supported forms: "and"/"or" chains, "not" prefix, comparisons with
// = != < > <= >=, the "empty"/"notempty" postfix functions, "contains",
// and a bare {name} reference that is true for any non-empty answer.
// An empty or unparseable expression keeps the element visible.
func Visible(expr string, response schema.Response) bool {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return true
	}
	return evalExpr(expr, response)
}

func evalExpr(expr string, data schema.Response) bool {
	expr = strings.TrimSpace(expr)

	if parts := strings.Split(expr, " or "); len(parts) > 1 {
		for _, part := range parts {
			if evalExpr(part, data) {
				return true
			}
		}
		return false
	}
	if parts := strings.Split(expr, " and "); len(parts) > 1 {
		for _, part := range parts {
			if !evalExpr(part, data) {
				return false
			}
		}
		return true
	}
	if rest, ok := strings.CutPrefix(expr, "not "); ok {
		return !evalExpr(rest, data)
	}

	if name, ok := strings.CutSuffix(expr, " notempty"); ok {
		value, exists := data[fieldName(name)]
		return exists && !isEmpty(value)
	}
	if name, ok := strings.CutSuffix(expr, " empty"); ok {
		value, exists := data[fieldName(name)]
		return !exists || isEmpty(value)
	}

	// Operator order matters: != and the bounded comparisons must be tried
	// before the bare = and < > they contain.
	for _, op := range []string{" != ", " <= ", " >= ", " = ", " < ", " > "} {
		left, right, found := strings.Cut(expr, op)
		if !found {
			continue
		}
		name := fieldName(left)
		want := literal(right)
		value, exists := data[name]
		if !exists {
			// Only inequality holds against a missing answer.
			return op == " != "
		}
		return compare(value, want, strings.TrimSpace(op))
	}

	if left, right, found := strings.Cut(expr, " contains "); found {
		value, exists := data[fieldName(left)]
		if !exists {
			return false
		}
		return contains(value, literal(right))
	}

	if strings.HasPrefix(expr, "{") && strings.HasSuffix(expr, "}") {
		value, exists := data[fieldName(expr)]
		return exists && !isEmpty(value)
	}

	// Unrecognized expressions keep the element visible rather than hiding
	// answered questions from the document.
	return true
}

// fieldName unwraps a {name} reference.
func fieldName(expr string) string {
	expr = strings.TrimSpace(expr)
	if strings.HasPrefix(expr, "{") && strings.HasSuffix(expr, "}") {
		return expr[1 : len(expr)-1]
	}
	return expr
}

// literal parses the right-hand side of a comparison: quoted strings,
// booleans, and numbers; anything else stays a bare string.
func literal(raw string) any {
	raw = strings.TrimSpace(raw)
	if len(raw) >= 2 {
		if (raw[0] == '\'' && raw[len(raw)-1] == '\'') || (raw[0] == '"' && raw[len(raw)-1] == '"') {
			return raw[1 : len(raw)-1]
		}
	}
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	if num, err := strconv.ParseFloat(raw, 64); err == nil {
		return num
	}
	return raw
}

func compare(left, right any, op string) bool {
	if op == "!=" {
		return !compare(left, right, "=")
	}
	if left == nil || right == nil {
		return op == "=" && left == right
	}
	if op == "=" {
		return fmt.Sprintf("%v", left) == fmt.Sprintf("%v", right)
	}

	lnum, lok := asFloat(left)
	rnum, rok := asFloat(right)
	if lok && rok {
		switch op {
		case "<":
			return lnum < rnum
		case ">":
			return lnum > rnum
		case "<=":
			return lnum <= rnum
		case ">=":
			return lnum >= rnum
		}
	}

	lstr := fmt.Sprintf("%v", left)
	rstr := fmt.Sprintf("%v", right)
	switch op {
	case "<":
		return lstr < rstr
	case ">":
		return lstr > rstr
	case "<=":
		return lstr <= rstr
	case ">=":
		return lstr >= rstr
	}
	return false
}

func contains(left, right any) bool {
	needle := fmt.Sprintf("%v", right)
	switch v := left.(type) {
	case string:
		return strings.Contains(v, needle)
	case []any:
		for _, item := range v {
			if fmt.Sprintf("%v", item) == needle {
				return true
			}
		}
	}
	return false
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	case bool:
		return !v
	case float64:
		return v == 0
	case int:
		return v == 0
	default:
		return false
	}
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		if num, err := strconv.ParseFloat(v, 64); err == nil {
			return num, true
		}
	}
	return 0, false
}
