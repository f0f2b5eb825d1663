// Package recovery turns untrusted generative-model output into a parsed
// schema tree. The model is supposed to emit exactly one JSON object, but in
// practice wraps it in prose or markdown fencing and produces structurally
// broken JSON (missing or trailing commas, comment syntax). Recover tries a
// chain of strategies in order of decreasing strictness and only fails once
// every repair has been exhausted.
package recovery

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-intake/pkg/schema"
)

// contextWindow is the number of characters reported on each side of the
// original parse-error offset when recovery fails outright.
const contextWindow = 100

// Failure is the terminal error returned when no strategy produced a valid
// tree. Offset and Context describe the first strict-parse error so callers
// can surface useful diagnostics for the raw model output.
type Failure struct {
	Offset  int64
	Context string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return "recovery: input is not a JSON object"
	}
	return fmt.Sprintf("recovery: unable to parse model output at offset %d: %v", f.Offset, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Recover parses raw text into a Form. It is a pure function of its input and
// never panics past its own boundary; every strategy failure falls through to
// the next strategy.
func Recover(raw string) (form schema.Form, err error) {
	defer func() {
		if r := recover(); r != nil {
			form = schema.Form{}
			err = &Failure{Err: fmt.Errorf("recovery: panic during parse: %v", r)}
		}
	}()

	text := strings.TrimSpace(raw)
	if text == "" {
		return schema.Form{}, &Failure{Err: errors.New("empty input")}
	}

	// firstErr keeps the earliest strict-parse failure together with the
	// input it was reported against, for the diagnostic window.
	var firstErr *strictError

	// Strategy 1: fenced extraction.
	candidate, fenced := extractFenced(text)
	if fenced {
		if form, serr := parseStrict(candidate); serr == nil {
			return form, nil
		} else if firstErr == nil {
			firstErr = serr
		}
	}

	// Strategy 2: direct parse of the whole text.
	if strings.HasPrefix(text, "{") {
		if form, serr := parseStrict(text); serr == nil {
			return form, nil
		} else if firstErr == nil {
			firstErr = serr
		}
	}

	// Strategy 3: span extraction between the first "{" and the last "}".
	span, ok := extractSpan(text)
	if ok {
		if form, serr := parseStrict(span); serr == nil {
			return form, nil
		} else if firstErr == nil {
			firstErr = serr
		}
	}

	// Strategy 4: heuristic repair over the best candidate so far.
	target := span
	if !ok {
		if !fenced {
			return schema.Form{}, failureFrom(firstErr, errors.New("no JSON object found in input"))
		}
		target = candidate
	} else if fenced && strings.Contains(candidate, "{") {
		target = candidate
	}

	repaired := Repair(target)
	if form, serr := parseStrict(repaired); serr == nil {
		return form, nil
	} else if firstErr == nil {
		firstErr = serr
	}

	// Strategy 5: permissive fallback.
	if form, perr := parsePermissive(repaired); perr == nil {
		return form, nil
	}

	return schema.Form{}, failureFrom(firstErr, errors.New("all parse strategies exhausted"))
}

type strictError struct {
	input  string
	offset int64
	err    error
}

func parseStrict(text string) (schema.Form, *strictError) {
	var form schema.Form
	if err := json.Unmarshal([]byte(text), &form); err != nil {
		return schema.Form{}, &strictError{input: text, offset: errorOffset(err), err: err}
	}
	return form, nil
}

func errorOffset(err error) int64 {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return syntaxErr.Offset
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return typeErr.Offset
	}
	return 0
}

func failureFrom(serr *strictError, fallback error) *Failure {
	if serr == nil {
		return &Failure{Err: fallback}
	}
	return &Failure{
		Offset:  serr.offset,
		Context: contextAround(serr.input, serr.offset),
		Err:     serr.err,
	}
}

func contextAround(input string, offset int64) string {
	if input == "" {
		return ""
	}
	center := int(offset)
	if center < 0 {
		center = 0
	}
	if center > len(input) {
		center = len(input)
	}
	start := center - contextWindow
	if start < 0 {
		start = 0
	}
	end := center + contextWindow
	if end > len(input) {
		end = len(input)
	}
	return input[start:end]
}

// extractFenced returns the innermost triple-backtick block containing an
// object. The second return is false when the text carries no usable fence,
// in which case callers fall through to span extraction.
func extractFenced(text string) (string, bool) {
	if !strings.Contains(text, "```") {
		return "", false
	}

	segments := strings.Split(text, "```")
	// Odd-indexed segments are inside a fence pair. Later fences are nested
	// deeper, so prefer the last segment carrying an object.
	for i := len(segments) - 1; i >= 1; i-- {
		if i%2 == 0 {
			continue
		}
		body := segments[i]
		// Drop a language tag such as "json" on the opening line.
		if idx := strings.IndexByte(body, '\n'); idx >= 0 {
			head := strings.TrimSpace(body[:idx])
			if head != "" && !strings.ContainsAny(head, "{}") {
				body = body[idx+1:]
			}
		}
		body = strings.TrimSpace(body)
		if strings.Contains(body, "{") {
			return body, true
		}
	}
	return "", false
}

// extractSpan slices from the first "{" to the last "}" inclusive.
func extractSpan(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	end := strings.LastIndexByte(text, '}')
	if end <= start {
		return "", false
	}
	return text[start : end+1], true
}
