package recovery

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-intake/pkg/schema"
)

// parsePermissive is the last-resort strategy: a bracket/brace matcher that
// accepts object literal syntax looser than strict JSON. Commas between
// members and elements are optional, trailing commas are ignored, and both
// double- and single-quoted strings are accepted. The true/false/null
// literals stay case-sensitive.
func parsePermissive(text string) (schema.Form, error) {
	p := &laxParser{src: text}
	p.skipFiller()
	value, err := p.parseValue()
	if err != nil {
		return schema.Form{}, err
	}

	payload, ok := value.(map[string]any)
	if !ok {
		return schema.Form{}, fmt.Errorf("recovery: permissive parse produced %T, want object", value)
	}

	// Round-trip through canonical JSON so the schema package's own decoding
	// rules (extension bag, row shorthand, loose root elements) apply.
	encoded, err := json.Marshal(payload)
	if err != nil {
		return schema.Form{}, err
	}
	var form schema.Form
	if err := json.Unmarshal(encoded, &form); err != nil {
		return schema.Form{}, err
	}
	return form, nil
}

type laxParser struct {
	src string
	pos int
}

func (p *laxParser) parseValue() (any, error) {
	p.skipFiller()
	if p.pos >= len(p.src) {
		return nil, fmt.Errorf("recovery: unexpected end of input at %d", p.pos)
	}

	switch c := p.src[p.pos]; {
	case c == '{':
		return p.parseObject()
	case c == '[':
		return p.parseArray()
	case c == '"' || c == '\'':
		return p.parseString(c)
	case strings.HasPrefix(p.src[p.pos:], "true"):
		p.pos += len("true")
		return true, nil
	case strings.HasPrefix(p.src[p.pos:], "false"):
		p.pos += len("false")
		return false, nil
	case strings.HasPrefix(p.src[p.pos:], "null"):
		p.pos += len("null")
		return nil, nil
	case c == '-' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	default:
		return nil, fmt.Errorf("recovery: unexpected character %q at %d", c, p.pos)
	}
}

func (p *laxParser) parseObject() (map[string]any, error) {
	p.pos++ // consume "{"
	out := make(map[string]any)

	for {
		p.skipFiller()
		if p.pos >= len(p.src) {
			return nil, fmt.Errorf("recovery: unterminated object at %d", p.pos)
		}
		if p.src[p.pos] == '}' {
			p.pos++
			return out, nil
		}

		quote := p.src[p.pos]
		if quote != '"' && quote != '\'' {
			return nil, fmt.Errorf("recovery: object key must be quoted at %d", p.pos)
		}
		key, err := p.parseString(quote)
		if err != nil {
			return nil, err
		}

		p.skipFiller()
		if p.pos >= len(p.src) || p.src[p.pos] != ':' {
			return nil, fmt.Errorf("recovery: missing \":\" after key %q at %d", key, p.pos)
		}
		p.pos++

		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		out[key] = value
	}
}

func (p *laxParser) parseArray() ([]any, error) {
	p.pos++ // consume "["
	out := []any{}

	for {
		p.skipFiller()
		if p.pos >= len(p.src) {
			return nil, fmt.Errorf("recovery: unterminated array at %d", p.pos)
		}
		if p.src[p.pos] == ']' {
			p.pos++
			return out, nil
		}

		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		out = append(out, value)
	}
}

func (p *laxParser) parseString(quote byte) (string, error) {
	p.pos++ // consume opening quote
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case quote:
			p.pos++
			return b.String(), nil
		case '\\':
			if p.pos+1 >= len(p.src) {
				return "", fmt.Errorf("recovery: dangling escape at %d", p.pos)
			}
			next := p.src[p.pos+1]
			switch next {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case 'u':
				if p.pos+6 <= len(p.src) {
					if code, err := strconv.ParseUint(p.src[p.pos+2:p.pos+6], 16, 32); err == nil {
						b.WriteRune(rune(code))
						p.pos += 6
						continue
					}
				}
				b.WriteByte(next)
			default:
				b.WriteByte(next)
			}
			p.pos += 2
			continue
		default:
			b.WriteByte(c)
			p.pos++
			continue
		}
	}
	return "", fmt.Errorf("recovery: unterminated string at %d", p.pos)
}

func (p *laxParser) parseNumber() (any, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '-' || c == '+' || c == '.' || c == 'e' || c == 'E' || (c >= '0' && c <= '9') {
			p.pos++
			continue
		}
		break
	}
	token := p.src[start:p.pos]
	if n, err := strconv.ParseInt(token, 10, 64); err == nil {
		return float64(n), nil
	}
	f, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return nil, fmt.Errorf("recovery: invalid number %q at %d", token, start)
	}
	return f, nil
}

// skipFiller consumes whitespace and stray commas, which is what makes the
// comma rules optional in this mode.
func (p *laxParser) skipFiller() {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if isSpace(c) || c == ',' {
			p.pos++
			continue
		}
		return
	}
}
