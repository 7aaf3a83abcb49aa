package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	mdwerror "github.com/msto63/engcalc/foundation/core/error"
)

// Unit expressions follow the pint grammar:
//
//	product := power { ("*" | "/" | implicit) power }
//	power   := atom { ("**" | "^") [sign] number | superscript }
//	atom    := number | name | "(" product ")"
//
// Whitespace between two atoms multiplies. Numbers are collected into a
// scalar factor rather than into the unit.

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokMul
	tokDiv
	tokPow
	tokSuper
	tokMinus
	tokPlus
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	num  float64
	pos  int
}

const superscriptRunes = "⁻⁰¹²³⁴⁵⁶⁷⁸⁹"

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '°' || r == '%'
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	runes := []rune(input)

	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '*':
			if i+1 < len(runes) && runes[i+1] == '*' {
				tokens = append(tokens, token{kind: tokPow, text: "**", pos: i})
				i += 2
				continue
			}
			tokens = append(tokens, token{kind: tokMul, text: "*", pos: i})
			i++
		case r == '·':
			tokens = append(tokens, token{kind: tokMul, text: "·", pos: i})
			i++
		case r == '/':
			tokens = append(tokens, token{kind: tokDiv, text: "/", pos: i})
			i++
		case r == '^':
			tokens = append(tokens, token{kind: tokPow, text: "^", pos: i})
			i++
		case r == '-':
			tokens = append(tokens, token{kind: tokMinus, text: "-", pos: i})
			i++
		case r == '+':
			tokens = append(tokens, token{kind: tokPlus, text: "+", pos: i})
			i++
		case r == '(':
			tokens = append(tokens, token{kind: tokLParen, text: "(", pos: i})
			i++
		case r == ')':
			tokens = append(tokens, token{kind: tokRParen, text: ")", pos: i})
			i++
		case strings.ContainsRune(superscriptRunes, r):
			start := i
			for i < len(runes) && strings.ContainsRune(superscriptRunes, runes[i]) {
				i++
			}
			n, err := parseSuperscript(runes[start:i])
			if err != nil {
				return nil, syntaxError(input, start, err.Error())
			}
			tokens = append(tokens, token{kind: tokSuper, text: string(runes[start:i]), num: n, pos: start})
		case unicode.IsDigit(r) || r == '.':
			start := i
			i = scanNumber(runes, i)
			text := string(runes[start:i])
			n, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, syntaxError(input, start, "invalid number "+text)
			}
			tokens = append(tokens, token{kind: tokNumber, text: text, num: n, pos: start})
		case isIdentStart(r):
			start := i
			for i < len(runes) && isIdentPart(runes[i]) {
				i++
			}
			tokens = append(tokens, token{kind: tokIdent, text: string(runes[start:i]), pos: start})
		default:
			return nil, syntaxError(input, i, fmt.Sprintf("unexpected character %q", r))
		}
	}

	return append(tokens, token{kind: tokEOF, pos: len(runes)}), nil
}

func scanNumber(runes []rune, i int) int {
	for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '.') {
		i++
	}
	// exponent only when followed by a digit, so "2e" stays 2 * e
	if i < len(runes) && (runes[i] == 'e' || runes[i] == 'E') {
		j := i + 1
		if j < len(runes) && (runes[j] == '+' || runes[j] == '-') {
			j++
		}
		if j < len(runes) && unicode.IsDigit(runes[j]) {
			i = j
			for i < len(runes) && unicode.IsDigit(runes[i]) {
				i++
			}
		}
	}
	return i
}

func parseSuperscript(runes []rune) (float64, error) {
	neg := false
	if runes[0] == '⁻' {
		neg = true
		runes = runes[1:]
	}
	if len(runes) == 0 {
		return 0, fmt.Errorf("dangling superscript minus")
	}
	n := 0
	for _, r := range runes {
		d, ok := superscriptValue(r)
		if !ok {
			return 0, fmt.Errorf("misplaced superscript minus")
		}
		n = n*10 + d
	}
	if neg {
		n = -n
	}
	return float64(n), nil
}

func superscriptValue(r rune) (int, bool) {
	for i, d := range superscriptDigits {
		if d == r {
			return i, true
		}
	}
	return 0, false
}

func syntaxError(input string, pos int, msg string) error {
	return mdwerror.Newf("invalid unit expression %q at %d: %s", input, pos, msg).
		WithCode(mdwerror.CodeInvalidInput)
}

// parsed is the result of evaluating a unit expression.
type parsed struct {
	factor float64
	unit   Unit
}

func (p parsed) mul(o parsed, sign int) parsed {
	f := p.factor * o.factor
	if sign < 0 {
		f = p.factor / o.factor
	}
	return parsed{factor: f, unit: p.unit.mul(o.unit, sign)}
}

type parser struct {
	input   string
	tokens  []token
	pos     int
	resolve func(name string) (factor, error)
}

func parseExpression(input string, resolve func(string) (factor, error)) (parsed, error) {
	tokens, err := tokenize(input)
	if err != nil {
		return parsed{}, err
	}
	p := &parser{input: input, tokens: tokens, resolve: resolve}
	result, err := p.product()
	if err != nil {
		return parsed{}, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return parsed{}, syntaxError(input, tok.pos, "unexpected "+tok.text)
	}
	return result, nil
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) product() (parsed, error) {
	left, err := p.power()
	if err != nil {
		return parsed{}, err
	}
	for {
		sign := 1
		switch p.peek().kind {
		case tokMul:
			p.next()
		case tokDiv:
			p.next()
			sign = -1
		case tokNumber, tokIdent, tokLParen:
			// implicit multiplication
		default:
			return left, nil
		}
		right, err := p.power()
		if err != nil {
			return parsed{}, err
		}
		if sign < 0 && right.factor == 0 {
			return parsed{}, ErrDivisionByZero
		}
		left = left.mul(right, sign)
	}
}

func (p *parser) power() (parsed, error) {
	base, err := p.atom()
	if err != nil {
		return parsed{}, err
	}
	for {
		var exp float64
		switch p.peek().kind {
		case tokPow:
			p.next()
			exp, err = p.exponent()
			if err != nil {
				return parsed{}, err
			}
		case tokSuper:
			exp = p.next().num
		default:
			return base, nil
		}
		u, ok := base.unit.pow(exp)
		if !ok {
			return parsed{}, syntaxError(p.input, p.tokens[p.pos-1].pos,
				fmt.Sprintf("non-integer power %g of %s", exp, base.unit))
		}
		base = parsed{factor: math.Pow(base.factor, exp), unit: u}
	}
}

func (p *parser) exponent() (float64, error) {
	sign := 1.0
	switch p.peek().kind {
	case tokMinus:
		p.next()
		sign = -1
	case tokPlus:
		p.next()
	}
	tok := p.next()
	switch tok.kind {
	case tokNumber:
		return sign * tok.num, nil
	case tokLParen:
		inner, err := p.exponent()
		if err != nil {
			return 0, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return 0, syntaxError(p.input, closing.pos, "expected )")
		}
		return sign * inner, nil
	}
	return 0, syntaxError(p.input, tok.pos, "expected exponent")
}

func (p *parser) atom() (parsed, error) {
	tok := p.next()
	switch tok.kind {
	case tokNumber:
		return parsed{factor: tok.num}, nil
	case tokIdent:
		if tok.text == Dimensionless {
			return parsed{factor: 1}, nil
		}
		f, err := p.resolve(tok.text)
		if err != nil {
			return parsed{}, err
		}
		f.exp = 1
		return parsed{factor: 1, unit: newUnit(map[string]factor{f.name(): f})}, nil
	case tokLParen:
		inner, err := p.product()
		if err != nil {
			return parsed{}, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return parsed{}, syntaxError(p.input, closing.pos, "expected )")
		}
		return inner, nil
	case tokEOF:
		return parsed{}, syntaxError(p.input, tok.pos, "unexpected end of expression")
	}
	return parsed{}, syntaxError(p.input, tok.pos, "unexpected "+tok.text)
}
