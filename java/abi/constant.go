package abi

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/alampiss/buck/java/parser"
)

// literalValue converts a literal initializer to the Go value of the
// field's type: bool, int8, int16, uint16 (char), int32, int64, float32,
// float64 or string.
func literalValue(typeName string, tok *parser.Token) (any, bool) {
	if tok == nil {
		return nil, false
	}
	lit := tok.Literal
	switch typeName {
	case "boolean":
		if tok.Kind == parser.TokenKeyword {
			return lit == "true", true
		}
	case "String", "java.lang.String":
		if tok.Kind == parser.TokenStringLiteral {
			return unquoteJava(lit)
		}
	case "char":
		switch tok.Kind {
		case parser.TokenCharLiteral:
			return unquoteChar(lit)
		case parser.TokenIntLiteral:
			if n, ok := integerLiteral(lit, false); ok && n >= 0 && n <= math.MaxUint16 {
				return uint16(n), true
			}
		}
	case "byte", "short", "int", "long":
		n, ok := integralOperand(tok, typeName == "long")
		if !ok {
			return nil, false
		}
		switch typeName {
		case "byte":
			if n >= math.MinInt8 && n <= math.MaxInt8 {
				return int8(n), true
			}
		case "short":
			if n >= math.MinInt16 && n <= math.MaxInt16 {
				return int16(n), true
			}
		case "int":
			if n >= math.MinInt32 && n <= math.MaxInt32 {
				return int32(n), true
			}
		case "long":
			return n, true
		}
	case "float", "double":
		f, ok := floatingOperand(tok)
		if !ok {
			return nil, false
		}
		if typeName == "float" {
			return float32(f), true
		}
		return f, true
	}
	return nil, false
}

func integralOperand(tok *parser.Token, long bool) (int64, bool) {
	switch tok.Kind {
	case parser.TokenIntLiteral:
		if isLongLiteral(tok.Literal) && !long {
			return 0, false
		}
		return integerLiteral(tok.Literal, long || isLongLiteral(tok.Literal))
	case parser.TokenCharLiteral:
		r, ok := unquoteChar(tok.Literal)
		if !ok {
			return 0, false
		}
		return int64(r.(uint16)), true
	}
	return 0, false
}

func floatingOperand(tok *parser.Token) (float64, bool) {
	switch tok.Kind {
	case parser.TokenIntLiteral:
		n, ok := integerLiteral(tok.Literal, isLongLiteral(tok.Literal))
		return float64(n), ok
	case parser.TokenFloatLiteral:
		s := strings.ReplaceAll(tok.Literal, "_", "")
		hex := strings.HasPrefix(strings.TrimLeft(s, "+-"), "0x") || strings.HasPrefix(strings.TrimLeft(s, "+-"), "0X")
		if last := s[len(s)-1]; last == 'f' || last == 'F' || last == 'd' || last == 'D' {
			if !hex || strings.ContainsAny(s, "pP") {
				s = s[:len(s)-1]
			}
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}

func isLongLiteral(lit string) bool {
	return strings.HasSuffix(lit, "l") || strings.HasSuffix(lit, "L")
}

// integerLiteral parses a Java integer literal with an optional sign.
// Hexadecimal, octal and binary literals of type int may spell negative
// values through their two's complement bits, as Java allows.
func integerLiteral(lit string, long bool) (int64, bool) {
	neg := false
	switch {
	case strings.HasPrefix(lit, "-"):
		neg = true
		lit = lit[1:]
	case strings.HasPrefix(lit, "+"):
		lit = lit[1:]
	}
	lit = strings.TrimRight(lit, "lL")
	lit = strings.ReplaceAll(lit, "_", "")
	if lit == "" {
		return 0, false
	}

	var n int64
	if len(lit) > 1 && lit[0] == '0' {
		u, err := strconv.ParseUint(lit, 0, 64)
		if err != nil {
			return 0, false
		}
		if long {
			n = int64(u)
		} else {
			if u > math.MaxUint32 {
				return 0, false
			}
			n = int64(int32(uint32(u)))
		}
	} else {
		u, err := strconv.ParseUint(lit, 10, 64)
		if err != nil {
			return 0, false
		}
		limit := uint64(math.MaxInt32)
		if long {
			limit = math.MaxInt64
		}
		switch {
		case u <= limit:
			n = int64(u)
		case neg && u == limit+1:
			if long {
				return math.MinInt64, true
			}
			return math.MinInt32, true
		default:
			return 0, false
		}
	}
	if neg {
		n = -n
	}
	return n, true
}

func unquoteChar(lit string) (any, bool) {
	s, ok := unquoteJava(lit)
	if !ok {
		return nil, false
	}
	units := utf16.Encode([]rune(s.(string)))
	if len(units) != 1 {
		return nil, false
	}
	return units[0], true
}

// unquoteJava strips the quotes of a string or char literal and decodes
// its escape sequences.
func unquoteJava(lit string) (any, bool) {
	if len(lit) < 2 || lit[0] != lit[len(lit)-1] || (lit[0] != '"' && lit[0] != '\'') {
		return nil, false
	}
	body := lit[1 : len(lit)-1]
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return nil, false
		}
		switch e := body[i]; e {
		case 'b':
			sb.WriteByte('\b')
		case 't':
			sb.WriteByte('\t')
		case 'n':
			sb.WriteByte('\n')
		case 'f':
			sb.WriteByte('\f')
		case 'r':
			sb.WriteByte('\r')
		case 's':
			sb.WriteByte(' ')
		case '"', '\'', '\\':
			sb.WriteByte(e)
		case 'u':
			for i < len(body) && body[i] == 'u' {
				i++
			}
			if i+4 > len(body) {
				return nil, false
			}
			v, err := strconv.ParseUint(body[i:i+4], 16, 16)
			if err != nil {
				return nil, false
			}
			sb.WriteRune(rune(v))
			i += 3
		default:
			if e < '0' || e > '7' {
				return nil, false
			}
			digits := 2
			if e <= '3' {
				digits = 3
			}
			j := i
			for j < len(body) && j-i < digits && body[j] >= '0' && body[j] <= '7' {
				j++
			}
			v, _ := strconv.ParseUint(body[i:j], 8, 8)
			sb.WriteRune(rune(v))
			i = j - 1
		}
	}
	return sb.String(), true
}
