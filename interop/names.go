package interop

import (
	"go/token"
	"strings"
	"unicode"
)

var initialisms = map[string]string{
	"id":   "ID",
	"url":  "URL",
	"api":  "API",
	"http": "HTTP",
	"json": "JSON",
	"xml":  "XML",
	"sql":  "SQL",
	"io":   "IO",
	"ip":   "IP",
	"tcp":  "TCP",
	"udp":  "UDP",
}

// GoName converts a C identifier such as crypto_blake2b_init to an exported
// Go identifier (CryptoBlake2bInit).
func GoName(name string) string {
	if name == "" {
		return ""
	}

	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_'
	})

	var result strings.Builder
	for _, part := range parts {
		if up, ok := initialisms[strings.ToLower(part)]; ok {
			result.WriteString(up)
			continue
		}
		result.WriteString(strings.ToUpper(part[:1]))
		result.WriteString(strings.ToLower(part[1:]))
	}

	return result.String()
}

// LowerCamel converts a C identifier to an unexported Go identifier. Names
// that collide with Go keywords get a trailing underscore.
func LowerCamel(name string) string {
	goName := GoName(name)
	if goName == "" {
		return ""
	}

	for acr := range initialisms {
		if strings.EqualFold(goName, acr) {
			return strings.ToLower(goName)
		}
	}

	runes := []rune(goName)
	runes[0] = unicode.ToLower(runes[0])
	ident := string(runes)

	if token.IsKeyword(ident) {
		ident += "_"
	}
	return ident
}
