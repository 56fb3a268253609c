package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var blockCommentRe = regexp.MustCompile(`/\*[\s\S]*?\*/`)
var lineCommentRe = regexp.MustCompile(`//[^\n]*`)
var preprocessorRe = regexp.MustCompile(`(?m)^[ \t]*#.*(?:\\\n.*)*$`)
var externCRe = regexp.MustCompile(`extern\s+"C"\s*\{`)
var multiSpaceRe = regexp.MustCompile(`[ \t]+`)
var typedefRe = regexp.MustCompile(`typedef\s+(?:struct\s+)?(\w+(?:\s*\*)?)\s+(\w+)\s*;`)
var opaqueRe = regexp.MustCompile(`typedef\s+struct\s+(\w+)_s\s*\*\s*(\w+)\s*;`)
var structRe = regexp.MustCompile(`typedef\s+struct\s*(?:\w+)?\s*\{([^}]+)\}\s*(\w+)\s*;`)
var enumRe = regexp.MustCompile(`typedef\s+enum\s*(?:\w+)?\s*\{([^}]+)\}\s*(\w+)\s*;`)
var funcRe = regexp.MustCompile(`(?m)^[ \t]*((?:const\s+)?(?:unsigned\s+)?(?:struct\s+)?\w+(?:\s*\*+\s*|\s+))(\w+)\s*\(([^)]*)\)\s*;`)
var arraySuffixRe = regexp.MustCompile(`^(\w+)\s*\[\s*(\d*)\s*\]$`)
var funcPointerRe = regexp.MustCompile(`\(\s*\*\s*(\w+)\s*\)\s*\(`)

func Parse(content string) (*Header, error) {
	content = removeComments(content)
	content = removePreprocessor(content)
	content = normalizeWhitespace(content)

	header := &Header{}

	parseTypeDefs(content, header)
	parseStructs(content, header)
	parseEnums(content, header)
	parseFunctions(content, header)

	return header, nil
}

func removeComments(s string) string {
	s = blockCommentRe.ReplaceAllString(s, "")
	s = lineCommentRe.ReplaceAllString(s, "")

	return s
}

func removePreprocessor(s string) string {
	s = preprocessorRe.ReplaceAllString(s, "")

	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if strings.Contains(line, `extern "C"`) {
			line = externCRe.ReplaceAllString(line, "")
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = multiSpaceRe.ReplaceAllString(s, " ")

	return s
}

func parseTypeDefs(content string, header *Header) {
	matches := typedefRe.FindAllStringSubmatch(content, -1)

	for _, m := range matches {
		if len(m) < 3 {
			continue
		}
		srcType := strings.TrimSpace(m[1])
		name := strings.TrimSpace(m[2])

		ctype := parseCType(srcType)

		header.TypeDefs = append(header.TypeDefs, TypeDef{
			Name:       name,
			SourceType: ctype,
		})
	}

	matches = opaqueRe.FindAllStringSubmatch(content, -1)
	for _, m := range matches {
		if len(m) < 3 {
			continue
		}
		name := strings.TrimSpace(m[2])

		header.Structs = append(header.Structs, Struct{
			Name:     name,
			TypeDef:  strings.TrimSpace(m[1]) + "_s",
			IsOpaque: true,
		})
	}
}

func parseStructs(content string, header *Header) {
	matches := structRe.FindAllStringSubmatch(content, -1)

	for _, m := range matches {
		if len(m) < 3 {
			continue
		}
		body := strings.TrimSpace(m[1])
		name := strings.TrimSpace(m[2])

		fields := parseStructFields(body)

		header.Structs = append(header.Structs, Struct{
			Name:   name,
			Fields: fields,
		})
	}
}

func parseStructFields(body string) []StructField {
	var fields []StructField

	lines := strings.Split(body, ";")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Function pointers are laid out as plain pointers.
		if m := funcPointerRe.FindStringSubmatch(line); m != nil {
			fields = append(fields, StructField{
				Name: m[1],
				Type: CType{Name: "void", IsPointer: true},
			})
			continue
		}

		name, ctype, ok := parseDeclarator(line)
		if !ok {
			continue
		}

		fields = append(fields, StructField{
			Name: name,
			Type: ctype,
		})
	}

	return fields
}

// parseDeclarator splits "const uint8_t *name" or "uint8_t name[16]" into the
// declared name and its type.
func parseDeclarator(decl string) (string, CType, bool) {
	decl = strings.TrimSpace(decl)

	// "uint8_t mac [16]" is normalized so the array suffix sticks to its name.
	decl = strings.ReplaceAll(decl, " [", "[")

	tokens := strings.Fields(decl)
	if len(tokens) < 2 {
		return "", CType{}, false
	}

	name := tokens[len(tokens)-1]
	typeParts := tokens[:len(tokens)-1]

	for strings.HasPrefix(name, "*") {
		name = strings.TrimPrefix(name, "*")
		typeParts = append(typeParts, "*")
	}

	arraySize := -1
	if m := arraySuffixRe.FindStringSubmatch(name); m != nil {
		name = m[1]
		arraySize = 0
		if m[2] != "" {
			arraySize, _ = strconv.Atoi(m[2])
		}
	}

	ctype := parseCType(strings.Join(typeParts, " "))
	if arraySize >= 0 {
		ctype.IsArray = true
		ctype.ArraySize = arraySize
	}

	return name, ctype, true
}

func parseCType(typeStr string) CType {
	typeStr = strings.TrimSpace(typeStr)

	ct := CType{}

	if strings.Contains(typeStr, "const") {
		ct.IsConst = true
		typeStr = strings.ReplaceAll(typeStr, "const", "")
		typeStr = strings.TrimSpace(typeStr)
	}

	if strings.Contains(typeStr, "unsigned") {
		ct.IsUnsigned = true
		typeStr = strings.ReplaceAll(typeStr, "unsigned", "")
		typeStr = strings.TrimSpace(typeStr)
		if typeStr == "" {
			typeStr = "int"
		}
	}

	typeStr = strings.TrimPrefix(typeStr, "struct ")

	if strings.HasSuffix(typeStr, "*") || strings.Contains(typeStr, "* ") {
		ct.IsPointer = true
		ct.Indirection = strings.Count(typeStr, "*")
		typeStr = strings.ReplaceAll(typeStr, "*", "")
		typeStr = strings.TrimSpace(typeStr)
	}

	ct.Name = strings.Join(strings.Fields(typeStr), " ")

	return ct
}

func parseEnums(content string, header *Header) {
	matches := enumRe.FindAllStringSubmatch(content, -1)

	for _, m := range matches {
		if len(m) < 3 {
			continue
		}
		body := strings.TrimSpace(m[1])
		name := strings.TrimSpace(m[2])

		values := parseEnumValues(body)

		header.Enums = append(header.Enums, Enum{
			Name:   name,
			Values: values,
		})
	}
}

func parseEnumValues(body string) []EnumValue {
	var values []EnumValue

	parts := strings.Split(body, ",")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if idx := strings.Index(part, "="); idx != -1 {
			name := strings.TrimSpace(part[:idx])
			value := strings.TrimSpace(part[idx+1:])
			values = append(values, EnumValue{Name: name, Value: value})
		} else {
			values = append(values, EnumValue{Name: part})
		}
	}

	return values
}

func parseFunctions(content string, header *Header) {
	matches := funcRe.FindAllStringSubmatch(content, -1)

	for _, m := range matches {
		if len(m) < 4 {
			continue
		}

		retType := strings.TrimSpace(m[1])
		name := strings.TrimSpace(m[2])
		paramsStr := strings.TrimSpace(m[3])

		if retType == "typedef" || retType == "return" {
			continue
		}

		fn := Function{
			Name:       name,
			ReturnType: parseCType(retType),
		}

		if paramsStr == "void" || paramsStr == "" {
			fn.Params = nil
		} else {
			fn.Params, fn.IsVariadic = parseParams(paramsStr)
		}

		header.Functions = append(header.Functions, fn)
	}
}

func parseParams(paramsStr string) ([]FunctionParam, bool) {
	var params []FunctionParam
	isVariadic := false

	parts := strings.Split(paramsStr, ",")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if part == "..." {
			isVariadic = true
			continue
		}

		name, ctype, ok := parseDeclarator(part)
		if !ok {
			params = append(params, FunctionParam{
				Name: "",
				Type: parseCType(part),
			})
			continue
		}

		params = append(params, FunctionParam{
			Name: name,
			Type: ctype,
		})
	}

	return params, isVariadic
}
