package parser

// CType is a C type as spelled in a declaration. For pointers and arrays,
// IsConst reports whether the pointee or element is const-qualified.
type CType struct {
	Name      string
	IsPointer bool
	// Indirection counts the '*' of a pointer type; 2 for uint8_t **.
	Indirection int
	IsConst     bool
	IsUnsigned  bool
	IsArray     bool
	ArraySize   int
}

type StructField struct {
	Name string
	Type CType
}

type Struct struct {
	Name     string
	TypeDef  string
	Fields   []StructField
	IsOpaque bool
}

type FunctionParam struct {
	Name string
	Type CType
}

type Function struct {
	Name       string
	ReturnType CType
	Params     []FunctionParam
	IsVariadic bool
}

type TypeDef struct {
	Name       string
	SourceType CType
}

type EnumValue struct {
	Name  string
	Value string
}

type Enum struct {
	Name   string
	Values []EnumValue
}

type Header struct {
	Structs   []Struct
	Functions []Function
	TypeDefs  []TypeDef
	Enums     []Enum
}

// Merge appends the declarations of other to h, keeping declaration order.
func (h *Header) Merge(other *Header) {
	h.Structs = append(h.Structs, other.Structs...)
	h.Functions = append(h.Functions, other.Functions...)
	h.TypeDefs = append(h.TypeDefs, other.TypeDefs...)
	h.Enums = append(h.Enums, other.Enums...)
}

// FindStruct returns the struct declared with name.
func (h *Header) FindStruct(name string) (Struct, bool) {
	for _, s := range h.Structs {
		if s.Name == name {
			return s, true
		}
	}
	return Struct{}, false
}

// FindEnum returns the enum declared with name.
func (h *Header) FindEnum(name string) (Enum, bool) {
	for _, e := range h.Enums {
		if e.Name == name {
			return e, true
		}
	}
	return Enum{}, false
}

// FindTypeDef returns the typedef declared with name.
func (h *Header) FindTypeDef(name string) (TypeDef, bool) {
	for _, t := range h.TypeDefs {
		if t.Name == name {
			return t, true
		}
	}
	return TypeDef{}, false
}
