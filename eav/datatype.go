package eav

// Datatype is the attribute datatype code stored in the datatype column.
type Datatype string

const (
	TypeText      Datatype = "text"
	TypeFloat     Datatype = "float"
	TypeDecimal   Datatype = "decimal"
	TypeInt       Datatype = "int"
	TypeDate      Datatype = "date"
	TypeBoolean   Datatype = "bool"
	TypeObject    Datatype = "object"
	TypeEnum      Datatype = "enum"
	TypeEnumMulti Datatype = "enum_multi"
	TypeJSON      Datatype = "json"
)

var datatypeNames = map[Datatype]string{
	TypeText:      "Text",
	TypeFloat:     "Float",
	TypeDecimal:   "Decimal",
	TypeInt:       "Integer",
	TypeDate:      "Date",
	TypeBoolean:   "True / False",
	TypeObject:    "Object",
	TypeEnum:      "Choice",
	TypeEnumMulti: "Multiple Choice",
	TypeJSON:      "JSON",
}

// Datatypes lists every supported datatype code.
func Datatypes() []Datatype {
	return []Datatype{
		TypeText, TypeFloat, TypeDecimal, TypeInt, TypeDate,
		TypeBoolean, TypeObject, TypeEnum, TypeEnumMulti, TypeJSON,
	}
}

func (d Datatype) DisplayName() string {
	return datatypeNames[d]
}

func (d Datatype) IsValid() bool {
	_, ok := datatypeNames[d]

	return ok
}

// IsChoice reports whether values of this datatype reference enum tokens.
func (d Datatype) IsChoice() bool {
	return d == TypeEnum || d == TypeEnumMulti
}
