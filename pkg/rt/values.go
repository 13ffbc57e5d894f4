package rt

import (
	"fmt"
	"math/big"
)

// Decimal is an exact decimal number kept in its text form
type Decimal string

// ParseDecimal validates s as a decimal number
func ParseDecimal(s string) (Decimal, error) {
	if _, ok := new(big.Rat).SetString(s); !ok {
		return "", fmt.Errorf("invalid decimal %q", s)
	}
	return Decimal(s), nil
}

// Rat returns the value of d, zero when d is empty
func (d Decimal) Rat() *big.Rat {
	r, ok := new(big.Rat).SetString(string(d))
	if !ok {
		return new(big.Rat)
	}
	return r
}

// ChoiceEntry is one value of a choice definition
type ChoiceEntry struct {
	Code  string
	Label string
}

// ChoiceDefinition is implemented by the generated choice types
type ChoiceDefinition interface {
	Values() []ChoiceEntry
}

// ChoiceValue holds one code of the choice definition D
type ChoiceValue[D ChoiceDefinition] struct {
	Code string
}

// NewChoiceValue returns the value for code, or an error when D does not declare it
func NewChoiceValue[D ChoiceDefinition](code string) (ChoiceValue[D], error) {
	v := ChoiceValue[D]{Code: code}
	if !v.Valid() {
		return ChoiceValue[D]{}, fmt.Errorf("unknown choice code %q", code)
	}
	return v, nil
}

// Valid reports whether the code is declared by D
func (v ChoiceValue[D]) Valid() bool {
	_, ok := v.entry()
	return ok
}

// DisplayValue returns the label of the code, or the code itself when it has none
func (v ChoiceValue[D]) DisplayValue() string {
	if entry, ok := v.entry(); ok && entry.Label != "" {
		return entry.Label
	}
	return v.Code
}

func (v ChoiceValue[D]) String() string {
	return v.Code
}

func (v ChoiceValue[D]) entry() (ChoiceEntry, bool) {
	var definition D
	for _, entry := range definition.Values() {
		if entry.Code == v.Code {
			return entry, true
		}
	}
	return ChoiceEntry{}, false
}
