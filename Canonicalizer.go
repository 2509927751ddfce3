package main

import (
	"strings"

	"github.com/NathanaelEastwood/SheetAI-sub000/engine"
)

// Canonicalizer maps user input onto the forms the engine accepts:
// cell ids and formulas are upper-cased, sheet ids lower-cased, literals kept as typed.
type Canonicalizer struct {
	whitespaceRemover *strings.Replacer
}

func NewCanonicalizer() *Canonicalizer {
	return &Canonicalizer{
		whitespaceRemover: strings.NewReplacer(" ", "", "\t", "", "\n", "", "\r", "", "\v", "", "\f", ""),
	}
}

func (c *Canonicalizer) CanonicalizeCellId(cellId string) string {
	return strings.ToUpper(c.whitespaceRemover.Replace(cellId))
}

func (c *Canonicalizer) CanonicalizeSheetId(sheetId string) string {
	return strings.ToLower(strings.TrimSpace(sheetId))
}

func (c *Canonicalizer) CanonicalizeValue(value string) string {
	if engine.IsFormula(value) {
		return strings.ToUpper(value)
	}

	return value
}
