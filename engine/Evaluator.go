package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// LookupFunc resolves a cell address to its numeric value
type LookupFunc func(address string) (float64, error)

// Evaluate reduces the tree with IEEE-754 arithmetic, so division by zero yields ±Inf or NaN.
// The lookup is called once per reference occurrence. UnresolvedReferenceError counts as 0.
func Evaluate(root Node, lookup LookupFunc) (float64, error) {
	switch node := root.(type) {
	case *NumberNode:
		value, err := strconv.ParseFloat(node.Literal, 64)
		if err != nil {
			return 0, fmt.Errorf("number %q: %w", node.Literal, MalformedExpressionError)
		}
		return value, nil

	case *CellReferenceNode:
		value, err := lookup(node.Address)
		if errors.Is(err, UnresolvedReferenceError) {
			return 0, nil
		}
		return value, err

	case *OperatorNode:
		left, err := Evaluate(node.Left, lookup)
		if err != nil {
			return 0, err
		}

		right, err := Evaluate(node.Right, lookup)
		if err != nil {
			return 0, err
		}

		switch node.Symbol {
		case "+":
			return left + right, nil
		case "-":
			return left - right, nil
		case "*":
			return left * right, nil
		case "/":
			return left / right, nil
		}

		return 0, fmt.Errorf("%q: %w", node.Symbol, UnknownOperatorError)
	}

	return 0, fmt.Errorf("unexpected node %T: %w", root, MalformedExpressionError)
}

// StrictLookup escalates unresolved references instead of reading them as 0
func StrictLookup(lookup LookupFunc) LookupFunc {
	return func(address string) (float64, error) {
		value, err := lookup(address)
		if errors.Is(err, UnresolvedReferenceError) {
			return 0, fmt.Errorf("%s: %w", address, ReferenceOutOfBoundsError)
		}
		return value, err
	}
}

func FormatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// ParseNumber reads rendered cell text, anything non-numeric counts as 0
func ParseNumber(rendered string) float64 {
	if value, err := strconv.ParseFloat(strings.TrimSpace(rendered), 64); err == nil {
		return value
	}
	return 0
}
