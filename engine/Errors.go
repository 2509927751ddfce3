package engine

import (
	"errors"
	"fmt"
)

var ExpressionError = errors.New("expression error")

var InvalidAddressError = errors.New("invalid address")

var UnmatchedParenthesisError = fmt.Errorf("%w: %s", ExpressionError, "unmatched parenthesis")

var UnmatchedClosingParenthesisError = fmt.Errorf("%w: %s", UnmatchedParenthesisError, "closing parenthesis without opening one")

var UnmatchedOpeningParenthesisError = fmt.Errorf("%w: %s", UnmatchedParenthesisError, "opening parenthesis is never closed")

var MalformedExpressionError = fmt.Errorf("%w: %s", ExpressionError, "malformed expression")

var UnknownOperatorError = fmt.Errorf("%w: %s", ExpressionError, "unknown operator")

var CircularDependencyError = fmt.Errorf("%w: %s", ExpressionError, "circular dependency detected")

// UnresolvedReferenceError is recovered by Evaluate as value 0
var UnresolvedReferenceError = errors.New("unresolved reference")

var ReferenceOutOfBoundsError = fmt.Errorf("%w: %s", ExpressionError, "reference outside of the grid")

var CellOutOfBoundsError = errors.New("cell is outside of the grid")
