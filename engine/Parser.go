package engine

import (
	"fmt"
	"regexp"
)

var numberLiteralRegex = regexp.MustCompile(`^\d+(\.\d+)?$`)

var cellReferenceRegex = regexp.MustCompile(`^[A-Z]+\d+$`)

// Node is one of *NumberNode, *CellReferenceNode or *OperatorNode
type Node interface {
	String() string
	node()
}

type NumberNode struct {
	Literal string
}

type CellReferenceNode struct {
	Address string
}

type OperatorNode struct {
	Symbol string
	Left   Node
	Right  Node
}

func (n *NumberNode) node()        {}
func (n *CellReferenceNode) node() {}
func (n *OperatorNode) node()      {}

func (n *NumberNode) String() string        { return n.Literal }
func (n *CellReferenceNode) String() string { return n.Address }
func (n *OperatorNode) String() string {
	return "(" + n.Left.String() + " " + n.Symbol + " " + n.Right.String() + ")"
}

var operatorPrecedence = map[string]int{
	"+": 1,
	"-": 1,
	"*": 2,
	"/": 2,
}

// ParseFormula tokenizes and parses formula text in one step
func ParseFormula(formula string) (Node, error) {
	node, err := Parse(Tokenize(formula))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", formula, err)
	}
	return node, nil
}

// Parse builds an expression tree with the shunting-yard algorithm.
// All operators are left-associative, "*" and "/" bind tighter than "+" and "-".
func Parse(tokens []Token) (Node, error) {
	operands := make([]Node, 0, len(tokens)/2+1)
	operators := make([]Token, 0, len(tokens)/2+1)

	reduce := func() error {
		operator := operators[len(operators)-1]
		operators = operators[:len(operators)-1]

		if len(operands) < 2 {
			return fmt.Errorf("operator %q at %d misses an operand: %w", operator.Text, operator.Position, MalformedExpressionError)
		}

		right := operands[len(operands)-1]
		left := operands[len(operands)-2]
		operands = append(operands[:len(operands)-2], &OperatorNode{Symbol: operator.Text, Left: left, Right: right})
		return nil
	}

	for _, token := range tokens {
		switch token.Kind {
		case TokenOperand:
			operand, err := parseOperand(token)
			if err != nil {
				return nil, err
			}
			operands = append(operands, operand)

		case TokenLeftParenthesis:
			operators = append(operators, token)

		case TokenRightParenthesis:
			for {
				if len(operators) == 0 {
					return nil, fmt.Errorf("position %d: %w", token.Position, UnmatchedClosingParenthesisError)
				}
				if operators[len(operators)-1].Kind == TokenLeftParenthesis {
					operators = operators[:len(operators)-1]
					break
				}
				if err := reduce(); err != nil {
					return nil, err
				}
			}

		case TokenOperator:
			precedence, ok := operatorPrecedence[token.Text]
			if !ok {
				return nil, fmt.Errorf("%q at %d: %w", token.Text, token.Position, UnknownOperatorError)
			}

			for len(operators) > 0 {
				top := operators[len(operators)-1]
				if top.Kind != TokenOperator || operatorPrecedence[top.Text] < precedence {
					break
				}
				if err := reduce(); err != nil {
					return nil, err
				}
			}
			operators = append(operators, token)
		}
	}

	for len(operators) > 0 {
		if top := operators[len(operators)-1]; top.Kind == TokenLeftParenthesis {
			return nil, fmt.Errorf("position %d: %w", top.Position, UnmatchedOpeningParenthesisError)
		}
		if err := reduce(); err != nil {
			return nil, err
		}
	}

	if len(operands) != 1 {
		return nil, fmt.Errorf("%d operands left: %w", len(operands), MalformedExpressionError)
	}

	return operands[0], nil
}

func parseOperand(token Token) (Node, error) {
	if numberLiteralRegex.MatchString(token.Text) {
		return &NumberNode{Literal: token.Text}, nil
	}

	if cellReferenceRegex.MatchString(token.Text) {
		return &CellReferenceNode{Address: token.Text}, nil
	}

	return nil, fmt.Errorf("operand %q at %d: %w", token.Text, token.Position, MalformedExpressionError)
}

// References lists cell addresses in evaluation order, repeated addresses included
func References(root Node) []string {
	references := make([]string, 0)
	stack := []Node{root}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch node := current.(type) {
		case *CellReferenceNode:
			references = append(references, node.Address)
		case *OperatorNode:
			stack = append(stack, node.Right, node.Left)
		}
	}

	return references
}
