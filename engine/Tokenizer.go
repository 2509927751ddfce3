package engine

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type TokenKind uint8

const (
	TokenOperand TokenKind = iota
	TokenOperator
	TokenLeftParenthesis
	TokenRightParenthesis
)

type Token struct {
	Kind TokenKind
	Text string
	// Position is the byte offset in the formula without its "=" prefix
	Position int
}

// Tokenize splits formula text into operands, operators and parentheses.
// Letters, digits and dots are grouped into a single operand, whitespace is skipped,
// every other character becomes a standalone token.
func Tokenize(formula string) []Token {
	body := strings.TrimPrefix(formula, FormulaPrefix)
	tokens := make([]Token, 0, len(body)/2+1)

	runStart := -1
	flushRun := func(end int) {
		if runStart >= 0 {
			tokens = append(tokens, Token{Kind: TokenOperand, Text: body[runStart:end], Position: runStart})
			runStart = -1
		}
	}

	for position, char := range body {
		if isOperandRune(char) {
			if runStart < 0 {
				runStart = position
			}
			continue
		}

		flushRun(position)

		if unicode.IsSpace(char) {
			continue
		}

		kind := TokenOperator
		switch char {
		case '(':
			kind = TokenLeftParenthesis
		case ')':
			kind = TokenRightParenthesis
		}

		_, width := utf8.DecodeRuneInString(body[position:])
		tokens = append(tokens, Token{Kind: kind, Text: body[position : position+width], Position: position})
	}
	flushRun(len(body))

	return tokens
}

func isOperandRune(char rune) bool {
	return char == '.' || unicode.IsLetter(char) || unicode.IsDigit(char)
}
