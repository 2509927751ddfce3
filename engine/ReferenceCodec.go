package engine

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const alphabetSize = 26

var addressRegex = regexp.MustCompile(`^([A-Z]+)([0-9]+)$`)

// AddressToCoordinate decodes "B12" into Coordinate{Column: 1, Row: 11}.
// Column letters form a bijective base-26 numeral: A=1 ... Z=26, AA=27.
func AddressToCoordinate(address string) (Coordinate, error) {
	matches := addressRegex.FindStringSubmatch(address)
	if matches == nil {
		return Coordinate{}, fmt.Errorf("%q: %w", address, InvalidAddressError)
	}

	column, ok := LettersToColumn(matches[1])
	if !ok {
		return Coordinate{}, fmt.Errorf("%q: column overflow: %w", address, InvalidAddressError)
	}

	row, err := strconv.Atoi(matches[2])
	if err != nil || row < 1 {
		return Coordinate{}, fmt.Errorf("%q: row should be positive: %w", address, InvalidAddressError)
	}

	return Coordinate{Column: column - 1, Row: row - 1}, nil
}

// CoordinateToAddress returns an empty string for negative coordinates
func CoordinateToAddress(c Coordinate) string {
	if c.Column < 0 || c.Row < 0 {
		return ""
	}

	return ColumnToLetters(c.Column+1) + strconv.Itoa(c.Row+1)
}

// LettersToColumn decodes a 1-based column number
func LettersToColumn(letters string) (column int, ok bool) {
	if letters == "" {
		return 0, false
	}

	for _, letter := range letters {
		if letter < 'A' || letter > 'Z' {
			return 0, false
		}
		if column > (math.MaxInt32-alphabetSize)/alphabetSize {
			return 0, false
		}
		column = column*alphabetSize + int(letter-'A') + 1
	}

	return column, true
}

// ColumnToLetters encodes a 1-based column number
func ColumnToLetters(column int) string {
	if column < 1 {
		return ""
	}

	var letters []byte
	for column > 0 {
		column--
		letters = append(letters, byte('A'+column%alphabetSize))
		column /= alphabetSize
	}

	var builder strings.Builder
	builder.Grow(len(letters))
	for i := len(letters) - 1; i >= 0; i-- {
		builder.WriteByte(letters[i])
	}

	return builder.String()
}
