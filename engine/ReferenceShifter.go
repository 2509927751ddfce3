package engine

import "regexp"

var referenceInTextRegex = regexp.MustCompile(`[A-Z]+[0-9]+`)

// ShiftReferences moves every relative reference in formula by dx columns and dy rows.
// A reference that would land left of column A or above row 1 stays as it was.
func ShiftReferences(formula string, dx int, dy int) string {
	if dx == 0 && dy == 0 {
		return formula
	}

	return referenceInTextRegex.ReplaceAllStringFunc(formula, func(reference string) string {
		coordinate, err := AddressToCoordinate(reference)
		if err != nil {
			return reference
		}

		shifted := coordinate.Offset(dx, dy)
		if shifted.Column < 0 || shifted.Row < 0 {
			return reference
		}

		return CoordinateToAddress(shifted)
	})
}
