package contracts

import "errors"

// Cell is the API view of one grid entry.
// Value is the raw input (literal or formula), Result is the rendered text.
type Cell struct {
	Address    string   `json:"address"`
	Value      string   `json:"value"`
	Result     string   `json:"result"`
	Dependants []string `json:"dependants,omitempty"`
}

type CellList map[string]*Cell

var CellNotFoundError = errors.New("cell not found")

var CellIdInvalidError = errors.New("cell id should look like `B12`")
