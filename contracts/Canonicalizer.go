package contracts

type Canonicalizer interface {
	CanonicalizeCellId(cellId string) string
	CanonicalizeSheetId(sheetId string) string
	CanonicalizeValue(value string) string
}
