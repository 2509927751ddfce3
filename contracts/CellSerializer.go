package contracts

type CellSerializer interface {
	Marshal(address string, value string) []byte
	Unmarshal([]byte) (address string, value string, err error)
}
