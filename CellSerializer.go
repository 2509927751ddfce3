package main

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var SerializerError = errors.New("invalid serialized data")

// CellBinarySerializer stores a cell as uvarint(len(address)) + address + value
type CellBinarySerializer struct {
}

func NewCellBinarySerializer() *CellBinarySerializer {
	return &CellBinarySerializer{}
}

func (s *CellBinarySerializer) Marshal(address string, value string) []byte {
	serializedData := make([]byte, 0, binary.MaxVarintLen64+len(address)+len(value))

	serializedData = binary.AppendUvarint(serializedData, uint64(len(address)))
	serializedData = append(serializedData, address...)
	serializedData = append(serializedData, value...)
	return serializedData
}

func (s *CellBinarySerializer) Unmarshal(data []byte) (address string, value string, err error) {
	addressLength, prefixLength := binary.Uvarint(data)
	if prefixLength <= 0 {
		return "", "", fmt.Errorf("%w: missing address length (data: %v)", SerializerError, string(data))
	}

	if uint64(len(data)-prefixLength) < addressLength {
		return "", "", fmt.Errorf("%w: address size is less than bytes amount (addressSize: %d; data: %v)", SerializerError, addressLength, string(data))
	}

	addressEnd := prefixLength + int(addressLength)
	address = string(data[prefixLength:addressEnd])
	value = string(data[addressEnd:])
	return
}
