package main

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var SerializerError = errors.New("invalid serialized data")

const cellRecordVersion byte = 1

// CellBinarySerializer stores a cell as
// version byte | uvarint name length | name | string form.
type CellBinarySerializer struct {
}

func NewCellBinarySerializer() *CellBinarySerializer {
	return &CellBinarySerializer{}
}

func (s *CellBinarySerializer) Marshal(name string, stringForm string) []byte {
	serializedData := make([]byte, 0, 1+binary.MaxVarintLen64+len(name)+len(stringForm))

	serializedData = append(serializedData, cellRecordVersion)
	serializedData = binary.AppendUvarint(serializedData, uint64(len(name)))
	serializedData = append(serializedData, name...)
	serializedData = append(serializedData, stringForm...)
	return serializedData
}

func (s *CellBinarySerializer) Unmarshal(data []byte) (name string, stringForm string, err error) {
	if len(data) < 2 {
		return "", "", fmt.Errorf("%w: should be at least 2 bytes (data: %q)", SerializerError, data)
	}

	if data[0] != cellRecordVersion {
		return "", "", fmt.Errorf("%w: unknown record version %d", SerializerError, data[0])
	}

	nameLength, n := binary.Uvarint(data[1:])
	if n <= 0 {
		return "", "", fmt.Errorf("%w: bad name length (data: %q)", SerializerError, data)
	}

	offset := 1 + n
	if uint64(len(data)-offset) < nameLength {
		return "", "", fmt.Errorf("%w: name size is more than bytes amount (nameSize: %d; data: %q)", SerializerError, nameLength, data)
	}

	end := offset + int(nameLength)
	return string(data[offset:end]), string(data[end:]), nil
}
