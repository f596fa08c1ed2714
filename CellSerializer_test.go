package main

import (
	"github.com/stretchr/testify/assert"
	"strings"
	"testing"
)

func TestCellBinarySerializer_Marshal(t *testing.T) {
	serializer := &CellBinarySerializer{}
	serialized := serializer.Marshal("A1", "=B1+2")
	assert.NotNil(t, serialized)
	assert.Equal(t, []byte{cellRecordVersion, 2, 'A', '1', '=', 'B', '1', '+', '2'}, serialized)
}

func TestCellBinarySerializer_Unmarshal(t *testing.T) {
	serializer := &CellBinarySerializer{}

	t.Run("valid_data", func(t *testing.T) {
		assertMarshalAndUnmarshal := func(expectedName string, expectedForm string) {
			serialized := serializer.Marshal(expectedName, expectedForm)
			actualName, actualForm, err := serializer.Unmarshal(serialized)

			assert.NoError(t, err)
			assert.Equal(t, expectedName, actualName)
			assert.Equal(t, expectedForm, actualForm)
		}

		assertMarshalAndUnmarshal("A1", "5")
		assertMarshalAndUnmarshal("B1", "")
		assertMarshalAndUnmarshal("ZZ999", "=(A1+B1)*C1/2")
		assertMarshalAndUnmarshal(strings.Repeat("A", 300)+"1", "long names need a two byte length")
	})

	t.Run("empty_data", func(t *testing.T) {
		name, form, err := serializer.Unmarshal([]byte{})

		assert.ErrorIs(t, err, SerializerError)
		assert.Equal(t, "", name)
		assert.Equal(t, "", form)
	})

	t.Run("unknown_version", func(t *testing.T) {
		_, _, err := serializer.Unmarshal([]byte{9, 1, 'A'})
		assert.ErrorIs(t, err, SerializerError)
	})

	t.Run("truncated_name", func(t *testing.T) {
		name, form, err := serializer.Unmarshal([]byte{cellRecordVersion, 5, 'A', '1'})

		assert.ErrorIs(t, err, SerializerError)
		assert.Equal(t, "", name)
		assert.Equal(t, "", form)
	})
}
