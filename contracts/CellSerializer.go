package contracts

// CellSerializer encodes a stored cell: its name and the text that recreates it.
type CellSerializer interface {
	Marshal(name string, stringForm string) []byte
	Unmarshal(data []byte) (name string, stringForm string, err error)
}
