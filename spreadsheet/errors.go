package spreadsheet

import "errors"

var InvalidNameError = errors.New("invalid cell name")

var CircularDependencyError = errors.New("circular dependency")

var ReadWriteError = errors.New("spreadsheet read/write error")

// NotANumberError is what a formula sees when it references a cell whose
// value is text or which is empty.
var NotANumberError = errors.New("cell does not contain a number")
