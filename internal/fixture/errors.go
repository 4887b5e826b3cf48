package fixture

import "errors"

// ErrWriteTree indicates a failure while writing the generated data tree.
var ErrWriteTree = errors.New("failed to write fixture tree")
