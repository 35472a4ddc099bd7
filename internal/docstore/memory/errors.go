package memory

import "errors"

var errReadOnly = errors.New("write in read-only transaction")
