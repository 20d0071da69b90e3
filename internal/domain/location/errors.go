package location

import "errors"

var ErrStorageFailure = errors.New("failed to store location")
