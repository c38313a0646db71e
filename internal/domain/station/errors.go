package station

import "errors"

// ErrInvalid covers unknown, revoked and expired terminal credentials. It is
// deliberately one error: the terminal cannot fix any of those locally and
// must go through registration again.
var ErrInvalid = errors.New("station credential invalid")
