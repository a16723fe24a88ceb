package geocode

import "errors"

var ErrCacheMiss = errors.New("geocode cache miss")
