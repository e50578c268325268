package services

import "errors"

// ErrInvalidArgument marks caller contract violations (malformed date string,
// non-positive servings, bad barcode shape). Controllers map it to a 400;
// it is never silently coerced to a zero value.
var ErrInvalidArgument = errors.New("invalid argument")
