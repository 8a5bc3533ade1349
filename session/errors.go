package session

import "errors"

// ErrUnknownCategory is returned when a message names a category the session
// does not track. The pipeline logs and drops the message.
var ErrUnknownCategory = errors.New("unknown inventory category")

// ErrNegativeCursor is returned for pagination metadata with a negative
// cursor. The pipeline logs and drops the message.
var ErrNegativeCursor = errors.New("negative page cursor")

// ErrMissingPayload is returned when an upsert arrives without a decoded
// payload. The pipeline logs and drops the message.
var ErrMissingPayload = errors.New("upsert without payload")
