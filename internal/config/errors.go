package config

import "errors"

// ErrMalformedConfig indicates a didChangeConfiguration payload that could
// not be parsed as JSON (ApplyPartialSettings). Per §7,
// this is non-fatal: the current config is retained and the error is
// surfaced to the user via showMessage.
var ErrMalformedConfig = errors.New("config: malformed settings payload")
