package animation

import "errors"

var (
	// ErrInvalidArgument reports bad construction parameters such as a
	// non-positive frame duration.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrIndexOutOfRange is only returned by operations that fail instead of
	// ignoring a stale index (InsertFrame).
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrNotFound reports an unregistered animation name.
	ErrNotFound = errors.New("animation not found")
	// ErrMalformedManifest reports a manifest that is not valid JSON or lacks
	// required fields.
	ErrMalformedManifest = errors.New("malformed manifest")
	// ErrMissingAsset reports an image file or sheet that cannot be read.
	ErrMissingAsset = errors.New("missing asset")
)
