package cache

import (
	platformerrors "github.com/jmgilman/go/errors"
)

var (
	// ErrInvalidArgument is returned when a key is empty or a value is nil.
	ErrInvalidArgument = platformerrors.New(platformerrors.CodeInvalidInput, "invalid argument")

	// ErrInvalidConfig is returned by New and the setters for out-of-range settings.
	ErrInvalidConfig = platformerrors.New(platformerrors.CodeInvalidConfig, "invalid cache configuration")

	// ErrClosed is returned by mutating operations after Shutdown.
	ErrClosed = platformerrors.New(platformerrors.CodeUnavailable, "cache is closed")

	// ErrShutdownTimeout is logged when the sweeper does not stop within the grace period.
	// It is never returned to callers of Shutdown.
	ErrShutdownTimeout = platformerrors.New(platformerrors.CodeTimeout, "sweeper did not stop within grace period")
)

func invalidArgument(format string, args ...any) error {
	return platformerrors.Wrapf(ErrInvalidArgument, platformerrors.CodeInvalidInput, format, args...)
}

func invalidConfig(format string, args ...any) error {
	return platformerrors.Wrapf(ErrInvalidConfig, platformerrors.CodeInvalidConfig, format, args...)
}
