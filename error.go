package markovcache

import "fmt"

type constError string

// ErrUnknownAccumulator is returned from [New] when the configured
// stats accumulator type is neither "transitions" nor "states".
const ErrUnknownAccumulator = constError("unknown stats accumulator type")

// ErrInvalidCapacity is returned from [New] when CacheCapacity is not
// strictly positive.
const ErrInvalidCapacity = constError("invalid cache capacity")

// ErrInvalidForecastLength is returned from [New] when ForecastLength
// is less than 1.
const ErrInvalidForecastLength = constError("invalid forecast length")

func (errStr constError) Error() string { return string(errStr) }

func unknownAccumulatorError(kind string) error {
	return fmt.Errorf("%w: %q", ErrUnknownAccumulator, kind)
}

func invalidCapacityError(capacity float32) error {
	return fmt.Errorf(
		"%w: must be >0 but %v was requested",
		ErrInvalidCapacity, capacity)
}

func invalidForecastLengthError(length int) error {
	return fmt.Errorf(
		"%w: must be >=1 but %d was requested",
		ErrInvalidForecastLength, length)
}
