package room

import "errors"

// Custom room service errors
var (
	// ErrInvalidName indicates a room name outside the allowed pattern
	ErrInvalidName = errors.New("room name must be 3-20 word characters")

	// ErrDuplicateName indicates a room with the same name already exists
	ErrDuplicateName = errors.New("room name already exists")

	// ErrRoomNotFound indicates the requested room does not exist
	ErrRoomNotFound = errors.New("room not found")
)

// IsInvalidName checks if the error is an invalid room name error
func IsInvalidName(err error) bool {
	return errors.Is(err, ErrInvalidName)
}

// IsDuplicateName checks if the error is a duplicate room name error
func IsDuplicateName(err error) bool {
	return errors.Is(err, ErrDuplicateName)
}

// IsRoomNotFound checks if the error is a room not found error
func IsRoomNotFound(err error) bool {
	return errors.Is(err, ErrRoomNotFound)
}
