package game

import "errors"

// Domain failures. The transport layer maps these onto {ok:false, error}
// acknowledgements, they are never sent to clients as Go errors.
var (
	ErrInvalidRequest      = errors.New("roomId required")
	ErrRoomExists          = errors.New("room exists")
	ErrRoomNotFound        = errors.New("room not found")
	ErrBlockNotFound       = errors.New("block not found")
	ErrBlockAlreadyRemoved = errors.New("block already removed")
	ErrNoPlayers           = errors.New("no players in room")
)
