package core

import "errors"

var (
	ErrGameOver          = errors.New("game is over")
	ErrInvalidAction     = errors.New("invalid action")
	ErrInvalidDimensions = errors.New("invalid grid dimensions")
)
