package game

import "errors"

var (
	ErrGameOver          = errors.New("game is over")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrIllegalMove       = errors.New("illegal move")
	ErrPromotionRequired = errors.New("promotion choice required")
	ErrInvalidPromotion  = errors.New("invalid promotion choice")
	ErrCorruptPosition   = errors.New("corrupt position")
)
