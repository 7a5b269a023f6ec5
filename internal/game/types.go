package game

import (
	"github.com/Dhruv54/P2P-Chess-Game/internal/shared"
)

// The engine works in terms of the shared value types; the aliases keep the
// move-generation and legality code free of package qualifiers.
type (
	Color            = shared.Color
	PieceType        = shared.PieceType
	Square           = shared.Square
	CastlingRights   = shared.CastlingRights
	CastlingSide     = shared.CastlingSide
	EnPassantTarget  = shared.EnPassantTarget
	PromotionChoices = shared.PromotionChoices
)

const (
	White = shared.White
	Black = shared.Black

	Pawn   = shared.Pawn
	Knight = shared.Knight
	Bishop = shared.Bishop
	Rook   = shared.Rook
	Queen  = shared.Queen
	King   = shared.King

	CastleKingside  = shared.CastleKingside
	CastleQueenside = shared.CastleQueenside

	CastlingNone = shared.CastlingNone
	CastlingAll  = shared.CastlingAll

	PromotionNone = shared.PromotionNone
	PromotionAll  = shared.PromotionAll
)

var (
	CoordToSquare       = shared.CoordToSquare
	SquareFromCoords    = shared.SquareFromCoords
	NewEnPassantTarget  = shared.NewEnPassantTarget
	NoEnPassantTarget   = shared.NoEnPassantTarget
	ParsePromotionPiece = shared.ParsePromotionPiece
	CastlingRightFor    = shared.CastlingRight
)

// Status is the closed set of game outcomes the evaluator can report.
type Status uint8

const (
	StatusOngoing Status = iota
	StatusCheck
	StatusCheckmate
	StatusStalemate
	StatusThreefold
	StatusFiftyMove
	StatusSeventyFiveMove
	StatusDeadPosition
)

func (s Status) String() string {
	switch s {
	case StatusOngoing:
		return "ongoing"
	case StatusCheck:
		return "check"
	case StatusCheckmate:
		return "checkmate"
	case StatusStalemate:
		return "stalemate"
	case StatusThreefold:
		return "threefold repetition"
	case StatusFiftyMove:
		return "fifty-move rule"
	case StatusSeventyFiveMove:
		return "seventy-five-move rule"
	case StatusDeadPosition:
		return "dead position"
	default:
		return "?"
	}
}

// Terminal reports whether the status ends the game.
func (s Status) Terminal() bool {
	switch s {
	case StatusOngoing, StatusCheck:
		return false
	default:
		return true
	}
}

// Draw reports whether the status is a drawn result.
func (s Status) Draw() bool {
	switch s {
	case StatusStalemate, StatusThreefold, StatusFiftyMove, StatusSeventyFiveMove, StatusDeadPosition:
		return true
	default:
		return false
	}
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Piece represents a single piece on the board.
type Piece struct {
	ID     int
	Color  Color
	Type   PieceType
	Square Square
}

// MoveRequest is passed in by an external layer to request a move.
type MoveRequest struct {
	From         Square
	To           Square
	Promotion    PieceType
	HasPromotion bool
}

// MoveRecord is one committed half-move, kept for re-rendering and debugging.
type MoveRecord struct {
	From          Square    `json:"from"`
	FromName      string    `json:"fromName"`
	To            Square    `json:"to"`
	ToName        string    `json:"toName"`
	Piece         PieceType `json:"piece"`
	Capture       bool      `json:"capture"`
	EnPassant     bool      `json:"enPassant"`
	Castle        bool      `json:"castle"`
	Promotion     string    `json:"promotion,omitempty"`
	Fingerprint   uint64    `json:"fingerprint"`
	HalfMoveClock int       `json:"halfMoveClock"`
}

// PieceState is a serializable representation of a Piece.
type PieceState struct {
	ID         int       `json:"id"`
	Color      Color     `json:"color"`
	ColorName  string    `json:"colorName"`
	Type       PieceType `json:"type"`
	TypeName   string    `json:"typeName"`
	Square     Square    `json:"square"`
	SquareName string    `json:"squareName"`
}

// BoardState is a serializable snapshot of the game state.
type BoardState struct {
	Pieces        []PieceState    `json:"pieces"`
	Turn          Color           `json:"turn"`
	TurnName      string          `json:"turnName"`
	InCheck       bool            `json:"inCheck"`
	GameOver      bool            `json:"gameOver"`
	Status        Status          `json:"status"`
	HasWinner     bool            `json:"hasWinner"`
	Winner        Color           `json:"winner"`
	WinnerName    string          `json:"winnerName"`
	Castling      CastlingRights  `json:"castling"`
	EnPassant     EnPassantTarget `json:"enPassant"`
	HalfMoveClock int             `json:"halfMoveClock"`
	Fingerprint   uint64          `json:"fingerprint"`
	Moves         []MoveRecord    `json:"moves"`
}
