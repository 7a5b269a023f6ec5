package game

import (
	"github.com/Dhruv54/P2P-Chess-Game/internal/shared"
)

// ---------------------------
// Core Engine & State Structs
// ---------------------------

// Engine owns one side's copy of the game. Two peers each run their own
// Engine and keep them in lockstep by replaying the same move stream; the
// Engine itself is single-threaded and never shared.
type Engine struct {
	board       Board
	history     []uint64 // position fingerprints, append-only, starts with the initial position
	moves       []MoveRecord
	nextPieceID int
}

// Board represents the state of the chessboard.
type Board struct {
	pieces        [2][6]Bitboard
	occupancy     [2]Bitboard
	allOcc        Bitboard
	pieceAt       [64]*Piece
	turn          Color
	InCheck       bool
	GameOver      bool
	HasWinner     bool
	Winner        Color
	Status        Status
	Castling      CastlingRights
	EnPassant     EnPassantTarget
	HalfMoveClock int
}

// NewEngine creates and initializes a new game engine.
func NewEngine() *Engine {
	eng := &Engine{}
	eng.Reset()
	return eng
}

// Reset clears the engine state and sets up a standard new game.
func (e *Engine) Reset() {
	e.board = Board{}
	e.history = e.history[:0]
	e.moves = e.moves[:0]
	e.nextPieceID = 1

	setup := func(color Color, backRank, pawnRank int) {
		order := []PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
		for file, pt := range order {
			sq := Square(backRank*8 + file)
			e.placePiece(color, pt, sq)
		}
		for file := 0; file < 8; file++ {
			sq := Square(pawnRank*8 + file)
			e.placePiece(color, Pawn, sq)
		}
	}

	setup(White, 0, 1)
	setup(Black, 7, 6)
	e.board.turn = White
	e.board.Castling = CastlingAll
	e.board.EnPassant = NoEnPassantTarget()
	e.history = append(e.history, e.fingerprint())
	e.updateGameStatus()
}

// Turn returns the color to move.
func (e *Engine) Turn() Color { return e.board.turn }

// GameOver reports whether the game has reached a terminal status.
func (e *Engine) GameOver() bool { return e.board.GameOver }

// State returns a serializable snapshot of the current game state.
func (e *Engine) State() BoardState {
	winnerName := ""
	if e.board.HasWinner {
		winnerName = e.board.Winner.String()
	}

	state := BoardState{
		Pieces:        make([]PieceState, 0, 32),
		Turn:          e.board.turn,
		TurnName:      e.board.turn.String(),
		InCheck:       e.board.InCheck,
		GameOver:      e.board.GameOver,
		Status:        e.board.Status,
		HasWinner:     e.board.HasWinner,
		Winner:        e.board.Winner,
		WinnerName:    winnerName,
		Castling:      e.board.Castling,
		EnPassant:     e.board.EnPassant,
		HalfMoveClock: e.board.HalfMoveClock,
		Fingerprint:   e.history[len(e.history)-1],
		Moves:         append([]MoveRecord(nil), e.moves...),
	}

	for _, pc := range e.board.pieceAt {
		if pc != nil {
			state.Pieces = append(state.Pieces, PieceState{
				ID:         pc.ID,
				Color:      pc.Color,
				ColorName:  pc.Color.String(),
				Type:       pc.Type,
				TypeName:   pc.Type.Name(),
				Square:     pc.Square,
				SquareName: pc.Square.String(),
			})
		}
	}

	return state
}

// ---------------------------
// Board mutation primitives
// ---------------------------

func (e *Engine) placePiece(color Color, pt PieceType, sq Square) {
	id := e.nextPieceID
	e.nextPieceID++
	pc := &Piece{
		ID:     id,
		Color:  color,
		Type:   pt,
		Square: sq,
	}
	e.board.pieceAt[sq] = pc
	e.board.pieces[color][pt] = e.board.pieces[color][pt].Add(sq)
	e.board.occupancy[color] = e.board.occupancy[color].Add(sq)
	e.board.allOcc = e.board.allOcc.Add(sq)
}

func (e *Engine) removePiece(pc *Piece, sq Square) {
	e.board.pieces[pc.Color][pc.Type] = e.board.pieces[pc.Color][pc.Type].Remove(sq)
	e.board.occupancy[pc.Color] = e.board.occupancy[pc.Color].Remove(sq)
	e.board.allOcc = e.board.allOcc.Remove(sq)
	e.board.pieceAt[sq] = nil
}

func (e *Engine) movePiece(pc *Piece, from, to Square) {
	e.board.pieceAt[from] = nil
	pc.Square = to
	e.board.pieceAt[to] = pc

	e.board.pieces[pc.Color][pc.Type] = e.board.pieces[pc.Color][pc.Type].Remove(from).Add(to)
	e.board.occupancy[pc.Color] = e.board.occupancy[pc.Color].Remove(from).Add(to)
	e.board.allOcc = e.board.allOcc.Remove(from).Add(to)
}

func (e *Engine) flipTurn() { e.board.turn = e.board.turn.Opposite() }

// ---------------------------
// Castling bookkeeping
// ---------------------------

func castlingRightForRook(color Color, sq Square) CastlingRights {
	switch color {
	case White:
		if sq.Rank() != 0 {
			return CastlingNone
		}
		switch sq.File() {
		case 0:
			return CastlingRightFor(White, CastleQueenside)
		case 7:
			return CastlingRightFor(White, CastleKingside)
		}
	case Black:
		if sq.Rank() != 7 {
			return CastlingNone
		}
		switch sq.File() {
		case 0:
			return CastlingRightFor(Black, CastleQueenside)
		case 7:
			return CastlingRightFor(Black, CastleKingside)
		}
	}
	return CastlingNone
}

// updateCastlingRightsForMove clears rights when the king or a rook leaves
// its home square. Rights only ever turn off.
func (e *Engine) updateCastlingRightsForMove(pc *Piece, from Square) {
	switch pc.Type {
	case King:
		e.board.Castling = e.board.Castling.WithoutColor(pc.Color)
	case Rook:
		e.board.Castling = e.board.Castling.Without(castlingRightForRook(pc.Color, from))
	}
}

// updateCastlingRightsForCapture clears the opponent's right when their rook
// is captured on its home square.
func (e *Engine) updateCastlingRightsForCapture(pc *Piece, sq Square) {
	if pc.Type == Rook {
		e.board.Castling = e.board.Castling.Without(castlingRightForRook(pc.Color, sq))
	}
}

// performCastleRookMove moves the rook alongside the king in the same commit.
func (e *Engine) performCastleRookMove(color Color, from, to Square) {
	rank := from.Rank()
	var rookFromFile, rookToFile int
	if to.File() > from.File() {
		rookFromFile = 7
		rookToFile = to.File() - 1
	} else {
		rookFromFile = 0
		rookToFile = to.File() + 1
	}
	rookFrom, okFrom := shared.SquareFromCoords(rank, rookFromFile)
	rookTo, okTo := shared.SquareFromCoords(rank, rookToFile)
	if !okFrom || !okTo {
		return
	}
	rook := e.board.pieceAt[rookFrom]
	if rook == nil || rook.Type != Rook || rook.Color != color {
		return
	}
	e.movePiece(rook, rookFrom, rookTo)
}

// ---------------------------
// Promotion
// ---------------------------

func promotionRank(color Color) int {
	if color == White {
		return 7
	}
	return 0
}

// RequiresPromotion reports whether the candidate move would need a
// promotion choice before it can be committed. Callers prompt the local
// player with this before proposing the move.
func (e *Engine) RequiresPromotion(from, to Square) bool {
	pc := e.board.pieceAt[from]
	if pc == nil || pc.Type != Pawn {
		return false
	}
	return to.Rank() == promotionRank(pc.Color)
}

func (e *Engine) promotePawn(pc *Piece, promoteTo PieceType) {
	e.board.pieces[pc.Color][Pawn] = e.board.pieces[pc.Color][Pawn].Remove(pc.Square)
	pc.Type = promoteTo
	e.board.pieces[pc.Color][promoteTo] = e.board.pieces[pc.Color][promoteTo].Add(pc.Square)
}
