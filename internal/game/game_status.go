package game

import "github.com/Dhruv54/P2P-Chess-Game/internal/shared"

// findKingSquare scans pieceAt rather than the king bitboard: the legality
// simulation moves pieces through pieceAt only, and check detection must see
// the king on its simulated square.
func (e *Engine) findKingSquare(color Color) (Square, bool) {
	for _, pc := range e.board.pieceAt {
		if pc != nil && pc.Color == color && pc.Type == King {
			return pc.Square, true
		}
	}
	return 0, false
}

// isSquareAttackedBy reports whether any piece of color attacks target using
// its raw attack pattern. Pawn pushes do not attack; king safety and
// castling are deliberately ignored so this never recurses into legality.
func (e *Engine) isSquareAttackedBy(color Color, target Square) bool {
	tr := target.Rank()
	tf := target.File()

	for _, pc := range e.board.pieceAt {
		if pc == nil || pc.Color != color {
			continue
		}
		pr := pc.Square.Rank()
		pf := pc.Square.File()
		dr := tr - pr
		df := tf - pf

		switch pc.Type {
		case Pawn:
			forward := 1
			if pc.Color == Black {
				forward = -1
			}
			if dr == forward && (df == 1 || df == -1) {
				return true
			}
		case Knight:
			if (absInt(dr) == 1 && absInt(df) == 2) || (absInt(dr) == 2 && absInt(df) == 1) {
				return true
			}
		case King:
			if absInt(dr) <= 1 && absInt(df) <= 1 && (dr != 0 || df != 0) {
				return true
			}
		case Bishop:
			if absInt(dr) == absInt(df) && dr != 0 && e.lineIsClear(pc.Square, target) {
				return true
			}
		case Rook:
			if (dr == 0) != (df == 0) && e.lineIsClear(pc.Square, target) {
				return true
			}
		case Queen:
			aligned := (absInt(dr) == absInt(df) && dr != 0) || ((dr == 0) != (df == 0))
			if aligned && e.lineIsClear(pc.Square, target) {
				return true
			}
		}
	}
	return false
}

func (e *Engine) lineIsClear(from, to Square) bool {
	for _, sq := range shared.Line(from, to) {
		if e.board.pieceAt[sq] != nil {
			return false
		}
	}
	return true
}

func (e *Engine) isKingInCheck(color Color) bool {
	kingSq, ok := e.findKingSquare(color)
	if !ok {
		return false
	}
	return e.isSquareAttackedBy(color.Opposite(), kingSq)
}

func (e *Engine) hasLegalMove(color Color) bool {
	for _, pc := range e.board.pieceAt {
		if pc == nil || pc.Color != color {
			continue
		}
		from := pc.Square
		found := false
		e.generateMoves(pc).Iter(func(to Square) {
			if !found && e.isLegalMove(pc, from, to) {
				found = true
			}
		})
		if found {
			return true
		}
	}
	return false
}

// hasSufficientMaterial reports whether either side can still deliver mate.
// K vs K, K+minor vs K, and bishops-only positions with every bishop on the
// same square shade are dead; two knights against a lone king play on.
func (e *Engine) hasSufficientMaterial() bool {
	for _, color := range []Color{White, Black} {
		heavy := e.board.pieces[color][Queen] | e.board.pieces[color][Rook] | e.board.pieces[color][Pawn]
		if !heavy.Empty() {
			return true
		}
	}

	knights := (e.board.pieces[White][Knight] | e.board.pieces[Black][Knight]).Count()
	bishopsBB := e.board.pieces[White][Bishop] | e.board.pieces[Black][Bishop]
	bishops := bishopsBB.Count()

	if knights == 0 && bishops == 0 {
		return false
	}
	if knights+bishops == 1 {
		return false
	}
	if knights == 0 {
		darkCount := 0
		bishopsBB.Iter(func(sq Square) {
			if sq.Dark() {
				darkCount++
			}
		})
		if darkCount == 0 || darkCount == bishops {
			return false
		}
	}
	return true
}

// repetitionCount counts how often the current position fingerprint has
// occurred over the whole game, including right now.
func (e *Engine) repetitionCount() int {
	current := e.history[len(e.history)-1]
	count := 0
	for _, fp := range e.history {
		if fp == current {
			count++
		}
	}
	return count
}

// updateGameStatus re-evaluates the position for the side to move.
// Checkmate and stalemate are decided first; draw conditions only apply to a
// position that still has legal moves.
func (e *Engine) updateGameStatus() {
	current := e.board.turn
	inCheck := e.isKingInCheck(current)
	hasMove := e.hasLegalMove(current)

	e.board.InCheck = inCheck
	e.board.GameOver = false
	e.board.HasWinner = false
	e.board.Winner = 0
	e.board.Status = StatusOngoing

	if !hasMove {
		e.board.GameOver = true
		if inCheck {
			e.board.Status = StatusCheckmate
			e.board.HasWinner = true
			e.board.Winner = current.Opposite()
		} else {
			e.board.Status = StatusStalemate
		}
		return
	}

	switch {
	case !e.hasSufficientMaterial():
		e.board.Status = StatusDeadPosition
	case e.repetitionCount() >= 3:
		e.board.Status = StatusThreefold
	case e.board.HalfMoveClock >= 150:
		e.board.Status = StatusSeventyFiveMove
	case e.board.HalfMoveClock >= 100:
		e.board.Status = StatusFiftyMove
	case inCheck:
		e.board.Status = StatusCheck
	}
	if e.board.Status.Terminal() {
		e.board.GameOver = true
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
