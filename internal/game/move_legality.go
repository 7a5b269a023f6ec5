package game

import "github.com/Dhruv54/P2P-Chess-Game/internal/shared"

// captureContext resolves what a move captures and where. For en passant the
// victim sits on a different square than the destination.
type captureContext struct {
	victim       *Piece
	victimSquare Square
	enPassant    bool
}

// resolveCapture determines the capture context for a pseudo-legal move, or
// reports false for a pawn diagonal with nothing to take.
func (e *Engine) resolveCapture(pc *Piece, from, to Square) (captureContext, bool) {
	target := e.board.pieceAt[to]
	if target != nil {
		if target.Color == pc.Color {
			return captureContext{}, false
		}
		return captureContext{victim: target, victimSquare: to}, true
	}

	if pc.Type == Pawn && from.File() != to.File() {
		epSq, ok := e.board.EnPassant.Square()
		if !ok || epSq != to {
			return captureContext{}, false
		}
		victimRank := to.Rank()
		if pc.Color == White {
			victimRank--
		} else {
			victimRank++
		}
		victimSq, ok := shared.SquareFromCoords(victimRank, to.File())
		if !ok {
			return captureContext{}, false
		}
		victim := e.board.pieceAt[victimSq]
		if victim == nil || victim.Color == pc.Color || victim.Type != Pawn {
			return captureContext{}, false
		}
		return captureContext{victim: victim, victimSquare: victimSq, enPassant: true}, true
	}

	return captureContext{}, true
}

// wouldLeaveKingInCheck simulates the move on the live board, tests whether
// the mover's own king is attacked, and restores the board exactly. The
// simulation removes an en-passant victim too, so pins through the captured
// pawn are detected.
func (e *Engine) wouldLeaveKingInCheck(pc *Piece, from, to Square, ctx captureContext) bool {
	if pc == nil {
		return true
	}

	boardBackup := e.board
	originalSquare := pc.Square
	var victimSquare Square
	if ctx.victim != nil {
		victimSquare = ctx.victim.Square
		e.board.pieceAt[ctx.victimSquare] = nil
	}

	e.board.pieceAt[from] = nil
	e.board.pieceAt[to] = pc
	pc.Square = to

	inCheck := e.isKingInCheck(pc.Color)

	pc.Square = originalSquare
	if ctx.victim != nil {
		ctx.victim.Square = victimSquare
	}
	e.board = boardBackup

	return inCheck
}

// isLegalMove decides full legality for one candidate move: geometry,
// blocking, capture rules, and king safety. It never mutates lasting state.
func (e *Engine) isLegalMove(pc *Piece, from, to Square) bool {
	if from == to {
		return false
	}
	if !e.generateMoves(pc).Has(to) {
		return false
	}
	ctx, ok := e.resolveCapture(pc, from, to)
	if !ok {
		return false
	}
	return !e.wouldLeaveKingInCheck(pc, from, to, ctx)
}

// LegalMoves returns every legal destination for the piece on from, in
// ascending square order. Empty squares and opponent pieces yield nil.
func (e *Engine) LegalMoves(from Square) []Square {
	pc := e.board.pieceAt[from]
	if pc == nil || pc.Color != e.board.turn || e.board.GameOver {
		return nil
	}
	var out []Square
	e.generateMoves(pc).Iter(func(to Square) {
		ctx, ok := e.resolveCapture(pc, from, to)
		if !ok {
			return
		}
		if !e.wouldLeaveKingInCheck(pc, from, to, ctx) {
			out = append(out, to)
		}
	})
	return out
}
