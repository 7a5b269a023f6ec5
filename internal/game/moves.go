package game

import (
	"fmt"

	"github.com/Dhruv54/P2P-Chess-Game/internal/shared"
)

// Move validates and commits a single move. A non-nil error means the move
// was rejected and no state changed; nil means the move is committed, the
// turn has flipped, and the game status has been re-evaluated. Local input
// and replayed network moves go through this same path.
func (e *Engine) Move(req MoveRequest) error {
	if e.board.GameOver {
		return ErrGameOver
	}
	for _, color := range []Color{White, Black} {
		if _, ok := e.findKingSquare(color); !ok {
			return fmt.Errorf("%w: no %s king on the board", ErrCorruptPosition, color)
		}
	}

	from, to := req.From, req.To
	if from == to || from > 63 || to > 63 {
		return fmt.Errorf("%w: bad squares %s -> %s", ErrIllegalMove, from, to)
	}

	pc := e.board.pieceAt[from]
	if pc == nil {
		return fmt.Errorf("%w: no piece at %s", ErrIllegalMove, from)
	}
	if pc.Color != e.board.turn {
		return ErrNotYourTurn
	}

	if !e.generateMoves(pc).Has(to) {
		return fmt.Errorf("%w: %s %s -> %s", ErrIllegalMove, pc.Type.Name(), from, to)
	}
	ctx, ok := e.resolveCapture(pc, from, to)
	if !ok {
		return fmt.Errorf("%w: %s %s -> %s", ErrIllegalMove, pc.Type.Name(), from, to)
	}
	if e.wouldLeaveKingInCheck(pc, from, to, ctx) {
		return fmt.Errorf("%w: king would be left in check", ErrIllegalMove)
	}

	promoting := pc.Type == Pawn && to.Rank() == promotionRank(pc.Color)
	if promoting {
		if !req.HasPromotion {
			return ErrPromotionRequired
		}
		if !PromotionAll.Contains(req.Promotion) {
			return fmt.Errorf("%w: %s", ErrInvalidPromotion, req.Promotion.Name())
		}
	} else if req.HasPromotion {
		return fmt.Errorf("%w: move does not promote", ErrInvalidPromotion)
	}

	e.commitMove(pc, req, ctx, promoting)
	return nil
}

// commitMove applies an already-validated move. Side-effect order follows
// the executor contract: capture removal, piece movement, castling rook
// move, rights update, en-passant target, promotion, half-move clock,
// history, turn flip, status.
func (e *Engine) commitMove(pc *Piece, req MoveRequest, ctx captureContext, promoting bool) {
	from, to := req.From, req.To
	isCastle := pc.Type == King && from.Rank() == to.Rank() && absInt(to.File()-from.File()) == 2

	if ctx.victim != nil {
		e.updateCastlingRightsForCapture(ctx.victim, ctx.victimSquare)
		e.removePiece(ctx.victim, ctx.victimSquare)
	}

	e.movePiece(pc, from, to)
	e.updateCastlingRightsForMove(pc, from)

	if isCastle {
		e.performCastleRookMove(pc.Color, from, to)
	}

	// The en-passant target lives for exactly one half-move.
	e.board.EnPassant = NoEnPassantTarget()
	if pc.Type == Pawn {
		diff := to.Rank() - from.Rank()
		if diff == 2 || diff == -2 {
			midRank := from.Rank() + diff/2
			if sq, ok := shared.SquareFromCoords(midRank, from.File()); ok {
				e.board.EnPassant = NewEnPassantTarget(sq)
			}
		}
	}

	record := MoveRecord{
		From:      from,
		FromName:  from.String(),
		To:        to,
		ToName:    to.String(),
		Piece:     pc.Type,
		Capture:   ctx.victim != nil,
		EnPassant: ctx.enPassant,
		Castle:    isCastle,
	}

	if promoting {
		e.promotePawn(pc, req.Promotion)
		record.Promotion = req.Promotion.Name()
	}

	if record.Piece == Pawn || record.Capture {
		e.board.HalfMoveClock = 0
	} else {
		e.board.HalfMoveClock++
	}

	e.flipTurn()

	fp := e.fingerprint()
	e.history = append(e.history, fp)
	record.Fingerprint = fp
	record.HalfMoveClock = e.board.HalfMoveClock
	e.moves = append(e.moves, record)

	e.updateGameStatus()
}
