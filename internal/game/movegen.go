package game

import "github.com/Dhruv54/P2P-Chess-Game/internal/shared"

type moveDelta struct {
	dr int
	df int
}

var (
	rookDirections = [...]moveDelta{
		{dr: 1, df: 0},
		{dr: -1, df: 0},
		{dr: 0, df: 1},
		{dr: 0, df: -1},
	}
	bishopDirections = [...]moveDelta{
		{dr: 1, df: 1},
		{dr: 1, df: -1},
		{dr: -1, df: 1},
		{dr: -1, df: -1},
	}
	knightOffsets = [...]moveDelta{
		{dr: 2, df: 1},
		{dr: 1, df: 2},
		{dr: -1, df: 2},
		{dr: -2, df: 1},
		{dr: -2, df: -1},
		{dr: -1, df: -2},
		{dr: 1, df: -2},
		{dr: 2, df: -1},
	}
	kingOffsets = [...]moveDelta{
		{dr: 1, df: 0}, {dr: 1, df: 1}, {dr: 0, df: 1}, {dr: -1, df: 1},
		{dr: -1, df: 0}, {dr: -1, df: -1}, {dr: 0, df: -1}, {dr: 1, df: -1},
	}
)

// generateMoves returns the pseudo-legal destination set for a piece:
// geometry and blocking only, king safety is filtered separately.
func (e *Engine) generateMoves(pc *Piece) Bitboard {
	if pc == nil {
		return 0
	}

	switch pc.Type {
	case Pawn:
		return e.generatePawnMoves(pc)
	case Knight:
		return e.generateKnightMoves(pc)
	case Bishop:
		return e.generateSlidingMoves(pc, bishopDirections[:])
	case Rook:
		return e.generateSlidingMoves(pc, rookDirections[:])
	case Queen:
		return e.generateSlidingMoves(pc, rookDirections[:]) |
			e.generateSlidingMoves(pc, bishopDirections[:])
	case King:
		return e.generateKingMoves(pc)
	default:
		return 0
	}
}

func (e *Engine) generatePawnMoves(pc *Piece) Bitboard {
	var moves Bitboard

	rank := pc.Square.Rank()
	file := pc.Square.File()
	dir := 1
	startRank := 1

	if pc.Color == Black {
		dir = -1
		startRank = 6
	}

	forwardRank := rank + dir
	if target, ok := shared.SquareFromCoords(forwardRank, file); ok && e.board.pieceAt[target] == nil {
		moves = moves.Add(target)
		if rank == startRank {
			doubleRank := rank + 2*dir
			if doubleSq, ok := shared.SquareFromCoords(doubleRank, file); ok && e.board.pieceAt[doubleSq] == nil {
				moves = moves.Add(doubleSq)
			}
		}
	}

	for _, df := range []int{-1, 1} {
		if target, ok := shared.SquareFromCoords(rank+dir, file+df); ok {
			if victim := e.board.pieceAt[target]; victim != nil && victim.Color != pc.Color {
				moves = moves.Add(target)
			} else if epSq, ok := e.board.EnPassant.Square(); ok && epSq == target {
				moves = moves.Add(target)
			}
		}
	}

	return moves
}

func (e *Engine) generateKnightMoves(pc *Piece) Bitboard {
	var moves Bitboard
	rank := pc.Square.Rank()
	file := pc.Square.File()

	for _, delta := range knightOffsets {
		if target, ok := shared.SquareFromCoords(rank+delta.dr, file+delta.df); ok {
			occupant := e.board.pieceAt[target]
			if occupant == nil || occupant.Color != pc.Color {
				moves = moves.Add(target)
			}
		}
	}
	return moves
}

func (e *Engine) generateKingMoves(pc *Piece) Bitboard {
	var moves Bitboard
	rank := pc.Square.Rank()
	file := pc.Square.File()

	for _, delta := range kingOffsets {
		if target, ok := shared.SquareFromCoords(rank+delta.dr, file+delta.df); ok {
			occupant := e.board.pieceAt[target]
			if occupant == nil || occupant.Color != pc.Color {
				moves = moves.Add(target)
			}
		}
	}
	if dest, ok := e.castleDestination(pc, CastleKingside); ok {
		moves = moves.Add(dest)
	}
	if dest, ok := e.castleDestination(pc, CastleQueenside); ok {
		moves = moves.Add(dest)
	}
	return moves
}

func (e *Engine) generateSlidingMoves(pc *Piece, directions []moveDelta) Bitboard {
	var moves Bitboard
	startRank := pc.Square.Rank()
	startFile := pc.Square.File()

	for _, delta := range directions {
		rank := startRank + delta.dr
		file := startFile + delta.df
		for {
			target, ok := shared.SquareFromCoords(rank, file)
			if !ok {
				break
			}
			occupant := e.board.pieceAt[target]
			if occupant == nil {
				moves = moves.Add(target)
				rank += delta.dr
				file += delta.df
				continue
			}
			if occupant.Color != pc.Color {
				moves = moves.Add(target)
			}
			break
		}
	}
	return moves
}

// castleDestination reports the king's castling destination for one side, or
// false when any castling condition fails: lost rights, missing rook,
// occupied squares between king and rook, king in check, or an attacked
// square on the king's path.
func (e *Engine) castleDestination(pc *Piece, side CastlingSide) (Square, bool) {
	if pc == nil || pc.Type != King {
		return 0, false
	}
	if !e.board.Castling.HasSide(pc.Color, side) {
		return 0, false
	}
	rank := pc.Square.Rank()
	file := pc.Square.File()
	enemy := pc.Color.Opposite()

	var rookFile int
	var travelFiles []int
	var emptyFiles []int
	var destFile int
	switch side {
	case CastleKingside:
		rookFile = 7
		travelFiles = []int{file + 1, file + 2}
		emptyFiles = []int{file + 1, file + 2}
		destFile = file + 2
	case CastleQueenside:
		rookFile = 0
		travelFiles = []int{file - 1, file - 2}
		emptyFiles = []int{file - 1, file - 2, file - 3}
		destFile = file - 2
	default:
		return 0, false
	}

	rookSq, ok := shared.SquareFromCoords(rank, rookFile)
	if !ok {
		return 0, false
	}
	rook := e.board.pieceAt[rookSq]
	if rook == nil || rook.Color != pc.Color || rook.Type != Rook {
		return 0, false
	}

	for _, f := range emptyFiles {
		sq, ok := shared.SquareFromCoords(rank, f)
		if !ok {
			return 0, false
		}
		if e.board.pieceAt[sq] != nil {
			return 0, false
		}
	}

	if e.isSquareAttackedBy(enemy, pc.Square) {
		return 0, false
	}
	for _, f := range travelFiles {
		sq, ok := shared.SquareFromCoords(rank, f)
		if !ok {
			return 0, false
		}
		if e.isSquareAttackedBy(enemy, sq) {
			return 0, false
		}
	}

	dest, ok := shared.SquareFromCoords(rank, destFile)
	if !ok {
		return 0, false
	}
	return dest, true
}
