package game

// Position fingerprints are Zobrist hashes over piece placement, side to
// move, castling rights, and the en-passant file. The tables come from a
// fixed-seed generator so that both peers compute identical fingerprints and
// repetition detection stays in lockstep.

var (
	zobristPieces    [2][6][64]uint64
	zobristSideBlack uint64
	zobristCastling  [32]uint64
	zobristEnPassant [8]uint64
)

func init() {
	s := splitmix64(0x6368657373503270) // fixed seed, never changes
	for color := 0; color < 2; color++ {
		for pt := 0; pt < 6; pt++ {
			for sq := 0; sq < 64; sq++ {
				zobristPieces[color][pt][sq] = s.next()
			}
		}
	}
	zobristSideBlack = s.next()
	for i := range zobristCastling {
		zobristCastling[i] = s.next()
	}
	for i := range zobristEnPassant {
		zobristEnPassant[i] = s.next()
	}
}

type splitmix64 uint64

func (s *splitmix64) next() uint64 {
	*s += 0x9E3779B97F4A7C15
	z := uint64(*s)
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// fingerprint hashes the current position. Two positions with the same
// placement but different rights, en-passant file, or side to move hash
// differently, matching the repetition rule.
func (e *Engine) fingerprint() uint64 {
	var h uint64
	for _, pc := range e.board.pieceAt {
		if pc == nil {
			continue
		}
		h ^= zobristPieces[pc.Color][pc.Type][pc.Square]
	}
	if e.board.turn == Black {
		h ^= zobristSideBlack
	}
	h ^= zobristCastling[e.board.Castling&0x1F]
	if epSq, ok := e.board.EnPassant.Square(); ok {
		h ^= zobristEnPassant[epSq.File()]
	}
	return h
}
