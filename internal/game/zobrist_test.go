package game

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFingerprintDeterministicAcrossEngines(t *testing.T) {
	moves := []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5", "a7a6"}

	a := NewEngine()
	b := NewEngine()
	playMoves(t, a, moves...)
	playMoves(t, b, moves...)

	if len(a.history) != len(b.history) {
		t.Fatalf("history lengths differ: %d vs %d", len(a.history), len(b.history))
	}
	for i := range a.history {
		if a.history[i] != b.history[i] {
			t.Fatalf("fingerprint %d differs: %x vs %x", i, a.history[i], b.history[i])
		}
	}
}

func TestFingerprintComponents(t *testing.T) {
	eng := NewEngine()
	base := eng.fingerprint()

	eng.flipTurn()
	if eng.fingerprint() == base {
		t.Fatalf("side to move must change the fingerprint")
	}
	eng.flipTurn()
	if eng.fingerprint() != base {
		t.Fatalf("flipping the turn back must restore the fingerprint")
	}

	saved := eng.board.Castling
	eng.board.Castling = eng.board.Castling.WithoutColor(White)
	if eng.fingerprint() == base {
		t.Fatalf("castling rights must change the fingerprint")
	}
	eng.board.Castling = saved

	eng.board.EnPassant = NewEnPassantTarget(mustSquare(t, "e3"))
	if eng.fingerprint() == base {
		t.Fatalf("en-passant target must change the fingerprint")
	}
	eng.board.EnPassant = NoEnPassantTarget()

	if eng.fingerprint() != base {
		t.Fatalf("restored position must restore the fingerprint")
	}
}

func TestTranspositionSharesFingerprint(t *testing.T) {
	a := NewEngine()
	playMoves(t, a, "g1f3", "b8c6", "b1c3", "g8f6")
	b := NewEngine()
	playMoves(t, b, "b1c3", "g8f6", "g1f3", "b8c6")

	if a.fingerprint() != b.fingerprint() {
		t.Fatalf("transposed move orders must reach the same fingerprint")
	}
}

func TestSimulationRestoresBoardExactly(t *testing.T) {
	eng := NewEngine()
	playMoves(t, eng, "e2e4", "d7d5")

	before := eng.State()
	fpBefore := eng.fingerprint()

	// Simulate a regular capture and an ordinary advance; both paths must
	// leave no trace.
	pawn := eng.board.pieceAt[mustSquare(t, "e4")]
	for _, to := range []string{"d5", "e5"} {
		toSq := mustSquare(t, to)
		ctx, ok := eng.resolveCapture(pawn, pawn.Square, toSq)
		if !ok {
			t.Fatalf("resolveCapture failed for e4%s", to)
		}
		eng.wouldLeaveKingInCheck(pawn, pawn.Square, toSq, ctx)
	}

	if fp := eng.fingerprint(); fp != fpBefore {
		t.Fatalf("fingerprint changed by simulation: %x vs %x", fp, fpBefore)
	}
	if diff := cmp.Diff(before, eng.State()); diff != "" {
		t.Fatalf("board changed by simulation (-before +after):\n%s", diff)
	}
}

func TestSimulationRestoresEnPassantVictim(t *testing.T) {
	eng := NewEngine()
	playMoves(t, eng, "e2e4", "a7a6", "e4e5", "d7d5")

	before := eng.State()
	pawn := eng.board.pieceAt[mustSquare(t, "e5")]
	to := mustSquare(t, "d6")
	ctx, ok := eng.resolveCapture(pawn, pawn.Square, to)
	if !ok || !ctx.enPassant {
		t.Fatalf("expected an en-passant capture context")
	}

	eng.wouldLeaveKingInCheck(pawn, pawn.Square, to, ctx)

	if pc := eng.board.pieceAt[mustSquare(t, "d5")]; pc == nil || pc.Type != Pawn || pc.Color != Black {
		t.Fatalf("en-passant victim not restored after simulation")
	}
	if diff := cmp.Diff(before, eng.State()); diff != "" {
		t.Fatalf("board changed by simulation (-before +after):\n%s", diff)
	}
}
