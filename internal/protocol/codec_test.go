package protocol

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Dhruv54/P2P-Chess-Game/internal/game"
	"github.com/Dhruv54/P2P-Chess-Game/internal/shared"
)

func sq(t *testing.T, coord string) shared.Square {
	t.Helper()
	s, ok := shared.CoordToSquare(coord)
	if !ok {
		t.Fatalf("invalid coordinate %s", coord)
	}
	return s
}

func TestEncodeMoveGolden(t *testing.T) {
	tests := []struct {
		name string
		req  game.MoveRequest
		want string
	}{
		{
			name: "pawn advance without promotion",
			req:  game.MoveRequest{From: sq(t, "e2"), To: sq(t, "e4")},
			want: `{"type":"move","from":{"row":6,"col":4},"to":{"row":4,"col":4},"promotion":null}`,
		},
		{
			name: "white promotion on the far rank",
			req: game.MoveRequest{
				From: sq(t, "a7"), To: sq(t, "a8"),
				Promotion: shared.Queen, HasPromotion: true,
			},
			want: `{"type":"move","from":{"row":1,"col":0},"to":{"row":0,"col":0},"promotion":"queen"}`,
		},
		{
			name: "black promotion on row seven",
			req: game.MoveRequest{
				From: sq(t, "h2"), To: sq(t, "h1"),
				Promotion: shared.Knight, HasPromotion: true,
			},
			want: `{"type":"move","from":{"row":6,"col":7},"to":{"row":7,"col":7},"promotion":"knight"}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeMove(tt.req)
			if err != nil {
				t.Fatalf("EncodeMove: %v", err)
			}
			if string(data) != tt.want {
				t.Fatalf("wire mismatch:\n got %s\nwant %s", data, tt.want)
			}
		})
	}
}

func TestDecodeMoveRoundTrip(t *testing.T) {
	reqs := []game.MoveRequest{
		{From: sq(t, "e2"), To: sq(t, "e4")},
		{From: sq(t, "g8"), To: sq(t, "f6")},
		{From: sq(t, "b7"), To: sq(t, "b8"), Promotion: shared.Rook, HasPromotion: true},
	}
	for _, req := range reqs {
		data, err := EncodeMove(req)
		if err != nil {
			t.Fatalf("EncodeMove: %v", err)
		}
		back, err := DecodeMove(data)
		if err != nil {
			t.Fatalf("DecodeMove(%s): %v", data, err)
		}
		if diff := cmp.Diff(req, back); diff != "" {
			t.Fatalf("round trip mismatch (-sent +received):\n%s", diff)
		}
	}
}

func TestDecodeMoveRowMapping(t *testing.T) {
	// Wire row 0 is black's back rank, so (6,4)->(4,4) is e2 to e4.
	data := []byte(`{"type":"move","from":{"row":6,"col":4},"to":{"row":4,"col":4},"promotion":null}`)
	req, err := DecodeMove(data)
	if err != nil {
		t.Fatalf("DecodeMove: %v", err)
	}
	if req.From.String() != "e2" || req.To.String() != "e4" {
		t.Fatalf("expected e2 -> e4, got %s -> %s", req.From, req.To)
	}
	if req.HasPromotion {
		t.Fatalf("null promotion must decode as no choice")
	}
}

func TestDecodeMoveRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{"type":"move",`},
		{"wrong type", `{"type":"state","from":{"row":6,"col":4},"to":{"row":4,"col":4},"promotion":null}`},
		{"row out of range", `{"type":"move","from":{"row":8,"col":4},"to":{"row":4,"col":4},"promotion":null}`},
		{"negative col", `{"type":"move","from":{"row":6,"col":-1},"to":{"row":4,"col":4},"promotion":null}`},
		{"destination out of range", `{"type":"move","from":{"row":6,"col":4},"to":{"row":4,"col":9},"promotion":null}`},
		{"unknown promotion", `{"type":"move","from":{"row":1,"col":0},"to":{"row":0,"col":0},"promotion":"king"}`},
		{"short-form promotion", `{"type":"move","from":{"row":1,"col":0},"to":{"row":0,"col":0},"promotion":"q"}`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeMove([]byte(tt.data)); !errors.Is(err, ErrMalformedMessage) {
				t.Fatalf("expected ErrMalformedMessage, got %v", err)
			}
		})
	}
}

func TestHelloRoundTrip(t *testing.T) {
	for _, color := range []shared.Color{shared.White, shared.Black} {
		data, err := EncodeHello(color)
		if err != nil {
			t.Fatalf("EncodeHello: %v", err)
		}
		back, err := DecodeHello(data)
		if err != nil {
			t.Fatalf("DecodeHello(%s): %v", data, err)
		}
		if back != color {
			t.Fatalf("round trip mismatch: sent %s, got %s", color, back)
		}
	}

	if _, err := DecodeHello([]byte(`{"type":"hello","color":"green"}`)); !errors.Is(err, ErrMalformedMessage) {
		t.Fatalf("expected unknown color rejected")
	}
	if _, err := DecodeHello([]byte(`{"type":"move","color":"white"}`)); !errors.Is(err, ErrMalformedMessage) {
		t.Fatalf("expected wrong type rejected")
	}
}

func TestMessageType(t *testing.T) {
	mt, err := MessageType([]byte(`{"type":"move","from":{"row":6,"col":4}}`))
	if err != nil || mt != TypeMove {
		t.Fatalf("MessageType = %q, %v; want move", mt, err)
	}
	if _, err := MessageType([]byte(`{"from":{"row":6,"col":4}}`)); !errors.Is(err, ErrMalformedMessage) {
		t.Fatalf("expected missing type rejected")
	}
	if _, err := MessageType([]byte(`not json`)); !errors.Is(err, ErrMalformedMessage) {
		t.Fatalf("expected invalid json rejected")
	}
}
