// Package protocol implements the wire format two peers use to exchange
// moves. The schema is the only bit-exact contract between implementations:
//
//	{"type":"move","from":{"row":r,"col":c},"to":{"row":r,"col":c},"promotion":"queen"|...|null}
//
// Wire rows count from black's back rank (row 0); the engine counts ranks
// from white's back rank (rank 0). The codec owns that conversion so the
// engine never sees wire coordinates.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dhruv54/P2P-Chess-Game/internal/game"
	"github.com/Dhruv54/P2P-Chess-Game/internal/shared"
)

const (
	TypeMove  = "move"
	TypeHello = "hello"
)

var ErrMalformedMessage = errors.New("malformed message")

// Coord is a wire square: row 0 is black's back rank, row 7 white's.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// MoveMessage is the wire form of one committed move. Promotion is a
// pointer so an absent choice serializes as an explicit null.
type MoveMessage struct {
	Type      string  `json:"type"`
	From      Coord   `json:"from"`
	To        Coord   `json:"to"`
	Promotion *string `json:"promotion"`
}

// HelloMessage announces which side a peer drives, sent once on connect.
type HelloMessage struct {
	Type  string `json:"type"`
	Color string `json:"color"`
}

// Envelope carries just enough of any message to dispatch on its type.
type Envelope struct {
	Type string `json:"type"`
}

func toWire(sq shared.Square) Coord {
	return Coord{Row: 7 - sq.Rank(), Col: sq.File()}
}

func fromWire(c Coord) (shared.Square, error) {
	if c.Row < 0 || c.Row > 7 || c.Col < 0 || c.Col > 7 {
		return 0, fmt.Errorf("%w: square (%d,%d) out of bounds", ErrMalformedMessage, c.Row, c.Col)
	}
	sq, _ := shared.SquareFromCoords(7-c.Row, c.Col)
	return sq, nil
}

// EncodeMove serializes a committed move for transmission.
func EncodeMove(req game.MoveRequest) ([]byte, error) {
	msg := MoveMessage{
		Type: TypeMove,
		From: toWire(req.From),
		To:   toWire(req.To),
	}
	if req.HasPromotion {
		name := req.Promotion.Name()
		msg.Promotion = &name
	}
	return json.Marshal(msg)
}

// DecodeMove parses and validates a received move message. Everything is
// checked at this boundary: message type, square bounds, and the promotion
// vocabulary. The caller still replays the move through full legality
// checking; a decoded message is well-formed, not trusted.
func DecodeMove(data []byte) (game.MoveRequest, error) {
	var msg MoveMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return game.MoveRequest{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if msg.Type != TypeMove {
		return game.MoveRequest{}, fmt.Errorf("%w: unexpected type %q", ErrMalformedMessage, msg.Type)
	}

	from, err := fromWire(msg.From)
	if err != nil {
		return game.MoveRequest{}, err
	}
	to, err := fromWire(msg.To)
	if err != nil {
		return game.MoveRequest{}, err
	}

	req := game.MoveRequest{From: from, To: to}
	if msg.Promotion != nil {
		pt, ok := parsePromotionName(*msg.Promotion)
		if !ok {
			return game.MoveRequest{}, fmt.Errorf("%w: unknown promotion %q", ErrMalformedMessage, *msg.Promotion)
		}
		req.Promotion = pt
		req.HasPromotion = true
	}
	return req, nil
}

// parsePromotionName accepts only the four long-form names the schema
// allows; the short forms the HTTP layer tolerates are not valid on the
// wire.
func parsePromotionName(s string) (shared.PieceType, bool) {
	switch s {
	case "queen":
		return shared.Queen, true
	case "rook":
		return shared.Rook, true
	case "bishop":
		return shared.Bishop, true
	case "knight":
		return shared.Knight, true
	default:
		return 0, false
	}
}

// EncodeHello serializes the side announcement for a peer session.
func EncodeHello(color shared.Color) ([]byte, error) {
	return json.Marshal(HelloMessage{Type: TypeHello, Color: color.String()})
}

// DecodeHello parses and validates a hello message.
func DecodeHello(data []byte) (shared.Color, error) {
	var msg HelloMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if msg.Type != TypeHello {
		return 0, fmt.Errorf("%w: unexpected type %q", ErrMalformedMessage, msg.Type)
	}
	color, ok := shared.ParseColor(msg.Color)
	if !ok {
		return 0, fmt.Errorf("%w: unknown color %q", ErrMalformedMessage, msg.Color)
	}
	return color, nil
}

// MessageType sniffs the type of a raw message without fully decoding it.
func MessageType(data []byte) (string, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if env.Type == "" {
		return "", fmt.Errorf("%w: missing type", ErrMalformedMessage)
	}
	return env.Type, nil
}
