package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/Dhruv54/P2P-Chess-Game/internal/game"
	"github.com/Dhruv54/P2P-Chess-Game/internal/protocol"
	"github.com/Dhruv54/P2P-Chess-Game/internal/shared"
)

// ErrDesynchronized marks a peer session that has diverged: the peer sent a
// move that is illegal against our state. The session is dead; the engines
// must not be allowed to drift apart silently.
var ErrDesynchronized = errors.New("peer session desynchronized")

const maxJSONBodyBytes int64 = 1 << 20

// Server wires the HTTP and websocket surface to one peer's engine. Local
// input arrives over the JSON API; the remote peer's moves arrive over the
// websocket and are replayed through the identical validation pipeline.
type Server struct {
	engineMu   sync.Mutex
	engine     *game.Engine
	localColor shared.Color

	upgrader websocket.Upgrader

	peerMu     sync.Mutex
	peer       *websocket.Conn
	sessionErr error

	srvMu sync.Mutex
	srv   *http.Server
}

// NewServer builds a Server for the side this peer drives locally.
func NewServer(engine *game.Engine, localColor shared.Color) *Server {
	return &Server{
		engine:     engine,
		localColor: localColor,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Listen starts the HTTP server.
func (s *Server) Listen(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	s.srvMu.Lock()
	s.srv = srv
	s.srvMu.Unlock()
	defer func() {
		s.srvMu.Lock()
		s.srv = nil
		s.srvMu.Unlock()
	}()

	log.Printf("HTTP listening on %s (playing %s)", addr, s.localColor)
	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close attempts a graceful shutdown of the HTTP server.
func (s *Server) Close(ctx context.Context) error {
	s.srvMu.Lock()
	srv := s.srv
	s.srvMu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/state", s.withJSON(s.handleState)).Methods(http.MethodGet)
	r.HandleFunc("/api/move", s.withJSON(s.handleMove)).Methods(http.MethodPost)
	r.HandleFunc("/api/legal", s.withJSON(s.handleLegal)).Methods(http.MethodGet)
	r.HandleFunc("/api/reset", s.withJSON(s.handleReset)).Methods(http.MethodPost)
	r.HandleFunc("/ws", s.handlePeerSocket)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return handlers.LoggingHandler(os.Stdout, r)
}

// ---- JSON helpers ----

func (s *Server) withJSON(h func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if r.Body != nil && r.Body != http.NoBody {
			r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	writeJSON(w, map[string]string{"error": msg})
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// statePayload bundles the engine snapshot with session health so the UI
// can show a desynchronized session instead of a stale board.
func (s *Server) statePayload() map[string]any {
	s.engineMu.Lock()
	state := s.engine.State()
	s.engineMu.Unlock()

	payload := map[string]any{
		"state":      state,
		"localColor": s.localColor.String(),
	}
	if err := s.SessionError(); err != nil {
		payload["sessionError"] = err.Error()
	}
	return payload
}

// ---- API: state ----

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.statePayload())
}

// ---- API: move ----

type moveBody struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion"`
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var body moveBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if isBodyTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "request too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	from, ok := game.CoordToSquare(strings.ToLower(strings.TrimSpace(body.From)))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid from square")
		return
	}
	to, ok := game.CoordToSquare(strings.ToLower(strings.TrimSpace(body.To)))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid to square")
		return
	}

	req := game.MoveRequest{From: from, To: to}
	if promotion := strings.TrimSpace(body.Promotion); promotion != "" {
		pt, ok := game.ParsePromotionPiece(promotion)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid promotion choice")
			return
		}
		req.Promotion = pt
		req.HasPromotion = true
	}

	if err := s.SessionError(); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	s.engineMu.Lock()
	if s.hasPeer() && s.engine.Turn() != s.localColor {
		s.engineMu.Unlock()
		writeError(w, http.StatusConflict, "waiting for the remote side to move")
		return
	}
	err := s.engine.Move(req)
	s.engineMu.Unlock()

	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, game.ErrPromotionRequired) {
			status = http.StatusPreconditionRequired
		}
		writeError(w, status, err.Error())
		return
	}

	if err := s.broadcastMove(req); err != nil {
		log.Printf("peer broadcast: %v", err)
	}
	writeJSON(w, s.statePayload())
}

// ---- API: legal destinations ----

func (s *Server) handleLegal(w http.ResponseWriter, r *http.Request) {
	from, ok := game.CoordToSquare(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("from"))))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid from square")
		return
	}
	s.engineMu.Lock()
	moves := s.engine.LegalMoves(from)
	requiresPromotion := make([]string, 0)
	names := make([]string, 0, len(moves))
	for _, sq := range moves {
		names = append(names, sq.String())
		if s.engine.RequiresPromotion(from, sq) {
			requiresPromotion = append(requiresPromotion, sq.String())
		}
	}
	s.engineMu.Unlock()
	writeJSON(w, map[string]any{
		"from":              from.String(),
		"moves":             names,
		"requiresPromotion": requiresPromotion,
	})
}

// ---- API: reset ----

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		r.Body.Close()
	}
	s.engineMu.Lock()
	s.engine.Reset()
	s.engineMu.Unlock()

	s.peerMu.Lock()
	s.sessionErr = nil
	s.peerMu.Unlock()

	writeJSON(w, s.statePayload())
}

// ---- Peer session ----

// handlePeerSocket accepts the remote peer's websocket connection.
func (s *Server) handlePeerSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("peer upgrade: %v", err)
		return
	}
	log.Printf("peer connected from %s", conn.RemoteAddr())
	s.attachPeer(conn)
}

// DialPeer connects to a remote peer's /ws endpoint and starts the session.
func (s *Server) DialPeer(url string) error {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("dial peer %s: %w", url, err)
	}
	log.Printf("connected to peer at %s", url)
	s.attachPeer(conn)
	return nil
}

func (s *Server) attachPeer(conn *websocket.Conn) {
	s.peerMu.Lock()
	if s.peer != nil {
		s.peerMu.Unlock()
		log.Printf("rejecting second peer from %s", conn.RemoteAddr())
		conn.Close()
		return
	}
	s.peer = conn
	s.sessionErr = nil
	s.peerMu.Unlock()

	if data, err := protocol.EncodeHello(s.localColor); err == nil {
		s.writeToPeer(data)
	}
	go s.readLoop(conn)
}

func (s *Server) readLoop(conn *websocket.Conn) {
	defer s.detachPeer(conn)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Printf("peer read: %v", err)
			return
		}
		if err := s.applyPeerMessage(data); err != nil {
			s.failSession(err)
			return
		}
	}
}

// applyPeerMessage replays one raw message from the peer. Any returned
// error is fatal for the session.
func (s *Server) applyPeerMessage(data []byte) error {
	msgType, err := protocol.MessageType(data)
	if err != nil {
		return err
	}
	switch msgType {
	case protocol.TypeHello:
		remote, err := protocol.DecodeHello(data)
		if err != nil {
			return err
		}
		if remote != s.localColor.Opposite() {
			return fmt.Errorf("%w: both peers claim %s", ErrDesynchronized, remote)
		}
		return nil
	case protocol.TypeMove:
		req, err := protocol.DecodeMove(data)
		if err != nil {
			return err
		}
		return s.applyRemoteMove(req)
	default:
		// Chat and the like ride the same socket but never touch the engine.
		log.Printf("ignoring peer message type %q", msgType)
		return nil
	}
}

// applyRemoteMove runs a received move through the same legality and
// execution pipeline as local input. A rejection here means the two engines
// no longer agree, which is fatal for the session.
func (s *Server) applyRemoteMove(req game.MoveRequest) error {
	s.engineMu.Lock()
	defer s.engineMu.Unlock()

	if s.engine.Turn() != s.localColor.Opposite() {
		return fmt.Errorf("%w: peer moved out of turn", ErrDesynchronized)
	}
	if err := s.engine.Move(req); err != nil {
		return fmt.Errorf("%w: %v", ErrDesynchronized, err)
	}
	return nil
}

func (s *Server) broadcastMove(req game.MoveRequest) error {
	s.peerMu.Lock()
	conn := s.peer
	s.peerMu.Unlock()
	if conn == nil {
		return nil
	}
	data, err := protocol.EncodeMove(req)
	if err != nil {
		return err
	}
	return s.writeToPeer(data)
}

func (s *Server) writeToPeer(data []byte) error {
	s.peerMu.Lock()
	defer s.peerMu.Unlock()
	if s.peer == nil {
		return nil
	}
	return s.peer.WriteMessage(websocket.TextMessage, data)
}

func (s *Server) failSession(err error) {
	log.Printf("fatal peer session error: %v", err)
	s.peerMu.Lock()
	s.sessionErr = err
	conn := s.peer
	s.peer = nil
	s.peerMu.Unlock()
	if conn != nil {
		conn.Close()
	}
}

func (s *Server) detachPeer(conn *websocket.Conn) {
	s.peerMu.Lock()
	if s.peer == conn {
		s.peer = nil
	}
	s.peerMu.Unlock()
	conn.Close()
}

func (s *Server) hasPeer() bool {
	s.peerMu.Lock()
	defer s.peerMu.Unlock()
	return s.peer != nil
}

// SessionError returns the fatal error that ended the peer session, if any.
func (s *Server) SessionError() error {
	s.peerMu.Lock()
	defer s.peerMu.Unlock()
	return s.sessionErr
}
