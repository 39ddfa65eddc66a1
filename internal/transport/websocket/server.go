// Package websocket serves puzzle sessions over WebSocket connections.
// Every connection owns one session; clients send JSON commands and receive
// a snapshot after each command plus periodic timer updates.
package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-shunting/internal/games/shunting/core"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// How many state pushes a transient message survives.
	messagePushes = 3

	defaultPlayer = "Player"
)

// Ops accepted in Request.Op.
const (
	OpStart    = "start"
	OpPosition = "position"
	OpSelect   = "select"
	OpMove     = "move"
	OpRestart  = "restart"
	OpNext     = "next"
	OpState    = "state"
)

// Events sent in Response.Event.
const (
	EventReply = "reply"
	EventState = "state_update"
)

// Request is one command from a client.
type Request struct {
	Op    string `json:"op"`
	Level int    `json:"level,omitempty"`
	Track int    `json:"track"`
	Slot  int    `json:"slot"`
}

// Response carries the outcome of a command or a timer update.
type Response struct {
	Event    string        `json:"event"`
	Accepted bool          `json:"accepted"`
	Error    string        `json:"error,omitempty"`
	State    core.Snapshot `json:"state"`
}

// LevelInfo describes one level in the /levels listing.
type LevelInfo struct {
	ID          int               `json:"id"`
	Name        string            `json:"name,omitempty"`
	Description string            `json:"description,omitempty"`
	Capacity    int               `json:"capacity"`
	Target      []string          `json:"target"`
	Record      *core.ScoreRecord `json:"record,omitempty"`
}

// Config holds configuration for the WebSocket server.
type Config struct {
	Catalog *core.Catalog
	Store   core.ScoreStore // nil disables records

	// PushInterval is how often active sessions receive a timer update.
	PushInterval time.Duration

	Logger *log.Logger
}

// Server hands out one puzzle session per WebSocket connection.
type Server struct {
	cfg      Config
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// NewServer creates a server over the given catalog and store.
func NewServer(cfg Config) *Server {
	if cfg.Catalog == nil {
		cfg.Catalog = core.NewCatalog()
	}
	if cfg.PushInterval <= 0 {
		cfg.PushInterval = time.Second
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Server{
		cfg:    cfg,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Handler returns the HTTP routes: /ws for play and /levels for the listing.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.ServeWS)
	mux.HandleFunc("/levels", s.serveLevels)
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting WebSocket server", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("websocket: cannot serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// ServeWS upgrades the request and starts a fresh session for it.
// The player name comes from the "player" query parameter.
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	player := r.URL.Query().Get("player")
	if player == "" {
		player = defaultPlayer
	}

	session := core.NewSession(s.cfg.Catalog, s.cfg.Store,
		core.WithPlayer(player),
		core.WithMessageTicks(messagePushes),
	)

	c := &client{
		server: s,
		conn:   conn,
		game:   core.NewGuarded(session),
		send:   make(chan []byte, 16),
		done:   make(chan struct{}),
		closed: make(chan struct{}),
		logger: s.logger.With("player", player, "remote", conn.RemoteAddr().String()),
	}

	c.logger.Info("client connected")

	go c.writePump()
	go c.readPump()
}

// serveLevels writes the level list with best records as JSON.
func (s *Server) serveLevels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	levels := s.cfg.Catalog.Levels()
	infos := make([]LevelInfo, 0, len(levels))
	for _, l := range levels {
		capacity := l.Capacity
		if capacity <= 0 {
			capacity = core.DefaultCapacity
		}
		info := LevelInfo{
			ID:          l.ID,
			Name:        l.Name,
			Description: l.Description,
			Capacity:    capacity,
			Target:      l.TargetSequence,
		}
		if s.cfg.Store != nil {
			rec, ok, err := s.cfg.Store.GetRecord(l.ID)
			if err != nil {
				s.logger.Warn("could not read record", "level", l.ID, "error", err)
			} else if ok {
				info.Record = &rec
			}
		}
		infos = append(infos, info)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(infos); err != nil {
		s.logger.Warn("could not write level list", "error", err)
	}
}

// client is one connection and its session.
type client struct {
	server *Server
	conn   *websocket.Conn
	game   *core.Guarded
	send   chan []byte
	logger *log.Logger

	done      chan struct{} // closed when the read side stops
	closed    chan struct{} // closed when the write side stops
	closeOnce sync.Once
}

// readPump applies client commands until the connection drops.
func (c *client) readPump() {
	defer func() {
		close(c.done)
		c.conn.Close()
		c.logger.Info("client disconnected")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	//nolint:errcheck // deadline errors surface on the next read
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("websocket error", "error", err)
			}
			return
		}

		resp := c.handle(data)
		if !c.enqueue(resp) {
			return
		}
	}
}

// handle decodes one request and applies it to the session.
func (c *client) handle(data []byte) Response {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return Response{Event: EventReply, Error: "invalid request", State: c.game.Snapshot()}
	}

	wasWon := false
	ok, snap := c.game.Apply(func(s *core.Session) bool {
		wasWon = s.Won()
		return Apply(s, req)
	})

	resp := Response{Event: EventReply, Accepted: ok, State: snap}
	if !ok && !knownOp(req.Op) {
		resp.Error = fmt.Sprintf("unknown op %q", req.Op)
	}

	if snap.Won && !wasWon {
		c.logger.Info("level complete",
			"level", snap.LevelID,
			"moves", snap.Moves,
			"elapsed", snap.TimeString(),
			"record", snap.NewRecord,
		)
		c.game.Do(func(s *core.Session) {
			if err := s.StoreErr(); err != nil {
				c.logger.Warn("could not save record", "level", snap.LevelID, "error", err)
			}
		})
	}

	return resp
}

// enqueue hands a response to the write side. It reports false once the
// write side has stopped.
func (c *client) enqueue(resp Response) bool {
	data, err := json.Marshal(resp)
	if err != nil {
		c.logger.Error("could not encode response", "error", err)
		return true
	}

	select {
	case c.send <- data:
		return true
	case <-c.closed:
		return false
	}
}

// writePump is the only writer on the connection. It sends replies,
// timer updates and pings.
func (c *client) writePump() {
	ping := time.NewTicker(pingPeriod)
	push := time.NewTicker(c.server.cfg.PushInterval)
	defer func() {
		ping.Stop()
		push.Stop()
		c.closeOnce.Do(func() { close(c.closed) })
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			if err := c.write(websocket.TextMessage, message); err != nil {
				return
			}

		case <-push.C:
			var (
				snap   core.Snapshot
				update bool
			)
			c.game.Do(func(s *core.Session) {
				s.Tick()
				update = s.Active() && !s.Won()
				snap = s.Snapshot()
			})
			if !update {
				continue
			}
			data, err := json.Marshal(Response{Event: EventState, Accepted: true, State: snap})
			if err != nil {
				continue
			}
			if err := c.write(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ping.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			//nolint:errcheck // best-effort close frame
			c.write(websocket.CloseMessage, []byte{})
			return
		}
	}
}

func (c *client) write(messageType int, data []byte) error {
	//nolint:errcheck // deadline errors surface on the write itself
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}

// Apply runs one request against a session and reports whether the engine
// accepted it.
func Apply(s *core.Session, req Request) bool {
	switch req.Op {
	case OpStart:
		return s.StartLevel(req.Level)
	case OpPosition:
		return s.PositionLocomotive(req.Track)
	case OpSelect:
		return s.SelectCar(req.Track, req.Slot)
	case OpMove:
		return s.MoveSelected(req.Track)
	case OpRestart:
		return s.Restart()
	case OpNext:
		if !s.Won() {
			return false
		}
		return s.NextLevel()
	case OpState:
		return true
	}
	return false
}

func knownOp(op string) bool {
	switch op {
	case OpStart, OpPosition, OpSelect, OpMove, OpRestart, OpNext, OpState:
		return true
	}
	return false
}
