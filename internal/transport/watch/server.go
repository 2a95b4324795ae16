// Package watch serves a live view of a single-lane run over a localhost
// websocket. Each connection gets its own fresh engine, so the simulation
// itself never crosses the network and viewers cannot disturb each other.
package watch

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"picogrid.dev/internal/room"
	"picogrid.dev/internal/rules"
	"picogrid.dev/internal/sim"
	"picogrid.dev/internal/viewproto"
)

type Config struct {
	Room       *room.Room
	Table      *rules.DecisionTable
	Start      room.Cell
	StartState int
	MaxSteps   int
	TickRateHz int
}

type Server struct {
	cfg Config
	log *log.Logger

	upgrader websocket.Upgrader
}

func NewServer(cfg Config, logger *log.Logger) *Server {
	if cfg.TickRateHz <= 0 {
		cfg.TickRateHz = 20
	}
	return &Server{
		cfg: cfg,
		log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // loopback only
		},
	}
}

// Handler routes /bootstrap and /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/bootstrap", s.bootstrap)
	mux.HandleFunc("/ws", s.ws)
	return mux
}

func (s *Server) bootstrap(rw http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		rw.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !isLoopbackRemote(r.RemoteAddr) {
		http.Error(rw, "forbidden", http.StatusForbidden)
		return
	}

	resp := viewproto.BootstrapResponse{
		ProtocolVersion: viewproto.Version,
		Height:          s.cfg.Room.Height(),
		Width:           s.cfg.Room.Width(),
		OpenCells:       s.cfg.Room.OpenCount(),
		Rows:            strings.Split(s.cfg.Room.Render(nil, room.Cell{Row: -1}), "\n"),
		StartRow:        s.cfg.Start.Row,
		StartCol:        s.cfg.Start.Col,
		StartState:      s.cfg.StartState,
		MaxSteps:        s.cfg.MaxSteps,
		TickRateHz:      s.cfg.TickRateHz,
	}
	rw.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(rw).Encode(resp)
}

func (s *Server) ws(rw http.ResponseWriter, r *http.Request) {
	if !isLoopbackRemote(r.RemoteAddr) {
		http.Error(rw, "forbidden", http.StatusForbidden)
		return
	}

	conn, err := s.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	// Handshake: must send SUBSCRIBE first.
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return
	}
	var sub viewproto.SubscribeMsg
	if err := json.Unmarshal(msg, &sub); err != nil || sub.Type != viewproto.TypeSubscribe || sub.ProtocolVersion != viewproto.Version {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected SUBSCRIBE"),
			time.Now().Add(time.Second))
		return
	}

	eng, err := sim.NewEngine(s.cfg.Room, s.cfg.Table, s.cfg.Start, sim.Options{
		StartState: s.cfg.StartState,
		MaxSteps:   s.cfg.MaxSteps,
	})
	if err != nil {
		s.log.Printf("watch: engine: %v", err)
		return
	}

	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.TickRateHz))
	defer ticker.Stop()

	for range ticker.C {
		done := eng.Step()
		pos := eng.Position()
		frame := viewproto.FrameMsg{
			Type:            viewproto.TypeFrame,
			Step:            eng.Steps(),
			Row:             pos.Row,
			Col:             pos.Col,
			State:           eng.State(),
			Visited:         eng.Result().Visited,
			CoveragePercent: eng.CoveragePercent(),
		}
		if err := conn.WriteJSON(frame); err != nil {
			return
		}
		if done || eng.Done() {
			break
		}
	}

	res := eng.Result()
	_ = conn.WriteJSON(viewproto.DoneMsg{
		Type:            viewproto.TypeDone,
		Status:          res.Status.String(),
		Steps:           res.Steps,
		Visited:         res.Visited,
		CoveragePercent: res.CoveragePercent,
	})
}

func isLoopbackRemote(remote string) bool {
	host, _, err := net.SplitHostPort(remote)
	if err != nil {
		host = remote
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
