package transform

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
)

const (
	socketBufferSize = 1024

	opGet = "get"
	opSet = "set"

	codeNotFound = "not_found"
)

type request struct {
	ID    uint64 `json:"id"`
	Op    string `json:"op"`
	Child string `json:"child"`
	Root  string `json:"root"`
	Pose  *Pose  `json:"pose,omitempty"`
}

type response struct {
	ID    uint64 `json:"id"`
	Pose  *Pose  `json:"pose,omitempty"`
	Error string `json:"error,omitempty"`
	Code  string `json:"code,omitempty"`
}

var upgrader = &websocket.Upgrader{ReadBufferSize: socketBufferSize, WriteBufferSize: socketBufferSize}

// Server distributes the transforms of a Tree over websockets.
//
//	GET /ws          request/response socket (get, set)
//	GET /transforms  JSON dump of every stored edge
type Server struct {
	tree   *Tree
	logger *slog.Logger
	mux    *http.ServeMux
}

// NewServer creates a server backed by tree.
func NewServer(tree *Tree, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{tree: tree, logger: logger, mux: http.NewServeMux()}
	s.mux.HandleFunc("/ws", s.serveSocket)
	s.mux.HandleFunc("/transforms", s.serveDump)
	return s
}

// Tree returns the tree the server distributes.
func (s *Server) Tree() *Tree { return s.tree }

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) serveDump(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.tree.Edges()); err != nil {
		s.logger.Warn("encode transforms", "error", err)
	}
}

func (s *Server) serveSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	s.logger.Info("transform client connected", "remote", remote)
	defer s.logger.Info("transform client disconnected", "remote", remote)

	for {
		var req request
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("read request", "remote", remote, "error", err)
			}
			return
		}
		if err := conn.WriteJSON(s.handle(req)); err != nil {
			s.logger.Debug("write response", "remote", remote, "error", err)
			return
		}
	}
}

func (s *Server) handle(req request) response {
	resp := response{ID: req.ID}
	switch req.Op {
	case opGet:
		pose, err := s.tree.Lookup(req.Child, req.Root)
		if err != nil {
			resp.Error = err.Error()
			if errors.Is(err, ErrNotFound) {
				resp.Code = codeNotFound
			}
			return resp
		}
		resp.Pose = &pose
	case opSet:
		if req.Pose == nil {
			resp.Error = "set requires a pose"
			return resp
		}
		if err := s.tree.Set(req.Child, req.Root, *req.Pose); err != nil {
			resp.Error = err.Error()
		}
	default:
		resp.Error = "unknown op " + req.Op
	}
	return resp
}
