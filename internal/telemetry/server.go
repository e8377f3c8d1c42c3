package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/kxvxnc/terrain-gen/internal/chunkmap"
	"github.com/kxvxnc/terrain-gen/internal/compression"
	"github.com/kxvxnc/terrain-gen/internal/config"
	"github.com/kxvxnc/terrain-gen/internal/performance"
	"github.com/kxvxnc/terrain-gen/internal/streaming"
	"github.com/kxvxnc/terrain-gen/internal/terrain"
)

// Server exposes read-only observability for a running walker session:
// an HTTP surface for health, profiler statistics, resident chunks and
// the session configuration, plus a WebSocket feed of streaming deltas
// and optional chunk geometry.
//
// The frame loop pushes state in through PublishDelta and PublishChunk;
// handlers never touch the streaming manager directly, so the walker
// stays single-threaded while observers read a mirrored view.
type Server struct {
	cfg      *config.Config
	hub      *Hub
	profiler *performance.Profiler
	upgrader websocket.Upgrader
	httpSrv  *http.Server

	mu       sync.Mutex
	tick     uint64
	center   chunkmap.Coord
	resident map[chunkmap.Coord]bool
}

// NewServer creates a telemetry server for the given configuration.
// The profiler is shared with the frame loop and may be disabled.
func NewServer(cfg *config.Config, profiler *performance.Profiler) *Server {
	allowedOrigins := []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}

	return &Server{
		cfg:      cfg,
		hub:      NewHub(),
		profiler: profiler,
		resident: make(map[chunkmap.Coord]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// Non-browser observers (wscat, tests) send no Origin header.
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if origin == allowed {
						return true
					}
				}
				return false
			},
		},
	}
}

// Routes returns the telemetry HTTP handler with all endpoints registered.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/chunks", s.handleChunks)
	mux.HandleFunc("/config", s.handleConfig)
	mux.HandleFunc("/ws", s.HandleWebSocket)
	return CORSMiddleware(mux)
}

// Start launches the hub loop and the HTTP listener in the background.
func (s *Server) Start() {
	go s.hub.Run()

	s.httpSrv = &http.Server{
		Addr:    s.cfg.Telemetry.Addr,
		Handler: s.Routes(),
	}

	log.Printf("[Telemetry] listening on %s", s.cfg.Telemetry.Addr)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("[Telemetry] server error: %v", err)
		}
	}()
}

// Shutdown stops the HTTP listener and disconnects all observers.
func (s *Server) Shutdown(ctx context.Context) error {
	defer s.hub.Stop()

	if s.httpSrv == nil {
		return nil
	}
	if err := s.httpSrv.Shutdown(ctx); err != nil {
		return fmt.Errorf("telemetry shutdown failed: %w", err)
	}
	return nil
}

// Hub returns the observer hub, exposed for tests.
func (s *Server) Hub() *Hub {
	return s.hub
}

// WantGeometry reports whether any observer opted into chunk geometry.
// The frame loop consults this before encoding, so no compression work
// happens when nobody is watching.
func (s *Server) WantGeometry() bool {
	return s.hub.GeometryWatchers() > 0
}

// PublishDelta mirrors a streaming delta into the server state and
// broadcasts it to all observers. Called by the frame loop after every
// update that changed residency.
func (s *Server) PublishDelta(delta streaming.Delta) {
	s.mu.Lock()
	s.tick = delta.Tick
	s.center = delta.Center
	for _, coord := range delta.Added {
		s.resident[coord] = true
	}
	for _, coord := range delta.Removed {
		delete(s.resident, coord)
	}
	s.mu.Unlock()

	data, err := json.Marshal(delta)
	if err != nil {
		log.Printf("Failed to marshal stream_delta payload: %v", err)
		return
	}

	msg := Message{Type: "stream_delta", Data: data}
	messageBytes, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal stream_delta message: %v", err)
		return
	}

	s.hub.Broadcast(messageBytes)
}

// ChunkGeometryData is the payload of a chunk_geometry message.
type ChunkGeometryData struct {
	Coord    chunkmap.Coord                  `json:"coord"`
	Geometry *compression.CompressedGeometry `json:"geometry"`
}

// PublishChunk compresses a chunk and sends it to observers that opted
// into geometry delivery. Callers should check WantGeometry first to
// avoid encoding work with no audience.
func (s *Server) PublishChunk(chunk *terrain.Chunk) {
	formatted, err := compression.FormatChunk(chunk)
	if err != nil {
		log.Printf("[Telemetry] failed to compress chunk %s: %v", chunk.Coord, err)
		return
	}

	payload := ChunkGeometryData{Coord: chunk.Coord, Geometry: formatted}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal chunk_geometry payload: %v", err)
		return
	}

	msg := Message{Type: "chunk_geometry", Data: data}
	messageBytes, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal chunk_geometry message: %v", err)
		return
	}

	s.hub.BroadcastGeometry(messageBytes)
}

// HandleWebSocket handles WebSocket connection upgrades
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, 256),
		hub:  s.hub,
	}

	select {
	case s.hub.register <- client:
	case <-s.hub.stop:
		conn.Close()
		return
	}

	s.sendHello(client)

	go client.writePump()
	go client.readPump(s)
}

// HelloData is the payload of the hello message sent on connect.
type HelloData struct {
	ClientID string `json:"client_id"`
	Service  string `json:"service"`
}

// sendHello greets a freshly registered client with its identifier.
func (s *Server) sendHello(client *Client) {
	data, err := json.Marshal(HelloData{
		ClientID: client.id,
		Service:  "terrain-walker",
	})
	if err != nil {
		log.Printf("Failed to marshal hello payload: %v", err)
		return
	}
	client.sendMessage(Message{Type: "hello", Data: data})
}

// handleMessage routes messages to appropriate handlers
func (s *Server) handleMessage(client *Client, msg *Message) {
	switch msg.Type {
	case "ping":
		s.handlePing(client, msg)
	case "watch_geometry":
		s.handleWatchGeometry(client, msg)
	default:
		client.sendError(msg.ID, "Unknown message type", "UnknownMessageType")
	}
}

// handlePing responds to ping messages
func (s *Server) handlePing(client *Client, msg *Message) {
	client.sendMessage(Message{
		Type: "pong",
		ID:   msg.ID,
	})
}

// WatchGeometryData is the payload of a watch_geometry message.
type WatchGeometryData struct {
	Enabled bool `json:"enabled"`
}

// handleWatchGeometry toggles chunk geometry delivery for a client.
func (s *Server) handleWatchGeometry(client *Client, msg *Message) {
	var req WatchGeometryData
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		client.sendError(msg.ID, "Invalid watch_geometry payload", "InvalidMessageFormat")
		return
	}

	client.setWantGeometry(req.Enabled)
	log.Printf("[Telemetry] client %s geometry watch: enabled=%v", client.id, req.Enabled)

	data, err := json.Marshal(req)
	if err != nil {
		log.Printf("Failed to marshal watch_ack payload: %v", err)
		return
	}
	client.sendMessage(Message{
		Type: "watch_ack",
		ID:   msg.ID,
		Data: data,
	})
}

// handleHealth responds to health check requests.
// Returns a JSON response indicating the walker session is running.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","service":"terrain-walker"}`)
}

// statsResponse is the body of a GET /stats response.
type statsResponse struct {
	Service  string               `json:"service"`
	Clients  int                  `json:"clients"`
	Profiler performance.Snapshot `json:"profiler"`
}

// handleStats returns profiler statistics for the running session.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	respondWithJSON(w, http.StatusOK, statsResponse{
		Service:  "terrain-walker",
		Clients:  s.hub.ClientCount(),
		Profiler: s.profiler.TakeSnapshot(),
	})
}

// chunksResponse is the body of a GET /chunks response.
type chunksResponse struct {
	Tick     uint64           `json:"tick"`
	Center   chunkmap.Coord   `json:"center"`
	Resident int              `json:"resident"`
	Chunks   []chunkmap.Coord `json:"chunks"`
}

// handleChunks returns the chunks currently resident around the walker.
func (s *Server) handleChunks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	s.mu.Lock()
	coords := make([]chunkmap.Coord, 0, len(s.resident))
	for coord := range s.resident {
		coords = append(coords, coord)
	}
	tick := s.tick
	center := s.center
	s.mu.Unlock()

	sort.Slice(coords, func(i, j int) bool {
		if coords[i].CZ != coords[j].CZ {
			return coords[i].CZ < coords[j].CZ
		}
		return coords[i].CX < coords[j].CX
	})

	respondWithJSON(w, http.StatusOK, chunksResponse{
		Tick:     tick,
		Center:   center,
		Resident: len(coords),
		Chunks:   coords,
	})
}

// configResponse is the body of a GET /config response. It carries the
// terrain parameters an observer needs to interpret coordinates and
// geometry in the stream, plus the seed so a session can be reproduced.
type configResponse struct {
	Seed           int64   `json:"seed"`
	ChunkSize      float64 `json:"chunk_size"`
	RenderDistance int     `json:"render_distance"`
	GridDivisions  int     `json:"grid_divisions"`
	HeightScale    float64 `json:"height_scale"`
	NoiseScale     float64 `json:"noise_scale"`
}

// handleConfig returns the terrain configuration of the running session.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	respondWithJSON(w, http.StatusOK, configResponse{
		Seed:           s.cfg.Terrain.Seed,
		ChunkSize:      s.cfg.Terrain.ChunkSize,
		RenderDistance: s.cfg.Terrain.RenderDistance,
		GridDivisions:  s.cfg.Terrain.GridDivisions,
		HeightScale:    s.cfg.Terrain.HeightScale,
		NoiseScale:     s.cfg.Terrain.NoiseScale,
	})
}

// respondWithJSON writes a JSON response with the given status code.
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode JSON response: %v", err)
	}
}

// respondWithError writes a JSON error response with the given status code.
func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
