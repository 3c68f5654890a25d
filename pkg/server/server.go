package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/topserve/internal/logger"
	"github.com/bastiangx/topserve/pkg/config"
	"github.com/bastiangx/topserve/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the IPC for sentence completions
type Server struct {
	completer    suggest.ICompleter
	decoder      *msgpack.Decoder
	writer       *bufio.Writer
	encoder      *msgpack.Encoder
	logger       *log.Logger
	mu           sync.RWMutex
	config       config.Config
	configPath   string
	requestCount int
}

// NewServer creates a completion server reading requests from r and writing responses to w
func NewServer(completer suggest.ICompleter, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	bw := bufio.NewWriter(w)
	return &Server{
		completer: completer,
		decoder:   msgpack.NewDecoder(bufio.NewReader(r)),
		writer:    bw,
		encoder:   msgpack.NewEncoder(bw),
		logger:    logger.New("ipc"),
		config:    *cfg,
	}
}

// SetLogger replaces the server's logger
func (s *Server) SetLogger(l *log.Logger) {
	s.logger = l
}

// SetConfigPath sets the file config actions are saved to.
// Without one, config actions only change the running server.
func (s *Server) SetConfigPath(path string) {
	s.mu.Lock()
	s.configPath = path
	s.mu.Unlock()
}

// UpdateConfig swaps the prompt limits; safe to call while Start runs
func (s *Server) UpdateConfig(cfg *config.Config) {
	s.mu.Lock()
	s.config = *cfg
	s.mu.Unlock()
	s.logger.Debug("Server limits updated", "minPrompt", cfg.Server.MinPrompt, "maxPrompt", cfg.Server.MaxPrompt)
}

func (s *Server) currentLimits() config.ServerConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.Server
}

// Start announces readiness and serves requests until the input ends
func (s *Server) Start() error {
	s.logger.Debug("Starting Server.")

	if err := s.send(StatusResponse{Status: "ready"}); err != nil {
		return err
	}

	for {
		raw, err := s.decoder.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debug("Input closed, stopping", "requests", s.requestCount)
				return nil
			}
			s.logger.Errorf("Reading request: %v", err)
			return err
		}
		s.requestCount++

		var request Request
		if err := msgpack.Unmarshal(raw, &request); err != nil {
			s.logger.Errorf("Unmarshaling request: %v", err)
			if err := s.sendError("", "Invalid msgpack request", 400); err != nil {
				return err
			}
			continue
		}
		if err := s.handleRequest(request); err != nil {
			return err
		}
	}
}

// handleRequest dispatches on the request action
func (s *Server) handleRequest(request Request) error {
	switch request.Action {
	case "", ActionComplete:
		return s.handleComplete(request)
	case ActionStats:
		return s.send(StatsResponse{ID: request.ID, Status: "ok", Stats: s.completer.Stats()})
	case ActionHealth:
		return s.send(StatusResponse{ID: request.ID, Status: "ok"})
	case ActionConfig:
		return s.handleConfig(request)
	default:
		return s.sendError(request.ID, fmt.Sprintf("Unknown action: %s", request.Action), 400)
	}
}

// handleComplete validates the prompt length, asks the completer and replies
func (s *Server) handleComplete(request Request) error {
	prompt := request.Prompt
	limits := s.currentLimits()
	length := utf8.RuneCountInString(prompt)

	if length < limits.MinPrompt {
		s.logger.Debug("Prompt is too short", "id", request.ID, "length", length)
		return s.sendError(request.ID, fmt.Sprintf("Prompt must be at least %d characters", limits.MinPrompt), 400)
	}
	if limits.MaxPrompt > 0 && length > limits.MaxPrompt {
		s.logger.Debug("Prompt is too long", "id", request.ID, "length", length)
		return s.sendError(request.ID, fmt.Sprintf("Prompt exceeds maximum length of %d characters", limits.MaxPrompt), 400)
	}

	start := time.Now()
	best, found, err := s.completer.Best(prompt)
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(err, suggest.ErrInvalidSymbol) {
			return s.sendError(request.ID, err.Error(), 400)
		}
		s.logger.Errorf("Completing %q: %v", prompt, err)
		return s.sendError(request.ID, "Internal server error", 500)
	}

	s.logger.Debugf("Completed '%s' -> '%s' (found=%v) in %v", prompt, best.Sentence, found, elapsed)
	return s.send(CompletionResponse{
		ID:        request.ID,
		Sentence:  best.Sentence,
		Count:     best.Count,
		Found:     found,
		TimeTaken: elapsed.Microseconds(),
	})
}

// handleConfig applies new prompt limits, persists them and replies with the result
func (s *Server) handleConfig(request Request) error {
	s.mu.RLock()
	updated := s.config
	path := s.configPath
	s.mu.RUnlock()

	if err := updated.Update(path, request.MinPrompt, request.MaxPrompt, request.Reload); err != nil {
		s.logger.Warnf("Rejected config update: %v", err)
		return s.sendError(request.ID, err.Error(), 400)
	}
	s.UpdateConfig(&updated)

	limits := updated.Server
	return s.send(ConfigResponse{
		ID:        request.ID,
		Status:    "ok",
		MinPrompt: limits.MinPrompt,
		MaxPrompt: limits.MaxPrompt,
		Reload:    limits.Reload,
	})
}

// send encodes one response and flushes it to the client
func (s *Server) send(response any) error {
	if err := s.encoder.Encode(response); err != nil {
		s.logger.Errorf("Marshaling response: %v", err)
		return err
	}
	return s.writer.Flush()
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) error {
	return s.send(CompletionError{
		ID:    id,
		Error: message,
		Code:  code,
	})
}
