package pipe

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/proxsearch/internal/core/domain"
	"github.com/custodia-labs/proxsearch/internal/core/ports/driving"
	"github.com/custodia-labs/proxsearch/internal/logger"
)

// MaxLineSize bounds a single input line.
const MaxLineSize = 16 << 20

// Server reads envelopes, hands them to a Host and writes the replies.
type Server struct {
	mu    sync.Mutex
	out   io.Writer
	newID func() string
}

// NewServer creates a server writing replies to out.
func NewServer(out io.Writer) *Server {
	return &Server{out: out, newID: uuid.NewString}
}

// Emit writes one message as a JSON line. It is the host's Emitter and is
// safe for concurrent use.
func (s *Server) Emit(msg domain.Message) {
	line, err := Encode(msg)
	if err != nil {
		logger.Warn("Dropping %T: %v", msg, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.out.Write(append(line, '\n')); err != nil {
		logger.Warn("Write reply: %v", err)
	}
}

// Serve handles lines from in until EOF or until ctx is cancelled.
// Blank lines are skipped.
func (s *Server) Serve(ctx context.Context, host driving.Host, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)

	lines := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		lines++

		msg, id, err := Decode(line)
		if err != nil {
			logger.Debug("Rejecting line %d: %v", lines, err)
			s.Emit(domain.SearchError{
				ID:        s.newID(),
				RequestID: id,
				Message:   err.Error(),
				Code:      domain.ErrorCode(err),
			})
			continue
		}
		host.Handle(ctx, msg)
	}

	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return fmt.Errorf("%w: line longer than %d bytes", domain.ErrInvalidInput, MaxLineSize)
		}
		return fmt.Errorf("read input: %w", err)
	}
	logger.Debug("Input closed after %d messages", lines)
	return nil
}
