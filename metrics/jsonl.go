package metrics

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/aidarkhanov/queuectl/internal"
)

// JSONLSink appends line-delimited JSON records to a writer — a file or
// a UDP connection — using a bounded internal.WorkerPool so a slow or
// blocked destination never stalls the worker loop that calls Emit.
type JSONLSink struct {
	pool *internal.WorkerPool[Event]
	w    io.WriteCloser
	log  *slog.Logger
}

// NewFileSink opens (creating if necessary) path in append mode and
// returns a JSONLSink writing to it.
func NewFileSink(path string, log *slog.Logger) (*JSONLSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return newJSONLSink(f, log), nil
}

// NewUDPSink dials addr over UDP and returns a JSONLSink writing one
// datagram per event.
func NewUDPSink(addr string, log *slog.Logger) (*JSONLSink, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, err
	}
	return newJSONLSink(conn, log), nil
}

func newJSONLSink(w io.WriteCloser, log *slog.Logger) *JSONLSink {
	if log == nil {
		log = slog.Default()
	}
	s := &JSONLSink{
		pool: internal.NewWorkerPool[Event](1, 256, log),
		w:    w,
		log:  log.With("component", "metrics"),
	}
	s.pool.Start(context.Background(), s.write)
	return s
}

func (s *JSONLSink) write(_ context.Context, ev Event) {
	line, err := json.Marshal(ev)
	if err != nil {
		s.log.Error("marshal failed", "err", err)
		return
	}
	line = append(line, '\n')
	if _, err := s.w.Write(line); err != nil {
		s.log.Error("write failed", "err", err)
	}
}

// Emit queues ev for the background writer; it never blocks on I/O.
func (s *JSONLSink) Emit(event, jobID, status string) {
	s.pool.Push(Event{Timestamp: time.Now().UTC(), Event: event, JobID: jobID, Status: status})
}

// Close stops the background writer and closes the underlying stream.
func (s *JSONLSink) Close() error {
	<-s.pool.Stop()
	return s.w.Close()
}
