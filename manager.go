package queuectl

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/aidarkhanov/queuectl/heartbeat"
	"github.com/aidarkhanov/queuectl/internal"
	"github.com/aidarkhanov/queuectl/store"
)

// ManagerConfig configures a Manager's pool of Workers and its background
// reaper.
type ManagerConfig struct {
	WorkerCount int
	Worker      WorkerConfig

	ReapInterval time.Duration
	ReapMaxAge   time.Duration

	// StopFlagWatcher, if non-nil, is called once from Start with the
	// run context and the shutdown function; calling shutdown (for
	// example when a stop-flag file appears) triggers the same graceful
	// shutdown as SIGINT/SIGTERM. See package stopflag.
	StopFlagWatcher func(ctx context.Context, shutdown context.CancelFunc)

	// HeartbeatPath, if non-empty, is touched on HeartbeatInterval for as
	// long as the pool is running and removed on clean shutdown; the
	// status command reads it to report worker liveness. A zero
	// HeartbeatInterval defaults to one second.
	HeartbeatPath     string
	HeartbeatInterval time.Duration
}

// Manager owns a fixed-size pool of Workers plus a ReapWorker, and
// translates OS signals, an optional stop-flag watcher, and explicit
// Stop calls into one monotone shutdown: once triggered, shutdown never
// reverses, and every Worker observes it at a safe point (between jobs,
// or during its poll sleep) rather than mid-execution.
type Manager struct {
	lcBase

	store store.Store
	clock Clock
	cfg   ManagerConfig
	log   *slog.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	reaper    *ReapWorker
	heartbeat *internal.TimerTask

	sigStop chan os.Signal
	done    internal.DoneChan
}

// NewManager builds a Manager. Workers are not started until Start is
// called.
func NewManager(st store.Store, clock Clock, cfg ManagerConfig, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	if clock == nil {
		clock = NewRealClock()
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 1
	}
	return &Manager{
		store: st,
		clock: clock,
		cfg:   cfg,
		log:   log.With("component", "manager"),
	}
}

// Start launches cfg.WorkerCount Workers and the reaper, and begins
// listening for SIGINT/SIGTERM. It returns ErrDoubleStarted if already
// running.
func (m *Manager) Start(ctx context.Context) error {
	if err := m.tryStart(); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	executor := NewExecutor()
	for i := 0; i < m.cfg.WorkerCount; i++ {
		id := workerID(i)
		w := NewWorker(id, m.store, executor, m.clock, m.cfg.Worker, m.log)
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			w.Run(runCtx)
		}()
	}

	if m.cfg.ReapInterval > 0 {
		m.reaper = NewReapWorker(m.store, m.cfg.ReapInterval, m.cfg.ReapMaxAge, m.clock, m.log)
		if err := m.reaper.Start(runCtx); err != nil {
			m.log.Error("reaper failed to start", "err", err)
		}
	}

	if m.cfg.HeartbeatPath != "" {
		interval := m.cfg.HeartbeatInterval
		if interval <= 0 {
			interval = time.Second
		}
		m.heartbeat = heartbeat.Watch(runCtx, m.cfg.HeartbeatPath, interval)
	}

	m.sigStop = make(chan os.Signal, 1)
	signal.Notify(m.sigStop, os.Interrupt, syscall.SIGTERM)
	workersDone := internal.WrapWaitGroup(&m.wg)
	m.done = make(internal.DoneChan)
	go m.awaitShutdown(runCtx, workersDone)

	if m.cfg.StopFlagWatcher != nil {
		m.cfg.StopFlagWatcher(runCtx, cancel)
	}

	return nil
}

func workerID(i int) string {
	return "worker-" + strconv.Itoa(i)
}

func (m *Manager) awaitShutdown(ctx context.Context, workersDone internal.DoneChan) {
	defer close(m.done)
	select {
	case <-m.sigStop:
		m.log.Info("shutdown signal received")
	case <-ctx.Done():
	}
	m.cancel()
	<-workersDone
	if m.reaper != nil {
		if err := m.reaper.Stop(5 * time.Second); err != nil && !errors.Is(err, ErrDoubleStopped) {
			m.log.Error("reaper stop failed", "err", err)
		}
	}
	if m.heartbeat != nil {
		<-m.heartbeat.Stop()
		if err := heartbeat.Remove(m.cfg.HeartbeatPath); err != nil {
			m.log.Error("heartbeat cleanup failed", "err", err)
		}
	}
}

// Wait blocks until shutdown has been triggered (by a signal, the
// stop-flag watcher, or an explicit Stop call from another goroutine)
// and every Worker and the reaper have exited. It is the call a
// long-running "worker start" command makes after Start to block for
// the process's lifetime.
func (m *Manager) Wait() {
	<-m.done
}

// Stop triggers shutdown if not already in progress and blocks until
// every Worker and the reaper have exited or timeout elapses.
func (m *Manager) Stop(timeout time.Duration) error {
	return m.tryStop(timeout, func() internal.DoneChan {
		signal.Stop(m.sigStop)
		m.cancel()
		return m.done
	})
}
