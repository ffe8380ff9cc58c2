package monitor

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultInterval = 30 * time.Second
	logCapacity     = 8
)

var (
	logLevels  = []string{"info", "success", "warning"}
	logActions = []string{
		"User login", "Order placed", "Product updated", "Weather alert sent",
		"User registered", "Database backup", "Security scan", "Price update",
	}
)

// Snapshot is one sample of the platform figures shown on the admin board.
// The numbers are placeholders and have no relation to stored data.
type Snapshot struct {
	OnlineUsers int        `json:"onlineUsers"`
	ServerLoad  int        `json:"serverLoad"`
	DailyOrders int        `json:"dailyOrders"`
	StorageUsed int        `json:"storageUsed"`
	Logs        []LogEntry `json:"logs"`
	TakenAt     time.Time  `json:"takenAt"`
}

type LogEntry struct {
	Time    time.Time `json:"time"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
}

type Monitor struct {
	interval time.Duration
	publish  func(Snapshot)
	now      func() time.Time

	mu       sync.RWMutex
	rng      *rand.Rand
	snapshot Snapshot
}

// New builds a monitor with a first sample already taken. publish is called
// with every later sample and may be nil.
func New(interval time.Duration, rng *rand.Rand, publish func(Snapshot)) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	m := &Monitor{
		interval: interval,
		publish:  publish,
		now:      func() time.Time { return time.Now().UTC() },
		rng:      rng,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	logs := make([]LogEntry, 0, logCapacity)
	for i := 0; i < logCapacity; i++ {
		logs = append(logs, m.logEntry(now.Add(-time.Duration(i)*30*time.Minute)))
	}
	m.snapshot = m.sample(now, logs)
	return m
}

func (m *Monitor) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.copySnapshot()
}

// Tick takes a new sample, prepends one log entry and publishes the result.
func (m *Monitor) Tick() Snapshot {
	m.mu.Lock()
	now := m.now()
	logs := append([]LogEntry{m.logEntry(now)}, m.snapshot.Logs...)
	if len(logs) > logCapacity {
		logs = logs[:logCapacity]
	}
	m.snapshot = m.sample(now, logs)
	snapshot := m.copySnapshot()
	m.mu.Unlock()

	if m.publish != nil {
		m.publish(snapshot)
	}
	return snapshot
}

// Run samples every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	log.WithField("interval", m.interval.String()).Info("monitor started")
	for {
		select {
		case <-ticker.C:
			m.Tick()
		case <-ctx.Done():
			log.Info("monitor stopped")
			return
		}
	}
}

func (m *Monitor) sample(now time.Time, logs []LogEntry) Snapshot {
	return Snapshot{
		OnlineUsers: m.rng.IntN(30) + 10,
		ServerLoad:  m.rng.IntN(60) + 20,
		DailyOrders: m.rng.IntN(15) + 5,
		StorageUsed: m.rng.IntN(30) + 60,
		Logs:        logs,
		TakenAt:     now,
	}
}

func (m *Monitor) logEntry(at time.Time) LogEntry {
	outcome := "completed"
	if m.rng.IntN(2) == 0 {
		outcome = "successfully"
	}
	return LogEntry{
		Time:    at,
		Level:   logLevels[m.rng.IntN(len(logLevels))],
		Message: fmt.Sprintf("%s %s", logActions[m.rng.IntN(len(logActions))], outcome),
	}
}

func (m *Monitor) copySnapshot() Snapshot {
	s := m.snapshot
	s.Logs = append([]LogEntry(nil), m.snapshot.Logs...)
	return s
}
