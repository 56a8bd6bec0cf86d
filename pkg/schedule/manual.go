package schedule

import (
	"sort"
	"sync"
	"time"
)

// Manual is a deterministic Scheduler driven by Advance. Tests use it to step
// through delayed callbacks without sleeping.
type Manual struct {
	mu    sync.Mutex
	now   time.Duration
	seq   uint64
	tasks []*manualTask
}

type manualTask struct {
	at       time.Duration
	seq      uint64
	fn       func()
}

// NewManual returns a Manual scheduler at time zero.
func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) Schedule(delay time.Duration, fn func()) Cancel {
	if delay < 0 {
		delay = 0
	}
	m.mu.Lock()
	m.seq++
	task := &manualTask{at: m.now + delay, seq: m.seq, fn: fn}
	m.tasks = append(m.tasks, task)
	m.mu.Unlock()

	return func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, t := range m.tasks {
			if t == task {
				m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
				return true
			}
		}
		return false
	}
}

// Advance moves the clock forward by d and runs every callback that came due,
// in due order. Callbacks run without the lock held and may schedule more.
func (m *Manual) Advance(d time.Duration) int {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	ran := 0
	for {
		m.mu.Lock()
		sort.SliceStable(m.tasks, func(i, j int) bool {
			if m.tasks[i].at == m.tasks[j].at {
				return m.tasks[i].seq < m.tasks[j].seq
			}
			return m.tasks[i].at < m.tasks[j].at
		})
		if len(m.tasks) == 0 || m.tasks[0].at > target {
			m.now = target
			m.mu.Unlock()
			return ran
		}
		task := m.tasks[0]
		m.tasks = m.tasks[1:]
		m.now = task.at
		m.mu.Unlock()

		task.fn()
		ran++
	}
}

// Pending returns the number of callbacks that have not run or been canceled.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// Now returns the manual clock position.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}
