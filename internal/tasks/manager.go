package tasks

import (
	"sync"
	"time"
)

const MaxLogsPerTask = 1000

type Manager struct {
	tasks sync.Map
	done  chan struct{}
	once  sync.Once
}

func NewManager() *Manager {
	return &Manager{
		done: make(chan struct{}),
	}
}

// Register adds a task and, for a positive interval, schedules it to run
// periodically until the manager is closed.
func (m *Manager) Register(name string, interval time.Duration, fn TaskFunc) {
	task := &RunnableTask{
		Name:         name,
		Interval:     interval,
		Handler:      fn,
		Logs:         make([]LogEntry, 0),
		registeredAt: time.Now(),
	}
	m.tasks.Store(name, task)

	if interval > 0 {
		go m.scheduler(task)
	}
}

// Trigger runs a task once, out of schedule.
func (m *Manager) Trigger(name string) error {
	t, ok := m.tasks.Load(name)
	if !ok {
		return TaskNotFoundError{Name: name}
	}
	task := t.(*RunnableTask)
	go task.Run()
	return nil
}

func (m *Manager) ListStatus() []TaskStatus {
	var list []TaskStatus
	m.tasks.Range(func(key, value any) bool {
		task := value.(*RunnableTask)
		list = append(list, task.Status())
		return true
	})
	return list
}

func (m *Manager) GetLogs(name string) ([]LogEntry, error) {
	t, ok := m.tasks.Load(name)
	if !ok {
		return nil, TaskNotFoundError{Name: name}
	}
	task := t.(*RunnableTask)
	return task.GetLogs(), nil
}

// Close stops all schedulers. Running tasks finish their current run.
func (m *Manager) Close() {
	m.once.Do(func() {
		close(m.done)
	})
}

func (m *Manager) scheduler(task *RunnableTask) {
	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			task.Run()
		case <-m.done:
			return
		}
	}
}
