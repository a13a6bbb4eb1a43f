package jobs

import (
	"sync"
	"time"
)

type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskRunning   TaskStatus = "running"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
)

// Task is one independent unit of work, in this module a single
// selector/classifier pair evaluation. Run must be safe to call from a
// worker goroutine; tasks share no mutable state with each other.
type Task struct {
	ID          string
	Description string
	Status      TaskStatus
	StartTime   time.Time
	EndTime     time.Time
	Err         error
	Run         func() error
	mu          sync.RWMutex
}

func (t *Task) setStatus(status TaskStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Status = status
	switch status {
	case TaskRunning:
		t.StartTime = time.Now()
	case TaskCompleted, TaskFailed:
		t.EndTime = time.Now()
	}
}

func (t *Task) GetStatus() TaskStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.Status
}

func (t *Task) GetError() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.Err
}

// Manager runs tasks on a bounded worker pool. Results land wherever the
// task closures write them; the manager only tracks status and errors.
type Manager struct {
	MaxWorkers int
}

func NewManager(maxWorkers int) *Manager {
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	return &Manager{MaxWorkers: maxWorkers}
}

// RunAll executes every task and blocks until all finish. Task failures are
// recorded on the tasks, not returned, so one failed combination never stops
// the rest of the batch.
func (m *Manager) RunAll(tasks []*Task) {
	workers := m.MaxWorkers
	if workers > len(tasks) {
		workers = len(tasks)
	}
	if workers < 1 {
		return
	}

	queue := make(chan *Task, len(tasks))
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range queue {
				task.setStatus(TaskRunning)
				if err := task.Run(); err != nil {
					task.mu.Lock()
					task.Err = err
					task.mu.Unlock()
					task.setStatus(TaskFailed)
				} else {
					task.setStatus(TaskCompleted)
				}
			}
		}()
	}

	for _, task := range tasks {
		task.Status = TaskPending
		queue <- task
	}
	close(queue)

	wg.Wait()
}
