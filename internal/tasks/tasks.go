package tasks

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/kasaapp/kasa/internal/batch"
	"github.com/kasaapp/kasa/internal/calc"
	"github.com/kasaapp/kasa/internal/services"
	"github.com/kasaapp/kasa/internal/ws"
)

// Manager handles the execution of scheduled tasks
type Manager struct {
	db    *gorm.DB
	wsHub *ws.Hub
	tasks []Task
}

// Task represents a scheduled task that needs to be executed
type Task interface {
	Start()
	Stop()
}

// NewManager creates a new task manager
func NewManager(db *gorm.DB, wsHub *ws.Hub) *Manager {
	return &Manager{
		db:    db,
		wsHub: wsHub,
		tasks: make([]Task, 0),
	}
}

// RegisterTask registers a task with the manager
func (m *Manager) RegisterTask(task Task) {
	m.tasks = append(m.tasks, task)
}

// StartScheduledTasks starts all registered tasks
func (m *Manager) StartScheduledTasks() {
	engine := calc.NewEngine(m.db)

	m.RegisterTask(NewWeddingConversionTask(m.db, m.wsHub))
	m.RegisterTask(NewBucherAssignmentTask(m.db))
	m.RegisterTask(NewStatementTask(m.db, engine, m.wsHub))

	for _, task := range m.tasks {
		go task.Start()
	}

	slog.Info("started all scheduled tasks", "count", len(m.tasks))
}

// StopAllTasks stops all running tasks
func (m *Manager) StopAllTasks() {
	for _, task := range m.tasks {
		task.Stop()
	}
	slog.Info("stopped all scheduled tasks")
}

// WeddingConversionTask converts married members into new families once
// a day
type WeddingConversionTask struct {
	converter *batch.WeddingConverter
	wsHub     *ws.Hub
	stopChan  chan struct{}
	isRunning bool
}

// NewWeddingConversionTask creates a new wedding conversion task
func NewWeddingConversionTask(db *gorm.DB, wsHub *ws.Hub) *WeddingConversionTask {
	return &WeddingConversionTask{
		converter: batch.NewWeddingConverter(db),
		wsHub:     wsHub,
		stopChan:  make(chan struct{}),
	}
}

// Start begins the wedding conversion task
func (t *WeddingConversionTask) Start() {
	if t.isRunning {
		return
	}
	t.isRunning = true

	ticker := time.NewTicker(24 * time.Hour)

	// Run immediately on start
	go t.run()

	go func() {
		for {
			select {
			case <-ticker.C:
				t.run()
			case <-t.stopChan:
				ticker.Stop()
				t.isRunning = false
				return
			}
		}
	}()

	slog.Info("wedding conversion task started")
}

// Stop terminates the wedding conversion task
func (t *WeddingConversionTask) Stop() {
	if !t.isRunning {
		return
	}
	close(t.stopChan)
	slog.Info("wedding conversion task stopped")
}

func (t *WeddingConversionTask) run() {
	result, err := t.converter.Run(context.Background(), time.Now())
	if err != nil {
		slog.Error("wedding conversion failed", "error", err)
		return
	}
	if result.Converted > 0 {
		t.wsHub.Broadcast(ws.EventWeddingsConverted, result)
	}
	slog.Info("wedding conversion completed",
		"eligible", result.Eligible,
		"converted", result.Converted,
		"failed", result.Failed,
	)
}

// BucherAssignmentTask flags members who reached bar mitzvah age for
// individual billing once a day
type BucherAssignmentTask struct {
	memberService services.MemberService
	stopChan      chan struct{}
	isRunning     bool
}

// NewBucherAssignmentTask creates a new plan assignment task
func NewBucherAssignmentTask(db *gorm.DB) *BucherAssignmentTask {
	return &BucherAssignmentTask{
		memberService: services.NewMemberService(db),
		stopChan:      make(chan struct{}),
	}
}

// Start begins the plan assignment task
func (t *BucherAssignmentTask) Start() {
	if t.isRunning {
		return
	}
	t.isRunning = true

	ticker := time.NewTicker(24 * time.Hour)

	go t.run()

	go func() {
		for {
			select {
			case <-ticker.C:
				t.run()
			case <-t.stopChan:
				ticker.Stop()
				t.isRunning = false
				return
			}
		}
	}()

	slog.Info("plan assignment task started")
}

// Stop terminates the plan assignment task
func (t *BucherAssignmentTask) Stop() {
	if !t.isRunning {
		return
	}
	close(t.stopChan)
	slog.Info("plan assignment task stopped")
}

func (t *BucherAssignmentTask) run() {
	assigned, err := t.memberService.AssignBucherPlans(time.Now())
	if err != nil {
		slog.Error("plan assignment failed", "error", err)
		return
	}
	if assigned > 0 {
		slog.Info("plan assignment completed", "assigned", assigned)
	}
}

// StatementTask generates the previous month's statements on the first
// day of each month
type StatementTask struct {
	generator *batch.StatementGenerator
	wsHub     *ws.Hub
	stopChan  chan struct{}
	isRunning bool
}

// NewStatementTask creates a new statement generation task
func NewStatementTask(db *gorm.DB, engine *calc.Engine, wsHub *ws.Hub) *StatementTask {
	return &StatementTask{
		generator: batch.NewStatementGenerator(db, engine),
		wsHub:     wsHub,
		stopChan:  make(chan struct{}),
	}
}

// Start begins the statement generation task
func (t *StatementTask) Start() {
	if t.isRunning {
		return
	}
	t.isRunning = true

	ticker := time.NewTicker(24 * time.Hour)

	go func() {
		for {
			select {
			case <-ticker.C:
				now := time.Now()
				if now.Day() == 1 {
					t.run(now)
				}
			case <-t.stopChan:
				ticker.Stop()
				t.isRunning = false
				return
			}
		}
	}()

	slog.Info("statement generation task started")
}

// Stop terminates the statement generation task
func (t *StatementTask) Stop() {
	if !t.isRunning {
		return
	}
	close(t.stopChan)
	slog.Info("statement generation task stopped")
}

func (t *StatementTask) run(now time.Time) {
	// Generate for the month that just ended
	previous := now.AddDate(0, -1, 0)
	year, month := previous.Year(), int(previous.Month())

	result, err := t.generator.Run(context.Background(), year, month)
	if err != nil {
		slog.Error("statement generation failed", "year", year, "month", month, "error", err)
		return
	}

	t.wsHub.Broadcast(ws.EventStatementsGenerated, map[string]interface{}{
		"year":  year,
		"month": month,
	})
	slog.Info("statement generation completed",
		"year", year,
		"month", month,
		"generated", result.Generated,
		"skipped", result.Skipped,
		"failed", len(result.Errors),
	)
}
