// Package seed fills an empty board store with demo data on startup.
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/harrypotter228/TaskManagement/internal/common/config"
	"github.com/harrypotter228/TaskManagement/internal/common/logger"
	"github.com/harrypotter228/TaskManagement/internal/task/models"
	"github.com/harrypotter228/TaskManagement/internal/task/service"
)

// DefaultBoardNames are the boards created when no seed file is configured.
var DefaultBoardNames = []string{"Development Board", "QA Board", "Staging Board", "Sprint 125 Board"}

// File is the YAML seed document.
type File struct {
	Boards []Board `yaml:"boards"`
}

// Board describes one seeded board. Empty Statuses means every status.
type Board struct {
	Name     string   `yaml:"name"`
	Statuses []string `yaml:"statuses"`
	Tasks    []Task   `yaml:"tasks"`
}

// Task describes one seeded task. Status defaults to ToDo.
type Task struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Deadline    string `yaml:"deadline"`
	Status      string `yaml:"status"`
}

// Default returns the built-in demo boards.
func Default() *File {
	f := &File{Boards: make([]Board, 0, len(DefaultBoardNames))}
	for _, name := range DefaultBoardNames {
		f.Boards = append(f.Boards, Board{Name: name})
	}
	return f
}

// Parse decodes a seed document. Unknown keys are rejected; an empty document
// seeds nothing.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	for i, b := range f.Boards {
		if strings.TrimSpace(b.Name) == "" {
			return nil, fmt.Errorf("parse seed file: board %d has no name", i)
		}
	}
	return &f, nil
}

// Load reads and parses the seed file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// BoardCreator is the part of the board service the seeder needs.
type BoardCreator interface {
	ListBoards(ctx context.Context) []*models.Board
	CreateBoard(ctx context.Context, name string, statuses []string) (*models.Board, error)
}

// TaskCreator is the part of the task service the seeder needs.
type TaskCreator interface {
	CreateTask(ctx context.Context, boardID string, req *service.CreateTaskRequest) (*service.TaskView, error)
	ChangeTaskStatus(ctx context.Context, boardID, taskID, status, userID string) (*service.TaskView, error)
}

// Seeder creates seed boards and tasks through the domain services.
type Seeder struct {
	boards BoardCreator
	tasks  TaskCreator
	logger *logger.Logger
}

// NewSeeder creates a seeder.
func NewSeeder(boards BoardCreator, tasks TaskCreator, log *logger.Logger) *Seeder {
	return &Seeder{
		boards: boards,
		tasks:  tasks,
		logger: log.WithFields(zap.String("component", "seed")),
	}
}

// Run seeds when enabled and the store holds no boards. It returns the number
// of boards created.
func (s *Seeder) Run(ctx context.Context, cfg config.SeedConfig) (int, error) {
	if !cfg.Enabled {
		return 0, nil
	}
	if existing := s.boards.ListBoards(ctx); len(existing) > 0 {
		s.logger.Debug("boards already present, skipping seed", zap.Int("boards", len(existing)))
		return 0, nil
	}

	f := Default()
	if path := strings.TrimSpace(cfg.File); path != "" {
		loaded, err := Load(path)
		if err != nil {
			return 0, err
		}
		f = loaded
	}
	return s.Apply(ctx, f)
}

// Apply creates every board and task in f, stopping at the first failure.
func (s *Seeder) Apply(ctx context.Context, f *File) (int, error) {
	created := 0
	for _, b := range f.Boards {
		statuses := b.Statuses
		if len(statuses) == 0 {
			for _, st := range models.AllStatuses() {
				statuses = append(statuses, string(st))
			}
		}
		board, err := s.boards.CreateBoard(ctx, b.Name, statuses)
		if err != nil {
			return created, fmt.Errorf("seed board %q: %w", b.Name, err)
		}
		created++

		for _, t := range b.Tasks {
			if err := s.createTask(ctx, board.ID, t); err != nil {
				return created, fmt.Errorf("seed task %q on board %q: %w", t.Name, b.Name, err)
			}
		}
		s.logger.Info("seeded board",
			zap.String("board_id", board.ID),
			zap.String("name", board.Name),
			zap.Int("tasks", len(b.Tasks)))
	}
	return created, nil
}

func (s *Seeder) createTask(ctx context.Context, boardID string, t Task) error {
	view, err := s.tasks.CreateTask(ctx, boardID, &service.CreateTaskRequest{
		Name:        t.Name,
		Description: t.Description,
		Deadline:    t.Deadline,
	})
	if err != nil {
		return err
	}
	if strings.TrimSpace(t.Status) == "" {
		return nil
	}
	_, err = s.tasks.ChangeTaskStatus(ctx, boardID, view.Task.ID, t.Status, "")
	return err
}
