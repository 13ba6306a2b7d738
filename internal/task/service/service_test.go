package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harrypotter228/TaskManagement/internal/common/config"
	"github.com/harrypotter228/TaskManagement/internal/common/logger"
	"github.com/harrypotter228/TaskManagement/internal/events/bus"
	"github.com/harrypotter228/TaskManagement/internal/task/models"
	"github.com/harrypotter228/TaskManagement/internal/task/repository"
)

// MockEventBus implements bus.EventBus for testing
type MockEventBus struct {
	mu              sync.Mutex
	publishedEvents []*bus.Event
	closed          bool
}

func NewMockEventBus() *MockEventBus {
	return &MockEventBus{publishedEvents: make([]*bus.Event, 0)}
}

func (m *MockEventBus) Publish(ctx context.Context, subject string, event *bus.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publishedEvents = append(m.publishedEvents, event)
	return nil
}

func (m *MockEventBus) Subscribe(subject string, handler bus.EventHandler) (bus.Subscription, error) {
	return nil, nil
}

func (m *MockEventBus) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

func (m *MockEventBus) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.closed
}

func (m *MockEventBus) GetPublishedEvents() []*bus.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*bus.Event(nil), m.publishedEvents...)
}

// EventTypes returns the types of the published events in order.
func (m *MockEventBus) EventTypes() []string {
	events := m.GetPublishedEvents()
	types := make([]string, len(events))
	for i, e := range events {
		types[i] = e.Type
	}
	return types
}

func (m *MockEventBus) ClearEvents() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publishedEvents = make([]*bus.Event, 0)
}

type testServices struct {
	boards      *BoardService
	tasks       *TaskService
	attachments *AttachmentService
	favorites   *FavoriteService
	stores      *repository.Stores
	eventBus    *MockEventBus
	webRoot     string
}

func createTestServices(t *testing.T) *testServices {
	t.Helper()
	stores := repository.Provide()
	eventBus := NewMockEventBus()
	log := logger.NewNop()
	webRoot := t.TempDir()

	attachmentsCfg := config.AttachmentsConfig{
		MaxFileSizeBytes:  config.DefaultMaxFileSizeBytes,
		MaxFileNameLength: config.DefaultMaxFileNameLength,
		AllowedMimeTypes:  config.DefaultAllowedMimeTypes,
		UploadsPath:       config.DefaultUploadsPath,
		WebRoot:           webRoot,
	}
	return &testServices{
		boards:      NewBoardService(stores.Boards, eventBus, log),
		tasks:       NewTaskService(stores.Tasks, stores.Links, stores.Favorites, eventBus, log),
		attachments: NewAttachmentService(stores.Boards, stores.Tasks, stores.Links, attachmentsCfg, eventBus, log),
		favorites:   NewFavoriteService(stores.Tasks, stores.Favorites, eventBus, log),
		stores:      stores,
		eventBus:    eventBus,
		webRoot:     webRoot,
	}
}

func (ts *testServices) createBoard(t *testing.T, name string) *models.Board {
	t.Helper()
	board, err := ts.boards.CreateBoard(context.Background(), name, []string{"ToDo", "InProgress", "Done"})
	require.NoError(t, err)
	return board
}

func (ts *testServices) createTask(t *testing.T, boardID, name string) *models.Task {
	t.Helper()
	view, err := ts.tasks.CreateTask(context.Background(), boardID, &CreateTaskRequest{Name: name})
	require.NoError(t, err)
	return view.Task
}
