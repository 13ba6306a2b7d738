package repository

import (
	"sync"

	"github.com/harrypotter228/TaskManagement/internal/task/models"
)

// memoryStore keeps values in insertion order. clone is applied on the way
// in and on the way out so no caller shares memory with the store.
type memoryStore[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string
	clone func(T) T
}

func newMemoryStore[T any](clone func(T) T) *memoryStore[T] {
	return &memoryStore[T]{
		items: make(map[string]T),
		clone: clone,
	}
}

func (s *memoryStore[T]) put(id string, v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		s.order = append(s.order, id)
	}
	s.items[id] = s.clone(v)
}

// modify applies fn to a copy of the stored value under the write lock and
// stores the copy unless fn fails. fn must not call back into the store.
func (s *memoryStore[T]) modify(id string, fn func(T) error) (T, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	v, ok := s.items[id]
	if !ok {
		return zero, false, nil
	}
	v = s.clone(v)
	if err := fn(v); err != nil {
		return zero, true, err
	}
	s.items[id] = s.clone(v)
	return v, true, nil
}

func (s *memoryStore[T]) get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.items[id]
	if !ok {
		var zero T
		return zero, false
	}
	return s.clone(v), true
}

func (s *memoryStore[T]) all() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.clone(s.items[id]))
	}
	return out
}

func (s *memoryStore[T]) delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// MemoryTaskStore is the in-memory TaskStore.
type MemoryTaskStore struct {
	store *memoryStore[*models.Task]
}

var _ TaskStore = (*MemoryTaskStore)(nil)

// NewMemoryTaskStore creates an empty task store.
func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{store: newMemoryStore((*models.Task).Clone)}
}

// Create inserts the task, replacing any task with the same id.
func (s *MemoryTaskStore) Create(task *models.Task) *models.Task {
	s.store.put(task.ID, task)
	return task
}

func (s *MemoryTaskStore) Get(id string) (*models.Task, bool) {
	return s.store.get(id)
}

// Update replaces the stored task with the same id.
func (s *MemoryTaskStore) Update(task *models.Task) {
	s.store.put(task.ID, task)
}

// Modify runs fn on a copy of the task and stores the result atomically.
func (s *MemoryTaskStore) Modify(id string, fn func(task *models.Task) error) (*models.Task, error) {
	task, ok, err := s.store.modify(id, fn)
	if !ok {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *MemoryTaskStore) Delete(id string) bool {
	return s.store.delete(id)
}

// MemoryBoardStore is the in-memory BoardStore.
type MemoryBoardStore struct {
	store *memoryStore[*models.Board]
}

var _ BoardStore = (*MemoryBoardStore)(nil)

// NewMemoryBoardStore creates an empty board store.
func NewMemoryBoardStore() *MemoryBoardStore {
	return &MemoryBoardStore{store: newMemoryStore((*models.Board).Clone)}
}

// Create inserts the board, replacing any board with the same id.
func (s *MemoryBoardStore) Create(board *models.Board) *models.Board {
	s.store.put(board.ID, board)
	return board
}

func (s *MemoryBoardStore) Get(id string) (*models.Board, bool) {
	return s.store.get(id)
}

// GetAll returns a snapshot of every board in creation order.
func (s *MemoryBoardStore) GetAll() []*models.Board {
	return s.store.all()
}

func (s *MemoryBoardStore) Update(board *models.Board) {
	s.store.put(board.ID, board)
}
