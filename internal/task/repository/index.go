package repository

import (
	"sort"
	"sync"
)

type idSet map[string]struct{}

func (s idSet) sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// MemoryBoardTaskIndex keeps board→tasks and task→boards in two maps guarded
// by a single mutex, so a reader never sees one direction without the other.
type MemoryBoardTaskIndex struct {
	mu           sync.RWMutex
	boardToTasks map[string]idSet
	taskToBoards map[string]idSet
}

var _ BoardTaskIndex = (*MemoryBoardTaskIndex)(nil)

// NewMemoryBoardTaskIndex creates an empty index.
func NewMemoryBoardTaskIndex() *MemoryBoardTaskIndex {
	return &MemoryBoardTaskIndex{
		boardToTasks: make(map[string]idSet),
		taskToBoards: make(map[string]idSet),
	}
}

func (x *MemoryBoardTaskIndex) Add(boardID, taskID string) {
	x.mu.Lock()
	defer x.mu.Unlock()

	link(x.boardToTasks, boardID, taskID)
	link(x.taskToBoards, taskID, boardID)
}

func (x *MemoryBoardTaskIndex) Remove(boardID, taskID string) bool {
	x.mu.Lock()
	defer x.mu.Unlock()

	existed := unlink(x.boardToTasks, boardID, taskID)
	unlink(x.taskToBoards, taskID, boardID)
	return existed
}

func (x *MemoryBoardTaskIndex) RemoveTask(taskID string) []string {
	x.mu.Lock()
	defer x.mu.Unlock()

	boards := x.taskToBoards[taskID]
	delete(x.taskToBoards, taskID)
	for boardID := range boards {
		unlink(x.boardToTasks, boardID, taskID)
	}
	return boards.sorted()
}

func (x *MemoryBoardTaskIndex) Exists(boardID, taskID string) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()

	_, ok := x.boardToTasks[boardID][taskID]
	return ok
}

// GetTaskIDs returns the tasks linked to the board, empty for unknown boards.
func (x *MemoryBoardTaskIndex) GetTaskIDs(boardID string) []string {
	x.mu.RLock()
	defer x.mu.RUnlock()

	return x.boardToTasks[boardID].sorted()
}

// GetBoardIDs returns the boards the task is linked to.
func (x *MemoryBoardTaskIndex) GetBoardIDs(taskID string) []string {
	x.mu.RLock()
	defer x.mu.RUnlock()

	return x.taskToBoards[taskID].sorted()
}

func link(m map[string]idSet, from, to string) {
	set, ok := m[from]
	if !ok {
		set = make(idSet)
		m[from] = set
	}
	set[to] = struct{}{}
}

func unlink(m map[string]idSet, from, to string) bool {
	set, ok := m[from]
	if !ok {
		return false
	}
	if _, ok := set[to]; !ok {
		return false
	}
	delete(set, to)
	if len(set) == 0 {
		delete(m, from)
	}
	return true
}

// MemoryFavoriteIndex is the in-memory FavoriteIndex.
type MemoryFavoriteIndex struct {
	mu     sync.RWMutex
	byUser map[string]idSet
}

var _ FavoriteIndex = (*MemoryFavoriteIndex)(nil)

// NewMemoryFavoriteIndex creates an empty favorite index.
func NewMemoryFavoriteIndex() *MemoryFavoriteIndex {
	return &MemoryFavoriteIndex{byUser: make(map[string]idSet)}
}

func (f *MemoryFavoriteIndex) Favorite(userID, taskID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	link(f.byUser, userID, taskID)
}

func (f *MemoryFavoriteIndex) Unfavorite(userID, taskID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	unlink(f.byUser, userID, taskID)
}

func (f *MemoryFavoriteIndex) IsFavorite(userID, taskID string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.byUser[userID][taskID]
	return ok
}

func (f *MemoryFavoriteIndex) TaskIDs(userID string) []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.byUser[userID].sorted()
}

func (f *MemoryFavoriteIndex) ForgetTask(taskID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for userID := range f.byUser {
		unlink(f.byUser, userID, taskID)
	}
}
