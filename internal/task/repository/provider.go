package repository

// Stores bundles the in-memory stores and indices shared by the services.
type Stores struct {
	Tasks     *MemoryTaskStore
	Boards    *MemoryBoardStore
	Links     *MemoryBoardTaskIndex
	Favorites *MemoryFavoriteIndex
}

// Provide creates empty stores. They live for the lifetime of the process.
func Provide() *Stores {
	return &Stores{
		Tasks:     NewMemoryTaskStore(),
		Boards:    NewMemoryBoardStore(),
		Links:     NewMemoryBoardTaskIndex(),
		Favorites: NewMemoryFavoriteIndex(),
	}
}
