// Package events lists the event subjects published by the domain services.
package events

// Event types for boards
const (
	BoardCreated         = "board.created"
	BoardStatusesUpdated = "board.statuses_updated"
)

// Event types for tasks
const (
	TaskCreated       = "task.created"
	TaskUpdated       = "task.updated"
	TaskStatusChanged = "task.status_changed"
	TaskDeleted       = "task.deleted"
	TaskUnlinked      = "task.unlinked" // removed from one board by a bulk delete
)

// Event types for attachments
const (
	AttachmentAdded   = "attachment.added"
	AttachmentDeleted = "attachment.deleted"
)

// Event types for favorites
const (
	FavoriteAdded   = "favorite.added"
	FavoriteRemoved = "favorite.removed"
)

// Wildcard subjects covering each family.
const (
	AllBoardEvents      = "board.>"
	AllTaskEvents       = "task.>"
	AllAttachmentEvents = "attachment.>"
	AllFavoriteEvents   = "favorite.>"
)

// BoardScoped returns the families whose events carry a board_id. Favorite
// events are per user and are not among them.
func BoardScoped() []string {
	return []string{AllBoardEvents, AllTaskEvents, AllAttachmentEvents}
}
