package main

import (
	"github.com/harrypotter228/TaskManagement/internal/common/config"
	"github.com/harrypotter228/TaskManagement/internal/common/logger"
	"github.com/harrypotter228/TaskManagement/internal/events/bus"
	taskcontroller "github.com/harrypotter228/TaskManagement/internal/task/controller"
	"github.com/harrypotter228/TaskManagement/internal/task/repository"
	taskservice "github.com/harrypotter228/TaskManagement/internal/task/service"
)

// Services groups the domain services sharing one set of stores.
type Services struct {
	Boards      *taskservice.BoardService
	Tasks       *taskservice.TaskService
	Attachments *taskservice.AttachmentService
	Favorites   *taskservice.FavoriteService
}

func provideServices(cfg *config.Config, stores *repository.Stores, eventBus bus.EventBus, log *logger.Logger) *Services {
	return &Services{
		Boards:      taskservice.NewBoardService(stores.Boards, eventBus, log),
		Tasks:       taskservice.NewTaskService(stores.Tasks, stores.Links, stores.Favorites, eventBus, log),
		Attachments: taskservice.NewAttachmentService(stores.Boards, stores.Tasks, stores.Links, cfg.Attachments, eventBus, log),
		Favorites:   taskservice.NewFavoriteService(stores.Tasks, stores.Favorites, eventBus, log),
	}
}

// Controllers wraps each service for the HTTP handlers.
type Controllers struct {
	Boards      *taskcontroller.BoardController
	Tasks       *taskcontroller.TaskController
	Attachments *taskcontroller.AttachmentController
	Favorites   *taskcontroller.FavoriteController
}

func provideControllers(svcs *Services) *Controllers {
	return &Controllers{
		Boards:      taskcontroller.NewBoardController(svcs.Boards),
		Tasks:       taskcontroller.NewTaskController(svcs.Tasks),
		Attachments: taskcontroller.NewAttachmentController(svcs.Attachments),
		Favorites:   taskcontroller.NewFavoriteController(svcs.Favorites),
	}
}
