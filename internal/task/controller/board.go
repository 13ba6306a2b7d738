package controller

import (
	"context"

	"github.com/harrypotter228/TaskManagement/internal/task/dto"
	"github.com/harrypotter228/TaskManagement/internal/task/service"
)

type BoardController struct {
	service *service.BoardService
}

func NewBoardController(svc *service.BoardService) *BoardController {
	return &BoardController{service: svc}
}

func (c *BoardController) ListBoards(ctx context.Context) dto.ListBoardsResponse {
	boards := c.service.ListBoards(ctx)
	resp := dto.ListBoardsResponse{
		Boards: make([]dto.BoardDTO, 0, len(boards)),
		Total:  len(boards),
	}
	for _, board := range boards {
		resp.Boards = append(resp.Boards, dto.FromBoard(board))
	}
	return resp
}

func (c *BoardController) GetBoard(ctx context.Context, req dto.GetBoardRequest) (dto.BoardDTO, error) {
	board, err := c.service.GetBoard(ctx, req.ID)
	if err != nil {
		return dto.BoardDTO{}, err
	}
	return dto.FromBoard(board), nil
}

func (c *BoardController) CreateBoard(ctx context.Context, req dto.CreateBoardRequest) (dto.BoardDTO, error) {
	board, err := c.service.CreateBoard(ctx, req.Name, req.Statuses)
	if err != nil {
		return dto.BoardDTO{}, err
	}
	return dto.FromBoard(board), nil
}

func (c *BoardController) UpdateStatuses(ctx context.Context, req dto.UpdateBoardStatusesRequest) (dto.BoardStatusesResponse, error) {
	result, err := c.service.UpdateStatuses(ctx, req.BoardID, req.Statuses)
	if err != nil {
		return dto.BoardStatusesResponse{}, err
	}
	return dto.FromBoardStatuses(result), nil
}
