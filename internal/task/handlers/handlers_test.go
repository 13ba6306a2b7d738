package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrypotter228/TaskManagement/internal/common/config"
	"github.com/harrypotter228/TaskManagement/internal/common/logger"
	"github.com/harrypotter228/TaskManagement/internal/events/bus"
	"github.com/harrypotter228/TaskManagement/internal/task/controller"
	"github.com/harrypotter228/TaskManagement/internal/task/dto"
	"github.com/harrypotter228/TaskManagement/internal/task/repository"
	"github.com/harrypotter228/TaskManagement/internal/task/service"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewNop()
	stores := repository.Provide()
	eventBus := bus.NewMemoryEventBus(log)
	t.Cleanup(eventBus.Close)

	attachmentsCfg := config.AttachmentsConfig{
		UploadsPath: config.DefaultUploadsPath,
		WebRoot:     t.TempDir(),
	}
	router := gin.New()
	RegisterBoardRoutes(router, controller.NewBoardController(service.NewBoardService(stores.Boards, eventBus, log)), log)
	RegisterTaskRoutes(router, controller.NewTaskController(service.NewTaskService(stores.Tasks, stores.Links, stores.Favorites, eventBus, log)), log)
	RegisterAttachmentRoutes(router, controller.NewAttachmentController(service.NewAttachmentService(stores.Boards, stores.Tasks, stores.Links, attachmentsCfg, eventBus, log)), log)
	RegisterFavoriteRoutes(router, controller.NewFavoriteController(service.NewFavoriteService(stores.Tasks, stores.Favorites, eventBus, log)), log)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

type errorBody struct {
	Error  string              `json:"error"`
	Errors map[string][]string `json:"errors"`
}

func createBoard(t *testing.T, router *gin.Engine, name string) dto.BoardDTO {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/v1/boards", dto.CreateBoardRequest{Name: name, Statuses: []string{"ToDo", "InProgress", "Done"}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[dto.BoardDTO](t, w)
}

func createTask(t *testing.T, router *gin.Engine, boardID, name string) dto.TaskDTO {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/v1/boards/"+boardID+"/tasks", map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[dto.TaskDTO](t, w)
}

func TestBoardRoutes(t *testing.T) {
	router := newTestRouter(t)
	board := createBoard(t, router, "Development Board")
	assert.Equal(t, []string{"ToDo", "InProgress", "Done"}, board.Statuses)

	w := doJSON(t, router, http.MethodGet, "/api/v1/boards", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[dto.ListBoardsResponse](t, w)
	assert.Equal(t, 1, list.Total)

	w = doJSON(t, router, http.MethodGet, "/api/v1/boards/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Board not found.", decode[errorBody](t, w).Error)

	w = doJSON(t, router, http.MethodPut, "/api/v1/boards/"+board.ID+"/tasks/statuses", map[string][]string{"statuses": {"Done", "Done", "nope"}})
	require.Equal(t, http.StatusOK, w.Code)
	statuses := decode[dto.BoardStatusesResponse](t, w)
	assert.Equal(t, []string{"Done"}, statuses.Statuses)

	w = doJSON(t, router, http.MethodPut, "/api/v1/boards/"+board.ID+"/tasks/statuses", map[string][]string{"statuses": {"nope"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode[errorBody](t, w)
	assert.Equal(t, []string{"At least one valid status is required."}, body.Errors["statuses"])
}

func TestTaskRoutes_CRUD(t *testing.T) {
	router := newTestRouter(t)
	board := createBoard(t, router, "Tasks")

	w := doJSON(t, router, http.MethodPost, "/api/v1/boards/"+board.ID+"/tasks", map[string]string{
		"name":        "Write docs",
		"description": "API reference",
		"deadline":    "2025-02-01",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	task := decode[dto.TaskDTO](t, w)
	assert.Equal(t, "/api/v1/boards/"+board.ID+"/tasks/"+task.ID, w.Header().Get("Location"))
	require.NotNil(t, task.Deadline)
	assert.Equal(t, "2025-02-01", *task.Deadline)
	assert.Equal(t, "ToDo", task.Status)

	w = doJSON(t, router, http.MethodPut, "/api/v1/boards/"+board.ID+"/tasks/"+task.ID, map[string]string{
		"name":   "Write better docs",
		"status": "InProgress",
	})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[dto.TaskDTO](t, w)
	assert.Equal(t, "Write better docs", updated.Name)
	assert.Nil(t, updated.Deadline)
	assert.Equal(t, "InProgress", updated.Status)

	w = doJSON(t, router, http.MethodPatch, "/api/v1/boards/"+board.ID+"/tasks/"+task.ID+"/status", map[string]string{"status": "Done"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Done", decode[dto.TaskDTO](t, w).Status)

	w = doJSON(t, router, http.MethodGet, "/api/v1/boards/"+board.ID+"/tasks/"+task.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/v1/boards/"+board.ID+"/tasks/"+task.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/boards/"+board.ID+"/tasks/"+task.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Task not found.", decode[errorBody](t, w).Error)

	w = doJSON(t, router, http.MethodDelete, "/api/v1/boards/"+board.ID+"/tasks/"+task.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Task is not in this board.", decode[errorBody](t, w).Error)
}

func TestTaskRoutes_Validation(t *testing.T) {
	router := newTestRouter(t)
	board := createBoard(t, router, "Validation")

	w := doJSON(t, router, http.MethodPost, "/api/v1/boards/"+board.ID+"/tasks", map[string]string{
		"name":        strings.Repeat("x", 256),
		"description": strings.Repeat("y", 1001),
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode[errorBody](t, w)
	assert.Equal(t, "Validation failed.", body.Error)
	assert.Equal(t, []string{"Name cannot exceed 255 characters."}, body.Errors["name"])
	assert.Equal(t, []string{"Description cannot exceed 1000 characters."}, body.Errors["description"])

	w = doJSON(t, router, http.MethodPost, "/api/v1/boards/"+board.ID+"/tasks", map[string]string{"name": "ok", "deadline": "tomorrow"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Invalid date format. Use yyyy-MM-dd.", decode[errorBody](t, w).Error)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/boards/"+board.ID+"/tasks", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/boards/"+board.ID+"/tasks/sorted?status=ToDo", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestTaskRoutes_ListSortedAndFavorites(t *testing.T) {
	router := newTestRouter(t)
	board := createBoard(t, router, "Sorting")
	user := uuid.NewString()

	createTask(t, router, board.ID, "Charlie")
	bravo := createTask(t, router, board.ID, "Bravo")
	createTask(t, router, board.ID, "Alpha")

	w := doJSON(t, router, http.MethodPost, "/api/v1/users/"+user+"/favorites/"+bravo.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/boards/"+board.ID+"/tasks?status=ToDo&userId="+user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[dto.ListTasksResponse](t, w)
	require.Equal(t, 3, list.Total)
	assert.Equal(t, []string{"Bravo", "Alpha", "Charlie"}, []string{list.Tasks[0].Name, list.Tasks[1].Name, list.Tasks[2].Name})
	assert.True(t, list.Tasks[0].IsFavorite)

	w = doJSON(t, router, http.MethodGet, "/api/v1/boards/"+board.ID+"/tasks/sorted?status=ToDo&userId="+user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Bravo", decode[dto.ListTasksResponse](t, w).Tasks[0].Name)

	w = doJSON(t, router, http.MethodGet, "/api/v1/users/"+user+"/favorites", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{bravo.ID}, decode[dto.FavoritesResponse](t, w).TaskIDs)

	w = doJSON(t, router, http.MethodDelete, "/api/v1/users/"+user+"/favorites/"+bravo.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/users/"+user+"/favorites/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskRoutes_BulkDelete(t *testing.T) {
	router := newTestRouter(t)
	board := createBoard(t, router, "Bulk")
	a := createTask(t, router, board.ID, "A")

	w := doJSON(t, router, http.MethodDelete, "/api/v1/boards/"+board.ID+"/tasks/bulk", map[string][]string{"taskIds": {a.ID, "missing"}})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[dto.DeleteTasksResponse](t, w)
	assert.Equal(t, []string{a.ID}, resp.Removed)
	assert.Equal(t, []string{"missing"}, resp.NotFound)

	w = doJSON(t, router, http.MethodDelete, "/api/v1/boards/"+board.ID+"/tasks/bulk", map[string][]string{"taskIds": {}})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, []string{"TaskIds is required."}, decode[errorBody](t, w).Errors["taskIds"])
}

func multipartUpload(t *testing.T, fileName, contentType string, content []byte, userID string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	if content != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.WriteField("uploadedByUserId", userID))
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func TestAttachmentRoutes(t *testing.T) {
	router := newTestRouter(t)
	board := createBoard(t, router, "Files")
	task := createTask(t, router, board.ID, "With attachments")
	base := "/api/v1/boards/" + board.ID + "/tasks/" + task.ID + "/attachments"
	user := uuid.NewString()

	w := doJSON(t, router, http.MethodPost, base, dto.CreateAttachmentRequest{
		FileName:         "logo.png",
		MimeType:         "image/png",
		URL:              "https://cdn.example.com/logo.png",
		UploadedByUserID: user,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	linked := decode[dto.AttachmentDTO](t, w)
	assert.Equal(t, base+"/"+linked.ID, w.Header().Get("Location"))

	body, contentType := multipartUpload(t, "shot.png", "image/png", []byte("\x89PNG\r\n\x1a\nrest"), user)
	req := httptest.NewRequest(http.MethodPost, base+"/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	uploaded := decode[dto.AttachmentDTO](t, rec)
	assert.Equal(t, "/uploads/"+strings.ReplaceAll(task.ID, "-", "")+"/shot.png", uploaded.URL)

	w = doJSON(t, router, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[dto.ListAttachmentsResponse](t, w).Total)

	w = doJSON(t, router, http.MethodDelete, base+"/"+uploaded.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(t, router, http.MethodDelete, base+"/"+uploaded.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Attachment not found.", decode[errorBody](t, w).Error)
}

func TestAttachmentRoutes_UploadValidation(t *testing.T) {
	router := newTestRouter(t)
	board := createBoard(t, router, "Files")
	task := createTask(t, router, board.ID, "Upload target")
	base := "/api/v1/boards/" + board.ID + "/tasks/" + task.ID + "/attachments"

	body, contentType := multipartUpload(t, "", "", nil, "")
	req := httptest.NewRequest(http.MethodPost, base+"/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errs := decode[errorBody](t, rec).Errors
	assert.Equal(t, []string{"Image file is required."}, errs["file"])
	assert.Equal(t, []string{"uploadedByUserId is required."}, errs["uploadedByUserId"])

	w := doJSON(t, router, http.MethodGet, "/api/v1/boards/missing/tasks/"+task.ID+"/attachments", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Board not found.", decode[errorBody](t, w).Error)
}
