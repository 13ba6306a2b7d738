package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrypotter228/TaskManagement/internal/common/config"
	"github.com/harrypotter228/TaskManagement/internal/common/logger"
	"github.com/harrypotter228/TaskManagement/internal/task/models"
	"github.com/harrypotter228/TaskManagement/internal/task/repository"
	"github.com/harrypotter228/TaskManagement/internal/task/service"
)

type fixture struct {
	boards *service.BoardService
	tasks  *service.TaskService
	seeder *Seeder
}

func newFixture() *fixture {
	log := logger.NewNop()
	stores := repository.Provide()
	boards := service.NewBoardService(stores.Boards, nil, log)
	tasks := service.NewTaskService(stores.Tasks, stores.Links, stores.Favorites, nil, log)
	return &fixture{boards: boards, tasks: tasks, seeder: NewSeeder(boards, tasks, log)}
}

func boardNames(boards []*models.Board) []string {
	names := make([]string, 0, len(boards))
	for _, b := range boards {
		names = append(names, b.Name)
	}
	return names
}

func TestRun_DefaultBoards(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	n, err := f.seeder.Run(ctx, config.SeedConfig{Enabled: true})
	require.NoError(t, err)
	assert.Equal(t, len(DefaultBoardNames), n)

	boards := f.boards.ListBoards(ctx)
	assert.Equal(t, DefaultBoardNames, boardNames(boards))
	for _, b := range boards {
		assert.Equal(t, models.AllStatuses(), b.Statuses)
	}
}

func TestRun_SkipsWhenBoardsExist(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.boards.CreateBoard(ctx, "Existing", nil)
	require.NoError(t, err)

	n, err := f.seeder.Run(ctx, config.SeedConfig{Enabled: true})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, f.boards.ListBoards(ctx), 1)
}

func TestRun_Disabled(t *testing.T) {
	f := newFixture()
	n, err := f.seeder.Run(context.Background(), config.SeedConfig{Enabled: false})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, f.boards.ListBoards(context.Background()))
}

const seedYAML = `
boards:
  - name: Release Board
    statuses: [ToDo, Done]
    tasks:
      - name: Tag release
        deadline: "2025-06-01"
      - name: Write notes
        description: changelog
        status: done
  - name: Ops Board
`

func TestRun_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))

	f := newFixture()
	ctx := context.Background()
	n, err := f.seeder.Run(ctx, config.SeedConfig{Enabled: true, File: path})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	boards := f.boards.ListBoards(ctx)
	require.Equal(t, []string{"Release Board", "Ops Board"}, boardNames(boards))
	assert.Equal(t, []models.TaskStatus{models.TaskStatusToDo, models.TaskStatusDone}, boards[0].Statuses)
	assert.Equal(t, models.AllStatuses(), boards[1].Statuses)

	views, err := f.tasks.ListTasks(ctx, boards[0].ID, service.ListTasksFilter{})
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "Tag release", views[0].Task.Name)
	assert.Equal(t, "2025-06-01", views[0].Task.DeadlineString())
	assert.Equal(t, models.TaskStatusToDo, views[0].Task.Status)
	assert.Equal(t, "Write notes", views[1].Task.Name)
	assert.Equal(t, models.TaskStatusDone, views[1].Task.Status)
}

func TestRun_MissingFile(t *testing.T) {
	f := newFixture()
	_, err := f.seeder.Run(context.Background(), config.SeedConfig{Enabled: true, File: filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	f, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, f.Boards)

	_, err = Parse([]byte("boards:\n  - name: A\n    colour: red\n"))
	assert.Error(t, err, "unknown keys are rejected")

	_, err = Parse([]byte("boards:\n  - statuses: [ToDo]\n"))
	assert.Error(t, err, "boards need a name")
}

func TestApply_StopsOnInvalidTask(t *testing.T) {
	f := newFixture()
	n, err := f.seeder.Apply(context.Background(), &File{Boards: []Board{
		{Name: "A", Tasks: []Task{{Name: "bad date", Deadline: "06/01/2025"}}},
		{Name: "B"},
	}})
	require.Error(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, f.boards.ListBoards(context.Background()), 1)
}
