package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yamabiko/project-management-api/internal/constants"
	"github.com/yamabiko/project-management-api/internal/dto"
	"github.com/yamabiko/project-management-api/internal/identity"
	"github.com/yamabiko/project-management-api/internal/models"
	"github.com/yamabiko/project-management-api/internal/repository"
	"github.com/yamabiko/project-management-api/internal/services"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db             *gorm.DB
	handler        *TaskHandler
	router         *gin.Engine
	taskService    *services.TaskService
	projectService *services.ProjectService

	leader  *models.User
	member  *models.User
	project *models.Project
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
	)
	suite.Require().NoError(err)

	roleLeader := models.Role{Name: models.RoleLeader}
	roleMember := models.Role{Name: models.RoleMember}
	suite.Require().NoError(suite.db.Create(&roleLeader).Error)
	suite.Require().NoError(suite.db.Create(&roleMember).Error)

	projectRepo := repository.NewProjectRepository(suite.db)
	userRepo := repository.NewUserRepository(suite.db)
	taskRepo := repository.NewTaskRepository(suite.db)

	suite.projectService = services.NewProjectService(projectRepo, userRepo)
	suite.taskService = services.NewTaskService(taskRepo, projectRepo, userRepo, nil)
	suite.handler = NewTaskHandler(suite.taskService)

	suite.leader = suite.createUser("leader", roleLeader)
	suite.member = suite.createUser("member", roleMember)

	suite.project, err = suite.projectService.Create(identity.FromUser(suite.leader), services.CreateProjectInput{
		Name: "alpha",
	})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.projectService.AddMember(identity.FromUser(suite.leader), suite.project.ID, suite.member.ID))

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskHandlerTestSuite) createUser(username string, roles ...models.Role) *models.User {
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashedpassword",
		Roles:        roles,
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

// identityInjector stands in for the auth middleware.
func identityInjector(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(constants.ContextKeyIdentity, identity.FromUser(user))
		c.Next()
	}
}

func (suite *TaskHandlerTestSuite) createTask() *models.Task {
	task, err := suite.taskService.Create(identity.FromUser(suite.leader), services.CreateTaskInput{
		ProjectID:  suite.project.ID,
		Title:      "build the thing",
		AssigneeID: &suite.member.ID,
	})
	suite.Require().NoError(err)
	return task
}

func (suite *TaskHandlerTestSuite) TestCreateTask() {
	suite.router.POST("/api/tasks", identityInjector(suite.leader), suite.handler.Create)

	payload := dto.CreateTaskRequest{
		ProjectID:  suite.project.ID,
		Title:      "new task",
		AssigneeID: &suite.member.ID,
	}
	body, err := json.Marshal(payload)
	suite.Require().NoError(err)

	req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)

	var response dto.TaskResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal("new task", response.Title)
	suite.Equal(string(models.TaskStatusPending), response.Status)
	suite.Require().NotNil(response.AssignedTo)
	suite.Equal(suite.member.ID, response.AssignedTo.ID)
}

func (suite *TaskHandlerTestSuite) TestCreateTaskForbiddenForMember() {
	suite.router.POST("/api/tasks", identityInjector(suite.member), suite.handler.Create)

	body, err := json.Marshal(dto.CreateTaskRequest{
		ProjectID: suite.project.ID,
		Title:     "nope",
	})
	suite.Require().NoError(err)

	req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateProgress() {
	task := suite.createTask()
	suite.router.PUT("/api/tasks/:id/update-progress", identityInjector(suite.member), suite.handler.UpdateProgress)

	progress := 60
	body, err := json.Marshal(dto.UpdateProgressRequest{ProgressPercentage: &progress})
	suite.Require().NoError(err)

	url := fmt.Sprintf("/api/tasks/%d/update-progress", task.ID)
	req := httptest.NewRequest(http.MethodPut, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var response dto.TaskResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal(60, response.ProgressPercentage)
	suite.Equal(string(models.TaskStatusInProgress), response.Status)
}

func (suite *TaskHandlerTestSuite) TestUpdateProgressOutOfRange() {
	task := suite.createTask()
	suite.router.PUT("/api/tasks/:id/update-progress", identityInjector(suite.member), suite.handler.UpdateProgress)

	progress := 150
	body, err := json.Marshal(dto.UpdateProgressRequest{ProgressPercentage: &progress})
	suite.Require().NoError(err)

	url := fmt.Sprintf("/api/tasks/%d/update-progress", task.ID)
	req := httptest.NewRequest(http.MethodPut, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestSubmitAndReview() {
	task := suite.createTask()
	suite.router.PUT("/api/tasks/:id/submit", identityInjector(suite.member), suite.handler.Submit)
	suite.router.PUT("/api/tasks/:id/review", identityInjector(suite.leader), suite.handler.Review)

	submitURL := fmt.Sprintf("/api/tasks/%d/submit", task.ID)
	req := httptest.NewRequest(http.MethodPut, submitURL, nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusOK, w.Code)

	reviewURL := fmt.Sprintf("/api/tasks/%d/review?approved=false", task.ID)
	req = httptest.NewRequest(http.MethodPut, reviewURL, nil)
	w = httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var response dto.TaskResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal(string(models.TaskStatusRejected), response.Status)
	suite.Equal(models.RejectedProgress, response.ProgressPercentage)
}

func (suite *TaskHandlerTestSuite) TestReviewRequiresApprovedParam() {
	task := suite.createTask()
	suite.router.PUT("/api/tasks/:id/review", identityInjector(suite.leader), suite.handler.Review)

	url := fmt.Sprintf("/api/tasks/%d/review", task.ID)
	req := httptest.NewRequest(http.MethodPut, url, nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestMyTasksStatusFilter() {
	suite.createTask()
	suite.router.GET("/api/tasks/my-tasks", identityInjector(suite.member), suite.handler.MyTasks)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks/my-tasks?status=PENDING", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var response []dto.TaskResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Len(response, 1)

	req = httptest.NewRequest(http.MethodGet, "/api/tasks/my-tasks?status=bogus", nil)
	w = httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestSuggestTasksUnavailableWithoutAI() {
	suite.router.POST("/api/projects/:id/suggest-tasks", identityInjector(suite.leader), suite.handler.SuggestTasks)

	url := fmt.Sprintf("/api/projects/%d/suggest-tasks", suite.project.ID)
	req := httptest.NewRequest(http.MethodPost, url, nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusServiceUnavailable, w.Code)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
