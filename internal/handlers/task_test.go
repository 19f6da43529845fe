package handlers

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/task-tracker-api/internal/dto"
	"github.com/yukikurage/task-tracker-api/internal/models"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	env testEnv
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	suite.env = setupTestEnv(suite.T(), RouterOptions{})
}

// Helper function to create test data
func (suite *TaskHandlerTestSuite) createTestUser(email string) (*models.User, string) {
	user := suite.env.register(suite.T(), email)
	return user, suite.env.bearer(suite.T(), user)
}

func (suite *TaskHandlerTestSuite) createTestTask(title string, authorID, assigneeID uint64, createdAt time.Time) *models.Task {
	task := &models.Task{Title: title, AuthorID: authorID, AssigneeID: assigneeID, CreatedAt: createdAt}
	suite.Require().NoError(suite.env.db.Create(task).Error)
	return task
}

func (suite *TaskHandlerTestSuite) request(method, url string, body interface{}, authHeader string) *httptest.ResponseRecorder {
	return suite.env.do(suite.T(), method, url, body, authHeader)
}

func (suite *TaskHandlerTestSuite) decodeTask(w *httptest.ResponseRecorder) dto.TaskDTO {
	var task dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &task))
	return task
}

func (suite *TaskHandlerTestSuite) decodeList(w *httptest.ResponseRecorder) dto.TaskListResponse {
	var list dto.TaskListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &list))
	return list
}

func (suite *TaskHandlerTestSuite) TestCreateTask_RandomAssignee() {
	a, tokenA := suite.createTestUser("a@x.com")
	b, _ := suite.createTestUser("b@x.com")

	w := suite.request(http.MethodPost, "/tasks", map[string]string{"title": "T1"}, tokenA)
	suite.Require().Equal(http.StatusCreated, w.Code)

	task := suite.decodeTask(w)
	suite.Equal("T1", task.Title)
	suite.Nil(task.Description)
	suite.Equal(a.ID, task.AuthorID)
	suite.Equal(b.ID, task.AssigneeID)
	suite.Require().NotNil(task.Author)
	suite.Equal("a@x.com", task.Author.Email)
	suite.Require().NotNil(task.Assignee)
	suite.Equal("b@x.com", task.Assignee.Email)
	suite.NotContains(w.Body.String(), "password")
}

func (suite *TaskHandlerTestSuite) TestCreateTask_Errors() {
	a, tokenA := suite.createTestUser("a@x.com")

	w := suite.request(http.MethodPost, "/tasks", map[string]string{"title": "T1"}, "")
	suite.Equal(http.StatusUnauthorized, w.Code)

	// Nobody else to assign to
	w = suite.request(http.MethodPost, "/tasks", map[string]string{"title": "T1"}, tokenA)
	suite.Equal(http.StatusNotFound, w.Code)

	suite.createTestUser("b@x.com")

	w = suite.request(http.MethodPost, "/tasks", map[string]interface{}{"title": "T1", "assigneeId": a.ID}, tokenA)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.request(http.MethodPost, "/tasks", map[string]interface{}{"title": "T1", "assigneeId": 999}, tokenA)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.request(http.MethodPost, "/tasks", map[string]interface{}{"description": "no title"}, tokenA)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.request(http.MethodPost, "/tasks", `{"title": 5}`, tokenA)
	suite.Equal(http.StatusBadRequest, w.Code)

	var count int64
	suite.Require().NoError(suite.env.db.Model(&models.Task{}).Count(&count).Error)
	suite.Zero(count)
}

func (suite *TaskHandlerTestSuite) TestGetTask() {
	a, _ := suite.createTestUser("a@x.com")
	b, _ := suite.createTestUser("b@x.com")
	task := suite.createTestTask("Visible", a.ID, b.ID, time.Now().UTC())

	w := suite.request(http.MethodGet, fmt.Sprintf("/tasks/%d", task.ID), nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("Visible", suite.decodeTask(w).Title)

	w = suite.request(http.MethodGet, "/tasks/999", nil, "")
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.request(http.MethodGet, "/tasks/abc", nil, "")
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListTasks_FiltersAndMeta() {
	a, _ := suite.createTestUser("a@x.com")
	b, _ := suite.createTestUser("b@x.com")

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		title := fmt.Sprintf("Task %02d", i)
		if i%3 == 0 {
			title = fmt.Sprintf("Report %02d", i)
		}
		suite.createTestTask(title, a.ID, b.ID, base.Add(time.Duration(i)*24*time.Hour))
	}
	suite.createTestTask("Other", b.ID, a.ID, base)

	w := suite.request(http.MethodGet, "/tasks", nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	list := suite.decodeList(w)
	suite.Len(list.Data, 9)
	suite.Equal(1, list.Meta.Page)
	suite.Equal(9, list.Meta.Limit)
	suite.Equal(int64(11), list.Meta.Total)
	suite.Equal(2, list.Meta.TotalPages)

	w = suite.request(http.MethodGet, fmt.Sprintf("/tasks?title=report&authorId=%d&sortBy=title&order=asc", a.ID), nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	list = suite.decodeList(w)
	suite.Equal(int64(4), list.Meta.Total)
	suite.Equal("Report 00", list.Data[0].Title)
	suite.Equal("Report 09", list.Data[3].Title)

	w = suite.request(http.MethodGet, "/tasks?dateFrom=2025-06-03&dateTo=2025-06-05T10:00:00Z&order=asc&limit=2&page=2", nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	list = suite.decodeList(w)
	suite.Equal(int64(3), list.Meta.Total)
	suite.Equal(2, list.Meta.TotalPages)
	suite.Require().Len(list.Data, 1)
	suite.Equal("Task 04", list.Data[0].Title)

	w = suite.request(http.MethodGet, fmt.Sprintf("/tasks?assigneeId=%d", a.ID), nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	list = suite.decodeList(w)
	suite.Equal(int64(1), list.Meta.Total)
	suite.Equal("Other", list.Data[0].Title)
}

func (suite *TaskHandlerTestSuite) TestListTasks_Empty() {
	w := suite.request(http.MethodGet, "/tasks?title=nothing", nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"data":[],"meta":{"page":1,"limit":9,"total":0,"totalPages":0}}`, w.Body.String())
}

func (suite *TaskHandlerTestSuite) TestListTasks_HugePageIsRejected() {
	a, _ := suite.createTestUser("a@x.com")
	b, _ := suite.createTestUser("b@x.com")
	for i := 0; i < 3; i++ {
		suite.createTestTask(fmt.Sprintf("Task %d", i), a.ID, b.ID, time.Now().UTC())
	}

	w := suite.request(http.MethodGet, "/tasks?page=100000000000000001&limit=100", nil, "")
	suite.Require().Equal(http.StatusBadRequest, w.Code)
	suite.NotContains(w.Body.String(), "Task 0")

	// The largest page that still fits is valid and simply empty
	w = suite.request(http.MethodGet, fmt.Sprintf("/tasks?page=%d&limit=100", math.MaxInt/100+1), nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	list := suite.decodeList(w)
	suite.Empty(list.Data)
	suite.Equal(int64(3), list.Meta.Total)
}

func (suite *TaskHandlerTestSuite) TestListTasks_InvalidQuery() {
	for _, query := range []string{
		"page=0",
		"page=abc",
		"limit=0",
		"limit=101",
		"page=100000000000000001&limit=100",
		"sortBy=dueDate",
		"order=up",
		"authorId=x",
		"assigneeId=0",
		"dateFrom=yesterday",
		"dateTo=2025-13-01",
	} {
		w := suite.request(http.MethodGet, "/tasks?"+query, nil, "")
		suite.Equal(http.StatusBadRequest, w.Code, query)
	}
}

func (suite *TaskHandlerTestSuite) TestUpdateTask() {
	a, tokenA := suite.createTestUser("a@x.com")
	b, tokenB := suite.createTestUser("b@x.com")
	c, _ := suite.createTestUser("c@x.com")
	desc := "keep"
	task := &models.Task{Title: "T1", Description: &desc, AuthorID: a.ID, AssigneeID: b.ID}
	suite.Require().NoError(suite.env.db.Create(task).Error)
	url := fmt.Sprintf("/tasks/%d", task.ID)

	w := suite.request(http.MethodPatch, url, map[string]string{"title": "T2"}, tokenB)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.request(http.MethodPatch, url, map[string]string{"title": "T2"}, "")
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.request(http.MethodPatch, url, map[string]string{"title": "T2"}, tokenA)
	suite.Require().Equal(http.StatusOK, w.Code)
	updated := suite.decodeTask(w)
	suite.Equal("T2", updated.Title)
	suite.Require().NotNil(updated.Description)
	suite.Equal("keep", *updated.Description)

	w = suite.request(http.MethodPatch, url, `{"assigneeId": null, "description": null}`, tokenA)
	suite.Require().Equal(http.StatusOK, w.Code)
	updated = suite.decodeTask(w)
	suite.Nil(updated.Description)
	suite.Equal(b.ID, updated.AssigneeID)

	w = suite.request(http.MethodPatch, url, map[string]interface{}{"assigneeId": c.ID}, tokenA)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal(c.ID, suite.decodeTask(w).AssigneeID)

	w = suite.request(http.MethodPatch, url, map[string]interface{}{"assigneeId": a.ID}, tokenA)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.request(http.MethodPatch, url, `{"title": null}`, tokenA)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.request(http.MethodPatch, url, `{"title": ""}`, tokenA)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("", suite.decodeTask(w).Title)

	w = suite.request(http.MethodPatch, "/tasks/999", map[string]string{"title": "x"}, tokenA)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.request(http.MethodPatch, "/tasks/x", map[string]string{"title": "x"}, tokenA)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask() {
	a, tokenA := suite.createTestUser("a@x.com")
	b, tokenB := suite.createTestUser("b@x.com")
	task := suite.createTestTask("Doomed", a.ID, b.ID, time.Now().UTC())
	url := fmt.Sprintf("/tasks/%d", task.ID)

	w := suite.request(http.MethodDelete, url, nil, tokenB)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.request(http.MethodDelete, url, nil, tokenA)
	suite.Require().Equal(http.StatusOK, w.Code)
	deleted := suite.decodeTask(w)
	suite.Equal(task.ID, deleted.ID)
	suite.Equal("Doomed", deleted.Title)

	w = suite.request(http.MethodGet, url, nil, "")
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.request(http.MethodDelete, url, nil, tokenA)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestSuggestTasks_NotConfigured() {
	_, tokenA := suite.createTestUser("a@x.com")

	w := suite.request(http.MethodPost, "/tasks/suggest", map[string]string{"text": "buy milk"}, tokenA)
	suite.Equal(http.StatusServiceUnavailable, w.Code)

	w = suite.request(http.MethodPost, "/tasks/suggest", map[string]string{"text": "buy milk"}, "")
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
