package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/middleware"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"github.com/yukikurage/task-tracker-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
	aiService   *services.AIService
}

func NewTaskHandler(taskService *services.TaskService, aiService *services.AIService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		aiService:   aiService,
	}
}

// ListTasks returns a filtered, sorted page of tasks
func (h *TaskHandler) ListTasks(c *gin.Context) {
	params, err := utils.ParsePaginationParams(c.Query("page"), c.Query("limit"), constants.DefaultPageSize)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	authorID, err := parseOptionalID(c, "authorId")
	if err != nil {
		respondServiceError(c, err)
		return
	}
	assigneeID, err := parseOptionalID(c, "assigneeId")
	if err != nil {
		respondServiceError(c, err)
		return
	}
	dateFrom, err := parseOptionalDate(c, "dateFrom")
	if err != nil {
		respondServiceError(c, err)
		return
	}
	dateTo, err := parseOptionalDate(c, "dateTo")
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result, err := h.taskService.FindAll(c.Request.Context(), services.ListTasksInput{
		Page:       params.Page,
		Limit:      params.Limit,
		Title:      c.Query("title"),
		AuthorID:   authorID,
		AssigneeID: assigneeID,
		DateFrom:   dateFrom,
		DateTo:     dateTo,
		SortBy:     c.Query("sortBy"),
		Order:      c.Query("order"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(result.Tasks, result.Pagination, result.Total))
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, ok := middleware.GetTaskID(c)
	if !ok {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	task, err := h.taskService.FindOne(c.Request.Context(), taskID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

type createTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	AssigneeID  *uint64 `json:"assigneeId"`
}

// CreateTask creates a new task authored by the current user
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), services.CreateTaskInput{
		AuthorID:    userID,
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update. Omitted fields are left unchanged.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	taskID, ok := middleware.GetTaskID(c)
	if !ok {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateTaskInput{}
	if req.Title.Present {
		if req.Title.Null {
			respondServiceError(c, &services.ValidationError{Field: "title", Message: "title cannot be null"})
			return
		}
		input.Title = &req.Title.Value
	}
	if req.Description.Present {
		if req.Description.Null {
			input.ClearDescription = true
		} else {
			input.Description = &req.Description.Value
		}
	}
	// A null assignee is treated as omitted
	if req.AssigneeID.Present && !req.AssigneeID.Null {
		input.AssigneeID = &req.AssigneeID.Value
	}

	task, err := h.taskService.Update(c.Request.Context(), taskID, userID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task and returns its last state
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	taskID, ok := middleware.GetTaskID(c)
	if !ok {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	task, err := h.taskService.Remove(c.Request.Context(), taskID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// SuggestTasks drafts tasks from free text without saving them
func (h *TaskHandler) SuggestTasks(c *gin.Context) {
	type SuggestTasksRequest struct {
		Text string `json:"text"`
	}

	var req SuggestTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	drafts, err := h.aiService.SuggestTasks(c.Request.Context(), services.SuggestTasksInput{Text: req.Text})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := dto.SuggestTasksResponse{Tasks: make([]dto.TaskDraftDTO, len(drafts))}
	for i, draft := range drafts {
		resp.Tasks[i] = dto.TaskDraftDTO{Title: draft.Title, Description: draft.Description}
	}
	c.JSON(http.StatusOK, resp)
}

func parseOptionalID(c *gin.Context, key string) (*uint64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, &services.ValidationError{Field: key, Message: key + " must be a positive integer"}
	}
	return &id, nil
}

// parseOptionalDate accepts RFC 3339 timestamps or plain YYYY-MM-DD dates (UTC midnight)
func parseOptionalDate(c *gin.Context, key string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return &t, nil
	}
	return nil, &services.ValidationError{Field: key, Message: key + " must be an RFC 3339 timestamp or a YYYY-MM-DD date"}
}
