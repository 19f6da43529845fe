package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/utils"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	AuthorID    uint64    `json:"authorId"`
	AssigneeID  uint64    `json:"assigneeId"`
	Author      *UserDTO  `json:"author,omitempty"`
	Assignee    *UserDTO  `json:"assignee,omitempty"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Data []TaskDTO             `json:"data"`
	Meta utils.PaginationMeta `json:"meta"`
}

// TaskDraftDTO is an AI-suggested task that has not been persisted
type TaskDraftDTO struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// SuggestTasksResponse is returned by POST /tasks/suggest
type SuggestTasksResponse struct {
	Tasks []TaskDraftDTO `json:"tasks"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		CreatedAt:   task.CreatedAt,
		AuthorID:    task.AuthorID,
		AssigneeID:  task.AssigneeID,
	}

	// Include relations if preloaded
	if task.Author.ID != 0 {
		author := ToUserDTO(task.Author)
		dto.Author = &author
	}
	if task.Assignee.ID != 0 {
		assignee := ToUserDTO(task.Assignee)
		dto.Assignee = &assignee
	}

	return dto
}

// ToTaskListResponse converts a page of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, params utils.PaginationParams, total int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Data: items,
		Meta: utils.NewPaginationMeta(params, total),
	}
}

// NullableString tells an omitted JSON field apart from an explicit null
type NullableString struct {
	Present bool
	Null    bool
	Value   string
}

// UnmarshalJSON is only called when the key is present
func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Null = true
		n.Value = ""
		return nil
	}
	n.Null = false
	return json.Unmarshal(data, &n.Value)
}

// NullableUint64 tells an omitted JSON field apart from an explicit null
type NullableUint64 struct {
	Present bool
	Null    bool
	Value   uint64
}

// UnmarshalJSON is only called when the key is present
func (n *NullableUint64) UnmarshalJSON(data []byte) error {
	n.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Null = true
		n.Value = 0
		return nil
	}
	n.Null = false
	return json.Unmarshal(data, &n.Value)
}

// UpdateTaskRequest is the body of PATCH /tasks/:id
type UpdateTaskRequest struct {
	Title       NullableString `json:"title"`
	Description NullableString `json:"description"`
	AssigneeID  NullableUint64 `json:"assigneeId"`
}
