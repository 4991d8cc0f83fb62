package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/meladattef/task-manager/internal/middleware"
	"github.com/meladattef/task-manager/internal/repository"
)

// TaskHandler serves the task CRUD endpoints. Every operation runs as the
// authenticated user and the stores only ever see that user's id, so one
// user's tasks are unreachable from another user's session; a foreign
// task id answers 404 exactly like an unknown one.
type TaskHandler struct {
	Tasks TaskStore
}

func NewTaskHandler(tasks TaskStore) *TaskHandler { return &TaskHandler{Tasks: tasks} }

type createTaskReq struct {
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// Create adds a task owned by the authenticated user.
func (h *TaskHandler) Create(c echo.Context) error {
	u, ok := middleware.AuthedUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "please authenticate"})
	}
	var req createTaskReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "description is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	t, err := h.Tasks.Create(ctx, u.ID, description, req.Completed)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create task failed"})
	}
	return c.JSON(http.StatusCreated, toTaskResp(t))
}

// List returns the user's tasks. Supported query parameters:
//   completed=true|false   filter on completion (absent = no filter)
//   sortBy=field:dir       dir "desc" for descending, anything else ascending
//   limit, skip            pagination; absent or non-numeric means
//                          "no limit" and 0
func (h *TaskHandler) List(c echo.Context) error {
	u, ok := middleware.AuthedUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "please authenticate"})
	}

	q := parseTaskQuery(c.QueryParam("completed"), c.QueryParam("sortBy"),
		c.QueryParam("limit"), c.QueryParam("skip"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	tasks, err := h.Tasks.ListByOwner(ctx, u.ID, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list tasks failed"})
	}
	out := make([]taskResp, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResp(t))
	}
	return c.JSON(http.StatusOK, out)
}

// parseTaskQuery turns the raw query strings into a TaskQuery. Split out
// of List so the parameter defaulting rules are testable on their own.
func parseTaskQuery(completed, sortBy, limit, skip string) repository.TaskQuery {
	var q repository.TaskQuery
	if completed != "" {
		v := completed == "true"
		q.Completed = &v
	}
	if sortBy != "" {
		parts := strings.SplitN(sortBy, ":", 2)
		q.SortBy = parts[0]
		q.Desc = len(parts) == 2 && parts[1] == "desc"
	}
	if n, err := strconv.Atoi(limit); err == nil && n > 0 {
		q.Limit = n
	}
	if n, err := strconv.Atoi(skip); err == nil && n > 0 {
		q.Skip = n
	}
	return q
}

// Get fetches one of the user's tasks by id.
func (h *TaskHandler) Get(c echo.Context) error {
	u, ok := middleware.AuthedUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "please authenticate"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "task not found"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	t, err := h.Tasks.GetByIDAndOwner(ctx, id, u.ID)
	if err != nil {
		return taskError(c, err)
	}
	return c.JSON(http.StatusOK, toTaskResp(t))
}

// Update applies a partial update to one of the user's tasks. Like the
// profile update, a single unknown field rejects the whole request.
func (h *TaskHandler) Update(c echo.Context) error {
	u, ok := middleware.AuthedUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "please authenticate"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "task not found"})
	}

	var body map[string]json.RawMessage
	if err := json.NewDecoder(c.Request().Body).Decode(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	allowed := map[string]bool{"description": true, "completed": true}
	for field := range body {
		if !allowed[field] {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid updates"})
		}
	}

	var upd repository.TaskUpdate
	if raw, ok := body["description"]; ok {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || strings.TrimSpace(s) == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "description is required"})
		}
		s = strings.TrimSpace(s)
		upd.Description = &s
	}
	if raw, ok := body["completed"]; ok {
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid updates"})
		}
		upd.Completed = &b
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	t, err := h.Tasks.Update(ctx, id, u.ID, upd)
	if err != nil {
		return taskError(c, err)
	}
	return c.JSON(http.StatusOK, toTaskResp(t))
}

// Delete removes one of the user's tasks and echoes the deleted record.
func (h *TaskHandler) Delete(c echo.Context) error {
	u, ok := middleware.AuthedUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "please authenticate"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "task not found"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	t, err := h.Tasks.DeleteByIDAndOwner(ctx, id, u.ID)
	if err != nil {
		return taskError(c, err)
	}
	return c.JSON(http.StatusOK, toTaskResp(t))
}

// taskError maps store errors for single-task operations. ErrTaskNotFound
// covers both a missing task and someone else's task.
func taskError(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrTaskNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "task not found"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "task operation failed"})
}
