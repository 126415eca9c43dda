package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/kanban-api/internal/models"
)

func TestOptional_DistinguishesAbsentNullAndValue(t *testing.T) {
	var absent UpdateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title": "x"}`), &absent))
	assert.False(t, absent.DueDate.Set)
	assert.Nil(t, absent.DueDate.Ptr())
	assert.False(t, absent.DueDate.Clear())

	var cleared UpdateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"due_date": null, "assigned_to": null}`), &cleared))
	assert.True(t, cleared.DueDate.Clear())
	assert.True(t, cleared.AssignedTo.Clear())

	var set UpdateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"due_date": "2030-01-02", "assigned_to": 7, "tag_ids": []}`), &set))
	require.NotNil(t, set.DueDate.Ptr())
	assert.Equal(t, "2030-01-02", *set.DueDate.Ptr())
	assert.Equal(t, uint64(7), *set.AssignedTo.Ptr())
	require.NotNil(t, set.TagIDs)
	assert.Empty(t, *set.TagIDs)
}

func TestCreateTaskRequest_IgnoresCreatedBy(t *testing.T) {
	var req CreateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"column_id": 1, "title": "t", "created_by": 99}`), &req))

	raw, err := json.Marshal(req)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "99")
}

func TestToTaskDTO_Projection(t *testing.T) {
	due := time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)
	author := uint64(3)
	task := models.Task{
		ID:          10,
		ColumnID:    2,
		Title:       "Ship",
		Priority:    models.PriorityHigh,
		Order:       4,
		DueDate:     &due,
		CreatedByID: &author,
		Tags:        []models.Tag{{ID: 1, Name: "bug", Color: "red"}},
	}

	got := ToTaskDTO(task)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2030-01-02", *got.DueDate)
	assert.Nil(t, got.AssignedTo)
	assert.Equal(t, &author, got.CreatedBy)
	assert.Equal(t, []TagDTO{{ID: 1, Name: "bug", Color: "red"}}, got.Tags)

	raw, err := json.Marshal(ToTaskDTO(models.Task{ID: 1}))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"tags":[]`)
	assert.Contains(t, string(raw), `"assigned_to":null`)
}

func TestToBoardDetailDTO_KeepsLoadedOrder(t *testing.T) {
	board := models.Board{
		ID:    1,
		Name:  "Board",
		Owner: models.User{Username: "alice"},
		Columns: []models.Column{
			{ID: 5, Title: "Todo", Order: 0, Tasks: []models.Task{{ID: 9, Title: "b"}, {ID: 8, Title: "a"}}},
			{ID: 4, Title: "Done", Order: 1},
		},
	}

	got := ToBoardDetailDTO(board)
	assert.Equal(t, "alice", got.OwnerUsername)
	require.Len(t, got.Columns, 2)
	assert.Equal(t, uint64(5), got.Columns[0].ID)
	assert.Equal(t, uint64(9), got.Columns[0].Tasks[0].ID)
	assert.NotNil(t, got.Columns[1].Tasks)
}

func TestToProfileDTO_OmitsPassword(t *testing.T) {
	user := models.User{ID: 1, Username: "alice", PasswordHash: "secret-hash"}
	raw, err := json.Marshal(ToProfileDTO(user, models.Profile{Position: "Dev"}))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-hash")
	assert.Contains(t, string(raw), `"position":"Dev"`)
}
