package dto

import "encoding/json"

// Request bodies list only the fields a client may write. Fields such as
// owner_id and created_by are stamped by the server and unknown keys are
// dropped during decoding.

type RegisterRequest struct {
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest is bound from JSON or from a multipart form. A
// username in the payload is ignored.
type UpdateProfileRequest struct {
	Email     *string `json:"email" form:"email"`
	FirstName *string `json:"first_name" form:"first_name"`
	LastName  *string `json:"last_name" form:"last_name"`
	Position  *string `json:"position" form:"position"`
}

type CreateTagRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

type UpdateTagRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

type CreateBoardRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateBoardRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type CreateColumnRequest struct {
	BoardID uint64 `json:"board_id" binding:"required"`
	Title   string `json:"title" binding:"required"`
	Order   *int   `json:"order"`
}

type UpdateColumnRequest struct {
	Title *string `json:"title"`
	Order *int    `json:"order"`
}

type CreateTaskRequest struct {
	ColumnID    uint64   `json:"column_id" binding:"required"`
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	Order       *int     `json:"order"`
	DueDate     *string  `json:"due_date"`
	AssignedTo  *uint64  `json:"assigned_to"`
	TagIDs      []uint64 `json:"tag_ids"`
}

// UpdateTaskRequest is a partial update. due_date and assigned_to may be
// sent as null to clear them; tag_ids replaces the whole tag set.
type UpdateTaskRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Priority    *string          `json:"priority"`
	DueDate     Optional[string] `json:"due_date"`
	AssignedTo  Optional[uint64] `json:"assigned_to"`
	TagIDs      *[]uint64        `json:"tag_ids"`

	// Placement keys are decoded only to be refused; relocation goes through
	// the move endpoint.
	Column   Optional[json.RawMessage] `json:"column"`
	ColumnID Optional[json.RawMessage] `json:"column_id"`
	Order    Optional[json.RawMessage] `json:"order"`
}

// ChangesPlacement reports whether the body tries to set the column or order.
func (r *UpdateTaskRequest) ChangesPlacement() bool {
	return r.Column.Set || r.ColumnID.Set || r.Order.Set
}

type MoveTaskRequest struct {
	ColumnID uint64 `json:"column_id" binding:"required"`
	Order    *int   `json:"order" binding:"required"`
}

type SuggestTasksRequest struct {
	Text string `json:"text" binding:"required"`
}
