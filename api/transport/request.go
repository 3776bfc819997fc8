package transport

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdateRequest follows the falsy-skip contract: empty fields
// are left unchanged.
type ProfileUpdateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TaskRequest covers both create and partial update; on update, empty
// fields are skipped.
type TaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	DueDate     string `json:"dueDate"`
}

// ShareRequest adds recipients to a task's shared list.
type ShareRequest struct {
	UserIDs []string `json:"userIds"`
}

// AuthResponse pairs the sanitized user with their bearer token.
type AuthResponse struct {
	User  interface{} `json:"user"`
	Token string      `json:"token"`
}
