package users

type CreateUserRequest struct {
	Name  string `json:"name" binding:"required,max=255"`
	Email string `json:"email" binding:"required,email,max=512"`
}

type UpdateUserRequest struct {
	Name  *string `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	Email *string `json:"email,omitempty" binding:"omitempty,email,max=512"`
}

type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func buildUserResponse(u *User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

// FromResponse rebuilds the persisted shape from its transfer shape.
func FromResponse(r UserResponse) User {
	return User{ID: r.ID, Name: r.Name, Email: r.Email}
}
