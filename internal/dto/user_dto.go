package dto

type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email    *string `json:"email" validate:"omitempty,email"`
	IsActive *bool   `json:"isActive"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type UserListResponse struct {
	Users      []UserResponse `json:"users"`
	Pagination Pagination     `json:"pagination"`
}

type UserSearchResponse struct {
	Users []UserResponse `json:"users"`
	Count int            `json:"count"`
}

type UploadResponse struct {
	User     UserResponse `json:"user"`
	Uploaded []string     `json:"uploaded"`
}
