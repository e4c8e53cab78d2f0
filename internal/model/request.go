package model

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UpdateUserRequest carries optional fields; nil means "leave unchanged".
type UpdateUserRequest struct {
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
	Password *string `json:"password"`
}

type CreateStudentRequest struct {
	StudentNumber string `json:"student_number"`
	Name          string `json:"name"`
	Grade         string `json:"grade"`
	Major         string `json:"major"`
	ClassName     string `json:"class_name"`
}

type UpdateStudentRequest struct {
	StudentNumber *string `json:"student_number"`
	Name          *string `json:"name"`
	Grade         *string `json:"grade"`
	Major         *string `json:"major"`
	ClassName     *string `json:"class_name"`
}
