package dto

type CreateCourseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type UpdateCourseRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}
