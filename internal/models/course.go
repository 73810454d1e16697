package models

import "time"

// Course is the unit of the catalog. OwnerID is the account that created it
// and the subject of the ownership policy on mutating routes.
type Course struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OwnerID     int64     `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Enrollment links an account to a course. The enrollee owns the enrollment.
type Enrollment struct {
	ID        int64     `json:"id"`
	CourseID  int64     `json:"course_id"`
	AccountID int64     `json:"account_id"`
	CreatedAt time.Time `json:"created_at"`
}
