package models

// Program represents a degree program offered by a college
type Program struct {
	ID        int64  `json:"id" db:"id"`
	Code      string `json:"code" db:"code"`
	Name      string `json:"name" db:"name"`
	CollegeID int64  `json:"college_id" db:"college_id"`

	// Populated by list queries
	CollegeCode string `json:"college_code,omitempty" db:"-"`
	CollegeName string `json:"college_name,omitempty" db:"-"`
}
