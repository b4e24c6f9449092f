package models

// Student defines the student model based on the 'student' table
type Student struct {
	ID        int64  `json:"id" db:"id"`
	IDNumber  string `json:"id_number" db:"id_number"` // YYYY-NNNN
	FirstName string `json:"first_name" db:"first_name"`
	LastName  string `json:"last_name" db:"last_name"`
	Gender    Gender `json:"gender" db:"gender"`
	Year      int    `json:"year" db:"year"`
	ProgramID int64  `json:"program_id" db:"program_id"`

	// Populated by list queries
	ProgramCode string `json:"program_code,omitempty" db:"-"`
	ProgramName string `json:"program_name,omitempty" db:"-"`
}

// FullName returns "Last, First" as shown in listings.
func (s Student) FullName() string {
	return s.LastName + ", " + s.FirstName
}
