package apperrors

import "errors"

// Error classes. Entity-specific errors below unwrap to one of these, so
// callers can branch on the class and still show the specific message.
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")
	ErrHasDependents    = errors.New("resource has dependents")
	ErrValidationFailed = errors.New("validation failed")
)

// College Errors
var (
	ErrCollegeNotFound      = NewCustomError(ErrResourceNotFound, "College not found").WithCode("COLLEGE_NOT_FOUND")
	ErrCollegeAlreadyExists = NewCustomError(ErrConflict, "A college with this code already exists").WithCode("COLLEGE_EXISTS")
	ErrCollegeHasPrograms   = NewCustomError(ErrHasDependents, "Cannot delete college: programs are linked to it").WithCode("COLLEGE_HAS_PROGRAMS")
)

// Program Errors
var (
	ErrProgramNotFound      = NewCustomError(ErrResourceNotFound, "Program not found").WithCode("PROGRAM_NOT_FOUND")
	ErrProgramAlreadyExists = NewCustomError(ErrConflict, "A program with this code already exists").WithCode("PROGRAM_EXISTS")
	ErrProgramHasStudents   = NewCustomError(ErrHasDependents, "Cannot delete program: students are linked to it").WithCode("PROGRAM_HAS_STUDENTS")
)

// Student Errors
var (
	ErrStudentNotFound        = NewCustomError(ErrResourceNotFound, "Student not found").WithCode("STUDENT_NOT_FOUND")
	ErrStudentIDAlreadyExists = NewCustomError(ErrConflict, "A student with this ID number already exists").WithCode("STUDENT_EXISTS")
)

// User Errors
var (
	ErrUserAlreadyExists = NewCustomError(ErrConflict, "A user with this username or email already exists").WithCode("USER_EXISTS")
)

// Is returns whether err matches target or any of errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// Message returns the user-facing message of the first CustomError in err's
// chain, or fallback when there is none.
func Message(err error, fallback string) string {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Error()
	}
	return fallback
}
