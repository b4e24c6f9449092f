package models

// Gender of a student
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "O"
)

// Genders lists the accepted values in display order.
var Genders = []Gender{GenderMale, GenderFemale, GenderOther}

// Label returns the human readable name of g.
func (g Gender) Label() string {
	switch g {
	case GenderMale:
		return "Male"
	case GenderFemale:
		return "Female"
	case GenderOther:
		return "Other"
	default:
		return string(g)
	}
}

// Years lists the accepted year levels.
var Years = []int{1, 2, 3, 4}

// Choice is an id/label pair used to fill select inputs.
type Choice struct {
	ID    int64
	Label string
}
