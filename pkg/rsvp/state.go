package rsvp

// Field names as used by forms, query strings and error maps.
const (
	FieldFirstName           = "firstName"
	FieldLastName            = "lastName"
	FieldEmail               = "email"
	FieldCellPhone           = "cellPhone"
	FieldEmergencyPhone      = "emergencyPhone"
	FieldAttending           = "attending"
	FieldDietaryRestrictions = "dietaryRestrictions"
	FieldActivities          = "activities"
	FieldComments            = "comments"
)

// Attending is the attendance answer.
type Attending string

const (
	AttendingYes Attending = "yes"
	AttendingNo  Attending = "no"
)

func (a Attending) String() string { return string(a) }

// Valid reports whether a is yes or no.
func (a Attending) Valid() bool {
	return a == AttendingYes || a == AttendingNo
}

// DefaultDietary is the preselected dietary restriction.
const DefaultDietary = "None"

// FormState holds every field of the RSVP form.
type FormState struct {
	FirstName           string
	LastName            string
	Email               string
	CellPhone           string
	EmergencyPhone      string
	Attending           Attending
	DietaryRestrictions string
	Activities          []string
	Comments            string
}

// NewFormState returns the state of a freshly rendered form.
func NewFormState() FormState {
	return FormState{
		Attending:           AttendingYes,
		DietaryRestrictions: DefaultDietary,
	}
}

// Clone returns a deep copy of s.
func (s FormState) Clone() FormState {
	c := s
	if s.Activities != nil {
		c.Activities = append([]string(nil), s.Activities...)
	}
	return c
}

// HasActivity reports whether name is selected.
func (s FormState) HasActivity(name string) bool {
	return indexOf(s.Activities, name) >= 0
}

// set assigns a scalar field. It reports false for unknown fields and for
// attendance values other than yes or no.
func (s *FormState) set(field, value string) bool {
	switch field {
	case FieldFirstName:
		s.FirstName = value
	case FieldLastName:
		s.LastName = value
	case FieldEmail:
		s.Email = value
	case FieldCellPhone:
		s.CellPhone = value
	case FieldEmergencyPhone:
		s.EmergencyPhone = value
	case FieldAttending:
		a := Attending(value)
		if !a.Valid() {
			return false
		}
		s.Attending = a
	case FieldDietaryRestrictions:
		s.DietaryRestrictions = value
	case FieldComments:
		s.Comments = value
	default:
		return false
	}
	return true
}

// toggle adds name when on and it is absent, removes it when off.
// Insertion order of the remaining entries is preserved.
func (s *FormState) toggle(name string, on bool) {
	i := indexOf(s.Activities, name)
	switch {
	case on && i < 0:
		s.Activities = append(s.Activities, name)
	case !on && i >= 0:
		s.Activities = append(s.Activities[:i:i], s.Activities[i+1:]...)
	}
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
