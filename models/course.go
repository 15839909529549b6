package models

// Course represents a course record. Created by admins; there is no
// update or delete endpoint.
type Course struct {
	ID           int64   `json:"id" bson:"_id"`
	Title        string  `json:"title" bson:"title,omitempty"`
	Subject      string  `json:"subject" bson:"subject,omitempty"`
	Number       int     `json:"number" bson:"number,omitempty"`
	Term         string  `json:"term" bson:"term,omitempty"`
	InstructorID int64   `json:"instructor_id" bson:"instructor_id"`
	Students     []int64 `json:"-" bson:"students"`
}

// Listing defaults for stored records with missing fields. Old records
// written by earlier tooling may lack any of the optional fields.
const (
	DefaultTitle   = "Missing Title"
	DefaultSubject = "???"
	DefaultNumber  = -1
	DefaultTerm    = "unknown"
)

// CollectionName returns the collection name for the Course model
func (Course) CollectionName() string {
	return "courses"
}

// NewCourse creates a new Course with an empty roster.
func NewCourse(id int64, title, subject string, number int, term string, instructorID int64) *Course {
	return &Course{
		ID:           id,
		Title:        title,
		Subject:      subject,
		Number:       number,
		Term:         term,
		InstructorID: instructorID,
		Students:     []int64{},
	}
}

// WithDefaults returns a copy with listing defaults applied to any
// missing optional fields.
func (c Course) WithDefaults() Course {
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.Subject == "" {
		c.Subject = DefaultSubject
	}
	if c.Number == 0 {
		c.Number = DefaultNumber
	}
	if c.Term == "" {
		c.Term = DefaultTerm
	}
	return c
}
