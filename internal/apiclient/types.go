package apiclient

import "time"

// Course is the root of the curriculum hierarchy.
type Course struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Semester groups sections within a course.
type Semester struct {
	ID       string `json:"id"`
	CourseID string `json:"course_id"`
	Name     string `json:"name"`
}

// Section groups topics within a semester.
type Section struct {
	ID         string `json:"id"`
	SemesterID string `json:"semester_id"`
	Name       string `json:"name"`
}

// Topic groups summaries within a section.
type Topic struct {
	ID        string `json:"id"`
	SectionID string `json:"section_id"`
	Name      string `json:"name"`
}

// Summary is the leaf content unit that owns flashcards.
type Summary struct {
	ID      string `json:"id"`
	TopicID string `json:"topic_id"`
	Name    string `json:"name"`
}

// Flashcard is the studied content item.
type Flashcard struct {
	ID        string `json:"id"`
	SummaryID string `json:"summary_id"`
	Keyword   string `json:"keyword,omitempty"`
	Front     string `json:"front"`
	Back      string `json:"back"`
	IsActive  bool   `json:"is_active"`
}

// ReviewRecord is the server's durable record of one graded review.
type ReviewRecord struct {
	ID             string    `json:"id"`
	SessionID      string    `json:"session_id"`
	ItemID         string    `json:"item_id"`
	InstrumentType string    `json:"instrument_type"`
	Grade          int       `json:"grade"`
	CreatedAt      time.Time `json:"created_at"`
}

// StudySession is the server-side session aggregate. Its absence never
// blocks study flow.
type StudySession struct {
	ID              string     `json:"id"`
	SessionType     string     `json:"session_type"`
	CourseID        string     `json:"course_id,omitempty"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	DurationSeconds int        `json:"duration_seconds"`
	TotalReviews    int        `json:"total_reviews"`
	CorrectReviews  int        `json:"correct_reviews"`
}
