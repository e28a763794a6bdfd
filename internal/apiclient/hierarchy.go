package apiclient

import "context"

// Courses lists the courses available to the student.
func (c *Client) Courses(ctx context.Context) ([]Course, error) {
	return getItems[Course](ctx, c, "/courses", "", "")
}

// Semesters lists the semesters of a course.
func (c *Client) Semesters(ctx context.Context, courseID string) ([]Semester, error) {
	return getItems[Semester](ctx, c, "/semesters", "course_id", courseID)
}

// Sections lists the sections of a semester.
func (c *Client) Sections(ctx context.Context, semesterID string) ([]Section, error) {
	return getItems[Section](ctx, c, "/sections", "semester_id", semesterID)
}

// Topics lists the topics of a section.
func (c *Client) Topics(ctx context.Context, sectionID string) ([]Topic, error) {
	return getItems[Topic](ctx, c, "/topics", "section_id", sectionID)
}

// Summaries lists the summaries of a topic.
func (c *Client) Summaries(ctx context.Context, topicID string) ([]Summary, error) {
	return getItems[Summary](ctx, c, "/summaries", "topic_id", topicID)
}

// Flashcards lists the flashcards of a summary, active or not; filtering is
// the aggregator's job.
func (c *Client) Flashcards(ctx context.Context, summaryID string) ([]Flashcard, error) {
	return getItems[Flashcard](ctx, c, "/flashcards", "summary_id", summaryID)
}
