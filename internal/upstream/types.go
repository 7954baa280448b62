package upstream

import "github.com/yungbote/neurobridge-dashboard/internal/join"

// StatMetric is a headline number with its period-over-period change.
type StatMetric struct {
	Value  join.Numeric `json:"value"`
	Change join.Numeric `json:"change"`
}

// ---------------- Enrollment / analytics ----------------

type InstructorAnalytics struct {
	TotalStudents    StatMetric `json:"totalStudents"`
	TotalRevenue     StatMetric `json:"totalRevenue"`
	TotalEnrollments StatMetric `json:"totalEnrollments"`
	CompletionRate   StatMetric `json:"completionRate"`
}

type TrendPoint struct {
	Date        string       `json:"date"`
	Enrollments join.Int     `json:"enrollments"`
	Completions join.Int     `json:"completions"`
	Revenue     join.Numeric `json:"revenue"`
}

type CoursePerformance struct {
	CourseID   string       `json:"courseId"`
	Students   join.Int     `json:"students"`
	Completion join.Numeric `json:"completion"`
	Rating     join.Numeric `json:"rating"`
	Revenue    join.Numeric `json:"revenue"`
}

type WeeklyEngagement struct {
	Week             string       `json:"week"`
	ActiveStudents   join.Int     `json:"activeStudents"`
	LessonsCompleted join.Int     `json:"lessonsCompleted"`
	HoursSpent       join.Numeric `json:"hoursSpent"`
}

type TopStudent struct {
	UserID   string       `json:"userId"`
	CourseID string       `json:"courseId"`
	Progress join.Numeric `json:"progress"`
	Score    join.Numeric `json:"score"`
	LastSeen string       `json:"lastActive,omitempty"`
}

type ModuleProgress struct {
	ModuleID   string       `json:"moduleId"`
	CourseID   string       `json:"courseId"`
	Title      string       `json:"title"`
	Started    join.Int     `json:"started"`
	Completed  join.Int     `json:"completed"`
	Completion join.Numeric `json:"completion"`
}

type DiscussionStat struct {
	CourseID     string       `json:"courseId"`
	Threads      join.Int     `json:"threads"`
	Replies      join.Int     `json:"replies"`
	Participants join.Int     `json:"participants"`
	ResponseRate join.Numeric `json:"responseRate"`
}

type Bucket struct {
	Label      string       `json:"label"`
	Count      join.Int     `json:"count"`
	Percentage join.Numeric `json:"percentage"`
}

type Demographics struct {
	Countries []Bucket `json:"countries"`
	AgeGroups []Bucket `json:"ageGroups"`
	Devices   []Bucket `json:"devices"`
}

type StudentGrade struct {
	Grade string       `json:"grade"`
	Score join.Numeric `json:"score"`
}

// ---------------- Course ----------------

type CourseStats struct {
	ActiveCourses StatMetric `json:"activeCourses"`
	AverageRating StatMetric `json:"averageRating"`
	TotalLessons  StatMetric `json:"totalLessons"`
}

type CourseSummary struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Status    string       `json:"status"`
	Thumbnail string       `json:"thumbnail,omitempty"`
	Price     join.Numeric `json:"price"`
}

type Module struct {
	ID          string   `json:"id"`
	CourseID    string   `json:"courseId"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Order       join.Int `json:"order"`
	Published   bool     `json:"published"`
}

// ModuleInput is the create/update payload for a module.
type ModuleInput struct {
	Title       string `json:"title" validate:"required,notblank,min=3,max=120"`
	Description string `json:"description,omitempty" validate:"max=2000"`
	Published   *bool  `json:"published,omitempty"`
}

type Lesson struct {
	ID              string   `json:"id"`
	ModuleID        string   `json:"moduleId"`
	Title           string   `json:"title"`
	Order           join.Int `json:"order"`
	DurationMinutes join.Int `json:"durationMinutes"`
}

type Resource struct {
	ID       string   `json:"id"`
	CourseID string   `json:"courseId"`
	Title    string   `json:"title"`
	Kind     string   `json:"kind"`
	URL      string   `json:"url,omitempty"`
	Order    join.Int `json:"order"`
}

type Assignment struct {
	ID       string   `json:"id"`
	CourseID string   `json:"courseId"`
	Title    string   `json:"title"`
	DueDate  string   `json:"dueDate,omitempty"`
	Order    join.Int `json:"order"`
}

// ReorderRequest is the body of every reorder persistence call. Exactly one scope
// field is set for scoped collections.
type ReorderRequest struct {
	ModuleID string   `json:"moduleId,omitempty"`
	CourseID string   `json:"courseId,omitempty"`
	IDs      []string `json:"ids"`
}

type bulkRequest struct {
	IDs []string `json:"ids"`
}

// ---------------- Payment ----------------

type CourseRevenue struct {
	CourseID string       `json:"courseId"`
	Revenue  join.Numeric `json:"revenue"`
	Sales    join.Int     `json:"sales"`
	Refunds  join.Int     `json:"refunds"`
}

type Financials struct {
	Currency      string       `json:"currency"`
	GrossRevenue  join.Numeric `json:"grossRevenue"`
	NetRevenue    join.Numeric `json:"netRevenue"`
	Refunds       join.Numeric `json:"refunds"`
	PlatformFees  join.Numeric `json:"platformFees"`
	PendingPayout join.Numeric `json:"pendingPayout"`
}

// ---------------- Identity ----------------

type UserProfile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}
