package enrollment

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/darasa/darasa-client/core"
	"github.com/darasa/darasa-client/core/catalog"
	"github.com/darasa/darasa-client/core/session"
)

// Enrollment statuses
const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusSuspended Status = "suspended"
)

// Per-lesson progress statuses
const (
	ProgressCompleted  ProgressStatus = "completed"
	ProgressInProgress ProgressStatus = "in_progress"
	ProgressNotStarted ProgressStatus = "not_started"
)

var ProgressStatuses = []ProgressStatus{ProgressCompleted, ProgressInProgress, ProgressNotStarted}

type (
	Status         string
	ProgressStatus string
)

func (s ProgressStatus) Valid() bool {
	for _, known := range ProgressStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// CourseRef is a course reference that the API sometimes returns as a bare id
// and sometimes as the embedded course document.
type CourseRef struct {
	ID     string
	Course *catalog.Course
}

func (r *CourseRef) UnmarshalJSON(data []byte) error {
	if isJSONString(data) {
		return json.Unmarshal(data, &r.ID)
	}
	var course catalog.Course
	if err := json.Unmarshal(data, &course); err != nil {
		return err
	}
	r.Course = &course
	r.ID = course.ID
	return nil
}

func (r CourseRef) MarshalJSON() ([]byte, error) {
	if r.Course != nil {
		return json.Marshal(r.Course)
	}
	return json.Marshal(r.ID)
}

// StudentRef mirrors CourseRef for the enrolled user.
type StudentRef struct {
	ID   string
	User *session.User
}

func (r *StudentRef) UnmarshalJSON(data []byte) error {
	if isJSONString(data) {
		return json.Unmarshal(data, &r.ID)
	}
	var usr session.User
	if err := json.Unmarshal(data, &usr); err != nil {
		return err
	}
	r.User = &usr
	r.ID = usr.ID
	return nil
}

func (r StudentRef) MarshalJSON() ([]byte, error) {
	if r.User != nil {
		return json.Marshal(r.User)
	}
	return json.Marshal(r.ID)
}

// Enrollment is the student/course relationship record. Status and
// completion percentage are server-derived and read-only here.
type Enrollment struct {
	ID                   string     `json:"_id"`
	Student              StudentRef `json:"student"`
	Course               CourseRef  `json:"course"`
	Status               Status     `json:"status"`
	EnrolledAt           time.Time  `json:"enrolledAt"`
	CompletedAt          null.Time  `json:"completedAt,omitempty"`
	CompletionPercentage float64    `json:"completionPercentage"` // 0-100
	CertificateIssued    bool       `json:"certificateIssued"`
	CurrentModuleID      string     `json:"currentModuleId,omitempty"`
	CurrentLessonID      string     `json:"currentLessonId,omitempty"`
	LastAccessedAt       time.Time  `json:"lastAccessedAt"`
	TimeSpent            int        `json:"timeSpent"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

func (e Enrollment) CourseID() string { return e.Course.ID }

type LessonProgress struct {
	ID          string         `json:"_id"`
	Student     string         `json:"student"`
	Course      string         `json:"course"`
	ModuleID    string         `json:"moduleId"`
	LessonID    string         `json:"lessonId"`
	Status      ProgressStatus `json:"status"`
	CompletedAt null.Time      `json:"completedAt,omitempty"`
	Score       null.Float64   `json:"score,omitempty"`
	Attempts    int            `json:"attempts"`
	TimeSpent   int            `json:"timeSpent"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// MarkLessonCompleteData is the progress mutation payload.
type MarkLessonCompleteData struct {
	CourseID  string         `json:"courseId" validate:"required"`
	ModuleID  string         `json:"moduleId" validate:"required"`
	LessonID  string         `json:"lessonId" validate:"required"`
	Status    ProgressStatus `json:"status" validate:"required,progressstatus"`
	Score     null.Float64   `json:"score,omitempty"`
	TimeSpent int            `json:"timeSpent,omitempty"`
}

func (d *MarkLessonCompleteData) Validate() error {
	if err := core.Validate.Struct(d); err != nil {
		return core.TranslateValidationErrors(err)
	}
	return nil
}

// EnrollmentSummary is the slimmed enrollment echoed inside the aggregate.
type EnrollmentSummary struct {
	ID                   string    `json:"_id"`
	CompletionPercentage float64   `json:"completionPercentage"`
	Status               Status    `json:"status"`
	CurrentModuleID      string    `json:"currentModuleId,omitempty"`
	CurrentLessonID      string    `json:"currentLessonId,omitempty"`
	LastAccessedAt       time.Time `json:"lastAccessedAt"`
}

type ProgressStats struct {
	TotalLessons         int     `json:"totalLessons"`
	CompletedLessons     int     `json:"completedLessons"`
	InProgressLessons    int     `json:"inProgressLessons"`
	CompletionPercentage float64 `json:"completionPercentage"`
}

// CourseProgress is the server-computed aggregate for one student/course
// pair. Its completion formula is server-owned; the client never recomputes
// it from partial knowledge.
type CourseProgress struct {
	Enrollment EnrollmentSummary `json:"enrollment"`
	Stats      ProgressStats     `json:"stats"`
	Progress   []LessonProgress  `json:"progress"`
}

// PaymentSession is the checkout session handed to the external payment flow
// for priced courses.
type PaymentSession struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// State is the externally observable enrollment snapshot.
type State struct {
	Enrollments       []Enrollment
	CurrentEnrollment *Enrollment
	CourseProgress    map[string]CourseProgress
	IsLoading         bool
	IsSuccess         bool
	IsError           bool
	Error             string
	Message           string
}

func isJSONString(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == '"'
}
