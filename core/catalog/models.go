package catalog

import (
	"net/url"
	"strconv"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/darasa/darasa-client/core/session"
)

// Lesson types
const (
	LessonVideo      LessonType = "video"
	LessonQuiz       LessonType = "quiz"
	LessonReading    LessonType = "reading"
	LessonAssignment LessonType = "assignment"
)

// Course levels
const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Course categories
const (
	CategoryProgramming   Category = "programming"
	CategoryWebDev        Category = "web_dev"
	CategoryMobileDev     Category = "mobile_dev"
	CategoryDataScience   Category = "data_science"
	CategoryAIML          Category = "ai_ml"
	CategoryCybersecurity Category = "cybersecurity"
	CategoryCloud         Category = "cloud"
	CategoryDevOps        Category = "devops"
	CategoryUIUX          Category = "ui_ux"
	CategoryBusiness      Category = "business"
	CategoryOther         Category = "other"
)

var (
	LessonTypes = []LessonType{LessonVideo, LessonQuiz, LessonReading, LessonAssignment}
	Levels      = []Level{LevelBeginner, LevelIntermediate, LevelAdvanced}
	Categories  = []Category{
		CategoryProgramming, CategoryWebDev, CategoryMobileDev, CategoryDataScience,
		CategoryAIML, CategoryCybersecurity, CategoryCloud, CategoryDevOps,
		CategoryUIUX, CategoryBusiness, CategoryOther,
	}
)

type (
	LessonType string
	Level      string
	Category   string
)

func (t LessonType) Valid() bool {
	for _, known := range LessonTypes {
		if t == known {
			return true
		}
	}
	return false
}

func (l Level) Valid() bool {
	for _, known := range Levels {
		if l == known {
			return true
		}
	}
	return false
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Media references an uploaded asset.
type Media struct {
	URL          string `json:"url"`
	PublicID     string `json:"publicId"`
	ResourceType string `json:"resourceType"`
	Format       string `json:"format"`
	Size         int64  `json:"size"`
}

type QuizQuestion struct {
	Prompt        string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// Lesson is the unit of consumption. Exactly one of Video, ReadingContent or
// Questions is populated, matching Type.
type Lesson struct {
	ID             string         `json:"_id,omitempty"`
	Title          string         `json:"title"`
	Description    string         `json:"description,omitempty"`
	Type           LessonType     `json:"type"`
	Duration       int            `json:"duration,omitempty"` // minutes
	Order          int            `json:"order"`
	Video          *Media         `json:"video,omitempty"`
	ReadingContent string         `json:"readingContent,omitempty"`
	Questions      []QuizQuestion `json:"questions,omitempty"`
	Resources      []string       `json:"resources,omitempty"`
	CreatedAt      null.Time      `json:"createdAt,omitempty"`
	UpdatedAt      null.Time      `json:"updatedAt,omitempty"`
}

type Module struct {
	ID          string    `json:"_id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Order       int       `json:"order"`
	Lessons     []Lesson  `json:"lessons"`
	CreatedAt   null.Time `json:"createdAt,omitempty"`
	UpdatedAt   null.Time `json:"updatedAt,omitempty"`
}

// Instructor is the embedded author summary carried on catalog responses.
type Instructor struct {
	ID           string `json:"_id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	ProfileImage string `json:"profileImage,omitempty"`
	Bio          string `json:"bio,omitempty"`
}

func InstructorFromUser(usr session.User) Instructor {
	return Instructor{
		ID:           usr.ID,
		FirstName:    usr.FirstName,
		LastName:     usr.LastName,
		Email:        usr.Email,
		ProfileImage: usr.ProfileImage,
		Bio:          usr.Bio,
	}
}

type Course struct {
	ID                       string       `json:"_id"`
	Title                    string       `json:"title"`
	Description              string       `json:"description"`
	Thumbnail                *Media       `json:"thumbnail,omitempty"`
	Instructor               Instructor   `json:"instructor"`
	Category                 Category     `json:"category"`
	Level                    Level        `json:"level"`
	Price                    float64      `json:"price"` // 0 = free
	Modules                  []Module     `json:"modules"`
	Requirements             []string     `json:"requirements,omitempty"`
	LearningOutcomes         []string     `json:"learningOutcomes,omitempty"`
	EnableSequentialLearning bool         `json:"enableSequentialLearning"`
	TotalDuration            int          `json:"totalDuration,omitempty"`
	TotalLessons             int          `json:"totalLessons,omitempty"`
	EnrollmentCount          int          `json:"enrollmentCount"`
	Rating                   null.Float64 `json:"rating,omitempty"` // 0-5
	IsPublished              bool         `json:"isPublished"`
	CreatedAt                time.Time    `json:"createdAt"`
	UpdatedAt                time.Time    `json:"updatedAt"`
}

func (c Course) IsFree() bool { return c.Price == 0 }

// CreateCourseData is the create payload assembled by the authoring workflow.
type CreateCourseData struct {
	Title                    string   `json:"title" validate:"required"`
	Description              string   `json:"description" validate:"required"`
	Category                 Category `json:"category" validate:"required,coursecategory"`
	Level                    Level    `json:"level" validate:"required,courselevel"`
	Price                    float64  `json:"price" validate:"gte=0"`
	Thumbnail                *Media   `json:"thumbnail,omitempty"`
	Modules                  []Module `json:"modules" validate:"required,min=1"`
	Requirements             []string `json:"requirements,omitempty"`
	LearningOutcomes         []string `json:"learningOutcomes,omitempty"`
	EnableSequentialLearning bool     `json:"enableSequentialLearning,omitempty"`
}

// UpdateCourseData defines what may be provided to modify an existing course;
// nil fields are left untouched server-side.
type UpdateCourseData struct {
	Title                    *string   `json:"title,omitempty"`
	Description              *string   `json:"description,omitempty"`
	Category                 *Category `json:"category,omitempty" validate:"omitempty,coursecategory"`
	Level                    *Level    `json:"level,omitempty" validate:"omitempty,courselevel"`
	Price                    *float64  `json:"price,omitempty" validate:"omitempty,gte=0"`
	Thumbnail                *Media    `json:"thumbnail,omitempty"`
	Modules                  []Module  `json:"modules,omitempty"`
	Requirements             []string  `json:"requirements,omitempty"`
	LearningOutcomes         []string  `json:"learningOutcomes,omitempty"`
	EnableSequentialLearning *bool     `json:"enableSequentialLearning,omitempty"`
}

// Filters narrows the public catalog listing. The zero value lists everything.
type Filters struct {
	Category Category
	Level    Level
	Search   string
	Page     int
	Limit    int
}

func (f Filters) Values() url.Values {
	v := make(url.Values)
	if f.Category != "" {
		v.Set("category", string(f.Category))
	}
	if f.Level != "" {
		v.Set("level", string(f.Level))
	}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	return v
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// ListResponse is the paginated catalog slice; each page replaces the
// previous one wholesale.
type ListResponse struct {
	Courses    []Course   `json:"courses"`
	Pagination Pagination `json:"pagination"`
}

// State is the externally observable catalog snapshot.
type State struct {
	Courses       []Course
	CurrentCourse *Course
	MyCourses     []Course
	Pagination    *Pagination
	IsLoading     bool
	IsSuccess     bool
	IsError       bool
	Error         string
	Message       string
}
