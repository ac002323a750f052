package authoring

import (
	"github.com/google/uuid"

	"github.com/darasa/darasa-client/core/catalog"
)

// Upload states
const (
	UploadIdle      UploadState = "idle"
	UploadInFlight  UploadState = "uploading"
	UploadCompleted UploadState = "completed"
	UploadFailed    UploadState = "failed"
	UploadCancelled UploadState = "cancelled"
)

// Wizard steps an Issue points the UI at.
const (
	StepDetails    = "details"
	StepMedia      = "media"
	StepCurriculum = "curriculum"
)

type UploadState string

// Issue is a blocking validation failure; Step names the wizard step holding
// the offending field.
type Issue struct {
	Step    string
	Field   string
	Message string
}

// DraftQuestion is one quiz question under construction.
type DraftQuestion struct {
	ID            string // client-local, never submitted
	Prompt        string
	Options       []string
	CorrectAnswer int
}

// DraftLesson is one lesson under construction. The type-specific payload
// lives in Video, ReadingContent or Questions, matching Type.
type DraftLesson struct {
	ID             string // client-local, never submitted
	Title          string
	Description    string
	Type           catalog.LessonType
	Duration       int // minutes
	ReadingContent string
	Questions      []DraftQuestion
	Resources      []string
	Video          *catalog.Media

	UploadState    UploadState
	UploadProgress int // 0-100, meaningful while uploading
	UploadError    string
}

type DraftModule struct {
	ID          string // client-local, never submitted
	Title       string
	Description string
	Lessons     []DraftLesson
}

// Draft is the ephemeral, client-only course tree. It owns no server
// resources until submission.
type Draft struct {
	Title                    string
	Description              string
	Category                 catalog.Category
	Level                    catalog.Level
	Price                    float64
	Thumbnail                *catalog.Media
	ThumbnailUpload          UploadState
	Requirements             []string
	LearningOutcomes         []string
	EnableSequentialLearning bool
	Modules                  []DraftModule
}

func newLocalID() string { return uuid.NewString() }

func newDraftLesson(typ catalog.LessonType) DraftLesson {
	return DraftLesson{
		ID:          newLocalID(),
		Type:        typ,
		UploadState: UploadIdle,
	}
}

func newDraftModule() DraftModule {
	return DraftModule{ID: newLocalID()}
}

func newDraftQuestion() DraftQuestion {
	return DraftQuestion{
		ID:      newLocalID(),
		Options: make([]string, 4),
	}
}
