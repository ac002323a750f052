package authoring

import (
	"strings"

	"github.com/darasa/darasa-client/core/catalog"
)

// Validate checks the draft against the submission rules in a fixed order
// and reports only the first failing one: the step wizard can focus a single
// step at a time, so collecting every failure buys nothing.
func (svc *Service) Validate() *Issue {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	d := &svc.draft

	if strings.TrimSpace(d.Title) == "" {
		return &Issue{Step: StepDetails, Field: "title", Message: "course title is required"}
	}
	if strings.TrimSpace(d.Description) == "" {
		return &Issue{Step: StepDetails, Field: "description", Message: "course description is required"}
	}
	if !d.Category.Valid() {
		return &Issue{Step: StepDetails, Field: "category", Message: "select a course category"}
	}
	if !d.Level.Valid() {
		return &Issue{Step: StepDetails, Field: "level", Message: "select a course level"}
	}
	if d.Price < 0 {
		return &Issue{Step: StepDetails, Field: "price", Message: "price cannot be negative"}
	}
	if d.Thumbnail == nil || d.ThumbnailUpload == UploadInFlight {
		return &Issue{Step: StepMedia, Field: "thumbnail", Message: "upload a course thumbnail"}
	}
	if len(d.Modules) == 0 {
		return &Issue{Step: StepCurriculum, Field: "modules", Message: "add at least one module"}
	}
	for _, mod := range d.Modules {
		if strings.TrimSpace(mod.Title) == "" {
			return &Issue{Step: StepCurriculum, Field: "module.title", Message: "every module needs a title"}
		}
	}
	var lessonCount int
	for _, mod := range d.Modules {
		lessonCount += len(mod.Lessons)
	}
	if lessonCount == 0 {
		return &Issue{Step: StepCurriculum, Field: "lessons", Message: "add at least one lesson"}
	}
	for _, mod := range d.Modules {
		for _, lsn := range mod.Lessons {
			if strings.TrimSpace(lsn.Title) == "" {
				return &Issue{Step: StepCurriculum, Field: "lesson.title", Message: "every lesson needs a title"}
			}
		}
	}
	for _, mod := range d.Modules {
		for _, lsn := range mod.Lessons {
			if lsn.Type == catalog.LessonVideo && (lsn.Video == nil || lsn.UploadState == UploadInFlight) {
				return &Issue{Step: StepCurriculum, Field: "lesson.video", Message: "every video lesson needs an uploaded video"}
			}
		}
	}
	for _, mod := range d.Modules {
		for _, lsn := range mod.Lessons {
			if lsn.Type == catalog.LessonReading && strings.TrimSpace(lsn.ReadingContent) == "" {
				return &Issue{Step: StepCurriculum, Field: "lesson.readingContent", Message: "every reading lesson needs content"}
			}
		}
	}
	for _, mod := range d.Modules {
		for _, lsn := range mod.Lessons {
			if lsn.Type == catalog.LessonQuiz && len(lsn.Questions) == 0 {
				return &Issue{Step: StepCurriculum, Field: "lesson.questions", Message: "every quiz needs at least one question"}
			}
		}
	}
	for _, mod := range d.Modules {
		for _, lsn := range mod.Lessons {
			for _, q := range lsn.Questions {
				if strings.TrimSpace(q.Prompt) == "" {
					return &Issue{Step: StepCurriculum, Field: "question.prompt", Message: "every question needs a prompt"}
				}
				for _, opt := range q.Options {
					if strings.TrimSpace(opt) == "" {
						return &Issue{Step: StepCurriculum, Field: "question.options", Message: "every question option must be filled in"}
					}
				}
			}
		}
	}
	return nil
}
