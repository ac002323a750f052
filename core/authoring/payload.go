package authoring

import (
	"strings"

	"github.com/darasa/darasa-client/core/catalog"
)

// SubmissionPayload converts the draft into the catalog's create payload.
// It is a pure transform: text fields are trimmed, module and lesson order
// is re-derived from current array position, and client-only fields (local
// ids, upload bookkeeping) are omitted entirely.
func (svc *Service) SubmissionPayload() catalog.CreateCourseData {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	d := &svc.draft

	payload := catalog.CreateCourseData{
		Title:                    strings.TrimSpace(d.Title),
		Description:              strings.TrimSpace(d.Description),
		Category:                 d.Category,
		Level:                    d.Level,
		Price:                    d.Price,
		Requirements:             trimAll(d.Requirements),
		LearningOutcomes:         trimAll(d.LearningOutcomes),
		EnableSequentialLearning: d.EnableSequentialLearning,
	}
	if d.Thumbnail != nil {
		thumb := *d.Thumbnail
		payload.Thumbnail = &thumb
	}

	payload.Modules = make([]catalog.Module, len(d.Modules))
	for m, mod := range d.Modules {
		out := catalog.Module{
			Title:       strings.TrimSpace(mod.Title),
			Description: strings.TrimSpace(mod.Description),
			Order:       m + 1,
			Lessons:     make([]catalog.Lesson, len(mod.Lessons)),
		}
		for l, lsn := range mod.Lessons {
			outLsn := catalog.Lesson{
				Title:       strings.TrimSpace(lsn.Title),
				Description: strings.TrimSpace(lsn.Description),
				Type:        lsn.Type,
				Duration:    lsn.Duration,
				Order:       l + 1,
				Resources:   trimAll(lsn.Resources),
			}
			switch lsn.Type {
			case catalog.LessonVideo:
				if lsn.Video != nil {
					video := *lsn.Video
					outLsn.Video = &video
				}
			case catalog.LessonReading:
				outLsn.ReadingContent = strings.TrimSpace(lsn.ReadingContent)
			case catalog.LessonQuiz:
				outLsn.Questions = make([]catalog.QuizQuestion, len(lsn.Questions))
				for q, qst := range lsn.Questions {
					outLsn.Questions[q] = catalog.QuizQuestion{
						Prompt:        strings.TrimSpace(qst.Prompt),
						Options:       trimAll(qst.Options),
						CorrectAnswer: qst.CorrectAnswer,
					}
				}
			}
			out.Lessons[l] = outLsn
		}
		payload.Modules[m] = out
	}
	return payload
}

func trimAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
