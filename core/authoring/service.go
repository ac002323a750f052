package authoring

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/darasa/darasa-client/core"
	"github.com/darasa/darasa-client/core/catalog"
)

var (
	ErrModuleNotFound  = errors.New("module not found")
	ErrLessonNotFound  = errors.New("lesson not found")
	ErrNotVideoLesson  = errors.New("not a video lesson")
	ErrNotQuizLesson   = errors.New("not a quiz lesson")
	ErrUploadInFlight  = errors.New("upload already in progress")
	ErrNoUploadRunning = errors.New("no upload in progress")
)

type (
	// Uploader pushes media to the remote API. The gateway implements it.
	Uploader interface {
		UploadImage(ctx context.Context, file io.Reader, filename string, size int64) (catalog.Media, error)
		UploadVideo(ctx context.Context, file io.Reader, filename string, size int64, onProgress func(percent int)) (catalog.Media, error)
		DeleteUpload(ctx context.Context, publicID string) error
	}

	// Service is the course-authoring staging area. It never talks to the
	// catalog; the draft is converted into the catalog's create payload at
	// submission time and discarded afterwards.
	Service struct {
		uploader Uploader
		log      core.Logger

		mu      sync.Mutex
		draft   Draft
		cancels map[string]context.CancelFunc // keyed by lesson id
	}
)

func NewService(uploader Uploader, log core.Logger) *Service {
	return &Service{
		uploader: uploader,
		log:      log,
		cancels:  make(map[string]context.CancelFunc),
	}
}

// Draft returns a deep copy of the staging tree.
func (svc *Service) Draft() Draft {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return copyDraft(svc.draft)
}

// Details setters (synchronous, local only).

func (svc *Service) SetTitle(title string) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.draft.Title = title
}

func (svc *Service) SetDescription(description string) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.draft.Description = description
}

func (svc *Service) SetCategory(category catalog.Category) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.draft.Category = category
}

func (svc *Service) SetLevel(level catalog.Level) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.draft.Level = level
}

func (svc *Service) SetPrice(price float64) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.draft.Price = price
}

func (svc *Service) SetRequirements(reqs []string) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.draft.Requirements = append([]string(nil), reqs...)
}

func (svc *Service) SetLearningOutcomes(outcomes []string) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.draft.LearningOutcomes = append([]string(nil), outcomes...)
}

func (svc *Service) SetSequentialLearning(enabled bool) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.draft.EnableSequentialLearning = enabled
}

// Modules

func (svc *Service) AddModule(title string) string {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	mod := newDraftModule()
	mod.Title = title
	svc.draft.Modules = append(svc.draft.Modules, mod)
	return mod.ID
}

func (svc *Service) UpdateModule(moduleID, title, description string) bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	mod := svc.findModule(moduleID)
	if mod == nil {
		return false
	}
	mod.Title = title
	mod.Description = description
	return true
}

// RemoveModule drops the module and cancels any uploads still running for
// its lessons.
func (svc *Service) RemoveModule(moduleID string) bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	for i, mod := range svc.draft.Modules {
		if mod.ID != moduleID {
			continue
		}
		for _, lsn := range mod.Lessons {
			svc.cancelLocked(lsn.ID)
		}
		svc.draft.Modules = append(svc.draft.Modules[:i], svc.draft.Modules[i+1:]...)
		return true
	}
	return false
}

// MoveModule repositions a module; order is re-derived from array position
// at submission.
func (svc *Service) MoveModule(moduleID string, index int) bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	for i, mod := range svc.draft.Modules {
		if mod.ID != moduleID {
			continue
		}
		if index < 0 || index >= len(svc.draft.Modules) {
			return false
		}
		svc.draft.Modules = append(svc.draft.Modules[:i], svc.draft.Modules[i+1:]...)
		rest := append([]DraftModule{mod}, svc.draft.Modules[index:]...)
		svc.draft.Modules = append(svc.draft.Modules[:index], rest...)
		return true
	}
	return false
}

// Lessons

func (svc *Service) AddLesson(moduleID string, typ catalog.LessonType) (string, error) {
	if !typ.Valid() {
		return "", errors.New("unknown lesson type")
	}
	svc.mu.Lock()
	defer svc.mu.Unlock()
	mod := svc.findModule(moduleID)
	if mod == nil {
		return "", ErrModuleNotFound
	}
	lsn := newDraftLesson(typ)
	mod.Lessons = append(mod.Lessons, lsn)
	return lsn.ID, nil
}

// LessonUpdate carries the editable lesson fields; nil leaves a field as-is.
type LessonUpdate struct {
	Title          *string
	Description    *string
	Duration       *int
	ReadingContent *string
	Resources      []string
}

func (svc *Service) UpdateLesson(lessonID string, upd LessonUpdate) bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	lsn := svc.findLesson(lessonID)
	if lsn == nil {
		return false
	}
	if upd.Title != nil {
		lsn.Title = *upd.Title
	}
	if upd.Description != nil {
		lsn.Description = *upd.Description
	}
	if upd.Duration != nil {
		lsn.Duration = *upd.Duration
	}
	if upd.ReadingContent != nil {
		lsn.ReadingContent = *upd.ReadingContent
	}
	if upd.Resources != nil {
		lsn.Resources = append([]string(nil), upd.Resources...)
	}
	return true
}

// RemoveLesson drops the lesson, cancelling its upload if one is running.
func (svc *Service) RemoveLesson(lessonID string) bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	for m := range svc.draft.Modules {
		mod := &svc.draft.Modules[m]
		for i, lsn := range mod.Lessons {
			if lsn.ID != lessonID {
				continue
			}
			svc.cancelLocked(lessonID)
			mod.Lessons = append(mod.Lessons[:i], mod.Lessons[i+1:]...)
			return true
		}
	}
	return false
}

func (svc *Service) MoveLesson(lessonID string, index int) bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	for m := range svc.draft.Modules {
		mod := &svc.draft.Modules[m]
		for i, lsn := range mod.Lessons {
			if lsn.ID != lessonID {
				continue
			}
			if index < 0 || index >= len(mod.Lessons) {
				return false
			}
			mod.Lessons = append(mod.Lessons[:i], mod.Lessons[i+1:]...)
			rest := append([]DraftLesson{lsn}, mod.Lessons[index:]...)
			mod.Lessons = append(mod.Lessons[:index], rest...)
			return true
		}
	}
	return false
}

// Quiz questions

func (svc *Service) AddQuestion(lessonID string) (string, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	lsn := svc.findLesson(lessonID)
	if lsn == nil {
		return "", ErrLessonNotFound
	}
	if lsn.Type != catalog.LessonQuiz {
		return "", ErrNotQuizLesson
	}
	q := newDraftQuestion()
	lsn.Questions = append(lsn.Questions, q)
	return q.ID, nil
}

func (svc *Service) UpdateQuestion(lessonID, questionID, prompt string, options []string, correctAnswer int) bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	lsn := svc.findLesson(lessonID)
	if lsn == nil {
		return false
	}
	for i := range lsn.Questions {
		if lsn.Questions[i].ID != questionID {
			continue
		}
		lsn.Questions[i].Prompt = prompt
		lsn.Questions[i].Options = append([]string(nil), options...)
		lsn.Questions[i].CorrectAnswer = correctAnswer
		return true
	}
	return false
}

func (svc *Service) RemoveQuestion(lessonID, questionID string) bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	lsn := svc.findLesson(lessonID)
	if lsn == nil {
		return false
	}
	for i := range lsn.Questions {
		if lsn.Questions[i].ID == questionID {
			lsn.Questions = append(lsn.Questions[:i], lsn.Questions[i+1:]...)
			return true
		}
	}
	return false
}

// Uploads

// UploadThumbnail pushes the course thumbnail and records the resulting
// media reference on the draft.
func (svc *Service) UploadThumbnail(ctx context.Context, file io.Reader, filename string, size int64) error {
	svc.mu.Lock()
	if svc.draft.ThumbnailUpload == UploadInFlight {
		svc.mu.Unlock()
		return ErrUploadInFlight
	}
	svc.draft.ThumbnailUpload = UploadInFlight
	svc.mu.Unlock()

	media, err := svc.uploader.UploadImage(ctx, file, filename, size)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if err != nil {
		svc.draft.ThumbnailUpload = UploadFailed
		return err
	}
	svc.draft.Thumbnail = &media
	svc.draft.ThumbnailUpload = UploadCompleted
	return nil
}

// UploadLessonVideo runs the video upload for one lesson, streaming progress
// into the draft. The transition graph is
// idle -> uploading -> completed | failed | cancelled; while any lesson is
// uploading the draft cannot validate, which blocks submission.
func (svc *Service) UploadLessonVideo(ctx context.Context, lessonID string, file io.Reader, filename string, size int64) error {
	svc.mu.Lock()
	lsn := svc.findLesson(lessonID)
	if lsn == nil {
		svc.mu.Unlock()
		return ErrLessonNotFound
	}
	if lsn.Type != catalog.LessonVideo {
		svc.mu.Unlock()
		return ErrNotVideoLesson
	}
	if lsn.UploadState == UploadInFlight {
		svc.mu.Unlock()
		return ErrUploadInFlight
	}
	ctx, cancel := context.WithCancel(ctx)
	svc.cancels[lessonID] = cancel
	lsn.UploadState = UploadInFlight
	lsn.UploadProgress = 0
	lsn.UploadError = ""
	svc.mu.Unlock()

	media, err := svc.uploader.UploadVideo(ctx, file, filename, size, func(percent int) {
		svc.setUploadProgress(lessonID, percent)
	})

	svc.mu.Lock()
	defer svc.mu.Unlock()
	delete(svc.cancels, lessonID)
	cancel()

	lsn = svc.findLesson(lessonID)
	if lsn == nil {
		// lesson was removed mid-upload; nothing to record
		return err
	}
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		lsn.UploadState = UploadCancelled
		lsn.UploadProgress = 0
		return ctx.Err()
	case err != nil:
		lsn.UploadState = UploadFailed
		lsn.UploadError = core.ErrorMessage(err, "Upload failed")
		return err
	default:
		lsn.Video = &media
		lsn.UploadState = UploadCompleted
		lsn.UploadProgress = 100
		return nil
	}
}

// CancelUpload aborts an in-flight lesson video upload.
func (svc *Service) CancelUpload(lessonID string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if cancel, ok := svc.cancels[lessonID]; ok {
		cancel()
		return nil
	}
	return ErrNoUploadRunning
}

// UploadsInFlight reports whether any upload is still running; submission is
// blocked while it returns true.
func (svc *Service) UploadsInFlight() bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.draft.ThumbnailUpload == UploadInFlight {
		return true
	}
	return len(svc.cancels) > 0
}

// Discard drops the whole draft, cancelling anything still uploading. The
// draft owns no server resources, so there is nothing remote to clean up.
func (svc *Service) Discard() {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	for _, cancel := range svc.cancels {
		cancel()
	}
	svc.cancels = make(map[string]context.CancelFunc)
	svc.draft = Draft{}
}

func (svc *Service) setUploadProgress(lessonID string, percent int) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if lsn := svc.findLesson(lessonID); lsn != nil && lsn.UploadState == UploadInFlight {
		lsn.UploadProgress = percent
	}
}

// cancelLocked aborts an upload for a lesson being removed. Caller must hold
// the lock.
func (svc *Service) cancelLocked(lessonID string) {
	if cancel, ok := svc.cancels[lessonID]; ok {
		cancel()
		delete(svc.cancels, lessonID)
	}
}

func (svc *Service) findModule(moduleID string) *DraftModule {
	for i := range svc.draft.Modules {
		if svc.draft.Modules[i].ID == moduleID {
			return &svc.draft.Modules[i]
		}
	}
	return nil
}

func (svc *Service) findLesson(lessonID string) *DraftLesson {
	for m := range svc.draft.Modules {
		for l := range svc.draft.Modules[m].Lessons {
			if svc.draft.Modules[m].Lessons[l].ID == lessonID {
				return &svc.draft.Modules[m].Lessons[l]
			}
		}
	}
	return nil
}

func copyDraft(d Draft) Draft {
	out := d
	if d.Thumbnail != nil {
		thumb := *d.Thumbnail
		out.Thumbnail = &thumb
	}
	out.Requirements = append([]string(nil), d.Requirements...)
	out.LearningOutcomes = append([]string(nil), d.LearningOutcomes...)
	out.Modules = make([]DraftModule, len(d.Modules))
	for m, mod := range d.Modules {
		cm := mod
		cm.Lessons = make([]DraftLesson, len(mod.Lessons))
		for l, lsn := range mod.Lessons {
			cl := lsn
			if lsn.Video != nil {
				video := *lsn.Video
				cl.Video = &video
			}
			cl.Resources = append([]string(nil), lsn.Resources...)
			cl.Questions = make([]DraftQuestion, len(lsn.Questions))
			for q, qst := range lsn.Questions {
				cq := qst
				cq.Options = append([]string(nil), qst.Options...)
				cl.Questions[q] = cq
			}
			cm.Lessons[l] = cl
		}
		out.Modules[m] = cm
	}
	return out
}
