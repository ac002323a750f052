package authoring

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darasa/darasa-client/core/catalog"
)

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

// fakeUploader scripts upload outcomes; videoFn gets full control when the
// test needs to block, fail or report progress mid-flight.
type fakeUploader struct {
	videoFn func(ctx context.Context, onProgress func(int)) (catalog.Media, error)

	media catalog.Media
	err   error
}

var _ Uploader = (*fakeUploader)(nil)

func (f *fakeUploader) UploadImage(context.Context, io.Reader, string, int64) (catalog.Media, error) {
	return f.media, f.err
}

func (f *fakeUploader) UploadVideo(ctx context.Context, _ io.Reader, _ string, _ int64, onProgress func(int)) (catalog.Media, error) {
	if f.videoFn != nil {
		return f.videoFn(ctx, onProgress)
	}
	return f.media, f.err
}

func (f *fakeUploader) DeleteUpload(context.Context, string) error { return f.err }

func setup() (*Service, *fakeUploader) {
	up := &fakeUploader{media: catalog.Media{URL: "https://cdn.test/a", PublicID: "a"}}
	return NewService(up, nopLogger{}), up
}

func addVideoLesson(t *testing.T, svc *Service, moduleID string) string {
	t.Helper()
	id, err := svc.AddLesson(moduleID, catalog.LessonVideo)
	require.NoError(t, err)
	return id
}

func Test_Service_Modules(t *testing.T) {
	svc, _ := setup()

	m1 := svc.AddModule("Basics")
	m2 := svc.AddModule("Advanced")
	m3 := svc.AddModule("Wrap-up")

	t.Run("update", func(t *testing.T) {
		require.True(t, svc.UpdateModule(m2, "Advanced topics", "deep dives"))
		assert.False(t, svc.UpdateModule("nope", "x", ""))

		d := svc.Draft()
		assert.Equal(t, "Advanced topics", d.Modules[1].Title)
		assert.Equal(t, "deep dives", d.Modules[1].Description)
	})

	t.Run("move to front", func(t *testing.T) {
		require.True(t, svc.MoveModule(m3, 0))
		d := svc.Draft()
		assert.Equal(t, []string{m3, m1, m2}, []string{d.Modules[0].ID, d.Modules[1].ID, d.Modules[2].ID})
	})

	t.Run("move out of range", func(t *testing.T) {
		assert.False(t, svc.MoveModule(m1, 3))
		assert.False(t, svc.MoveModule(m1, -1))
	})

	t.Run("remove", func(t *testing.T) {
		require.True(t, svc.RemoveModule(m3))
		assert.Len(t, svc.Draft().Modules, 2)
		assert.False(t, svc.RemoveModule(m3))
	})
}

func Test_Service_Lessons(t *testing.T) {
	svc, _ := setup()
	mod := svc.AddModule("Basics")

	t.Run("unknown lesson type", func(t *testing.T) {
		_, err := svc.AddLesson(mod, catalog.LessonType("podcast"))
		assert.Error(t, err)
	})

	t.Run("unknown module", func(t *testing.T) {
		_, err := svc.AddLesson("nope", catalog.LessonReading)
		assert.ErrorIs(t, err, ErrModuleNotFound)
	})

	l1, err := svc.AddLesson(mod, catalog.LessonReading)
	require.NoError(t, err)
	l2, err := svc.AddLesson(mod, catalog.LessonQuiz)
	require.NoError(t, err)

	t.Run("partial update leaves other fields alone", func(t *testing.T) {
		title := "Introduction"
		require.True(t, svc.UpdateLesson(l1, LessonUpdate{Title: &title}))
		content := "read this"
		require.True(t, svc.UpdateLesson(l1, LessonUpdate{ReadingContent: &content}))

		lsn := svc.Draft().Modules[0].Lessons[0]
		assert.Equal(t, "Introduction", lsn.Title)
		assert.Equal(t, "read this", lsn.ReadingContent)
	})

	t.Run("move within the module", func(t *testing.T) {
		require.True(t, svc.MoveLesson(l2, 0))
		lessons := svc.Draft().Modules[0].Lessons
		assert.Equal(t, l2, lessons[0].ID)
		assert.Equal(t, l1, lessons[1].ID)
	})

	t.Run("remove", func(t *testing.T) {
		require.True(t, svc.RemoveLesson(l2))
		assert.Len(t, svc.Draft().Modules[0].Lessons, 1)
		assert.False(t, svc.RemoveLesson(l2))
	})
}

func Test_Service_Questions(t *testing.T) {
	svc, _ := setup()
	mod := svc.AddModule("Basics")
	quiz, err := svc.AddLesson(mod, catalog.LessonQuiz)
	require.NoError(t, err)
	reading, err := svc.AddLesson(mod, catalog.LessonReading)
	require.NoError(t, err)

	t.Run("only quiz lessons take questions", func(t *testing.T) {
		_, err := svc.AddQuestion(reading)
		assert.ErrorIs(t, err, ErrNotQuizLesson)
	})

	q1, err := svc.AddQuestion(quiz)
	require.NoError(t, err)

	t.Run("new question starts with four blank options", func(t *testing.T) {
		questions := svc.Draft().Modules[0].Lessons[0].Questions
		require.Len(t, questions, 1)
		assert.Len(t, questions[0].Options, 4)
	})

	t.Run("update and remove", func(t *testing.T) {
		require.True(t, svc.UpdateQuestion(quiz, q1, "2+2?", []string{"3", "4", "5", "6"}, 1))
		q := svc.Draft().Modules[0].Lessons[0].Questions[0]
		assert.Equal(t, "2+2?", q.Prompt)
		assert.Equal(t, 1, q.CorrectAnswer)

		require.True(t, svc.RemoveQuestion(quiz, q1))
		assert.Empty(t, svc.Draft().Modules[0].Lessons[0].Questions)
	})
}

func Test_Service_UploadLessonVideo(t *testing.T) {
	ctx := context.Background()
	file := func() io.Reader { return strings.NewReader("video-bytes") }

	t.Run("completes and records the media", func(t *testing.T) {
		svc, up := setup()
		mod := svc.AddModule("Basics")
		lsn := addVideoLesson(t, svc, mod)
		up.videoFn = func(_ context.Context, onProgress func(int)) (catalog.Media, error) {
			onProgress(50)
			onProgress(100)
			return up.media, nil
		}

		require.NoError(t, svc.UploadLessonVideo(ctx, lsn, file(), "intro.mp4", 11))

		got := svc.Draft().Modules[0].Lessons[0]
		assert.Equal(t, UploadCompleted, got.UploadState)
		assert.Equal(t, 100, got.UploadProgress)
		require.NotNil(t, got.Video)
		assert.Equal(t, "a", got.Video.PublicID)
	})

	t.Run("failure keeps the error message", func(t *testing.T) {
		svc, up := setup()
		mod := svc.AddModule("Basics")
		lsn := addVideoLesson(t, svc, mod)
		up.err = assert.AnError

		require.Error(t, svc.UploadLessonVideo(ctx, lsn, file(), "intro.mp4", 11))

		got := svc.Draft().Modules[0].Lessons[0]
		assert.Equal(t, UploadFailed, got.UploadState)
		assert.NotEmpty(t, got.UploadError)
	})

	t.Run("cancel mid-flight", func(t *testing.T) {
		svc, up := setup()
		mod := svc.AddModule("Basics")
		lsn := addVideoLesson(t, svc, mod)

		started := make(chan struct{})
		up.videoFn = func(ctx context.Context, onProgress func(int)) (catalog.Media, error) {
			onProgress(30)
			close(started)
			<-ctx.Done()
			return catalog.Media{}, ctx.Err()
		}

		var wg sync.WaitGroup
		wg.Add(1)
		var uploadErr error
		go func() {
			defer wg.Done()
			uploadErr = svc.UploadLessonVideo(context.Background(), lsn, file(), "intro.mp4", 11)
		}()

		<-started
		assert.True(t, svc.UploadsInFlight())
		require.NoError(t, svc.CancelUpload(lsn))
		wg.Wait()

		assert.ErrorIs(t, uploadErr, context.Canceled)
		got := svc.Draft().Modules[0].Lessons[0]
		assert.Equal(t, UploadCancelled, got.UploadState)
		assert.Zero(t, got.UploadProgress)
		assert.False(t, svc.UploadsInFlight())
	})

	t.Run("cancel with nothing running", func(t *testing.T) {
		svc, _ := setup()
		assert.ErrorIs(t, svc.CancelUpload("nope"), ErrNoUploadRunning)
	})

	t.Run("second upload for the same lesson is rejected", func(t *testing.T) {
		svc, up := setup()
		mod := svc.AddModule("Basics")
		lsn := addVideoLesson(t, svc, mod)

		started := make(chan struct{})
		release := make(chan struct{})
		up.videoFn = func(context.Context, func(int)) (catalog.Media, error) {
			close(started)
			<-release
			return up.media, nil
		}

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = svc.UploadLessonVideo(context.Background(), lsn, file(), "intro.mp4", 11)
		}()

		<-started
		err := svc.UploadLessonVideo(ctx, lsn, file(), "intro.mp4", 11)
		assert.ErrorIs(t, err, ErrUploadInFlight)
		close(release)
		wg.Wait()
	})

	t.Run("non-video lesson is rejected", func(t *testing.T) {
		svc, _ := setup()
		mod := svc.AddModule("Basics")
		reading, err := svc.AddLesson(mod, catalog.LessonReading)
		require.NoError(t, err)

		assert.ErrorIs(t, svc.UploadLessonVideo(ctx, reading, file(), "intro.mp4", 11), ErrNotVideoLesson)
	})

	t.Run("lesson removed mid-upload is tolerated", func(t *testing.T) {
		svc, up := setup()
		mod := svc.AddModule("Basics")
		lsn := addVideoLesson(t, svc, mod)

		started := make(chan struct{})
		up.videoFn = func(ctx context.Context, _ func(int)) (catalog.Media, error) {
			close(started)
			<-ctx.Done()
			return catalog.Media{}, ctx.Err()
		}

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = svc.UploadLessonVideo(context.Background(), lsn, file(), "intro.mp4", 11)
		}()

		<-started
		require.True(t, svc.RemoveLesson(lsn)) // cancels the upload on the way out
		wg.Wait()

		assert.Empty(t, svc.Draft().Modules[0].Lessons)
		assert.False(t, svc.UploadsInFlight())
	})
}

func Test_Service_UploadThumbnail(t *testing.T) {
	ctx := context.Background()

	svc, up := setup()
	require.NoError(t, svc.UploadThumbnail(ctx, strings.NewReader("img"), "cover.png", 3))

	d := svc.Draft()
	require.NotNil(t, d.Thumbnail)
	assert.Equal(t, UploadCompleted, d.ThumbnailUpload)

	t.Run("failure marks the state", func(t *testing.T) {
		up.err = assert.AnError
		require.Error(t, svc.UploadThumbnail(ctx, strings.NewReader("img"), "cover.png", 3))
		assert.Equal(t, UploadFailed, svc.Draft().ThumbnailUpload)
	})
}

func Test_Service_Discard(t *testing.T) {
	svc, _ := setup()
	svc.SetTitle("Go from scratch")
	mod := svc.AddModule("Basics")
	_, err := svc.AddLesson(mod, catalog.LessonReading)
	require.NoError(t, err)

	svc.Discard()

	d := svc.Draft()
	assert.Empty(t, d.Title)
	assert.Empty(t, d.Modules)
	assert.False(t, svc.UploadsInFlight())
}

func Test_Service_DraftIsACopy(t *testing.T) {
	svc, _ := setup()
	mod := svc.AddModule("Basics")
	_, err := svc.AddLesson(mod, catalog.LessonReading)
	require.NoError(t, err)

	d := svc.Draft()
	d.Modules[0].Title = "Mutated"
	d.Modules[0].Lessons[0].Title = "Mutated"

	fresh := svc.Draft()
	assert.Equal(t, "Basics", fresh.Modules[0].Title)
	assert.Empty(t, fresh.Modules[0].Lessons[0].Title)
}
