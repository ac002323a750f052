package enrollment

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darasa/darasa-client/core"
)

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

type fakeAPI struct {
	enrollFn func(courseID string) (Enrollment, error)

	enrollment  Enrollment
	enrollments []Enrollment
	progress    CourseProgress
	lesson      LessonProgress
	session     PaymentSession
	err         error

	markCalls int
}

var _ API = (*fakeAPI)(nil)

func (f *fakeAPI) Enroll(_ context.Context, courseID string) (Enrollment, error) {
	if f.enrollFn != nil {
		return f.enrollFn(courseID)
	}
	return f.enrollment, f.err
}

func (f *fakeAPI) MyEnrollments(context.Context) ([]Enrollment, error) {
	return f.enrollments, f.err
}

func (f *fakeAPI) EnrollmentForCourse(context.Context, string) (Enrollment, error) {
	return f.enrollment, f.err
}

func (f *fakeAPI) Unenroll(context.Context, string) error { return f.err }

func (f *fakeAPI) MarkLessonComplete(context.Context, MarkLessonCompleteData) (LessonProgress, error) {
	f.markCalls++
	return f.lesson, f.err
}

func (f *fakeAPI) CourseProgress(context.Context, string) (CourseProgress, error) {
	return f.progress, f.err
}

func (f *fakeAPI) LessonProgress(context.Context, string, string) (LessonProgress, error) {
	return f.lesson, f.err
}

func (f *fakeAPI) CreatePaymentSession(context.Context, string) (PaymentSession, error) {
	return f.session, f.err
}

func (f *fakeAPI) VerifyPayment(context.Context, string) (Enrollment, error) {
	return f.enrollment, f.err
}

func enrollmentFor(id, courseID string) Enrollment {
	return Enrollment{ID: id, Course: CourseRef{ID: courseID}, Status: StatusActive}
}

func Test_Service_Enroll(t *testing.T) {
	ctx := context.Background()

	t.Run("success records the enrollment once", func(t *testing.T) {
		api := &fakeAPI{enrollment: enrollmentFor("e1", "c1")}
		svc := NewService(api, nopLogger{})

		require.NoError(t, svc.Enroll(ctx, "c1"))
		require.NoError(t, svc.Enroll(ctx, "c1")) // server tolerates it; list must not grow

		st := svc.State()
		assert.Len(t, st.Enrollments, 1)
		require.NotNil(t, st.CurrentEnrollment)
		assert.Equal(t, "e1", st.CurrentEnrollment.ID)
		assert.Equal(t, "Enrolled successfully", st.Message)
	})

	t.Run("duplicate conflict leaves the list unchanged", func(t *testing.T) {
		api := &fakeAPI{enrollment: enrollmentFor("e1", "c1")}
		svc := NewService(api, nopLogger{})
		require.NoError(t, svc.Enroll(ctx, "c1"))

		api.err = core.NewConflictError("Already enrolled in this course")
		err := svc.Enroll(ctx, "c1")
		require.Error(t, err)
		assert.True(t, core.IsConflict(err))

		st := svc.State()
		assert.Len(t, st.Enrollments, 1)
		assert.Equal(t, "Already enrolled in this course", st.Error)
	})

	t.Run("concurrent enrolls for one course collapse to one request", func(t *testing.T) {
		release := make(chan struct{})
		started := make(chan struct{})
		api := &fakeAPI{}
		api.enrollFn = func(courseID string) (Enrollment, error) {
			close(started)
			<-release
			return enrollmentFor("e1", courseID), nil
		}
		svc := NewService(api, nopLogger{})

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = svc.Enroll(context.Background(), "c1")
		}()

		<-started
		err := svc.Enroll(context.Background(), "c1")
		assert.ErrorIs(t, err, ErrOperationInFlight)

		close(release)
		wg.Wait()
		assert.Len(t, svc.State().Enrollments, 1)
	})
}

func Test_Service_Unenroll(t *testing.T) {
	ctx := context.Background()

	api := &fakeAPI{enrollments: []Enrollment{enrollmentFor("e1", "c1"), enrollmentFor("e2", "c2")}}
	svc := NewService(api, nopLogger{})
	require.NoError(t, svc.MyEnrollments(ctx))
	api.enrollment = enrollmentFor("e1", "c1")
	require.NoError(t, svc.EnrollmentForCourse(ctx, "c1"))

	require.NoError(t, svc.Unenroll(ctx, "e1"))

	st := svc.State()
	require.Len(t, st.Enrollments, 1)
	assert.Equal(t, "e2", st.Enrollments[0].ID)
	assert.Nil(t, st.CurrentEnrollment)
	assert.Equal(t, "Unenrolled successfully", st.Message)
}

func Test_Service_MarkLessonComplete(t *testing.T) {
	ctx := context.Background()

	data := MarkLessonCompleteData{
		CourseID: "c1",
		ModuleID: "m1",
		LessonID: "l1",
		Status:   ProgressCompleted,
	}

	t.Run("does not touch the cached aggregate", func(t *testing.T) {
		api := &fakeAPI{progress: CourseProgress{Stats: ProgressStats{TotalLessons: 10, CompletedLessons: 4, CompletionPercentage: 40}}}
		svc := NewService(api, nopLogger{})
		require.NoError(t, svc.CourseProgress(ctx, "c1"))

		require.NoError(t, svc.MarkLessonComplete(ctx, data))
		assert.Equal(t, 40.0, svc.State().CourseProgress["c1"].Stats.CompletionPercentage)

		// the follow-up fetch carries the authoritative numbers
		api.progress.Stats = ProgressStats{TotalLessons: 10, CompletedLessons: 5, CompletionPercentage: 50}
		require.NoError(t, svc.CourseProgress(ctx, "c1"))
		assert.Equal(t, 50.0, svc.State().CourseProgress["c1"].Stats.CompletionPercentage)
	})

	t.Run("invalid payload never reaches the API", func(t *testing.T) {
		api := &fakeAPI{}
		svc := NewService(api, nopLogger{})

		err := svc.MarkLessonComplete(ctx, MarkLessonCompleteData{CourseID: "c1", Status: ProgressStatus("done")})
		require.Error(t, err)
		assert.True(t, core.IsValidation(err))
		assert.Zero(t, api.markCalls)
	})
}

func Test_Service_CourseProgressCache(t *testing.T) {
	ctx := context.Background()

	api := &fakeAPI{progress: CourseProgress{Stats: ProgressStats{TotalLessons: 8}}}
	svc := NewService(api, nopLogger{})
	require.NoError(t, svc.CourseProgress(ctx, "c1"))
	require.NoError(t, svc.CourseProgress(ctx, "c2"))

	t.Run("entries survive until cleared", func(t *testing.T) {
		st := svc.State()
		assert.Len(t, st.CourseProgress, 2)
	})

	t.Run("failed refresh keeps the stale entry", func(t *testing.T) {
		api.err = core.NewNetworkError(assert.AnError)
		require.Error(t, svc.CourseProgress(ctx, "c1"))
		api.err = nil

		st := svc.State()
		assert.Contains(t, st.CourseProgress, "c1")
		assert.True(t, st.IsError)
	})

	t.Run("clear one course", func(t *testing.T) {
		svc.ClearCourseProgress("c1")
		st := svc.State()
		assert.NotContains(t, st.CourseProgress, "c1")
		assert.Contains(t, st.CourseProgress, "c2")
	})

	t.Run("clear everything", func(t *testing.T) {
		svc.ClearCourseProgress("")
		assert.Empty(t, svc.State().CourseProgress)
	})
}

func Test_Service_VerifyPayment(t *testing.T) {
	ctx := context.Background()

	api := &fakeAPI{
		session:    PaymentSession{SessionID: "cs_123", URL: "https://checkout.test/cs_123"},
		enrollment: enrollmentFor("e1", "c1"),
	}
	svc := NewService(api, nopLogger{})

	sess, err := svc.CreatePaymentSession(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "cs_123", sess.SessionID)

	require.NoError(t, svc.VerifyPayment(ctx, sess.SessionID))

	st := svc.State()
	assert.Len(t, st.Enrollments, 1)
	require.NotNil(t, st.CurrentEnrollment)
	assert.Equal(t, "e1", st.CurrentEnrollment.ID)
}

func Test_Service_Clear(t *testing.T) {
	ctx := context.Background()

	api := &fakeAPI{
		enrollment: enrollmentFor("e1", "c1"),
		progress:   CourseProgress{Stats: ProgressStats{TotalLessons: 3}},
	}
	svc := NewService(api, nopLogger{})
	require.NoError(t, svc.Enroll(ctx, "c1"))
	require.NoError(t, svc.CourseProgress(ctx, "c1"))

	svc.Clear()

	st := svc.State()
	assert.Empty(t, st.Enrollments)
	assert.Nil(t, st.CurrentEnrollment)
	assert.Empty(t, st.CourseProgress)
	assert.Empty(t, st.Message)
}

func Test_CourseRef_UnmarshalJSON(t *testing.T) {
	t.Run("bare id", func(t *testing.T) {
		var ref CourseRef
		require.NoError(t, json.Unmarshal([]byte(`"c1"`), &ref))
		assert.Equal(t, "c1", ref.ID)
		assert.Nil(t, ref.Course)
	})

	t.Run("embedded document", func(t *testing.T) {
		var ref CourseRef
		require.NoError(t, json.Unmarshal([]byte(`{"_id":"c1","title":"Go"}`), &ref))
		assert.Equal(t, "c1", ref.ID)
		require.NotNil(t, ref.Course)
		assert.Equal(t, "Go", ref.Course.Title)
	})

	t.Run("round trips as id when not embedded", func(t *testing.T) {
		data, err := json.Marshal(CourseRef{ID: "c1"})
		require.NoError(t, err)
		assert.Equal(t, `"c1"`, string(data))
	})
}
