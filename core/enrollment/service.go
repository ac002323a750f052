package enrollment

import (
	"context"
	"errors"
	"sync"

	"github.com/darasa/darasa-client/core"
)

// ErrOperationInFlight rejects a mutation dispatched while the same mutation
// key is still awaiting its response. Listing operations are never guarded.
var ErrOperationInFlight = errors.New("operation already in flight")

type (
	// API is the slice of the remote REST API this store drives.
	API interface {
		Enroll(ctx context.Context, courseID string) (Enrollment, error)
		MyEnrollments(ctx context.Context) ([]Enrollment, error)
		EnrollmentForCourse(ctx context.Context, courseID string) (Enrollment, error)
		Unenroll(ctx context.Context, enrollmentID string) error
		MarkLessonComplete(ctx context.Context, data MarkLessonCompleteData) (LessonProgress, error)
		CourseProgress(ctx context.Context, courseID string) (CourseProgress, error)
		LessonProgress(ctx context.Context, courseID, lessonID string) (LessonProgress, error)
		CreatePaymentSession(ctx context.Context, courseID string) (PaymentSession, error)
		VerifyPayment(ctx context.Context, sessionID string) (Enrollment, error)
	}

	Service struct {
		api API
		log core.Logger

		mu       sync.Mutex
		state    State
		inflight map[string]struct{}
	}
)

func NewService(api API, log core.Logger) *Service {
	return &Service{
		api:      api,
		log:      log,
		state:    State{CourseProgress: make(map[string]CourseProgress)},
		inflight: make(map[string]struct{}),
	}
}

// State returns a snapshot; mutating it has no effect on the store.
func (svc *Service) State() State {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	st := svc.state
	st.Enrollments = append([]Enrollment(nil), svc.state.Enrollments...)
	if svc.state.CurrentEnrollment != nil {
		enr := *svc.state.CurrentEnrollment
		st.CurrentEnrollment = &enr
	}
	st.CourseProgress = make(map[string]CourseProgress, len(svc.state.CourseProgress))
	for k, v := range svc.state.CourseProgress {
		st.CourseProgress[k] = v
	}
	return st
}

// acquire claims a mutation key; it reports false when the same mutation is
// already awaiting a response.
func (svc *Service) acquire(key string) bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if _, busy := svc.inflight[key]; busy {
		return false
	}
	svc.inflight[key] = struct{}{}
	return true
}

func (svc *Service) release(key string) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	delete(svc.inflight, key)
}

func (svc *Service) begin() {
	svc.mu.Lock()
	svc.state.IsLoading = true
	svc.state.IsError = false
	svc.state.Error = ""
	svc.mu.Unlock()
}

func (svc *Service) fail(err error, fallback string) {
	svc.state.IsLoading = false
	svc.state.IsError = true
	svc.state.Error = core.ErrorMessage(err, fallback)
}

func (svc *Service) succeed(message string) {
	svc.state.IsLoading = false
	svc.state.IsSuccess = true
	svc.state.Message = message
}

// Enroll creates the enrollment for a free course, or records the one minted
// by a verified payment path. A duplicate attempt fails with a conflict and
// never inserts a second record for the pair.
func (svc *Service) Enroll(ctx context.Context, courseID string) error {
	key := "enroll:" + courseID
	if !svc.acquire(key) {
		return ErrOperationInFlight
	}
	defer svc.release(key)

	svc.begin()
	enr, err := svc.api.Enroll(ctx, courseID)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if err != nil {
		svc.fail(err, "Failed to enroll in course")
		return err
	}
	svc.record(enr, "Enrolled successfully")
	return nil
}

// record installs an enrollment as current and appends it to the list unless
// the pair is already present. Caller must hold the lock.
func (svc *Service) record(enr Enrollment, message string) {
	svc.state.CurrentEnrollment = &enr
	exists := false
	for _, e := range svc.state.Enrollments {
		if e.ID == enr.ID || e.CourseID() == enr.CourseID() {
			exists = true
			break
		}
	}
	if !exists {
		svc.state.Enrollments = append(svc.state.Enrollments, enr)
	}
	svc.succeed(message)
}

func (svc *Service) MyEnrollments(ctx context.Context) error {
	svc.begin()
	enrollments, err := svc.api.MyEnrollments(ctx)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if err != nil {
		svc.fail(err, "Failed to fetch enrollments")
		return err
	}
	svc.state.Enrollments = enrollments
	svc.succeed("")
	return nil
}

func (svc *Service) EnrollmentForCourse(ctx context.Context, courseID string) error {
	svc.begin()
	enr, err := svc.api.EnrollmentForCourse(ctx, courseID)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if err != nil {
		svc.fail(err, "Not enrolled in this course")
		return err
	}
	svc.state.CurrentEnrollment = &enr
	svc.succeed("")
	return nil
}

func (svc *Service) Unenroll(ctx context.Context, enrollmentID string) error {
	key := "unenroll:" + enrollmentID
	if !svc.acquire(key) {
		return ErrOperationInFlight
	}
	defer svc.release(key)

	svc.begin()
	err := svc.api.Unenroll(ctx, enrollmentID)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if err != nil {
		svc.fail(err, "Failed to unenroll")
		return err
	}
	kept := svc.state.Enrollments[:0]
	for _, e := range svc.state.Enrollments {
		if e.ID != enrollmentID {
			kept = append(kept, e)
		}
	}
	svc.state.Enrollments = kept
	if svc.state.CurrentEnrollment != nil && svc.state.CurrentEnrollment.ID == enrollmentID {
		svc.state.CurrentEnrollment = nil
	}
	svc.succeed("Unenrolled successfully")
	return nil
}

// MarkLessonComplete records a lesson-completion event. It deliberately does
// not touch the cached aggregate: the completion formula is server-owned, so
// the caller follows up with CourseProgress for the authoritative numbers.
func (svc *Service) MarkLessonComplete(ctx context.Context, data MarkLessonCompleteData) error {
	if err := data.Validate(); err != nil {
		svc.mu.Lock()
		svc.fail(err, "Failed to update progress")
		svc.mu.Unlock()
		return err
	}

	key := "progress:" + data.CourseID + ":" + data.LessonID
	if !svc.acquire(key) {
		return ErrOperationInFlight
	}
	defer svc.release(key)

	svc.begin()
	_, err := svc.api.MarkLessonComplete(ctx, data)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if err != nil {
		svc.fail(err, "Failed to update progress")
		return err
	}
	svc.succeed("Progress updated")
	return nil
}

// CourseProgress re-fetches the authoritative aggregate and caches it under
// the course id. Entries are never evicted automatically; callers clear them
// on logout or course change.
func (svc *Service) CourseProgress(ctx context.Context, courseID string) error {
	svc.begin()
	progress, err := svc.api.CourseProgress(ctx, courseID)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if err != nil {
		svc.fail(err, "Failed to fetch progress")
		return err
	}
	svc.state.CourseProgress[courseID] = progress
	svc.succeed("")
	return nil
}

func (svc *Service) LessonProgress(ctx context.Context, courseID, lessonID string) (LessonProgress, error) {
	svc.begin()
	progress, err := svc.api.LessonProgress(ctx, courseID, lessonID)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if err != nil {
		svc.fail(err, "Failed to fetch lesson progress")
		return LessonProgress{}, err
	}
	svc.succeed("")
	return progress, nil
}

// CreatePaymentSession starts the external checkout flow for a priced
// course. The store carries no pricing logic; it only hands back the session.
func (svc *Service) CreatePaymentSession(ctx context.Context, courseID string) (PaymentSession, error) {
	svc.begin()
	sess, err := svc.api.CreatePaymentSession(ctx, courseID)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if err != nil {
		svc.fail(err, "Failed to start checkout")
		return PaymentSession{}, err
	}
	svc.state.IsLoading = false
	return sess, nil
}

// VerifyPayment confirms a completed checkout and records the enrollment the
// server minted for it.
func (svc *Service) VerifyPayment(ctx context.Context, sessionID string) error {
	key := "verify:" + sessionID
	if !svc.acquire(key) {
		return ErrOperationInFlight
	}
	defer svc.release(key)

	svc.begin()
	enr, err := svc.api.VerifyPayment(ctx, sessionID)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if err != nil {
		svc.fail(err, "Payment verification failed")
		return err
	}
	svc.record(enr, "Enrolled successfully")
	return nil
}

func (svc *Service) ClearCurrentEnrollment() {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.state.CurrentEnrollment = nil
}

// ClearCourseProgress drops the cached aggregate for one course, or every
// cached aggregate when courseID is empty.
func (svc *Service) ClearCourseProgress(courseID string) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if courseID == "" {
		svc.state.CourseProgress = make(map[string]CourseProgress)
		return
	}
	delete(svc.state.CourseProgress, courseID)
}

// Clear resets the whole store, e.g. on logout.
func (svc *Service) Clear() {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.state = State{CourseProgress: make(map[string]CourseProgress)}
}

// ResetStatus clears transient flags before the next user-initiated attempt.
func (svc *Service) ResetStatus() {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.state.IsLoading = false
	svc.state.IsSuccess = false
	svc.state.IsError = false
	svc.state.Error = ""
	svc.state.Message = ""
}
