package catalog

import (
	"context"
	"sync"

	"github.com/darasa/darasa-client/core"
)

type (
	// API is the slice of the remote REST API this store drives.
	API interface {
		ListCourses(ctx context.Context, filters Filters) (ListResponse, error)
		GetCourse(ctx context.Context, courseID string) (Course, error)
		CreateCourse(ctx context.Context, data CreateCourseData) (Course, error)
		UpdateCourse(ctx context.Context, courseID string, data UpdateCourseData) (Course, error)
		DeleteCourse(ctx context.Context, courseID string) error
		TogglePublish(ctx context.Context, courseID string) (Course, error)
		ListInstructorCourses(ctx context.Context) ([]Course, error)
	}

	Service struct {
		api API
		log core.Logger

		mu    sync.Mutex
		state State

		// listSeq orders listing requests so a superseded response can
		// never overwrite a newer one, however late it arrives.
		listSeq uint64
	}
)

func NewService(api API, log core.Logger) *Service {
	return &Service{api: api, log: log}
}

// State returns a snapshot; mutating it has no effect on the store.
func (svc *Service) State() State {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	st := svc.state
	st.Courses = append([]Course(nil), svc.state.Courses...)
	st.MyCourses = append([]Course(nil), svc.state.MyCourses...)
	if svc.state.CurrentCourse != nil {
		course := *svc.state.CurrentCourse
		st.CurrentCourse = &course
	}
	if svc.state.Pagination != nil {
		p := *svc.state.Pagination
		st.Pagination = &p
	}
	return st
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

// ListCourses replaces the catalog slice wholesale with the filtered page.
// Responses to superseded filter requests are dropped on arrival.
func (svc *Service) ListCourses(ctx context.Context, filters Filters) error {
	svc.mu.Lock()
	svc.listSeq++
	seq := svc.listSeq
	svc.state.IsLoading = true
	svc.state.IsError = false
	svc.state.Error = ""
	svc.mu.Unlock()

	res, err := svc.api.ListCourses(ctx, filters)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if seq != svc.listSeq {
		// a newer listing request was dispatched while this one was in
		// flight; its result is the only one that may land
		return nil
	}
	if err != nil {
		svc.fail(err, "Failed to fetch courses")
		return err
	}
	svc.state.Courses = res.Courses
	svc.state.Pagination = &res.Pagination
	svc.succeed("")
	return nil
}

func (svc *Service) GetCourse(ctx context.Context, courseID string) error {
	svc.begin()
	course, err := svc.api.GetCourse(ctx, courseID)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if err != nil {
		svc.fail(err, "Failed to fetch course")
		return err
	}
	svc.state.CurrentCourse = &course
	svc.succeed("")
	return nil
}

func (svc *Service) CreateCourse(ctx context.Context, data CreateCourseData) error {
	if err := data.Validate(); err != nil {
		svc.mu.Lock()
		svc.fail(err, "Failed to create course")
		svc.mu.Unlock()
		return err
	}

	svc.begin()
	course, err := svc.api.CreateCourse(ctx, data)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if err != nil {
		svc.fail(err, "Failed to create course")
		return err
	}
	svc.state.CurrentCourse = &course
	svc.succeed("Course created successfully")
	return nil
}

func (svc *Service) UpdateCourse(ctx context.Context, courseID string, data UpdateCourseData) error {
	if err := data.Validate(); err != nil {
		svc.mu.Lock()
		svc.fail(err, "Failed to update course")
		svc.mu.Unlock()
		return err
	}

	svc.begin()
	course, err := svc.api.UpdateCourse(ctx, courseID, data)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if err != nil {
		svc.fail(err, "Failed to update course")
		return err
	}
	svc.state.CurrentCourse = &course
	svc.succeed("Course updated successfully")
	return nil
}

// DeleteCourse removes the course from the catalog and the instructor list
// in one state transition; a reader never sees one updated without the other.
func (svc *Service) DeleteCourse(ctx context.Context, courseID string) error {
	svc.begin()
	err := svc.api.DeleteCourse(ctx, courseID)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if err != nil {
		svc.fail(err, "Failed to delete course")
		return err
	}
	svc.state.Courses = dropCourse(svc.state.Courses, courseID)
	svc.state.MyCourses = dropCourse(svc.state.MyCourses, courseID)
	if svc.state.CurrentCourse != nil && svc.state.CurrentCourse.ID == courseID {
		svc.state.CurrentCourse = nil
	}
	svc.succeed("Course deleted successfully")
	return nil
}

// TogglePublish flips publish state server-side. The new direction is only
// ever read from the echoed course; nothing is flipped beforehand.
func (svc *Service) TogglePublish(ctx context.Context, courseID string) error {
	svc.begin()
	course, err := svc.api.TogglePublish(ctx, courseID)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if err != nil {
		svc.fail(err, "Failed to publish course")
		return err
	}
	svc.state.CurrentCourse = &course
	if course.IsPublished {
		svc.succeed("Course published successfully")
	} else {
		svc.succeed("Course unpublished successfully")
	}
	return nil
}

func (svc *Service) ListInstructorCourses(ctx context.Context) error {
	svc.begin()
	courses, err := svc.api.ListInstructorCourses(ctx)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if err != nil {
		svc.fail(err, "Failed to fetch instructor courses")
		return err
	}
	svc.state.MyCourses = courses
	svc.succeed("")
	return nil
}

func (svc *Service) ClearCurrentCourse() {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.state.CurrentCourse = nil
}

func (svc *Service) ClearCourses() {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.state.Courses = nil
	svc.state.Pagination = nil
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

func dropCourse(courses []Course, courseID string) []Course {
	kept := courses[:0]
	for _, c := range courses {
		if c.ID != courseID {
			kept = append(kept, c)
		}
	}
	return kept
}
