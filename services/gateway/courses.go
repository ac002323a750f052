package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/darasa/darasa-client/core/catalog"
)

var _ catalog.API = (*Gateway)(nil)

func (gw *Gateway) ListCourses(ctx context.Context, filters catalog.Filters) (catalog.ListResponse, error) {
	var out catalog.ListResponse
	err := gw.doQuery(ctx, http.MethodGet, "/courses", filters.Values(), nil, &out)
	return out, err
}

func (gw *Gateway) GetCourse(ctx context.Context, courseID string) (catalog.Course, error) {
	var out catalog.Course
	err := gw.do(ctx, http.MethodGet, "/courses/"+url.PathEscape(courseID), nil, &out)
	return out, err
}

func (gw *Gateway) CreateCourse(ctx context.Context, data catalog.CreateCourseData) (catalog.Course, error) {
	var out catalog.Course
	err := gw.do(ctx, http.MethodPost, "/courses", data, &out)
	return out, err
}

func (gw *Gateway) UpdateCourse(ctx context.Context, courseID string, data catalog.UpdateCourseData) (catalog.Course, error) {
	var out catalog.Course
	err := gw.do(ctx, http.MethodPatch, "/courses/"+url.PathEscape(courseID), data, &out)
	return out, err
}

func (gw *Gateway) DeleteCourse(ctx context.Context, courseID string) error {
	return gw.do(ctx, http.MethodDelete, "/courses/"+url.PathEscape(courseID), nil, nil)
}

func (gw *Gateway) TogglePublish(ctx context.Context, courseID string) (catalog.Course, error) {
	var out catalog.Course
	err := gw.do(ctx, http.MethodPut, "/courses/"+url.PathEscape(courseID)+"/publish", nil, &out)
	return out, err
}

func (gw *Gateway) ListInstructorCourses(ctx context.Context) ([]catalog.Course, error) {
	var out []catalog.Course
	err := gw.do(ctx, http.MethodGet, "/courses/instructor/my-courses", nil, &out)
	return out, err
}
