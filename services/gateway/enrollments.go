package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/darasa/darasa-client/core/enrollment"
)

var _ enrollment.API = (*Gateway)(nil)

func (gw *Gateway) Enroll(ctx context.Context, courseID string) (enrollment.Enrollment, error) {
	var out enrollment.Enrollment
	err := gw.do(ctx, http.MethodPost, "/enrollments", map[string]string{"courseId": courseID}, &out)
	return out, err
}

func (gw *Gateway) MyEnrollments(ctx context.Context) ([]enrollment.Enrollment, error) {
	var out []enrollment.Enrollment
	err := gw.do(ctx, http.MethodGet, "/enrollments/my-courses", nil, &out)
	return out, err
}

func (gw *Gateway) EnrollmentForCourse(ctx context.Context, courseID string) (enrollment.Enrollment, error) {
	var out enrollment.Enrollment
	err := gw.do(ctx, http.MethodGet, "/enrollments/course/"+url.PathEscape(courseID), nil, &out)
	return out, err
}

func (gw *Gateway) Unenroll(ctx context.Context, enrollmentID string) error {
	return gw.do(ctx, http.MethodDelete, "/enrollments/"+url.PathEscape(enrollmentID), nil, nil)
}

func (gw *Gateway) MarkLessonComplete(ctx context.Context, data enrollment.MarkLessonCompleteData) (enrollment.LessonProgress, error) {
	var out enrollment.LessonProgress
	err := gw.do(ctx, http.MethodPost, "/progress", data, &out)
	return out, err
}

func (gw *Gateway) CourseProgress(ctx context.Context, courseID string) (enrollment.CourseProgress, error) {
	var out enrollment.CourseProgress
	err := gw.do(ctx, http.MethodGet, "/progress/course/"+url.PathEscape(courseID), nil, &out)
	return out, err
}

func (gw *Gateway) LessonProgress(ctx context.Context, courseID, lessonID string) (enrollment.LessonProgress, error) {
	var out enrollment.LessonProgress
	err := gw.do(ctx, http.MethodGet, "/progress/lesson/"+url.PathEscape(courseID)+"/"+url.PathEscape(lessonID), nil, &out)
	return out, err
}

func (gw *Gateway) CreatePaymentSession(ctx context.Context, courseID string) (enrollment.PaymentSession, error) {
	var out enrollment.PaymentSession
	err := gw.do(ctx, http.MethodPost, "/payment/create-session", map[string]string{"courseId": courseID}, &out)
	return out, err
}

func (gw *Gateway) VerifyPayment(ctx context.Context, sessionID string) (enrollment.Enrollment, error) {
	var out enrollment.Enrollment
	err := gw.do(ctx, http.MethodPost, "/payment/verify", map[string]string{"sessionId": sessionID}, &out)
	return out, err
}
