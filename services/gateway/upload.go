package gateway

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/darasa/darasa-client/core"
	"github.com/darasa/darasa-client/core/authoring"
	"github.com/darasa/darasa-client/core/catalog"
)

// Upload size caps, matching the API's own limits.
const (
	maxImageSize = 5 << 20   // 5MB
	maxVideoSize = 500 << 20 // 500MB
)

var (
	imageTypes = map[string]string{
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".png":  "image/png",
		".gif":  "image/gif",
		".webp": "image/webp",
	}
	videoTypes = map[string]string{
		".mp4":  "video/mp4",
		".mov":  "video/quicktime",
		".webm": "video/webm",
		".mkv":  "video/x-matroska",
		".avi":  "video/x-msvideo",
	}
)

var _ authoring.Uploader = (*Gateway)(nil)

func (gw *Gateway) UploadImage(ctx context.Context, file io.Reader, filename string, size int64) (catalog.Media, error) {
	contentType, ok := imageTypes[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return catalog.Media{}, core.NewValidationError(errors.New("please upload an image file (JPG, PNG, etc.)"))
	}
	if size > maxImageSize {
		return catalog.Media{}, core.NewValidationError(errors.New("image size must be less than 5MB"))
	}
	return gw.upload(ctx, file, filename, contentType, 0, nil)
}

func (gw *Gateway) UploadVideo(ctx context.Context, file io.Reader, filename string, size int64, onProgress func(percent int)) (catalog.Media, error) {
	contentType, ok := videoTypes[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return catalog.Media{}, core.NewValidationError(errors.New("please upload a video file (MP4, MOV, etc.)"))
	}
	if size > maxVideoSize {
		return catalog.Media{}, core.NewValidationError(errors.New("video size must be less than 500MB"))
	}
	return gw.upload(ctx, file, filename, contentType, size, onProgress)
}

func (gw *Gateway) DeleteUpload(ctx context.Context, publicID string) error {
	return gw.do(ctx, http.MethodDelete, "/upload/"+url.PathEscape(publicID), nil, nil)
}

// upload posts one multipart file to /upload. The request body cannot be
// replayed, so a 401 here is not retried; it surfaces as an authorization
// failure and the caller may re-run the upload with a fresh reader.
func (gw *Gateway) upload(ctx context.Context, file io.Reader, filename, contentType string, size int64, onProgress func(percent int)) (catalog.Media, error) {
	body := file
	if onProgress != nil && size > 0 {
		body = &progressReader{r: file, total: size, onProgress: onProgress}
	}

	resp, err := gw.client.R().
		SetContext(ctx).
		SetMultipartField("media", filename, contentType, body).
		Post("/upload")
	if err != nil {
		return catalog.Media{}, core.NewNetworkError(err)
	}

	var out catalog.Media
	if err := gw.decode(resp, &out, false); err != nil {
		return catalog.Media{}, err
	}
	return out, nil
}

// progressReader reports whole-percent upload progress as the transport
// drains the file.
type progressReader struct {
	r          io.Reader
	total      int64
	read       int64
	last       int
	onProgress func(percent int)
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	pr.read += int64(n)
	if pct := int(pr.read * 100 / pr.total); pct != pr.last {
		pr.last = pct
		pr.onProgress(pct)
	}
	return n, err
}
