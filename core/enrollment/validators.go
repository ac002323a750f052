package enrollment

import (
	"github.com/go-playground/validator/v10"

	"github.com/darasa/darasa-client/core"
)

var (
	progressStatusTag  = "progressstatus"
	progressStatusText = "invalid progress status"
)

func init() {
	_ = core.Validate.RegisterValidation(progressStatusTag, progressStatusValidation)
	core.RegisterCustomTranslation(progressStatusTag, progressStatusText)
}

func progressStatusValidation(fl validator.FieldLevel) bool {
	return ProgressStatus(fl.Field().String()).Valid()
}
