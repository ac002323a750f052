package catalog

import (
	"github.com/go-playground/validator/v10"

	"github.com/darasa/darasa-client/core"
)

var (
	categoryTag  = "coursecategory"
	categoryText = "invalid course category"

	levelTag  = "courselevel"
	levelText = "invalid course level"
)

func init() {
	_ = core.Validate.RegisterValidation(categoryTag, categoryValidation)
	core.RegisterCustomTranslation(categoryTag, categoryText)

	_ = core.Validate.RegisterValidation(levelTag, levelValidation)
	core.RegisterCustomTranslation(levelTag, levelText)
}

func categoryValidation(fl validator.FieldLevel) bool {
	return Category(fl.Field().String()).Valid()
}

func levelValidation(fl validator.FieldLevel) bool {
	return Level(fl.Field().String()).Valid()
}

func (cd *CreateCourseData) Validate() error {
	cd.Title = core.CleanString(cd.Title)
	cd.Description = core.CleanString(cd.Description)
	if err := core.Validate.Struct(cd); err != nil {
		return core.TranslateValidationErrors(err)
	}
	return nil
}

func (ud *UpdateCourseData) Validate() error {
	if ud.Title != nil {
		t := core.CleanString(*ud.Title)
		ud.Title = &t
	}
	if ud.Description != nil {
		d := core.CleanString(*ud.Description)
		ud.Description = &d
	}
	if err := core.Validate.Struct(ud); err != nil {
		return core.TranslateValidationErrors(err)
	}
	return nil
}
