package session

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/darasa/darasa-client/core"
)

var (
	registerRoleTag  = "registerrole"
	registerRoleText = "invalid role"

	// password policy
	pwdMinLen     = 8
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = "password must contain at least 8 characters"

	pwdNoSpaceTag  = "pwdnospace"
	pwdNoSpaceText = "password must not contain whitespace"

	pwdNotAllNumTag  = "pwdnotallnum"
	pwdNotAllNumText = "password cannot be entirely numeric"

	pwdComplexityTag  = "pwdcplx"
	pwdComplexityText = "password must contain at least 1 uppercase character, 1 lowercase character, 1 digit and 1 special character"
	specialRegex      = regexp.MustCompile("[^A-Za-z0-9]")

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "password cannot be similar to user attributes"
)

func init() {
	_ = core.Validate.RegisterValidation(registerRoleTag, registerRoleValidation)
	core.RegisterCustomTranslation(registerRoleTag, registerRoleText)

	core.Validate.RegisterStructValidation(registerStructValidation, RegisterData{})
	core.RegisterCustomTranslation(pwdMinLenTag, pwdMinLenText)
	core.RegisterCustomTranslation(pwdNoSpaceTag, pwdNoSpaceText)
	core.RegisterCustomTranslation(pwdNotAllNumTag, pwdNotAllNumText)
	core.RegisterCustomTranslation(pwdComplexityTag, pwdComplexityText)
	core.RegisterCustomTranslation(pwdAttrSimTag, pwdAttrSimText)
}

func clean(s string, lower ...bool) string { return core.CleanString(s, lower...) }

func validateStruct(v interface{}) error {
	if err := core.Validate.Struct(v); err != nil {
		return core.TranslateValidationErrors(err)
	}
	return nil
}

// Custom Validators

// registerRoleValidation checks that the signup role is one of RegisterRoles;
// the admin grant is never self-assigned.
func registerRoleValidation(fl validator.FieldLevel) bool {
	role := Role(fl.Field().String())
	for _, r := range RegisterRoles {
		if role == r {
			return true
		}
	}
	return false
}

// registerStructValidation applies the password policy to signups.
func registerStructValidation(sl validator.StructLevel) {
	if rd, ok := sl.Current().Interface().(RegisterData); ok {
		validatePassword(rd.Password, rd.FirstName, rd.LastName, rd.Email, sl)
	}
}

// validatePassword applies the password policy to provided password:
// - minLen: 8
// - no whitespace
// - no all numeric
// - complexity: 1 upper, 1 lower, 1 digit, 1 special
// - no user attrs similarity
func validatePassword(pwd, firstName, lastName, email string, sl validator.StructLevel) {
	reportErr := func(tag string) {
		sl.ReportError(pwd, "password", "Password", tag, "")
	}

	var (
		digitCount         int
		hasUpper, hasLower bool
	)

	pwdLen := len(pwd)
	if pwdLen < pwdMinLen {
		reportErr(pwdMinLenTag)
		return
	}
	for _, char := range pwd {
		if unicode.IsSpace(char) {
			reportErr(pwdNoSpaceTag)
			return
		}
		if unicode.IsDigit(char) {
			digitCount++
		}
		if !hasUpper && unicode.IsUpper(char) {
			hasUpper = true
		}
		if !hasLower && unicode.IsLower(char) {
			hasLower = true
		}
	}

	if digitCount == pwdLen {
		reportErr(pwdNotAllNumTag)
		return
	}

	if !(hasUpper && hasLower && digitCount > 0 && specialRegex.MatchString(pwd)) {
		reportErr(pwdComplexityTag)
		return
	}

	getRatio := func(pass, usrAttr string) float64 {
		if usrAttr == "" {
			return 0
		}
		return difflib.NewMatcher(strings.Split(pass, ""), strings.Split(usrAttr, "")).QuickRatio()
	}
	if getRatio(pwd, firstName) >= pwdMaxSim ||
		getRatio(pwd, lastName) >= pwdMaxSim ||
		getRatio(pwd, email) >= pwdMaxSim {
		reportErr(pwdAttrSimTag)
		return
	}
}
