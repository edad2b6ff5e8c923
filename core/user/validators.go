package user

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/darasa/core"
)

// password policy
var (
	pwdMinLen  = 8
	pwdMaxSim  = .7

	errPwdMinLen     = fmt.Sprintf("password must contain at least %d characters", pwdMinLen)
	errPwdNoSpace    = "password must not contain whitespace"
	errPwdNotAllNum  = "password cannot be entirely numeric"
	errPwdAttrSim    = "password cannot be similar to user attributes"
	errPwdNoCommon   = "password is too common"

	commonPasswords = []string{
		"11111111", "12345678", "123456789", "1234567890", "87654321",
		"aa123456", "asdfghjkl", "baseball", "basketball", "computer",
		"iloveyou", "internet", "liverpool", "password", "password1",
		"password123", "princess", "qwerty123", "qwertyuiop", "sunshine",
		"superman", "whatever",
	}
)

func init() {
	sort.Strings(commonPasswords)
}

// validatePassword applies the password policy:
// - minLen: 8
// - no whitespace
// - not all numeric
// - no user attrs similarity
// - no common password
func validatePassword(pwd string, usr User) error {
	fieldErr := func(text string) error {
		return core.NewValidationError(nil, core.FieldError{Field: "password", Error: text})
	}

	if len(pwd) < pwdMinLen {
		return fieldErr(errPwdMinLen)
	}

	var digitCount int
	for _, char := range pwd {
		if unicode.IsSpace(char) {
			return fieldErr(errPwdNoSpace)
		}
		if unicode.IsDigit(char) {
			digitCount++
		}
	}
	if digitCount == len(pwd) {
		return fieldErr(errPwdNotAllNum)
	}

	getRatio := func(pass, usrAttr string) float64 {
		if usrAttr == "" {
			return 0
		}
		return difflib.NewMatcher(strings.Split(pass, ""), strings.Split(usrAttr, "")).QuickRatio()
	}
	if getRatio(pwd, usr.Name) >= pwdMaxSim || getRatio(pwd, usr.Email) >= pwdMaxSim {
		return fieldErr(errPwdAttrSim)
	}

	lpwd := strings.ToLower(pwd)
	if idx := sort.SearchStrings(commonPasswords, lpwd); idx < len(commonPasswords) {
		if commonPasswords[idx] == lpwd {
			return fieldErr(errPwdNoCommon)
		}
	}
	return nil
}

// ValidatePassword applies the password policy to a registration payload.
func ValidatePassword(nu NewUser) error {
	return validatePassword(nu.Password, User{Name: nu.Name, Email: nu.Email})
}
