package validation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"skillswap/internal/models"

	"github.com/go-playground/validator/v10"
)

var (
	emailPattern      = regexp.MustCompile(`^[^` + space + `@]+@[^` + space + `@]+\.[^` + space + `@]+$`)
	skillTitlePattern = regexp.MustCompile(`^[\x{4e00}-\x{9fa5}a-zA-Z0-9` + space + `\-&.]+$`)
	punctuationOnly   = regexp.MustCompile(`^[` + space + `\-&.]+$`)
	whitespaceOnly    = regexp.MustCompile(`^[` + space + `]+$`)
	htmlTagPattern    = regexp.MustCompile(`<[^>]*>`)
	scriptPattern     = regexp.MustCompile(`(?i)script|javascript|onclick|onload|onerror`)
	unsafeCharPattern = regexp.MustCompile(`[<>"'&]`)
	lineBreakRuns     = regexp.MustCompile(`(\r\n|\r|\n)+`)
	horizontalRuns    = regexp.MustCompile(`[ \t\f\v]+`)
)

// space is the whitespace class used by the title, description and email
// rules. RE2's \s is ASCII only; Unicode space separators, the line and
// paragraph separators and the byte order mark count as whitespace too.
const space = `\s\p{Zs}\x{2028}\x{2029}\x{feff}`

const (
	// bcrypt ignores input past this many bytes and newer versions reject it.
	maxPasswordBytes = 72
	minPasswordLen   = 4
	maxCommentLen    = 500
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	mustRegister(v, "plainemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "strongpassword", func(fl validator.FieldLevel) bool {
		return strongPassword(fl.Field().String())
	})
	mustRegister(v, "skilltitle", func(fl validator.FieldLevel) bool {
		return skillTitlePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "skillcategory", func(fl validator.FieldLevel) bool {
		return models.IsCategory(fl.Field().String())
	})
	mustRegister(v, "safecomment", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return !htmlTagPattern.MatchString(s) && !scriptPattern.MatchString(s) && !unsafeCharPattern.MatchString(s)
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

func strongPassword(p string) bool {
	if utf8.RuneCountInString(p) < minPasswordLen {
		return false
	}
	var upper, lower, digit bool
	for _, r := range p {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	return upper && lower && digit
}

func check(value, tag string) bool {
	return validate.Var(value, tag) == nil
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\ufeff'
}

// trim strips leading and trailing whitespace, the byte order mark included.
func trim(s string) string {
	return strings.TrimFunc(s, isSpace)
}

// IsEmpty reports whether v is empty or whitespace only.
func IsEmpty(v string) bool {
	return trim(v) == ""
}

// IsValidEmail checks the loose address shape local@domain.tld.
func IsValidEmail(email string) bool {
	return check(email, "plainemail")
}

// IsValidUsername accepts 3-20 ASCII letters or digits.
func IsValidUsername(username string) bool {
	return check(username, "min=3,max=20,alphanum")
}

// IsStrongPassword requires at least 4 characters with an uppercase letter,
// a lowercase letter and a digit.
func IsStrongPassword(password string) bool {
	return check(password, "strongpassword")
}

// IsValidSkillTitle applies the title rules to the trimmed value.
func IsValidSkillTitle(title string) bool {
	trimmed := trim(title)
	if !check(trimmed, "min=3,max=100,skilltitle") {
		return false
	}
	return !punctuationOnly.MatchString(trimmed)
}

// IsValidSkillCategory rejects the picker placeholder and unknown categories.
func IsValidSkillCategory(category string) bool {
	if category == "" || category == models.CategoryPlaceholder {
		return false
	}
	return check(category, "skillcategory")
}

func IsValidSkillDescription(description string) bool {
	trimmed := trim(description)
	if !check(trimmed, "min=1,max=1000") {
		return false
	}
	return !whitespaceOnly.MatchString(description)
}

// IsValidComment rejects markup, script-like tokens and the characters < > " ' &.
func IsValidComment(content string) bool {
	trimmed := trim(content)
	if !check(trimmed, "min=1,max=500") {
		return false
	}
	return check(content, "safecomment")
}

// IsValidContact allows an empty contact or up to 50 characters.
func IsValidContact(contact string) bool {
	return check(contact, "max=50")
}

// CompressWhitespace trims s and folds every run of line breaks and
// horizontal whitespace into a single space. It is idempotent.
func CompressWhitespace(s string) string {
	s = trim(s)
	s = lineBreakRuns.ReplaceAllString(s, " ")
	s = horizontalRuns.ReplaceAllString(s, " ")
	return trim(s)
}
