// Package validation holds the field rules for everything users submit:
// registration and login forms, skill listings, comments and profile edits.
//
// Validators never fail; bad input is reported as an ordered list of
// human-readable messages in a Result.
package validation

import (
	"unicode/utf8"

	"skillswap/internal/models"
)

// Messages shown to users. Clients match on some of them, keep them stable.
const (
	MsgUsernameRequired = "Username is required"
	MsgUsernameLength   = "Username must be 3-20 characters"
	MsgUsernameCharset  = "Username can only contain letters or numbers"
	MsgUsernameFormat   = "Username must be 3-20 characters and contain only letters or numbers"
	MsgUsernameTaken    = "Username is already taken"
	MsgPasswordRequired = "Password is required"
	MsgPasswordWeak     = "Password must be at least 4 characters and contain uppercase letter, lowercase letter, and number"
	MsgPasswordTooLong  = "Password must be at most 72 bytes"
	MsgEmailRequired    = "Email is required"
	MsgEmailInvalid     = "Please enter a valid email address"
	MsgEmailTaken       = "Email is already taken"
	MsgContactTooLong   = "Contact must be 50 characters or less"
	MsgTitleRequired    = "Skill title is required"
	MsgTitleLength      = "Skill title must be 3-100 characters"
	MsgTitleCharset     = "Skill title can only contain letters, numbers, spaces, and basic symbols (-, &, .)"
	MsgTitleMeaningless = "Skill title cannot contain only spaces or meaningless characters"
	MsgCategoryRequired = "Please select a skill category"
	MsgCategoryInvalid  = "Please select a valid skill category"
	MsgDescRequired     = "Skill description is required"
	MsgDescLength       = "Skill description must be 1-1000 characters"
	MsgDescBlank        = "Skill description cannot contain only spaces"
	MsgCommentRequired  = "Comment content is required"
	MsgCommentBlank     = "Comment content cannot be empty or only spaces"
	MsgCommentTooLong   = "Comment content cannot exceed 500 characters"
	MsgCommentUnsafe    = "Comment content contains invalid characters (HTML tags, scripts, or special characters are not allowed)"
)

// Result is the outcome of validating one submission.
type Result struct {
	Errors []string `json:"errors"`
}

func (r Result) IsValid() bool {
	return len(r.Errors) == 0
}

func (r *Result) add(msg string) {
	r.Errors = append(r.Errors, msg)
}

type RegistrationInput struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Email    string `json:"email" form:"email"`
}

// ValidateRegistration checks every field and reports all failures in
// username, password, email order.
func ValidateRegistration(in RegistrationInput) Result {
	var res Result

	switch {
	case IsEmpty(in.Username):
		res.add(MsgUsernameRequired)
	case !check(in.Username, "min=3,max=20"):
		res.add(MsgUsernameLength)
	case !check(in.Username, "alphanum"):
		res.add(MsgUsernameCharset)
	}

	switch {
	case IsEmpty(in.Password):
		res.add(MsgPasswordRequired)
	case !IsStrongPassword(in.Password):
		res.add(MsgPasswordWeak)
	case len(in.Password) > maxPasswordBytes:
		res.add(MsgPasswordTooLong)
	}

	switch {
	case IsEmpty(in.Email):
		res.add(MsgEmailRequired)
	case !IsValidEmail(in.Email):
		res.add(MsgEmailInvalid)
	}

	return res
}

type LoginInput struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func ValidateLogin(in LoginInput) Result {
	var res Result
	if IsEmpty(in.Username) {
		res.add(MsgUsernameRequired)
	}
	if IsEmpty(in.Password) {
		res.add(MsgPasswordRequired)
	}
	return res
}

type SkillInput struct {
	Title       string `json:"title" form:"title"`
	Category    string `json:"category" form:"category"`
	Description string `json:"description" form:"description"`
}

// SkillResult carries the normalized listing alongside the verdict.
type SkillResult struct {
	Result
	Cleaned SkillInput
}

// ValidateSkill compresses whitespace in the title and description before
// checking their lengths. Cleaned holds the values to persist.
func ValidateSkill(in SkillInput) SkillResult {
	res := SkillResult{Cleaned: in}

	if IsEmpty(in.Title) {
		res.add(MsgTitleRequired)
	} else {
		title := CompressWhitespace(in.Title)
		res.Cleaned.Title = title
		switch {
		case !check(title, "min=3,max=100"):
			res.add(MsgTitleLength)
		case !check(title, "skilltitle"):
			res.add(MsgTitleCharset)
		case punctuationOnly.MatchString(title):
			res.add(MsgTitleMeaningless)
		}
	}

	switch {
	case IsEmpty(in.Category) || in.Category == models.CategoryPlaceholder:
		res.add(MsgCategoryRequired)
	case !IsValidSkillCategory(in.Category):
		res.add(MsgCategoryInvalid)
	}

	if IsEmpty(in.Description) {
		res.add(MsgDescRequired)
	} else {
		desc := CompressWhitespace(in.Description)
		res.Cleaned.Description = desc
		switch {
		case !check(desc, "min=1,max=1000"):
			res.add(MsgDescLength)
		case whitespaceOnly.MatchString(desc):
			res.add(MsgDescBlank)
		}
	}

	return res
}

type CommentInput struct {
	Content string `json:"content" form:"content"`
}

// CommentResult carries the trimmed content to store.
type CommentResult struct {
	Result
	Content string
}

func ValidateComment(in CommentInput) CommentResult {
	res := CommentResult{Content: trim(in.Content)}

	if IsEmpty(in.Content) {
		res.add(MsgCommentRequired)
		return res
	}
	if !IsValidComment(in.Content) {
		switch n := utf8.RuneCountInString(res.Content); {
		case n < 1:
			res.add(MsgCommentBlank)
		case n > maxCommentLen:
			res.add(MsgCommentTooLong)
		default:
			res.add(MsgCommentUnsafe)
		}
	}
	return res
}

// ProfileInput is a profile edit. Empty username or email means "keep".
type ProfileInput struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Contact  string `json:"contact" form:"contact"`
}
