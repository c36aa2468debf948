package account

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"compassai/internal/domain"
)

// Form field names.
const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirm         = "confirm"
	FieldAgree           = "agree"
	FieldCurrentPassword = "currentPassword"
	FieldNewPassword     = "newPassword"
)

// Validation messages.
const (
	MsgNameRequired     = "이름을 입력해 주세요."
	MsgEmailRequired    = "이메일을 입력해 주세요."
	MsgEmailInvalid     = "이메일 형식이 올바르지 않습니다."
	MsgPasswordRequired = "비밀번호를 입력해 주세요."
	MsgPasswordShort    = "비밀번호는 8자 이상이어야 합니다."
	MsgConfirmRequired  = "비밀번호 확인을 입력해 주세요."
	MsgConfirmMismatch  = "비밀번호가 일치하지 않습니다."
	MsgAgreeRequired    = "약관에 동의해 주세요."
	MsgCurrentRequired  = "현재 비밀번호를 입력해 주세요."
	MsgNewRequired      = "새 비밀번호를 입력해 주세요."
	MsgEmailTaken       = "이미 사용 중인 이메일입니다."
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether email looks like an address.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// PasswordLongEnough counts characters, not bytes.
func PasswordLongEnough(password string) bool {
	return utf8.RuneCountInString(password) >= domain.DefaultMinPasswordLength
}

func checkEmail(fields domain.FieldErrors, field, email string) {
	switch {
	case strings.TrimSpace(email) == "":
		fields.Set(field, MsgEmailRequired)
	case !ValidEmail(email):
		fields.Set(field, MsgEmailInvalid)
	}
}

func checkPassword(fields domain.FieldErrors, field, password, missing string) {
	switch {
	case password == "":
		fields.Set(field, missing)
	case !PasswordLongEnough(password):
		fields.Set(field, MsgPasswordShort)
	}
}

func checkConfirm(fields domain.FieldErrors, password, confirm string) {
	switch {
	case confirm == "":
		fields.Set(FieldConfirm, MsgConfirmRequired)
	case password != confirm:
		fields.Set(FieldConfirm, MsgConfirmMismatch)
	}
}

// SignupForm is the signup page input.
type SignupForm struct {
	Name     string
	Email    string
	Password string
	Confirm  string
	Agree    bool
}

func (f SignupForm) Validate() domain.FieldErrors {
	fields := domain.FieldErrors{}
	if strings.TrimSpace(f.Name) == "" {
		fields.Set(FieldName, MsgNameRequired)
	}
	checkEmail(fields, FieldEmail, f.Email)
	checkPassword(fields, FieldPassword, f.Password, MsgPasswordRequired)
	checkConfirm(fields, f.Password, f.Confirm)
	if !f.Agree {
		fields.Set(FieldAgree, MsgAgreeRequired)
	}
	return fields
}

// LoginForm is the login page input. Remember keeps the email for the
// next visit.
type LoginForm struct {
	Email    string
	Password string
	Remember bool
}

func (f LoginForm) Validate() domain.FieldErrors {
	fields := domain.FieldErrors{}
	checkEmail(fields, FieldEmail, f.Email)
	checkPassword(fields, FieldPassword, f.Password, MsgPasswordRequired)
	return fields
}

// ProfileForm edits the signed-in user's name and email.
type ProfileForm struct {
	Name  string
	Email string
}

func (f ProfileForm) Validate() domain.FieldErrors {
	fields := domain.FieldErrors{}
	if strings.TrimSpace(f.Name) == "" {
		fields.Set(FieldName, MsgNameRequired)
	}
	checkEmail(fields, FieldEmail, f.Email)
	return fields
}

// PasswordForm changes the signed-in user's password.
type PasswordForm struct {
	Current string
	New     string
	Confirm string
}

func (f PasswordForm) Validate() domain.FieldErrors {
	fields := domain.FieldErrors{}
	if f.Current == "" {
		fields.Set(FieldCurrentPassword, MsgCurrentRequired)
	}
	checkPassword(fields, FieldNewPassword, f.New, MsgNewRequired)
	checkConfirm(fields, f.New, f.Confirm)
	return fields
}

// SignupFieldsFor assigns a backend signup rejection to the field it talks
// about.
func SignupFieldsFor(message string) domain.FieldErrors {
	lower := strings.ToLower(message)
	for _, marker := range []string{"이미 존재", "중복", "exists", "duplicate"} {
		if strings.Contains(lower, marker) {
			return domain.FieldErrors{FieldEmail: MsgEmailTaken}
		}
	}
	switch {
	case strings.Contains(lower, "이름"):
		return domain.FieldErrors{FieldName: message}
	case strings.Contains(lower, "email"), strings.Contains(lower, "이메일"):
		return domain.FieldErrors{FieldEmail: message}
	case strings.Contains(lower, "비밀번호"), strings.Contains(lower, "password"):
		return domain.FieldErrors{FieldPassword: message}
	default:
		return domain.FieldErrors{domain.RootField: message}
	}
}
