package account

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"compassai/internal/domain"
	"compassai/internal/infra/api"
	"compassai/internal/ui"
	"compassai/internal/ui/events"
)

// Result texts.
const (
	SignupFailedText       = "회원가입에 실패했습니다. 잠시 후 다시 시도해 주세요."
	LoginFailedText        = "로그인에 실패했습니다. 잠시 후 다시 시도해주세요."
	ProfileSavedText       = "회원정보가 수정되었습니다."
	ProfileFailedText      = "회원정보 수정에 실패했습니다."
	PasswordChangedText    = "비밀번호가 변경되었습니다."
	PasswordFailedText     = "비밀번호 변경에 실패했습니다."
	ApplicationsFailedText = "신청 목록을 불러오지 못했습니다."
)

// Client is the subset of the REST SDK used for accounts.
type Client interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.Me, error)
	Signup(ctx context.Context, req domain.SignupRequest) (*domain.Me, error)
	Me(ctx context.Context) (*domain.Me, error)
	Logout(ctx context.Context) error
	UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.Me, error)
	ChangePassword(ctx context.Context, change domain.PasswordChange) error
	MyApplications(ctx context.Context) ([]domain.Application, error)
}

// EmailMemory remembers the last login email between runs.
type EmailMemory interface {
	LastEmail() (string, error)
	SetLastEmail(email string) error
	ClearLastEmail() error
}

// Service runs the account flows and announces session changes on the hub.
type Service struct {
	client Client
	memory EmailMemory
	hub    *events.Hub
	logger *zap.Logger
}

func NewService(client Client, memory EmailMemory, hub *events.Hub, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if hub == nil {
		hub = events.NewHub()
	}
	return &Service{
		client: client,
		memory: memory,
		hub:    hub,
		logger: logger.Named("account"),
	}
}

// Hub returns the event hub session changes are published on.
func (s *Service) Hub() *events.Hub {
	return s.hub
}

// formError attaches a backend rejection to form fields.
func formError(op string, err error, fields domain.FieldErrors) error {
	code, ok := domain.CodeFrom(err)
	if !ok {
		code = domain.CodeInternal
	}
	message := ""
	for _, name := range fields.Fields() {
		message = fields[name]
		break
	}
	wrapped := domain.E(code, op, message, domain.Rejected(err, fields))
	wrapped.Meta = map[string]string{"cause": err.Error()}
	return wrapped
}

// rootError returns the root-level form error for a failed request.
func rootError(op string, err error, fallback string) error {
	return formError(op, err, domain.FieldErrors{domain.RootField: ui.MapError(err, fallback)})
}

// Signup registers the user and signs them in. Invalid input issues no
// request.
func (s *Service) Signup(ctx context.Context, form SignupForm) (*domain.Me, error) {
	if err := domain.Validation(form.Validate()); err != nil {
		return nil, err
	}
	req := domain.SignupRequest{Name: form.Name, Email: form.Email, Password: form.Password}
	if _, err := s.client.Signup(ctx, req); err != nil {
		s.logger.Info("signup rejected", zap.Error(err))
		return nil, formError("signup", err, SignupFieldsFor(ui.MapError(err, SignupFailedText)))
	}
	user, err := s.client.Login(ctx, domain.Credentials{Email: form.Email, Password: form.Password})
	if err != nil {
		return nil, formError("signup", err, SignupFieldsFor(ui.MapError(err, SignupFailedText)))
	}
	s.publish(user, events.AuthReasonSignup)
	return user, nil
}

// Login signs in and stores or forgets the email depending on Remember.
func (s *Service) Login(ctx context.Context, form LoginForm) (*domain.Me, error) {
	if err := domain.Validation(form.Validate()); err != nil {
		return nil, err
	}
	user, err := s.client.Login(ctx, domain.Credentials{Email: form.Email, Password: form.Password})
	if err != nil {
		s.logger.Info("login rejected", zap.Error(err))
		return nil, rootError("login", err, LoginFailedText)
	}
	s.rememberEmail(form)
	s.publish(user, events.AuthReasonLogin)
	return user, nil
}

func (s *Service) rememberEmail(form LoginForm) {
	if s.memory == nil {
		return
	}
	var err error
	if form.Remember {
		err = s.memory.SetLastEmail(form.Email)
	} else {
		err = s.memory.ClearLastEmail()
	}
	if err != nil {
		s.logger.Warn("remember email failed", zap.Error(err))
	}
}

// RememberedEmail returns the email to prefill on the login form.
func (s *Service) RememberedEmail() string {
	if s.memory == nil {
		return ""
	}
	email, err := s.memory.LastEmail()
	if err != nil {
		s.logger.Warn("read remembered email failed", zap.Error(err))
		return ""
	}
	return email
}

// Logout ends the session.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.client.Logout(ctx); err != nil {
		return domain.Wrap(domain.CodeUnavailable, "logout", err)
	}
	s.publish(nil, events.AuthReasonLogout)
	return nil
}

// CurrentUser returns the session user, or nil when signed out. Lookup
// failures count as signed out.
func (s *Service) CurrentUser(ctx context.Context) *domain.Me {
	user, err := s.client.Me(ctx)
	if err != nil {
		s.logger.Debug("session lookup failed", zap.Error(err))
		return nil
	}
	return user
}

// Refresh re-reads the session user and announces it.
func (s *Service) Refresh(ctx context.Context) *domain.Me {
	user := s.CurrentUser(ctx)
	s.publish(user, events.AuthReasonRefresh)
	return user
}

// RequireUser returns the session user or a not-signed-in error.
func (s *Service) RequireUser(ctx context.Context) (*domain.Me, error) {
	user := s.CurrentUser(ctx)
	if user == nil {
		return nil, domain.E(domain.CodeUnauthenticated, "require user", ui.SignInRequiredText, domain.ErrNotSignedIn)
	}
	return user, nil
}

// UpdateProfile saves the name and email. Fields the backend leaves out keep
// the submitted values.
func (s *Service) UpdateProfile(ctx context.Context, current *domain.Me, form ProfileForm) (*domain.Me, error) {
	if err := domain.Validation(form.Validate()); err != nil {
		return nil, err
	}
	updated, err := s.client.UpdateProfile(ctx, domain.ProfileUpdate{Name: form.Name, Email: form.Email})
	if err != nil {
		return nil, rootError("update profile", err, ProfileFailedText)
	}
	next := &domain.Me{Name: form.Name, Email: form.Email}
	if current != nil {
		copied := *current
		copied.Name = form.Name
		copied.Email = form.Email
		next = &copied
	}
	if updated != nil {
		if updated.Name != "" {
			next.Name = updated.Name
		}
		if updated.Email != "" {
			next.Email = updated.Email
		}
	}
	s.publish(next, events.AuthReasonProfile)
	return next, nil
}

// ChangePassword replaces the password of the session user.
func (s *Service) ChangePassword(ctx context.Context, form PasswordForm) error {
	if err := domain.Validation(form.Validate()); err != nil {
		return err
	}
	err := s.client.ChangePassword(ctx, domain.PasswordChange{CurrentPassword: form.Current, NewPassword: form.New})
	if err != nil {
		return rootError("change password", err, PasswordFailedText)
	}
	return nil
}

// MyPage is the data behind the my page view.
type MyPage struct {
	User            *domain.Me
	Applications    []domain.Application
	ApplicationsErr string
}

// LoadMyPage fetches the session user and their applications concurrently.
// A failed application list is reported in ApplicationsErr; a missing
// session fails the whole page.
func (s *Service) LoadMyPage(ctx context.Context) (MyPage, error) {
	var page MyPage
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		user, err := s.RequireUser(groupCtx)
		page.User = user
		return err
	})
	group.Go(func() error {
		apps, err := s.client.MyApplications(groupCtx)
		if err != nil {
			if groupCtx.Err() != nil {
				return nil
			}
			page.ApplicationsErr = ui.MapError(err, ApplicationsFailedText)
			return nil
		}
		page.Applications = apps
		return nil
	})
	if err := group.Wait(); err != nil {
		return MyPage{}, err
	}
	if page.Applications == nil {
		page.Applications = []domain.Application{}
	}
	return page, nil
}

func (s *Service) publish(user *domain.Me, reason events.AuthReason) {
	if user != nil {
		copied := *user
		user = &copied
	}
	s.hub.Auth.Publish(events.AuthChanged{User: user, Reason: reason})
}

// FieldsOf returns the per-field messages carried by err, if any.
func FieldsOf(err error) domain.FieldErrors {
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		return validation.Fields
	}
	return nil
}

// IsSignedOut reports whether err means there is no session.
func IsSignedOut(err error) bool {
	if errors.Is(err, domain.ErrNotSignedIn) || api.IsUnauthenticated(err) {
		return true
	}
	code, _ := domain.CodeFrom(err)
	return code == domain.CodeUnauthenticated
}
