package account

import (
	"context"
	"sync"

	"compassai/internal/domain"
	"compassai/internal/ui/events"
)

// Session tracks the signed-in user from auth events.
type Session struct {
	mu     sync.RWMutex
	user   *domain.Me
	reason events.AuthReason
	stop   func()
}

// WatchSession subscribes to auth changes on hub. Call Close to unsubscribe.
func WatchSession(hub *events.Hub, initial *domain.Me) *Session {
	s := &Session{user: initial}
	s.stop = hub.Auth.Handle(s.apply)
	return s
}

// StartSession seeds the watcher with the current backend session.
func (s *Service) StartSession(ctx context.Context) *Session {
	return WatchSession(s.hub, s.CurrentUser(ctx))
}

func (s *Session) apply(event events.AuthChanged) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = event.User
	s.reason = event.Reason
}

// User returns a copy of the session user, or nil when signed out.
func (s *Session) User() *domain.Me {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	copied := *s.user
	return &copied
}

// LastReason is the reason of the most recent auth event.
func (s *Session) LastReason() events.AuthReason {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reason
}

func (s *Session) SignedIn() bool {
	return s.User() != nil
}

func (s *Session) IsAdmin() bool {
	return s.User().IsAdmin()
}

// Menu returns the header entries for the current session.
func (s *Session) Menu() []string {
	user := s.User()
	if user == nil {
		return []string{"커뮤니티", "고객센터", "로그인", "회원가입"}
	}
	items := []string{"커뮤니티", "고객센터", "마이페이지", "AI 등록"}
	if user.IsAdmin() {
		items = append(items, "AI 검수")
	}
	return append(items, "로그아웃")
}

// Header renders the one-line session banner.
func (s *Session) Header() string {
	user := s.User()
	if user == nil {
		return "로그인이 필요합니다"
	}
	label := user.Name + "님"
	if user.IsAdmin() {
		label += " (관리자)"
	}
	return label
}

func (s *Session) Close() {
	if s.stop != nil {
		s.stop()
	}
}
