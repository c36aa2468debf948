package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"compassai/internal/app/account"
	"compassai/internal/app/help"
	"compassai/internal/app/moderation"
	"compassai/internal/domain"
	"compassai/internal/infra/api"
	"compassai/internal/infra/jsoncodec"
)

type cliEnv struct {
	store string
}

func newCLIEnv(t *testing.T) cliEnv {
	t.Helper()
	return cliEnv{store: filepath.Join(t.TempDir(), "settings.db")}
}

func (e cliEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand(zap.NewNop())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--store", e.store}, args...))
	err := root.Execute()
	return out.String(), err
}

func (e cliEnv) static(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return e.run(t, "", append([]string{"--catalog", "static"}, args...)...)
}

func TestToolsList_StaticCategory(t *testing.T) {
	env := newCLIEnv(t)
	out, err := env.static(t, "tools", "list", "--category", "디자인/아트", "--json")
	require.NoError(t, err)

	var payload struct {
		Items []domain.Tool `json:"items"`
	}
	require.NoError(t, jsoncodec.Unmarshal([]byte(out), &payload))
	names := make([]string, 0, len(payload.Items))
	for _, tool := range payload.Items {
		names = append(names, tool.Name)
	}
	assert.Contains(t, names, "미드저니 (Midjourney)")
	assert.NotContains(t, names, "챗지피티 (ChatGPT)")
}

func TestToolsList_UnknownCategoryListsEverything(t *testing.T) {
	env := newCLIEnv(t)
	out, err := env.static(t, "tools", "list", "--category", "nope")
	require.NoError(t, err)
	assert.Contains(t, out, "총 18개")
}

func TestToolsList_EmptyResult(t *testing.T) {
	env := newCLIEnv(t)
	out, err := env.static(t, "tools", "list", "--search", "zzzz-no-match")
	require.NoError(t, err)
	assert.Contains(t, out, "해당하는 서비스가 없습니다.")
}

func TestToolsGet_Static(t *testing.T) {
	env := newCLIEnv(t)
	out, err := env.static(t, "tools", "get", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "미드저니 (Midjourney) (5)")
	assert.Contains(t, out, "카테고리:")
}

func TestToolsExport_WritesDataset(t *testing.T) {
	env := newCLIEnv(t)
	path := filepath.Join(t.TempDir(), "export", "tools.yaml")
	out, err := env.static(t, "tools", "export", path, "--category", "design")
	require.NoError(t, err)
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Midjourney")
	assert.NotContains(t, string(data), "ChatGPT")
}

func TestSignup_ShortPasswordIssuesNoRequest(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	env := newCLIEnv(t)
	_, err := env.run(t, "", "--api", server.URL, "signup",
		"--name", "홍길동", "--email", "hong@example.com", "--password", "short", "--agree")
	require.Error(t, err)

	exitErr := asExitError(err)
	assert.Equal(t, exitInvalidInput, exitErr.code)
	assert.Equal(t, account.MsgPasswordShort, exitErr.fields[account.FieldPassword])
	assert.Equal(t, int32(0), hits.Load())
}

// sessionBackend accepts one login and recognizes its cookie afterwards.
func sessionBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "s-1", Path: "/"})
		_, _ = w.Write([]byte(`{"id":1,"name":"홍길동","email":"hong@example.com"}`))
	})
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("JSESSIONID"); err != nil || c.Value != "s-1" {
			_, _ = w.Write([]byte("null"))
			return
		}
		_, _ = w.Write([]byte(`{"id":1,"name":"홍길동","email":"hong@example.com","role":"USER"}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestLogin_SessionSurvivesInvocations(t *testing.T) {
	server := sessionBackend(t)
	env := newCLIEnv(t)

	out, err := env.run(t, "password1\n", "--api", server.URL, "login",
		"--email", "hong@example.com", "--password-stdin", "--remember")
	require.NoError(t, err)
	assert.Contains(t, out, "홍길동님, 환영합니다.")

	out, err = env.run(t, "", "--api", server.URL, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "홍길동 <hong@example.com>")

	// The remembered email fills in a missing --email.
	out, err = env.run(t, "", "--api", server.URL, "login", "--password", "password1")
	require.NoError(t, err)
	assert.Contains(t, out, "환영합니다")
}

func TestWhoami_SignedOutExitsUnauthenticated(t *testing.T) {
	server := sessionBackend(t)
	env := newCLIEnv(t)

	_, err := env.run(t, "", "--api", server.URL, "whoami")
	require.Error(t, err)
	exitErr := asExitError(err)
	assert.Equal(t, exitUnauthenticated, exitErr.code)
	assert.Equal(t, "로그인 후 이용할 수 있는 페이지입니다.", exitErr.message)
}

func TestLogin_ServerErrorExitsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("서버 오류"))
	}))
	defer server.Close()

	env := newCLIEnv(t)
	_, err := env.run(t, "", "--api", server.URL, "login", "--email", "hong@example.com", "--password", "password1")
	require.Error(t, err)
	exitErr := asExitError(err)
	assert.Equal(t, exitFailure, exitErr.code)
	assert.Equal(t, "서버 오류", exitErr.message)
	assert.Equal(t, "서버 오류", exitErr.fields[domain.RootField])
}

func TestProfilePassword_ExpiredSessionExitsUnauthenticated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	env := newCLIEnv(t)
	_, err := env.run(t, "", "--api", server.URL, "profile", "password",
		"--current", "password1", "--new", "password2")
	require.Error(t, err)
	assert.Equal(t, exitUnauthenticated, asExitError(err).code)
}

func TestAdminReject_SampleQueue(t *testing.T) {
	env := newCLIEnv(t)
	out, err := env.static(t, "admin", "reject", "1", "--reason", "중복 등록")
	require.NoError(t, err)
	assert.Contains(t, out, moderation.RejectedText)
	assert.Contains(t, out, "거절 사유: 중복 등록")

	out, err = env.static(t, "admin", "list", "--tab", "approved")
	require.NoError(t, err)
	assert.Contains(t, out, "승인됨")
	assert.NotContains(t, out, "대기")
}

func TestAdminList_UnknownTab(t *testing.T) {
	env := newCLIEnv(t)
	_, err := env.static(t, "admin", "list", "--tab", "later")
	require.Error(t, err)
	assert.Equal(t, exitInvalidInput, asExitError(err).code)
}

func TestHelpFAQ_Search(t *testing.T) {
	env := newCLIEnv(t)
	out, err := env.static(t, "help", "faq", "--search", "환불")
	require.NoError(t, err)
	assert.Contains(t, out, "환불 정책이 궁금해요.")
	assert.NotContains(t, out, "사이트가 느려요.")

	out, err = env.static(t, "help", "faq", "--search", "없는질문")
	require.NoError(t, err)
	assert.Contains(t, out, help.NoResultsText)
}

func TestHelpContact_QueuesInOutbox(t *testing.T) {
	env := newCLIEnv(t)
	_, err := env.static(t, "help", "contact", "--email", "me@example.com", "--subject", "문의", "--message", "짧음")
	require.Error(t, err)
	assert.Equal(t, exitInvalidInput, asExitError(err).code)

	out, err := env.static(t, "help", "contact", "--email", "me@example.com", "--subject", "로그인 문제",
		"--message", "로그인이 계속 실패합니다. 확인 부탁드립니다.")
	require.NoError(t, err)
	assert.Contains(t, out, help.ReceivedText)

	out, err = env.static(t, "help", "outbox")
	require.NoError(t, err)
	assert.Contains(t, out, "로그인 문제")
	assert.Contains(t, out, "총 1건")
}

func TestHelp_FallsBackToCommandUsage(t *testing.T) {
	env := newCLIEnv(t)
	out, err := env.static(t, "help", "tools")
	require.NoError(t, err)
	assert.Contains(t, out, "Browse the tool catalog")
}

func TestVersion(t *testing.T) {
	env := newCLIEnv(t)
	out, err := env.static(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "compass dev")
}

func TestAsExitError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"validation", domain.Validation(domain.FieldErrors{"email": "bad"}), exitInvalidInput},
		{"invalid argument", domain.E(domain.CodeInvalidArgument, "op", "bad id", nil), exitInvalidInput},
		{"signed out", domain.E(domain.CodeUnauthenticated, "op", "login", domain.ErrNotSignedIn), exitUnauthenticated},
		{"backend rejection on a field", domain.E(domain.CodeInvalidArgument, "signup", "중복",
			domain.Rejected(&api.StatusError{Status: 400, Body: "중복"}, domain.FieldErrors{"email": "중복"})), exitFailure},
		{"other", errors.New("boom"), exitFailure},
		{"explicit", exitSilent(7), 7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, asExitError(tc.err).code)
		})
	}
}
