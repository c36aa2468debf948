package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"compassai/internal/domain"
)

const testBaseURL = "http://compass.test"

type recordingMetrics struct {
	domain.NoopMetrics
	requests []domain.RequestMetric
}

func (m *recordingMetrics) ObserveRequest(metric domain.RequestMetric) {
	m.requests = append(m.requests, metric)
}

func newTestClient(t *testing.T, opts ...Option) (*Client, *httpmock.MockTransport) {
	t.Helper()
	transport := httpmock.NewMockTransport()
	opts = append([]Option{WithTransport(transport), WithLogger(zap.NewNop())}, opts...)
	client, err := New(Config{BaseURL: testBaseURL, Timeout: 5 * time.Second}, opts...)
	require.NoError(t, err)
	return client, transport
}

func TestGetTools_EncodesQueryAndMapsDTO(t *testing.T) {
	client, transport := newTestClient(t)
	var gotQuery string
	transport.RegisterResponder(http.MethodGet, testBaseURL+"/api/tools", func(req *http.Request) (*http.Response, error) {
		gotQuery = req.URL.RawQuery
		return httpmock.NewStringResponse(200, `{
			"content": [
				{"id": 5, "name": "미드저니 (Midjourney)", "description": "이미지 생성", "categories": ["디자인/아트"]},
				{"id": 9, "name": "수노 (Suno)"}
			],
			"number": 0, "size": 60, "totalElements": 2, "totalPages": 1
		}`), nil
	})

	page, err := client.GetTools(context.Background(), fixedQuery("category=%EB%94%94%EC%9E%90%EC%9D%B8%2F%EC%95%84%ED%8A%B8&page=0&size=60"))
	require.NoError(t, err)
	assert.Equal(t, "category=%EB%94%94%EC%9E%90%EC%9D%B8%2F%EC%95%84%ED%8A%B8&page=0&size=60", gotQuery)
	assert.Equal(t, 1, transport.GetTotalCallCount())

	require.Len(t, page.Content, 2)
	assert.Equal(t, domain.ToolID("5"), page.Content[0].ID)
	assert.Equal(t, "이미지 생성", page.Content[0].Long)
	assert.Equal(t, []string{}, page.Content[1].Categories)
	assert.Equal(t, int64(2), page.TotalElements)
	assert.Equal(t, 60, page.Size)
}

func TestDo_NonSuccessCarriesBodyText(t *testing.T) {
	client, transport := newTestClient(t)
	transport.RegisterResponder(http.MethodGet, testBaseURL+"/api/tools/likes/my",
		httpmock.NewStringResponder(401, "로그인이 필요합니다."))

	_, err := client.MyLikes(context.Background())
	require.Error(t, err)

	statusErr, ok := AsStatusError(err)
	require.True(t, ok)
	assert.Equal(t, 401, statusErr.Status)
	assert.Equal(t, "로그인이 필요합니다.", domain.Message(err))
	assert.True(t, IsUnauthenticated(err))

	code, ok := domain.CodeFrom(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeUnauthenticated, code)
}

func TestDo_EmptyErrorBodyFallsBack(t *testing.T) {
	client, transport := newTestClient(t)
	transport.RegisterResponder(http.MethodPost, testBaseURL+"/api/auth/logout",
		httpmock.NewStringResponder(500, ""))

	err := client.Logout(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.DefaultRequestFailedText, domain.Message(err))
	code, _ := domain.CodeFrom(err)
	assert.Equal(t, domain.CodeUnavailable, code)
}

func TestMe_NullAndEmptyBodyMeanSignedOut(t *testing.T) {
	for _, body := range []string{"", "null", "  "} {
		client, transport := newTestClient(t)
		transport.RegisterResponder(http.MethodGet, testBaseURL+"/api/auth/me", httpmock.NewStringResponder(200, body))

		me, err := client.Me(context.Background())
		require.NoError(t, err, "body %q", body)
		assert.Nil(t, me, "body %q", body)
	}
}

func TestMe_SignedIn(t *testing.T) {
	client, transport := newTestClient(t)
	transport.RegisterResponder(http.MethodGet, testBaseURL+"/api/auth/me",
		httpmock.NewStringResponder(200, `{"id":3,"name":"관리자","email":"admin@compass.ai","role":"ROLE_ADMIN"}`))

	me, err := client.Me(context.Background())
	require.NoError(t, err)
	require.NotNil(t, me)
	assert.Equal(t, int64(3), me.ID)
	assert.True(t, me.IsAdmin())
}

func TestDo_MalformedBodyIsDecodeError(t *testing.T) {
	client, transport := newTestClient(t)
	transport.RegisterResponder(http.MethodGet, testBaseURL+"/api/tools/1", httpmock.NewStringResponder(200, "<html>"))

	_, err := client.GetTool(context.Background(), "1")
	require.Error(t, err)
	code, ok := domain.CodeFrom(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeDecode, code)
}

func TestDo_TransportFailureIsUnavailable(t *testing.T) {
	metrics := &recordingMetrics{}
	client, transport := newTestClient(t, WithMetrics(metrics))
	transport.RegisterResponder(http.MethodGet, testBaseURL+"/api/tools/1", httpmock.NewErrorResponder(io.ErrUnexpectedEOF))

	_, err := client.GetTool(context.Background(), "1")
	require.Error(t, err)
	code, _ := domain.CodeFrom(err)
	assert.Equal(t, domain.CodeUnavailable, code)

	require.Len(t, metrics.requests, 1)
	assert.Equal(t, domain.RequestStatusTransport, metrics.requests[0].Status)
	assert.Equal(t, "/tools/{id}", metrics.requests[0].Endpoint)
}

func TestDo_SendsRequestIDAndJSONBody(t *testing.T) {
	client, transport := newTestClient(t)
	var contentType, requestID, body string
	transport.RegisterResponder(http.MethodPatch, testBaseURL+"/api/admin/ai-applications/7/status", func(req *http.Request) (*http.Response, error) {
		contentType = req.Header.Get("Content-Type")
		requestID = req.Header.Get(requestIDHeader)
		data, _ := io.ReadAll(req.Body)
		body = string(data)
		return httpmock.NewStringResponse(200, ""), nil
	})

	err := client.UpdateApplicationStatus(context.Background(), 7, domain.StatusUpdate{
		Status:       domain.StatusRejected,
		RejectReason: "중복 등록",
	})
	require.NoError(t, err)
	assert.Equal(t, "application/json", contentType)
	assert.Len(t, requestID, 36)
	assert.JSONEq(t, `{"status":"REJECTED","rejectReason":"중복 등록"}`, body)
}

func TestSessionCookieIsReplayed(t *testing.T) {
	client, transport := newTestClient(t)
	transport.RegisterResponder(http.MethodPost, testBaseURL+"/api/auth/login", func(req *http.Request) (*http.Response, error) {
		resp := httpmock.NewStringResponse(200, `{"id":1,"name":"사용자","email":"user@compass.ai"}`)
		resp.Header.Set("Set-Cookie", "JSESSIONID=abc123; Path=/")
		return resp, nil
	})
	var cookie string
	transport.RegisterResponder(http.MethodGet, testBaseURL+"/api/auth/me", func(req *http.Request) (*http.Response, error) {
		if c, err := req.Cookie("JSESSIONID"); err == nil {
			cookie = c.Value
		}
		return httpmock.NewStringResponse(200, `{"id":1,"name":"사용자","email":"user@compass.ai","role":"USER"}`), nil
	})

	_, err := client.Login(context.Background(), domain.Credentials{Email: "user@compass.ai", Password: "password1"})
	require.NoError(t, err)
	_, err = client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc123", cookie)
}

func TestUploadLogo_SendsMultipartFile(t *testing.T) {
	client, transport := newTestClient(t)
	var filename, content string
	transport.RegisterResponder(http.MethodPost, testBaseURL+"/api/tools/logos", func(req *http.Request) (*http.Response, error) {
		file, header, err := req.FormFile("file")
		if err != nil {
			return httpmock.NewStringResponse(400, err.Error()), nil
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		filename = header.Filename
		content = string(data)
		return httpmock.NewStringResponse(200, `{"url":"/uploads/logo.png"}`), nil
	})

	upload, err := client.UploadLogo(context.Background(), "/tmp/logo.png", strings.NewReader("PNGDATA"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/logo.png", upload.URL)
	assert.Equal(t, "logo.png", filename)
	assert.Equal(t, "PNGDATA", content)
}

func TestApplications_DecodeLocalDateTime(t *testing.T) {
	client, transport := newTestClient(t)
	transport.RegisterResponder(http.MethodGet, testBaseURL+"/api/admin/ai-applications", httpmock.NewStringResponder(200, `[
		{"id": 1, "name": "Notion AI", "status": "PENDING", "appliedAt": "2025-02-01T10:20:30",
		 "applicant": {"id": 2, "name": "김철수", "email": "kim@example.com"}}
	]`))

	apps, err := client.AdminApplications(context.Background())
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, domain.StatusPending, apps[0].Status)
	assert.Equal(t, "2025-02-01 10:20", apps[0].AppliedAt.Display())
	assert.Nil(t, apps[0].ProcessedAt)
	assert.Equal(t, "kim@example.com", apps[0].Applicant.Email)
}

func TestTimeoutBoundsHungRequest(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client, err := New(Config{BaseURL: server.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	_, err = client.GetTool(context.Background(), "1")
	require.Error(t, err)
	code, _ := domain.CodeFrom(err)
	assert.Equal(t, domain.CodeDeadlineExceeded, code)
}

func TestNew_RejectsInvalidBaseURL(t *testing.T) {
	_, err := New(Config{BaseURL: "ftp://example.com"})
	require.ErrorIs(t, err, domain.ErrInvalidRequest)
}

type fixedQuery string

func (q fixedQuery) Values() url.Values {
	parsed, _ := url.ParseQuery(string(q))
	return parsed
}
