package submission

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compassai/internal/domain"
	"compassai/internal/infra/api"
	"compassai/internal/infra/jsoncodec"
)

const testBaseURL = "http://compass.test"

func newService(t *testing.T) (*Service, *httpmock.MockTransport) {
	t.Helper()
	transport := httpmock.NewMockTransport()
	client, err := api.New(api.Config{BaseURL: testBaseURL, Timeout: time.Second}, api.WithTransport(transport))
	require.NoError(t, err)
	return NewService(client, nil), transport
}

func validForm() Form {
	return Form{
		Name:        "CompassAI",
		Website:     "HTTPS://compass.example.com",
		Region:      "국내",
		Category:    "write",
		SubTitle:    "AI 툴 탐색",
		Description: "AI 서비스를 찾아 주는 서비스",
		Features:    "검색, 카테고리\n\n좋아요 ,",
		Pricing:     "무료",
		Platforms:   []string{"웹(Web)", "API/SDK"},
	}
}

func TestForm_Validate(t *testing.T) {
	fields := Form{Website: "ftp://files.example.com", Category: "없는 카테고리", Platforms: []string{"Amiga"}}.Validate()
	assert.Equal(t, domain.FieldErrors{
		FieldName:        MsgNameRequired,
		FieldWebsite:     MsgWebsiteInvalid,
		FieldRegion:      MsgRegionRequired,
		FieldCategory:    MsgCategoryRequired,
		FieldDescription: MsgDescriptionRequired,
		FieldPlatforms:   MsgPlatformUnknown + ": Amiga",
	}, fields)

	assert.True(t, validForm().Validate().Empty())
	assert.False(t, ValidWebsite("https://has space.com"))
}

func TestFeatureChips(t *testing.T) {
	assert.Equal(t, []string{"검색", "카테고리", "좋아요"}, FeatureChips("검색, 카테고리\n\n좋아요 ,"))
	assert.Empty(t, FeatureChips(" , \n"))
}

func TestForm_Request(t *testing.T) {
	req := validForm().Request()
	assert.Equal(t, []string{"글쓰기/콘텐츠"}, req.Categories)
	assert.Equal(t, "국내", req.Origin)
	assert.Equal(t, "HTTPS://compass.example.com", req.URL)
	assert.Equal(t, "AI 서비스를 찾아 주는 서비스\n\n주요 기능: 검색, 카테고리, 좋아요\n가격: 무료\n지원 플랫폼: 웹(Web), API/SDK", req.Long)

	form := validForm()
	form.Features, form.Pricing, form.Platforms = "", "", nil
	assert.Equal(t, "AI 서비스를 찾아 주는 서비스", form.Request().Long)

	form.Category = "글쓰기/컨텐츠"
	assert.Equal(t, []string{"글쓰기/콘텐츠"}, form.Request().Categories)
}

func TestSubmit_InvalidIssuesNoRequest(t *testing.T) {
	svc, transport := newService(t)
	_, err := svc.Submit(context.Background(), Form{}, nil)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 0, transport.GetTotalCallCount())
}

func TestSubmit_UploadsLogoThenSubmits(t *testing.T) {
	svc, transport := newService(t)
	transport.RegisterResponder(http.MethodPost, testBaseURL+"/api/tools/logos", func(req *http.Request) (*http.Response, error) {
		file, header, err := req.FormFile("file")
		if err != nil {
			return httpmock.NewStringResponse(400, err.Error()), nil
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if header.Filename != "logo.png" || string(data) != "png-bytes" {
			return httpmock.NewStringResponse(400, "bad upload"), nil
		}
		return httpmock.NewStringResponse(200, `{"url":"https://cdn.example.com/logo.png"}`), nil
	})
	var sent domain.ApplicationRequest
	transport.RegisterResponder(http.MethodPost, testBaseURL+"/api/tools/applications", func(req *http.Request) (*http.Response, error) {
		if err := jsoncodec.NewDecoder(req.Body).Decode(&sent); err != nil {
			return httpmock.NewStringResponse(400, err.Error()), nil
		}
		return httpmock.NewStringResponse(200, `{"applicationId":42}`), nil
	})

	result, err := svc.Submit(context.Background(), validForm(), &LogoFile{Name: "/tmp/logo.png", Content: strings.NewReader("png-bytes")})
	require.NoError(t, err)
	assert.Equal(t, int64(42), result.ApplicationID)
	assert.Equal(t, SubmittedText, result.Message)
	assert.Equal(t, "https://cdn.example.com/logo.png", sent.Logo)
	assert.Equal(t, "CompassAI", sent.Name)
}

func TestSubmit_FailureShowsServerText(t *testing.T) {
	svc, transport := newService(t)
	transport.RegisterResponder(http.MethodPost, testBaseURL+"/api/tools/applications",
		httpmock.NewStringResponder(401, "로그인이 필요합니다."))

	_, err := svc.Submit(context.Background(), validForm(), nil)
	require.Error(t, err)
	assert.Equal(t, "로그인이 필요합니다.", domain.Message(err))
	code, _ := domain.CodeFrom(err)
	assert.Equal(t, domain.CodeUnauthenticated, code)
}
