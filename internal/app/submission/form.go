package submission

import (
	"regexp"
	"strings"

	"compassai/internal/app/catalog"
	"compassai/internal/domain"
)

// Form field names.
const (
	FieldName        = "name"
	FieldWebsite     = "website"
	FieldRegion      = "region"
	FieldCategory    = "category"
	FieldDescription = "description"
	FieldPlatforms   = "platforms"
	FieldLogo        = "logo"
)

// Validation and result texts.
const (
	MsgNameRequired        = "서비스 이름을 입력하세요"
	MsgWebsiteInvalid      = "유효한 웹사이트 주소(https://)를 입력하세요"
	MsgRegionRequired      = "서비스 지역을 입력하세요"
	MsgCategoryRequired    = "카테고리를 선택하세요"
	MsgDescriptionRequired = "설명을 입력하세요"
	MsgPlatformUnknown     = "지원하지 않는 플랫폼입니다"
	SubmittedText          = "등록 요청이 제출되었습니다. 검토 후 반영됩니다."
	SubmitFailedText       = "등록 요청에 실패했습니다. 잠시 후 다시 시도해 주세요."
	LogoFailedText         = "로고 업로드에 실패했습니다."
)

var urlPattern = regexp.MustCompile(`(?i)^(https?)://\S+$`)

var platformOptions = []string{
	"웹(Web)",
	"iOS",
	"Android",
	"Windows",
	"macOS",
	"Linux",
	"브라우저 확장(Extension)",
	"API/SDK",
}

// Platforms lists the selectable platforms in display order.
func Platforms() []string {
	return append([]string(nil), platformOptions...)
}

// Categories lists the selectable category labels.
func Categories() []string {
	return catalog.CanonicalLabels()
}

// Form is the submit-a-tool input. Category accepts a category id or any
// label spelling.
type Form struct {
	Name        string
	Website     string
	Region      string
	Category    string
	SubTitle    string
	Description string
	Features    string
	Pricing     string
	Audience    string
	Platforms   []string
	Extra       string
	Logo        string
}

// NewForm returns a form with the first category preselected.
func NewForm() Form {
	return Form{Category: catalog.CanonicalLabels()[0]}
}

func required(value string) bool {
	return strings.TrimSpace(value) != ""
}

// ValidWebsite reports whether value is an http or https URL.
func ValidWebsite(value string) bool {
	return urlPattern.MatchString(value)
}

func (f Form) Validate() domain.FieldErrors {
	fields := domain.FieldErrors{}
	if !required(f.Name) {
		fields.Set(FieldName, MsgNameRequired)
	}
	if !required(f.Website) || !ValidWebsite(f.Website) {
		fields.Set(FieldWebsite, MsgWebsiteInvalid)
	}
	if !required(f.Region) {
		fields.Set(FieldRegion, MsgRegionRequired)
	}
	if !required(f.Category) {
		fields.Set(FieldCategory, MsgCategoryRequired)
	} else if _, ok := catalog.ResolveID(f.Category); !ok {
		fields.Set(FieldCategory, MsgCategoryRequired)
	}
	if !required(f.Description) {
		fields.Set(FieldDescription, MsgDescriptionRequired)
	}
	for _, platform := range f.Platforms {
		if !knownPlatform(platform) {
			fields.Set(FieldPlatforms, MsgPlatformUnknown+": "+platform)
		}
	}
	return fields
}

func knownPlatform(value string) bool {
	for _, option := range platformOptions {
		if option == value {
			return true
		}
	}
	return false
}

// FeatureChips splits the features text on newlines and commas.
func FeatureChips(features string) []string {
	parts := strings.FieldsFunc(features, func(r rune) bool {
		return r == '\n' || r == ','
	})
	chips := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			chips = append(chips, trimmed)
		}
	}
	return chips
}

// Request builds the backend create request. Fields without a backend
// column are appended to the long description as labelled lines.
func (f Form) Request() domain.ApplicationRequest {
	category := catalog.ServerLabel(resolveCategory(f.Category))
	long := strings.TrimSpace(f.Description)

	var extras []string
	if chips := FeatureChips(f.Features); len(chips) > 0 {
		extras = append(extras, "주요 기능: "+strings.Join(chips, ", "))
	}
	if pricing := strings.TrimSpace(f.Pricing); pricing != "" {
		extras = append(extras, "가격: "+pricing)
	}
	if audience := strings.TrimSpace(f.Audience); audience != "" {
		extras = append(extras, "대상: "+audience)
	}
	if len(f.Platforms) > 0 {
		extras = append(extras, "지원 플랫폼: "+strings.Join(f.Platforms, ", "))
	}
	if extra := strings.TrimSpace(f.Extra); extra != "" {
		extras = append(extras, "기타: "+extra)
	}
	if len(extras) > 0 {
		long += "\n\n" + strings.Join(extras, "\n")
	}

	return domain.ApplicationRequest{
		Name:       strings.TrimSpace(f.Name),
		SubTitle:   strings.TrimSpace(f.SubTitle),
		Categories: []string{category},
		Origin:     strings.TrimSpace(f.Region),
		URL:        strings.TrimSpace(f.Website),
		Logo:       strings.TrimSpace(f.Logo),
		Long:       long,
	}
}

func resolveCategory(value string) string {
	id, _ := catalog.ResolveID(value)
	return id
}
