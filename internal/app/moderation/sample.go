package moderation

import (
	"context"
	"fmt"
	"sync"

	"compassai/internal/domain"
)

// SampleBackend serves a fixed in-memory review list. It backs the admin
// commands when the catalog runs in static mode.
type SampleBackend struct {
	mu   sync.Mutex
	apps []domain.Application
}

func NewSampleBackend() *SampleBackend {
	return &SampleBackend{apps: SampleApplications()}
}

func (b *SampleBackend) AdminApplications(ctx context.Context) ([]domain.Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.Application, 0, len(b.apps))
	for _, app := range b.apps {
		out = append(out, app.Clone())
	}
	return out, nil
}

func (b *SampleBackend) UpdateApplicationStatus(ctx context.Context, id int64, update domain.StatusUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !update.Status.Valid() {
		return domain.E(domain.CodeInvalidArgument, "update status", fmt.Sprintf("잘못된 상태 값입니다: %s", update.Status), domain.ErrInvalidRequest)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.apps {
		if b.apps[i].ID != id {
			continue
		}
		b.apps[i].Status = update.Status
		b.apps[i].RejectReason = ""
		if update.Status == domain.StatusRejected {
			b.apps[i].RejectReason = update.RejectReason
			if b.apps[i].RejectReason == "" {
				b.apps[i].RejectReason = domain.DefaultRejectReason
			}
		}
		return nil
	}
	return domain.E(domain.CodeNotFound, "update status", fmt.Sprintf("신청을 찾을 수 없습니다: %d", id), nil)
}

// SampleApplications returns the three demo applications.
func SampleApplications() []domain.Application {
	return []domain.Application{
		{
			ID:          1,
			Name:        "예시 챗봇 플랫폼",
			SubTitle:    "내가 만든 고객 상담용 챗봇",
			Origin:      domain.OriginDomestic,
			URL:         "https://example.com/my-chatbot",
			Description: "고객센터 자동응답을 위한 챗봇 서비스입니다.",
			Status:      domain.StatusPending,
			AppliedAt:   mustTime("2025-11-13 10:20"),
			Applicant:   domain.Applicant{ID: 10, Name: "홍길동", Email: "user1@example.com"},
			Categories:  []string{"생산성/협업도구"},
		},
		{
			ID:          2,
			Name:        "이미지 생성 도구",
			SubTitle:    "텍스트 프롬프트 기반 이미지 생성",
			Origin:      domain.OriginOverseas,
			URL:         "https://example.com/image-ai",
			Description: "텍스트 프롬프트로 이미지를 생성하는 서비스입니다.",
			Status:      domain.StatusApproved,
			AppliedAt:   mustTime("2025-11-12 16:03"),
			ProcessedAt: timePtr("2025-11-12 17:30"),
			Applicant:   domain.Applicant{ID: 11, Name: "이디자", Email: "designer@example.com"},
			Categories:  []string{"디자인/아트", "비디오/오디오"},
		},
		{
			ID:           3,
			Name:         "데이터 분석 어시스턴트",
			SubTitle:     "업로드한 CSV를 자동 분석",
			Origin:       domain.OriginOverseas,
			URL:          "https://example.com/data-assistant",
			Description:  "CSV 업로드 후 자동으로 요약/시각화를 제공합니다.",
			Status:       domain.StatusRejected,
			AppliedAt:    mustTime("2025-11-11 09:47"),
			ProcessedAt:  timePtr("2025-11-11 10:10"),
			RejectReason: "실제 서비스 URL이 아니거나 접속 불가",
			Applicant:    domain.Applicant{ID: 12, Name: "데이터맨", Email: "data@example.com"},
			Categories:   []string{"검색/데이터"},
		},
	}
}

func mustTime(raw string) domain.LocalDateTime {
	t, err := domain.ParseLocalDateTime(raw)
	if err != nil {
		panic(err)
	}
	return t
}

func timePtr(raw string) *domain.LocalDateTime {
	t := mustTime(raw)
	return &t
}
