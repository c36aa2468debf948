package help

import "strings"

// CategoryAll selects every FAQ.
const CategoryAll = "전체"

// NoResultsText is shown when no FAQ matches.
const NoResultsText = "검색 결과가 없습니다."

// Operating hours and status notes shown next to the FAQ list.
const (
	HoursText  = "평일 10:00–18:00 (점심 12:30–13:30, 주말/공휴일 휴무)"
	StatusText = "장애/점검 소식은 상태 페이지에서 확인할 수 있습니다."
)

// FAQ is one help-center question.
type FAQ struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

var faqs = []FAQ{
	{ID: "acc-1", Category: "계정", Question: "비밀번호를 잊어버렸어요.", Answer: "로그인 페이지의 ‘비밀번호 찾기’를 이용하세요. 가입 이메일로 재설정 링크가 발송됩니다."},
	{ID: "acc-2", Category: "계정", Question: "이메일을 변경하고 싶어요.", Answer: "마이페이지에서 이메일을 변경할 수 있습니다. 보안 확인 절차가 진행됩니다."},
	{ID: "billing-1", Category: "결제", Question: "환불 정책이 궁금해요.", Answer: "결제 후 7일 이내 미사용 시 전액 환불 가능합니다. 사용 이력이 있으면 일부 환불 정책이 적용됩니다."},
	{ID: "billing-2", Category: "결제", Question: "영수증/세금계산서 발행이 되나요?", Answer: "팀/비즈니스 요금제는 매월 자동 발행됩니다. 개인은 결제 내역에서 다운로드할 수 있습니다."},
	{ID: "submit-1", Category: "AI 등록·검수", Question: "제가 만든 AI를 등록하려면?", Answer: "회원가입 후 대시보드에서 ‘AI 등록’을 클릭해 정보를 입력하면 검수가 진행됩니다. 평균 2~3영업일 소요됩니다."},
	{ID: "submit-2", Category: "AI 등록·검수", Question: "검수 기준은 무엇인가요?", Answer: "안전성, 저작권 준수, 설명의 명확성, 실사용 가능 여부를 중점으로 확인합니다."},
	{ID: "tech-1", Category: "기술", Question: "사이트가 느려요.", Answer: "브라우저 캐시를 비우고 재시도해 주세요. 지속될 경우 고객센터로 증상을 알려주시면 확인해 드립니다."},
	{ID: "tech-2", Category: "기술", Question: "로그인이 안돼요.", Answer: "비밀번호/이메일을 확인하고, 소셜 로그인 차단 플러그인이 없는지 확인해 주세요."},
}

var faqCategories = []string{CategoryAll, "계정", "결제", "AI 등록·검수", "기술"}

// FAQs returns every entry in display order.
func FAQs() []FAQ {
	return append([]FAQ(nil), faqs...)
}

// Categories returns the FAQ filter tabs.
func Categories() []string {
	return append([]string(nil), faqCategories...)
}

// Search filters FAQs by category (CategoryAll or empty for every entry)
// and a case-insensitive keyword in the question or answer.
func Search(category, keyword string) []FAQ {
	needle := strings.ToLower(strings.TrimSpace(keyword))
	out := make([]FAQ, 0, len(faqs))
	for _, faq := range faqs {
		if category != "" && category != CategoryAll && faq.Category != category {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(faq.Question), needle) &&
			!strings.Contains(strings.ToLower(faq.Answer), needle) {
			continue
		}
		out = append(out, faq)
	}
	return out
}
