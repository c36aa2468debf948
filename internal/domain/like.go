package domain

// LikeStatus is the like state of one tool for the caller.
type LikeStatus struct {
	ToolID    int64 `json:"toolId"`
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"likeCount"`
}

// Toggled returns the tentative status after flipping Liked.
func (s LikeStatus) Toggled() LikeStatus {
	next := s
	next.Liked = !s.Liked
	if next.Liked {
		next.LikeCount++
	} else if next.LikeCount > 0 {
		next.LikeCount--
	}
	return next
}

// LogoUpload is the response of the logo upload endpoint.
type LogoUpload struct {
	URL string `json:"url"`
}
