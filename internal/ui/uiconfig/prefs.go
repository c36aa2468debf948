package uiconfig

import (
	"encoding/json"
	"strings"

	"compassai/internal/infra/jsoncodec"
)

// SectionLastEmail holds the email remembered by the login form.
const SectionLastEmail = "compassai_last_email"

// LastEmail returns the remembered login email, or "" when none is stored.
func (s *Store) LastEmail() (string, error) {
	raw, ok, err := s.Section(SectionLastEmail)
	if err != nil || !ok {
		return "", err
	}
	var email string
	if err := jsoncodec.Unmarshal(raw, &email); err != nil {
		return "", nil
	}
	return email, nil
}

// SetLastEmail remembers email; a blank email clears the entry.
func (s *Store) SetLastEmail(email string) error {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return s.ClearLastEmail()
	}
	data, err := jsoncodec.Marshal(trimmed)
	if err != nil {
		return err
	}
	_, err = s.Update(map[string]json.RawMessage{SectionLastEmail: data}, nil)
	return err
}

func (s *Store) ClearLastEmail() error {
	_, err := s.Update(nil, []string{SectionLastEmail})
	return err
}
