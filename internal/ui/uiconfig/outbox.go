package uiconfig

import (
	"fmt"
	"sort"
	"strings"

	bolt "go.etcd.io/bbolt"

	"compassai/internal/domain"
	"compassai/internal/infra/jsoncodec"
)

// EnqueueContact stores a help-center message until it is delivered.
func (s *Store) EnqueueContact(msg domain.ContactMessage) error {
	if strings.TrimSpace(msg.ID) == "" {
		return fmt.Errorf("contact message id is required")
	}
	data, err := jsoncodec.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode contact message: %w", err)
	}
	return s.update(func(tx *bolt.Tx) error {
		bucket, err := childBucket(tx, outboxBucketName)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(msg.ID), data)
	})
}

// Contacts lists queued messages, oldest first.
func (s *Store) Contacts() ([]domain.ContactMessage, error) {
	var out []domain.ContactMessage
	err := s.view(func(tx *bolt.Tx) error {
		bucket, err := childBucket(tx, outboxBucketName)
		if err != nil {
			return err
		}
		return bucket.ForEach(func(_, value []byte) error {
			var msg domain.ContactMessage
			if err := jsoncodec.Unmarshal(value, &msg); err != nil {
				return fmt.Errorf("decode contact message: %w", err)
			}
			out = append(out, msg)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// DeleteContact removes a queued message.
func (s *Store) DeleteContact(id string) error {
	return s.update(func(tx *bolt.Tx) error {
		bucket, err := childBucket(tx, outboxBucketName)
		if err != nil {
			return err
		}
		return bucket.Delete([]byte(id))
	})
}
