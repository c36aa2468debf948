package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"go.uber.org/zap"

	"compassai/internal/domain"
	"compassai/internal/infra/jsoncodec"
)

// DatasetETag returns an ETag for a tool list and logs on failure.
func DatasetETag(logger *zap.Logger, tools []domain.Tool) string {
	return hashWithLogger(logger, "dataset", func() (string, error) {
		return HashJSON(tools)
	})
}

// HashJSON returns the hex SHA-256 of value's JSON encoding.
func HashJSON(value any) (string, error) {
	data, err := jsoncodec.Marshal(value)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func hashWithLogger(logger *zap.Logger, label string, fn func() (string, error)) string {
	etag, err := fn()
	if err != nil {
		if logger != nil {
			logger.Warn(fmt.Sprintf("%s hash failed", label), zap.Error(err))
		}
		return ""
	}
	return etag
}
