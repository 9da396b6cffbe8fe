package httpx

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// maxSessionIDLen — верхняя граница длины идентификатора сессии.
const maxSessionIDLen = 128

// ValidSessionID — непустой идентификатор из [A-Za-z0-9._:-] разумной длины.
func ValidSessionID(id string) bool {
	if id == "" || len(id) > maxSessionIDLen {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.' || r == ':':
		default:
			return false
		}
	}
	return true
}

// QueryFlag — читает булев флаг из query: "1", "true", "yes", "on" и пустое значение
// при наличии ключа (?success) считаются true.
func QueryFlag(c *gin.Context, name string) bool {
	v, ok := c.GetQuery(name)
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
