package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID 生成 32 位无连字符 ID（与 varchar(32) 主键对应）
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
