package common

import (
	"strings"
)

// NormalizeName 正規化名稱（小寫、去除前後空白），供比對與批次去重使用
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
