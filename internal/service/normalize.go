package service

import "strings"

// NormalizeTitle 先按 Unicode 转小写，再去掉 [a-z0-9] 以外的所有字符，保留剩余字符的相对顺序。
// 小写后落在 ASCII 的字符（如开尔文符号 K）会保留下来
func NormalizeTitle(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b.WriteByte(c)
		}
	}
	return b.String()
}
