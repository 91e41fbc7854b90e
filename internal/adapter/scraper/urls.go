package scraper

import (
	"net/url"
	"strings"
)

var skippedSchemes = []string{"javascript:", "mailto:", "tel:", "data:", "about:", "blob:"}

// ResolveLink 把列表页上的 href 解析为绝对地址；锚点和脚本链接返回 false
func ResolveLink(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}
	u, ok := resolve(base, href)
	if !ok {
		return "", false
	}
	u.Fragment = ""
	return u.String(), true
}

// ResolveMedia 把播放元素的 src 解析为绝对地址："//" 开头补 https:，相对地址按页面地址解析
func ResolveMedia(page *url.URL, src string) (string, bool) {
	src = strings.TrimSpace(src)
	if src == "" || strings.HasPrefix(src, "#") {
		return "", false
	}
	u, ok := resolve(page, src)
	if !ok {
		return "", false
	}
	return u.String(), true
}

func resolve(base *url.URL, ref string) (*url.URL, bool) {
	lower := strings.ToLower(ref)
	for _, p := range skippedSchemes {
		if strings.HasPrefix(lower, p) {
			return nil, false
		}
	}
	if strings.HasPrefix(ref, "//") {
		ref = "https:" + ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return nil, false
	}
	if !u.IsAbs() {
		if base == nil {
			return nil, false
		}
		u = base.ResolveReference(u)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, false
	}
	return u, true
}

// CollapseSpace 折叠空白
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
