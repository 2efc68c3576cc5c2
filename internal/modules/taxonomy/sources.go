package taxonomy

import (
	"regexp"
	"strings"
)

// The canonical source-type categories, in display order. The domain
// classifier may also emit non-canonical labels (e.g. "Government"); callers
// that need the closed set normalize with CanonicalCategory.
var CanonicalCategories = []string{
	"News",
	"Tech Blog",
	"Forum",
	"Social Media",
	"Video Platform",
	"Knowledge Base",
	"Review Site",
	"Other",
}

// DefaultCategory is returned for domains no rule covers.
const DefaultCategory = "Other"

// domainCategories maps exact domains to their editorial category. Domains
// outside this table fall through to the pattern rules.
var domainCategories = map[string]string{
	"sohu.com":                 "News",
	"news.sohu.com":            "News",
	"time-weekly.com":          "News",
	"jjckb.cn":                 "News",
	"xinhuanet.com":            "News",
	"people.com.cn":            "News",
	"adreamertech.com.cn":      "Tech Blog",
	"m.vzkoo.com":              "Tech Blog",
	"smb.pconline.com.cn":      "Tech Blog",
	"notebook.pconline.com.cn": "Review Site",
	"hangyan.co":               "Knowledge Base",
	"hwhidc.cn":                "Knowledge Base",
	"zhidx.com":                "Tech Blog",
	"36kr.com":                 "News",
	"ithome.com":               "Tech Blog",
	"csia.com.cn":              "Knowledge Base",
	"chinadaily.com.cn":        "News",
	"cnbeta.com":               "Tech Blog",
	"kuaibao.qq.com":           "News",
	"finance.sina.com.cn":      "News",
	"sina.com.cn":              "News",
	"weixin.qq.com":            "Social Media",
	"mp.weixin.qq.com":         "Social Media",
	"zhihu.com":                "Forum",
	"weibo.com":                "Social Media",
	"bilibili.com":             "Video Platform",
	"github.com":               "Knowledge Base",
	"csdn.net":                 "Tech Blog",
}

type categoryRule struct {
	pattern  *regexp.Regexp
	category string
}

var categoryRules = []categoryRule{
	{regexp.MustCompile(`(?i)(gov\.cn|\.gov$)`), "Government"},
	{regexp.MustCompile(`(?i)(news|daily|times|finance|market)`), "News"},
	{regexp.MustCompile(`(?i)(blog|tech|pconline|it|ai|digital)`), "Tech Blog"},
	{regexp.MustCompile(`(?i)(forum|bbs|tieba|community)`), "Forum"},
	{regexp.MustCompile(`(?i)(weibo|wechat|weixin|twitter|facebook|instagram)`), "Social Media"},
	{regexp.MustCompile(`(?i)(edu|university|research|academy|journal)`), "Academic"},
	{regexp.MustCompile(`(?i)(wiki|wikipedia)`), "Wiki"},
	{regexp.MustCompile(`(?i)(review|bench|notebook)`), "Review Site"},
	{regexp.MustCompile(`(?i)(case|whitepaper|report|insights)`), "Case Study"},
}

// aliasCategories folds the non-canonical labels the rules can emit into the
// closed canonical set.
var aliasCategories = map[string]string{
	"Government": "News",
	"Academic":   "Knowledge Base",
	"Wiki":       "Knowledge Base",
	"Case Study": "Review Site",
}

// NormalizeDomain strips the protocol and path from a raw domain or URL and
// lower-cases the host.
func NormalizeDomain(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "https://"), "http://")
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	return strings.ToLower(s)
}

// DomainCategory classifies a domain or URL into a source-type label. Exact
// table entries win over the pattern rules; unmatched domains are Other. The
// result may be non-canonical.
func DomainCategory(raw string) string {
	domain := NormalizeDomain(raw)
	if domain == "" {
		return DefaultCategory
	}
	if cat, ok := domainCategories[domain]; ok {
		return cat
	}
	for _, rule := range categoryRules {
		if rule.pattern.MatchString(domain) {
			return rule.category
		}
	}
	return DefaultCategory
}

// CanonicalCategory folds any classifier label into the closed canonical set.
func CanonicalCategory(label string) string {
	if alias, ok := aliasCategories[label]; ok {
		return alias
	}
	for _, c := range CanonicalCategories {
		if c == label {
			return label
		}
	}
	return DefaultCategory
}
