package taxonomy

import "golang.org/x/text/language"

var supported = []language.Tag{
	language.English,
	language.SimplifiedChinese,
}

var matcher = language.NewMatcher(supported)

var zhLabels = map[string]string{
	TopicPerformance: "性能与架构",
	TopicCooling:     "散热、能效与高密度部署",
	TopicStability:   "数据中心级稳定性与高可用",
	TopicAI:          "AI、深度学习与高性能计算应用",
	TopicEdgeCloud:   "边缘计算与私有云/混合云部署",
	TopicSecurity:    "安全、维护与远程管理",

	string(IntentComparison):  "对比",
	string(IntentAdvice):      "建议",
	string(IntentEvaluation):  "评估",
	string(IntentInformation): "信息",
	string(IntentOther):       "其他",

	// IntentOther and the "Other" source category share the "其他" entry.
	"News":           "新闻媒体",
	"Tech Blog":      "科技博客",
	"Forum":          "论坛社区",
	"Social Media":   "社交媒体",
	"Video Platform": "视频平台",
	"Knowledge Base": "知识库",
	"Review Site":    "评测网站",
}

// Localize returns the display label for a taxonomy name in the language
// best matching the given Accept-Language value. English, the canonical
// label language, is the fallback for unmatched tags and unknown names.
func Localize(name, acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return name
	}
	_, index, _ := matcher.Match(tags...)
	if supported[index] != language.SimplifiedChinese {
		return name
	}
	if zh, ok := zhLabels[name]; ok {
		return zh
	}
	return name
}
