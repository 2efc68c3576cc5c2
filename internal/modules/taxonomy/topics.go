// Package taxonomy holds the fixed classification tables shared by the
// report computations: the topic buckets, the query intent classifier, and
// the domain source-type categories.
package taxonomy

import "strings"

// The fixed topic taxonomy. Bucket order is the match priority and the
// canonical display order.
const (
	TopicPerformance = "Performance and Architecture"
	TopicCooling     = "Cooling, Power Efficiency and High-Density Deployment"
	TopicStability   = "Data Center-Grade Stability and High Availability"
	TopicAI          = "AI, Deep Learning and High-Performance Computing Applications"
	TopicEdgeCloud   = "Edge Computing and Private Cloud / Hybrid Cloud Deployment"
	TopicSecurity    = "Security, Maintenance and Remote Management"
)

// topicRule is one ordered keyword bucket. Keywords cover both English and
// Chinese terms seen in the feed; matching is case-insensitive substring.
type topicRule struct {
	name     string
	keywords []string
}

var topicRules = []topicRule{
	{TopicPerformance, []string{"performance", "architecture", "架构", "性能", "效能"}},
	{TopicCooling, []string{"cooling", "power", "density", "散热", "能耗", "高密度", "功耗", "效率"}},
	{TopicStability, []string{"stability", "availability", "reliability", "稳定性", "高可用", "可靠性", "数据中心"}},
	{TopicAI, []string{"ai", "deep learning", "hpc", "gpu", "人工智能", "深度学习", "高性能计算", "机器学习"}},
	{TopicEdgeCloud, []string{"edge", "cloud", "hybrid", "边缘计算", "私有云", "混合云", "云端"}},
	{TopicSecurity, []string{"security", "maintenance", "remote", "management", "安全性", "维护", "远程管理", "管理"}},
}

// Topics returns the bucket names in canonical order.
func Topics() []string {
	names := make([]string, len(topicRules))
	for i, rule := range topicRules {
		names[i] = rule.name
	}
	return names
}

// MapTopic classifies free text into a topic bucket. The first bucket whose
// keyword set intersects the lower-cased text wins; unmatched text gets the
// caller-supplied default, which may be empty to signal "skip".
func MapTopic(text, def string) string {
	normalized := strings.ToLower(text)
	for _, rule := range topicRules {
		for _, kw := range rule.keywords {
			if strings.Contains(normalized, kw) {
				return rule.name
			}
		}
	}
	return def
}
