package taxonomy

import "strings"

// Intent is one of the five query intent classes.
type Intent string

const (
	IntentComparison  Intent = "Comparison"
	IntentAdvice      Intent = "Advice"
	IntentEvaluation  Intent = "Evaluation"
	IntentInformation Intent = "Information"
	IntentOther       Intent = "Other"
)

// Intents returns the intent classes in canonical display order.
func Intents() []Intent {
	return []Intent{IntentComparison, IntentAdvice, IntentEvaluation, IntentInformation, IntentOther}
}

var (
	comparisonKeywords  = []string{"compare", "vs", "versus", "better", "比较", "对比"}
	adviceKeywords      = []string{"best", "recommend", "should", "建议", "推荐"}
	evaluationKeywords  = []string{"evaluate", "assess", "rate", "rating", "quality", "评估", "评价"}
	informationKeywords = []string{"which", "什么", "如何", "哪个"}
)

// ClassifyIntent maps free text to an intent. The keyword families are
// checked in fixed priority, Comparison first, so a query containing both an
// Advice and an Information keyword classifies as Advice. Information needs a
// positive match (a leading "what"/"how" or an interrogative keyword); text
// matching nothing is Other.
func ClassifyIntent(text string) Intent {
	normalized := strings.ToLower(strings.TrimSpace(text))
	switch {
	case containsAny(normalized, comparisonKeywords):
		return IntentComparison
	case containsAny(normalized, adviceKeywords):
		return IntentAdvice
	case containsAny(normalized, evaluationKeywords):
		return IntentEvaluation
	case strings.HasPrefix(normalized, "what") || strings.HasPrefix(normalized, "how"),
		containsAny(normalized, informationKeywords):
		return IntentInformation
	}
	return IntentOther
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
