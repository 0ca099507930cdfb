package normalizer

import (
	"strings"

	"recruit-metrics/internal/models"
)

// Rule maps a set of free-text keywords to one job-type tag.
type Rule struct {
	Keywords []string
	JobType  string
}

// defaultRules is the keyword taxonomy shared with the collectors. Rules
// are evaluated in order, first match wins, so the more specific dentist
// keywords come before the assistant ones ("歯科助手" contains "助手").
var defaultRules = []Rule{
	{Keywords: []string{"歯科衛生士", "衛生士", "DH"}, JobType: models.JobTypeDentalHygienist},
	{Keywords: []string{"歯科医師", "勤務医", "ドクター"}, JobType: models.JobTypeDentist},
	{Keywords: []string{"歯科助手", "助手", "DA"}, JobType: models.JobTypeDentalAssistant},
	{Keywords: []string{"受付", "医療事務"}, JobType: models.JobTypeReceptionist},
}

// Classifier infers a job-type tag from free text such as a job posting
// title. It sits outside the data-integrity logic so the taxonomy can be
// swapped without touching normalization.
type Classifier struct {
	rules []Rule
}

// NewClassifier creates a classifier with the default keyword rules.
func NewClassifier() *Classifier {
	return NewClassifierWithRules(defaultRules)
}

// NewClassifierWithRules creates a classifier with a custom ordered rule
// list.
func NewClassifierWithRules(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Classify returns the job type for the first rule whose keyword appears in
// text, or nil when nothing matches.
func (c *Classifier) Classify(text string) *string {
	for _, rule := range c.rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(text, keyword) {
				jobType := rule.JobType
				return &jobType
			}
		}
	}
	return nil
}
