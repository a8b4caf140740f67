// Package tagging assigns hierarchical tags to interpreted entries based on
// configured comment patterns, date ranges and account filters.
package tagging

import (
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"github.com/bardeteleon/financial-analysis/internal/config"
	"github.com/bardeteleon/financial-analysis/internal/entry"
)

// Rule matches entries by raw comment pattern, optionally restricted to a
// date range and a single account.
type Rule struct {
	Tag       entry.Tag
	Pattern   *regexp.Regexp
	DateFrom  *time.Time
	DateTo    *time.Time
	AccountID string
}

// RulesFromConfig compiles configured tag rules. An invalid pattern or date
// fails the whole set since a silently skipped rule would mistag entries.
func RulesFromConfig(cfg config.Config) ([]Rule, error) {
	rules := make([]Rule, 0, len(cfg.TagRules))
	for _, tr := range cfg.TagRules {
		re, err := regexp.Compile(tr.CommentPattern)
		if err != nil {
			return nil, fmt.Errorf("tagging: rule %q: %w", tr.Tag, err)
		}
		rule := Rule{Tag: entry.NewTag(tr.Tag), Pattern: re, AccountID: tr.AccountID}
		if tr.DateFrom != "" {
			t, err := time.Parse("2006-01-02", tr.DateFrom)
			if err != nil {
				return nil, fmt.Errorf("tagging: rule %q date_from: %w", tr.Tag, err)
			}
			rule.DateFrom = &t
		}
		if tr.DateTo != "" {
			t, err := time.Parse("2006-01-02", tr.DateTo)
			if err != nil {
				return nil, fmt.Errorf("tagging: rule %q date_to: %w", tr.Tag, err)
			}
			rule.DateTo = &t
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// Matches reports whether the rule applies to the entry.
func (r Rule) Matches(e *entry.Entry) bool {
	if e.Raw == nil || !r.Pattern.MatchString(e.Raw.Comment) {
		return false
	}
	if r.AccountID != "" && r.AccountID != e.AccountID {
		return false
	}
	if r.DateFrom != nil && (e.Date == nil || e.Date.Before(*r.DateFrom)) {
		return false
	}
	if r.DateTo != nil && (e.Date == nil || e.Date.After(*r.DateTo)) {
		return false
	}
	return true
}

// Apply tags every transaction entry in place. Entries no rule matches get
// the undefined tag so downstream grouping always sees at least one tag.
// Matching rules append in declaration order without duplicates.
func Apply(entries []*entry.Entry, rules []Rule, log zerolog.Logger) {
	tagged := 0
	for _, e := range entries {
		if !e.IsTransaction() {
			continue
		}
		for _, r := range rules {
			if !r.Matches(e) {
				continue
			}
			if !hasTag(e.Tags, r.Tag) {
				e.Tags = append(e.Tags, r.Tag)
			}
		}
		if len(e.Tags) == 0 {
			e.Tags = append(e.Tags, entry.UndefinedTag)
		} else {
			tagged++
		}
	}
	log.Info().Int("tagged", tagged).Int("rules", len(rules)).Msg("tagging applied")
}

func hasTag(tags []entry.Tag, tag entry.Tag) bool {
	for _, t := range tags {
		if t.Equal(tag) {
			return true
		}
	}
	return false
}
