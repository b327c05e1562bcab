// Package fetch - source.go detects well-known sites and their content selectors.
package fetch

import (
	"net/url"
	"strings"
)

// Source is a site whose pages need specific content selectors.
type Source string

const (
	// SourceLinkedIn is a LinkedIn job view or guest search page
	SourceLinkedIn Source = "linkedin"
	// SourceGreenhouse is the Greenhouse ATS
	SourceGreenhouse Source = "greenhouse"
	// SourceLever is the Lever ATS
	SourceLever Source = "lever"
	// SourceWorkday is the Workday ATS
	SourceWorkday Source = "workday"
	// SourceGeneric is any other site
	SourceGeneric Source = "generic"
)

// DetectSource identifies the site from a URL.
func DetectSource(urlStr string) Source {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return SourceGeneric
	}

	host := strings.ToLower(parsed.Hostname())
	switch {
	case host == "linkedin.com" || strings.HasSuffix(host, ".linkedin.com"):
		return SourceLinkedIn
	case strings.Contains(host, "greenhouse.io"):
		return SourceGreenhouse
	case strings.Contains(host, "lever.co"):
		return SourceLever
	case strings.Contains(host, "workday.com") || strings.Contains(host, "myworkdayjobs.com"):
		return SourceWorkday
	default:
		return SourceGeneric
	}
}

// ContentSelectors returns the main-content selectors for a source, most specific
// first.
func ContentSelectors(source Source) []string {
	switch source {
	case SourceLinkedIn:
		return []string{
			".show-more-less-html__markup",
			".description__text",
			".jobs-description__content",
			"main",
		}
	case SourceGreenhouse:
		return []string{
			".job__description",
			"#content",
			".job-post-container",
		}
	case SourceLever:
		return []string{
			".posting-page",
			".posting-description",
			".content",
		}
	case SourceWorkday:
		return []string{
			"[data-automation-id='jobPostingDescription']",
			"[data-automation-id='jobDescription']",
			".job-description",
		}
	default:
		return append(ArticleSelectors(), DefaultTextSelectors()...)
	}
}

// NoiseSelectors returns elements stripped before text extraction.
func NoiseSelectors(source Source) []string {
	common := []string{
		"form",
		".social-share",
		".share-buttons",
		".cookie-consent",
		".gdpr-notice",
		".newsletter-signup",
		"[aria-hidden='true']",
	}

	switch source {
	case SourceLinkedIn:
		return append(common,
			".sign-in-modal",
			".contextual-sign-in-modal",
			".similar-jobs",
			".people-also-viewed",
		)
	case SourceGreenhouse:
		return append(common, ".application--wrapper", "#usa_self_id_section")
	case SourceLever:
		return append(common, ".apply-section", ".posting-apply")
	case SourceWorkday:
		return append(common, "[data-automation-id='applyButton']")
	default:
		return append(common, "aside", ".related-posts", ".comments")
	}
}
