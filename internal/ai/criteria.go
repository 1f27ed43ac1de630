package ai

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"google.golang.org/genai"

	"github.com/msgtobala/user-story-generator/internal/validation"
)

const FallbackCriterion = "Unable to generate specific criteria. Please try again with more detailed description."

const criteriaSystemPrompt = `You are an AI assistant specialized in generating clear, concise, and testable acceptance criteria for user stories in the Intellectual Property (IP) domain using the Salesforce platform. Your outputs must follow best practices in agile software development, align with Salesforce capabilities (such as custom objects, automation, workflows, Apex, and Lightning components), and reflect compliance and accuracy important in the IP industry.

Key Requirements:
- Acceptance criteria should follow the Given/When/Then or Bulleted list format (depending on context).
- Use domain-specific terminology from Intellectual Property (e.g., patents, trademarks, filings, deadlines).
- Consider Salesforce capabilities and constraints.
- Ensure criteria are testable, unambiguous, and tied to the business value of the story.
- Generate 3-6 specific, actionable acceptance criteria.
- Focus on user interactions, system behaviors, and business rules.
- Include validation scenarios and edge cases where appropriate.

Format your response as a simple list of acceptance criteria, one per line, without additional formatting or explanations.`

// CriteriaRequest is the story context sent to the model. Only Description
// is required.
type CriteriaRequest struct {
	Description string `json:"description"`
	FeatureName string `json:"featureName"`
	Role        string `json:"role"`
	Goal        string `json:"goal"`
	Benefit     string `json:"benefit"`
	Module      string `json:"module"`
}

// GenerateAcceptanceCriteria asks the model for criteria and parses them.
// The result is never empty.
func (g *Generator) GenerateAcceptanceCriteria(ctx context.Context, req CriteriaRequest) ([]string, error) {
	if !g.Configured() {
		return nil, ErrMissingAPIKey
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, validation.New("Please enter a description first to generate acceptance criteria")
	}

	text, err := g.generate(ctx, "acceptance_criteria", genai.Text(CriteriaPrompt(req)), nil)
	if err != nil {
		if errors.Is(err, ErrMissingAPIKey) {
			return nil, err
		}
		return nil, fmt.Errorf("error generating acceptance criteria: %w", err)
	}
	return ParseCriteria(text), nil
}

// CriteriaPrompt renders the full prompt for req.
func CriteriaPrompt(req CriteriaRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Feature: %s\n", orNotSpecified(req.FeatureName))
	fmt.Fprintf(&b, "Module: %s\n", orNotSpecified(req.Module))
	fmt.Fprintf(&b, "Description: %s\n", req.Description)

	if req.Role != "" || req.Goal != "" || req.Benefit != "" {
		b.WriteString("\nUser Story Context:\n")
		if req.Role != "" {
			fmt.Fprintf(&b, "- Role: %s\n", req.Role)
		}
		if req.Goal != "" {
			fmt.Fprintf(&b, "- Goal: %s\n", req.Goal)
		}
		if req.Benefit != "" {
			fmt.Fprintf(&b, "- Benefit: %s\n", req.Benefit)
		}
	}

	return criteriaSystemPrompt +
		"\n\nBased on the following context, generate acceptance criteria:\n\n" +
		b.String() +
		"\n\nAcceptance Criteria:"
}

func orNotSpecified(s string) string {
	if s == "" {
		return "Not specified"
	}
	return s
}

var bulletPrefix = regexp.MustCompile(`^[-•*\d+.\s]+`)

// minCriterionLen is the shortest line accepted as a criterion, exclusive.
const minCriterionLen = 10

// ParseCriteria turns model output into one criterion per line. Headings,
// preambles, bullets, numbering and short fragments are dropped; when nothing
// usable remains the single FallbackCriterion is returned.
func ParseCriteria(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if strings.Contains(lower, "acceptance criteria:") || strings.HasPrefix(lower, "here are") {
			continue
		}
		line = strings.TrimSpace(bulletPrefix.ReplaceAllString(line, ""))
		if utf8.RuneCountInString(line) <= minCriterionLen {
			continue
		}
		out = append(out, line)
	}
	if len(out) == 0 {
		return []string{FallbackCriterion}
	}
	return out
}
