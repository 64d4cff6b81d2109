package ai

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Prompt templates are fixed strings parameterized only by the task title
// and description. Title and description are embedded as-is; the output
// cleaner is the only sanitization anywhere on this path.

const categoryPromptTemplate = `You are a task classifier. Given a task title and description, return a single-word category among: Work, Personal, Errand, Study, Other. Output ONLY the category. Title: "%s". Description: "%s"`

const priorityPromptTemplate = `You are an assistant that suggests task priority. Output one of: Low, Medium, High. Consider deadlines, effort, and business impact. Output ONLY the word. Title: "%s". Description: "%s"`

const timeEstimatePromptTemplate = `Estimate how many hours (a number, optionally with 1 decimal) it would take to complete this task. Provide only a single number. Task title: "%s". Description: "%s"`

const procedurePromptTemplate = `You are a productivity consultant. Given the task title and description, generate a step-by-step procedure (5-10 detailed steps) to easily and successfully complete this task. Format the output as a numbered list. Title: "%s". Description: "%s"`

func CategoryPrompt(title, description string) string {
	return fmt.Sprintf(categoryPromptTemplate, title, description)
}

func PriorityPrompt(title, description string) string {
	return fmt.Sprintf(priorityPromptTemplate, title, description)
}

func TimeEstimatePrompt(title, description string) string {
	return fmt.Sprintf(timeEstimatePromptTemplate, title, description)
}

func ProcedurePrompt(title, description string) string {
	return fmt.Sprintf(procedurePromptTemplate, title, description)
}

// Dots survive the cleaner so decimal estimates stay parseable.
var outputCleaner = regexp.MustCompile(`[^a-zA-Z0-9.\s]`)

var leadingNumber = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?`)

// CleanOutput strips every rune that is not alphanumeric, a dot, or
// whitespace, then trims.
func CleanOutput(s string) string {
	return strings.TrimSpace(outputCleaner.ReplaceAllString(strings.TrimSpace(s), ""))
}

// ParseLeadingFloat parses the leading decimal number of s, tolerating
// trailing text ("3.5 hours" parses as 3.5). Returns false when s does not
// start with a number.
func ParseLeadingFloat(s string) (float64, bool) {
	match := leadingNumber.FindString(strings.TrimSpace(s))
	if match == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}

	return value, true
}
