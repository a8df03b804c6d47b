package ui

import (
	"fmt"
	"strings"

	"github.com/temirov/branchwipe/internal/session"
)

const (
	summaryNothingDeletedConstant      = "No branches deleted."
	summaryDeletedTemplateConstant     = "Deleted %d %s:"
	summaryDryRunTemplateConstant      = "Dry run: would delete %d %s:"
	summaryFailedTemplateConstant      = "Failed to delete %d %s:"
	summarySkippedTemplateConstant     = "Stopped after a failure; %d %s left untouched:"
	summaryDeletedItemTemplateConstant = "  ✓ %s"
	summaryFailedItemTemplateConstant  = "  ✗ %s: %v"
	summarySkippedItemTemplateConstant = "  - %s"
	summaryBranchSingularConstant      = "branch"
	summaryBranchPluralConstant        = "branches"
)

// RenderSummary describes the outcome of a finished session for printing after the program exits.
func RenderSummary(finished *session.Session, dryRun bool) string {
	if finished == nil {
		return ""
	}

	palette := newStyles()
	deleted := finished.Deleted()
	failures := finished.Failures()
	skipped := finished.Skipped()

	if len(deleted) == 0 && len(failures) == 0 {
		return summaryNothingDeletedConstant + lineSeparatorConstant
	}

	var builder strings.Builder
	if len(deleted) > 0 {
		headingTemplate := summaryDeletedTemplateConstant
		if dryRun {
			headingTemplate = summaryDryRunTemplateConstant
		}
		builder.WriteString(fmt.Sprintf(headingTemplate, len(deleted), pluralizeBranch(len(deleted))))
		builder.WriteString(lineSeparatorConstant)
		for _, branch := range deleted {
			builder.WriteString(palette.success.Render(fmt.Sprintf(summaryDeletedItemTemplateConstant, branch.Name)))
			builder.WriteString(lineSeparatorConstant)
		}
	}

	if len(failures) > 0 {
		builder.WriteString(fmt.Sprintf(summaryFailedTemplateConstant, len(failures), pluralizeBranch(len(failures))))
		builder.WriteString(lineSeparatorConstant)
		for _, failure := range failures {
			builder.WriteString(palette.failure.Render(fmt.Sprintf(summaryFailedItemTemplateConstant, failure.Branch.Name, failure.Err)))
			builder.WriteString(lineSeparatorConstant)
		}
	}

	if len(skipped) > 0 {
		builder.WriteString(fmt.Sprintf(summarySkippedTemplateConstant, len(skipped), pluralizeBranch(len(skipped))))
		builder.WriteString(lineSeparatorConstant)
		for _, branch := range skipped {
			builder.WriteString(fmt.Sprintf(summarySkippedItemTemplateConstant, branch.Name))
			builder.WriteString(lineSeparatorConstant)
		}
	}

	return builder.String()
}

func pluralizeBranch(count int) string {
	if count == 1 {
		return summaryBranchSingularConstant
	}
	return summaryBranchPluralConstant
}
