package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers the weekly check-in prompt.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("weekly_check_in").
		Description("Walk a student-athlete through a weekly recruiting check-in: progress, blocked tasks and next steps.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			phase := args["phase"]
			if phase == "" {
				phase = "their current grade"
			}
			return &mcp.PromptResult{
				Description: "Weekly Recruiting Check-in",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: fmt.Sprintf(`Run my weekly recruiting check-in for %s.

1. Read the recruitkit://tasks resource and summarise what is completed, in progress and locked.
2. Ask me for this week's coach contact, coach interest and academic updates, then call progress.record.
3. For the two most important locked tasks, call task.warning and tell me which prerequisite to do first.
4. Finish with the next actions from the result and one concrete goal for this week.

Never mark a task completed for me without asking.`, phase),
						},
					},
				},
			}, nil
		})

	return nil
}
