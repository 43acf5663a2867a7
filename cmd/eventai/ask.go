package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/midunthangavel/fixmyevent-sub001/internal/dispatch"
	"github.com/midunthangavel/fixmyevent-sub001/internal/models"
	"github.com/midunthangavel/fixmyevent-sub001/pkg/logging/logging"
)

func newAskCmd(configPath *string) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "ask <task>",
		Short: "Run one dispatch and print the result as JSON",
		Long: "Run one dispatch and print the result as JSON.\n\n" +
			"Tasks: ideas, venues, query, moodboard, budget (or their full names).",
		Example: `  eventai ask ideas --input '{"eventType":"wedding","budget":10000,"guestCount":100}'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := models.ParseTask(args[0])
			if err != nil {
				return err
			}
			if input == "-" {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				input = string(raw)
			}

			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			logger := logging.DefaultLogger()
			defer logger.Sync()

			a, err := newApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := ask(cmd.Context(), a.dispatcher, task, input)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "request JSON, or - to read stdin")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

// ask decodes input as the request type for task and dispatches it.
func ask(ctx context.Context, d *dispatch.Dispatcher, task models.Task, input string) (any, error) {
	switch task {
	case models.TaskEventIdeas:
		return askWith(ctx, input, d.GenerateEventIdeas)
	case models.TaskVenues:
		return askWith(ctx, input, d.RecommendVenues)
	case models.TaskQueryParse:
		return askWith(ctx, input, d.ParseQuery)
	case models.TaskMoodBoard:
		return askWith(ctx, input, d.GenerateMoodBoard)
	case models.TaskBudget:
		return askWith(ctx, input, d.OptimizeBudget)
	default:
		return nil, fmt.Errorf("unknown task %q", task)
	}
}

type validatable[T any] interface {
	*T
	Validate() error
}

func askWith[Req any, PReq validatable[Req], T any](
	ctx context.Context,
	input string,
	op func(context.Context, Req) dispatch.Result[T],
) (any, error) {
	var req Req
	dec := json.NewDecoder(strings.NewReader(input))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("decode input: %w", err)
	}
	if err := PReq(&req).Validate(); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	return op(ctx, req), nil
}
