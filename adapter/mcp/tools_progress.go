package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/recruitkit/adapter/cli"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/application/commands"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/application/queries"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/application/services"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/progress"
	"github.com/felixgeelhaar/recruitkit/pkg/observability"
)

type progressRecordOutput struct {
	Progress      queries.ProgressDTO `json:"progress"`
	PreviousLabel string              `json:"previous_label,omitempty"`
	LabelChanged  bool                `json:"label_changed"`
	StatusUnknown bool                `json:"status_unknown,omitempty"`
}

type adviceInput struct {
	Label string `json:"label" jsonschema:"required"`
	Phase string `json:"phase,omitempty"`
}

type adviceOutput struct {
	Advice      services.Advice `json:"advice"`
	NextActions []string        `json:"next_actions"`
}

func registerProgressTools(srv *mcp.Server, deps ToolDependencies) {
	app := deps.App

	srv.Tool("progress.evaluate").
		Description("Score recruiting readiness 0-100 with label, sub-scores, advice and next actions, without recording it").
		Handler(instrument(deps, "progress.evaluate", evaluateProgress(app, time.Now)))

	srv.Tool("progress.record").
		Description("Score readiness and record it; raises a status change event when the label moves").
		Handler(instrument(deps, "progress.record", recordProgress(app, time.Now)))

	srv.Tool("progress.advice").
		Description("Advice text, colour and next actions for a status label and recruiting phase").
		Handler(instrument(deps, "progress.advice", progressAdvice(app)))
}

func evaluateProgress(app *cli.App, now func() time.Time) func(context.Context, queries.FactsInput) (*queries.ProgressDTO, error) {
	return func(ctx context.Context, input queries.FactsInput) (*queries.ProgressDTO, error) {
		if app.GetProgressHandler == nil {
			return nil, errors.New("progress evaluation requires database connection")
		}
		facts, err := input.Facts(now())
		if err != nil {
			return nil, err
		}
		return app.GetProgressHandler.Handle(ctx, queries.GetProgressQuery{AthleteID: app.AthleteID, Facts: facts})
	}
}

func recordProgress(app *cli.App, now func() time.Time) func(context.Context, queries.FactsInput) (*progressRecordOutput, error) {
	return func(ctx context.Context, input queries.FactsInput) (*progressRecordOutput, error) {
		if app.RecordProgressHandler == nil {
			return nil, errors.New("progress recording requires database connection")
		}
		facts, err := input.Facts(now())
		if err != nil {
			return nil, err
		}
		result, err := app.RecordProgressHandler.Handle(ctx, commands.RecordProgressCommand{
			AthleteID:     app.AthleteID,
			Facts:         facts,
			CorrelationID: observability.CorrelationUUID(ctx),
		})
		if err != nil {
			return nil, err
		}

		metrics := app.MetricsOrNoop()
		metrics.Counter(observability.MetricProgressRecorded, 1, observability.T("label", result.Evaluation.Status.Label.String()))
		if result.LabelChanged {
			metrics.Counter(observability.MetricProgressChanged, 1)
		}
		return &progressRecordOutput{
			Progress:      queries.ToProgressDTO(result.Evaluation),
			PreviousLabel: result.PreviousLabel.String(),
			LabelChanged:  result.LabelChanged,
			StatusUnknown: result.PreviousUnknown,
		}, nil
	}
}

func progressAdvice(app *cli.App) func(context.Context, adviceInput) (*adviceOutput, error) {
	return func(_ context.Context, input adviceInput) (*adviceOutput, error) {
		advisory := app.Advisory
		if advisory == nil {
			advisory = services.NewStatusAdvisory()
		}
		label := progress.ParseLabel(input.Label)
		if label == "" {
			label = progress.Label(input.Label)
		}
		return &adviceOutput{
			Advice:      advisory.Advice(label),
			NextActions: advisory.NextActions(label, progress.ParsePhase(input.Phase)),
		}, nil
	}
}
