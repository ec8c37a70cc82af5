package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gyges/pkg/cli/config"
	"github.com/secmon-lab/gyges/pkg/domain/model"
	"github.com/secmon-lab/gyges/pkg/domain/types"
	"github.com/secmon-lab/gyges/pkg/usecase"
	"github.com/secmon-lab/gyges/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var milestoneID string
	var engineCfg config.Engine
	var repoCfg config.Repository
	var metricsCfg config.Metrics

	var flags []cli.Flag
	flags = append(flags, engineCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, metricsCfg.Flags()...)
	flags = append(flags, &cli.StringFlag{
		Name:        "milestone-id",
		Usage:       "Milestone to validate (without it only the configuration is checked)",
		Sources:     cli.EnvVars("GYGES_MILESTONE_ID"),
		Destination: &milestoneID,
	})

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate configuration files and optionally validate one milestone",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			rules, _, _, err := engineCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "configuration validation failed")
			}

			logger.Info("Configuration validation passed",
				"config", engineCfg.Path(),
				"stream_types", len(rules.StreamTypes()),
			)

			if milestoneID == "" {
				logger.Info("No milestone ID specified, skipping milestone validation")
				return nil
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logger.Error("failed to close repository", "error", err.Error())
				}
			}()

			provider, err := metricsCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure metrics client")
			}

			opts := []usecase.Option{
				usecase.WithRuleCatalog(rules),
				usecase.WithMetricsTimeout(metricsCfg.FetchTimeout()),
			}
			if provider != nil {
				opts = append(opts, usecase.WithMetricsProvider(provider))
			}
			uc := usecase.New(repo, opts...)

			result, err := uc.Validation.ValidateMilestone(ctx, types.MilestoneID(milestoneID))
			if err != nil {
				return goerr.Wrap(err, "milestone validation failed")
			}

			renderValidationResult(result)
			return nil
		},
	}
}

func renderValidationResult(result *model.ValidationResult) {
	bold := color.New(color.Bold)

	bold.Printf("Milestone %s\n", result.MilestoneID)
	fmt.Printf("  Overall score: %.1f\n", result.OverallScore)
	if result.IsValidated {
		color.Green("  Status: VALIDATED")
	} else {
		color.Red("  Status: NOT VALIDATED")
	}

	bold.Println("Quality gates")
	for _, g := range result.GateResults {
		printCheck(g.Name, g.Status, g.Detail)
	}

	bold.Println("Success criteria")
	for _, cr := range result.CriteriaResults {
		printCheck(cr.Name, cr.Status, cr.Detail)
	}

	bold.Println("Performance thresholds")
	for _, th := range result.ThresholdResults {
		detail := fmt.Sprintf("value %.2f, target %.2f (%s)", th.Value, th.Target, th.Direction)
		printCheck(th.Metric, th.Status, detail)
	}

	if len(result.Blockers) > 0 {
		bold.Println("Blockers")
		for _, b := range result.Blockers {
			color.Red("  [%s] %s: %s", b.Severity, b.Source, b.Description)
		}
	}
}

func printCheck(name string, status types.EvalStatus, detail string) {
	mark := color.GreenString("PASS")
	switch status {
	case types.EvalStatusFailed:
		mark = color.RedString("FAIL")
	case types.EvalStatusError:
		mark = color.YellowString("ERROR")
	}
	if detail != "" {
		fmt.Printf("  %s %s (%s)\n", mark, name, detail)
	} else {
		fmt.Printf("  %s %s\n", mark, name)
	}
}
