package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gyges/pkg/cli/config"
	"github.com/secmon-lab/gyges/pkg/domain/model"
	"github.com/secmon-lab/gyges/pkg/domain/types"
	"github.com/secmon-lab/gyges/pkg/usecase"
	"github.com/secmon-lab/gyges/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdAssess() *cli.Command {
	var streamTypes []string
	var statuses []string
	var engineCfg config.Engine
	var repoCfg config.Repository
	var notifierCfg config.Notifier

	var flags []cli.Flag
	flags = append(flags, engineCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, notifierCfg.Flags()...)
	flags = append(flags,
		&cli.StringSliceFlag{
			Name:        "stream-type",
			Usage:       "Limit the assessment to these stream types (repeatable)",
			Sources:     cli.EnvVars("GYGES_ASSESS_STREAM_TYPES"),
			Destination: &streamTypes,
		},
		&cli.StringSliceFlag{
			Name:        "status",
			Usage:       "Limit the assessment to these milestone statuses (repeatable)",
			Sources:     cli.EnvVars("GYGES_ASSESS_STATUSES"),
			Destination: &statuses,
		},
	)

	return &cli.Command{
		Name:    "assess",
		Aliases: []string{"a"},
		Usage:   "Run a portfolio risk assessment",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			rules, escalation, mitigation, err := engineCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load engine configuration")
			}

			var scope model.AssessmentScope
			for _, raw := range streamTypes {
				st, err := types.ParseStreamType(raw)
				if err != nil {
					return goerr.Wrap(err, "invalid stream type filter")
				}
				scope.StreamTypes = append(scope.StreamTypes, st)
			}
			for _, raw := range statuses {
				status, err := types.ParseMilestoneStatus(raw)
				if err != nil {
					return goerr.Wrap(err, "invalid status filter")
				}
				scope.Statuses = append(scope.Statuses, status)
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

			notifier, err := notifierCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure notifier")
			}

			uc := usecase.New(repo,
				usecase.WithRuleCatalog(rules),
				usecase.WithEscalationMatrix(escalation),
				usecase.WithMitigationCatalog(mitigation),
				usecase.WithNotifier(notifier),
			)

			portfolio, err := uc.Risk.ConductRiskAssessment(ctx, scope)
			if err != nil {
				return goerr.Wrap(err, "portfolio assessment failed")
			}

			renderPortfolio(portfolio)
			return nil
		},
	}
}

func renderPortfolio(p *model.PortfolioAssessment) {
	bold := color.New(color.Bold)

	bold.Printf("Portfolio assessment %s\n", p.ID)
	fmt.Printf("  Milestones assessed: %d\n", p.TotalMilestones)

	bold.Println("Risk summary")
	for _, level := range types.AllRiskLevels() {
		n := p.RiskSummary[level]
		line := fmt.Sprintf("  %-8s %d", level, n)
		switch {
		case n == 0:
			fmt.Println(line)
		case level == types.RiskLevelCritical:
			color.Red(line)
		case level == types.RiskLevelHigh:
			color.Yellow(line)
		default:
			fmt.Println(line)
		}
	}

	if len(p.CategoryBreakdown) > 0 {
		bold.Println("Risks by category")
		for _, category := range types.AllRiskCategories() {
			if n := p.CategoryBreakdown[category]; n > 0 {
				fmt.Printf("  %-10s %d\n", category, n)
			}
		}
	}

	if len(p.Escalations) > 0 {
		bold.Println("Escalations")
		for _, e := range p.Escalations {
			tiers := make([]string, len(e.RequiredTiers))
			for i, tier := range e.RequiredTiers {
				tiers[i] = string(tier)
			}
			fmt.Printf("  %s: %s -> %s\n", e.MilestoneID, e.Reason, strings.Join(tiers, ", "))
		}
	}

	if len(p.MitigationPlans) > 0 {
		bold.Println("Mitigation plans")
		for _, plan := range p.MitigationPlans {
			fmt.Printf("  %s: %d mitigations over %d weeks\n",
				plan.MilestoneID, len(plan.Mitigations), len(plan.Timeline))
		}
	}

	bold.Println("Recommendations")
	for _, rec := range p.Recommendations {
		fmt.Printf("  - %s\n", rec)
	}
}
