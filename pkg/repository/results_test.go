package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/gyges/pkg/domain/interfaces"
	"github.com/secmon-lab/gyges/pkg/domain/model"
	"github.com/secmon-lab/gyges/pkg/domain/types"
	"github.com/secmon-lab/gyges/pkg/repository/memory"
)

func runResultRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("validation Latest returns the newest result", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
		for i, score := range []float64{60, 75, 90} {
			result := &model.ValidationResult{
				MilestoneID:  "rotate-keys",
				Timestamp:    base.Add(time.Duration(i) * time.Hour),
				OverallScore: score,
			}
			if err := repo.Validation().Put(ctx, result); err != nil {
				t.Fatalf("failed to put validation result: %v", err)
			}
		}

		latest, err := repo.Validation().Latest(ctx, "rotate-keys")
		if err != nil {
			t.Fatalf("failed to get latest result: %v", err)
		}
		if latest.OverallScore != 90 {
			t.Errorf("expected latest score 90, got %v", latest.OverallScore)
		}

		all, err := repo.Validation().ListByMilestone(ctx, "rotate-keys")
		if err != nil {
			t.Fatalf("failed to list results: %v", err)
		}
		if len(all) != 3 {
			t.Errorf("expected 3 results, got %d", len(all))
		}
	})

	t.Run("validation Latest returns ErrNotFound when empty", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Validation().Latest(ctx, "nothing-here")
		if !errors.Is(err, interfaces.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("validation Put rejects results without milestone ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		if err := repo.Validation().Put(ctx, &model.ValidationResult{}); err == nil {
			t.Error("expected error for missing milestone ID")
		}
	})

	t.Run("assessment round trip preserves identified risks", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		assessment := &model.RiskAssessment{
			ID:          uuid.NewString(),
			MilestoneID: "rotate-keys",
			Timestamp:   time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC),
			IdentifiedRisks: []model.IdentifiedRisk{{
				Category:    types.RiskCategoryTechnical,
				Factor:      "complex_domain",
				Description: "security work carries inherent complexity",
				Probability: types.RiskLevelMedium,
				Impact:      types.RiskLevelHigh,
				Indicators:  []string{"stream type is in the high-complexity group"},
			}},
			Probability: 2,
			Impact:      3,
			RiskScore:   6,
			Level:       types.RiskLevelMedium,
		}
		if err := repo.Assessment().Put(ctx, assessment); err != nil {
			t.Fatalf("failed to put assessment: %v", err)
		}

		got, err := repo.Assessment().Latest(ctx, "rotate-keys")
		if err != nil {
			t.Fatalf("failed to get latest assessment: %v", err)
		}
		if got.RiskScore != 6 || got.Level != types.RiskLevelMedium {
			t.Errorf("unexpected assessment: score=%v level=%s", got.RiskScore, got.Level)
		}
		if len(got.IdentifiedRisks) != 1 || got.IdentifiedRisks[0].Factor != "complex_domain" {
			t.Errorf("identified risks did not round trip: %+v", got.IdentifiedRisks)
		}
	})

	t.Run("assessment Latest returns ErrNotFound when empty", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Assessment().Latest(ctx, "nothing-here")
		if !errors.Is(err, interfaces.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestMemoryResultRepositories(t *testing.T) {
	runResultRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreResultRepositories(t *testing.T) {
	runResultRepositoryTest(t, newFirestoreRepository)
}
