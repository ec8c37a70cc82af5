package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gyges/pkg/domain/interfaces"
	"github.com/secmon-lab/gyges/pkg/domain/model"
	"github.com/secmon-lab/gyges/pkg/domain/types"
	"google.golang.org/api/iterator"
)

type gateResultDocument struct {
	Name   string  `firestore:"name"`
	Status string  `firestore:"status"`
	Score  float64 `firestore:"score"`
	Detail string  `firestore:"detail"`
}

type thresholdResultDocument struct {
	Metric    string  `firestore:"metric"`
	Status    string  `firestore:"status"`
	Value     float64 `firestore:"value"`
	Target    float64 `firestore:"target"`
	Direction string  `firestore:"direction"`
}

type blockerDocument struct {
	Severity    string `firestore:"severity"`
	Source      string `firestore:"source"`
	Description string `firestore:"description"`
}

type validationResultDocument struct {
	MilestoneID      string                    `firestore:"milestone_id"`
	Timestamp        time.Time                 `firestore:"timestamp"`
	GateResults      []gateResultDocument      `firestore:"gate_results"`
	CriteriaResults  []gateResultDocument      `firestore:"criteria_results"`
	ThresholdResults []thresholdResultDocument `firestore:"threshold_results"`
	OverallScore     float64                   `firestore:"overall_score"`
	IsValidated      bool                      `firestore:"is_validated"`
	Blockers         []blockerDocument         `firestore:"blockers"`
}

func toValidationDocument(r *model.ValidationResult) *validationResultDocument {
	doc := &validationResultDocument{
		MilestoneID:  r.MilestoneID.String(),
		Timestamp:    r.Timestamp,
		OverallScore: r.OverallScore,
		IsValidated:  r.IsValidated,
	}
	for _, g := range r.GateResults {
		doc.GateResults = append(doc.GateResults, gateResultDocument{
			Name: g.Name, Status: g.Status.String(), Score: g.Score, Detail: g.Detail,
		})
	}
	for _, c := range r.CriteriaResults {
		doc.CriteriaResults = append(doc.CriteriaResults, gateResultDocument{
			Name: c.Name, Status: c.Status.String(), Score: c.Score, Detail: c.Detail,
		})
	}
	for _, t := range r.ThresholdResults {
		doc.ThresholdResults = append(doc.ThresholdResults, thresholdResultDocument{
			Metric: t.Metric, Status: t.Status.String(), Value: t.Value, Target: t.Target, Direction: t.Direction.String(),
		})
	}
	for _, b := range r.Blockers {
		doc.Blockers = append(doc.Blockers, blockerDocument{
			Severity: b.Severity.String(), Source: b.Source, Description: b.Description,
		})
	}
	return doc
}

func (d *validationResultDocument) toModel() *model.ValidationResult {
	r := &model.ValidationResult{
		MilestoneID:  types.MilestoneID(d.MilestoneID),
		Timestamp:    d.Timestamp,
		OverallScore: d.OverallScore,
		IsValidated:  d.IsValidated,
	}
	for _, g := range d.GateResults {
		r.GateResults = append(r.GateResults, model.GateResult{
			Name: g.Name, Status: types.EvalStatus(g.Status), Score: g.Score, Detail: g.Detail,
		})
	}
	for _, c := range d.CriteriaResults {
		r.CriteriaResults = append(r.CriteriaResults, model.CriterionResult{
			Name: c.Name, Status: types.EvalStatus(c.Status), Score: c.Score, Detail: c.Detail,
		})
	}
	for _, t := range d.ThresholdResults {
		r.ThresholdResults = append(r.ThresholdResults, model.ThresholdResult{
			Metric: t.Metric, Status: types.EvalStatus(t.Status), Value: t.Value, Target: t.Target, Direction: types.Direction(t.Direction),
		})
	}
	for _, b := range d.Blockers {
		r.Blockers = append(r.Blockers, model.Blocker{
			Severity: types.RiskLevel(b.Severity), Source: b.Source, Description: b.Description,
		})
	}
	return r
}

type validationRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newValidationRepository(client *firestore.Client) *validationRepository {
	return &validationRepository{client: client}
}

func (r *validationRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_validation_results"
	}
	return "validation_results"
}

func (r *validationRepository) Put(ctx context.Context, result *model.ValidationResult) error {
	if result.MilestoneID == "" {
		return goerr.New("validation result requires a milestone ID")
	}

	docID := fmt.Sprintf("%s_%d", result.MilestoneID, result.Timestamp.UTC().UnixNano())
	docRef := r.client.Collection(r.collection()).Doc(docID)
	if _, err := docRef.Set(ctx, toValidationDocument(result)); err != nil {
		return goerr.Wrap(err, "failed to store validation result", goerr.V("milestone_id", result.MilestoneID))
	}
	return nil
}

func (r *validationRepository) Latest(ctx context.Context, id types.MilestoneID) (*model.ValidationResult, error) {
	iter := r.client.Collection(r.collection()).
		Where("milestone_id", "==", id.String()).
		OrderBy("timestamp", firestore.Desc).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "no validation result for milestone", goerr.V("id", id))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query validation results", goerr.V("id", id))
	}

	var d validationResultDocument
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to decode validation result", goerr.V("id", id))
	}
	return d.toModel(), nil
}

func (r *validationRepository) ListByMilestone(ctx context.Context, id types.MilestoneID) ([]*model.ValidationResult, error) {
	iter := r.client.Collection(r.collection()).
		Where("milestone_id", "==", id.String()).
		OrderBy("timestamp", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var results []*model.ValidationResult
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate validation results", goerr.V("id", id))
		}

		var d validationResultDocument
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to decode validation result", goerr.V("id", id))
		}
		results = append(results, d.toModel())
	}
	return results, nil
}
