package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gyges/pkg/domain/interfaces"
	"github.com/secmon-lab/gyges/pkg/domain/model"
	"github.com/secmon-lab/gyges/pkg/domain/types"
	"google.golang.org/api/iterator"
)

type identifiedRiskDocument struct {
	Category    string   `firestore:"category"`
	Factor      string   `firestore:"factor"`
	Description string   `firestore:"description"`
	Probability string   `firestore:"probability"`
	Impact      string   `firestore:"impact"`
	Indicators  []string `firestore:"indicators"`
}

type assessmentDocument struct {
	ID              string                   `firestore:"id"`
	MilestoneID     string                   `firestore:"milestone_id"`
	Timestamp       time.Time                `firestore:"timestamp"`
	IdentifiedRisks []identifiedRiskDocument `firestore:"identified_risks"`
	Probability     float64                  `firestore:"probability"`
	Impact          float64                  `firestore:"impact"`
	RiskScore       float64                  `firestore:"risk_score"`
	Level           string                   `firestore:"level"`
}

func toAssessmentDocument(a *model.RiskAssessment) *assessmentDocument {
	doc := &assessmentDocument{
		ID:          a.ID,
		MilestoneID: a.MilestoneID.String(),
		Timestamp:   a.Timestamp,
		Probability: a.Probability,
		Impact:      a.Impact,
		RiskScore:   a.RiskScore,
		Level:       a.Level.String(),
	}
	for _, r := range a.IdentifiedRisks {
		doc.IdentifiedRisks = append(doc.IdentifiedRisks, identifiedRiskDocument{
			Category:    r.Category.String(),
			Factor:      r.Factor,
			Description: r.Description,
			Probability: r.Probability.String(),
			Impact:      r.Impact.String(),
			Indicators:  r.Indicators,
		})
	}
	return doc
}

func (d *assessmentDocument) toModel() *model.RiskAssessment {
	a := &model.RiskAssessment{
		ID:          d.ID,
		MilestoneID: types.MilestoneID(d.MilestoneID),
		Timestamp:   d.Timestamp,
		Probability: d.Probability,
		Impact:      d.Impact,
		RiskScore:   d.RiskScore,
		Level:       types.RiskLevel(d.Level),
	}
	for _, r := range d.IdentifiedRisks {
		a.IdentifiedRisks = append(a.IdentifiedRisks, model.IdentifiedRisk{
			Category:    types.RiskCategory(r.Category),
			Factor:      r.Factor,
			Description: r.Description,
			Probability: types.RiskLevel(r.Probability),
			Impact:      types.RiskLevel(r.Impact),
			Indicators:  r.Indicators,
		})
	}
	return a
}

type assessmentRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newAssessmentRepository(client *firestore.Client) *assessmentRepository {
	return &assessmentRepository{client: client}
}

func (r *assessmentRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_risk_assessments"
	}
	return "risk_assessments"
}

func (r *assessmentRepository) Put(ctx context.Context, assessment *model.RiskAssessment) error {
	if assessment.MilestoneID == "" {
		return goerr.New("assessment requires a milestone ID")
	}
	if assessment.ID == "" {
		return goerr.New("assessment requires an ID", goerr.V("milestone_id", assessment.MilestoneID))
	}

	docRef := r.client.Collection(r.collection()).Doc(assessment.ID)
	if _, err := docRef.Set(ctx, toAssessmentDocument(assessment)); err != nil {
		return goerr.Wrap(err, "failed to store assessment", goerr.V("milestone_id", assessment.MilestoneID))
	}
	return nil
}

func (r *assessmentRepository) Latest(ctx context.Context, id types.MilestoneID) (*model.RiskAssessment, error) {
	iter := r.client.Collection(r.collection()).
		Where("milestone_id", "==", id.String()).
		OrderBy("timestamp", firestore.Desc).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "no assessment for milestone", goerr.V("id", id))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query assessments", goerr.V("id", id))
	}

	var d assessmentDocument
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to decode assessment", goerr.V("id", id))
	}
	return d.toModel(), nil
}

func (r *assessmentRepository) ListByMilestone(ctx context.Context, id types.MilestoneID) ([]*model.RiskAssessment, error) {
	iter := r.client.Collection(r.collection()).
		Where("milestone_id", "==", id.String()).
		OrderBy("timestamp", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var assessments []*model.RiskAssessment
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate assessments", goerr.V("id", id))
		}

		var d assessmentDocument
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to decode assessment", goerr.V("id", id))
		}
		assessments = append(assessments, d.toModel())
	}
	return assessments, nil
}
