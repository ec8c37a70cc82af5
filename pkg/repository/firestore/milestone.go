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
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type riskFactorDocument struct {
	Category    string    `firestore:"category"`
	Level       string    `firestore:"level"`
	Description string    `firestore:"description"`
	Mitigation  string    `firestore:"mitigation"`
	Status      string    `firestore:"status"`
	CreatedAt   time.Time `firestore:"created_at"`
}

type milestoneDocument struct {
	ID             string               `firestore:"id"`
	Title          string               `firestore:"title"`
	Description    string               `firestore:"description"`
	StreamType     string               `firestore:"stream_type"`
	Status         string               `firestore:"status"`
	Progress       float64              `firestore:"progress"`
	EstimatedStart time.Time            `firestore:"estimated_start"`
	EstimatedEnd   time.Time            `firestore:"estimated_end"`
	ActualEnd      *time.Time           `firestore:"actual_end"`
	Dependencies   []string             `firestore:"dependencies"`
	RiskFactors    []riskFactorDocument `firestore:"risk_factors"`
	RiskLevel      string               `firestore:"risk_level"`
	Metrics        map[string]float64   `firestore:"metrics"`
	CreatedAt      time.Time            `firestore:"created_at"`
	UpdatedAt      time.Time            `firestore:"updated_at"`
}

func toMilestoneDocument(m *model.Milestone) *milestoneDocument {
	doc := &milestoneDocument{
		ID:             m.ID.String(),
		Title:          m.Title,
		Description:    m.Description,
		StreamType:     m.StreamType.String(),
		Status:         m.Status.Normalize().String(),
		Progress:       m.Progress,
		EstimatedStart: m.EstimatedStart,
		EstimatedEnd:   m.EstimatedEnd,
		ActualEnd:      m.ActualEnd,
		RiskLevel:      m.RiskLevel.String(),
		Metrics:        m.Metrics,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	for _, dep := range m.Dependencies {
		doc.Dependencies = append(doc.Dependencies, dep.String())
	}
	for _, f := range m.RiskFactors {
		doc.RiskFactors = append(doc.RiskFactors, riskFactorDocument{
			Category:    f.Category.String(),
			Level:       f.Level.String(),
			Description: f.Description,
			Mitigation:  f.Mitigation,
			Status:      f.Status.String(),
			CreatedAt:   f.CreatedAt,
		})
	}
	return doc
}

func (d *milestoneDocument) toModel() *model.Milestone {
	m := &model.Milestone{
		ID:             types.MilestoneID(d.ID),
		Title:          d.Title,
		Description:    d.Description,
		StreamType:     types.StreamType(d.StreamType),
		Status:         types.MilestoneStatus(d.Status),
		Progress:       d.Progress,
		EstimatedStart: d.EstimatedStart,
		EstimatedEnd:   d.EstimatedEnd,
		ActualEnd:      d.ActualEnd,
		RiskLevel:      types.RiskLevel(d.RiskLevel),
		Metrics:        d.Metrics,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
	for _, dep := range d.Dependencies {
		m.Dependencies = append(m.Dependencies, types.MilestoneID(dep))
	}
	for _, f := range d.RiskFactors {
		m.RiskFactors = append(m.RiskFactors, model.RiskFactor{
			Category:    types.RiskCategory(f.Category),
			Level:       types.RiskLevel(f.Level),
			Description: f.Description,
			Mitigation:  f.Mitigation,
			Status:      types.FactorStatus(f.Status),
			CreatedAt:   f.CreatedAt,
		})
	}
	return m
}

type milestoneRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newMilestoneRepository(client *firestore.Client) *milestoneRepository {
	return &milestoneRepository{client: client}
}

func (r *milestoneRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_milestones"
	}
	return "milestones"
}

func (r *milestoneRepository) Create(ctx context.Context, m *model.Milestone) (*model.Milestone, error) {
	if err := m.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid milestone")
	}

	now := time.Now().UTC()
	stored := m.Clone()
	stored.Status = stored.Status.Normalize()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(stored.ID.String())
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(docRef); err == nil {
			return goerr.New("milestone already exists", goerr.V("id", stored.ID))
		} else if status.Code(err) != codes.NotFound {
			return goerr.Wrap(err, "failed to check milestone existence")
		}
		return tx.Set(docRef, toMilestoneDocument(stored))
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create milestone", goerr.V("id", stored.ID))
	}

	return stored, nil
}

func (r *milestoneRepository) Get(ctx context.Context, id types.MilestoneID) (*model.Milestone, error) {
	doc, err := r.client.Collection(r.collection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "milestone not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get milestone", goerr.V("id", id))
	}

	var d milestoneDocument
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to decode milestone", goerr.V("id", id))
	}
	return d.toModel(), nil
}

func (r *milestoneRepository) List(ctx context.Context) ([]*model.Milestone, error) {
	iter := r.client.Collection(r.collection()).Documents(ctx)
	defer iter.Stop()

	var milestones []*model.Milestone
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate milestones")
		}

		var d milestoneDocument
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to decode milestone", goerr.V("doc", doc.Ref.ID))
		}
		milestones = append(milestones, d.toModel())
	}

	return milestones, nil
}

func (r *milestoneRepository) Update(ctx context.Context, m *model.Milestone) (*model.Milestone, error) {
	if err := m.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid milestone")
	}

	updated := m.Clone()
	updated.Status = updated.Status.Normalize()
	updated.UpdatedAt = time.Now().UTC()

	docRef := r.client.Collection(r.collection()).Doc(updated.ID.String())
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(interfaces.ErrNotFound, "milestone not found", goerr.V("id", updated.ID))
			}
			return goerr.Wrap(err, "failed to get milestone")
		}

		var existing milestoneDocument
		if err := doc.DataTo(&existing); err != nil {
			return goerr.Wrap(err, "failed to decode milestone")
		}
		updated.CreatedAt = existing.CreatedAt

		return tx.Set(docRef, toMilestoneDocument(updated))
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *milestoneRepository) Delete(ctx context.Context, id types.MilestoneID) error {
	docRef := r.client.Collection(r.collection()).Doc(id.String())

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(interfaces.ErrNotFound, "milestone not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get milestone", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete milestone", goerr.V("id", id))
	}
	return nil
}

func (r *milestoneRepository) CountActive(ctx context.Context) (int, error) {
	activeStatuses := []string{
		types.MilestoneStatusInProgress.String(),
		types.MilestoneStatusInReview.String(),
		types.MilestoneStatusBlocked.String(),
	}

	iter := r.client.Collection(r.collection()).
		Where("status", "in", activeStatuses).
		Documents(ctx)
	defer iter.Stop()

	count := 0
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, goerr.Wrap(err, "failed to count active milestones")
		}
		count++
	}
	return count, nil
}
