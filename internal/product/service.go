// AngelaMos | 2026
// service.go

package product

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

type Service struct {
	repo    Repository
	tx      core.Transactor
	metrics *core.Metrics
	now     func() time.Time
}

func NewService(
	repo Repository,
	tx core.Transactor,
	metrics *core.Metrics,
) *Service {
	return &Service{
		repo:    repo,
		tx:      tx,
		metrics: metrics,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Image(ctx context.Context, id string) ([]byte, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return s.repo.GetImage(ctx, id)
}

// Create requires every field of in.
func (s *Service) Create(ctx context.Context, in *Input) (*Product, error) {
	if missing := in.missing(); len(missing) > 0 {
		return nil, core.ValidationError(
			"missing fields: " + strings.Join(missing, ", "),
		)
	}

	now := s.now()
	p := &Product{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	p.apply(in)

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.metrics.RecordProductSave("create")
	return p, nil
}

// Update changes only the fields present in in. Concurrent updates are
// last-write-wins.
func (s *Service) Update(
	ctx context.Context,
	id string,
	in *Input,
) (*Product, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	var p *Product
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		p.apply(in)
		p.UpdatedAt = s.now()

		return s.repo.Update(ctx, p)
	})
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.metrics.RecordProductSave("update")
	return p, nil
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return core.ValidationError("invalid product id")
	}
	return nil
}
