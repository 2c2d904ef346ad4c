package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/quipu-erp/quipu/internal/invoicing"
)

const cacheTTL = 30 * time.Second

// Stats is the dashboard read model for one company.
type Stats struct {
	Customers       int64   `json:"clientes"`
	Products        int64   `json:"productos"`
	IssuedInvoices  int64   `json:"facturasEmitidas"`
	PendingInvoices int64   `json:"facturasPendientes"`
	JournalEntries  int64   `json:"asientos"`
	MonthlySales    float64 `json:"ventasMes"`
}

// Service aggregates the stats with concurrent queries and a short
// Redis cache in front of them.
type Service struct {
	repo  Repository
	redis *redis.Client
	now   func() time.Time
}

func NewService(repo Repository, redisClient *redis.Client) *Service {
	return &Service{repo: repo, redis: redisClient, now: time.Now}
}

func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// ForCompany loads the company's dashboard numbers. The six queries
// run concurrently; the assembled result is cached briefly so a busy
// dashboard does not hammer the database.
func (s *Service) ForCompany(ctx context.Context, companyID uuid.UUID) (Stats, error) {
	key := fmt.Sprintf("dashboard:stats:%s", companyID)
	if s.redis != nil {
		if payload, err := s.redis.Get(ctx, key).Bytes(); err == nil {
			var cached Stats
			if err := json.Unmarshal(payload, &cached); err == nil {
				return cached, nil
			}
		}
	}

	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	var stats Stats
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.repo.CountCustomers(ctx, companyID)
		stats.Customers = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountProducts(ctx, companyID)
		stats.Products = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountInvoicesByStatus(ctx, companyID, string(invoicing.InvoiceStatusIssued))
		stats.IssuedInvoices = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountInvoicesByStatus(ctx, companyID, string(invoicing.InvoiceStatusPending))
		stats.PendingInvoices = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountEntries(ctx, companyID)
		stats.JournalEntries = n
		return err
	})
	g.Go(func() error {
		total, err := s.repo.MonthlySales(ctx, companyID, monthStart, monthEnd)
		stats.MonthlySales = total
		return err
	})
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	if s.redis != nil {
		if payload, err := json.Marshal(stats); err == nil {
			_ = s.redis.Set(ctx, key, payload, cacheTTL).Err()
		}
	}
	return stats, nil
}
