package records

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// WaitlistDTO is the wire shape the admin dashboard reads.
type WaitlistDTO struct {
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderDTO is the wire shape for one captured order.
type OrderDTO struct {
	CustomerName    string    `json:"customerName"`
	CustomerEmail   string    `json:"customerEmail"`
	CustomerPhone   string    `json:"customerPhone"`
	CustomerAddress string    `json:"customerAddress"`
	Items           int       `json:"items"`
	Total           int       `json:"total"`
	Timestamp       time.Time `json:"timestamp"`
}

// Service exposes the read and write operations the stub API serves.
type Service interface {
	AddWaitlistEntry(ctx context.Context, entry WaitlistEntry) error
	AddOrderEntry(ctx context.Context, entry OrderEntry) error
	AddSelection(ctx context.Context, sel Selection) error
	AddShippingDetail(ctx context.Context, detail ShippingDetail) error

	Waitlist(ctx context.Context) ([]WaitlistDTO, error)
	Orders(ctx context.Context) ([]OrderDTO, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("records repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) AddWaitlistEntry(ctx context.Context, entry WaitlistEntry) error {
	return s.repo.CreateWaitlistEntry(ctx, &entry)
}

func (s *service) AddOrderEntry(ctx context.Context, entry OrderEntry) error {
	return s.repo.CreateOrderEntry(ctx, &entry)
}

func (s *service) AddSelection(ctx context.Context, sel Selection) error {
	return s.repo.CreateSelection(ctx, &sel)
}

func (s *service) AddShippingDetail(ctx context.Context, detail ShippingDetail) error {
	return s.repo.CreateShippingDetail(ctx, &detail)
}

func (s *service) Waitlist(ctx context.Context) ([]WaitlistDTO, error) {
	entries, err := s.repo.ListWaitlist(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]WaitlistDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, WaitlistDTO{
			FirstName: e.FirstName,
			LastName:  e.LastName,
			Email:     e.Email,
			Phone:     e.Phone,
			Timestamp: e.CreatedAt,
		})
	}
	return dtos, nil
}

// Orders merges both write paths: legacy backend posts and rows inserted
// through the database-REST surface, oldest first.
func (s *service) Orders(ctx context.Context) ([]OrderDTO, error) {
	legacy, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	direct, err := s.repo.ListShippingDetails(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]OrderDTO, 0, len(legacy)+len(direct))
	for _, e := range legacy {
		dtos = append(dtos, OrderDTO{
			CustomerName:    e.CustomerName,
			CustomerEmail:   e.CustomerEmail,
			CustomerPhone:   e.CustomerPhone,
			CustomerAddress: e.CustomerAddress,
			Items:           e.Items,
			Total:           e.Total,
			Timestamp:       e.CreatedAt,
		})
	}
	for _, d := range direct {
		dtos = append(dtos, orderFromShippingDetail(d))
	}

	// Keep a stable chronological order across both sources.
	sort.SliceStable(dtos, func(i, j int) bool {
		return dtos[i].Timestamp.Before(dtos[j].Timestamp)
	})
	return dtos, nil
}

func orderFromShippingDetail(d ShippingDetail) OrderDTO {
	return OrderDTO{
		CustomerName:    strings.TrimSpace(d.FirstName + " " + d.LastName),
		CustomerEmail:   d.Email,
		CustomerPhone:   d.Phone,
		CustomerAddress: JoinAddress(d.HouseNumber, d.Address, d.City, d.State, d.PinCode),
		Items:           snapshotItemCount(d.Snapshot),
		Total:           d.TotalAmount,
		Timestamp:       d.CreatedAt,
	}
}

// JoinAddress joins the non-blank address parts into the single display
// address the order listings show.
func JoinAddress(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

// snapshotItemCount sums quantities out of the serialized cart snapshot,
// quantity defaulting to one. A snapshot that does not parse counts zero.
func snapshotItemCount(snapshot string) int {
	var items []struct {
		Quantity int `json:"quantity"`
	}
	if json.Unmarshal([]byte(snapshot), &items) != nil {
		return 0
	}
	count := 0
	for _, it := range items {
		if it.Quantity <= 0 {
			count++
			continue
		}
		count += it.Quantity
	}
	return count
}
