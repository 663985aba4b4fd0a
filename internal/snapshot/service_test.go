package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lazorvault/vaultd/internal/domain"
)

type memRepo struct {
	wallets map[string]int
	saved   map[int][]Snapshot
	nextID  int
}

func newMemRepo() *memRepo {
	return &memRepo{wallets: map[string]int{}, saved: map[int][]Snapshot{}, nextID: 1}
}

func (m *memRepo) Save(_ context.Context, walletID int, date time.Time, data json.RawMessage) error {
	m.saved[walletID] = append(m.saved[walletID], Snapshot{WalletID: walletID, SnapshotDate: date, Data: data})
	return nil
}

func (m *memRepo) GetLatest(_ context.Context, wallet string) (*Snapshot, error) {
	id, ok := m.wallets[wallet]
	if !ok || len(m.saved[id]) == 0 {
		return nil, ErrNotFound
	}
	s := m.saved[id][len(m.saved[id])-1]
	return &s, nil
}

func (m *memRepo) GetByDate(_ context.Context, wallet string, date time.Time) (*Snapshot, error) {
	id := m.wallets[wallet]
	for _, s := range m.saved[id] {
		if s.SnapshotDate.Equal(date) {
			return &s, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memRepo) List(_ context.Context, wallet string, limit int) ([]Snapshot, error) {
	id := m.wallets[wallet]
	out := m.saved[id]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRepo) GetWalletID(_ context.Context, wallet string) (int, error) {
	id, ok := m.wallets[wallet]
	if !ok {
		return 0, ErrNotFound
	}
	return id, nil
}

func (m *memRepo) EnsureWallet(_ context.Context, wallet, _ string) (int, error) {
	if id, ok := m.wallets[wallet]; ok {
		return id, nil
	}
	id := m.nextID
	m.nextID++
	m.wallets[wallet] = id
	return id, nil
}

type stubPortfolio struct {
	portfolio domain.WalletPortfolio
	err       error
}

func (s *stubPortfolio) GetPortfolio(_ context.Context, wallet string) (domain.WalletPortfolio, error) {
	if s.err != nil {
		return domain.WalletPortfolio{}, s.err
	}
	p := s.portfolio
	p.Wallet = wallet
	return p, nil
}

func TestGenerateStoresPortfolio(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(&stubPortfolio{portfolio: domain.WalletPortfolio{
		Summary: domain.PortfolioSummary{TotalValue: decimal.RequireFromString("701.45")},
	}}, repo)

	date := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	p, err := svc.Generate(context.Background(), "wallet1", date)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if p.Wallet != "wallet1" {
		t.Errorf("Wallet = %s", p.Wallet)
	}

	stored, err := svc.GetLatest(context.Background(), "wallet1")
	if err != nil {
		t.Fatalf("GetLatest() error = %v", err)
	}

	var decoded domain.WalletPortfolio
	if err := json.Unmarshal(stored.Data, &decoded); err != nil {
		t.Fatalf("unmarshal stored data: %v", err)
	}
	if !decoded.Summary.TotalValue.Equal(decimal.RequireFromString("701.45")) {
		t.Errorf("stored TotalValue = %s", decoded.Summary.TotalValue)
	}
}

func TestGeneratePortfolioError(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(&stubPortfolio{err: errors.New("fetch failed")}, repo)

	if _, err := svc.Generate(context.Background(), "w", time.Now()); err == nil {
		t.Fatal("expected error")
	}
	if len(repo.saved) != 0 {
		t.Error("nothing should be saved on failure")
	}
}

func TestGetLatestNotFound(t *testing.T) {
	svc := NewService(&stubPortfolio{}, newMemRepo())
	if _, err := svc.GetLatest(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
