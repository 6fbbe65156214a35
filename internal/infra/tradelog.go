package infra

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"market_sim/internal/domain"
)

// DealLog is the append-only tab-separated trade log. One line per
// executed trade:
//
//	<buyer-repr>\t<seller-repr>\t<qty>\t<price>
//
// where each participant repr is itself ID:<id>\t$<money>\tN:<stock>
// with the balances as of settlement. Every run gets its own
// timestamped file; Close repoints the deal.log symlink at it so the
// latest run is always one path away.
type DealLog struct {
	dir  string
	path string
	f    *os.File
}

// NewDealLog opens a fresh log file deal_<timestamp>_<run-id>.log in dir.
func NewDealLog(dir string) (*DealLog, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create deal log dir: %w", err)
	}

	name := fmt.Sprintf("deal_%s_%s.log", time.Now().Format("20060102_150405"), uuid.New())
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create deal log: %w", err)
	}
	return &DealLog{dir: dir, path: path, f: f}, nil
}

// Path returns the log file path for this run.
func (l *DealLog) Path() string {
	return l.path
}

// Record appends one trade line. Writes go straight to the file so each
// trade is durable in order; there is no intermediate buffer to lose.
func (l *DealLog) Record(t *domain.Trade) error {
	line := fmt.Sprintf("%s\t%s\t%d\t%s\n",
		participantRepr(t.BuyerID, t.BuyerMoney, t.BuyerStock),
		participantRepr(t.SellerID, t.SellerMoney, t.SellerStock),
		t.Qty,
		t.Price.StringFixed(1))
	if _, err := l.f.WriteString(line); err != nil {
		return fmt.Errorf("write deal log: %w", err)
	}
	return nil
}

// Close closes the file and repoints the deal.log symlink at this run.
func (l *DealLog) Close() error {
	if err := l.f.Close(); err != nil {
		return err
	}

	link := filepath.Join(l.dir, "deal.log")
	if err := os.Remove(link); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove old symlink: %w", err)
	}
	if err := os.Symlink(filepath.Base(l.path), link); err != nil {
		return fmt.Errorf("symlink deal log: %w", err)
	}
	return nil
}

func participantRepr(id string, money decimal.Decimal, stock int64) string {
	return fmt.Sprintf("ID:%s\t$%s\tN:%d",
		id, humanize.FormatFloat("#,###.##", money.InexactFloat64()), stock)
}
