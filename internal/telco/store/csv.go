package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jszwec/csvutil"
	"github.com/smallbiznis/telco360/internal/telco/domain"
	"go.uber.org/zap"
)

const (
	CustomersFile = "customer_data.csv"
	UsageFile     = "usage_history.csv"
)

const SourceCSV = "csv"

// CSVStore keeps the dataset as two CSV files in one directory.
type CSVStore struct {
	dir string
	log *zap.Logger
}

func NewCSVStore(dir string, log *zap.Logger) *CSVStore {
	if dir == "" {
		dir = "."
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CSVStore{dir: dir, log: log.Named("telco.store.csv")}
}

func (s *CSVStore) Name() string { return SourceCSV }

func (s *CSVStore) CustomersPath() string { return filepath.Join(s.dir, CustomersFile) }

func (s *CSVStore) UsagePath() string { return filepath.Join(s.dir, UsageFile) }

// Exists is true only when both files are present.
func (s *CSVStore) Exists(context.Context) (bool, error) {
	for _, p := range []string{s.CustomersPath(), s.UsagePath()} {
		if _, err := os.Stat(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return false, nil
			}
			return false, err
		}
	}
	return true, nil
}

func (s *CSVStore) Load(ctx context.Context) (*domain.Dataset, error) {
	ok, err := s.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrDatasetMissing
	}

	customerData, err := os.ReadFile(s.CustomersPath())
	if err != nil {
		return nil, err
	}
	usageData, err := os.ReadFile(s.UsagePath())
	if err != nil {
		return nil, err
	}

	customers, err := DecodeCustomers(customerData)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", CustomersFile, err)
	}
	usage, err := DecodeUsage(usageData)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", UsageFile, err)
	}
	return domain.NewDataset(customers, usage), nil
}

// Save writes both files through temp files so readers never see a partial
// dataset.
func (s *CSVStore) Save(_ context.Context, ds *domain.Dataset) error {
	if ds == nil {
		return errors.New("dataset is required")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}

	var customers, usage bytes.Buffer
	if err := EncodeCustomers(&customers, ds.Customers); err != nil {
		return err
	}
	if err := EncodeUsage(&usage, ds.Usage); err != nil {
		return err
	}

	if err := writeFileAtomic(s.CustomersPath(), customers.Bytes()); err != nil {
		return err
	}
	if err := writeFileAtomic(s.UsagePath(), usage.Bytes()); err != nil {
		return err
	}
	s.log.Info("dataset written",
		zap.String("dir", s.dir),
		zap.Int("customers", len(ds.Customers)),
		zap.Int("usage_records", len(ds.Usage)),
	)
	return nil
}

func EncodeCustomers(w io.Writer, customers []domain.Customer) error {
	rows := make([]customerRow, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, toCustomerRow(c))
	}
	return encodeRows(w, rows)
}

func EncodeUsage(w io.Writer, usage []domain.UsageRecord) error {
	rows := make([]usageRow, 0, len(usage))
	for _, u := range usage {
		rows = append(rows, toUsageRow(u))
	}
	return encodeRows(w, rows)
}

func encodeRows[T any](w io.Writer, rows []T) error {
	data, err := csvutil.Marshal(rows)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func DecodeCustomers(data []byte) ([]domain.Customer, error) {
	var rows []customerRow
	if err := csvutil.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	customers := make([]domain.Customer, 0, len(rows))
	for i, r := range rows {
		c, err := r.toDomain()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		customers = append(customers, c)
	}
	return customers, nil
}

func DecodeUsage(data []byte) ([]domain.UsageRecord, error) {
	var rows []usageRow
	if err := csvutil.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	usage := make([]domain.UsageRecord, 0, len(rows))
	for _, r := range rows {
		usage = append(usage, r.toDomain())
	}
	return usage, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

var _ domain.Store = (*CSVStore)(nil)
