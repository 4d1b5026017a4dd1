package store

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/telco360/internal/churn"
	"github.com/smallbiznis/telco360/internal/telco/domain"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const SourceDB = "db"

var errDBSourceWithoutDB = errors.New("dashboard source is db but no database is configured")

const (
	customerBatchSize = 500
	usageBatchSize    = 1000
)

type customerModel struct {
	CustomerID          string                      `gorm:"column:customer_id;primaryKey"`
	FirstName           string                      `gorm:"column:first_name;not null"`
	LastName            string                      `gorm:"column:last_name;not null"`
	Email               string                      `gorm:"column:email;not null"`
	Phone               string                      `gorm:"column:phone;not null"`
	Age                 int                         `gorm:"column:age;not null"`
	Gender              string                      `gorm:"column:gender;not null"`
	City                string                      `gorm:"column:city;not null"`
	State               string                      `gorm:"column:state;not null"`
	TenureMonths        int                         `gorm:"column:tenure_months;not null"`
	AccountStatus       string                      `gorm:"column:account_status;not null"`
	PlanType            string                      `gorm:"column:plan_type;not null"`
	MonthlyRevenue      float64                     `gorm:"column:monthly_revenue;not null"`
	VoiceMinutes30d     float64                     `gorm:"column:voice_minutes_30d;not null"`
	DataGB30d           float64                     `gorm:"column:data_gb_30d;not null"`
	SMSCount30d         int                         `gorm:"column:sms_count_30d;not null"`
	LastPaymentDate     time.Time                   `gorm:"column:last_payment_date;type:date;not null"`
	PaymentMethod       string                      `gorm:"column:payment_method;not null"`
	OverdueAmount       float64                     `gorm:"column:overdue_amount;not null;default:0"`
	SatisfactionScore   float64                     `gorm:"column:satisfaction_score;not null"`
	NPSScore            int                         `gorm:"column:nps_score;not null"`
	SupportTickets6m    int                         `gorm:"column:support_tickets_6m;not null;default:0"`
	LastSupportDate     *time.Time                  `gorm:"column:last_support_date;type:date"`
	ChurnRisk           string                      `gorm:"column:churn_risk;not null;index:idx_telco_customers_churn_risk"`
	ProductsOwned       datatypes.JSONSlice[string] `gorm:"column:products_owned;not null"`
	RecommendedProducts datatypes.JSONSlice[string] `gorm:"column:recommended_products;not null"`
	GenerationID        string                      `gorm:"column:generation_id;not null"`
	CreatedAt           time.Time                   `gorm:"column:created_at;not null"`
}

func (customerModel) TableName() string { return "telco_customers" }

type usageModel struct {
	ID           snowflake.ID `gorm:"column:id;primaryKey;autoIncrement:false"`
	CustomerID   string       `gorm:"column:customer_id;not null;index:idx_telco_usage_history_customer,priority:1"`
	Month        string       `gorm:"column:month;type:char(7);not null;index:idx_telco_usage_history_customer,priority:2"`
	VoiceMinutes float64      `gorm:"column:voice_minutes;not null"`
	DataGB       float64      `gorm:"column:data_gb;not null"`
	SMSCount     int          `gorm:"column:sms_count;not null"`
	Revenue      float64      `gorm:"column:revenue;not null"`
	GenerationID string       `gorm:"column:generation_id;not null"`
}

func (usageModel) TableName() string { return "telco_usage_history" }

// Models lists the tables GormStore needs, for AutoMigrate.
func Models() []any {
	return []any{&customerModel{}, &usageModel{}}
}

// GormStore keeps the dataset in telco_customers and telco_usage_history.
type GormStore struct {
	db    *gorm.DB
	genID *snowflake.Node
	log   *zap.Logger
}

func NewGormStore(db *gorm.DB, genID *snowflake.Node, log *zap.Logger) *GormStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &GormStore{db: db, genID: genID, log: log.Named("telco.store.db")}
}

func (s *GormStore) Name() string { return SourceDB }

func (s *GormStore) Exists(ctx context.Context) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&customerModel{}).Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *GormStore) Load(ctx context.Context) (*domain.Dataset, error) {
	var customers []customerModel
	if err := s.db.WithContext(ctx).Order("customer_id ASC").Find(&customers).Error; err != nil {
		return nil, err
	}
	if len(customers) == 0 {
		return nil, domain.ErrDatasetMissing
	}

	var usage []usageModel
	if err := s.db.WithContext(ctx).Order("customer_id ASC").Order("month ASC").Order("id ASC").Find(&usage).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Customer, 0, len(customers))
	for _, m := range customers {
		c, err := m.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	records := make([]domain.UsageRecord, 0, len(usage))
	for _, u := range usage {
		records = append(records, u.toDomain())
	}

	ds := domain.NewDataset(out, records)
	ds.RunID = customers[0].GenerationID
	ds.GeneratedAt = customers[0].CreatedAt
	return ds, nil
}

// Save replaces both tables in one transaction.
func (s *GormStore) Save(ctx context.Context, ds *domain.Dataset) error {
	if ds == nil {
		return errors.New("dataset is required")
	}
	if s.genID == nil {
		return errors.New("snowflake node is required")
	}

	createdAt := ds.GeneratedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	customers := make([]customerModel, 0, len(ds.Customers))
	for _, c := range ds.Customers {
		customers = append(customers, toCustomerModel(c, ds.RunID, createdAt))
	}
	usage := make([]usageModel, 0, len(ds.Usage))
	for _, u := range ds.Usage {
		usage = append(usage, usageModel{
			ID:           s.genID.Generate(),
			CustomerID:   u.CustomerID,
			Month:        u.Month,
			VoiceMinutes: u.VoiceMinutes,
			DataGB:       u.DataGB,
			SMSCount:     u.SMSCount,
			Revenue:      u.Revenue,
			GenerationID: ds.RunID,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := all.Delete(&usageModel{}).Error; err != nil {
			return err
		}
		if err := all.Delete(&customerModel{}).Error; err != nil {
			return err
		}
		if len(customers) > 0 {
			if err := tx.CreateInBatches(customers, customerBatchSize).Error; err != nil {
				return err
			}
		}
		if len(usage) > 0 {
			if err := tx.CreateInBatches(usage, usageBatchSize).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("dataset stored",
		zap.String("generation_id", ds.RunID),
		zap.Int("customers", len(customers)),
		zap.Int("usage_records", len(usage)),
	)
	return nil
}

func toCustomerModel(c domain.Customer, generationID string, createdAt time.Time) customerModel {
	return customerModel{
		CustomerID:          c.ID,
		FirstName:           c.FirstName,
		LastName:            c.LastName,
		Email:               c.Email,
		Phone:               c.Phone,
		Age:                 c.Age,
		Gender:              c.Gender,
		City:                c.City,
		State:               c.State,
		TenureMonths:        c.TenureMonths,
		AccountStatus:       c.AccountStatus,
		PlanType:            c.PlanType,
		MonthlyRevenue:      c.MonthlyRevenue,
		VoiceMinutes30d:     c.VoiceMinutes30d,
		DataGB30d:           c.DataGB30d,
		SMSCount30d:         c.SMSCount30d,
		LastPaymentDate:     c.LastPaymentDate,
		PaymentMethod:       c.PaymentMethod,
		OverdueAmount:       c.OverdueAmount,
		SatisfactionScore:   c.SatisfactionScore,
		NPSScore:            c.NPSScore,
		SupportTickets6m:    c.SupportTickets6m,
		LastSupportDate:     c.LastSupportDate,
		ChurnRisk:           string(c.ChurnRisk),
		ProductsOwned:       datatypes.NewJSONSlice(nonNil(c.ProductsOwned)),
		RecommendedProducts: datatypes.NewJSONSlice(nonNil(c.RecommendedProducts)),
		GenerationID:        generationID,
		CreatedAt:           createdAt,
	}
}

func (m customerModel) toDomain() (domain.Customer, error) {
	risk, err := churn.ParseCategory(m.ChurnRisk)
	if err != nil {
		return domain.Customer{}, err
	}
	return domain.Customer{
		ID:                  m.CustomerID,
		FirstName:           m.FirstName,
		LastName:            m.LastName,
		Email:               m.Email,
		Phone:               m.Phone,
		Age:                 m.Age,
		Gender:              m.Gender,
		City:                m.City,
		State:               m.State,
		TenureMonths:        m.TenureMonths,
		AccountStatus:       m.AccountStatus,
		PlanType:            m.PlanType,
		MonthlyRevenue:      m.MonthlyRevenue,
		VoiceMinutes30d:     m.VoiceMinutes30d,
		DataGB30d:           m.DataGB30d,
		SMSCount30d:         m.SMSCount30d,
		LastPaymentDate:     dateOnly(m.LastPaymentDate),
		PaymentMethod:       m.PaymentMethod,
		OverdueAmount:       m.OverdueAmount,
		SatisfactionScore:   m.SatisfactionScore,
		NPSScore:            m.NPSScore,
		SupportTickets6m:    m.SupportTickets6m,
		LastSupportDate:     dateOnlyPtr(m.LastSupportDate),
		ChurnRisk:           risk,
		ProductsOwned:       nonNil(m.ProductsOwned),
		RecommendedProducts: nonNil(m.RecommendedProducts),
	}, nil
}

func (m usageModel) toDomain() domain.UsageRecord {
	return domain.UsageRecord{
		CustomerID:   m.CustomerID,
		Month:        m.Month,
		VoiceMinutes: m.VoiceMinutes,
		DataGB:       m.DataGB,
		SMSCount:     m.SMSCount,
		Revenue:      m.Revenue,
	}
}

// dateOnly drops whatever time of day and zone the driver attached to a DATE.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dateOnlyPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := dateOnly(*t)
	return &d
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

var _ domain.Store = (*GormStore)(nil)
