package generator

import "github.com/smallbiznis/telco360/internal/telco/domain"

var freeEmailDomains = []string{"gmail.com", "yahoo.com", "hotmail.com"}

type weighted struct {
	values  []string
	weights []float64
}

var (
	genders = weighted{
		values:  []string{domain.GenderMale, domain.GenderFemale},
		weights: []float64{0.48, 0.52},
	}
	accountStatuses = weighted{
		values:  []string{domain.StatusActive, domain.StatusSuspended, domain.StatusInactive},
		weights: []float64{0.85, 0.10, 0.05},
	}
	planTypes = weighted{
		values:  domain.Plans,
		weights: []float64{0.30, 0.40, 0.25, 0.05},
	}
	paymentMethods = weighted{
		values:  []string{domain.PaymentCreditCard, domain.PaymentDebitCard, domain.PaymentBankTransfer, domain.PaymentCash},
		weights: []float64{0.50, 0.25, 0.20, 0.05},
	}
)

// revenueByPlan is the mean and standard deviation of monthly revenue.
var revenueByPlan = map[string][2]float64{
	domain.PlanBasic:      {45, 10},
	domain.PlanStandard:   {75, 15},
	domain.PlanPremium:    {120, 20},
	domain.PlanEnterprise: {200, 30},
}

const minMonthlyRevenue = 20

const (
	ProductMobile           = "Mobile Service"
	ProductInternet         = "Internet"
	ProductTV               = "TV Service"
	ProductHomeSecurity     = "Home Security"
	ProductBusiness         = "Business Solutions"
	ProductInsurance        = "Insurance"
	ProductDeviceProtection = "Device Protection"
	ProductRoaming          = "International Roaming"
	ProductCloudStorage     = "Cloud Storage"
	ProductUnlimitedData    = "Unlimited Data"
)

const (
	RecommendUnlimitedData = "Unlimited Data Plan"
	RecommendInternational = "International Package"
	RecommendDeviceUpgrade = "Device Upgrade"
	RecommendHomeInternet  = "Home Internet"
	RecommendTVBundle      = "TV Bundle"
	RecommendHomeSecurity  = "Home Security System"
)

const (
	maxRecommendations = 3
	highDataUsageGB    = 15
)

var addOnProducts = []string{ProductInsurance, ProductDeviceProtection, ProductRoaming, ProductCloudStorage}
