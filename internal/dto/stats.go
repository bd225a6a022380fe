package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tandemfin/couple_finance_app/internal/utils/settlement"
)

// StatsQueryParams defines the optional date range for stats queries.
type StatsQueryParams struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// CoupleStatsResult is the settlement/stats view for a couple account, always
// expressed from the calling partner's perspective.
type CoupleStatsResult struct {
	AccountID            string           `json:"accountID"`
	FinancialModel       string           `json:"financialModel"`
	TotalShared          decimal.Decimal  `json:"totalShared"`
	TotalSelfPersonal    decimal.Decimal  `json:"totalSelfPersonal"`
	TotalPartnerPersonal decimal.Decimal  `json:"totalPartnerPersonal"`
	SelfExpected         decimal.Decimal  `json:"selfExpected"`
	PartnerExpected      decimal.Decimal  `json:"partnerExpected"`
	SelfActualPaid       decimal.Decimal  `json:"selfActualPaid"`
	PartnerActualPaid    decimal.Decimal  `json:"partnerActualPaid"`
	SelfContributionPct  decimal.Decimal  `json:"selfContributionPercentage"`
	PartnerContributionPct decimal.Decimal `json:"partnerContributionPercentage"`
	CurrentBalance       decimal.Decimal  `json:"currentBalance"`
	WhoOwes              settlement.Owes  `json:"whoOwes"`
	RecommendedTransfer  *decimal.Decimal `json:"recommendedTransfer,omitempty"`
	HiddenGiftsCount     int              `json:"hiddenGiftsCount"`
	From                 *time.Time       `json:"from,omitempty"`
	To                   *time.Time       `json:"to,omitempty"`
}
