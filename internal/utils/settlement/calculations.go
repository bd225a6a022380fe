package settlement

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tandemfin/couple_finance_app/internal/core/domain"
)

// DefaultTolerance is the absolute currency-unit threshold under which an
// outstanding balance is reported as balanced. It absorbs rounding noise.
// Overridable via configuration at wiring time.
var DefaultTolerance = decimal.NewFromInt(5)

var (
	two     = decimal.NewFromInt(2)
	hundred = decimal.NewFromInt(100)
)

// Totals aggregates the expense amounts a contribution computation works on.
// TotalShared is the sum of all shared expenses in the period; the personal
// totals are per-partner sums of personal expenses.
type Totals struct {
	TotalShared     decimal.Decimal
	SelfPersonal    decimal.Decimal
	PartnerPersonal decimal.Decimal
}

// Expectation is the computed expected contribution of each partner.
type Expectation struct {
	SelfExpected    decimal.Decimal
	PartnerExpected decimal.Decimal
}

// ExpectedContributions computes each partner's expected contribution under
// the account's financial model.
//
// FIFTY_FIFTY splits the shared total in half. PROPORTIONAL_INCOME applies
// the configured percentage to self and derives the partner's share by
// subtraction, so the two always sum to the shared total exactly. MIXED adds
// each partner's personal spending on top of half the shared total.
// EVERYTHING_COMMON pools everything and halves it.
//
// A PROPORTIONAL_INCOME model with no contribution settings is a fatal
// configuration error: the settings aggregate must never allow that state.
func ExpectedContributions(model domain.FinancialModel, totals Totals, selfUserID string, contribution *domain.ContributionSettings) (Expectation, error) {
	switch model {
	case domain.FiftyFifty:
		half := totals.TotalShared.Div(two)
		return Expectation{SelfExpected: half, PartnerExpected: totals.TotalShared.Sub(half)}, nil

	case domain.ProportionalIncome:
		if contribution == nil {
			return Expectation{}, fmt.Errorf("proportional income model requires contribution settings")
		}
		selfPct, ok := contribution.PercentageFor(selfUserID)
		if !ok {
			return Expectation{}, fmt.Errorf("user %s is not a partner in the contribution settings", selfUserID)
		}
		selfExpected := totals.TotalShared.Mul(selfPct).Div(hundred)
		// Partner share by subtraction guarantees exact complementarity.
		return Expectation{
			SelfExpected:    selfExpected,
			PartnerExpected: totals.TotalShared.Sub(selfExpected),
		}, nil

	case domain.Mixed:
		half := totals.TotalShared.Div(two)
		return Expectation{
			SelfExpected:    half.Add(totals.SelfPersonal),
			PartnerExpected: totals.TotalShared.Sub(half).Add(totals.PartnerPersonal),
		}, nil

	case domain.EverythingCommon:
		pooled := totals.TotalShared.Add(totals.SelfPersonal).Add(totals.PartnerPersonal)
		half := pooled.Div(two)
		return Expectation{SelfExpected: half, PartnerExpected: pooled.Sub(half)}, nil

	default:
		return Expectation{}, fmt.Errorf("unknown financial model '%s'", model)
	}
}

// Owes identifies the direction of an outstanding settlement.
type Owes string

const (
	Balanced    Owes = "balanced"
	SelfOwes    Owes = "self"
	PartnerOwes Owes = "partner"
)

// Result is the outcome of a settlement computation, always expressed from
// the perspective of "self".
type Result struct {
	// CurrentBalance is (selfActual − selfExpected) − (partnerActual −
	// partnerExpected). Positive means self has overpaid relative to their
	// share.
	CurrentBalance decimal.Decimal
	WhoOwes        Owes
	// RecommendedTransfer is |CurrentBalance| when not balanced, nil
	// otherwise.
	RecommendedTransfer *decimal.Decimal
	// Contribution percentage of each partner's expected share of the shared
	// total; zero when there were no shared expenses.
	SelfContributionPct    decimal.Decimal
	PartnerContributionPct decimal.Decimal
}

// Settle derives the outstanding balance, direction and recommended transfer
// from the partners' expected and actual contributions. Pure and idempotent:
// identical inputs always produce identical outputs.
func Settle(exp Expectation, selfActual, partnerActual, totalShared, tolerance decimal.Decimal) Result {
	balance := selfActual.Sub(exp.SelfExpected).Sub(partnerActual.Sub(exp.PartnerExpected))

	res := Result{
		CurrentBalance: balance,
		WhoOwes:        Balanced,
	}

	if balance.Abs().GreaterThan(tolerance) {
		if balance.IsPositive() {
			res.WhoOwes = PartnerOwes
		} else {
			res.WhoOwes = SelfOwes
		}
		transfer := balance.Abs()
		res.RecommendedTransfer = &transfer
	}

	if totalShared.IsPositive() {
		res.SelfContributionPct = exp.SelfExpected.Div(totalShared).Mul(hundred)
		res.PartnerContributionPct = exp.PartnerExpected.Div(totalShared).Mul(hundred)
	}

	return res
}

// SplitAmount divides a single expense amount between partner1 and partner2
// for conversion to a shared expense. The proportional model uses the
// configured percentages; every other model splits equally. Partner2's amount
// is derived by subtraction so the two parts always sum to the full amount.
func SplitAmount(amount decimal.Decimal, model domain.FinancialModel, contribution *domain.ContributionSettings, partner1ID, partner2ID string) (domain.SplitDetails, error) {
	if model == domain.ProportionalIncome && contribution != nil {
		p1Pct, ok1 := contribution.PercentageFor(partner1ID)
		p2Pct, ok2 := contribution.PercentageFor(partner2ID)
		if !ok1 || !ok2 {
			return domain.SplitDetails{}, fmt.Errorf("partners %s/%s do not match contribution settings", partner1ID, partner2ID)
		}
		p1 := amount.Mul(p1Pct).Div(hundred).Round(2)
		return domain.SplitDetails{
			Partner1UserID:     partner1ID,
			Partner2UserID:     partner2ID,
			Partner1Amount:     p1,
			Partner2Amount:     amount.Sub(p1),
			SplitMethod:        domain.SplitProportional,
			Partner1Percentage: &p1Pct,
			Partner2Percentage: &p2Pct,
		}, nil
	}

	half := amount.Div(two).Round(2)
	return domain.SplitDetails{
		Partner1UserID: partner1ID,
		Partner2UserID: partner2ID,
		Partner1Amount: half,
		Partner2Amount: amount.Sub(half),
		SplitMethod:    domain.SplitEqual,
	}, nil
}
