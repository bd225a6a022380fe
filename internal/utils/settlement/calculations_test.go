package settlement_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tandemfin/couple_finance_app/internal/core/domain"
	"github.com/tandemfin/couple_finance_app/internal/utils/settlement"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func proportional(p1, p2 string) *domain.ContributionSettings {
	return &domain.ContributionSettings{
		Partner1UserID:                 "user-a",
		Partner2UserID:                 "user-b",
		Partner1ContributionPercentage: dec(p1),
		Partner2ContributionPercentage: dec(p2),
	}
}

func TestExpectedContributions_FiftyFifty(t *testing.T) {
	exp, err := settlement.ExpectedContributions(domain.FiftyFifty,
		settlement.Totals{TotalShared: dec("120")}, "user-a", nil)
	require.NoError(t, err)
	assert.True(t, exp.SelfExpected.Equal(dec("60")), "self expected %s", exp.SelfExpected)
	assert.True(t, exp.PartnerExpected.Equal(dec("60")))
}

func TestExpectedContributions_Proportional(t *testing.T) {
	exp, err := settlement.ExpectedContributions(domain.ProportionalIncome,
		settlement.Totals{TotalShared: dec("1000")}, "user-a", proportional("70", "30"))
	require.NoError(t, err)
	assert.True(t, exp.SelfExpected.Equal(dec("700")))
	assert.True(t, exp.PartnerExpected.Equal(dec("300")))

	// From the other partner's perspective the percentages swap.
	exp, err = settlement.ExpectedContributions(domain.ProportionalIncome,
		settlement.Totals{TotalShared: dec("1000")}, "user-b", proportional("70", "30"))
	require.NoError(t, err)
	assert.True(t, exp.SelfExpected.Equal(dec("300")))
	assert.True(t, exp.PartnerExpected.Equal(dec("700")))
}

// Partner share is derived by subtraction, so the two expected amounts sum to
// the shared total exactly even for percentages that don't divide evenly.
func TestExpectedContributions_ProportionalComplementarity(t *testing.T) {
	shared := []string{"0", "0.01", "99.99", "1000", "12345.67"}
	splits := [][2]string{{"33.33", "66.67"}, {"50", "50"}, {"99.99", "0.01"}, {"70", "30"}}

	for _, s := range shared {
		for _, pct := range splits {
			exp, err := settlement.ExpectedContributions(domain.ProportionalIncome,
				settlement.Totals{TotalShared: dec(s)}, "user-a", proportional(pct[0], pct[1]))
			require.NoError(t, err)
			sum := exp.SelfExpected.Add(exp.PartnerExpected)
			assert.True(t, sum.Equal(dec(s)),
				"shared %s with split %v: expected sum %s", s, pct, sum)
		}
	}
}

func TestExpectedContributions_ProportionalWithoutSettings(t *testing.T) {
	_, err := settlement.ExpectedContributions(domain.ProportionalIncome,
		settlement.Totals{TotalShared: dec("100")}, "user-a", nil)
	assert.Error(t, err)
}

func TestExpectedContributions_ProportionalUnknownUser(t *testing.T) {
	_, err := settlement.ExpectedContributions(domain.ProportionalIncome,
		settlement.Totals{TotalShared: dec("100")}, "user-c", proportional("60", "40"))
	assert.Error(t, err)
}

func TestExpectedContributions_Mixed(t *testing.T) {
	exp, err := settlement.ExpectedContributions(domain.Mixed, settlement.Totals{
		TotalShared:     dec("200"),
		SelfPersonal:    dec("50"),
		PartnerPersonal: dec("25"),
	}, "user-a", nil)
	require.NoError(t, err)
	assert.True(t, exp.SelfExpected.Equal(dec("150")), "self expected %s", exp.SelfExpected)
	assert.True(t, exp.PartnerExpected.Equal(dec("125")))
}

func TestExpectedContributions_EverythingCommon(t *testing.T) {
	exp, err := settlement.ExpectedContributions(domain.EverythingCommon, settlement.Totals{
		TotalShared:     dec("100"),
		SelfPersonal:    dec("40"),
		PartnerPersonal: dec("60"),
	}, "user-a", nil)
	require.NoError(t, err)
	assert.True(t, exp.SelfExpected.Equal(dec("100")))
	assert.True(t, exp.PartnerExpected.Equal(dec("100")))
}

func TestExpectedContributions_UnknownModel(t *testing.T) {
	_, err := settlement.ExpectedContributions(domain.FinancialModel("WHATEVER"),
		settlement.Totals{TotalShared: dec("10")}, "user-a", nil)
	assert.Error(t, err)
}

func TestSettle_Balanced(t *testing.T) {
	exp := settlement.Expectation{SelfExpected: dec("50"), PartnerExpected: dec("50")}
	res := settlement.Settle(exp, dec("52"), dec("48"), dec("100"), settlement.DefaultTolerance)

	assert.Equal(t, settlement.Balanced, res.WhoOwes)
	assert.Nil(t, res.RecommendedTransfer)
	assert.True(t, res.CurrentBalance.Equal(dec("4")))
}

// A balance of exactly 5.00 is still balanced; 5.01 is not.
func TestSettle_ToleranceBoundary(t *testing.T) {
	exp := settlement.Expectation{SelfExpected: dec("50"), PartnerExpected: dec("50")}

	// selfActual 52.50, partnerActual 47.50 -> balance 5.00 exactly
	res := settlement.Settle(exp, dec("52.50"), dec("47.50"), dec("100"), settlement.DefaultTolerance)
	assert.Equal(t, settlement.Balanced, res.WhoOwes)
	assert.Nil(t, res.RecommendedTransfer)

	// balance 5.01: one tick past the threshold
	res = settlement.Settle(exp, dec("52.505"), dec("47.495"), dec("100"), settlement.DefaultTolerance)
	assert.Equal(t, settlement.PartnerOwes, res.WhoOwes)
	require.NotNil(t, res.RecommendedTransfer)
	assert.True(t, res.RecommendedTransfer.Equal(dec("5.01")))
}

// Swapping the self/partner roles negates the balance.
func TestSettle_BalanceAntisymmetry(t *testing.T) {
	exp := settlement.Expectation{SelfExpected: dec("70"), PartnerExpected: dec("30")}
	swapped := settlement.Expectation{SelfExpected: dec("30"), PartnerExpected: dec("70")}

	res := settlement.Settle(exp, dec("90"), dec("10"), dec("100"), settlement.DefaultTolerance)
	mirror := settlement.Settle(swapped, dec("10"), dec("90"), dec("100"), settlement.DefaultTolerance)

	assert.True(t, res.CurrentBalance.Equal(mirror.CurrentBalance.Neg()),
		"balance %s should mirror %s", res.CurrentBalance, mirror.CurrentBalance)
}

// Full fifty-fifty scenario: A pays 120, B pays nothing. From A's perspective
// the raw balance is (120-60) - (0-60) = 120, so B owes A with a nonzero
// transfer recommendation.
func TestSettle_FiftyFiftyScenario(t *testing.T) {
	exp, err := settlement.ExpectedContributions(domain.FiftyFifty,
		settlement.Totals{TotalShared: dec("120")}, "user-a", nil)
	require.NoError(t, err)

	res := settlement.Settle(exp, dec("120"), dec("0"), dec("120"), settlement.DefaultTolerance)

	assert.True(t, res.CurrentBalance.Equal(dec("120")))
	assert.Equal(t, settlement.PartnerOwes, res.WhoOwes)
	require.NotNil(t, res.RecommendedTransfer)
	assert.True(t, res.RecommendedTransfer.IsPositive())
	assert.True(t, res.SelfContributionPct.Equal(dec("50")))
	assert.True(t, res.PartnerContributionPct.Equal(dec("50")))
}

func TestSettle_ZeroSharedTotal(t *testing.T) {
	exp := settlement.Expectation{}
	res := settlement.Settle(exp, dec("0"), dec("0"), dec("0"), settlement.DefaultTolerance)

	assert.Equal(t, settlement.Balanced, res.WhoOwes)
	assert.True(t, res.SelfContributionPct.IsZero())
	assert.True(t, res.PartnerContributionPct.IsZero())
}

func TestSettle_SelfOwes(t *testing.T) {
	exp := settlement.Expectation{SelfExpected: dec("50"), PartnerExpected: dec("50")}
	res := settlement.Settle(exp, dec("0"), dec("100"), dec("100"), settlement.DefaultTolerance)

	assert.Equal(t, settlement.SelfOwes, res.WhoOwes)
	require.NotNil(t, res.RecommendedTransfer)
	assert.True(t, res.RecommendedTransfer.Equal(dec("100")))
}

func TestSplitAmount_Equal(t *testing.T) {
	split, err := settlement.SplitAmount(dec("101"), domain.FiftyFifty, nil, "user-a", "user-b")
	require.NoError(t, err)

	assert.Equal(t, domain.SplitEqual, split.SplitMethod)
	assert.Equal(t, "user-a", split.Partner1UserID)
	assert.Equal(t, "user-b", split.Partner2UserID)
	assert.True(t, split.Partner1Amount.Add(split.Partner2Amount).Equal(dec("101")))
}

func TestSplitAmount_Proportional(t *testing.T) {
	split, err := settlement.SplitAmount(dec("100"), domain.ProportionalIncome,
		proportional("70", "30"), "user-a", "user-b")
	require.NoError(t, err)

	assert.Equal(t, domain.SplitProportional, split.SplitMethod)
	assert.True(t, split.Partner1Amount.Equal(dec("70")))
	assert.True(t, split.Partner2Amount.Equal(dec("30")))
	require.NotNil(t, split.Partner1Percentage)
	assert.True(t, split.Partner1Percentage.Equal(dec("70")))
}

// Odd amounts with uneven percentages must still sum exactly to the total.
func TestSplitAmount_SumInvariant(t *testing.T) {
	amounts := []string{"0.01", "99.99", "33.35", "1234.56"}
	for _, a := range amounts {
		split, err := settlement.SplitAmount(dec(a), domain.ProportionalIncome,
			proportional("33.33", "66.67"), "user-a", "user-b")
		require.NoError(t, err)
		assert.True(t, split.Partner1Amount.Add(split.Partner2Amount).Equal(dec(a)),
			"amount %s split into %s + %s", a, split.Partner1Amount, split.Partner2Amount)
	}
}
