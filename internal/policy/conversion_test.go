package policy_test

import (
	"testing"

	"go-lms/internal/policy"

	"github.com/stretchr/testify/assert"
)

func TestConvert_Medical(t *testing.T) {
	t.Run("20 days with 4 earned and 0 special", func(t *testing.T) {
		balances := policy.BalanceMap{policy.Earned: 4}

		plan, err := policy.Convert(policy.Medical, 20, balances)

		assert.NoError(t, err)
		assert.True(t, plan.Converted())
		assert.Equal(t, []policy.Component{
			{Type: policy.Medical, Days: 14, PolicyRef: "6.21.c"},
			{Type: policy.Earned, Days: 4, PolicyRef: "6.21.c"},
			{Type: policy.Special, Days: 2, PolicyRef: "6.21.c"},
		}, plan.Components)
	})

	t.Run("overflow fully covered by earned", func(t *testing.T) {
		balances := policy.BalanceMap{policy.Earned: 30}

		plan, err := policy.Convert(policy.Medical, 18, balances)

		assert.NoError(t, err)
		assert.Equal(t, []policy.Component{
			{Type: policy.Medical, Days: 14, PolicyRef: "6.21.c"},
			{Type: policy.Earned, Days: 4, PolicyRef: "6.21.c"},
		}, plan.Components)
	})

	t.Run("no earned balance goes straight to special", func(t *testing.T) {
		plan, err := policy.Convert(policy.Medical, 16, policy.BalanceMap{})

		assert.NoError(t, err)
		assert.Equal(t, []policy.Component{
			{Type: policy.Medical, Days: 14, PolicyRef: "6.21.c"},
			{Type: policy.Special, Days: 2, PolicyRef: "6.21.c"},
		}, plan.Components)
	})

	t.Run("at threshold no conversion", func(t *testing.T) {
		plan, err := policy.Convert(policy.Medical, 14, policy.BalanceMap{})

		assert.NoError(t, err)
		assert.False(t, plan.Converted())
		assert.Equal(t, []policy.Component{{Type: policy.Medical, Days: 14}}, plan.Components)
	})
}

func TestConvert_Casual(t *testing.T) {
	t.Run("5 days splits 3 casual 2 earned", func(t *testing.T) {
		plan, err := policy.Convert(policy.Casual, 5, policy.BalanceMap{})

		assert.NoError(t, err)
		assert.Equal(t, []policy.Component{
			{Type: policy.Casual, Days: 3, PolicyRef: "6.20.d"},
			{Type: policy.Earned, Days: 2, PolicyRef: "6.20.d"},
		}, plan.Components)
	})

	t.Run("remainder charged to earned even with zero balance", func(t *testing.T) {
		// sufficiency is the ledger's problem, not the planner's
		plan, err := policy.Convert(policy.Casual, 10, policy.BalanceMap{policy.Earned: 0})

		assert.NoError(t, err)
		assert.Equal(t, 7, plan.Components[1].Days)
		assert.Equal(t, policy.Earned, plan.Components[1].Type)
	})

	t.Run("2 days no conversion", func(t *testing.T) {
		plan, err := policy.Convert(policy.Casual, 2, nil)

		assert.NoError(t, err)
		assert.False(t, plan.Converted())
	})
}

func TestConvert_Conservation(t *testing.T) {
	types := []policy.LeaveType{
		policy.Earned, policy.Casual, policy.Medical, policy.Maternity,
		policy.Paternity, policy.Study, policy.ExtraWithPay,
		policy.ExtraWithoutPay, policy.SpecialDisability,
		policy.Quarantine, policy.Special,
	}
	balances := policy.BalanceMap{policy.Earned: 7, policy.Special: 1}

	for _, lt := range types {
		for _, days := range []int{1, 3, 4, 14, 15, 20, 45} {
			plan, err := policy.Convert(lt, days, balances)

			assert.NoError(t, err)
			sum := 0
			for _, c := range plan.Components {
				sum += c.Days
			}
			assert.Equal(t, days, sum, "type %s days %d", lt, days)
		}
	}
}

func TestConvert_Invalid(t *testing.T) {
	t.Run("negative unknown type", func(t *testing.T) {
		_, err := policy.Convert("SABBATICAL", 5, nil)

		assert.ErrorIs(t, err, policy.ErrUnknownLeaveType)
	})

	t.Run("negative zero days", func(t *testing.T) {
		_, err := policy.Convert(policy.Earned, 0, nil)

		assert.ErrorIs(t, err, policy.ErrNonPositiveDays)
	})
}

func TestApplyEarnedCap(t *testing.T) {
	t.Run("under cap accrues fully", func(t *testing.T) {
		earned, special := policy.ApplyEarnedCap(40, 10)

		assert.Equal(t, 10, earned)
		assert.Equal(t, 0, special)
	})

	t.Run("overflow transfers to special", func(t *testing.T) {
		earned, special := policy.ApplyEarnedCap(55, 10)

		assert.Equal(t, 5, earned)
		assert.Equal(t, 5, special)
	})

	t.Run("already at cap transfers everything", func(t *testing.T) {
		earned, special := policy.ApplyEarnedCap(60, 4)

		assert.Equal(t, 0, earned)
		assert.Equal(t, 4, special)
	})

	t.Run("already above cap transfers everything", func(t *testing.T) {
		earned, special := policy.ApplyEarnedCap(63, 2)

		assert.Equal(t, 0, earned)
		assert.Equal(t, 2, special)
	})
}

func TestRequiresCertificateChain(t *testing.T) {
	assert.True(t, policy.RequiresCertificateChain(policy.Medical, 8))
	assert.False(t, policy.RequiresCertificateChain(policy.Medical, 7))
	assert.False(t, policy.RequiresCertificateChain(policy.Casual, 20))
}
