package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"household-budget-go-be/models"
)

func TestBalanceDelta(t *testing.T) {
	assert.Equal(t, int64(4250), BalanceDelta(4250, models.TypeIncome))
	assert.Equal(t, int64(-4250), BalanceDelta(4250, models.TypeExpense))
	assert.Equal(t, int64(0), BalanceDelta(0, models.TypeIncome))
}

// The account invariant: starting balance plus the sum of signed effects of
// every applied operation equals the final balance, in exact integer cents.
func TestBalanceDelta_SequenceInvariant(t *testing.T) {
	type op struct {
		cents int64
		typ   string
	}

	start := int64(100000)
	balance := start

	// create income 1200.00, create expense 42.50, update the expense to
	// 50.00 (reverse then reapply), delete the income (reverse).
	creates := []op{
		{120000, models.TypeIncome},
		{4250, models.TypeExpense},
	}
	for _, o := range creates {
		balance += BalanceDelta(o.cents, o.typ)
	}

	balance += -BalanceDelta(4250, models.TypeExpense)
	balance += BalanceDelta(5000, models.TypeExpense)

	balance += -BalanceDelta(120000, models.TypeIncome)

	net := int64(0) + 120000 - 5000 - 120000
	assert.Equal(t, start+net, balance)
	assert.Equal(t, int64(95000), balance)
}

func TestMirrorPayee(t *testing.T) {
	assert.Equal(t, "ACME LLC (Draw)", MirrorPayee("ACME LLC"))
	// Already-suffixed payees are left alone so repeated syncs don't stack.
	assert.Equal(t, "ACME LLC (Draw)", MirrorPayee("ACME LLC (Draw)"))
}

func TestCreateInput_Validate(t *testing.T) {
	valid := CreateInput{
		Date:        "2024-01-15",
		AmountCents: 4250,
		Type:        models.TypeExpense,
		Payee:       "WALMART #123",
	}
	assert.NoError(t, valid.validate())

	tests := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"empty payee", func(in *CreateInput) { in.Payee = "" }},
		{"zero amount", func(in *CreateInput) { in.AmountCents = 0 }},
		{"negative amount", func(in *CreateInput) { in.AmountCents = -1 }},
		{"bad type", func(in *CreateInput) { in.Type = "transfer" }},
		{"short date", func(in *CreateInput) { in.Date = "2024-1" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			assert.Error(t, in.validate())
		})
	}
}
