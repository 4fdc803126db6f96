package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromInt(100), MXN)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromInt(100)))
		assert.Equal(t, MXN, m.Currency())
	})

	t.Run("rejects empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(100), "")
		assert.Error(t, err)
	})

	t.Run("MXN helpers default the currency", func(t *testing.T) {
		assert.Equal(t, MXN, NewMoneyMXN(decimal.NewFromInt(50)).Currency())
		assert.Equal(t, MXN, NewMoneyMXNFromFloat(50.5).Currency())

		m, err := NewMoneyMXNFromString("1250.75")
		require.NoError(t, err)
		assert.Equal(t, "1250.75", m.StringFixed(2))

		_, err = NewMoneyMXNFromString("not-a-number")
		assert.Error(t, err)
	})

	t.Run("zero values", func(t *testing.T) {
		assert.True(t, ZeroMXN().IsZero())
		assert.Equal(t, USD, Zero(USD).Currency())
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	a := NewMoneyMXN(decimal.NewFromInt(100))
	b := NewMoneyMXN(decimal.NewFromInt(40))

	t.Run("add", func(t *testing.T) {
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.True(t, sum.Amount().Equal(decimal.NewFromInt(140)))
	})

	t.Run("subtract", func(t *testing.T) {
		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.True(t, diff.Amount().Equal(decimal.NewFromInt(60)))
	})

	t.Run("mixed currencies are rejected", func(t *testing.T) {
		other := Zero(USD)
		_, err := a.Add(other)
		assert.Error(t, err)
		_, err = a.Subtract(other)
		assert.Error(t, err)
		_, err = a.LessThan(other)
		assert.Error(t, err)
	})

	t.Run("must variants panic on mismatch", func(t *testing.T) {
		assert.Panics(t, func() { a.MustAdd(Zero(USD)) })
		assert.True(t, a.MustAdd(b).Amount().Equal(decimal.NewFromInt(140)))
	})

	t.Run("multiply and round", func(t *testing.T) {
		m := NewMoneyMXNFromFloat(10.333)
		assert.Equal(t, "31.00", m.MultiplyByInt(3).Round(2).StringFixed(2))
		assert.True(t, m.Multiply(decimal.NewFromInt(2)).Amount().Equal(decimal.NewFromFloat(20.666)))
	})
}

func TestMoney_Comparison(t *testing.T) {
	a := NewMoneyMXN(decimal.NewFromInt(100))
	b := NewMoneyMXN(decimal.NewFromInt(40))

	lt, err := b.LessThan(a)
	require.NoError(t, err)
	assert.True(t, lt)

	gt, err := a.GreaterThan(b)
	require.NoError(t, err)
	assert.True(t, gt)

	gte, err := a.GreaterThanOrEqual(NewMoneyMXN(decimal.NewFromInt(100)))
	require.NoError(t, err)
	assert.True(t, gte)

	assert.True(t, a.Equals(NewMoneyMXN(decimal.NewFromInt(100))))
	assert.False(t, a.Equals(b))
	assert.True(t, a.IsPositive())
	assert.True(t, NewMoneyMXN(decimal.NewFromInt(-1)).IsNegative())
}

func TestMoney_Percentages(t *testing.T) {
	m := NewMoneyMXN(decimal.NewFromInt(200))

	t.Run("calculate percentage", func(t *testing.T) {
		pct := m.CalculatePercentage(decimal.NewFromInt(16))
		assert.True(t, pct.Amount().Equal(decimal.NewFromInt(32)))
	})

	t.Run("apply discount", func(t *testing.T) {
		discounted := m.ApplyDiscount(decimal.NewFromInt(10))
		assert.True(t, discounted.Amount().Equal(decimal.NewFromInt(180)))
	})

	t.Run("zero discount is identity", func(t *testing.T) {
		assert.True(t, m.ApplyDiscount(decimal.Zero).Equals(m))
	})
}

func TestMoney_Serialization(t *testing.T) {
	t.Run("json round trip", func(t *testing.T) {
		m := NewMoneyMXNFromFloat(1250.50)
		data, err := json.Marshal(m)
		require.NoError(t, err)

		var decoded Money
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.True(t, m.Equals(decoded))
	})

	t.Run("json without currency defaults to MXN", func(t *testing.T) {
		var decoded Money
		require.NoError(t, json.Unmarshal([]byte(`{"amount":"99.90"}`), &decoded))
		assert.Equal(t, MXN, decoded.Currency())
	})

	t.Run("database value stores the amount", func(t *testing.T) {
		m := NewMoneyMXNFromFloat(42.5)
		v, err := m.Value()
		require.NoError(t, err)
		assert.Equal(t, "42.5", v)
	})

	t.Run("scan restores amount with default currency", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan("1234.56"))
		assert.Equal(t, "1234.56", m.StringFixed(2))
		assert.Equal(t, MXN, m.Currency())

		require.NoError(t, m.Scan(nil))
		assert.True(t, m.IsZero())

		assert.Error(t, m.Scan(12345))
	})

	t.Run("string includes currency", func(t *testing.T) {
		assert.Equal(t, "100.00 MXN", NewMoneyMXN(decimal.NewFromInt(100)).String())
	})
}
