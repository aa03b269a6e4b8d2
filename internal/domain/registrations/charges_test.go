package registrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGatewayCharge(t *testing.T) {
	rates := map[string]float64{
		"UPI":        0,
		"Card":       2.5,
		"NetBanking": 1.8,
	}

	assert.InDelta(t, 0.0, GatewayCharge(1000, "UPI", rates), 1e-9)
	assert.InDelta(t, 25.0, GatewayCharge(1000, "Card", rates), 1e-9)
	assert.InDelta(t, 18.0, GatewayCharge(1000, "NetBanking", rates), 1e-9)

	t.Run("method lookup tolerates case drift", func(t *testing.T) {
		assert.InDelta(t, 25.0, GatewayCharge(1000, "card", rates), 1e-9)
		assert.InDelta(t, 18.0, GatewayCharge(1000, "netbanking", rates), 1e-9)
	})

	t.Run("unknown method charges nothing", func(t *testing.T) {
		assert.InDelta(t, 0.0, GatewayCharge(1000, "Wallet", rates), 1e-9)
	})

	t.Run("zero amount", func(t *testing.T) {
		assert.InDelta(t, 0.0, GatewayCharge(0, "Card", rates), 1e-9)
	})
}

func newReg(status, method string, amount float64) *Registration {
	return &Registration{
		PaymentStatus: status,
		PaymentMethod: method,
		GrossAmount:   amount,
	}
}

func TestComputeRevenue(t *testing.T) {
	rates := map[string]float64{"UPI": 0, "Card": 2.0}

	regs := []*Registration{
		newReg("paid", "Card", 500),
		newReg("paid", "UPI", 300),
		newReg("done", "Card", 200),
		newReg("pending", "Card", 999),
	}

	s := ComputeRevenue(regs, rates)

	assert.Equal(t, 4, s.TotalRegistrations)
	assert.Equal(t, 3, s.PaidCount)
	assert.Equal(t, 1, s.PendingCount)
	assert.InDelta(t, 1000.0, s.GrossRevenue, 1e-9)
	assert.InDelta(t, 14.0, s.GatewayCharges, 1e-9) // (500+200) * 2%
	assert.InDelta(t, 986.0, s.NetRevenue, 1e-9)
}

func TestComputeRevenueEmpty(t *testing.T) {
	s := ComputeRevenue(nil, map[string]float64{"Card": 2})
	assert.Equal(t, 0, s.TotalRegistrations)
	assert.InDelta(t, 0.0, s.NetRevenue, 1e-9)
}

// Changing a rate and recomputing must move historical net revenue: the rate
// table is live configuration, charges are never snapshotted per transaction.
func TestComputeRevenueTracksCurrentRates(t *testing.T) {
	regs := []*Registration{
		newReg("paid", "Card", 1000),
		newReg("paid", "Card", 1000),
	}

	before := ComputeRevenue(regs, map[string]float64{"Card": 2.0})
	assert.InDelta(t, 40.0, before.GatewayCharges, 1e-9)
	assert.InDelta(t, 1960.0, before.NetRevenue, 1e-9)

	after := ComputeRevenue(regs, map[string]float64{"Card": 3.0})
	assert.InDelta(t, 60.0, after.GatewayCharges, 1e-9)
	assert.InDelta(t, 1940.0, after.NetRevenue, 1e-9)

	assert.NotEqual(t, before.NetRevenue, after.NetRevenue)
}
