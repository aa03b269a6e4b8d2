package registrations

import "strings"

// GatewayCharge is the provider fee for one paid amount: amount * pct / 100.
// Unknown methods charge nothing rather than erroring, matching how the
// dashboard treats methods that have no configured rate.
func GatewayCharge(amount float64, method string, rates map[string]float64) float64 {
	pct, ok := rates[method]
	if !ok {
		// rate keys are admin-entered; tolerate case drift
		for k, v := range rates {
			if strings.EqualFold(k, method) {
				pct = v
				ok = true
				break
			}
		}
	}
	if !ok {
		return 0
	}
	return amount * pct / 100
}

// ComputeRevenue rolls registrations up into gross, charges and net using
// the CURRENT rate table. Charges are computed for reporting, never stored
// as authoritative: changing a rate retroactively changes historical net.
func ComputeRevenue(regs []*Registration, rates map[string]float64) RevenueSummary {
	var s RevenueSummary
	s.TotalRegistrations = len(regs)

	for _, r := range regs {
		switch strings.ToLower(r.PaymentStatus) {
		case "paid", "done":
			s.PaidCount++
			s.GrossRevenue += r.GrossAmount
			s.GatewayCharges += GatewayCharge(r.GrossAmount, r.PaymentMethod, rates)
		case "pending":
			s.PendingCount++
		}
	}

	s.NetRevenue = s.GrossRevenue - s.GatewayCharges
	return s
}
