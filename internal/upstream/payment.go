package upstream

import "context"

const paymentsBase = "/api/payments/analytics/instructor"

type PaymentClient struct {
	c Client
}

func NewPaymentClient(c Client) *PaymentClient { return &PaymentClient{c: c} }

func (p *PaymentClient) RevenueBreakdown(ctx context.Context) Result[[]CourseRevenue] {
	return GetJSON[[]CourseRevenue](ctx, p.c, paymentsBase+"/revenue-breakdown")
}

func (p *PaymentClient) Financials(ctx context.Context) Result[Financials] {
	return GetJSON[Financials](ctx, p.c, paymentsBase+"/financials")
}
