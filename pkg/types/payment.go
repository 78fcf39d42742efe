package types

type PaymentProvider string

const (
	PaymentProviderMercadoPago PaymentProvider = "mercadopago"
)

type PaymentStatus string

const (
	PaymentStatusPending       PaymentStatus = "PENDING"
	PaymentStatusPaid          PaymentStatus = "PAID"
	PaymentStatusCancelled     PaymentStatus = "CANCELLED"
	PaymentStatusRefunded      PaymentStatus = "REFUNDED"
	PaymentStatusNotApplicable PaymentStatus = "NOT_APPLICABLE"
)

// PaymentStatusFromProvider maps a Mercado Pago payment status onto the
// internal enum. Unknown provider statuses stay PENDING so the pipeline is
// never blocked by an unrecognized state; callers log the raw status.
func PaymentStatusFromProvider(providerStatus string) PaymentStatus {
	switch providerStatus {
	case "approved":
		return PaymentStatusPaid
	case "rejected", "cancelled":
		return PaymentStatusCancelled
	default:
		return PaymentStatusPending
	}
}
