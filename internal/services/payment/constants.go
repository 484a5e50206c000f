package payment

// testPaymentMethods is the fixed set of provider test payment-method
// identifiers. Calls naming one of these are served by the deterministic
// simulator instead of the live provider.
var testPaymentMethods = map[string]struct{}{
	"pm_card_visa":                  {},
	"pm_card_mastercard":            {},
	"pm_card_amex":                  {},
	"pm_card_discover":              {},
	"pm_card_diners":                {},
	"pm_card_jcb":                   {},
	"pm_card_unionpay":              {},
	"pm_card_visa_debit":            {},
	"pm_card_mastercard_prepaid":    {},
	"pm_card_threeDSecure2Required": {},
	"pm_usBankAccount":              {},
	"pm_sepaDebit":                  {},
	"pm_bacsDebit":                  {},
	"pm_alipay":                     {},
	"pm_wechat":                     {},
}

// IsTestMethod reports whether the payment method id belongs to the fixed
// test set.
func IsTestMethod(methodRef string) bool {
	_, ok := testPaymentMethods[methodRef]
	return ok
}

// Prefixes used by the simulator so downstream records are recognizably
// synthetic.
const (
	simulatedIntentPrefix = "pi_simulated_"
	simulatedPayoutPrefix = "po_simulated_"
	simulatedSecretPrefix = "seti_simulated_"
)
