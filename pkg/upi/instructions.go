package upi

import "fmt"

// ManualInstructions 所有唤起方式失败后展示给用户的手动付款说明
func ManualInstructions(d PaymentData) string {
	return fmt.Sprintf(`Payment Instructions:

UPI ID: %[1]s
Amount: ₹%[2]s
Reference: %[3]s

Steps:
1. Open any UPI app (PhonePe, Paytm, Google Pay, BHIM, etc.)
2. Send ₹%[2]s to UPI ID: %[1]s
3. Add reference: %[3]s
4. Complete the payment
5. Keep the transaction screenshot for your records

Note: Payment confirmation may take a few minutes to reflect.
`, d.Handle, d.Amount, d.Note)
}

// RegistrationNote 报名付款备注
func RegistrationNote(eventName, fullName string) string {
	if fullName == "" {
		return "Registration for " + eventName
	}
	return fmt.Sprintf("Registration for %s - %s", eventName, fullName)
}
