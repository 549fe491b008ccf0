package mail

import "fmt"

// OTPBody 密码重置验证码正文
func OTPBody(code string) (subject, body string) {
	subject = "Password Reset OTP"
	body = fmt.Sprintf("Your OTP for password reset is: <b>%s</b>. It expires in 10 minutes.", code)
	return
}

// InquiryBody 客户联系房东的站内询盘
func InquiryBody(ownerName, listingName, customerName, customerEmail, message string) (subject, body string) {
	subject = fmt.Sprintf("[SaharaEstate] Inquiry about your property: %s", listingName)
	body = fmt.Sprintf(`<p>Hello %s,</p>
<p>You have received a new inquiry about your property, "%s".</p>
<hr>
<p><strong>From:</strong> %s (%s)</p>
<p><strong>Message:</strong></p>
<p>%s</p>
<hr>
<p>You can reply directly to %s to respond to this inquiry.</p>
<p>Thank you for using SaharaEstate.</p>`,
		ownerName, listingName, customerName, customerEmail, message, customerEmail)
	return
}

// ListingMessageBody 针对某条房源的直发消息
func ListingMessageBody(listingID, message string) (subject, body string) {
	subject = fmt.Sprintf("New message regarding your listing %s", listingID)
	body = fmt.Sprintf("<p>%s</p>", message)
	return
}
