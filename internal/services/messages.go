package services

import "fmt"

// User-facing reply texts. The channel serves Thai-speaking
// subscribers, matching the deployed LINE channel.
const (
	msgAlreadyProcessed = "ข้อความนี้ได้รับการประมวลผลไปแล้ว"
	msgNoConfig         = "ไม่พบการตั้งค่าการชำระเงินของคุณ กรุณาติดต่อผู้ดูแลระบบ"
	msgVerifyFailed     = "ไม่สามารถตรวจสอบสลิปได้ กรุณาลองใหม่อีกครั้งภายหลัง"
	msgGenericError     = "เกิดข้อผิดพลาดในการประมวลผล กรุณาลองใหม่อีกครั้ง"
)

func msgPaymentAccepted(amount float64) string {
	return fmt.Sprintf("✅ ตรวจสอบสลิปสำเร็จ ยอดชำระ %.2f THB ระบบเปิดใช้งานแล้ว", amount)
}

func msgPaymentInsufficient(amount, required float64) string {
	return fmt.Sprintf("❌ ยอดชำระ %.2f THB ไม่ถึงยอดที่ต้องชำระ %.2f THB กรุณาชำระส่วนที่เหลือ", amount, required)
}
