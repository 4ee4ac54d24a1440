// Package upi 构造 UPI 付款链接、二维码及唤起候选列表
//
// UPI 的 upi://pay 协议由 NPCI 定义，这里只负责拼接。
// 金额和收款 VPA 原样透传，不做任何校验。
package upi

import (
	"fmt"
	"strings"
)

// Currency UPI 链接使用的币种
const Currency = "INR"

// PaymentData 构造付款链接所需的信息
type PaymentData struct {
	Handle string // 收款方 VPA，如 abc@upi
	Amount string // 金额字符串，原样透传
	Name   string // 收款方显示名称
	Note   string // 付款备注
}

// AppLink 指定 App 的唤起链接和网页回退
type AppLink struct {
	Name     string `json:"name"`
	Scheme   string `json:"scheme"`
	Fallback string `json:"fallback"`
}

// BuildURI 构造通用 upi://pay 链接
//
//	upi://pay?pa=<handle>&am=<amount>&tn=<note>&pn=<name>&cu=INR
func BuildURI(d PaymentData) string {
	return "upi://pay?" + d.query(true)
}

// WebURL 浏览器环境下的网页回退地址
func WebURL(d PaymentData) string {
	return "https://upiweb.in/pay?" + d.query(true)
}

// AppLinks 常见 UPI App 的专属 scheme，按优先级排列
func AppLinks(d PaymentData) []AppLink {
	q := d.query(false)
	note := EncodeComponent(d.Note)

	return []AppLink{
		{
			Name:     "PhonePe",
			Scheme:   "phonepe://pay?" + q,
			Fallback: fmt.Sprintf("https://phon.pe/ru_%s_%s_%s", d.Handle, d.Amount, note),
		},
		{
			Name:     "Google Pay",
			Scheme:   "tez://upi/pay?" + q,
			Fallback: "https://pay.google.com/gp/v/save/" + d.Handle,
		},
		{
			Name:     "Paytm",
			Scheme:   "paytmmp://pay?" + q,
			Fallback: fmt.Sprintf("https://paytm.me/pay?pa=%s&am=%s", d.Handle, d.Amount),
		},
		{
			Name:     "BHIM",
			Scheme:   "bhim://pay?" + q,
			Fallback: BuildURI(d),
		},
	}
}

// UniversalLinks iOS universal links
func UniversalLinks(d PaymentData) []string {
	return []string{
		fmt.Sprintf("https://phonepe.com/pay?pa=%s&am=%s&tn=%s", d.Handle, d.Amount, EncodeComponent(d.Note)),
		fmt.Sprintf("https://pay.google.com/gp/v/save/%s?amount=%s", d.Handle, d.Amount),
		fmt.Sprintf("https://paytm.me/pay?pa=%s&am=%s", d.Handle, d.Amount),
	}
}

// query 拼接公共查询参数，withCurrency 控制是否追加 cu=INR
func (d PaymentData) query(withCurrency bool) string {
	q := fmt.Sprintf("pa=%s&am=%s&tn=%s&pn=%s",
		d.Handle,
		d.Amount,
		EncodeComponent(d.Note),
		EncodeComponent(d.Name),
	)
	if withCurrency {
		q += "&cu=" + Currency
	}
	return q
}

// EncodeComponent 按 encodeURIComponent 规则编码：
// 保留 A-Z a-z 0-9 - _ . ! ~ * ' ( )，其余字节编码为 %XX，空格编码为 %20。
func EncodeComponent(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0F])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
