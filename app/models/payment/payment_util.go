package payment

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// Method 支付方式
type Method string

const (
	MethodUPI Method = "upi" // UPI 扫码或跳转
)

// JSON 自定义JSON类型
type JSON map[string]interface{}

// Value 实现 driver.Valuer 接口
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan 实现 sql.Scanner 接口
func (j *JSON) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*j = make(JSON)
		return nil
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return errors.New("invalid scan source")
	}
}

// MissingFields 返回缺失的必填字段
func (p *Payment) MissingFields() []string {
	var missing []string
	if p.OrderID == "" {
		missing = append(missing, "order_id")
	}
	if p.TransactionID == "" {
		missing = append(missing, "transaction_id")
	}
	if p.Amount == 0 {
		missing = append(missing, "amount")
	}
	if p.Method == "" {
		missing = append(missing, "method")
	}
	return missing
}

// IsVerified 检查付款是否已核验
func (p *Payment) IsVerified() bool {
	return p.Verified
}
