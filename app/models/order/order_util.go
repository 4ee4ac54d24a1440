package order

import "strings"

// MissingFields 返回缺失的必填字段（按 JSON 字段名）
func (o *Order) MissingFields() []string {
	required := []struct {
		name  string
		value string
	}{
		{"email", o.Email},
		{"method", o.Method},
		{"full_name", o.FullName},
		{"ph_no", o.Phone},
		{"year", o.Year},
		{"roll_no", o.RollNo},
		{"branch", o.Branch},
	}

	var missing []string
	if o.Amount == 0 {
		missing = append(missing, "amount")
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// IsConfirmed 检查订单是否已确认
func (o *Order) IsConfirmed() bool {
	return o.Confirmed
}
