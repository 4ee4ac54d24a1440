package requests

import (
	"github.com/gin-gonic/gin"
	"github.com/thedevsaddam/govalidator"
)

// ContactRequest 联系表单
type ContactRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
}

// SubscribeRequest 订阅表单
type SubscribeRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ValidateContact 校验联系表单
func ValidateContact(c *gin.Context) (*ContactRequest, error) {
	rules := govalidator.MapData{
		"first_name": []string{"required", "max:60"},
		"last_name":  []string{"required", "max:60"},
		"email":      []string{"required", "email"},
		"subject":    []string{"required", "max:200"},
		"message":    []string{"required", "max:5000"},
	}
	messages := govalidator.MapData{
		"email": []string{
			"required:The email field is required",
			"email:Please enter a valid email address",
		},
	}
	return ValidateRequest[ContactRequest](c, rules, messages)
}

// ValidateSubscribe 校验订阅表单
func ValidateSubscribe(c *gin.Context) (*SubscribeRequest, error) {
	rules := govalidator.MapData{
		"name":  []string{"required", "max:120"},
		"email": []string{"required", "email"},
	}
	messages := govalidator.MapData{
		"email": []string{
			"required:The email field is required",
			"email:Please enter a valid email address",
		},
	}
	return ValidateRequest[SubscribeRequest](c, rules, messages)
}
