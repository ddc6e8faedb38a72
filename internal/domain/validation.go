package domain

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
)

// 验证相关的错误定义
var (
	ErrInvalidEmail  = errors.New("invalid email format")
	ErrEmailTooLong  = errors.New("email address too long")
	ErrEmailRequired = errors.New("email is required")
	ErrFieldRequired = errors.New("required field missing")
)

// RFC 5322 邮箱地址长度限制
const MaxEmailLength = 254

// 域名验证（支持子域名）
var emailDomainRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,61}[a-zA-Z0-9]?(\.[a-zA-Z0-9][a-zA-Z0-9-]{0,61}[a-zA-Z0-9]?)+$`)

// ValidateEmail 验证邮箱地址格式。
// 仅在严格校验模式下使用；默认的宽松模式不做任何字段校验。
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmailRequired
	}
	if len(email) > MaxEmailLength {
		return ErrEmailTooLong
	}

	// 使用标准库进行基础格式验证
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}

	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return ErrInvalidEmail
	}
	if !emailDomainRegex.MatchString(email[at+1:]) {
		return ErrInvalidEmail
	}
	return nil
}

// Validate 严格模式下检查提交内容：必填字段存在且邮箱格式合法。
// 宽松模式（默认）下不会被调用，缺失字段在正文中渲染为占位符。
func Validate(sub Submission) error {
	switch s := sub.(type) {
	case ScrollContact:
		if s.Name == "" || s.Message == "" {
			return ErrFieldRequired
		}
		return ValidateEmail(s.Email)
	case ContactPage:
		if s.FirstName == "" || s.LastName == "" || s.Message == "" {
			return ErrFieldRequired
		}
		return ValidateEmail(s.Email)
	case CareerApplication:
		if s.FullName == "" || s.JobTitle == "" {
			return ErrFieldRequired
		}
		return ValidateEmail(s.Email)
	case ChatbotLead:
		// 聊天机器人表单全部字段可选，仅校验给出的邮箱
		if s.Email != "" {
			return ValidateEmail(s.Email)
		}
		return nil
	default:
		return nil
	}
}
