package domain

import (
	"fmt"
	"time"
)

// 表单类型标识
const (
	KindScrollContact     = "contact-scroll"
	KindContactPage       = "contact-page"
	KindChatbotLead       = "chatbot"
	KindCareerApplication = "career-apply"
)

// placeholder 可选字段缺失时在正文中渲染的占位符
const placeholder = "N/A"

// timestampLayout 提交时间的人类可读格式（跟随前端 toLocaleString 的习惯）
const timestampLayout = "1/2/2006, 3:04:05 PM"

// Submission 表示一次表单提交，是四种表单形状的统一抽象。
// 每种表单负责生成自己的邮件主题与纯文本正文；正文字段顺序固定，
// 缺失的可选字段渲染为占位符而不是被省略。
type Submission interface {
	// Kind 返回表单类型标识
	Kind() string
	// Subject 返回邮件主题
	Subject() string
	// Text 返回纯文本正文，now 为提交接收时间
	Text(now time.Time) string
	// ReplyTo 返回提交者邮箱（用于回信路由），可能为空
	ReplyTo() string
}

// ScrollContact 滚动区联系表单
type ScrollContact struct {
	Name         string
	Email        string
	Phone        string
	Company      string
	SubjectLine  string // 可选：调用方覆盖默认主题
	Message      string
}

func (s ScrollContact) Kind() string { return KindScrollContact }

// Subject 默认主题可被非空的 SubjectLine 覆盖
func (s ScrollContact) Subject() string {
	if s.SubjectLine != "" {
		return s.SubjectLine
	}
	return "New Contact (Scroll Section)"
}

func (s ScrollContact) Text(_ time.Time) string {
	return fmt.Sprintf(`📩 New Contact from ScrollContactSection

Name: %s
Email: %s
Phone: %s
Company: %s
Message: %s
`, s.Name, s.Email, s.Phone, s.Company, s.Message)
}

func (s ScrollContact) ReplyTo() string { return s.Email }

// ContactPage 联系页表单
type ContactPage struct {
	FirstName string
	LastName  string
	Email     string
	Country   string
	Message   string
}

func (c ContactPage) Kind() string    { return KindContactPage }
func (c ContactPage) Subject() string { return "New Contact (Contact Page)" }

func (c ContactPage) Text(_ time.Time) string {
	return fmt.Sprintf(`📩 New Contact from Contact Page

First Name: %s
Last Name: %s
Email: %s
Country: %s
Message: %s
`, c.FirstName, c.LastName, c.Email, c.Country, c.Message)
}

func (c ContactPage) ReplyTo() string { return c.Email }

// ChatbotLead 聊天机器人留资表单，所有字段均为可选
type ChatbotLead struct {
	Name     string
	Email    string
	Datetime string
	Topic    string
}

func (c ChatbotLead) Kind() string { return KindChatbotLead }

// Subject 主题携带话题，缺失时使用 "General"
func (c ChatbotLead) Subject() string {
	topic := c.Topic
	if topic == "" {
		topic = "General"
	}
	return "💬 New Chatbot Message - " + topic
}

func (c ChatbotLead) Text(now time.Time) string {
	return fmt.Sprintf(`💬 New Chatbot Lead

Name: %s
Email: %s
Preferred Time: %s
Topic: %s

Submitted: %s
`, orPlaceholder(c.Name), orPlaceholder(c.Email), orPlaceholder(c.Datetime),
		orPlaceholder(c.Topic), now.Format(timestampLayout))
}

func (c ChatbotLead) ReplyTo() string { return c.Email }

// CareerApplication 职位申请表单（唯一允许附件的表单）
type CareerApplication struct {
	FullName string
	Email    string
	Phone    string
	Message  string // 可选
	JobTitle string
}

func (a CareerApplication) Kind() string    { return KindCareerApplication }
func (a CareerApplication) Subject() string { return "🧑‍💼 New Job Application - " + a.JobTitle }

func (a CareerApplication) Text(now time.Time) string {
	return fmt.Sprintf(`📄 New Job Application

Job Title: %s
Name: %s
Email: %s
Phone: %s
Message: %s

Submitted: %s
`, a.JobTitle, a.FullName, a.Email, a.Phone,
		orPlaceholder(a.Message), now.Format(timestampLayout))
}

func (a CareerApplication) ReplyTo() string { return a.Email }

func orPlaceholder(v string) string {
	if v == "" {
		return placeholder
	}
	return v
}
