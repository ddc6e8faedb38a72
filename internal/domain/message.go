package domain

// Attachment 表示一次上传的附件引用。
// Filename 是用户提供的原始文件名（不可信，仅作展示），
// Path 指向进程级临时目录中随机命名的暂存文件。
type Attachment struct {
	Filename    string `json:"filename"`    // 原始文件名
	ContentType string `json:"contentType"` // MIME类型
	Size        int64  `json:"size"`        // 大小（字节）
	Path        string `json:"-"`           // 暂存文件路径
}

// OutboundMessage 表示一封待投递的邮件。
// 每次请求从 Submission 全新构造，从不持久化或复用。
type OutboundMessage struct {
	From       string   // 固定的发件人地址（来自配置）
	To         []string // 收件人列表（配置中逗号分隔，已规范化）
	ReplyTo    string   // 回信地址（提交者邮箱），可能为空
	Subject    string
	Text       string      // 纯文本正文
	HTML       string      // HTML 正文（当前表单均不生成）
	Attachment *Attachment // 零或一个附件
}
