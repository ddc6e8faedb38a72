package uploads

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"formrelay/backend/internal/domain"
)

// Store 附件暂存目录。
// 目录在进程启动时创建一次，仅作为投递的中转缓冲：
// 每个落盘文件在所属请求的投递尝试结束后被无条件删除。
type Store struct {
	dir string
}

// NewStore 创建附件暂存存储，目录不存在时创建
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload dir must not be empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir 返回暂存目录路径
func (s *Store) Dir() string {
	return s.dir
}

// Save 将上传内容写入随机命名的暂存文件并返回附件引用。
// 落盘文件名由 uuid 派生，绝不使用用户提供的原始文件名：
// 原始文件名由攻击者控制且不保证唯一，仅作为展示元数据保留。
func (s *Store) Save(filename, contentType string, r io.Reader) (*domain.Attachment, error) {
	name := uuid.NewString() + safeExt(filename)
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload file: %w", err)
	}

	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("failed to write upload file: %w", err)
	}

	return &domain.Attachment{
		Filename:    filepath.Base(filename),
		ContentType: contentType,
		Size:        size,
		Path:        path,
	}, nil
}

// Remove 删除暂存文件。调用方记录并吞掉失败，绝不让清理错误
// 覆盖投递本身的结果。
func (s *Store) Remove(att *domain.Attachment) error {
	if att == nil || att.Path == "" {
		return nil
	}
	return os.Remove(att.Path)
}

// safeExt 提取原始文件名的扩展名用于落盘命名，过长或含路径成分时丢弃
func safeExt(filename string) string {
	ext := filepath.Ext(filepath.Base(filename))
	if len(ext) > 16 {
		return ""
	}
	return ext
}
