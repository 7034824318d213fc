// internal/smtp/inbox.go
// SMTP Sink 收件匣 - 保留最近收到的郵件

package smtp

import (
	"sync"

	"gmail-sender/internal/models"
)

// Inbox 固定容量的記憶體收件匣，滿了會丟棄最舊的郵件
type Inbox struct {
	mu       sync.RWMutex
	capacity int
	mails    []models.ReceivedMail
}

// NewInbox 建立收件匣
func NewInbox(capacity int) *Inbox {
	if capacity <= 0 {
		capacity = 1
	}
	return &Inbox{
		capacity: capacity,
		mails:    make([]models.ReceivedMail, 0, capacity),
	}
}

// Add 加入郵件
func (i *Inbox) Add(mail models.ReceivedMail) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if len(i.mails) == i.capacity {
		copy(i.mails, i.mails[1:])
		i.mails = i.mails[:len(i.mails)-1]
	}
	i.mails = append(i.mails, mail)
}

// List 回傳所有郵件 (由舊到新)
func (i *Inbox) List() []models.ReceivedMail {
	i.mu.RLock()
	defer i.mu.RUnlock()

	out := make([]models.ReceivedMail, len(i.mails))
	copy(out, i.mails)
	return out
}

// Latest 回傳最新一封郵件
func (i *Inbox) Latest() (models.ReceivedMail, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if len(i.mails) == 0 {
		return models.ReceivedMail{}, false
	}
	return i.mails[len(i.mails)-1], true
}

// Len 目前郵件數量
func (i *Inbox) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.mails)
}
