package checkout

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// NoticeSink получает пользовательские уведомления формы (аналог toast).
type NoticeSink interface {
	Success(message, description string)
	Error(message string)
}

// Navigator выполняет переход на следующий экран после успешного заказа.
type Navigator interface {
	GoTo(route string)
}

// LogNotices пишет уведомления в лог; используется в CLI и по умолчанию.
type LogNotices struct {
	logger *log.Entry
}

// NewLogNotices создаёт лог-реализацию NoticeSink.
func NewLogNotices(logger *log.Entry) *LogNotices {
	if logger == nil {
		logger = log.WithField("component", "notices")
	}
	return &LogNotices{logger: logger}
}

func (n *LogNotices) Success(message, description string) {
	n.logger.WithField("description", description).Info(message)
}

func (n *LogNotices) Error(message string) {
	n.logger.Warn(message)
}

type nopNavigator struct{}

func (nopNavigator) GoTo(string) {}

// MemoryReceipts хранит последний заказ в памяти.
type MemoryReceipts struct {
	mu   sync.Mutex
	last *Receipt
}

// NewMemoryReceipts создаёт in-memory хранилище чека.
func NewMemoryReceipts() *MemoryReceipts {
	return &MemoryReceipts{}
}

func (r *MemoryReceipts) SaveLastOrder(receipt Receipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = &receipt
	return nil
}

// LastOrder возвращает последний сохранённый чек или nil.
func (r *MemoryReceipts) LastOrder() *Receipt {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil {
		return nil
	}
	copied := *r.last
	return &copied
}

var (
	_ NoticeSink   = (*LogNotices)(nil)
	_ ReceiptStore = (*MemoryReceipts)(nil)
)
