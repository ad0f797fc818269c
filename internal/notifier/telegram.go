package notifier

import (
	"fmt"
	"strings"
	"sync"

	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/evoapps/confeitaria-backend/pkg/logger"
	"github.com/evoapps/confeitaria-backend/pkg/util"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const queueSize = 100

// Sender is the part of the bot API the notifier needs
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts new orders and status changes to a staff chat.
// Messages are sent from a single goroutine so order handling never waits on Telegram.
type TelegramNotifier struct {
	bot    Sender
	chatID int64
	queue  chan string
	done   chan struct{}

	mu     sync.Mutex
	closed bool
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect telegram bot: %w", err)
	}
	logger.Info("Telegram bot connected", map[string]interface{}{
		"bot":     bot.Self.UserName,
		"chat_id": chatID,
	})
	return NewTelegramNotifierWithSender(bot, chatID), nil
}

func NewTelegramNotifierWithSender(bot Sender, chatID int64) *TelegramNotifier {
	n := &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
		queue:  make(chan string, queueSize),
		done:   make(chan struct{}),
	}
	go n.loop()
	return n
}

func (n *TelegramNotifier) loop() {
	defer close(n.done)
	for text := range n.queue {
		msg := tgbotapi.NewMessage(n.chatID, text)
		if _, err := n.bot.Send(msg); err != nil {
			logger.Error("Failed to send telegram message", err, map[string]interface{}{
				"chat_id": n.chatID,
			})
		}
	}
}

// enqueue never blocks. Events arriving after Close are dropped.
func (n *TelegramNotifier) enqueue(text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		logger.Warn("Telegram notifier closed, message dropped", map[string]interface{}{
			"chat_id": n.chatID,
		})
		return
	}
	select {
	case n.queue <- text:
	default:
		logger.Warn("Telegram queue full, message dropped", map[string]interface{}{
			"chat_id": n.chatID,
		})
	}
}

// Close flushes pending messages. Safe to call more than once.
func (n *TelegramNotifier) Close() {
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		close(n.queue)
	}
	n.mu.Unlock()
	<-n.done
}

func (n *TelegramNotifier) OrderCreated(order *model.Order) {
	n.enqueue(NewOrderMessage(order))
}

func (n *TelegramNotifier) OrderStatusChanged(order *model.Order, from model.OrderStatus) {
	n.enqueue(fmt.Sprintf("Pedido #%d: %s -> %s", order.ID, from.Label(), order.Status.Label()))
}

func NewOrderMessage(order *model.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Novo pedido #%d\n", order.ID)
	fmt.Fprintf(&b, "Cliente: %s\n", order.CustomerName)
	if order.CustomerPhone != "" {
		fmt.Fprintf(&b, "Telefone: %s\n", order.CustomerPhone)
	}
	if order.Type == model.OrderTypeDelivery {
		fmt.Fprintf(&b, "Entrega: %s\n", order.DeliveryAddress)
	}
	for _, item := range order.Items {
		fmt.Fprintf(&b, "%dx %s\n", item.Quantity, item.Name)
	}
	fmt.Fprintf(&b, "Total: %s", util.FormatBRL(order.Total))
	return b.String()
}

// Nop discards order events
type Nop struct{}

func (Nop) OrderCreated(*model.Order)                          {}
func (Nop) OrderStatusChanged(*model.Order, model.OrderStatus) {}
