package main

import (
	"bytes"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/NathanaelEastwood/SheetAI-sub000/contracts"
	json "github.com/bytedance/sonic"
)

const WebhookWorkersCount = 5

const WebhookQueueSize = 20

type SheetWebhooks map[string]string

type WebhookSendCommand struct {
	Webhook string
	Cell    *contracts.Cell
}

// WebhookDispatcher pushes recomputed cells to the URLs subscribed to them
type WebhookDispatcher struct {
	queue    chan WebhookSendCommand
	webhooks map[string]SheetWebhooks
	client   *http.Client
	logger   *slog.Logger
	mutex    sync.RWMutex
	workers  sync.WaitGroup
	senders  sync.WaitGroup
	done     chan struct{}
	closed   bool
}

func NewWebhookDispatcher(logger *slog.Logger) *WebhookDispatcher {
	return &WebhookDispatcher{
		queue:    make(chan WebhookSendCommand, WebhookQueueSize),
		webhooks: map[string]SheetWebhooks{},
		client:   &http.Client{Timeout: time.Second * 5},
		logger:   logger,
		done:     make(chan struct{}),
	}
}

func (manager *WebhookDispatcher) SetWebhookUrl(canonicalSheetId string, canonicalCellId string, webhookUrl string) {
	manager.mutex.Lock()
	defer manager.mutex.Unlock()

	if _, ok := manager.webhooks[canonicalSheetId]; !ok {
		manager.webhooks[canonicalSheetId] = SheetWebhooks{}
	}

	if webhookUrl == "" {
		delete(manager.webhooks[canonicalSheetId], canonicalCellId)
	} else {
		manager.webhooks[canonicalSheetId][canonicalCellId] = webhookUrl
	}
}

func (manager *WebhookDispatcher) GetWebhookUrl(canonicalSheetId string, canonicalCellId string) string {
	manager.mutex.RLock()
	defer manager.mutex.RUnlock()

	return manager.webhooks[canonicalSheetId][canonicalCellId]
}

func (manager *WebhookDispatcher) Notify(canonicalSheetId string, cells []*contracts.Cell) {
	commands := manager.makeCommands(canonicalSheetId, cells)
	if len(commands) == 0 {
		return
	}

	go manager.addToQueue(commands)
}

func (manager *WebhookDispatcher) makeCommands(canonicalSheetId string, cells []*contracts.Cell) []WebhookSendCommand {
	manager.mutex.RLock()
	defer manager.mutex.RUnlock()

	sheetWebhooks, ok := manager.webhooks[canonicalSheetId]
	if !ok {
		return nil
	}

	commands := make([]WebhookSendCommand, 0, len(cells))
	for _, cell := range cells {
		if webhook, ok := sheetWebhooks[cell.Address]; ok {
			commands = append(commands, WebhookSendCommand{
				Webhook: webhook,
				Cell:    cell,
			})
		}
	}

	return commands
}

func (manager *WebhookDispatcher) addToQueue(commands []WebhookSendCommand) {
	manager.mutex.RLock()
	if manager.closed {
		manager.mutex.RUnlock()
		return
	}
	manager.senders.Add(1)
	manager.mutex.RUnlock()

	defer manager.senders.Done()

	for _, command := range commands {
		select {
		case manager.queue <- command:
		case <-manager.done:
			return
		}
	}
}

func (manager *WebhookDispatcher) Start() {
	for i := 0; i < WebhookWorkersCount; i++ {
		manager.workers.Add(1)
		go manager.runWebhookSenderWorker()
	}
}

// Close stops accepting notifications, drops the ones still waiting for a queue slot
// and waits until the queued ones are sent
func (manager *WebhookDispatcher) Close() {
	manager.mutex.Lock()
	if manager.closed {
		manager.mutex.Unlock()
		manager.workers.Wait()
		return
	}
	manager.closed = true
	close(manager.done)
	manager.mutex.Unlock()

	// queue is closed only once nobody can send to it
	manager.senders.Wait()
	close(manager.queue)

	manager.workers.Wait()
}

func (manager *WebhookDispatcher) runWebhookSenderWorker() {
	defer manager.workers.Done()

	for command := range manager.queue {
		manager.send(command)
	}
}

func (manager *WebhookDispatcher) send(command WebhookSendCommand) {
	payload, err := json.Marshal(command.Cell)
	if err != nil {
		manager.logger.Error("webhook payload", "cell", command.Cell.Address, "error", err)
		return
	}

	response, err := manager.client.Post(command.Webhook, "application/json", bytes.NewBuffer(payload))
	if err != nil {
		manager.logger.Warn("webhook send", "url", command.Webhook, "error", err)
		return
	}
	defer response.Body.Close()

	if response.StatusCode >= 300 {
		manager.logger.Warn("unexpected webhook response", "url", command.Webhook, "status", response.Status)
	}
}
