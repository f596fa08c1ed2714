package main

import (
	"bytes"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/LancasterAlexUofU/sheet/contracts"
	json "github.com/bytedance/sonic"
)

const WebhookQueueSize = 20

const webhookTimeout = time.Second * 5

type SheetWebhooks map[string]string

type WebhookSendCommand struct {
	Webhook string
	Cell    *contracts.Cell
}

// WebhookDispatcher posts every recalculated cell that has a subscription to
// its webhook URL. Deliveries run on a fixed pool of workers.
type WebhookDispatcher struct {
	queue        chan WebhookSendCommand
	webhooks     map[string]SheetWebhooks
	workersCount int
	client       *http.Client
	logger       *slog.Logger
	mutex        sync.RWMutex
	workers      sync.WaitGroup
	done         chan struct{}
	closeOnce    sync.Once
}

func NewWebhookDispatcher(workersCount int, logger *slog.Logger) *WebhookDispatcher {
	return &WebhookDispatcher{
		queue:        make(chan WebhookSendCommand, WebhookQueueSize),
		done:         make(chan struct{}),
		webhooks:     map[string]SheetWebhooks{},
		workersCount: workersCount,
		client:       &http.Client{Timeout: webhookTimeout},
		logger:       logger,
	}
}

func (manager *WebhookDispatcher) SetWebhookUrl(sheetId string, cellName string, webhookUrl string) {
	manager.mutex.Lock()
	defer manager.mutex.Unlock()

	if _, ok := manager.webhooks[sheetId]; !ok {
		manager.webhooks[sheetId] = SheetWebhooks{}
	}

	if webhookUrl == "" {
		delete(manager.webhooks[sheetId], cellName)
	} else {
		manager.webhooks[sheetId][cellName] = webhookUrl
	}
}

func (manager *WebhookDispatcher) GetWebhookUrl(sheetId string, cellName string) string {
	manager.mutex.RLock()
	defer manager.mutex.RUnlock()

	return manager.webhooks[sheetId][cellName]
}

func (manager *WebhookDispatcher) Notify(sheetId string, cells []*contracts.Cell) {
	manager.mutex.RLock()
	_, ok := manager.webhooks[sheetId]
	manager.mutex.RUnlock()

	if ok {
		go manager.addToQueue(sheetId, cells)
	}
}

func (manager *WebhookDispatcher) addToQueue(sheetId string, cells []*contracts.Cell) {
	manager.mutex.RLock()
	commands := make([]WebhookSendCommand, 0, len(cells))
	for _, cell := range cells {
		if webhook, ok := manager.webhooks[sheetId][cell.Name]; ok {
			commands = append(commands, WebhookSendCommand{
				Webhook: webhook,
				Cell:    cell,
			})
		}
	}
	manager.mutex.RUnlock()

	for _, command := range commands {
		select {
		case <-manager.done:
			return
		default:
		}

		select {
		case manager.queue <- command:
		case <-manager.done:
			return
		}
	}
}

func (manager *WebhookDispatcher) Start() {
	for i := 0; i < manager.workersCount; i++ {
		manager.workers.Add(1)
		go manager.runWebhookSenderWorker()
	}
}

// Close stops accepting notifications and waits for queued deliveries.
func (manager *WebhookDispatcher) Close() {
	manager.closeOnce.Do(func() {
		close(manager.done)
	})

	manager.workers.Wait()
}

func (manager *WebhookDispatcher) runWebhookSenderWorker() {
	defer manager.workers.Done()

	for {
		select {
		case command := <-manager.queue:
			manager.send(command)
		case <-manager.done:
			manager.drainQueue()
			return
		}
	}
}

func (manager *WebhookDispatcher) drainQueue() {
	for {
		select {
		case command := <-manager.queue:
			manager.send(command)
		default:
			return
		}
	}
}

func (manager *WebhookDispatcher) send(command WebhookSendCommand) {
	payload, err := json.Marshal(command.Cell)
	if err != nil {
		webhookDeliveriesTotal.WithLabelValues("error").Inc()
		manager.logger.Warn("webhook payload", "cell", command.Cell.Name, "error", err)
		return
	}

	response, err := manager.client.Post(command.Webhook, "application/json", bytes.NewReader(payload))
	if err != nil {
		webhookDeliveriesTotal.WithLabelValues("error").Inc()
		manager.logger.Warn("webhook send error", "url", command.Webhook, "cell", command.Cell.Name, "error", err)
		return
	}
	_ = response.Body.Close()

	if response.StatusCode >= 300 {
		webhookDeliveriesTotal.WithLabelValues("rejected").Inc()
		manager.logger.Warn("unexpected webhook response", "url", command.Webhook, "status", response.Status)
		return
	}

	webhookDeliveriesTotal.WithLabelValues("ok").Inc()
}
