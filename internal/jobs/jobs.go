package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"hera-assistant/internal/model"
	"hera-assistant/internal/pubsub"
	"hera-assistant/internal/service"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	TaskNotificationSend = "notification:send"
	TaskReportGenerate   = "report:generate"
)

type notificationPayload struct {
	OrganizationID string         `json:"organizationId"`
	Message        string         `json:"message"`
	Priority       model.Priority `json:"priority"`
}

type reportPayload struct {
	OrganizationID string `json:"organizationId"`
	ReportType     string `json:"reportType"`
}

type JobServer struct {
	server *asynq.Server
	client *asynq.Client
	svc    *service.TransactionService
	bus    *pubsub.Bus
	log    *zap.Logger
}

func NewJobServer(redisAddr string, svc *service.TransactionService, bus *pubsub.Bus, log *zap.Logger) (*JobServer, *asynq.Client) {
	redisOpt := asynq.RedisClientOpt{Addr: redisAddr}

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	client := asynq.NewClient(redisOpt)

	return &JobServer{
		server: server,
		client: client,
		svc:    svc,
		bus:    bus,
		log:    log,
	}, client
}

func (js *JobServer) Start() error {
	mux := asynq.NewServeMux()

	// Register job handlers
	mux.HandleFunc(TaskNotificationSend, js.handleNotification)
	mux.HandleFunc(TaskReportGenerate, js.handleReport)

	return js.server.Start(mux)
}

func (js *JobServer) Stop() {
	js.server.Shutdown()
	js.client.Close()
}

// Job handlers

func (js *JobServer) handleNotification(ctx context.Context, t *asynq.Task) error {
	var p notificationPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to decode notification payload: %w", err)
	}

	_ = js.bus.PublishOrganization(p.OrganizationID, map[string]interface{}{
		"type":     "notification.sent",
		"message":  p.Message,
		"priority": string(p.Priority),
	})

	js.log.Info("Notification sent",
		zap.String("organization_id", p.OrganizationID),
		zap.String("priority", string(p.Priority)),
	)
	return nil
}

func (js *JobServer) handleReport(ctx context.Context, t *asynq.Task) error {
	var p reportPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to decode report payload: %w", err)
	}

	// Cash flow reports are answered synchronously by the reporting
	// executor; only the deferred report types reach this queue.
	data := map[string]interface{}{
		"reportType": p.ReportType,
		"status":     "generated",
	}

	tx, err := js.svc.CreateTransaction(ctx, p.OrganizationID, model.ActionGenerateReport, data)
	if err != nil {
		return fmt.Errorf("failed to record report: %w", err)
	}

	_ = js.bus.PublishOrganization(p.OrganizationID, map[string]interface{}{
		"type":          "report.ready",
		"reportType":    p.ReportType,
		"transactionId": tx.ID,
	})

	js.log.Info("Report generated",
		zap.String("organization_id", p.OrganizationID),
		zap.String("report_type", p.ReportType),
		zap.String("transaction_id", tx.ID),
	)
	return nil
}

// Enqueue helpers

// Client adapts an asynq client to the engine's notification and report
// scheduling needs.
type Client struct {
	client *asynq.Client
}

func NewClient(client *asynq.Client) *Client {
	return &Client{client: client}
}

func (c *Client) EnqueueNotification(organizationID, message string, priority model.Priority) error {
	payload, err := json.Marshal(notificationPayload{
		OrganizationID: organizationID,
		Message:        message,
		Priority:       priority,
	})
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskNotificationSend, payload)
	_, err = c.client.Enqueue(task, asynq.Queue(queueFor(priority)))
	return err
}

func (c *Client) EnqueueReport(organizationID, reportType string) error {
	payload, err := json.Marshal(reportPayload{
		OrganizationID: organizationID,
		ReportType:     reportType,
	})
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskReportGenerate, payload)
	_, err = c.client.Enqueue(task, asynq.Queue("low"))
	return err
}

func queueFor(priority model.Priority) string {
	switch priority {
	case model.PriorityUrgent:
		return "critical"
	case model.PriorityLow:
		return "low"
	default:
		return "default"
	}
}
