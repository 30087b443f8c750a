// Package relay provides the chat relay server: it forwards browser messages to
// the conversation service and enriches city replies with a weather forecast.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/papercomputeco/weatherrelay/pkg/conversation"
)

// workspaceSetupMessage is shown in the chat UI until a workspace is configured.
const workspaceSetupMessage = "The app has not been configured with a <b>WORKSPACE_ID</b> environment variable. Please refer to the " +
	"<a href=\"https://github.com/watson-developer-cloud/conversation-simple\">README</a> documentation on how to set this variable. <br>" +
	"Once a workspace has been defined the intents may be imported from " +
	"<a href=\"https://github.com/watson-developer-cloud/conversation-simple/blob/master/training/car_workspace.json\">here</a> in order to get a working application."

const requestIDKey = "requestid"

// Messenger sends one user turn to the conversation service.
type Messenger interface {
	Message(ctx context.Context, payload conversation.Payload) (*conversation.MessageResponse, error)
}

// Relay is the HTTP server between the chat UI and the conversation and
// weather services. It keeps no state across requests.
type Relay struct {
	config    Config
	messenger Messenger
	enricher  *Enricher
	logger    *zap.Logger
	server    *fiber.App
}

// New creates a new Relay.
func New(config Config, messenger Messenger, forecaster Forecaster, logger *zap.Logger) (*Relay, error) {
	if messenger == nil {
		return nil, errors.New("conversation messenger is required")
	}
	if forecaster == nil {
		return nil, errors.New("forecaster is required")
	}

	app := fiber.New(fiber.Config{
		// Disable startup message for cleaner logs
		DisableStartupMessage: true,
	})

	r := &Relay{
		config:    config,
		messenger: messenger,
		enricher:  NewEnricher(forecaster, logger),
		logger:    logger,
		server:    app,
	}

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator:  uuid.NewString,
		ContextKey: requestIDKey,
	}))

	app.Post("/api/message", r.handleMessage)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(map[string]string{"status": "ok"})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	if config.StaticDir != "" {
		app.Static("/", config.StaticDir)
		logger.Info("serving static UI", zap.String("dir", config.StaticDir))
	}

	return r, nil
}

// App exposes the underlying fiber app, mainly for tests.
func (r *Relay) App() *fiber.App {
	return r.server
}

// Run starts the relay on the configured listening address.
func (r *Relay) Run() error {
	r.logger.Info("starting relay server",
		zap.String("listen", r.config.ListenAddr),
		zap.Bool("workspace_configured", r.config.workspaceConfigured()),
	)

	return r.server.Listen(r.config.ListenAddr)
}

// RunWithListener serves on an existing listener.
func (r *Relay) RunWithListener(ln net.Listener) error {
	r.logger.Info("starting relay server", zap.String("listen", ln.Addr().String()))
	return r.server.Listener(ln)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (r *Relay) Shutdown() error {
	return r.server.Shutdown()
}

// handleMessage relays one chat turn. A missing workspace is answered with
// setup instructions; upstream failures are passed back with their status
// and body; successful replies go through the Enricher.
func (r *Relay) handleMessage(c *fiber.Ctx) error {
	startTime := time.Now()

	requestID, _ := c.Locals(requestIDKey).(string)
	log := r.logger.With(zap.String("request_id", requestID))

	if !r.config.workspaceConfigured() {
		log.Warn("workspace not configured, returning setup instructions")
		messagesTotal.WithLabelValues(outcomeUnconfigured).Inc()
		return c.JSON(conversation.ConfigErrorResponse{
			Output: conversation.ConfigErrorOutput{Text: workspaceSetupMessage},
		})
	}

	var req conversation.ChatRequest
	if body := bytes.TrimSpace(c.Body()); len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			log.Error("failed to parse request", zap.Error(err))
			messagesTotal.WithLabelValues(outcomeBadRequest).Inc()
			return c.Status(fiber.StatusBadRequest).JSON(conversation.ErrorResponse{Error: "invalid request body"})
		}
	}

	payload := conversation.NewPayload(r.config.WorkspaceID, req)

	log.Debug("received message",
		zap.String("input_preview", truncate(inputText(payload.Input), 100)),
		zap.Int("context_keys", len(payload.Context)),
	)

	ctx := c.UserContext()

	upstreamStart := time.Now()
	resp, err := r.messenger.Message(ctx, payload)
	observeUpstream(serviceConversation, upstreamStart, err)
	if err != nil {
		messagesTotal.WithLabelValues(outcomeUpstream).Inc()

		var apiErr *conversation.APIError
		if errors.As(err, &apiErr) {
			log.Error("conversation service returned error",
				zap.Int("status", apiErr.StatusCode()),
				zap.Error(err),
			)
			return c.Status(apiErr.StatusCode()).JSON(apiErr.Document())
		}

		log.Error("failed to call conversation service", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(conversation.ErrorResponse{Error: err.Error()})
	}

	log.Debug("received reply from conversation service",
		zap.Int("entity_count", len(resp.Entities)),
		zap.Bool("has_output", resp.Output != nil),
		zap.Duration("duration", time.Since(upstreamStart)),
	)

	resp = r.enricher.Enrich(ctx, payload, resp)

	messagesTotal.WithLabelValues(outcomeOK).Inc()
	log.Info("message relayed", zap.Duration("duration", time.Since(startTime)))

	return c.JSON(resp)
}

// inputText returns the user text of a message input, if any.
func inputText(input map[string]any) string {
	text, _ := input["text"].(string)
	return text
}

func truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
