package httptransport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/nelsonjchen/vouch-or-out-discord-bot/internal/discord"
	"github.com/nelsonjchen/vouch-or-out-discord-bot/internal/vouch"
	"github.com/nelsonjchen/vouch-or-out-discord-bot/pkg/domain"
	derrors "github.com/nelsonjchen/vouch-or-out-discord-bot/pkg/domain-errors"
	"github.com/nelsonjchen/vouch-or-out-discord-bot/pkg/platform/httputil"
	"github.com/nelsonjchen/vouch-or-out-discord-bot/pkg/requestcontext"
)

// maxBodyBytes bounds interaction payloads; Discord interactions are small.
const maxBodyBytes = 1 << 20

// HealthFunc probes the storage backend. A nil func means the backend has no
// external dependency to check.
type HealthFunc func(ctx context.Context) error

// WebhookHandler receives Discord interaction webhooks and dispatches slash
// commands to the vouch service.
type WebhookHandler struct {
	service  *vouch.Service
	verifier *discord.Verifier // nil when signature checks are skipped
	appID    string
	health   HealthFunc
	logger   *slog.Logger
}

// NewWebhookHandler constructs the webhook handler. A nil verifier disables
// signature verification (local development only).
func NewWebhookHandler(service *vouch.Service, verifier *discord.Verifier, appID string, health HealthFunc, logger *slog.Logger) *WebhookHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebhookHandler{
		service:  service,
		verifier: verifier,
		appID:    appID,
		health:   health,
		logger:   logger,
	}
}

// HandleHello is a simple page to verify the bot is reachable.
func (h *WebhookHandler) HandleHello(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "👋 Hi, I'm %s", h.appID)
}

// HandleHealth reports readiness, including the storage backend when one is
// configured.
func (h *WebhookHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health(r.Context()); err != nil {
			h.logger.ErrorContext(r.Context(), "health check failed",
				"request_id", requestcontext.RequestID(r.Context()),
				"error", err,
			)
			httputil.WriteError(w, derrors.Wrap(err, derrors.CodeUnavailable, "storage unreachable"))
			return
		}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleInteraction is the main route for everything Discord sends:
// signature gate, PING handshake, then command dispatch.
func (h *WebhookHandler) HandleInteraction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		httputil.WriteError(w, derrors.New(derrors.CodeBadRequest, "unreadable request body"))
		return
	}

	if h.verifier != nil {
		sig := r.Header.Get(discord.HeaderSignature)
		ts := r.Header.Get(discord.HeaderTimestamp)
		if sig == "" || ts == "" || !h.verifier.Verify(sig, ts, body) {
			httputil.WriteError(w, derrors.New(derrors.CodeUnauthorized, "bad request signature"))
			return
		}
	}

	var interaction discord.Interaction
	if err := json.Unmarshal(body, &interaction); err != nil {
		httputil.WriteError(w, derrors.New(derrors.CodeBadRequest, "invalid interaction payload"))
		return
	}

	switch interaction.Type {
	case discord.InteractionTypePing:
		httputil.WriteJSON(w, http.StatusOK, discord.Pong())

	case discord.InteractionTypeApplicationCommand:
		h.dispatchCommand(w, r, interaction)

	default:
		h.logger.WarnContext(ctx, "unknown interaction type",
			"request_id", requestcontext.RequestID(ctx),
			"type", interaction.Type,
		)
		httputil.WriteError(w, derrors.New(derrors.CodeBadRequest, "unknown interaction type"))
	}
}

func (h *WebhookHandler) dispatchCommand(w http.ResponseWriter, r *http.Request, interaction discord.Interaction) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	guildID, err := domain.ParseGuildID(interaction.GuildID)
	if err != nil {
		httputil.WriteError(w, derrors.New(derrors.CodeBadRequest, "missing guild id"))
		return
	}
	if interaction.Member == nil {
		httputil.WriteError(w, derrors.New(derrors.CodeBadRequest, "missing invoking member"))
		return
	}
	requesterID, err := domain.ParseUserID(interaction.Member.User.ID)
	if err != nil {
		httputil.WriteError(w, derrors.New(derrors.CodeBadRequest, "missing invoking user"))
		return
	}

	switch interaction.Data.Name {
	case discord.CommandVouch:
		targetID, err := domain.ParseUserID(interaction.Data.OptionString(discord.OptionUser))
		if err != nil {
			httputil.WriteError(w, derrors.New(derrors.CodeInvalidInput, "invalid user option"))
			return
		}
		outcome := h.service.HandleVouch(ctx, vouch.VouchRequest{
			GuildID:     guildID,
			RequesterID: requesterID,
			TargetID:    targetID,
			Reason:      interaction.Data.OptionString(discord.OptionReason),
		})
		httputil.WriteJSON(w, http.StatusOK, discord.RenderVouchOutcome(outcome, targetID, h.service.Threshold()))

	case discord.CommandUnvouch:
		targetID, err := domain.ParseUserID(interaction.Data.OptionString(discord.OptionUser))
		if err != nil {
			httputil.WriteError(w, derrors.New(derrors.CodeInvalidInput, "invalid user option"))
			return
		}
		_, removed, err := h.service.HandleRetract(ctx, guildID, requesterID, targetID)
		if err != nil {
			h.logger.ErrorContext(ctx, "retract failed", "request_id", requestID, "error", err)
			httputil.WriteJSON(w, http.StatusOK, discord.EphemeralMessage(
				"I'm sorry, I couldn't do that right now. Please try again later."))
			return
		}
		httputil.WriteJSON(w, http.StatusOK, discord.RenderRetract(removed, targetID))

	case discord.CommandVouches:
		targetID, err := domain.ParseUserID(interaction.Data.OptionString(discord.OptionUser))
		if err != nil {
			httputil.WriteError(w, derrors.New(derrors.CodeInvalidInput, "invalid user option"))
			return
		}
		set, err := h.service.HandleList(ctx, guildID, targetID)
		if err != nil {
			h.logger.ErrorContext(ctx, "list failed", "request_id", requestID, "error", err)
			httputil.WriteJSON(w, http.StatusOK, discord.EphemeralMessage(
				"I'm sorry, I couldn't do that right now. Please try again later."))
			return
		}
		httputil.WriteJSON(w, http.StatusOK, discord.RenderVouchList(set, targetID))

	default:
		h.logger.WarnContext(ctx, "unknown command",
			"request_id", requestID,
			"command", interaction.Data.Name,
		)
		httputil.WriteError(w, derrors.New(derrors.CodeBadRequest, "unknown command"))
	}
}
