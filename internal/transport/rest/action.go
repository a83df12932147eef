package rest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/taskboard-backend/internal/action"
)

// MaxActionBody caps the request body of an action invocation.
const MaxActionBody = 1 << 20

type actionLookup interface {
	Lookup(name string) (action.Runner, bool)
	Names() []string
}

type unknownActionResponse struct {
	Error   string   `json:"error"`
	Actions []string `json:"actions"`
}

// ActionHandler serves POST /api/actions/{name}. Every structured result,
// including field and business errors, is returned with status 200.
type ActionHandler struct {
	actions actionLookup
	log     *slog.Logger
}

// NewActionHandler creates an ActionHandler.
func NewActionHandler(actions actionLookup, logger *slog.Logger) *ActionHandler {
	return &ActionHandler{actions: actions, log: logger.With("handler", "action")}
}

// ServeHTTP runs the named action against the raw request body.
func (h *ActionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	runner, ok := h.actions.Lookup(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, unknownActionResponse{
			Error:   "Unknown action",
			Actions: h.actions.Names(),
		})
		return
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxActionBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		h.log.WarnContext(r.Context(), "read action body",
			slog.String("action", name),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	writeJSON(w, http.StatusOK, h.run(r.Context(), runner, raw))
}

func (h *ActionHandler) run(ctx context.Context, runner action.Runner, raw []byte) action.Outcome {
	out := runner.Run(ctx, raw)
	h.log.DebugContext(ctx, "action completed",
		slog.String("action", runner.Name()),
		slog.String("kind", string(out.Kind())),
	)
	return out
}
