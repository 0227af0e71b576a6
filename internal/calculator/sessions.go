package calculator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-chi-calculator/internal/engine"
	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/keypad"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/session"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Sessions serves stateful calculators. Each session owns a keypad and the
// engine behind it, so "5 + 3 = =" behaves as it would on a device.
type Sessions struct {
	store *session.Store
}

// NewSessions returns handlers backed by store.
func NewSessions(store *session.Store) *Sessions {
	return &Sessions{store: store}
}

// sessionCall bundles the per-request observability handles.
type sessionCall struct {
	ctx       context.Context
	span      trace.Span
	logger    *zap.Logger
	requestID string
	opName    string
	w         http.ResponseWriter
}

func (h *Sessions) begin(w http.ResponseWriter, r *http.Request, opName string) *sessionCall {
	ctx := r.Context()
	requestID := observability.RequestIDFromContext(ctx)

	attrs := []attribute.KeyValue{
		attribute.String("calculator.operation", opName),
		attribute.String("request.id", requestID),
	}
	if id := chi.URLParam(r, "id"); id != "" {
		attrs = append(attrs, attribute.String("calculator.session.id", id))
	}

	ctx, span := tracer.Start(ctx, fmt.Sprintf("calculator.%s", opName), trace.WithAttributes(attrs...))

	return &sessionCall{
		ctx:       ctx,
		span:      span,
		logger:    observability.LoggerWithTrace(ctx),
		requestID: requestID,
		opName:    opName,
		w:         w,
	}
}

func (c *sessionCall) fail(err error) {
	status, msg := errorStatus(err)
	observability.RecordError(c.ctx, c.span, c.logger, errorCounter, c.opName, msg, err, status, c.w)
}

func (c *sessionCall) ok(status int, v any) {
	c.span.SetStatus(codes.Ok, "")
	handlers.WriteJSON(c.w, status, v)
}

// Create handles POST /calculator/sessions.
func (h *Sessions) Create(w http.ResponseWriter, r *http.Request) {
	c := h.begin(w, r, "session.create")
	defer c.span.End()

	sess, err := h.store.Create()
	if err != nil {
		c.fail(err)
		return
	}

	view := newSessionView(sess.ID, sess.Snapshot())

	c.span.SetAttributes(attribute.String("calculator.session.id", sess.ID))
	c.logger.Info("calculator session created",
		zap.String("session_id", sess.ID),
		zap.String("request_id", c.requestID),
	)

	w.Header().Set("Location", "/calculator/sessions/"+sess.ID)
	c.ok(http.StatusCreated, view)
}

// Get handles GET /calculator/sessions/{id}.
func (h *Sessions) Get(w http.ResponseWriter, r *http.Request) {
	c := h.begin(w, r, "session.get")
	defer c.span.End()

	sess, err := h.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		c.fail(err)
		return
	}

	view := newSessionView(sess.ID, sess.Snapshot())

	c.ok(http.StatusOK, view)
}

// Delete handles DELETE /calculator/sessions/{id}.
func (h *Sessions) Delete(w http.ResponseWriter, r *http.Request) {
	c := h.begin(w, r, "session.delete")
	defer c.span.End()

	id := chi.URLParam(r, "id")
	if err := h.store.Delete(id); err != nil {
		c.fail(err)
		return
	}

	c.logger.Info("calculator session deleted",
		zap.String("session_id", id),
		zap.String("request_id", c.requestID),
	)

	c.span.SetStatus(codes.Ok, "")
	w.WriteHeader(http.StatusNoContent)
}

// Keys handles POST /calculator/sessions/{id}/keys. Keys are pressed in
// order; the first invalid key stops the sequence and earlier keys stay
// applied.
func (h *Sessions) Keys(w http.ResponseWriter, r *http.Request) {
	c := h.begin(w, r, "session.keys")
	defer c.span.End()

	var req KeysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(c.ctx, c.span, c.logger, errorCounter, c.opName, "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	sess, err := h.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		c.fail(err)
		return
	}

	c.span.SetAttributes(attribute.Int("calculator.keys.count", len(req.Keys)))

	start := time.Now()
	var view SessionView
	err = sess.Do(func(k *keypad.Keypad) error {
		for i, key := range req.Keys {
			res, err := k.Press(key)
			if err != nil {
				return fmt.Errorf("key %d: %w", i, err)
			}
			keysCounter.Add(c.ctx, 1)
			if symbol, ok := engine.Canonical(key); ok {
				recordApply(c, symbol, res)
			}
		}
		view = newSessionView(sess.ID, k.Snapshot())
		return nil
	})
	if err != nil {
		c.fail(err)
		return
	}

	elapsed := sinceMillis(start)
	opsHistogram.Record(c.ctx, elapsed, metric.WithAttributes(attribute.String("operation", c.opName)))

	c.span.AddEvent("keys.complete", trace.WithAttributes(
		attribute.String("display", view.Display),
		attribute.String("state", view.State),
	))

	c.logger.Info("calculator keys pressed",
		zap.String("session_id", sess.ID),
		zap.Strings("keys", req.Keys),
		zap.String("display", view.Display),
		zap.String("state", view.State),
		zap.String("request_id", c.requestID),
		zap.Float64("duration_ms", elapsed),
	)

	c.ok(http.StatusOK, view)
}

// Apply handles POST /calculator/sessions/{id}/apply: optionally enter an
// operand, then apply one symbol.
func (h *Sessions) Apply(w http.ResponseWriter, r *http.Request) {
	c := h.begin(w, r, "session.apply")
	defer c.span.End()

	var req ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(c.ctx, c.span, c.logger, errorCounter, c.opName, "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	if req.Operand != nil && !finite(*req.Operand) {
		observability.RecordError(c.ctx, c.span, c.logger, errorCounter, c.opName, "invalid numeric input", fmt.Errorf("operand=%g", *req.Operand), http.StatusBadRequest, w)
		return
	}

	symbol, ok := engine.Canonical(req.Symbol)
	if !ok {
		c.fail(fmt.Errorf("symbol %q: %w", req.Symbol, keypad.ErrInvalidKey))
		return
	}

	sess, err := h.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		c.fail(err)
		return
	}

	c.span.SetAttributes(attribute.String("calculator.symbol", symbol))
	if req.Operand != nil {
		c.span.SetAttributes(attribute.Float64("calculator.operand", *req.Operand))
	}

	start := time.Now()
	var resp ApplyResponse
	err = sess.Do(func(k *keypad.Keypad) error {
		if req.Operand != nil {
			k.Enter(*req.Operand)
		}
		res, err := k.PressOperator(symbol)
		if err != nil {
			return err
		}
		recordApply(c, symbol, res)
		resp = newApplyResponse(sess.ID, res, k.Snapshot())
		return nil
	})
	if err != nil {
		c.fail(err)
		return
	}

	elapsed := sinceMillis(start)
	opsHistogram.Record(c.ctx, elapsed, metric.WithAttributes(attribute.String("operation", symbol)))

	fields := []zap.Field{
		zap.String("session_id", sess.ID),
		zap.String("symbol", symbol),
		zap.Bool("has_result", resp.HasResult),
		zap.String("display", resp.Session.Display),
		zap.String("request_id", c.requestID),
		zap.Float64("duration_ms", elapsed),
	}
	if resp.HasResult {
		fields = append(fields, zap.Float64("result", float64(*resp.Result)))
	}

	c.logger.Info("calculator symbol applied", fields...)

	c.ok(http.StatusOK, resp)
}

// recordApply counts an applied symbol and, when the engine answered,
// records the result.
func recordApply(c *sessionCall, symbol string, res engine.Result) {
	attrs := metric.WithAttributes(attribute.String("operation", symbol))
	opsCounter.Add(c.ctx, 1, attrs)
	if !res.Ok {
		return
	}

	resultGauge.Record(c.ctx, res.Value, attrs)
	c.span.AddEvent("computation.complete", trace.WithAttributes(
		attribute.String("symbol", symbol),
		attribute.Float64("result", res.Value),
	))
}

// errorStatus maps domain errors to an HTTP status and a client-facing message.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound, "session not found"
	case errors.Is(err, session.ErrStoreFull):
		return http.StatusServiceUnavailable, "session store full"
	case errors.Is(err, keypad.ErrInvalidKey), errors.Is(err, errUnknownOperation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, keypad.ErrInvalidDisplay):
		return http.StatusConflict, "invalid display state"
	case errors.Is(err, engine.ErrUnsupportedOperator):
		return http.StatusUnprocessableEntity, "unsupported operator"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
