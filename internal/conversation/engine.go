package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/autolane/dealer-ai-platform/internal/intent"
	"github.com/autolane/dealer-ai-platform/internal/inventory"
	"github.com/autolane/dealer-ai-platform/internal/leadscore"
	"github.com/autolane/dealer-ai-platform/internal/observability/metrics"
	"github.com/autolane/dealer-ai-platform/pkg/logging"
)

// apologyResponse is the only text that ever reaches the customer when the
// pipeline fails outright. Raw provider errors stay in the logs.
const apologyResponse = "I'm experiencing technical difficulties right now. Please try again in a moment, or call the dealership directly and a member of our team will help you."

// Engine runs the response pipeline: classify, resolve the dealer, walk the
// ordered strategies until one answers, score the lead, optionally synthesize
// speech, and persist the exchange best-effort.
type Engine struct {
	classifier *intent.Classifier
	settings   SettingsReader
	vehicles   inventory.Repository
	strategies []strategy
	store      *Store
	history    *HistoryStore
	synth      Synthesizer
	leadSink   LeadRecorder
	metrics    *metrics.ConversationMetrics
	tracer     trace.Tracer
	log        *logging.Logger
	now        func() time.Time
}

// EngineConfig wires the engine's dependencies. Matcher and LLM are optional;
// the rule-based stage guarantees an answer without them. Store, History,
// Synth, and Metrics are optional as well.
type EngineConfig struct {
	Classifier *intent.Classifier
	Settings   SettingsReader
	Vehicles   inventory.Repository
	Matcher    *inventory.Matcher
	LLM        LLMConfig
	Store      *Store
	History    *HistoryStore
	Synth      Synthesizer
	Leads      LeadRecorder
	Metrics    *metrics.ConversationMetrics
	Log        *logging.Logger
}

func NewEngine(cfg EngineConfig) *Engine {
	if cfg.Classifier == nil {
		cfg.Classifier = intent.NewClassifier()
	}
	if cfg.Log == nil {
		cfg.Log = logging.Default()
	}
	log := cfg.Log.Component("conversation")

	var strategies []strategy
	if cfg.Matcher != nil {
		strategies = append(strategies, newInventoryStrategy(cfg.Matcher, log))
	}
	llmCfg := cfg.LLM
	if llmCfg.Log == nil {
		llmCfg.Log = log
	}
	if llmCfg.History == nil {
		llmCfg.History = cfg.History
	}
	strategies = append(strategies, newLLMStrategy(llmCfg), newRuleStrategy())

	return &Engine{
		classifier: cfg.Classifier,
		settings:   cfg.Settings,
		vehicles:   cfg.Vehicles,
		strategies: strategies,
		store:      cfg.Store,
		history:    cfg.History,
		synth:      cfg.Synth,
		leadSink:   cfg.Leads,
		metrics:    cfg.Metrics,
		tracer:     otel.Tracer("dealerai.internal.conversation.engine"),
		log:        log,
		now:        time.Now,
	}
}

// Process turns one customer message into a normalized Result. It never
// returns a user-visible provider error: the worst case is the generic
// apology with Success=false.
func (e *Engine) Process(ctx context.Context, req ProcessRequest) (result *Result) {
	start := e.now()
	timings := make(map[string]time.Duration)

	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	ctx, span := e.tracer.Start(ctx, "conversation.process",
		trace.WithAttributes(attribute.String("session_id", req.SessionID)))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			e.log.Error("conversation pipeline panic", "session_id", req.SessionID, "panic", fmt.Sprint(r))
			result = e.errorResult(req.SessionID, timings)
		}
	}()

	message := strings.TrimSpace(req.Message)
	if message == "" {
		e.log.Warn("empty message rejected", "session_id", req.SessionID)
		return e.errorResult(req.SessionID, timings)
	}

	t := &turn{req: req, message: message}

	stageStart := e.now()
	t.intent = e.classifier.Classify(message)
	t.urgency = e.classifier.AssessUrgency(message)
	t.inventoryQuery = e.classifier.IsInventoryQuery(message)
	timings["classify"] = e.now().Sub(stageStart)

	stageStart = e.now()
	e.resolveContext(ctx, t)
	timings["resolve"] = e.now().Sub(stageStart)

	stageStart = e.now()
	if e.settings != nil {
		if bundle, err := e.settings.Get(ctx, t.dealerID); err == nil {
			t.bundle = bundle
		} else {
			e.log.Warn("settings load failed", "dealer_id", t.dealerID, "error", err)
		}
	}
	timings["settings"] = e.now().Sub(stageStart)

	if e.history != nil {
		if hist, err := e.history.Load(ctx, req.SessionID); err == nil {
			t.history = hist
		} else {
			e.log.Warn("chat history load failed", "session_id", req.SessionID, "error", err)
		}
	}

	answer, answered := e.runPipeline(ctx, t, timings)
	if !answered {
		// Unreachable while the rule stage is terminal, kept as the
		// §7 catastrophic-failure backstop.
		return e.errorResult(req.SessionID, timings)
	}

	score := leadscore.Score(t.intent, t.urgency, message)
	handoff := leadscore.ShouldHandoff(t.intent, t.urgency, score)
	if handoff {
		e.metrics.ObserveHandoff(string(t.intent))
	}

	res := &Result{
		Success:       true,
		Response:      answer.Response,
		CrewUsed:      answer.CrewUsed,
		CrewType:      answer.CrewType,
		Intent:        t.intent,
		LeadScore:     score,
		ShouldHandoff: handoff,
		Timings:       timings,
		SessionID:     req.SessionID,
		Timestamp:     start,
	}

	if e.synth != nil && t.dealerID != "" && t.bundle != nil && t.bundle.VoiceSettings().AutoResponse {
		stageStart = e.now()
		if artifact := e.synth.Synthesize(ctx, answer.Response, t.dealerID); artifact != nil {
			res.AudioURL = artifact.URL
		}
		timings["speech"] = e.now().Sub(stageStart)
	}

	e.persist(ctx, t, res)
	return res
}

// resolveContext fills dealerID (explicit → vehicle → conversation history),
// the vehicle, and the dealer name. Failures only narrow what later stages
// are eligible for.
func (e *Engine) resolveContext(ctx context.Context, t *turn) {
	t.dealerID = strings.TrimSpace(t.req.Customer.DealerID)

	if t.req.VehicleID != "" && e.vehicles != nil {
		vehicle, err := e.vehicles.GetByID(ctx, t.req.VehicleID)
		if err != nil {
			e.log.Warn("vehicle lookup failed", "vehicle_id", t.req.VehicleID, "error", err)
		} else {
			t.vehicle = vehicle
			if t.dealerID == "" {
				t.dealerID = vehicle.DealerID
			}
		}
	}

	if t.dealerID == "" && e.store != nil {
		dealerID, err := e.store.DealerForSession(ctx, t.req.SessionID)
		if err != nil {
			e.log.Warn("dealer resolution via history failed", "session_id", t.req.SessionID, "error", err)
		} else {
			t.dealerID = dealerID
		}
	}

	if t.dealerID == "" {
		e.log.Warn("dealer unresolved, degrading to rule-based", "session_id", t.req.SessionID)
		return
	}

	if e.store != nil {
		name, err := e.store.DealerName(ctx, t.dealerID)
		if err != nil {
			e.log.Warn("dealer name lookup failed", "dealer_id", t.dealerID, "error", err)
		} else {
			t.dealerName = name
		}
	}
}

// runPipeline walks the ordered strategies. A stage error or panic counts as
// "stage declined" and the walk continues.
func (e *Engine) runPipeline(ctx context.Context, t *turn, timings map[string]time.Duration) (stageAnswer, bool) {
	for _, s := range e.strategies {
		if !s.Eligible(t) {
			continue
		}

		stageStart := e.now()
		answer, err := e.runStage(ctx, s, t)
		elapsed := e.now().Sub(stageStart)
		timings[s.Name()] = elapsed

		if err != nil {
			e.metrics.ObserveStage(s.Name(), "declined", elapsed.Seconds())
			e.log.Warn("stage declined", "stage", s.Name(), "session_id", t.req.SessionID, "error", err)
			continue
		}
		e.metrics.ObserveStage(s.Name(), "success", elapsed.Seconds())
		return answer, true
	}
	return stageAnswer{}, false
}

// runStage isolates a single strategy call so a panic inside one stage
// degrades to a decline instead of killing the request.
func (e *Engine) runStage(ctx context.Context, s strategy, t *turn) (answer stageAnswer, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("conversation: stage %s panic: %v", s.Name(), r)
		}
	}()
	return s.Respond(ctx, t)
}

// persist writes the exchange, interest, handoff flag, and lead snapshot.
// All writes are best-effort: a persistence failure never fails a response
// already computed.
func (e *Engine) persist(ctx context.Context, t *turn, res *Result) {
	if e.leadSink != nil && t.dealerID != "" {
		rec := LeadRecord{
			DealerID:    t.dealerID,
			SessionID:   res.SessionID,
			Name:        t.req.Customer.Name,
			Email:       t.req.Customer.Email,
			Phone:       t.req.Customer.Phone,
			Intent:      t.intent,
			Score:       res.LeadScore,
			Handoff:     res.ShouldHandoff,
			LastMessage: t.message,
		}
		if err := e.leadSink.Record(ctx, rec); err != nil {
			e.log.Warn("lead capture failed", "session_id", res.SessionID, "error", err)
		}
	}

	if e.store == nil {
		return
	}

	if err := e.store.AppendMessage(ctx, res.SessionID, t.dealerID, ChatRoleUser, t.message, string(t.intent)); err != nil {
		e.log.Warn("user message persist failed", "session_id", res.SessionID, "error", err)
	}
	if err := e.store.AppendMessage(ctx, res.SessionID, t.dealerID, ChatRoleAssistant, res.Response, ""); err != nil {
		e.log.Warn("assistant message persist failed", "session_id", res.SessionID, "error", err)
	}
	if t.vehicle != nil {
		if err := e.store.RecordInterest(ctx, res.SessionID, t.vehicle.ID); err != nil {
			e.log.Warn("interest persist failed", "session_id", res.SessionID, "error", err)
		}
	}
	if res.ShouldHandoff {
		if err := e.store.MarkHandoff(ctx, res.SessionID); err != nil {
			e.log.Warn("handoff persist failed", "session_id", res.SessionID, "error", err)
		}
	}
}

func (e *Engine) errorResult(sessionID string, timings map[string]time.Duration) *Result {
	return &Result{
		Success:       false,
		Response:      apologyResponse,
		CrewUsed:      false,
		CrewType:      CrewError,
		Intent:        intent.IntentError,
		LeadScore:     0,
		ShouldHandoff: false,
		Timings:       timings,
		SessionID:     sessionID,
		Timestamp:     e.now(),
	}
}
