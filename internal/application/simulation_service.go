package application

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wms-platform/ops-simulator/internal/domain"
	"github.com/wms-platform/ops-simulator/pkg/errors"
	"github.com/wms-platform/ops-simulator/pkg/logging"
)

// MetricsRecorder receives the simulated telemetry after every transition
type MetricsRecorder interface {
	RecordTick(trigger string, duration time.Duration)
	RecordKPI(label string, value float64)
	RecordStage(stage string, queueSize int, utilization, errorRate float64)
	RecordZoneLoad(zone string, avgPicks float64)
	SetActiveIncident(active string, known []string)
	RecordIncidentTriggered(incident string)
	SetPaused(paused bool)
}

// SimulationConfig configures the simulation driver
type SimulationConfig struct {
	// TickInterval is the timer period
	TickInterval time.Duration

	// IncidentTicks is the number of timer ticks an incident stays active
	IncidentTicks int

	// Seed seeds the random source, 0 seeds from the clock
	Seed int64

	// EventBuffer bounds the queue between transitions and the publisher.
	// Events are dropped when it is full.
	EventBuffer int

	// DrainTimeout bounds how long Stop keeps publishing queued events
	DrainTimeout time.Duration
}

// DefaultSimulationConfig returns default configuration
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		TickInterval:  5 * time.Second,
		IncidentTicks: 6,
		EventBuffer:   256,
		DrainTimeout:  5 * time.Second,
	}
}

// SimulationService owns the current snapshot and advances it on a timer.
// Every transition runs under mu, so ticks never overlap.
type SimulationService struct {
	config    SimulationConfig
	publisher domain.EventPublisher
	recorder  MetricsRecorder
	logger    *logging.Logger
	tracer    trace.Tracer
	now       func() time.Time

	mu            sync.Mutex
	rnd           *domain.Randomizer
	state         domain.WarehouseState
	updatedAt     time.Time
	incident      domain.IncidentType
	incidentTicks int
	tick          uint64
	paused        bool
	running       bool
	ticker        *time.Ticker
	stopCh        chan struct{}
	doneCh        chan struct{}
	subscribers   map[chan domain.WarehouseState]struct{}

	// Events leave the lock through one queue and one dispatcher, so they
	// reach the publisher in transition order.
	events        chan queuedEvent
	dispatchStop  chan struct{}
	dispatchDone  chan struct{}
	droppedEvents uint64
}

type queuedEvent struct {
	ctx   context.Context
	event domain.DomainEvent
}

// NewSimulationService creates the driver with a freshly generated state.
// publisher and recorder may be nil.
func NewSimulationService(
	config SimulationConfig,
	publisher domain.EventPublisher,
	recorder MetricsRecorder,
	logger *logging.Logger,
) *SimulationService {
	if config.TickInterval <= 0 {
		config.TickInterval = DefaultSimulationConfig().TickInterval
	}
	if config.IncidentTicks <= 0 {
		config.IncidentTicks = DefaultSimulationConfig().IncidentTicks
	}
	if config.EventBuffer <= 0 {
		config.EventBuffer = DefaultSimulationConfig().EventBuffer
	}
	if config.DrainTimeout <= 0 {
		config.DrainTimeout = DefaultSimulationConfig().DrainTimeout
	}

	rnd := domain.NewRandomizer(config.Seed)
	s := &SimulationService{
		config:      config,
		publisher:   publisher,
		recorder:    recorder,
		logger:      logger.WithComponent("simulation"),
		tracer:      otel.Tracer("ops-simulator/simulation"),
		now:         time.Now,
		rnd:         rnd,
		state:       domain.GenerateInitialState(rnd),
		incident:    domain.IncidentNone,
		subscribers: make(map[chan domain.WarehouseState]struct{}),
	}
	s.updatedAt = s.now()
	s.recordStateLocked()
	if s.recorder != nil {
		s.recorder.SetActiveIncident("", domain.IncidentNames())
		s.recorder.SetPaused(false)
	}
	return s
}

// Start begins the timer loop. It returns an error if the loop is already running.
func (s *SimulationService) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.MapDomainError(domain.ErrSimulationRunning)
	}
	s.running = true
	s.ticker = time.NewTicker(s.config.TickInterval)
	if s.paused {
		s.ticker.Stop()
	}
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	ticks, stop, done := s.ticker.C, s.stopCh, s.doneCh
	s.mu.Unlock()

	s.logger.Info("Simulation started", "tickInterval", s.config.TickInterval.String(), "incidentTicks", s.config.IncidentTicks)
	go s.run(ctx, ticks, stop, done)
	return nil
}

// Stop cancels the timer and waits for the loop to exit, then flushes queued
// events for at most DrainTimeout. State is kept in memory only.
func (s *SimulationService) Stop() {
	s.mu.Lock()
	var done chan struct{}
	if s.running {
		s.running = false
		s.ticker.Stop()
		close(s.stopCh)
		done = s.doneCh
	}
	s.mu.Unlock()

	if done != nil {
		<-done
		s.logger.Info("Simulation stopped")
	}

	s.mu.Lock()
	dispatchStop, dispatchDone := s.dispatchStop, s.dispatchDone
	s.events, s.dispatchStop, s.dispatchDone = nil, nil, nil
	s.mu.Unlock()

	if dispatchDone != nil {
		close(dispatchStop)
		<-dispatchDone
	}
}

// IsRunning returns whether the timer loop is running
func (s *SimulationService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// ActiveIncident returns the active incident, IncidentNone when there is none
func (s *SimulationService) ActiveIncident() domain.IncidentType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.incident
}

// Snapshot returns the current state. Snapshots are never modified once published.
func (s *SimulationService) Snapshot() domain.WarehouseState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Status returns the driver state
func (s *SimulationService) Status() SimulationStatusDTO {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

// IsPaused returns whether the timer is suspended
func (s *SimulationService) IsPaused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

func (s *SimulationService) run(ctx context.Context, ticks <-chan time.Time, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			if s.running && s.stopCh == stop {
				s.running = false
				s.ticker.Stop()
			}
			s.mu.Unlock()
			s.logger.Info("Simulation loop exited", "reason", ctx.Err().Error())
			return
		case <-stop:
			return
		case <-ticks:
			s.Tick(ctx)
		}
	}
}

// Tick performs one timer-driven transition. It is a no-op while paused and
// reports whether the state advanced. An active incident expires after
// IncidentTicks timer ticks.
func (s *SimulationService) Tick(ctx context.Context) bool {
	s.mu.Lock()
	if s.paused {
		s.mu.Unlock()
		return false
	}

	events := s.advanceLocked(ctx, domain.TriggerTimer)

	if s.incident.Active() {
		s.incidentTicks++
		if s.incidentTicks >= s.config.IncidentTicks {
			events = append(events, &domain.IncidentClearedEvent{
				IncidentType: s.incident,
				Reason:       domain.ClearReasonExpired,
				Tick:         s.tick,
				ClearedAt:    s.now(),
			})
			s.logger.Info("Incident expired", "incident", s.incident.String(), "tick", s.tick)
			s.setIncidentLocked(domain.IncidentNone)
		}
	}
	s.enqueueLocked(ctx, events)
	s.mu.Unlock()

	return true
}

// TriggerIncident replaces the active incident and immediately advances the
// state once, in addition to the regular timer ticks. Triggering none clears
// the active incident.
func (s *SimulationService) TriggerIncident(ctx context.Context, cmd TriggerIncidentCommand) (*SimulationStatusDTO, error) {
	incident, err := domain.ParseIncidentType(cmd.Type)
	if err != nil {
		return nil, errors.MapDomainError(err)
	}

	ctx, span := s.tracer.Start(ctx, "simulation.trigger_incident",
		trace.WithAttributes(attribute.String("incident.type", incident.String())))
	defer span.End()

	s.mu.Lock()
	previous := s.incident
	var events []domain.DomainEvent

	if previous.Active() && previous != incident {
		reason := domain.ClearReasonReplaced
		if !incident.Active() {
			reason = domain.ClearReasonManual
		}
		events = append(events, &domain.IncidentClearedEvent{
			IncidentType: previous,
			Reason:       reason,
			Tick:         s.tick,
			ClearedAt:    s.now(),
		})
	}

	s.setIncidentLocked(incident)
	events = append(events, s.advanceLocked(ctx, domain.TriggerIncident)...)

	if incident.Active() {
		events = append(events, &domain.IncidentTriggeredEvent{
			IncidentType:     incident,
			PreviousIncident: previous,
			Tick:             s.tick,
			TriggeredAt:      s.now(),
		})
		if s.recorder != nil {
			s.recorder.RecordIncidentTriggered(incident.String())
		}
	}
	s.enqueueLocked(ctx, events)
	status := s.statusLocked()
	s.mu.Unlock()

	s.logger.Info("Incident triggered", "incident", incident.String(), "previous", previous.String(), "tick", status.Tick)
	return &status, nil
}

// SetPaused suspends or resumes the timer. Ticks missed while paused are not replayed.
func (s *SimulationService) SetPaused(ctx context.Context, cmd SetPausedCommand) (*SimulationStatusDTO, error) {
	s.mu.Lock()
	if s.paused == cmd.Paused {
		status := s.statusLocked()
		s.mu.Unlock()
		return &status, nil
	}

	s.paused = cmd.Paused
	if s.running {
		if cmd.Paused {
			s.ticker.Stop()
		} else {
			s.ticker.Reset(s.config.TickInterval)
		}
	}
	if s.recorder != nil {
		s.recorder.SetPaused(cmd.Paused)
	}

	var event domain.DomainEvent
	if cmd.Paused {
		event = &domain.SimulationPausedEvent{Tick: s.tick, PausedAt: s.now()}
	} else {
		event = &domain.SimulationResumedEvent{Tick: s.tick, ResumedAt: s.now()}
	}
	s.enqueueLocked(ctx, []domain.DomainEvent{event})
	status := s.statusLocked()
	s.mu.Unlock()

	s.logger.Info("Simulation pause changed", "paused", cmd.Paused, "tick", status.Tick)
	return &status, nil
}

// Subscribe returns a channel receiving every new snapshot, starting with the
// current one. The channel keeps only the latest snapshot, so a slow reader
// skips intermediate ones. cancel closes the channel.
func (s *SimulationService) Subscribe() (<-chan domain.WarehouseState, func()) {
	ch := make(chan domain.WarehouseState, 1)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	ch <- s.state
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, ch)
			close(ch)
			s.mu.Unlock()
		})
	}
	return ch, cancel
}

// advanceLocked replaces the state with its successor and returns the tick event.
func (s *SimulationService) advanceLocked(ctx context.Context, trigger string) []domain.DomainEvent {
	_, span := s.tracer.Start(ctx, "simulation.tick",
		trace.WithAttributes(
			attribute.String("simulation.trigger", trigger),
			attribute.String("incident.type", s.incident.String()),
		))
	defer span.End()

	start := time.Now()
	s.state = domain.SimulateUpdate(s.state, s.incident, s.rnd)
	s.tick++
	s.updatedAt = s.now()
	duration := time.Since(start)

	span.SetAttributes(attribute.Int64("simulation.tick", int64(s.tick)))
	s.logger.Tick(ctx, s.tick, trigger, s.incident.String(), duration)
	if s.recorder != nil {
		s.recorder.RecordTick(trigger, duration)
	}
	s.recordStateLocked()
	s.broadcastLocked()

	event := &domain.TickCompletedEvent{
		Tick:           s.tick,
		Trigger:        trigger,
		ActiveIncident: s.incident,
		KPIs:           s.state.KPIs,
		CompletedAt:    s.updatedAt,
	}
	if len(s.state.Bottlenecks) > 0 {
		top := s.state.Bottlenecks[0]
		event.TopBottleneck = &top
	}
	return []domain.DomainEvent{event}
}

func (s *SimulationService) setIncidentLocked(incident domain.IncidentType) {
	s.incident = incident
	s.incidentTicks = 0
	if s.recorder != nil {
		active := ""
		if incident.Active() {
			active = incident.String()
		}
		s.recorder.SetActiveIncident(active, domain.IncidentNames())
	}
}

func (s *SimulationService) recordStateLocked() {
	if s.recorder == nil {
		return
	}
	for _, k := range s.state.KPIs {
		s.recorder.RecordKPI(k.Label, k.Value)
	}
	for _, st := range s.state.Stages {
		s.recorder.RecordStage(st.ID, int(st.QueueSize), st.Utilization, st.ErrorRate)
	}
	for _, z := range domain.SummarizeZones(s.state.Workers) {
		s.recorder.RecordZoneLoad(string(z.Zone), z.AvgPicks)
	}
}

func (s *SimulationService) broadcastLocked() {
	for ch := range s.subscribers {
		select {
		case ch <- s.state:
			continue
		default:
		}
		// Replace the unread snapshot with the newer one.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s.state:
		default:
		}
	}
}

func (s *SimulationService) statusLocked() SimulationStatusDTO {
	remaining := 0
	if s.incident.Active() {
		remaining = s.config.IncidentTicks - s.incidentTicks
	}
	return SimulationStatusDTO{
		Running:                s.running,
		Paused:                 s.paused,
		ActiveIncident:         s.incident.String(),
		IncidentTicksRemaining: remaining,
		Tick:                   s.tick,
		TickInterval:           s.config.TickInterval.String(),
		UpdatedAt:              s.updatedAt,
	}
}

// enqueueLocked logs events and queues them for the dispatcher without
// blocking. The dispatcher is started on first use.
func (s *SimulationService) enqueueLocked(ctx context.Context, events []domain.DomainEvent) {
	for _, event := range events {
		if _, isTick := event.(*domain.TickCompletedEvent); !isTick {
			s.logger.Event(ctx, event.EventType(), map[string]any{"occurredAt": event.OccurredAt()})
		}
	}
	if s.publisher == nil {
		return
	}

	if s.dispatchDone == nil {
		s.events = make(chan queuedEvent, s.config.EventBuffer)
		s.dispatchStop = make(chan struct{})
		s.dispatchDone = make(chan struct{})
		go s.dispatch(s.events, s.dispatchStop, s.dispatchDone)
	}

	// Request contexts end with the response; keep their values only.
	ctx = context.WithoutCancel(ctx)
	for _, event := range events {
		select {
		case s.events <- queuedEvent{ctx: ctx, event: event}:
		default:
			s.droppedEvents++
			s.logger.Warn("Event queue full, dropping simulation event",
				"eventType", event.EventType(), "dropped", s.droppedEvents)
		}
	}
}

// dispatch publishes queued events one at a time. After stop it drains what
// is already queued; publishing is cancelled once DrainTimeout has passed.
func (s *SimulationService) dispatch(queue <-chan queuedEvent, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	bound, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-stop:
		case <-bound.Done():
			return
		}
		timer := time.NewTimer(s.config.DrainTimeout)
		defer timer.Stop()
		select {
		case <-timer.C:
			cancel()
		case <-bound.Done():
		}
	}()

	for {
		select {
		case q := <-queue:
			s.publishOne(bound, q)
		case <-stop:
			for {
				select {
				case q := <-queue:
					s.publishOne(bound, q)
				default:
					return
				}
			}
		}
	}
}

// publishOne hands an event to the publisher. Failures are logged and never
// fail a transition.
func (s *SimulationService) publishOne(bound context.Context, q queuedEvent) {
	ctx, cancel := context.WithCancel(q.ctx)
	defer cancel()
	defer context.AfterFunc(bound, cancel)()

	if err := s.publisher.Publish(ctx, q.event); err != nil {
		s.logger.WithError(err).Warn("Failed to publish simulation event", "eventType", q.event.EventType())
	}
}
