package alerts

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/smartkubik/inventory-core/pkg/logger"
)

// Job solicitud de evaluación de alertas para un agregado tras una mutación de stock.
type Job struct {
	TenantID    string `json:"tenant_id"`
	StockItemID string `json:"stock_item_id"`
	ActorID     string `json:"actor_id"`
}

// DispatcherConfig parámetros de la cola de evaluación.
type DispatcherConfig struct {
	QueueSize  int
	Retries    int           // reintentos por job antes de dead-letter
	Backoff    time.Duration // espera base entre reintentos (lineal por intento)
	JobTimeout time.Duration
}

// Dispatcher cola en proceso que desacopla la evaluación de alertas del camino de
// escritura. Encolar nunca bloquea ni falla al llamador: con la cola llena el job se
// registra como dead-letter y se descarta. El worker reintenta cada job un número
// acotado de veces; el fallo final queda en el log con el payload completo para
// reinyección manual.
type Dispatcher struct {
	evaluator *Evaluator
	jobs      chan Job
	cfg       DispatcherConfig
	log       *logger.Logger
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewDispatcher construye la cola; llamar Start para arrancar el worker.
func NewDispatcher(evaluator *Evaluator, cfg DispatcherConfig, log *logger.Logger) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1024
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 500 * time.Millisecond
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 30 * time.Second
	}
	return &Dispatcher{
		evaluator: evaluator,
		jobs:      make(chan Job, cfg.QueueSize),
		cfg:       cfg,
		log:       log,
	}
}

// Start arranca el worker en segundo plano.
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for job := range d.jobs {
			d.process(job)
		}
	}()
}

// Enqueue encola un job sin bloquear. Con la cola llena, dead-letter inmediato.
func (d *Dispatcher) Enqueue(job Job) {
	select {
	case d.jobs <- job:
	default:
		d.deadLetter(job, "cola de alertas llena")
	}
}

// Close cierra la cola y espera a que el worker drene los jobs pendientes.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() { close(d.jobs) })
	d.wg.Wait()
}

func (d *Dispatcher) process(job Job) {
	var lastErr error
	for attempt := 0; attempt <= d.cfg.Retries; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * d.cfg.Backoff)
		}
		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.JobTimeout)
		_, lastErr = d.evaluator.Evaluate(ctx, job.TenantID, job.StockItemID, job.ActorID)
		cancel()
		if lastErr == nil {
			return
		}
		d.log.Warn().
			Err(lastErr).
			Int("attempt", attempt+1).
			Str("stock_item_id", job.StockItemID).
			Msg("evaluación de alertas falló, reintentando")
	}
	d.deadLetter(job, lastErr.Error())
}

func (d *Dispatcher) deadLetter(job Job, reason string) {
	payload, _ := json.Marshal(job)
	d.log.Error().
		Str("reason", reason).
		RawJSON("job", payload).
		Msg("job de alertas enviado a dead-letter")
}
