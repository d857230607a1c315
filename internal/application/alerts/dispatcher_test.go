package alerts_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartkubik/inventory-core/internal/application/alerts"
	"github.com/smartkubik/inventory-core/pkg/logger"
)

func TestDispatcherProcesaJob(t *testing.T) {
	stock := newFakeStockRepo(stockWithAvailable("1"))
	rules := newFakeRuleRepo(activeRule("rule-1", "", "5", nil))
	notifier := &fakeNotifier{}
	eval := alerts.NewEvaluator(stock, rules, notifier, 6*time.Hour, logger.Nop())

	d := alerts.NewDispatcher(eval, alerts.DispatcherConfig{
		QueueSize: 8,
		Retries:   0,
		Backoff:   time.Millisecond,
	}, logger.Nop())
	d.Start()

	d.Enqueue(alerts.Job{TenantID: testTenant, StockItemID: "stock-1", ActorID: testActor})
	d.Close() // espera a que el worker drene la cola

	require.Len(t, notifier.events, 1)
	assert.Equal(t, "rule-1", notifier.events[0].RuleID)
}

func TestDispatcherReintentaYLuegoLogra(t *testing.T) {
	stock := newFakeStockRepo(stockWithAvailable("1"))
	rules := newFakeRuleRepo(activeRule("rule-1", "", "5", nil))
	notifier := &fakeNotifier{failures: 2} // dos fallos, el tercero entra
	eval := alerts.NewEvaluator(stock, rules, notifier, 6*time.Hour, logger.Nop())

	d := alerts.NewDispatcher(eval, alerts.DispatcherConfig{
		QueueSize: 8,
		Retries:   3,
		Backoff:   time.Millisecond,
	}, logger.Nop())
	d.Start()

	d.Enqueue(alerts.Job{TenantID: testTenant, StockItemID: "stock-1", ActorID: testActor})
	d.Close()

	assert.Equal(t, 3, notifier.calls)
	require.Len(t, notifier.events, 1)
}

func TestDispatcherAgotaReintentos(t *testing.T) {
	stock := newFakeStockRepo(stockWithAvailable("1"))
	rules := newFakeRuleRepo(activeRule("rule-1", "", "5", nil))
	notifier := &fakeNotifier{failures: 99}
	eval := alerts.NewEvaluator(stock, rules, notifier, 6*time.Hour, logger.Nop())

	d := alerts.NewDispatcher(eval, alerts.DispatcherConfig{
		QueueSize: 8,
		Retries:   2,
		Backoff:   time.Millisecond,
	}, logger.Nop())
	d.Start()

	d.Enqueue(alerts.Job{TenantID: testTenant, StockItemID: "stock-1", ActorID: testActor})
	d.Close()

	// Intento inicial + 2 reintentos; el job termina en dead-letter sin pánico.
	assert.Equal(t, 3, notifier.calls)
	assert.Empty(t, notifier.events)
}

func TestDispatcherEnqueueNoBloquea(t *testing.T) {
	stock := newFakeStockRepo(stockWithAvailable("1"))
	rules := newFakeRuleRepo()
	eval := alerts.NewEvaluator(stock, rules, &fakeNotifier{}, 6*time.Hour, logger.Nop())

	// Worker sin arrancar y cola de 1: el segundo Enqueue va a dead-letter
	// inmediato en vez de bloquear al llamador.
	d := alerts.NewDispatcher(eval, alerts.DispatcherConfig{QueueSize: 1}, logger.Nop())

	done := make(chan struct{})
	go func() {
		d.Enqueue(alerts.Job{TenantID: testTenant, StockItemID: "stock-1"})
		d.Enqueue(alerts.Job{TenantID: testTenant, StockItemID: "stock-2"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue bloqueó con la cola llena")
	}
}
