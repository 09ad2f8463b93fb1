package engine

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	eventpublisherv1 "github.com/muhammadchandra19/matching-engine/internal/domain/event-publisher/v1"
	journalv1 "github.com/muhammadchandra19/matching-engine/internal/domain/journal/v1"
	orderreaderv1 "github.com/muhammadchandra19/matching-engine/internal/domain/order-reader/v1"
	orderbookv1 "github.com/muhammadchandra19/matching-engine/internal/domain/orderbook/v1"
	snapshotv1 "github.com/muhammadchandra19/matching-engine/internal/domain/snapshot/v1"
	"github.com/muhammadchandra19/matching-engine/pkg/errors"
	"github.com/muhammadchandra19/matching-engine/pkg/logger"
	"github.com/muhammadchandra19/matching-engine/pkg/util"
)

const (
	readBackoff      = 100 * time.Millisecond
	finalSnapshotTTL = 5 * time.Second
)

// command is one message handed from the reader goroutine to the owner goroutine.
// req is nil when the message could not be decoded; it still advances the offset.
type command struct {
	msg kafka.Message
	req *orderreaderv1.PlaceOrderRequest
}

// Engine drives one instrument's order book.
//
// A reader goroutine feeds commands into a mailbox; a single owner goroutine
// applies them to the book, journals and publishes the resulting events and
// takes snapshots between commands. The book itself is never touched from
// any other goroutine.
type Engine struct {
	orderbook     orderbookv1.Orderbook
	orderReader   orderreaderv1.OrderReader
	snapshotStore snapshotv1.Store
	journal       journalv1.Journal
	publisher     eventpublisherv1.EventPublisher
	logger        *logger.Logger
	options       *Options

	mailbox chan command

	orderOffset        atomic.Int64
	lastSnapshotOffset atomic.Int64

	// statistics
	processedCommands atomic.Int64
	emittedEvents     atomic.Int64
	totalMatches      atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewEngine creates a new instance of Engine with the provided dependencies.
func NewEngine(
	orderbook orderbookv1.Orderbook,
	orderReader orderreaderv1.OrderReader,
	snapshotStore snapshotv1.Store,
	journal journalv1.Journal,
	publisher eventpublisherv1.EventPublisher,
	logger *logger.Logger,
) *Engine {
	return NewEngineWithOptions(orderbook, orderReader, snapshotStore, journal, publisher, logger, DefaultEngineOptions())
}

// NewEngineWithOptions creates a new engine with custom options
func NewEngineWithOptions(
	orderbook orderbookv1.Orderbook,
	orderReader orderreaderv1.OrderReader,
	snapshotStore snapshotv1.Store,
	journal journalv1.Journal,
	publisher eventpublisherv1.EventPublisher,
	log *logger.Logger,
	options *Options,
) *Engine {
	if options == nil {
		options = DefaultEngineOptions()
	}
	if options.NewOrderID == nil {
		options.NewOrderID = commandULID
	}

	e := &Engine{
		orderbook:     orderbook,
		orderReader:   orderReader,
		snapshotStore: snapshotStore,
		journal:       journal,
		publisher:     publisher,
		logger:        log.WithFields(logger.Field{Key: "pair", Value: orderbook.Pair()}),
		options:       options,
		mailbox:       make(chan command, options.MailboxSize),
		ctx:           context.Background(),
	}
	e.orderOffset.Store(-1)
	e.lastSnapshotOffset.Store(-1)

	return e
}

// Start restores the book from the latest snapshot, positions the reader
// right after the last applied command and starts processing.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.loadSnapshot(ctx); err != nil {
		return err
	}
	if err := e.checkJournal(ctx); err != nil {
		e.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "check_journal"})
	}

	offset := e.orderOffset.Load()
	startOffset := kafka.FirstOffset
	if offset >= 0 {
		startOffset = offset + 1
	}
	if err := e.orderReader.SetOffset(startOffset); err != nil {
		return err
	}

	e.ctx, e.cancel = context.WithCancel(ctx)

	e.wg.Add(2)
	go e.runOrderReader()
	go e.runProcessor()

	e.logger.Info("Engine started",
		logger.Field{Key: "orderOffset", Value: offset},
		logger.Field{Key: "logSequence", Value: e.orderbook.LogSequence()},
	)

	return nil
}

// Stop gracefully shuts down the engine
func (e *Engine) Stop(ctx context.Context) error {
	if e.cancel != nil {
		e.cancel()
	}

	// Wait for goroutines to finish with timeout
	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		if err := e.orderReader.Close(); err != nil {
			e.logger.Error(err, logger.Field{Key: "action", Value: "close_order_reader"})
		}
		e.logger.Info("Engine stopped gracefully",
			logger.Field{Key: "processedCommands", Value: e.processedCommands.Load()},
			logger.Field{Key: "emittedEvents", Value: e.emittedEvents.Load()},
		)
		return nil
	case <-ctx.Done():
		e.logger.Warn("Engine stop timeout exceeded")
		return ctx.Err()
	}
}

// runOrderReader reads commands and hands them to the processor.
func (e *Engine) runOrderReader() {
	defer e.wg.Done()

	for {
		msg, req, err := e.orderReader.ReadMessage(e.ctx)
		if e.ctx.Err() != nil {
			return
		}
		if err != nil && !stderrors.Is(err, errors.NewTracer(errors.ReadOrderError)) {
			e.logger.ErrorContext(e.ctx, err, logger.Field{Key: "action", Value: "read_order_message"})
			select {
			case <-time.After(readBackoff):
				continue
			case <-e.ctx.Done():
				return
			}
		}

		select {
		case e.mailbox <- command{msg: msg, req: req}:
		case <-e.ctx.Done():
			return
		}
	}
}

// runProcessor owns the order book: commands and snapshots run here, one at a time.
func (e *Engine) runProcessor() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.options.SnapshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.ctx.Done():
			e.finalSnapshot()
			return
		case cmd := <-e.mailbox:
			e.handleCommand(cmd)
		case <-ticker.C:
			if e.shouldCreateSnapshot() {
				e.createAndStoreSnapshot(e.ctx)
			}
		}
	}
}

// handleCommand applies one command and records its outcome.
func (e *Engine) handleCommand(cmd command) {
	ctx := util.WithOffset(util.WithRequestID(e.ctx, ""), cmd.msg.Offset)

	if cmd.req == nil {
		e.logger.WarnContext(ctx, "Skipping undecodable order message")
	} else {
		logs, err := e.processOrder(ctx, cmd.req)
		if err != nil {
			e.logRejection(ctx, cmd.req, err)
		}
		e.emit(ctx, logs)
	}

	if err := e.orderReader.CommitMessages(ctx, cmd.msg); err != nil {
		e.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "commit_order_message"})
	}

	e.orderOffset.Store(cmd.msg.Offset)
	e.processedCommands.Add(1)
}

// processOrder processes a single order request
func (e *Engine) processOrder(ctx context.Context, req *orderreaderv1.PlaceOrderRequest) ([]orderbookv1.Log, error) {
	e.logger.DebugContext(ctx, "Processing order",
		logger.Field{Key: "orderID", Value: req.OrderID},
		logger.Field{Key: "type", Value: req.Type},
		logger.Field{Key: "side", Value: req.Side},
	)

	if req.Type == orderreaderv1.OrderTypeMarket && req.OrderID == "" {
		req.OrderID = e.options.NewOrderID(req.Offset, req.ReceivedAt)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	switch req.Type {
	case orderreaderv1.OrderTypeLimit:
		order, err := orderbookv1.NewOrder(req.OrderID, req.Side, req.Price, req.Size)
		if err != nil {
			return nil, err
		}
		logs := e.receive(order)
		placed, err := e.orderbook.PlaceLimitOrder(order)
		return append(logs, placed...), err

	case orderreaderv1.OrderTypeMarket:
		order, err := orderbookv1.NewMarketOrder(req.OrderID, req.Side, req.Size)
		if err != nil {
			return nil, err
		}
		logs := e.receive(order)
		filled, err := e.orderbook.FillMarketOrder(order)
		if err == nil && !order.IsFilled() {
			e.logger.InfoContext(ctx, "Market order remainder discarded",
				logger.Field{Key: "orderID", Value: order.ID()},
				logger.Field{Key: "remaining", Value: order.Size().String()},
			)
		}
		return append(logs, filled...), err

	case orderreaderv1.OrderTypeCancel:
		log, err := e.orderbook.CancelOrder(req.OrderID)
		if err != nil {
			return nil, err
		}
		return []orderbookv1.Log{log}, nil
	}

	return nil, nil
}

func (e *Engine) receive(order *orderbookv1.Order) []orderbookv1.Log {
	if !e.options.EmitReceived {
		return nil
	}
	return []orderbookv1.Log{e.orderbook.Receive(order)}
}

func (e *Engine) logRejection(ctx context.Context, req *orderreaderv1.PlaceOrderRequest, err error) {
	fields := []logger.Field{
		{Key: "orderID", Value: req.OrderID},
		{Key: "type", Value: req.Type},
		{Key: "reason", Value: err.Error()},
	}

	switch {
	case stderrors.Is(err, orderbookv1.ErrOrderNotFound),
		stderrors.Is(err, orderbookv1.ErrInvalidOrder),
		stderrors.Is(err, orderbookv1.ErrPriceMismatch),
		stderrors.Is(err, orderbookv1.ErrNilOrder):
		e.logger.WarnContext(ctx, "Order rejected", fields...)
	default:
		e.logger.ErrorContext(ctx, err, append(fields, logger.Field{Key: "action", Value: "process_order"})...)
	}
}

// emit journals and publishes the events of one command, in sequence order.
func (e *Engine) emit(ctx context.Context, logs []orderbookv1.Log) {
	if len(logs) == 0 {
		return
	}

	matches := 0
	for _, l := range logs {
		if l.Type != orderbookv1.LogTypeMatch {
			continue
		}
		matches++
		e.logger.DebugContext(ctx, "Trade executed",
			logger.Field{Key: "sequence", Value: l.Sequence},
			logger.Field{Key: "takerOrderID", Value: l.Match.TakerOrderID},
			logger.Field{Key: "makerOrderID", Value: l.Match.MakerOrderID},
			logger.Field{Key: "price", Value: l.Match.Price.String()},
			logger.Field{Key: "size", Value: l.Match.Size.String()},
		)
	}

	if err := e.journal.Append(ctx, logs); err != nil {
		e.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "journal_events"})
	}
	if err := e.publisher.Publish(ctx, logs); err != nil {
		e.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "publish_events"})
	}

	e.emittedEvents.Add(int64(len(logs)))
	if matches > 0 {
		total := e.totalMatches.Add(int64(matches))
		e.logger.InfoContext(ctx, "Matches executed",
			logger.Field{Key: "matchCount", Value: matches},
			logger.Field{Key: "totalMatches", Value: total},
		)
	}
}

// shouldCreateSnapshot checks if a snapshot should be created
func (e *Engine) shouldCreateSnapshot() bool {
	currentOffset := e.orderOffset.Load()
	if currentOffset < 0 {
		return false
	}

	delta := currentOffset - e.lastSnapshotOffset.Load()
	return delta >= e.options.SnapshotOffsetDelta
}

// createAndStoreSnapshot creates and stores a snapshot
func (e *Engine) createAndStoreSnapshot(ctx context.Context) {
	currentOffset := e.orderOffset.Load()

	snapshot := &snapshotv1.Snapshot{
		OrderOffset:       currentOffset,
		OrderBookSnapshot: *e.orderbook.Snapshot(),
	}

	if err := e.snapshotStore.Store(ctx, snapshot); err != nil {
		e.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "store_snapshot"})
		return
	}

	e.lastSnapshotOffset.Store(currentOffset)
	e.logger.Info("Snapshot stored successfully",
		logger.Field{Key: "offset", Value: currentOffset},
		logger.Field{Key: "logSequence", Value: snapshot.OrderBookSnapshot.LogSequence},
	)
}

// finalSnapshot persists whatever was applied since the last snapshot.
func (e *Engine) finalSnapshot() {
	if e.orderOffset.Load() <= e.lastSnapshotOffset.Load() {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(e.ctx), finalSnapshotTTL)
	defer cancel()
	e.createAndStoreSnapshot(ctx)
}

// loadSnapshot loads and restores the orderbook from snapshot
func (e *Engine) loadSnapshot(ctx context.Context) error {
	snapshot, err := e.snapshotStore.LoadStore(ctx)
	if err != nil {
		return err
	}
	if snapshot == nil {
		e.logger.Info("No snapshot found, starting with an empty book")
		return nil
	}

	if err := e.orderbook.Restore(&snapshot.OrderBookSnapshot); err != nil {
		return err
	}
	e.orderOffset.Store(snapshot.OrderOffset)
	e.lastSnapshotOffset.Store(snapshot.OrderOffset)

	if e.orderbook.IsCrossed() {
		e.logger.Warn("Restored orderbook is crossed")
	}

	e.logger.Info("Orderbook restored from snapshot",
		logger.Field{Key: "orderOffset", Value: snapshot.OrderOffset},
		logger.Field{Key: "orders", Value: len(snapshot.OrderBookSnapshot.Orders)},
		logger.Field{Key: "logSequence", Value: snapshot.OrderBookSnapshot.LogSequence},
	)
	return nil
}

// checkJournal compares the journal with the restored book. Events past the
// snapshot are produced again when their commands are re-read, under the same
// sequence numbers; the tail after the snapshot must be gap free.
func (e *Engine) checkJournal(ctx context.Context) error {
	last, err := e.journal.LastSequence(ctx)
	if err != nil {
		return err
	}

	bookSeq := e.orderbook.LogSequence()
	if last < bookSeq {
		e.logger.Warn("Journal is behind the snapshot",
			logger.Field{Key: "journalSequence", Value: last},
			logger.Field{Key: "logSequence", Value: bookSeq},
		)
		return nil
	}
	if last == bookSeq {
		return nil
	}

	next := bookSeq + 1
	err = e.journal.ReadFrom(ctx, next, func(l orderbookv1.Log) error {
		if l.Sequence != next {
			return fmt.Errorf("journal gap: expected sequence %d, found %d", next, l.Sequence)
		}
		next++
		return nil
	})
	if err != nil {
		return err
	}

	e.logger.Info("Journal is ahead of the snapshot, events will be rewritten on replay",
		logger.Field{Key: "journalSequence", Value: last},
		logger.Field{Key: "logSequence", Value: bookSeq},
		logger.Field{Key: "pendingEvents", Value: next - bookSeq - 1},
	)
	return nil
}

// GetOrderOffset returns the current order offset
func (e *Engine) GetOrderOffset() int64 {
	return e.orderOffset.Load()
}

// GetLastSnapshotOffset returns the last snapshot offset
func (e *Engine) GetLastSnapshotOffset() int64 {
	return e.lastSnapshotOffset.Load()
}

// GetTotalMatches returns the total number of matches processed
func (e *Engine) GetTotalMatches() int64 {
	return e.totalMatches.Load()
}

// GetProcessedCommands returns how many commands were applied, rejected ones included.
func (e *Engine) GetProcessedCommands() int64 {
	return e.processedCommands.Load()
}

// GetEmittedEvents returns how many events the book produced.
func (e *Engine) GetEmittedEvents() int64 {
	return e.emittedEvents.Load()
}
