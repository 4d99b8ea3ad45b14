package billing

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ResultStatus is the activity status the platform attaches to an inbound
// result event.
type ResultStatus int32

const (
	StatusOK ResultStatus = iota
	StatusCanceled
	StatusOther
)

// ResultEvent is one purchase result delivered by the platform billing UI.
// Data is nil when the platform delivered no payload at all.
type ResultEvent struct {
	RequestCode int32
	Status      ResultStatus
	Data        Bundle
}

// PurchaseFinishedFunc receives the terminal outcome of a purchase flow,
// exactly once per handled event. purchase is non-nil on a verified
// success, and on a verification failure, where it carries the rejected
// record so the caller can inspect what was turned away.
type PurchaseFinishedFunc func(result Result, purchase *Purchase)

// Contract violations by the caller. These are returned directly rather
// than being folded into a Result: they mark programming errors, not
// purchase outcomes.
var (
	ErrDisposed = errors.New("billing: helper was disposed of, so it cannot be used")
	ErrNotSetUp = errors.New("billing: helper is not set up")
)

// OperationInProgressError rejects a second asynchronous operation while
// one is outstanding.
type OperationInProgressError struct {
	Active    string
	Requested string
}

func (e *OperationInProgressError) Error() string {
	return fmt.Sprintf("billing: cannot start async operation (%s) because another async operation (%s) is in progress",
		e.Requested, e.Active)
}

type sessionState uint8

const (
	sessionCreated sessionState = iota
	sessionReady
	sessionDisposed
)

// asyncGuard is a non-reentrant single-flight gate over the platform
// billing connection. A second start is rejected immediately, never
// queued. The check-and-set is mutex-protected so the invariant holds no
// matter which threads the host drives the helper from.
type asyncGuard struct {
	mu        sync.Mutex
	inFlight  bool
	operation string
}

func (g *asyncGuard) start(operation string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.inFlight {
		return &OperationInProgressError{Active: g.operation, Requested: operation}
	}
	g.inFlight = true
	g.operation = operation
	return nil
}

func (g *asyncGuard) end() {
	g.mu.Lock()
	g.inFlight = false
	g.operation = ""
	g.mu.Unlock()
}

func (g *asyncGuard) active() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.operation, g.inFlight
}

// Helper drives the purchase result protocol for one billing session: it
// consumes platform result events, decodes and parses them, verifies
// purchase signatures, and delivers exactly one outcome per flow to the
// registered listener.
//
// The helper introduces no threading of its own; it reacts synchronously
// on whatever goroutine invokes it. The service connection that launches
// the purchase UI is owned by a collaborator, which reports back through
// CompleteSetup, HandlePurchaseResult, and FailPurchaseFlow.
type Helper struct {
	log      *zap.Logger
	verifier SignatureVerifier

	mu                     sync.Mutex
	state                  sessionState
	subscriptionsSupported bool
	requestCode            int32
	purchasingItemType     ItemType
	listener               PurchaseFinishedFunc

	guard asyncGuard
}

// NewHelper creates a helper that verifies purchases with the given
// verifier. The helper is unusable until CompleteSetup is called.
func NewHelper(log *zap.Logger, verifier SignatureVerifier) *Helper {
	return &Helper{
		log:      log,
		verifier: verifier,
	}
}

// CompleteSetup marks the session ready. It is invoked by the connection
// collaborator once the billing service binding is established.
func (h *Helper) CompleteSetup(subscriptionsSupported bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state == sessionDisposed {
		return ErrDisposed
	}
	h.state = sessionReady
	h.subscriptionsSupported = subscriptionsSupported
	return nil
}

// SubscriptionsSupported reports whether the billing service supports
// subscription purchases.
func (h *Helper) SubscriptionsSupported() (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state == sessionDisposed {
		return false, ErrDisposed
	}
	return h.subscriptionsSupported, nil
}

// AsyncInProgress returns the name of the outstanding asynchronous
// operation, if any.
func (h *Helper) AsyncInProgress() (string, bool) {
	return h.guard.active()
}

// BeginPurchaseFlow registers a pending purchase flow: the request code the
// platform will echo back, the item type being bought, and the listener
// that receives the outcome. It takes the async operation guard; launching
// the purchase UI itself is the collaborator's job.
//
// Requesting a subscription when subscriptions are unsupported delivers a
// SubscriptionsUnavailable outcome to the listener and leaves the guard
// free.
func (h *Helper) BeginPurchaseFlow(requestCode int32, itemType ItemType, listener PurchaseFinishedFunc) error {
	if requestCode == 0 {
		return errors.New("billing: request code must be non-zero")
	}
	if !itemType.Valid() {
		return fmt.Errorf("billing: invalid item type %q", itemType)
	}

	h.mu.Lock()
	switch h.state {
	case sessionDisposed:
		h.mu.Unlock()
		return ErrDisposed
	case sessionCreated:
		h.mu.Unlock()
		return ErrNotSetUp
	}

	if itemType == ItemTypeSubs && !h.subscriptionsSupported {
		h.mu.Unlock()
		h.log.Error("Subscriptions are not available")
		h.dispatch(listener, NewResult(HelperSubscriptionsUnavailable, "Subscriptions are not available."), nil)
		return nil
	}

	if err := h.guard.start("launchPurchaseFlow"); err != nil {
		h.mu.Unlock()
		return err
	}
	h.requestCode = requestCode
	h.purchasingItemType = itemType
	h.listener = listener
	h.mu.Unlock()

	h.log.Debug("Purchase flow started",
		zap.Int32("request_code", requestCode),
		zap.String("item_type", string(itemType)))
	return nil
}

// FailPurchaseFlow aborts the pending flow on behalf of the collaborator
// that launched it, for failures that never produce a platform result
// event (send intent failed, remote exception). It releases the guard and
// delivers the given failure once.
func (h *Helper) FailPurchaseFlow(code Code, message string) error {
	h.mu.Lock()
	if h.state == sessionDisposed {
		h.mu.Unlock()
		return ErrDisposed
	}
	listener := h.listener
	h.requestCode = 0
	h.purchasingItemType = ""
	h.listener = nil
	h.mu.Unlock()

	h.guard.end()
	h.dispatch(listener, NewResult(code, message), nil)
	return nil
}

// HandlePurchaseResult runs the purchase result state machine against one
// inbound platform event.
//
// It returns false when the event does not belong to this helper's pending
// flow; the caller should pass it on. Once a flow's event is consumed, a
// duplicate delivery for the same request code is a mismatch and is
// ignored.
//
// A non-nil error means no outcome was dispatched: either the caller
// violated the session contract (ErrDisposed, ErrNotSetUp), the platform
// broke the payload typing contract, or verification was impossible
// because no public key is configured. Everything else resolves to exactly
// one synchronous listener dispatch.
func (h *Helper) HandlePurchaseResult(e ResultEvent) (bool, error) {
	h.mu.Lock()
	if h.requestCode == 0 || e.RequestCode != h.requestCode {
		h.mu.Unlock()
		return false, nil
	}

	switch h.state {
	case sessionDisposed:
		h.mu.Unlock()
		return true, ErrDisposed
	case sessionCreated:
		h.mu.Unlock()
		return true, ErrNotSetUp
	}

	listener := h.listener
	itemType := h.purchasingItemType

	// The flow is concluding one way or another: consume the request code
	// so a duplicate event is a no-op, and release the guard.
	h.requestCode = 0
	h.purchasingItemType = ""
	h.listener = nil
	h.mu.Unlock()

	h.guard.end()

	if e.Data == nil {
		h.log.Error("Null data in IAB activity result")
		h.dispatch(listener, NewResult(HelperBadResponse, "Null data in IAB result"), nil)
		return true, nil
	}

	if !e.Data.Has(KeyResponseCode) {
		h.log.Debug("Payload with no response code, assuming OK (known issue)")
	}
	code, err := e.Data.ResponseCode()
	if err != nil {
		h.log.Error("Unexpected type for response code", zap.Error(err))
		return true, err
	}

	if e.Status == StatusOK && code == ResponseOK {
		return true, h.finishSuccessfulFlow(e.Data, itemType, listener)
	}

	switch e.Status {
	case StatusOK:
		// The activity reported OK but billing reported a business error,
		// e.g. item already owned. Surface the platform's own code.
		h.log.Debug("Result status was OK but in-app billing response was not OK",
			zap.String("response", code.Description()))
		h.dispatch(listener, NewResult(code, "Problem purchasing item."), nil)
	case StatusCanceled:
		h.log.Debug("Purchase canceled", zap.String("response", code.Description()))
		h.dispatch(listener, NewResult(HelperUserCanceled, "User canceled."), nil)
	default:
		h.log.Error("Purchase failed",
			zap.Int32("status", int32(e.Status)),
			zap.String("response", code.Description()))
		h.dispatch(listener, NewResult(HelperUnknownPurchaseResponse, "Unknown purchase response."), nil)
	}
	return true, nil
}

func (h *Helper) finishSuccessfulFlow(data Bundle, itemType ItemType, listener PurchaseFinishedFunc) error {
	purchaseData, dataErr := data.String(KeyPurchaseData)
	dataSignature, sigErr := data.String(KeyDataSignature)
	if dataErr != nil || sigErr != nil {
		// The platform always includes both on a true success; their
		// absence is a platform bug, not a parse failure.
		h.log.Error("BUG: either purchaseData or dataSignature is null")
		h.dispatch(listener, NewResult(HelperUnknownError, "IAB returned null purchaseData or dataSignature"), nil)
		return nil
	}

	h.log.Debug("Successful result code from purchase activity",
		zap.String("purchase_data", purchaseData),
		zap.String("data_signature", dataSignature),
		zap.String("item_type", string(itemType)))

	purchase, err := ParsePurchase(itemType, purchaseData, dataSignature)
	if err != nil {
		h.log.Error("Failed to parse purchase data", zap.Error(err))
		h.dispatch(listener, NewResult(HelperBadResponse, "Failed to parse purchase data."), nil)
		return nil
	}

	// Verify over the exact strings received, not the parsed record.
	trusted, err := h.verifier.Verify(purchaseData, dataSignature)
	if err != nil {
		// Verification was never possible. Trusting the purchase anyway is
		// not an option, so this surfaces as a hard misconfiguration.
		h.log.Error("Signature verification unavailable", zap.Error(err))
		return fmt.Errorf("billing: signature verification unavailable: %w", err)
	}
	if !trusted {
		h.log.Error("Purchase signature verification failed", zap.String("sku", purchase.SKU))
		h.dispatch(listener,
			NewResult(HelperVerificationFailed, fmt.Sprintf("Signature verification failed for sku %s", purchase.SKU)),
			purchase)
		return nil
	}

	h.log.Debug("Purchase signature successfully verified", zap.String("sku", purchase.SKU))
	h.dispatch(listener, NewResult(ResponseOK, "Success"), purchase)
	return nil
}

// Dispose marks the session terminal. It is idempotent. Any late-arriving
// result event after disposal is delivered to no one.
func (h *Helper) Dispose() {
	h.mu.Lock()
	if h.state == sessionDisposed {
		h.mu.Unlock()
		return
	}
	h.log.Debug("Disposing")
	h.state = sessionDisposed
	h.listener = nil
	h.mu.Unlock()

	h.guard.end()
}

func (h *Helper) dispatch(listener PurchaseFinishedFunc, result Result, purchase *Purchase) {
	if listener == nil {
		h.log.Debug("No purchase listener registered, dropping result",
			zap.Int32("code", int32(result.Code)),
			zap.String("message", result.Message))
		return
	}
	listener(result, purchase)
}
