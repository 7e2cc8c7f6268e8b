package custodytest

import "github.com/iov-one/custody"

// Handler is a mock implementation of the custody.Handler interface. It
// counts every call and returns the configured result.
type Handler struct {
	checkCall   int
	CheckResult custody.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult custody.DeliverResult
	DeliverErr    error
}

var _ custody.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx custody.Context, db custody.KVStore, msg custody.Msg) (*custody.CheckResult, error) {
	h.checkCall++
	res := h.CheckResult
	return &res, h.CheckErr
}

func (h *Handler) Deliver(ctx custody.Context, db custody.KVStore, msg custody.Msg) (*custody.DeliverResult, error) {
	h.deliverCall++
	res := h.DeliverResult
	return &res, h.DeliverErr
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}

// WriteHandler writes a single key/value pair on every delivery and then
// returns Err. It is used to verify that failed deliveries leave no trace.
type WriteHandler struct {
	Key   []byte
	Value []byte
	Err   error
}

var _ custody.Handler = (*WriteHandler)(nil)

func (h *WriteHandler) Check(ctx custody.Context, db custody.KVStore, msg custody.Msg) (*custody.CheckResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, h.Err
}

func (h *WriteHandler) Deliver(ctx custody.Context, db custody.KVStore, msg custody.Msg) (*custody.DeliverResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{}, h.Err
}

// PanicHandler always panics.
type PanicHandler struct {
	Msg string
}

var _ custody.Handler = PanicHandler{}

func (p PanicHandler) Check(custody.Context, custody.KVStore, custody.Msg) (*custody.CheckResult, error) {
	panic(p.Msg)
}

func (p PanicHandler) Deliver(custody.Context, custody.KVStore, custody.Msg) (*custody.DeliverResult, error) {
	panic(p.Msg)
}
