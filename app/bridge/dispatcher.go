// Package bridge routes ConnectWallet requests from the game to a wallet
// provider and relays the outcome back into the game.
package bridge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"

	"passgate/app/models"
	"passgate/app/runtime"
	"passgate/app/wallet"
	"passgate/pkg/log"
)

const DefaultRetryInterval = 100 * time.Millisecond

// Result is the immediate answer to a ConnectWallet request. The connect
// outcome itself arrives later through the runtime callbacks.
type Result int

const (
	ResultDispatched Result = iota
	ResultUnsupported
	ResultBusy
)

func (r Result) String() string {
	switch r {
	case ResultDispatched:
		return "dispatched"
	case ResultUnsupported:
		return "unsupported"
	case ResultBusy:
		return "busy"
	default:
		return fmt.Sprintf("result(%d)", int(r))
	}
}

type Config struct {
	RetryInterval  time.Duration `mapstructure:"retryInterval"`
	ConnectTimeout time.Duration `mapstructure:"connectTimeout"` // zero waits for the provider indefinitely
	PetraGlobal    string        `mapstructure:"petraGlobal"`
}

// Dispatcher is idle until a request is accepted and awaiting until its
// callback has been delivered. Requests made while awaiting are refused.
type Dispatcher struct {
	wallet  wallet.Service
	runtime runtime.Sink
	cfg     Config

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	awaiting bool
	wg       sync.WaitGroup
}

func NewDispatcher(w wallet.Service, sink runtime.Sink, cfg Config) *Dispatcher {
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = DefaultRetryInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		wallet:  w,
		runtime: sink,
		cfg:     cfg,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// ConnectWallet starts connecting the named wallet. Unknown names are ignored
// and reported as ResultUnsupported without any callback.
func (d *Dispatcher) ConnectWallet(ctx context.Context, name string) Result {
	wn, provider, err := d.wallet.Resolve(name)
	if err != nil {
		log.Debugw("ignoring connect request", "wallet", name, "reason", err.Error())
		return ResultUnsupported
	}

	d.mu.Lock()
	if d.awaiting {
		d.mu.Unlock()
		log.Infow("connect already in flight, ignoring request", "wallet", wn)
		return ResultBusy
	}
	d.awaiting = true
	d.wg.Add(1)
	d.mu.Unlock()

	log.Infow("connecting wallet", "wallet", wn)
	go d.connect(wn, provider)
	return ResultDispatched
}

// HandleConnectWallet is the WalletBridge.ConnectWallet entry point.
func (d *Dispatcher) HandleConnectWallet(ctx context.Context, arg string) {
	res := d.ConnectWallet(ctx, arg)
	log.Debugw("ConnectWallet handled", "wallet", arg, "result", res.String())
}

// Awaiting reports whether a connect is in flight.
func (d *Dispatcher) Awaiting() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.awaiting
}

// Close abandons pending deliveries and waits for in-flight connects to unwind.
func (d *Dispatcher) Close() {
	d.cancel()
	d.wg.Wait()
}

func (d *Dispatcher) connect(wn models.WalletName, provider wallet.Provider) {
	defer func() {
		d.mu.Lock()
		d.awaiting = false
		d.mu.Unlock()
		d.wg.Done()
	}()

	ctx := d.ctx
	if d.cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.ConnectTimeout)
		defer cancel()
	}

	msg := models.RuntimeMessage{Object: models.ObjectStartGameManager}
	address, err := d.wallet.Connect(ctx, wn, provider)
	if err != nil {
		msg.Method = models.MethodOnWalletConnectFailed
		msg.Arg = fmt.Sprintf("%s connect error: %s", wn.DisplayName(), err.Error())
		log.Warnw("wallet connect failed", "wallet", wn, "error", err.Error())
	} else {
		msg.Method = models.MethodOnWalletConnected
		msg.Arg = address
	}

	if err := d.deliver(d.ctx, msg); err != nil {
		log.Warnw("callback not delivered", "method", msg.Method, "error", err.Error())
	}
}

// deliver waits for the runtime to be ready, then sends msg once. A runtime
// that vanishes between the readiness check and the send is waited for again.
func (d *Dispatcher) deliver(ctx context.Context, msg models.RuntimeMessage) error {
	ticker := time.NewTicker(d.cfg.RetryInterval)
	defer ticker.Stop()

	for {
		if d.runtime.Ready() {
			err := d.runtime.SendMessage(ctx, msg)
			if errors.Cause(err) != runtime.ErrNotConnected {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
