package socket

import (
	"bufio"
	"context"
	"io"
	"net"
	"os"
	"strings"
	"sync"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Handler processes messages decoded by a Listener.
type Handler interface {
	// HandleMessage is called for every frame except the stop message.
	// Calls for frames from one connection are sequential; frames from
	// different connections may be handled concurrently. A non-nil error
	// stops the Listener.
	HandleMessage(msg Message) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(msg Message) error

// HandleMessage calls f(msg).
func (f HandlerFunc) HandleMessage(msg Message) error {
	return f(msg)
}

// Listener accepts Sender connections on a Unix domain socket and decodes
// their frames.
type Listener struct {
	listener *net.UnixListener
	endpoint string
	opts     options

	mu     sync.Mutex
	closed bool
	conns  map[*net.UnixConn]struct{}
}

// Listen binds a Unix domain stream socket at endpoint. A socket file
// already at that path is removed only if nothing accepts connections on
// it; a live endpoint fails with ErrListen. Any other file is left in place
// and makes the bind fail.
func Listen(endpoint string, opt ...Option) (*Listener, error) {
	opts := newOptions(opt)

	if err := validateEndpoint(opListen, endpoint); err != nil {
		return nil, err
	}

	if err := removeStaleSocket(endpoint); err != nil {
		return nil, newError(opListen, endpoint, ErrListen, err)
	}

	ln, err := net.ListenUnix("unix", &net.UnixAddr{Name: endpoint, Net: "unix"})
	if err != nil {
		return nil, newError(opListen, endpoint, ErrListen, err)
	}
	ln.SetUnlinkOnClose(true)

	return &Listener{
		listener: ln,
		endpoint: endpoint,
		opts:     opts,
		conns:    make(map[*net.UnixConn]struct{}),
	}, nil
}

func removeStaleSocket(endpoint string) error {
	if strings.HasPrefix(endpoint, "@") {
		return nil // abstract namespace, no file
	}
	fi, err := os.Lstat(endpoint)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if fi.Mode()&os.ModeSocket == 0 {
		return nil
	}

	conn, err := net.DialUnix("unix", nil, &net.UnixAddr{Name: endpoint, Net: "unix"})
	if err == nil {
		conn.Close()
		return errors.New("endpoint in use by another listener")
	}
	if !errors.Is(err, syscall.ECONNREFUSED) {
		return errors.Wrap(err, "check existing socket")
	}
	return os.Remove(endpoint)
}

// Serve accepts connections and dispatches their frames to handler until
// one of the following happens:
//   - a peer sends the stop message: Serve returns nil
//   - ctx is canceled: Serve returns ctx.Err()
//   - handler returns an error: Serve returns it
//   - Close is called: Serve returns nil
//
// All connection goroutines have finished when Serve returns.
func (l *Listener) Serve(ctx context.Context, handler Handler) error {
	l.opts.logger.Info("listener started", "endpoint", l.endpoint)

	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		stopOnce sync.Once
		stopped  = make(chan struct{})
	)
	stop := func() {
		stopOnce.Do(func() {
			close(stopped)
			cancel()
		})
	}

	group, child := errgroup.WithContext(serveCtx)

	group.Go(func() error {
		<-child.Done()
		l.shutdown()
		return nil
	})

	group.Go(func() error {
		defer cancel()
		for {
			conn, err := l.listener.AcceptUnix()
			if err != nil {
				if child.Err() != nil || l.isClosed() {
					return nil
				}
				l.opts.logger.Error("accept error", "endpoint", l.endpoint, "error", err)
				return errors.Wrap(err, "accept")
			}

			if !l.track(conn) {
				conn.Close()
				return nil
			}

			l.opts.logger.Debug("accepted connection", "endpoint", l.endpoint)
			group.Go(func() error {
				return l.serveConn(child, conn, handler, stop)
			})
		}
	})

	err := group.Wait()
	if err != nil {
		l.opts.logger.Info("listener stopped with error", "endpoint", l.endpoint, "error", err)
		return err
	}

	select {
	case <-stopped:
		l.opts.logger.Info("listener stopped by peer", "endpoint", l.endpoint)
		return nil
	default:
	}

	l.opts.logger.Info("listener stopped", "endpoint", l.endpoint)
	return ctx.Err()
}

// serveConn decodes frames from one connection until it ends.
// Decode errors end the connection but not the Listener.
func (l *Listener) serveConn(ctx context.Context, conn *net.UnixConn, handler Handler, stop func()) error {
	defer l.untrack(conn)

	reader := bufio.NewReader(conn)
	for {
		msg, err := ReadMessage(reader, l.opts.order, l.opts.maxPayload)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				l.opts.logger.Debug("connection ended", "endpoint", l.endpoint)
				return nil
			}
			l.opts.logger.Warn("read error", "endpoint", l.endpoint, "error", err)
			return nil
		}

		if msg.IsStop() {
			l.opts.logger.Debug("stop message received", "endpoint", l.endpoint)
			stop()
			return nil
		}

		l.opts.logger.Debug("received message", "endpoint", l.endpoint, "id", msg.ID, "size", msg.Length())
		if err = handler.HandleMessage(msg); err != nil {
			return errors.Wrapf(err, "handle message %d", msg.ID)
		}
	}
}

func (l *Listener) track(conn *net.UnixConn) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return false
	}
	l.conns[conn] = struct{}{}
	return true
}

func (l *Listener) untrack(conn *net.UnixConn) {
	l.mu.Lock()
	delete(l.conns, conn)
	l.mu.Unlock()
	conn.Close()
}

func (l *Listener) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// shutdown closes the listening socket and every open connection,
// unblocking Accept and all pending reads.
func (l *Listener) shutdown() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	conns := make([]*net.UnixConn, 0, len(l.conns))
	for c := range l.conns {
		conns = append(conns, c)
	}
	l.mu.Unlock()

	for _, c := range conns {
		c.Close()
	}
	return l.listener.Close()
}

// Close stops the Listener and removes its socket file. Safe to call
// multiple times.
func (l *Listener) Close() error {
	return l.shutdown()
}

// Addr returns the listener's network address.
func (l *Listener) Addr() net.Addr {
	return l.listener.Addr()
}

// Endpoint returns the path the Listener is bound to.
func (l *Listener) Endpoint() string {
	return l.endpoint
}
